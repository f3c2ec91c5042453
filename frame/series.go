// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package frame

import (
	"sort"

	"github.com/stockparfait/errors"
	"golang.org/x/exp/slices"
)

// Series is an ordered sequence of labeled values. Labels are expected to be
// unique; label lookups use the first occurrence otherwise.
type Series[V any] struct {
	name   Label
	labels []Label
	values []V
}

// NewSeries creates a new Series. It panics if labels and values have
// different lengths. Note, that the argument slices are used as is, not
// copied. Use Copy() if arguments need to be modified after the call.
func NewSeries[V any](labels []Label, values []V) *Series[V] {
	if len(labels) != len(values) {
		panic(errors.Reason("len(labels) [%d] != len(values) [%d]",
			len(labels), len(values)))
	}
	return &Series[V]{labels: labels, values: values}
}

// Name of the Series, e.g. the column label it was selected from.
func (s *Series[V]) Name() Label { return s.name }

// WithName sets the name in place and returns self for inline declarations.
func (s *Series[V]) WithName(name Label) *Series[V] {
	s.name = name
	return s
}

// Labels of the Series.
func (s *Series[V]) Labels() []Label { return s.labels }

// Values of the Series.
func (s *Series[V]) Values() []V { return s.values }

// Len is the number of elements.
func (s *Series[V]) Len() int { return len(s.labels) }

// Copy makes a deep copy of the Series.
func (s *Series[V]) Copy() *Series[V] {
	return NewSeries(slices.Clone(s.labels), slices.Clone(s.values)).WithName(s.name)
}

// IsSorted checks if the labels are in non-decreasing order.
func (s *Series[V]) IsSorted() bool { return isSorted(s.labels) }

// take creates a new Series from the values at the given positions.
func (s *Series[V]) take(pos []int) *Series[V] {
	labels := make([]Label, len(pos))
	values := make([]V, len(pos))
	for i, p := range pos {
		labels[i] = s.labels[p]
		values[i] = s.values[p]
	}
	return NewSeries(labels, values).WithName(s.name)
}

// Select resolves the selector in the given mode. An exact selector yields a
// scalar, any other selector yields a Series, possibly empty.
func (s *Series[V]) Select(sel Selector, mode Mode) (Result[V], error) {
	pos, exact, err := resolve(s.labels, sel, mode)
	if err != nil {
		return Result[V]{}, err
	}
	if exact {
		return scalarResult(s.values[pos[0]]), nil
	}
	return seriesResult(s.take(pos)), nil
}

// Loc selects by label.
func (s *Series[V]) Loc(sel Selector) (Result[V], error) {
	return s.Select(sel, ByLabel)
}

// ILoc selects by position.
func (s *Series[V]) ILoc(sel Selector) (Result[V], error) {
	return s.Select(sel, ByPosition)
}

// Bracket is the shorthand s[sel]: label selectors select by label and
// position selectors by position, except that a label slice with numeric or
// omitted bounds selects by position.
func (s *Series[V]) Bracket(sel Selector) (Result[V], error) {
	if sel.numericBounds() {
		return s.Select(sel.asPositions(), ByPosition)
	}
	return s.Select(sel, sel.naturalMode())
}

// At returns the value at the label.
func (s *Series[V]) At(l Label) (V, error) {
	i := slices.Index(s.labels, l)
	if i < 0 {
		var zero V
		return zero, &KeyError{Labels: []Label{l}}
	}
	return s.values[i], nil
}

// Set the value at the existing label, in place.
func (s *Series[V]) Set(l Label, v V) error {
	i := slices.Index(s.labels, l)
	if i < 0 {
		return &KeyError{Labels: []Label{l}}
	}
	s.values[i] = v
	return nil
}

// SetPos sets the value at the position, in place. Negative positions count
// from the end.
func (s *Series[V]) SetPos(i int, v V) error {
	p, ok := normalizePos(i, len(s.values))
	if !ok {
		return &IndexError{Index: i, Len: len(s.values)}
	}
	s.values[p] = v
	return nil
}

// sortPermutation returns positions which stably order the labels.
func sortPermutation(labels []Label) []int {
	perm := stepRange(0, len(labels), 1)
	sort.SliceStable(perm, func(i, j int) bool {
		return labels[perm[i]].Less(labels[perm[j]])
	})
	return perm
}

// SortIndex returns a copy of the Series sorted by label.
func (s *Series[V]) SortIndex() *Series[V] {
	return s.take(sortPermutation(s.labels))
}

// SortIndexInPlace sorts the Series by label and returns self.
func (s *Series[V]) SortIndexInPlace() *Series[V] {
	sorted := s.SortIndex()
	s.labels, s.values = sorted.labels, sorted.values
	return s
}

// renameLabels maps labels present in m to their new values.
func renameLabels(labels []Label, m map[Label]Label) []Label {
	res := make([]Label, len(labels))
	for i, l := range labels {
		if l2, ok := m[l]; ok {
			res[i] = l2
		} else {
			res[i] = l
		}
	}
	return res
}

// Rename returns a copy of the Series with labels replaced according to m.
// Labels not in m are kept.
func (s *Series[V]) Rename(m map[Label]Label) *Series[V] {
	return NewSeries(renameLabels(s.labels, m), slices.Clone(s.values)).WithName(s.name)
}

// RenameInPlace replaces the labels according to m and returns self.
func (s *Series[V]) RenameInPlace(m map[Label]Label) *Series[V] {
	s.labels = renameLabels(s.labels, m)
	return s
}
