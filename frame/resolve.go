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

	"golang.org/x/exp/slices"
)

// isSorted checks that the axis labels are in non-decreasing order.
func isSorted(axis []Label) bool {
	return slices.IsSortedFunc(axis, lessLabel)
}

// resolve the selector against the axis into the list of selected positions,
// in the order of selection. The second value is true when the selector is
// exact, which tells the caller to drop the axis from the result.
func resolve(axis []Label, sel Selector, mode Mode) ([]int, bool, error) {
	if err := sel.check(mode); err != nil {
		return nil, false, err
	}
	n := len(axis)
	switch sel.kind {
	case SelectAll:
		return stepRange(0, n, 1), false, nil
	case SingleLabel:
		i := slices.Index(axis, sel.labels[0])
		if i < 0 {
			return nil, false, &KeyError{Labels: sel.labels}
		}
		return []int{i}, true, nil
	case LabelList:
		res := make([]int, len(sel.labels))
		var missing []Label
		for j, l := range sel.labels {
			res[j] = slices.Index(axis, l)
			if res[j] < 0 {
				missing = append(missing, l)
			}
		}
		if len(missing) > 0 {
			return nil, false, &KeyError{Labels: missing}
		}
		return res, false, nil
	case LabelSlice:
		res, err := labelSlice(axis, sel.start, sel.end, sel.stepValue())
		return res, false, err
	case SingleIndex:
		i, ok := normalizePos(sel.indices[0], n)
		if !ok {
			return nil, false, &IndexError{Index: sel.indices[0], Len: n}
		}
		return []int{i}, true, nil
	case IndexList:
		res := make([]int, len(sel.indices))
		for j, i := range sel.indices {
			p, ok := normalizePos(i, n)
			if !ok {
				return nil, false, &IndexError{Index: i, Len: n}
			}
			res[j] = p
		}
		return res, false, nil
	case IndexSlice:
		s, e, step := sliceIndices(n, sel.startPos, sel.endPos, sel.stepValue())
		return stepRange(s, e, step), false, nil
	}
	return nil, false, selectorErrorf("unsupported selector kind %s", sel.kind)
}

// normalizePos maps a possibly negative position into [0..n).
func normalizePos(i, n int) (int, bool) {
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, false
	}
	return i, true
}

// sliceIndices computes the effective start, exclusive end and step of a
// position slice over n elements, clamping the bounds the same way Python's
// slice.indices() does. The step must not be zero.
func sliceIndices(n int, start, end *int, step int) (s, e, st int) {
	lower, upper := 0, n
	if step < 0 {
		lower, upper = -1, n-1
	}
	adjust := func(p *int, dflt int) int {
		if p == nil {
			return dflt
		}
		x := *p
		if x < 0 {
			x += n
			if x < lower {
				x = lower
			}
		} else if x > upper {
			x = upper
		}
		return x
	}
	if step > 0 {
		return adjust(start, lower), adjust(end, upper), step
	}
	return adjust(start, upper), adjust(end, lower), step
}

// stepRange lists positions from s (inclusive) towards e (exclusive). It never
// returns nil, so that empty selections still yield valid containers. The
// loop stops before i+step could overflow.
func stepRange(s, e, step int) []int {
	res := []int{}
	if step > 0 {
		for i := s; i < e; i += step {
			res = append(res, i)
			if step >= e-i {
				break
			}
		}
		return res
	}
	for i := s; i > e; i += step {
		res = append(res, i)
		if step <= e-i {
			break
		}
	}
	return res
}

// labelSlice selects an inclusive label range. On a sorted axis the bounds
// need not be present. On an unsorted axis every given bound must be present,
// and the range runs between the first occurrences of the bounds.
func labelSlice(axis []Label, start, end *Label, step int) ([]int, error) {
	n := len(axis)
	// lowerBound is the first position with label >= l.
	lowerBound := func(l Label) int {
		return sort.Search(n, func(i int) bool { return !axis[i].Less(l) })
	}
	// upperBound is the first position with label > l.
	upperBound := func(l Label) int {
		return sort.Search(n, func(i int) bool { return l.Less(axis[i]) })
	}
	if isSorted(axis) {
		if step > 0 {
			s, e := 0, n
			if start != nil {
				s = lowerBound(*start)
			}
			if end != nil {
				e = upperBound(*end)
			}
			return stepRange(s, e, step), nil
		}
		s, e := n-1, -1
		if start != nil {
			s = upperBound(*start) - 1
		}
		if end != nil {
			e = lowerBound(*end) - 1
		}
		return stepRange(s, e, step), nil
	}

	var missing []Label
	find := func(l *Label, dflt int) int {
		if l == nil {
			return dflt
		}
		i := slices.Index(axis, *l)
		if i < 0 {
			missing = append(missing, *l)
		}
		return i
	}
	var s, e int
	if step > 0 {
		s = find(start, 0)
		e = find(end, n-1) + 1
	} else {
		s = find(start, n-1)
		e = find(end, 0) - 1
	}
	if len(missing) > 0 {
		return nil, &KeyError{Labels: missing}
	}
	return stepRange(s, e, step), nil
}
