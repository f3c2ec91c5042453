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
	"fmt"
)

// SelectorKind is the tag of the Selector union.
type SelectorKind uint8

const (
	SelectAll   SelectorKind = iota // the whole axis
	SingleLabel                     // exactly one label
	LabelList                       // labels in the given order
	LabelSlice                      // inclusive label range
	SingleIndex                     // exactly one position
	IndexList                       // positions in the given order
	IndexSlice                      // end-exclusive position range
)

func (k SelectorKind) String() string {
	switch k {
	case SelectAll:
		return "All"
	case SingleLabel:
		return "SingleLabel"
	case LabelList:
		return "LabelList"
	case LabelSlice:
		return "LabelSlice"
	case SingleIndex:
		return "SingleIndex"
	case IndexList:
		return "IndexList"
	case IndexSlice:
		return "IndexSlice"
	}
	return fmt.Sprintf("SelectorKind(%d)", k)
}

// Mode of selection: by label (Loc) or by position (ILoc).
type Mode uint8

const (
	ByLabel Mode = iota
	ByPosition
)

func (m Mode) String() string {
	if m == ByPosition {
		return "position"
	}
	return "label"
}

// Selector picks elements along one axis. Use the constructors below; the
// zero value selects the whole axis.
type Selector struct {
	kind     SelectorKind
	labels   []Label // SingleLabel, LabelList
	indices  []int   // SingleIndex, IndexList
	start    *Label  // LabelSlice; nil is unbounded
	end      *Label
	startPos *int // IndexSlice; nil is unbounded
	endPos   *int
	step     int
	stepSet  bool
}

// All selects the whole axis. This is what an omitted column selector means.
func All() Selector { return Selector{kind: SelectAll} }

// Key selects exactly one label.
func Key(l Label) Selector {
	return Selector{kind: SingleLabel, labels: []Label{l}}
}

// Keys selects a list of labels, preserving the given order.
func Keys(ls ...Label) Selector {
	return Selector{kind: LabelList, labels: ls}
}

// KeySlice selects an inclusive label range. A nil bound is unbounded.
func KeySlice(start, end *Label) Selector {
	return Selector{kind: LabelSlice, start: start, end: end}
}

// Between is KeySlice with both bounds, i.e. [a:b] by label.
func Between(a, b Label) Selector { return KeySlice(&a, &b) }

// From is KeySlice without the end bound, i.e. [a:] by label.
func From(a Label) Selector { return KeySlice(&a, nil) }

// Until is KeySlice without the start bound, i.e. [:b] by label.
func Until(b Label) Selector { return KeySlice(nil, &b) }

// Pos selects exactly one position. Negative positions count from the end.
func Pos(i int) Selector {
	return Selector{kind: SingleIndex, indices: []int{i}}
}

// Positions selects a list of positions, preserving the given order.
func Positions(is ...int) Selector {
	return Selector{kind: IndexList, indices: is}
}

// PosSlice selects an end-exclusive position range. A nil bound is unbounded.
func PosSlice(start, end *int) Selector {
	return Selector{kind: IndexSlice, startPos: start, endPos: end}
}

// Span is PosSlice with both bounds, i.e. [a:b] by position.
func Span(a, b int) Selector { return PosSlice(&a, &b) }

// Head is PosSlice without the start bound, i.e. [:b] by position.
func Head(b int) Selector { return PosSlice(nil, &b) }

// Tail is PosSlice without the end bound, i.e. [a:] by position.
func Tail(a int) Selector { return PosSlice(&a, nil) }

// Step returns a copy of a slice selector with the given step. A negative
// step walks the axis backwards. Step 0 is invalid. Calling Step on a
// non-slice selector makes it invalid as well.
func (s Selector) Step(n int) Selector {
	s.step = n
	s.stepSet = true
	return s
}

// Kind of the selector.
func (s Selector) Kind() SelectorKind { return s.kind }

// IsExact is true for the selectors naming exactly one label or position.
func (s Selector) IsExact() bool {
	return s.kind == SingleLabel || s.kind == SingleIndex
}

// IsSlice is true for label and position slices.
func (s Selector) IsSlice() bool {
	return s.kind == LabelSlice || s.kind == IndexSlice
}

// stepValue is the effective step of a slice.
func (s Selector) stepValue() int {
	if !s.stepSet {
		return 1
	}
	return s.step
}

// naturalMode is the mode implied by the selector kind.
func (s Selector) naturalMode() Mode {
	switch s.kind {
	case SingleIndex, IndexList, IndexSlice:
		return ByPosition
	}
	return ByLabel
}

// numericBounds is true for a label slice whose bounds are all numbers or
// omitted, which the bracket shorthand treats as positions.
func (s Selector) numericBounds() bool {
	if s.kind != LabelSlice {
		return false
	}
	return (s.start == nil || s.start.IsNumber) && (s.end == nil || s.end.IsNumber)
}

// asPositions converts a numeric label slice into a position slice.
func (s Selector) asPositions() Selector {
	var start, end *int
	if s.start != nil {
		n := s.start.Number()
		start = &n
	}
	if s.end != nil {
		n := s.end.Number()
		end = &n
	}
	res := PosSlice(start, end)
	res.step = s.step
	res.stepSet = s.stepSet
	return res
}

// check validates the selector for the given mode.
func (s Selector) check(mode Mode) error {
	if s.stepSet {
		if !s.IsSlice() {
			return selectorErrorf("step is only valid for slices, got %s", s.kind)
		}
		if s.step == 0 {
			return selectorErrorf("slice step cannot be zero")
		}
	}
	if s.kind != SelectAll && s.naturalMode() != mode {
		return selectorErrorf("%s selector cannot be used for %s selection",
			s.kind, mode)
	}
	return nil
}

func (s Selector) String() string {
	bound := func(l *Label) string {
		if l == nil {
			return ""
		}
		return fmt.Sprintf("%q", l.String())
	}
	pos := func(i *int) string {
		if i == nil {
			return ""
		}
		return fmt.Sprintf("%d", *i)
	}
	step := ""
	if s.stepSet {
		step = fmt.Sprintf(":%d", s.step)
	}
	switch s.kind {
	case SingleLabel:
		return bound(&s.labels[0])
	case LabelList:
		return fmt.Sprintf("%v", s.labels)
	case LabelSlice:
		return bound(s.start) + ":" + bound(s.end) + step
	case SingleIndex:
		return fmt.Sprintf("%d", s.indices[0])
	case IndexList:
		return fmt.Sprintf("%v", s.indices)
	case IndexSlice:
		return pos(s.startPos) + ":" + pos(s.endPos) + step
	}
	return ":"
}
