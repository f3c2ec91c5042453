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

// Package frame implements labeled one- and two-dimensional containers and
// their indexing semantics.
//
// A Series is an ordered list of (Label, value) pairs. A Frame is an ordered
// list of named columns sharing one label axis, the row index. Both are
// indexed with a Selector, which is a tagged union of a single label or
// position, a list of labels or positions, a label or position slice, or the
// whole axis.
//
// Label selection (Loc) follows the index: a single label must exist, a label
// slice includes both endpoints and, on a sorted index, need not match any
// label exactly. Position selection (ILoc) follows Go/Python slicing: negative
// positions count from the end, slices exclude the end and are clamped to the
// valid range. Bracket implements the ambiguous shorthand form, which on a
// Frame names columns unless the selector is a slice.
//
// The result of any selection is a Result, which holds exactly one of a
// scalar, a Series or a Frame. Only exact selectors (a single label or a
// single position) reduce the dimension of the result.
package frame

import (
	"strconv"
)

// Label is a row or column identifier: either a string or an integer.
type Label struct {
	IsNumber bool // which field to use as a value
	number   int
	string   string
}

// Str creates a string Label.
func Str(s string) Label {
	return Label{string: s}
}

// Num creates a numeric Label.
func Num(n int) Label {
	return Label{IsNumber: true, number: n}
}

// Strs converts strings to Labels.
func Strs(ss ...string) []Label {
	res := make([]Label, len(ss))
	for i, s := range ss {
		res[i] = Str(s)
	}
	return res
}

// Nums converts integers to Labels.
func Nums(ns ...int) []Label {
	res := make([]Label, len(ns))
	for i, n := range ns {
		res[i] = Num(n)
	}
	return res
}

// Number value of the label; 0 for string labels.
func (l Label) Number() int { return l.number }

func (l Label) String() string {
	if l.IsNumber {
		return strconv.Itoa(l.number)
	}
	return l.string
}

// Less orders labels: all numbers are smaller than all strings, otherwise the
// natural order of the kind applies.
func (l Label) Less(l2 Label) bool {
	if l.IsNumber != l2.IsNumber {
		return l.IsNumber
	}
	if l.IsNumber {
		return l.number < l2.number
	}
	return l.string < l2.string
}

func lessLabel(a, b Label) bool { return a.Less(b) }
