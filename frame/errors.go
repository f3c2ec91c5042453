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
	"strings"
)

// KeyError is returned when a label required by a selector is absent from the
// axis.
type KeyError struct {
	Labels []Label // the missing labels
}

func (e *KeyError) Error() string {
	names := make([]string, len(e.Labels))
	for i, l := range e.Labels {
		names[i] = fmt.Sprintf("%q", l.String())
	}
	return fmt.Sprintf("labels not found in axis: [%s]", strings.Join(names, ", "))
}

// IndexError is returned when a position required by a selector is out of
// bounds.
type IndexError struct {
	Index int // the offending position as given by the caller
	Len   int // the length of the axis
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("position %d is out of bounds for axis of length %d",
		e.Index, e.Len)
}

// SelectorError is returned for a malformed selector or a selector kind which
// is not valid in the requested mode.
type SelectorError struct {
	Msg string
}

func (e *SelectorError) Error() string { return "invalid selector: " + e.Msg }

func selectorErrorf(format string, args ...any) *SelectorError {
	return &SelectorError{Msg: fmt.Sprintf(format, args...)}
}
