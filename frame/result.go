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

// ResultKind tells which field of Result is set.
type ResultKind uint8

const (
	ScalarResult ResultKind = iota
	SeriesResult
	FrameResult
)

func (k ResultKind) String() string {
	switch k {
	case ScalarResult:
		return "scalar"
	case SeriesResult:
		return "series"
	}
	return "frame"
}

// Result of a selection: exactly one of Scalar, Series or Frame, as indicated
// by Kind.
type Result[V any] struct {
	Kind   ResultKind
	Scalar V
	Series *Series[V]
	Frame  *Frame[V]
}

func scalarResult[V any](v V) Result[V] {
	return Result[V]{Kind: ScalarResult, Scalar: v}
}

func seriesResult[V any](s *Series[V]) Result[V] {
	return Result[V]{Kind: SeriesResult, Series: s}
}

func frameResult[V any](f *Frame[V]) Result[V] {
	return Result[V]{Kind: FrameResult, Frame: f}
}

// Len is the number of selected rows: 1 for a scalar.
func (r Result[V]) Len() int {
	switch r.Kind {
	case SeriesResult:
		return r.Series.Len()
	case FrameResult:
		return r.Frame.Len()
	}
	return 1
}
