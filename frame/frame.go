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
	"github.com/stockparfait/errors"
	"golang.org/x/exp/slices"
)

// Frame is a table of named columns sharing the row index.
type Frame[V any] struct {
	indexName string
	index     []Label
	columns   []Label
	data      [][]V // data[column][row]
}

// NewFrame creates a Frame from column-major data: data[j] holds the values of
// columns[j] for every row of the index. The argument slices are used as is.
func NewFrame[V any](index, columns []Label, data [][]V) (*Frame[V], error) {
	if len(columns) != len(data) {
		return nil, errors.Reason("len(columns) [%d] != len(data) [%d]",
			len(columns), len(data))
	}
	seen := make(map[Label]struct{}, len(columns))
	for j, c := range columns {
		if _, ok := seen[c]; ok {
			return nil, errors.Reason("duplicate column name '%s'", c)
		}
		seen[c] = struct{}{}
		if len(data[j]) != len(index) {
			return nil, errors.Reason("column '%s' has %d values, index has %d",
				c, len(data[j]), len(index))
		}
	}
	return &Frame[V]{index: index, columns: columns, data: data}, nil
}

// FromSeries creates a Frame whose columns are the given Series, named by
// their Name(). The Series values are aligned to the index by position, so
// each Series must have the same length as the index.
func FromSeries[V any](index []Label, series ...*Series[V]) (*Frame[V], error) {
	columns := make([]Label, len(series))
	data := make([][]V, len(series))
	for j, s := range series {
		columns[j] = s.Name()
		data[j] = slices.Clone(s.Values())
		if data[j] == nil {
			data[j] = []V{}
		}
	}
	return NewFrame(slices.Clone(index), columns, data)
}

// IndexName is the name of the label axis, used as the first CSV header.
func (f *Frame[V]) IndexName() string { return f.indexName }

// SetIndexName sets the name of the label axis and returns self.
func (f *Frame[V]) SetIndexName(name string) *Frame[V] {
	f.indexName = name
	return f
}

// Index is the row label axis.
func (f *Frame[V]) Index() []Label { return f.index }

// Columns are the column names in order.
func (f *Frame[V]) Columns() []Label { return f.columns }

// Len is the number of rows.
func (f *Frame[V]) Len() int { return len(f.index) }

// IsSorted checks if the row index is in non-decreasing order.
func (f *Frame[V]) IsSorted() bool { return isSorted(f.index) }

// Copy makes a deep copy of the Frame.
func (f *Frame[V]) Copy() *Frame[V] {
	data := make([][]V, len(f.data))
	for j, col := range f.data {
		data[j] = append([]V{}, col...)
	}
	return &Frame[V]{
		indexName: f.indexName,
		index:     append([]Label{}, f.index...),
		columns:   append([]Label{}, f.columns...),
		data:      data,
	}
}

// take creates a new Frame from the given row and column positions.
func (f *Frame[V]) take(rows, cols []int) *Frame[V] {
	index := make([]Label, len(rows))
	for i, r := range rows {
		index[i] = f.index[r]
	}
	columns := make([]Label, len(cols))
	data := make([][]V, len(cols))
	for j, c := range cols {
		columns[j] = f.columns[c]
		data[j] = make([]V, len(rows))
		for i, r := range rows {
			data[j][i] = f.data[c][r]
		}
	}
	return &Frame[V]{indexName: f.indexName, index: index, columns: columns, data: data}
}

// row is the Series of a single row over the given column positions, labeled
// by column names and named by the row label.
func (f *Frame[V]) row(r int, cols []int) *Series[V] {
	labels := make([]Label, len(cols))
	values := make([]V, len(cols))
	for j, c := range cols {
		labels[j] = f.columns[c]
		values[j] = f.data[c][r]
	}
	return NewSeries(labels, values).WithName(f.index[r])
}

// column is the Series of a single column over the given row positions,
// labeled by the row index and named by the column name.
func (f *Frame[V]) column(c int, rows []int) *Series[V] {
	labels := make([]Label, len(rows))
	values := make([]V, len(rows))
	for i, r := range rows {
		labels[i] = f.index[r]
		values[i] = f.data[c][r]
	}
	return NewSeries(labels, values).WithName(f.columns[c])
}

// Select resolves the row and column selectors independently in the given
// mode. The dimension of the result drops only for exact selectors:
//
//   - exact row and exact column: scalar;
//   - exact row, any other column selector: the row as a Series;
//   - exact column, any other row selector: the column as a Series;
//   - otherwise: a Frame, possibly with a single row or no rows at all.
func (f *Frame[V]) Select(rows, cols Selector, mode Mode) (Result[V], error) {
	rp, rowExact, err := resolve(f.index, rows, mode)
	if err != nil {
		return Result[V]{}, err
	}
	cp, colExact, err := resolve(f.columns, cols, mode)
	if err != nil {
		return Result[V]{}, err
	}
	switch {
	case rowExact && colExact:
		return scalarResult(f.data[cp[0]][rp[0]]), nil
	case rowExact:
		return seriesResult(f.row(rp[0], cp)), nil
	case colExact:
		return seriesResult(f.column(cp[0], rp)), nil
	}
	return frameResult(f.take(rp, cp)), nil
}

// columnSelector returns the only column selector, or All() if omitted.
func columnSelector(cols []Selector) (Selector, error) {
	switch len(cols) {
	case 0:
		return All(), nil
	case 1:
		return cols[0], nil
	}
	return Selector{}, selectorErrorf("expected at most one column selector, got %d",
		len(cols))
}

// Loc selects by label, as in df.loc[rows, cols]. Omitted cols select all
// columns.
func (f *Frame[V]) Loc(rows Selector, cols ...Selector) (Result[V], error) {
	c, err := columnSelector(cols)
	if err != nil {
		return Result[V]{}, err
	}
	return f.Select(rows, c, ByLabel)
}

// ILoc selects by position, as in df.iloc[rows, cols]. Omitted cols select
// all columns.
func (f *Frame[V]) ILoc(rows Selector, cols ...Selector) (Result[V], error) {
	c, err := columnSelector(cols)
	if err != nil {
		return Result[V]{}, err
	}
	return f.Select(rows, c, ByPosition)
}

// Bracket is the shorthand df[sel]. A slice selects rows: a label slice with
// numeric or omitted bounds and a position slice select by position, any
// other label slice selects by label. Any other selector names columns, which
// must match exactly: a single name yields the column Series, a list yields a
// Frame with the columns in the given order. Positions in a column selector
// are treated as numeric column names.
func (f *Frame[V]) Bracket(sel Selector) (Result[V], error) {
	switch sel.kind {
	case SelectAll:
		return frameResult(f.Copy()), nil
	case LabelSlice:
		if sel.numericBounds() {
			return f.Select(sel.asPositions(), All(), ByPosition)
		}
		return f.Select(sel, All(), ByLabel)
	case IndexSlice:
		return f.Select(sel, All(), ByPosition)
	case SingleIndex:
		return f.Select(All(), Key(Num(sel.indices[0])), ByLabel)
	case IndexList:
		return f.Select(All(), Keys(Nums(sel.indices...)...), ByLabel)
	}
	return f.Select(All(), sel, ByLabel)
}

// Column returns the named column as a Series.
func (f *Frame[V]) Column(name Label) (*Series[V], error) {
	j := slices.Index(f.columns, name)
	if j < 0 {
		return nil, &KeyError{Labels: []Label{name}}
	}
	return f.column(j, stepRange(0, len(f.index), 1)), nil
}

// Set the value at the existing row label and column name, in place.
func (f *Frame[V]) Set(row, col Label, v V) error {
	i := slices.Index(f.index, row)
	j := slices.Index(f.columns, col)
	var missing []Label
	if i < 0 {
		missing = append(missing, row)
	}
	if j < 0 {
		missing = append(missing, col)
	}
	if len(missing) > 0 {
		return &KeyError{Labels: missing}
	}
	f.data[j][i] = v
	return nil
}

// SetPos sets the value at the row and column positions, in place.
func (f *Frame[V]) SetPos(row, col int, v V) error {
	i, ok := normalizePos(row, len(f.index))
	if !ok {
		return &IndexError{Index: row, Len: len(f.index)}
	}
	j, ok := normalizePos(col, len(f.columns))
	if !ok {
		return &IndexError{Index: col, Len: len(f.columns)}
	}
	f.data[j][i] = v
	return nil
}

// SortIndex returns a copy of the Frame with rows sorted by label.
func (f *Frame[V]) SortIndex() *Frame[V] {
	return f.take(sortPermutation(f.index), stepRange(0, len(f.columns), 1))
}

// SortIndexInPlace sorts the rows by label and returns self.
func (f *Frame[V]) SortIndexInPlace() *Frame[V] {
	sorted := f.SortIndex()
	f.index, f.data = sorted.index, sorted.data
	return f
}

// Rename returns a copy of the Frame with row labels replaced according to m.
func (f *Frame[V]) Rename(m map[Label]Label) *Frame[V] {
	res := f.Copy()
	res.index = renameLabels(f.index, m)
	return res
}

// RenameInPlace replaces the row labels according to m and returns self.
func (f *Frame[V]) RenameInPlace(m map[Label]Label) *Frame[V] {
	f.index = renameLabels(f.index, m)
	return f
}
