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
	"io"
	"math"
	"strconv"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/lectures/table"
)

// FormatValue renders a cell value for CSV or text output. Floats use the
// shortest representation that parses back to the same value; NaN is an
// empty cell.
func FormatValue(v any) string {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		if math.IsNaN(float64(x)) {
			return ""
		}
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

// Table renders the Series as a two-column table of labels and values. The
// value column is headed by the Series name.
func (s *Series[V]) Table() *table.Table {
	t := table.NewTable("", s.name.String())
	for i, l := range s.labels {
		t.AddRow(table.Strings{l.String(), FormatValue(s.values[i])})
	}
	return t
}

// Table renders the Frame with the label axis as the first column.
func (f *Frame[V]) Table() *table.Table {
	header := make([]string, len(f.columns)+1)
	header[0] = f.indexName
	for j, c := range f.columns {
		header[j+1] = c.String()
	}
	t := table.NewTable(header...)
	for i, l := range f.index {
		row := make(table.Strings, len(f.columns)+1)
		row[0] = l.String()
		for j := range f.columns {
			row[j+1] = FormatValue(f.data[j][i])
		}
		t.AddRow(row)
	}
	return t
}

// Table renders any kind of Result: a scalar becomes a single cell.
func (r Result[V]) Table() *table.Table {
	switch r.Kind {
	case SeriesResult:
		return r.Series.Table()
	case FrameResult:
		return r.Frame.Table()
	}
	t := table.NewTable()
	t.AddRow(table.Strings{FormatValue(r.Scalar)})
	return t
}

// WriteCSV writes the Frame in CSV format: the header of the index name and
// column names, then one row per label in index order.
func (f *Frame[V]) WriteCSV(w io.Writer) error {
	if err := f.Table().WriteCSV(w, table.Params{}); err != nil {
		return errors.Annotate(err, "failed to write frame as CSV")
	}
	return nil
}

// ReadCSV reads a Frame of floats as written by WriteCSV. Row labels are read
// as strings, empty cells as NaN.
func ReadCSV(r io.Reader) (*Frame[float64], error) {
	t, err := table.ReadCSV(r, table.Params{})
	if err != nil {
		return nil, errors.Annotate(err, "failed to read CSV")
	}
	if len(t.Header) == 0 {
		return nil, errors.Reason("missing CSV header")
	}
	columns := Strs(t.Header[1:]...)
	index := make([]Label, len(t.Rows))
	data := make([][]float64, len(columns))
	for j := range data {
		data[j] = make([]float64, len(t.Rows))
	}
	for i, row := range t.Rows {
		cells := row.CSV()
		index[i] = Str(cells[0])
		for j, c := range cells[1:] {
			if c == "" {
				data[j][i] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(c, 64)
			if err != nil {
				return nil, errors.Annotate(err, "row %d, column '%s'", i+1, columns[j])
			}
			data[j][i] = v
		}
	}
	f, err := NewFrame(index, columns, data)
	if err != nil {
		return nil, errors.Annotate(err, "inconsistent CSV data")
	}
	return f.SetIndexName(t.Header[0]), nil
}
