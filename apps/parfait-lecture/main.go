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

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/lectures/frame"
	"github.com/stockparfait/lectures/stats"
	"github.com/stockparfait/lectures/table"
	"github.com/stockparfait/logging"

	"golang.org/x/exp/slices"
)

type Flags struct {
	Section  string // avgs, series, frame, bracket or all
	CSV      bool   // print tables in CSV format; default: text
	LogLevel logging.Level
}

var sectionNames = []string{"avgs", "series", "frame", "bracket", "all"}

func parseFlags(args []string) (*Flags, error) {
	var flags Flags
	fs := flag.NewFlagSet("parfait-lecture", flag.ExitOnError)
	fs.StringVar(&flags.Section, "section", "all",
		"section to replay: avgs, series, frame, bracket or all")
	fs.BoolVar(&flags.CSV, "csv", false, "print tables in CSV format; default: text")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")

	err := fs.Parse(args)
	if err != nil {
		return nil, err
	}
	if slices.Index(sectionNames, flags.Section) < 0 {
		return nil, errors.Reason("unknown -section '%s'", flags.Section)
	}
	return &flags, nil
}

// Ten trading days of QAN.AX close prices.
var (
	dates = []string{
		"2020-01-02",
		"2020-01-03",
		"2020-01-06",
		"2020-01-07",
		"2020-01-08",
		"2020-01-09",
		"2020-01-10",
		"2020-01-13",
		"2020-01-14",
		"2020-01-15",
	}
	prices = []float64{7.16, 7.19, 7.00, 7.10, 6.86, 6.95, 7.00, 7.02, 7.11, 7.04}
)

func priceSeries() *frame.Series[float64] {
	return frame.NewSeries(frame.Strs(dates...), slices.Clone(prices)).WithName(frame.Str("Close"))
}

// priceFrame has the Close prices and the trading day counter Bday.
func priceFrame() *frame.Frame[float64] {
	bday := make([]float64, len(dates))
	for i := range bday {
		bday[i] = float64(i + 1)
	}
	index := frame.Strs(dates...)
	f, err := frame.FromSeries(index, priceSeries(),
		frame.NewSeries(index, bday).WithName(frame.Str("Bday")))
	if err != nil {
		panic(err)
	}
	return f
}

// example is a single selection to print. An error is an expected outcome and
// is printed too.
type example struct {
	Title string
	Run   func() (*table.Table, error)
}

func result[V any](r frame.Result[V], err error) (*table.Table, error) {
	if err != nil {
		return nil, err
	}
	return r.Table(), nil
}

func seriesTable[V any](s *frame.Series[V], err error) (*table.Table, error) {
	if err != nil {
		return nil, err
	}
	return s.Table(), nil
}

func key(s string) frame.Label { return frame.Str(s) }

func seriesExamples() []example {
	ser := priceSeries()
	unsorted := frame.NewSeries(frame.Strs("a", "c", "b"), []float64{1, 3, 2})
	return []example{
		{"ser.loc['2020-01-10']", func() (*table.Table, error) {
			return result(ser.Loc(frame.Key(key("2020-01-10"))))
		}},
		{"ser.loc['3000-01-10']", func() (*table.Table, error) {
			return result(ser.Loc(frame.Key(key("3000-01-10"))))
		}},
		{"ser2 = ser.copy(); ser2.loc['2020-01-02'] = 0", func() (*table.Table, error) {
			ser2 := ser.Copy()
			return seriesTable(ser2, ser2.Set(key("2020-01-02"), 0))
		}},
		{"ser.loc[['2020-01-03', '2020-01-10']]", func() (*table.Table, error) {
			return result(ser.Loc(frame.Keys(key("2020-01-03"), key("2020-01-10"))))
		}},
		{"ser.loc['2020-01-03':'2020-01-10']", func() (*table.Table, error) {
			return result(ser.Loc(frame.Between(key("2020-01-03"), key("2020-01-10"))))
		}},
		{"ser.iloc[0]", func() (*table.Table, error) {
			return result(ser.ILoc(frame.Pos(0)))
		}},
		{"ser.iloc[-1]", func() (*table.Table, error) {
			return result(ser.ILoc(frame.Pos(-1)))
		}},
		{"ser.iloc[100]", func() (*table.Table, error) {
			return result(ser.ILoc(frame.Pos(100)))
		}},
		{"s2 = ser.copy(); s2.iloc[0] = 0", func() (*table.Table, error) {
			s2 := ser.Copy()
			return seriesTable(s2, s2.SetPos(0, 0))
		}},
		{"ser.iloc[[0, 2]]", func() (*table.Table, error) {
			return result(ser.ILoc(frame.Positions(0, 2)))
		}},
		{"ser.iloc[0:1]", func() (*table.Table, error) {
			return result(ser.ILoc(frame.Span(0, 1)))
		}},
		{"ser.iloc[0:2]", func() (*table.Table, error) {
			return result(ser.ILoc(frame.Span(0, 2)))
		}},
		{"new_ser['a':'b'] (unsorted)", func() (*table.Table, error) {
			return result(unsorted.Loc(frame.Between(key("a"), key("b"))))
		}},
		{"new_ser['b':'z'] (unsorted)", func() (*table.Table, error) {
			return result(unsorted.Loc(frame.Between(key("b"), key("z"))))
		}},
		{"new_ser.sort_index()['a':'b']", func() (*table.Table, error) {
			return result(unsorted.SortIndex().Loc(frame.Between(key("a"), key("b"))))
		}},
		{"new_ser.sort_index()['b':'z']", func() (*table.Table, error) {
			return result(unsorted.SortIndex().Loc(frame.Between(key("b"), key("z"))))
		}},
	}
}

func frameExamples() []example {
	df := priceFrame()
	return []example{
		{"df", func() (*table.Table, error) { return df.Table(), nil }},
		{"df.loc['2020-01-03', 'Close']", func() (*table.Table, error) {
			return result(df.Loc(frame.Key(key("2020-01-03")), frame.Key(key("Close"))))
		}},
		{"df.loc[:, 'Close']", func() (*table.Table, error) {
			return result(df.Loc(frame.All(), frame.Key(key("Close"))))
		}},
		{"df.loc['2020-01-03']", func() (*table.Table, error) {
			return result(df.Loc(frame.Key(key("2020-01-03"))))
		}},
		{"df.loc['2020-01-01']", func() (*table.Table, error) {
			return result(df.Loc(frame.Key(key("2020-01-01"))))
		}},
		{"df.loc[['2020-01-02', '2020-01-03'], 'Close']", func() (*table.Table, error) {
			return result(df.Loc(frame.Keys(key("2020-01-02"), key("2020-01-03")),
				frame.Key(key("Close"))))
		}},
		{"df.loc['2020-01-01':'2020-01-10', :]", func() (*table.Table, error) {
			return result(df.Loc(frame.Between(key("2020-01-01"), key("2020-01-10")), frame.All()))
		}},
		{"df.loc['2999-01-01':'2999-01-10', :]", func() (*table.Table, error) {
			return result(df.Loc(frame.Between(key("2999-01-01"), key("2999-01-10")), frame.All()))
		}},
		{"df.loc['2020-01-06':, :]", func() (*table.Table, error) {
			return result(df.Loc(frame.From(key("2020-01-06")), frame.All()))
		}},
		{"df.loc['2020-01-06', 'Close':]", func() (*table.Table, error) {
			return result(df.Loc(frame.Key(key("2020-01-06")), frame.From(key("Close"))))
		}},
		{"df2 (2020-01-08 renamed to 1900-01-01).loc['2020-01-03':'2020-01-10', :]", func() (*table.Table, error) {
			df2 := df.Rename(map[frame.Label]frame.Label{key("2020-01-08"): key("1900-01-01")})
			return result(df2.Loc(frame.Between(key("2020-01-03"), key("2020-01-10")), frame.All()))
		}},
		{"df2.sort_index().loc['2020-01-03':'2020-01-10', :]", func() (*table.Table, error) {
			df2 := df.Rename(map[frame.Label]frame.Label{key("2020-01-08"): key("1900-01-01")})
			df2.SortIndexInPlace()
			return result(df2.Loc(frame.Between(key("2020-01-03"), key("2020-01-10")), frame.All()))
		}},
		{"df.loc['2020-01-03':'2020-01-03']", func() (*table.Table, error) {
			return result(df.Loc(frame.Between(key("2020-01-03"), key("2020-01-03"))))
		}},
		{"df.iloc[0]", func() (*table.Table, error) {
			return result(df.ILoc(frame.Pos(0)))
		}},
		{"df.iloc[:, 0]", func() (*table.Table, error) {
			return result(df.ILoc(frame.All(), frame.Pos(0)))
		}},
		{"df.iloc[0, [0, 1]]", func() (*table.Table, error) {
			return result(df.ILoc(frame.Pos(0), frame.Positions(0, 1)))
		}},
		{"df.iloc[0:1, :]", func() (*table.Table, error) {
			return result(df.ILoc(frame.Span(0, 1), frame.All()))
		}},
		{"df.iloc[[0, 1]]", func() (*table.Table, error) {
			return result(df.ILoc(frame.Positions(0, 1)))
		}},
		{"df.iloc[[0, 10]]", func() (*table.Table, error) {
			return result(df.ILoc(frame.Positions(0, 10)))
		}},
		{"df.iloc[1:1000, :]", func() (*table.Table, error) {
			return result(df.ILoc(frame.Span(1, 1000), frame.All()))
		}},
		{"df.iloc[999:1000, :]", func() (*table.Table, error) {
			return result(df.ILoc(frame.Span(999, 1000), frame.All()))
		}},
		{"df.iloc[2:, :]", func() (*table.Table, error) {
			return result(df.ILoc(frame.Tail(2), frame.All()))
		}},
		{"df.iloc[0, 10:]", func() (*table.Table, error) {
			return result(df.ILoc(frame.Pos(0), frame.Tail(10)))
		}},
	}
}

func bracketExamples() []example {
	ser := priceSeries()
	df := priceFrame()
	numeric := frame.NewSeries(frame.Nums(1, -4, 10), []string{"a", "b", "c"})
	return []example{
		{"ser['2020-01-13']", func() (*table.Table, error) {
			return result(ser.Bracket(frame.Key(key("2020-01-13"))))
		}},
		{"ser[['2020-01-02', '3000-01-10']]", func() (*table.Table, error) {
			return result(ser.Bracket(frame.Keys(key("2020-01-02"), key("3000-01-10"))))
		}},
		{"ser['2020-01-13':'3000-01-01']", func() (*table.Table, error) {
			return result(ser.Bracket(frame.Between(key("2020-01-13"), key("3000-01-01"))))
		}},
		{"ser[0]", func() (*table.Table, error) {
			return result(ser.Bracket(frame.Pos(0)))
		}},
		{"ser[[0, 3]]", func() (*table.Table, error) {
			return result(ser.Bracket(frame.Positions(0, 3)))
		}},
		{"ser[:5]", func() (*table.Table, error) {
			return result(ser.Bracket(frame.Head(5)))
		}},
		{"ser[::2]", func() (*table.Table, error) {
			return result(ser.Bracket(frame.PosSlice(nil, nil).Step(2)))
		}},
		{"ser[::-1]", func() (*table.Table, error) {
			return result(ser.Bracket(frame.PosSlice(nil, nil).Step(-1)))
		}},
		{"new_ser[1:-4] (index [1, -4, 10])", func() (*table.Table, error) {
			one, minusFour := frame.Num(1), frame.Num(-4)
			return result(numeric.Bracket(frame.KeySlice(&one, &minusFour)))
		}},
		{"df['Close']", func() (*table.Table, error) {
			return result(df.Bracket(frame.Key(key("Close"))))
		}},
		{"df['CLOSE']", func() (*table.Table, error) {
			return result(df.Bracket(frame.Key(key("CLOSE"))))
		}},
		{"df[['Close', 'Bday']]", func() (*table.Table, error) {
			return result(df.Bracket(frame.Keys(key("Close"), key("Bday"))))
		}},
		{"df['Close':'Bday']", func() (*table.Table, error) {
			return result(df.Bracket(frame.Between(key("Close"), key("Bday"))))
		}},
		{"df['2020-01-02':'2020-01-03']", func() (*table.Table, error) {
			return result(df.Bracket(frame.Between(key("2020-01-02"), key("2020-01-03"))))
		}},
		{"df[:-1]", func() (*table.Table, error) {
			return result(df.Bracket(frame.Head(-1)))
		}},
		{"df[100:1001]", func() (*table.Table, error) {
			return result(df.Bracket(frame.Span(100, 1001)))
		}},
	}
}

// printAverage replays the weekly average computed with plain slices.
func printAverage(w io.Writer) error {
	start := slices.Index(dates, "2020-01-06")
	end := slices.Index(dates, "2020-01-10")
	if start < 0 || end < 0 {
		return errors.Reason("week bounds are not in dates")
	}
	week := stats.NewSample(prices[start : end+1])
	if _, err := fmt.Fprintf(w, "%d %d\n%.3f\n", start, end, week.Mean()); err != nil {
		return errors.Annotate(err, "failed to print average")
	}
	return nil
}

func printExamples(ctx context.Context, flags *Flags, w io.Writer, examples []example) error {
	for _, ex := range examples {
		tbl, err := ex.Run()
		if err != nil {
			logging.Debugf(ctx, "%s: %s", ex.Title, err.Error())
			if _, err := fmt.Fprintf(w, "\n>>> %s\nerror: %s\n", ex.Title, err.Error()); err != nil {
				return errors.Annotate(err, "failed to print")
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "\n>>> %s\n", ex.Title); err != nil {
			return errors.Annotate(err, "failed to print")
		}
		if flags.CSV {
			err = tbl.WriteCSV(w, table.Params{})
		} else {
			err = tbl.WriteText(w, table.Params{})
		}
		if err != nil {
			return errors.Annotate(err, "failed to print '%s'", ex.Title)
		}
	}
	return nil
}

func printSections(ctx context.Context, flags *Flags, w io.Writer) error {
	all := flags.Section == "all"
	if all || flags.Section == "avgs" {
		if err := printAverage(w); err != nil {
			return errors.Annotate(err, "section avgs")
		}
	}
	sections := []struct {
		name     string
		examples func() []example
	}{
		{"series", seriesExamples},
		{"frame", frameExamples},
		{"bracket", bracketExamples},
	}
	for _, s := range sections {
		if !all && flags.Section != s.name {
			continue
		}
		if err := printExamples(ctx, flags, w, s.examples()); err != nil {
			return errors.Annotate(err, "section %s", s.name)
		}
	}
	return nil
}

func main() {
	ctx := context.Background()
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		ctx = logging.Use(ctx, logging.DefaultGoLogger(logging.Info))
		logging.Errorf(ctx, "failed to parse flags: %s", err.Error())
		os.Exit(1)
	}
	ctx = logging.Use(ctx, logging.DefaultGoLogger(flags.LogLevel))

	if err := printSections(ctx, flags, os.Stdout); err != nil {
		logging.Errorf(ctx, err.Error())
		os.Exit(1)
	}
}
