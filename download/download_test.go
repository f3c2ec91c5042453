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

package download

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/lectures/date"
	"github.com/stockparfait/lectures/frame"
	"github.com/stockparfait/testutil"

	. "github.com/smartystreets/goconvey/convey"
)

type fakeProvider struct {
	frame *frame.Frame[float64]
	err   error
	block bool // wait for the context to expire

	calls  int
	symbol string
	start  date.Date
	end    date.Date
}

var _ Provider = &fakeProvider{}

func (p *fakeProvider) Download(ctx context.Context, symbol string, start, end date.Date) (*frame.Frame[float64], error) {
	p.calls++
	p.symbol = symbol
	p.start = start
	p.end = end
	if p.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return p.frame, p.err
}

func testPrices() *frame.Frame[float64] {
	index := frame.Strs("2020-01-02", "2020-01-03", "2020-01-06", "2020-01-07")
	f, err := frame.NewFrame(index, frame.Strs("Close", "Volume"), [][]float64{
		{7.16, 7.19, 7.0, 7.1},
		{1.5e6, 2e6, 1.75e6, 3e6},
	})
	if err != nil {
		panic(err)
	}
	return f.SetIndexName("Date")
}

func TestDownload(t *testing.T) {
	t.Parallel()

	tmpdir, tmpdirErr := os.MkdirTemp("", "test_download")
	defer os.RemoveAll(tmpdir)

	Convey("Setup succeeded", t, func() {
		So(tmpdirErr, ShouldBeNil)
	})

	Convey("FetchAndSave", t, func() {
		ctx := context.Background()

		Convey("writes the series and reads back the same data", func() {
			p := &fakeProvider{frame: testPrices()}
			dest := filepath.Join(tmpdir, "qan_prc.csv")
			So(FetchAndSave(ctx, p, "QAN.AX", dest, "2020-01-02", "2020-01-07"), ShouldBeNil)
			So(p.symbol, ShouldEqual, "QAN.AX")
			So(p.start, ShouldResemble, date.New(2020, 1, 2))
			So(p.end, ShouldResemble, date.New(2020, 1, 7))

			content, err := os.ReadFile(dest)
			So(err, ShouldBeNil)
			So(string(content), ShouldEqual, `Date,Close,Volume
2020-01-02,7.16,1500000
2020-01-03,7.19,2000000
2020-01-06,7,1750000
2020-01-07,7.1,3000000
`)
			read, err := ReadFile(dest)
			So(err, ShouldBeNil)
			So(read.Len(), ShouldEqual, 4)
			So(read.Index(), ShouldResemble, testPrices().Index())
			So(read.Columns(), ShouldResemble, frame.Strs("Close", "Volume"))
			c, err := read.Column(frame.Str("Close"))
			So(err, ShouldBeNil)
			So(testutil.RoundSlice(c.Values(), 6), ShouldResemble,
				[]float64{7.16, 7.19, 7.0, 7.1})
		})

		Convey("open bounds are passed as zero dates", func() {
			p := &fakeProvider{frame: testPrices()}
			dest := filepath.Join(tmpdir, "open.csv")
			So(FetchAndSave(ctx, p, "QAN.AX", dest, "", ""), ShouldBeNil)
			So(p.start.IsZero(), ShouldBeTrue)
			So(p.end.IsZero(), ShouldBeTrue)
		})

		Convey("an empty series is written as a header only", func() {
			empty, err := frame.NewFrame[float64](nil, frame.Strs("Close"), [][]float64{nil})
			So(err, ShouldBeNil)
			p := &fakeProvider{frame: empty.SetIndexName("Date")}
			dest := filepath.Join(tmpdir, "empty.csv")
			So(FetchAndSave(ctx, p, "QAN.AX", dest, "2020-01-04", "2020-01-05"), ShouldBeNil)
			content, err := os.ReadFile(dest)
			So(err, ShouldBeNil)
			So(string(content), ShouldEqual, "Date,Close\n")
		})

		Convey("overwrites an existing file", func() {
			dest := filepath.Join(tmpdir, "overwrite.csv")
			So(testutil.WriteFile(dest, "old content\n"), ShouldBeNil)
			p := &fakeProvider{frame: testPrices()}
			So(FetchAndSave(ctx, p, "QAN.AX", dest, "", ""), ShouldBeNil)
			read, err := ReadFile(dest)
			So(err, ShouldBeNil)
			So(read.Len(), ShouldEqual, 4)
		})

		Convey("unknown ticker leaves a missing file missing", func() {
			p := &fakeProvider{err: errors.Reason("no data found, symbol may be delisted")}
			dest := filepath.Join(tmpdir, "out.csv")
			err := FetchAndSave(ctx, p, "UNKNOWN_TICKER_X", dest, "", "")
			So(err, ShouldNotBeNil)
			dsErr, ok := err.(*DataSourceError)
			So(ok, ShouldBeTrue)
			So(dsErr.Symbol, ShouldEqual, "UNKNOWN_TICKER_X")
			So(dsErr.Unwrap(), ShouldEqual, p.err)
			So(err.Error(), ShouldContainSubstring, "symbol may be delisted")
			_, statErr := os.Stat(dest)
			So(os.IsNotExist(statErr), ShouldBeTrue)
		})

		Convey("unknown ticker leaves an existing file untouched", func() {
			dest := filepath.Join(tmpdir, "keep.csv")
			So(testutil.WriteFile(dest, "keep me\n"), ShouldBeNil)
			p := &fakeProvider{err: errors.Reason("not found")}
			err := FetchAndSave(ctx, p, "UNKNOWN_TICKER_X", dest, "", "")
			So(err, ShouldHaveSameTypeAs, &DataSourceError{})
			content, err := os.ReadFile(dest)
			So(err, ShouldBeNil)
			So(string(content), ShouldEqual, "keep me\n")
		})

		Convey("a nil frame without error is a data source failure", func() {
			p := &fakeProvider{}
			err := FetchAndSave(ctx, p, "QAN.AX", filepath.Join(tmpdir, "nil.csv"), "", "")
			So(err, ShouldHaveSameTypeAs, &DataSourceError{})
		})

		Convey("timeout is a data source failure", func() {
			p := &fakeProvider{block: true}
			dest := filepath.Join(tmpdir, "slow.csv")
			err := Options{Timeout: time.Millisecond}.FetchAndSave(
				ctx, p, "QAN.AX", dest, "", "")
			So(err, ShouldHaveSameTypeAs, &DataSourceError{})
			So(err.Error(), ShouldContainSubstring, "timed out")
			_, statErr := os.Stat(dest)
			So(os.IsNotExist(statErr), ShouldBeTrue)
		})

		Convey("unwritable destination is an IOError", func() {
			p := &fakeProvider{frame: testPrices()}
			dest := filepath.Join(tmpdir, "no", "such", "dir", "out.csv")
			err := FetchAndSave(ctx, p, "QAN.AX", dest, "", "")
			ioErr, ok := err.(*IOError)
			So(ok, ShouldBeTrue)
			So(ioErr.Path, ShouldEqual, dest)
			So(ioErr.Unwrap(), ShouldNotBeNil)
		})

		Convey("bad dates are rejected before downloading", func() {
			p := &fakeProvider{frame: testPrices()}
			dest := filepath.Join(tmpdir, "bad.csv")
			So(FetchAndSave(ctx, p, "QAN.AX", dest, "2020-13-01", ""), ShouldNotBeNil)
			So(FetchAndSave(ctx, p, "QAN.AX", dest, "2020-02-01", "2020-01-01"),
				ShouldNotBeNil)
			So(p.calls, ShouldEqual, 0)
		})
	})

	Convey("Default timeout", t, func() {
		So(Options{}.timeout(), ShouldEqual, 30*time.Second)
		So(Options{Timeout: time.Second}.timeout(), ShouldEqual, time.Second)
	})

	Convey("ReadFile of a missing file is an IOError", t, func() {
		_, err := ReadFile(filepath.Join(tmpdir, "missing.csv"))
		So(err, ShouldHaveSameTypeAs, &IOError{})
	})
}

func TestNames(t *testing.T) {
	t.Parallel()

	Convey("YearRange", t, func() {
		start, end := YearRange(2020)
		So(start, ShouldEqual, "2020-01-01")
		So(end, ShouldEqual, "2020-12-31")
	})

	Convey("DefaultFileName", t, func() {
		So(DefaultFileName("QAN.AX", 0), ShouldEqual, "qan_prc.csv")
		So(DefaultFileName("QAN.AX", 2020), ShouldEqual, "qan_prc_2020.csv")
		So(DefaultFileName("AAPL", 0), ShouldEqual, "aapl_prc.csv")
		So(DefaultFileName("BRK.B", 2021), ShouldEqual, "brk_prc_2021.csv")
	})
}
