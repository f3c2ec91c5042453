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
	"os"
	"path/filepath"
	"testing"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/fetch"
	"github.com/stockparfait/lectures/date"
	"github.com/stockparfait/lectures/download"
	"github.com/stockparfait/lectures/frame"
	"github.com/stockparfait/lectures/tiingo"
	"github.com/stockparfait/lectures/yahoo"
	"github.com/stockparfait/logging"
	"github.com/stockparfait/testutil"

	. "github.com/smartystreets/goconvey/convey"
)

// tickerProvider returns the same prices for every ticker except the unknown
// ones.
type tickerProvider struct {
	unknown map[string]bool
}

func (p tickerProvider) Download(ctx context.Context, symbol string, start, end date.Date) (*frame.Frame[float64], error) {
	if p.unknown[symbol] {
		return nil, errors.Reason("symbol '%s' not found", symbol)
	}
	f, err := frame.NewFrame(frame.Strs("2020-01-02", "2020-01-03"),
		frame.Strs("Close"), [][]float64{{7.16, 7.19}})
	if err != nil {
		return nil, err
	}
	return f.SetIndexName("Date"), nil
}

const chartJSON = `{"chart":{"result":[{
  "meta":{"symbol":"QAN.AX","gmtoffset":39600},
  "timestamp":[1577919600,1578006000],
  "indicators":{
    "quote":[{"open":[7.2,7.15],"high":[7.25,7.22],"low":[7.1,7.1],
      "close":[7.16,7.19],"volume":[1000,2000]}],
    "adjclose":[{"adjclose":[6.9,6.93]}]}}],
  "error":null}}`

func TestMain(t *testing.T) {
	t.Parallel()

	tmpdir, tmpdirErr := os.MkdirTemp("", "test_fetch")
	defer os.RemoveAll(tmpdir)

	Convey("Setup succeeded", t, func() {
		So(tmpdirErr, ShouldBeNil)
	})

	Convey("parseFlags", t, func() {
		Convey("single ticker", func() {
			flags, err := parseFlags([]string{
				"-ticker", "QAN.AX", "-out", "out.csv", "-start", "2020-01-01",
				"-end", "2020-12-31", "-log-level", "warning"})
			So(err, ShouldBeNil)
			So(flags.Ticker, ShouldEqual, "QAN.AX")
			So(flags.Out, ShouldEqual, "out.csv")
			So(flags.Start, ShouldEqual, "2020-01-01")
			So(flags.End, ShouldEqual, "2020-12-31")
			So(flags.Jobs, ShouldEqual, 1)
			So(flags.LogLevel, ShouldEqual, logging.Warning)
			So(flags.explicitConfig, ShouldBeFalse)
		})

		Convey("batch with config", func() {
			flags, err := parseFlags([]string{
				"-tickers", "QAN.AX,CBA.AX", "-year", "2020", "-jobs", "4",
				"-conf", "path/to/config.toml", "-provider", "tiingo"})
			So(err, ShouldBeNil)
			So(flags.Tickers, ShouldEqual, "QAN.AX,CBA.AX")
			So(flags.Year, ShouldEqual, 2020)
			So(flags.Jobs, ShouldEqual, 4)
			So(flags.Config, ShouldEqual, "path/to/config.toml")
			So(flags.Provider, ShouldEqual, "tiingo")
			So(flags.explicitConfig, ShouldBeTrue)
		})

		Convey("invalid combinations", func() {
			_, err := parseFlags([]string{})
			So(err, ShouldNotBeNil)
			_, err = parseFlags([]string{"-ticker", "A", "-tickers", "B,C"})
			So(err, ShouldNotBeNil)
			_, err = parseFlags([]string{"-tickers", "B,C", "-out", "x.csv"})
			So(err, ShouldNotBeNil)
			_, err = parseFlags([]string{"-ticker", "A", "-year", "2020", "-start", "2020-01-01"})
			So(err, ShouldNotBeNil)
			_, err = parseFlags([]string{"-ticker", "A", "-jobs", "0"})
			So(err, ShouldNotBeNil)
		})
	})

	Convey("parseConfig", t, func() {
		Convey("reads all fields", func() {
			fileName := filepath.Join(tmpdir, "config.toml")
			So(testutil.WriteFile(fileName, `provider = "tiingo"
tiingo_key = "testKey"
data_dir = "/data"
timeout_seconds = 10
`), ShouldBeNil)
			c, err := parseConfig(fileName, true)
			So(err, ShouldBeNil)
			So(c, ShouldResemble, &Config{
				Provider:       "tiingo",
				TiingoKey:      "testKey",
				DataDir:        "/data",
				TimeoutSeconds: 10,
			})
		})

		Convey("missing default config is empty", func() {
			c, err := parseConfig(filepath.Join(tmpdir, "missing.toml"), false)
			So(err, ShouldBeNil)
			So(c, ShouldResemble, &Config{})
		})

		Convey("missing explicit config is an error", func() {
			_, err := parseConfig(filepath.Join(tmpdir, "missing.toml"), true)
			So(err, ShouldNotBeNil)
		})

		Convey("malformed config is an error", func() {
			fileName := filepath.Join(tmpdir, "bad.toml")
			So(testutil.WriteFile(fileName, "provider = \n"), ShouldBeNil)
			_, err := parseConfig(fileName, true)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("newProvider", t, func() {
		ctx := context.Background()

		Convey("defaults to yahoo", func() {
			ctx2, p, err := newProvider(ctx, "", &Config{})
			So(err, ShouldBeNil)
			So(p, ShouldHaveSameTypeAs, yahoo.Provider{})
			So(yahoo.GetClient(ctx2), ShouldNotBeNil)
		})

		Convey("flag overrides config", func() {
			_, p, err := newProvider(ctx, "tiingo", &Config{Provider: "yahoo", TiingoKey: "k"})
			So(err, ShouldBeNil)
			So(p, ShouldHaveSameTypeAs, &tiingo.Provider{})
		})

		Convey("tiingo requires a key", func() {
			_, _, err := newProvider(ctx, "tiingo", &Config{})
			So(err, ShouldNotBeNil)
		})

		Convey("unknown provider", func() {
			_, _, err := newProvider(ctx, "bloomberg", &Config{})
			So(err, ShouldNotBeNil)
		})
	})

	Convey("makeJobs", t, func() {
		Convey("explicit output", func() {
			flags := &Flags{Ticker: "QAN.AX", Out: "x.csv"}
			So(makeJobs(flags, &Config{DataDir: "/data"}), ShouldResemble,
				[]job{{Ticker: "QAN.AX", Dest: "x.csv"}})
		})

		Convey("default names in the data directory", func() {
			flags := &Flags{Tickers: "QAN.AX, CBA.AX,", Year: 2020}
			So(makeJobs(flags, &Config{DataDir: "/data"}), ShouldResemble, []job{
				{Ticker: "QAN.AX", Dest: "/data/qan_prc_2020.csv"},
				{Ticker: "CBA.AX", Dest: "/data/cba_prc_2020.csv"},
			})
			So(makeJobs(&Flags{Ticker: "QAN.AX"}, &Config{}), ShouldResemble,
				[]job{{Ticker: "QAN.AX", Dest: "qan_prc.csv"}})
		})
	})

	Convey("fetchAll", t, func() {
		ctx := context.Background()
		p := tickerProvider{unknown: map[string]bool{"UNKNOWN_TICKER_X": true}}

		Convey("downloads all tickers in parallel", func() {
			jobs := []job{
				{Ticker: "QAN.AX", Dest: filepath.Join(tmpdir, "qan.csv")},
				{Ticker: "CBA.AX", Dest: filepath.Join(tmpdir, "cba.csv")},
				{Ticker: "BHP.AX", Dest: filepath.Join(tmpdir, "bhp.csv")},
			}
			So(fetchAll(ctx, p, download.Options{}, jobs, "", "", 2), ShouldBeNil)
			for _, j := range jobs {
				f, err := download.ReadFile(j.Dest)
				So(err, ShouldBeNil)
				So(f.Len(), ShouldEqual, 2)
			}
		})

		Convey("reports failures after the rest complete", func() {
			jobs := []job{
				{Ticker: "UNKNOWN_TICKER_X", Dest: filepath.Join(tmpdir, "unknown.csv")},
				{Ticker: "QAN.AX", Dest: filepath.Join(tmpdir, "qan2.csv")},
			}
			err := fetchAll(ctx, p, download.Options{}, jobs, "", "", 2)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "1 of 2 downloads failed: UNKNOWN_TICKER_X")
			_, err = os.Stat(jobs[1].Dest)
			So(err, ShouldBeNil)
			_, err = os.Stat(jobs[0].Dest)
			So(os.IsNotExist(err), ShouldBeTrue)
		})

		Convey("single failure is returned as is", func() {
			jobs := []job{{Ticker: "UNKNOWN_TICKER_X", Dest: filepath.Join(tmpdir, "u.csv")}}
			err := fetchAll(ctx, p, download.Options{}, jobs, "", "", 1)
			So(err, ShouldHaveSameTypeAs, &download.DataSourceError{})
		})
	})

	Convey("run downloads a year from Yahoo", t, func() {
		server := testutil.NewTestServer()
		defer server.Close()
		server.ResponseBody = []string{chartJSON}

		ctx := fetch.UseClient(context.Background(), server.Client())
		yahoo.URL = server.URL()

		configFile := filepath.Join(tmpdir, "run.toml")
		So(testutil.WriteFile(configFile, `data_dir = "`+tmpdir+`"
`), ShouldBeNil)
		flags, err := parseFlags([]string{"-ticker", "QAN.AX", "-year", "2020", "-conf", configFile})
		So(err, ShouldBeNil)
		So(run(ctx, flags), ShouldBeNil)
		So(server.RequestPath, ShouldEqual, "/v8/finance/chart/QAN.AX")
		So(server.RequestQuery.Get("period1"), ShouldEqual, "1577836800")

		f, err := download.ReadFile(filepath.Join(tmpdir, "qan_prc_2020.csv"))
		So(err, ShouldBeNil)
		So(f.Index(), ShouldResemble, frame.Strs("2020-01-02", "2020-01-03"))
		So(f.Columns(), ShouldResemble, yahoo.Columns)
	})
}
