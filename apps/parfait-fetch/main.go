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
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/iterator"
	"github.com/stockparfait/lectures/download"
	"github.com/stockparfait/lectures/tiingo"
	"github.com/stockparfait/lectures/yahoo"
	"github.com/stockparfait/logging"

	toml "github.com/pelletier/go-toml/v2"
)

type Flags struct {
	Ticker   string // single ticker, mutually exclusive with Tickers
	Tickers  string // comma separated list of tickers
	Out      string // output file, only with Ticker
	Start    string // YYYY-MM-DD, inclusive
	End      string // YYYY-MM-DD, inclusive
	Year     int    // download a calendar year; excludes Start and End
	Config   string // default: ~/.stockparfait/fetch/config.toml
	Provider string // overrides the config
	Jobs     int    // parallel downloads in batch mode
	LogLevel logging.Level

	explicitConfig bool // -conf was given
}

func defaultConfigPath() string {
	return filepath.Join(os.Getenv("HOME"), ".stockparfait", "fetch", "config.toml")
}

func parseFlags(args []string) (*Flags, error) {
	var flags Flags
	fs := flag.NewFlagSet("parfait-fetch", flag.ExitOnError)
	fs.StringVar(&flags.Ticker, "ticker", "", "ticker to download, e.g. QAN.AX")
	fs.StringVar(&flags.Tickers, "tickers", "", "comma separated tickers to download")
	fs.StringVar(&flags.Out, "out", "", "output CSV file; default: <data_dir>/<ticker>_prc.csv")
	fs.StringVar(&flags.Start, "start", "", "first date YYYY-MM-DD; default: earliest")
	fs.StringVar(&flags.End, "end", "", "last date YYYY-MM-DD; default: latest")
	fs.IntVar(&flags.Year, "year", 0, "download a single calendar year")
	fs.StringVar(&flags.Config, "conf", defaultConfigPath(), "config file")
	fs.StringVar(&flags.Provider, "provider", "", "data provider: yahoo or tiingo")
	fs.IntVar(&flags.Jobs, "jobs", 1, "number of parallel downloads")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")

	err := fs.Parse(args)
	if err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "conf" {
			flags.explicitConfig = true
		}
	})
	if (flags.Ticker == "") == (flags.Tickers == "") {
		return nil, errors.Reason("expected exactly one of -ticker or -tickers")
	}
	if flags.Out != "" && flags.Ticker == "" {
		return nil, errors.Reason("-out requires -ticker")
	}
	if flags.Year != 0 && (flags.Start != "" || flags.End != "") {
		return nil, errors.Reason("-year cannot be combined with -start or -end")
	}
	if flags.Jobs < 1 {
		return nil, errors.Reason("-jobs must be positive, got %d", flags.Jobs)
	}
	return &flags, nil
}

type Config struct {
	Provider       string `toml:"provider"`        // yahoo (default) or tiingo
	TiingoKey      string `toml:"tiingo_key"`      // required for tiingo
	DataDir        string `toml:"data_dir"`        // default: current directory
	TimeoutSeconds int    `toml:"timeout_seconds"` // default: 30
}

// parseConfig reads the config file. A missing file is an error only when it
// is required, otherwise the default config is returned.
func parseConfig(filePath string, required bool) (*Config, error) {
	if _, err := os.Stat(filePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if required {
				return nil, errors.Annotate(err, "config file '%s' does not exist", filePath)
			}
			return &Config{}, nil
		}
		return nil, errors.Annotate(err,
			"cannot check config file for existence: '%s'", filePath)
	}
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Annotate(err, "failed to open config file %s", filePath)
	}
	defer f.Close()

	d := toml.NewDecoder(f)
	var c Config
	if err := d.Decode(&c); err != nil {
		return nil, errors.Annotate(err, "failed to read config file %s", filePath)
	}
	if c.TimeoutSeconds < 0 {
		return nil, errors.Reason("timeout_seconds must be non-negative, got %d",
			c.TimeoutSeconds)
	}
	return &c, nil
}

// newProvider selects the data provider by name, falling back to the config.
func newProvider(ctx context.Context, name string, c *Config) (context.Context, download.Provider, error) {
	if name == "" {
		name = c.Provider
	}
	switch name {
	case "", "yahoo":
		return yahoo.UseClient(ctx), yahoo.Provider{}, nil
	case "tiingo":
		if c.TiingoKey == "" {
			return ctx, nil, errors.Reason("tiingo_key is required in config for tiingo")
		}
		return ctx, tiingo.NewProvider(c.TiingoKey), nil
	}
	return ctx, nil, errors.Reason("unknown provider '%s'", name)
}

type job struct {
	Ticker string
	Dest   string
}

func makeJobs(flags *Flags, c *Config) []job {
	dir := c.DataDir
	if dir == "" {
		dir = "."
	}
	if flags.Ticker != "" {
		dest := flags.Out
		if dest == "" {
			dest = filepath.Join(dir, download.DefaultFileName(flags.Ticker, flags.Year))
		}
		return []job{{Ticker: flags.Ticker, Dest: dest}}
	}
	var jobs []job
	for _, t := range strings.Split(flags.Tickers, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		jobs = append(jobs, job{
			Ticker: t,
			Dest:   filepath.Join(dir, download.DefaultFileName(t, flags.Year)),
		})
	}
	return jobs
}

type jobResult struct {
	Ticker string
	Err    error
}

// fetchAll runs the jobs with up to n in parallel. Every job runs to
// completion; the failures are then reported as a single error.
func fetchAll(ctx context.Context, p download.Provider, opts download.Options, jobs []job, start, end string, n int) error {
	if n > 2*runtime.NumCPU() {
		n = 2 * runtime.NumCPU()
	}
	f := func(j job) jobResult {
		err := opts.FetchAndSave(ctx, p, j.Ticker, j.Dest, start, end)
		if err != nil {
			logging.Warningf(ctx, "failed to fetch %s: %s", j.Ticker, err.Error())
		}
		return jobResult{Ticker: j.Ticker, Err: err}
	}
	pm := iterator.ParallelMap(ctx, n, iterator.FromSlice(jobs), f)
	defer pm.Close()

	failed := iterator.Reduce[jobResult, []jobResult](pm, nil, func(r jobResult, acc []jobResult) []jobResult {
		if r.Err != nil {
			return append(acc, r)
		}
		return acc
	})
	if len(jobs) == 1 && len(failed) == 1 {
		return failed[0].Err
	}
	if len(failed) > 0 {
		tickers := make([]string, len(failed))
		for i, r := range failed {
			tickers[i] = r.Ticker
		}
		return errors.Reason("%d of %d downloads failed: %s",
			len(failed), len(jobs), strings.Join(tickers, ", "))
	}
	return nil
}

func run(ctx context.Context, flags *Flags) error {
	c, err := parseConfig(flags.Config, flags.explicitConfig)
	if err != nil {
		return errors.Annotate(err, "failed to load config")
	}
	ctx, p, err := newProvider(ctx, flags.Provider, c)
	if err != nil {
		return errors.Annotate(err, "failed to create provider")
	}
	start, end := flags.Start, flags.End
	if flags.Year != 0 {
		start, end = download.YearRange(flags.Year)
	}
	opts := download.Options{Timeout: time.Duration(c.TimeoutSeconds) * time.Second}
	return fetchAll(ctx, p, opts, makeJobs(flags, c), start, end, flags.Jobs)
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

	if err := run(ctx, flags); err != nil {
		logging.Errorf(ctx, err.Error())
		os.Exit(1)
	}
}
