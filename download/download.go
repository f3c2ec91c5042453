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

// Package download fetches daily price series from a market-data provider and
// persists them as CSV files.
package download

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/lectures/date"
	"github.com/stockparfait/lectures/frame"
	"github.com/stockparfait/logging"
)

// DefaultTimeout bounds the network round trip of a single download.
const DefaultTimeout = 30 * time.Second

// Provider is a source of daily prices. A zero start or end date means the
// range is unbounded on that side. A known symbol with no trading in range
// yields an empty Frame, not an error.
type Provider interface {
	Download(ctx context.Context, symbol string, start, end date.Date) (*frame.Frame[float64], error)
}

// DataSourceError is returned when the provider fails: unknown symbol,
// unreachable server or an expired timeout.
type DataSourceError struct {
	Symbol string
	Err    error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("failed to download '%s': %s", e.Symbol, e.Err)
}

func (e *DataSourceError) Unwrap() error { return e.Err }

// IOError is returned when the destination file cannot be written.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to write '%s': %s", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Options of FetchAndSave.
type Options struct {
	Timeout time.Duration // default: DefaultTimeout
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

// ParseRange parses the inclusive YYYY-MM-DD bounds; an empty string leaves
// the bound open.
func ParseRange(start, end string) (date.Date, date.Date, error) {
	s, err := date.Parse(start)
	if err != nil {
		return date.Date{}, date.Date{}, errors.Annotate(err, "invalid start date")
	}
	e, err := date.Parse(end)
	if err != nil {
		return date.Date{}, date.Date{}, errors.Annotate(err, "invalid end date")
	}
	if !s.IsZero() && !e.IsZero() && e.Before(s) {
		return date.Date{}, date.Date{}, errors.Reason(
			"end date %s is before start date %s", e, s)
	}
	return s, e, nil
}

// FetchAndSave downloads the daily prices of symbol using DefaultTimeout and
// writes them to dest.
func FetchAndSave(ctx context.Context, p Provider, symbol, dest, start, end string) error {
	return Options{}.FetchAndSave(ctx, p, symbol, dest, start, end)
}

// FetchAndSave downloads the daily prices of symbol in the inclusive range
// [start, end] and writes them to dest as CSV with the date column first. An
// existing dest is overwritten, but only after the download succeeded: on a
// DataSourceError dest is left untouched.
func (o Options) FetchAndSave(ctx context.Context, p Provider, symbol, dest, start, end string) error {
	s, e, err := ParseRange(start, end)
	if err != nil {
		return errors.Annotate(err, "bad date range for '%s'", symbol)
	}
	f, err := o.Download(ctx, p, symbol, s, e)
	if err != nil {
		return err
	}
	if err := WriteFile(dest, f); err != nil {
		return err
	}
	logging.Infof(ctx, "wrote %d rows of '%s' to %s", f.Len(), symbol, dest)
	return nil
}

// Download calls the provider under the configured timeout. Any failure is
// reported as a DataSourceError.
func (o Options) Download(ctx context.Context, p Provider, symbol string, start, end date.Date) (*frame.Frame[float64], error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout())
	defer cancel()

	logging.Debugf(ctx, "downloading '%s' for [%s, %s]", symbol, start, end)
	f, err := p.Download(ctx, symbol, start, end)
	if err == nil && f == nil {
		err = errors.Reason("provider returned no data")
	}
	if err != nil {
		if ctx.Err() != nil {
			err = errors.Annotate(err, "timed out after %s", o.timeout())
		}
		return nil, &DataSourceError{Symbol: symbol, Err: err}
	}
	logging.Debugf(ctx, "received %d rows of '%s'", f.Len(), symbol)
	return f, nil
}

// WriteFile writes the Frame to path as CSV, replacing any existing file. The
// CSV is rendered in memory first, so a rendering failure leaves the file
// intact.
func WriteFile(path string, f *frame.Frame[float64]) error {
	var buf bytes.Buffer
	if err := f.WriteCSV(&buf); err != nil {
		return &IOError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return &IOError{Path: path, Err: err}
	}
	return nil
}

// ReadFile reads back a CSV file written by WriteFile.
func ReadFile(path string) (*frame.Frame[float64], error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	defer r.Close()

	f, err := frame.ReadCSV(r)
	if err != nil {
		return nil, errors.Annotate(err, "failed to parse '%s'", path)
	}
	return f, nil
}
