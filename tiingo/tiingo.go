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

// Package tiingo downloads daily prices from Tiingo.
package tiingo

import (
	"context"

	"github.com/markcheno/go-quote"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/lectures/date"
	"github.com/stockparfait/lectures/download"
	"github.com/stockparfait/lectures/frame"
	"github.com/stockparfait/logging"

	"golang.org/x/exp/slices"
)

// Columns of the downloaded Frame, in order. Prices are split and dividend
// adjusted.
var Columns = frame.Strs("Open", "High", "Low", "Close", "Volume")

// Earliest is the start of the range when no start date is given.
var Earliest = date.New(1900, 1, 1)

type quoteFunc func(symbol, start, end string, period quote.Period, token string) (quote.Quote, error)

// Provider downloads daily prices using the Tiingo API token.
type Provider struct {
	Token string
	query quoteFunc // default: quote.NewQuoteFromTiingo
}

var _ download.Provider = &Provider{}

// NewProvider creates a Provider for the API token.
func NewProvider(token string) *Provider {
	return &Provider{Token: token, query: quote.NewQuoteFromTiingo}
}

type quoteResult struct {
	q   quote.Quote
	err error
}

// Download implements download.Provider. The underlying client does not take
// a context, so the call is abandoned rather than cancelled when ctx is done.
func (p *Provider) Download(ctx context.Context, symbol string, start, end date.Date) (*frame.Frame[float64], error) {
	if p.Token == "" {
		return nil, errors.Reason("Tiingo API token is required")
	}
	if start.IsZero() {
		start = Earliest
	}
	var endStr string // empty means today
	if !end.IsZero() {
		endStr = end.String()
	}
	query := p.query
	if query == nil {
		query = quote.NewQuoteFromTiingo
	}
	res := make(chan quoteResult, 1)
	go func() {
		q, err := query(symbol, start.String(), endStr, quote.Daily, p.Token)
		res <- quoteResult{q: q, err: err}
	}()

	var r quoteResult
	select {
	case <-ctx.Done():
		return nil, errors.Annotate(ctx.Err(), "Tiingo request for '%s' abandoned", symbol)
	case r = <-res:
	}
	if r.err != nil {
		return nil, errors.Annotate(r.err, "Tiingo request for '%s' failed", symbol)
	}
	if r.q.Symbol == "" {
		return nil, errors.Reason("symbol '%s' not found", symbol)
	}
	f, err := FromQuote(r.q, start, end)
	if err != nil {
		return nil, errors.Annotate(err, "malformed quote for '%s'", symbol)
	}
	logging.Infof(ctx, "Tiingo: fetched %d rows of '%s'", f.Len(), symbol)
	return f, nil
}

// FromQuote converts a daily quote to a Frame indexed by "Date", keeping only
// the bars within the inclusive range.
func FromQuote(q quote.Quote, start, end date.Date) (*frame.Frame[float64], error) {
	n := len(q.Date)
	sources := [][]float64{q.Open, q.High, q.Low, q.Close, q.Volume}
	for j, s := range sources {
		if len(s) != n {
			return nil, errors.Reason("column '%s' has %d values for %d dates",
				Columns[j], len(s), n)
		}
	}
	index := []frame.Label{}
	data := make([][]float64, len(Columns))
	for j := range data {
		data[j] = []float64{}
	}
	for i, t := range q.Date {
		d := date.FromTime(t)
		if !d.InRange(start, end) {
			continue
		}
		index = append(index, frame.Str(d.String()))
		for j, s := range sources {
			data[j] = append(data[j], s[i])
		}
	}
	f, err := frame.NewFrame(index, slices.Clone(Columns), data)
	if err != nil {
		return nil, errors.Annotate(err, "failed to build frame")
	}
	return f.SetIndexName("Date"), nil
}
