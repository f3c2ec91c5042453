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

// Package yahoo downloads daily prices from the Yahoo Finance chart API.
//
// The client is injected into the context:
//
//	ctx = yahoo.UseClient(ctx)
//	f, err := yahoo.Provider{}.Download(ctx, "QAN.AX", start, end)
//
// The HTTP transport is the one configured by fetch.UseClient, if any.
package yahoo

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"time"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/fetch"
	"github.com/stockparfait/lectures/date"
	"github.com/stockparfait/lectures/download"
	"github.com/stockparfait/lectures/frame"
	"github.com/stockparfait/logging"

	"golang.org/x/exp/slices"
)

type contextKey int

const (
	clientContextKey contextKey = iota
)

// URL is the default base URL of the server. It may be overwritten in tests
// before creating a new client.
var URL = "https://query2.finance.yahoo.com"

// Columns of the downloaded Frame, in order.
var Columns = frame.Strs("Open", "High", "Low", "Close", "Adj Close", "Volume")

// Earliest is the start of the range when no start date is given.
var Earliest = date.New(1900, 1, 1)

// Client for querying the chart API.
type Client struct {
	baseURL string // the base URL of the server
	now     func() time.Time
}

// newClient creates a new client.
func newClient(baseURL string) *Client {
	return &Client{baseURL: baseURL, now: time.Now}
}

// GetClient extracts the Client from the context, if any.
func GetClient(ctx context.Context) *Client {
	c, ok := ctx.Value(clientContextKey).(*Client)
	if !ok {
		return nil
	}
	return c
}

// UseClient creates a new client and injects it into the context.
func UseClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, clientContextKey, newClient(URL))
}

// chartError is reported by the server for unknown symbols and bad ranges.
type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartMeta struct {
	Symbol    string `json:"symbol"`
	Currency  string `json:"currency"`
	GMTOffset int64  `json:"gmtoffset"` // seconds east of UTC
}

// chartQuote holds parallel value arrays; a null is a missing value.
type chartQuote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}

type chartAdjClose struct {
	AdjClose []*float64 `json:"adjclose"`
}

type chartIndicators struct {
	Quote    []chartQuote    `json:"quote"`
	AdjClose []chartAdjClose `json:"adjclose"`
}

type chartResult struct {
	Meta       chartMeta       `json:"meta"`
	Timestamp  []int64         `json:"timestamp"`
	Indicators chartIndicators `json:"indicators"`
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

// Values returns the query values for a daily chart of [start, end]; the
// server treats period2 as exclusive.
func (c *Client) Values(start, end date.Date) url.Values {
	if start.IsZero() {
		start = Earliest
	}
	period2 := c.now().Unix()
	if !end.IsZero() {
		period2 = end.AddDays(1).ToTime().Unix()
	}
	return url.Values{
		"period1":              []string{fmt.Sprintf("%d", start.ToTime().Unix())},
		"period2":              []string{fmt.Sprintf("%d", period2)},
		"interval":             []string{"1d"},
		"events":               []string{"div,splits"},
		"includeAdjustedClose": []string{"true"},
	}
}

// Chart fetches the daily chart of symbol and converts it to a Frame indexed
// by "Date". Rows outside of [start, end] are dropped.
func (c *Client) Chart(ctx context.Context, symbol string, start, end date.Date) (*frame.Frame[float64], error) {
	uri := c.baseURL + "/v8/finance/chart/" + url.PathEscape(symbol)
	var resp chartResponse
	if err := fetch.FetchJSON(ctx, uri, &resp, c.Values(start, end), nil); err != nil {
		return nil, errors.Annotate(err, "failed to fetch chart for '%s'", symbol)
	}
	if resp.Chart.Error != nil {
		return nil, errors.Reason("%s: %s", resp.Chart.Error.Code,
			resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, errors.Reason("no chart data for '%s'", symbol)
	}
	f, err := resp.Chart.Result[0].toFrame(start, end)
	if err != nil {
		return nil, errors.Annotate(err, "malformed chart for '%s'", symbol)
	}
	logging.Infof(ctx, "Yahoo: fetched %d rows of '%s'", f.Len(), symbol)
	return f, nil
}

func value(vs []*float64, i int) float64 {
	if i >= len(vs) || vs[i] == nil {
		return math.NaN()
	}
	return *vs[i]
}

// toFrame converts the chart into columns of Columns. A timestamp with no values
// at all is not a trading day and is dropped.
func (r *chartResult) toFrame(start, end date.Date) (*frame.Frame[float64], error) {
	var q chartQuote
	if len(r.Indicators.Quote) > 0 {
		q = r.Indicators.Quote[0]
	}
	var adj []*float64
	if len(r.Indicators.AdjClose) > 0 {
		adj = r.Indicators.AdjClose[0].AdjClose
	}
	sources := [][]*float64{q.Open, q.High, q.Low, q.Close, adj, q.Volume}
	for _, s := range sources {
		if s != nil && len(s) != len(r.Timestamp) {
			return nil, errors.Reason("%d values for %d timestamps",
				len(s), len(r.Timestamp))
		}
	}
	index := []frame.Label{}
	data := make([][]float64, len(Columns))
	for j := range data {
		data[j] = []float64{}
	}
	for i, ts := range r.Timestamp {
		d := date.FromTime(time.Unix(ts+r.Meta.GMTOffset, 0).UTC())
		if !d.InRange(start, end) {
			continue
		}
		row := make([]float64, len(sources))
		empty := true
		for j, s := range sources {
			row[j] = value(s, i)
			if !math.IsNaN(row[j]) {
				empty = false
			}
		}
		if empty {
			continue
		}
		index = append(index, frame.Str(d.String()))
		for j := range row {
			data[j] = append(data[j], row[j])
		}
	}
	f, err := frame.NewFrame(index, slices.Clone(Columns), data)
	if err != nil {
		return nil, errors.Annotate(err, "failed to build frame")
	}
	return f.SetIndexName("Date"), nil
}

// Provider downloads prices with the Client from the context.
type Provider struct{}

var _ download.Provider = Provider{}

// Download implements download.Provider.
func (Provider) Download(ctx context.Context, symbol string, start, end date.Date) (*frame.Frame[float64], error) {
	c := GetClient(ctx)
	if c == nil {
		return nil, errors.Reason("no Yahoo client in context")
	}
	return c.Chart(ctx, symbol, start, end)
}
