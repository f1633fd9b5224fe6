// Package yahoo downloads OHLCV bars from the Yahoo Finance chart API.
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
	_ "time/tzdata" // exchange zones resolve without a system zoneinfo

	"github.com/rustyeddy/trendcross/market"
)

const DefaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart/"

// ErrNoData is returned when the API answers with an empty chart.
var ErrNoData = errors.New("yahoo: no data returned")

// Fetcher returns the bars of symbol between the calendar days from and to,
// both inclusive.
type Fetcher interface {
	FetchBars(ctx context.Context, symbol string, from, to time.Time, interval string) (*market.Series, error)
}

// Client implements Fetcher against the public chart endpoint.
type Client struct {
	HTTP      *http.Client
	BaseURL   string
	UserAgent string

	// SymbolMap maps internal symbols to Yahoo tickers.
	SymbolMap map[string]string
}

// NewClient creates a client with a 30s timeout, optionally through proxyURL.
func NewClient(proxyURL string) *Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &Client{
		HTTP: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		BaseURL:   DefaultBaseURL,
		UserAgent: "Mozilla/5.0",
		SymbolMap: map[string]string{
			"SPX":    "^GSPC",
			"SPX500": "^GSPC",
		},
	}
}

func (c *Client) ticker(symbol string) string {
	if mapped, ok := c.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// chartResponse is the subset of the chart API response we read.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				ExchangeTimezoneName string `json:"exchangeTimezoneName"`
				GMTOffset            int64  `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchBars downloads bars for [from, to+1day). Timestamps are shifted to the
// exchange's wall clock and stored as UTC, so a daily bar lands on its trading
// day at midnight. Rows with a null or non-positive close are dropped.
func (c *Client) FetchBars(ctx context.Context, symbol string, from, to time.Time, interval string) (*market.Series, error) {
	if symbol == "" {
		return nil, fmt.Errorf("yahoo: symbol is required")
	}
	if interval == "" {
		interval = "1d"
	}
	start := market.FloorDay(from)
	end := market.FloorDay(to).AddDate(0, 0, 1)
	if !end.After(start) {
		return nil, fmt.Errorf("yahoo: empty range %s..%s", start.Format(time.DateOnly), to.Format(time.DateOnly))
	}

	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	q := url.Values{}
	q.Set("interval", interval)
	q.Set("period1", fmt.Sprint(start.Unix()))
	q.Set("period2", fmt.Sprint(end.Unix()))
	q.Set("includePrePost", "false")
	u := strings.TrimRight(base, "/") + "/" + url.PathEscape(c.ticker(symbol)) + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, truncate(body, 200))
	}

	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, ErrNoData
	}

	res := chart.Chart.Result[0]
	quote := res.Indicators.Quote[0]
	daily := isDaily(interval)
	wall := wallClock(res.Meta.ExchangeTimezoneName, res.Meta.GMTOffset)

	s := &market.Series{Symbol: symbol, Timeframe: interval}
	s.Bars = make([]market.Bar, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		cl := at(quote.Close, i)
		if cl == nil || *cl <= 0 {
			continue // holidays and halted intervals come back as nulls
		}
		t := wall(ts)
		if daily {
			t = market.FloorDay(t)
		}
		s.Bars = append(s.Bars, market.Bar{
			Time:   t,
			Open:   orDefault(at(quote.Open, i), *cl),
			High:   orDefault(at(quote.High, i), *cl),
			Low:    orDefault(at(quote.Low, i), *cl),
			Close:  *cl,
			Volume: orDefault(at(quote.Volume, i), 0),
		})
	}

	sort.SliceStable(s.Bars, func(i, j int) bool { return s.Bars[i].Time.Before(s.Bars[j].Time) })
	s.Bars = dedupe(s.Bars)
	return s, nil
}

// wallClock returns a converter from epoch seconds to the exchange's local
// wall time stamped as UTC. The named zone handles daylight saving per bar;
// the fixed offset is only used when the zone is missing or unknown.
func wallClock(zone string, offset int64) func(int64) time.Time {
	if zone != "" {
		if loc, err := time.LoadLocation(zone); err == nil {
			return func(ts int64) time.Time {
				t := time.Unix(ts, 0).In(loc)
				return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
			}
		}
	}
	return func(ts int64) time.Time {
		return time.Unix(ts+offset, 0).UTC()
	}
}

func isDaily(interval string) bool {
	return strings.HasSuffix(interval, "d") ||
		strings.HasSuffix(interval, "wk") ||
		strings.HasSuffix(interval, "mo")
}

func at(vals []*float64, i int) *float64 {
	if i >= len(vals) {
		return nil
	}
	return vals[i]
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// dedupe keeps the last bar for each timestamp. The live session bar is
// sometimes repeated at the end of a daily response.
func dedupe(bars []market.Bar) []market.Bar {
	out := bars[:0]
	for _, b := range bars {
		if n := len(out); n > 0 && out[n-1].Time.Equal(b.Time) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
