package strategy

import (
	"fmt"
	"sort"
	"time"

	"github.com/rustyeddy/trendcross/indicators"
	"github.com/rustyeddy/trendcross/market"
)

// Trend classifies the coarse timeframe as bullish or not as of a given
// instant, using the last coarse bar dated on or before the probe's day.
//
// Probes are expected in ascending order, which lets Bullish walk a cursor
// forward through the coarse bars. A probe earlier than the previous one
// falls back to a binary search, so out-of-order probes are still correct.
type Trend struct {
	days []time.Time
	fast []indicators.Value
	slow []indicators.Value

	// cursor is the index of the last coarse bar at or before lastDay, -1 if none.
	cursor  int
	lastDay time.Time
	primed  bool
}

// NewTrend computes the fast and slow SMA over the coarse closes.
func NewTrend(coarse *market.Series, fast, slow int) (*Trend, error) {
	closes := coarse.Closes()
	f, err := indicators.SMA(closes, fast)
	if err != nil {
		return nil, fmt.Errorf("trend fast SMA: %w", err)
	}
	s, err := indicators.SMA(closes, slow)
	if err != nil {
		return nil, fmt.Errorf("trend slow SMA: %w", err)
	}
	return NewTrendFromValues(coarse, f, s)
}

// NewTrendFromValues builds a Trend over precomputed indicator series aligned
// 1:1 with coarse.
func NewTrendFromValues(coarse *market.Series, fast, slow []indicators.Value) (*Trend, error) {
	n := coarse.Len()
	if len(fast) != n || len(slow) != n {
		return nil, fmt.Errorf("trend: indicator length mismatch (bars=%d fast=%d slow=%d)", n, len(fast), len(slow))
	}
	days := make([]time.Time, n)
	for i, b := range coarse.Bars {
		days[i] = b.Time
	}
	return &Trend{days: days, fast: fast, slow: slow, cursor: -1}, nil
}

// Bullish reports whether fast > slow on the latest coarse bar whose
// timestamp is on or before the calendar day of ts. It is false when no such
// bar exists or either indicator is undefined there.
func (t *Trend) Bullish(ts time.Time) bool {
	idx := t.locate(market.FloorDay(ts))
	if idx < 0 {
		return false
	}
	gt, ok := t.fast[idx].Greater(t.slow[idx])
	return ok && gt
}

func (t *Trend) locate(day time.Time) int {
	if t.primed && day.Before(t.lastDay) {
		// Going backwards: answer directly, keep the cursor where it is.
		return t.search(day)
	}
	for t.cursor+1 < len(t.days) && !t.days[t.cursor+1].After(day) {
		t.cursor++
	}
	t.lastDay = day
	t.primed = true
	return t.cursor
}

func (t *Trend) search(day time.Time) int {
	// first index strictly after day, minus one
	return sort.Search(len(t.days), func(i int) bool { return t.days[i].After(day) }) - 1
}
