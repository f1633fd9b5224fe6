package market

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Step returns the bar length of a timeframe such as "15m", "1h", "1d" or "1wk".
func Step(timeframe string) (time.Duration, error) {
	tf := strings.ToLower(strings.TrimSpace(timeframe))
	for _, u := range []struct {
		suffix string
		unit   time.Duration
	}{
		{"wk", 7 * 24 * time.Hour},
		{"d", 24 * time.Hour},
	} {
		if n, ok := strings.CutSuffix(tf, u.suffix); ok {
			k, err := strconv.Atoi(n)
			if err != nil || k <= 0 {
				return 0, fmt.Errorf("market: bad timeframe %q", timeframe)
			}
			return time.Duration(k) * u.unit, nil
		}
	}
	d, err := time.ParseDuration(tf)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("market: bad timeframe %q", timeframe)
	}
	return d, nil
}

// Resample aggregates s into bars of timeframe. Daily and longer buckets start
// at midnight UTC; shorter ones are truncated to a multiple of the step. Open is
// the first bar's open, Close the last bar's close, and Volume the sum.
func Resample(s *Series, timeframe string) (*Series, error) {
	step, err := Step(timeframe)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	bucket := func(b Bar) time.Time {
		if step%(24*time.Hour) == 0 {
			day := b.CalendarDay()
			if step == 24*time.Hour {
				return day
			}
			return day.Truncate(step)
		}
		return b.Time.Truncate(step)
	}

	out := &Series{Symbol: s.Symbol, Timeframe: timeframe}
	for _, b := range s.Bars {
		key := bucket(b)
		n := len(out.Bars)
		if n == 0 || !out.Bars[n-1].Time.Equal(key) {
			out.Bars = append(out.Bars, Bar{
				Time: key, Open: b.Open, High: b.High, Low: b.Low, Close: b.Close, Volume: b.Volume,
			})
			continue
		}
		agg := &out.Bars[n-1]
		agg.High = max(agg.High, b.High)
		agg.Low = min(agg.Low, b.Low)
		agg.Close = b.Close
		agg.Volume += b.Volume
	}
	return out, nil
}
