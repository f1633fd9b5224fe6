package strategy

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rustyeddy/trendcross/indicators"
	"github.com/rustyeddy/trendcross/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, Config{FastFine: 10, SlowFine: 30, FastCoarse: 20, SlowCoarse: 50}, cfg)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "SMA(10/30) over SMA(20/50) trend", cfg.String())

	b, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"fast_fine":10,"slow_fine":30,"fast_coarse":20,"slow_coarse":50}`, string(b))
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"zero fast fine", func(c *Config) { c.FastFine = 0 }, "strategy.fast_fine must be positive"},
		{"negative slow fine", func(c *Config) { c.SlowFine = -3 }, "strategy.slow_fine must be positive"},
		{"zero fast coarse", func(c *Config) { c.FastCoarse = 0 }, "strategy.fast_coarse must be positive"},
		{"zero slow coarse", func(c *Config) { c.SlowCoarse = 0 }, "strategy.slow_coarse must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, indicators.ErrInvalidParameter)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func dailySeries(start time.Time, n int) *market.Series {
	s := &market.Series{Symbol: "TEST", Timeframe: "1d"}
	for i := 0; i < n; i++ {
		s.Bars = append(s.Bars, market.Bar{Time: start.AddDate(0, 0, i), Close: float64(100 + i)})
	}
	return s
}

func values(vs ...float64) []indicators.Value {
	out := make([]indicators.Value, len(vs))
	for i, v := range vs {
		if v < 0 {
			out[i] = indicators.None
			continue
		}
		out[i] = indicators.Some(v)
	}
	return out
}

func TestTrendBullish(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	coarse := dailySeries(start, 4)

	// day0: undefined, day1: bullish, day2: bearish, day3: equal (not bullish)
	fast := values(-1, 11, 9, 10)
	slow := values(-1, 10, 10, 10)

	tr, err := NewTrendFromValues(coarse, fast, slow)
	require.NoError(t, err)

	before := start.Add(-time.Hour)
	assert.False(t, tr.Bullish(before), "no coarse bar before the first day")
	assert.Equal(t, -1, tr.locate(market.FloorDay(before)))

	assert.False(t, tr.Bullish(start.Add(10*time.Hour)), "undefined indicators")
	assert.True(t, tr.Bullish(start.AddDate(0, 0, 1).Add(9*time.Hour+30*time.Minute)))
	assert.True(t, tr.Bullish(start.AddDate(0, 0, 1).Add(23*time.Hour+45*time.Minute)))
	assert.False(t, tr.Bullish(start.AddDate(0, 0, 2).Add(time.Minute)))
	assert.False(t, tr.Bullish(start.AddDate(0, 0, 3)))

	// Past the last coarse bar the last known value holds.
	assert.Equal(t, 3, tr.locate(market.FloorDay(start.AddDate(0, 0, 30))))
}

func TestTrendLastKnownValueAcrossGaps(t *testing.T) {
	start := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC) // Friday
	coarse := &market.Series{Bars: []market.Bar{
		{Time: start, Close: 1},
		{Time: start.AddDate(0, 0, 3), Close: 1}, // Monday
	}}
	tr, err := NewTrendFromValues(coarse, values(2, 1), values(1, 2))
	require.NoError(t, err)

	// Saturday and Sunday probes use Friday's bar.
	assert.True(t, tr.Bullish(start.AddDate(0, 0, 1).Add(12*time.Hour)))
	assert.True(t, tr.Bullish(start.AddDate(0, 0, 2).Add(12*time.Hour)))
	assert.False(t, tr.Bullish(start.AddDate(0, 0, 3).Add(12*time.Hour)))
}

func TestTrendOutOfOrderProbes(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	coarse := dailySeries(start, 5)
	tr, err := NewTrendFromValues(coarse, values(2, 0, 2, 0, 2), values(1, 1, 1, 1, 1))
	require.NoError(t, err)

	probe := func(d int) time.Time { return start.AddDate(0, 0, d).Add(10 * time.Hour) }

	assert.True(t, tr.Bullish(probe(4)))
	assert.False(t, tr.Bullish(probe(1)))
	assert.True(t, tr.Bullish(probe(2)))
	assert.False(t, tr.Bullish(probe(3)))
	assert.True(t, tr.Bullish(probe(4)))
	assert.Equal(t, 0, tr.locate(market.FloorDay(probe(0))))
}

func TestTrendMatchesLinearScan(t *testing.T) {
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	coarse := &market.Series{}
	for i := 0; i < 40; i++ {
		if i%7 == 5 || i%7 == 6 {
			continue
		}
		coarse.Bars = append(coarse.Bars, market.Bar{Time: start.AddDate(0, 0, i), Close: 100 + float64(i%9)})
	}

	tr, err := NewTrend(coarse, 3, 5)
	require.NoError(t, err)
	f, _ := indicators.SMA(coarse.Closes(), 3)
	s, _ := indicators.SMA(coarse.Closes(), 5)

	for ts := start.Add(-24 * time.Hour); ts.Before(start.AddDate(0, 0, 42)); ts = ts.Add(6 * time.Hour) {
		want := false
		day := market.FloorDay(ts)
		for i := len(coarse.Bars) - 1; i >= 0; i-- {
			if !coarse.Bars[i].Time.After(day) {
				gt, ok := f[i].Greater(s[i])
				want = ok && gt
				break
			}
		}
		assert.Equal(t, want, tr.Bullish(ts), ts.String())
	}
}

func TestNewTrendErrors(t *testing.T) {
	coarse := dailySeries(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 3)

	_, err := NewTrend(coarse, 0, 5)
	assert.ErrorIs(t, err, indicators.ErrInvalidParameter)

	_, err = NewTrend(coarse, 2, -1)
	assert.ErrorIs(t, err, indicators.ErrInvalidParameter)

	_, err = NewTrendFromValues(coarse, values(1, 2), values(1, 2, 3))
	assert.Error(t, err)
}

func TestCrossover(t *testing.T) {
	fast := values(-1, 5, 5, 6)
	slow := values(4, -1, 5, 5)

	_, ok := Crossover(fast, slow, 0)
	assert.False(t, ok)
	_, ok = Crossover(fast, slow, 1)
	assert.False(t, ok)

	bullish, ok := Crossover(fast, slow, 2)
	assert.True(t, ok)
	assert.False(t, bullish, "equal is not bullish")

	bullish, ok = Crossover(fast, slow, 3)
	assert.True(t, ok)
	assert.True(t, bullish)

	_, ok = Crossover(fast, slow, 4)
	assert.False(t, ok)
	_, ok = Crossover(fast, slow, -1)
	assert.False(t, ok)
}
