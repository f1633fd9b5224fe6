package backtest

import (
	"math"
	"time"
)

// Metrics rolls up closed trades. Percentages are fractions (0.15 = +15%).
type Metrics struct {
	TotalReturnPct float64 `json:"totalReturnPct"`
	CAGRPct        float64 `json:"cagrPct"`
	WinRatePct     float64 `json:"winRatePct"`
	MaxDrawdownPct float64 `json:"maxDrawdownPct"`

	Wins     int     `json:"wins"`
	Losses   int     `json:"losses"`
	AvgTrade float64 `json:"avgTradePct"`
	Best     float64 `json:"bestTradePct"`
	Worst    float64 `json:"worstTradePct"`

	// Exposure is the share of [start, end] spent in a position.
	Exposure float64 `json:"exposure"`
}

// ComputeMetrics derives Metrics from closed trades over the period
// [start, end]. Open trades are ignored.
func ComputeMetrics(trades []Trade, start, end time.Time) Metrics {
	var m Metrics

	equity, peak := 1.0, 1.0
	var sum float64
	var held time.Duration
	n := 0
	for _, t := range trades {
		if !t.Closed {
			continue
		}
		n++
		sum += t.PnLPct
		if t.PnLPct > 0 {
			m.Wins++
		} else {
			m.Losses++
		}
		if n == 1 || t.PnLPct > m.Best {
			m.Best = t.PnLPct
		}
		if n == 1 || t.PnLPct < m.Worst {
			m.Worst = t.PnLPct
		}

		equity *= 1 + t.PnLPct
		if equity > peak {
			peak = equity
		}
		if dd := (peak - equity) / peak; dd > m.MaxDrawdownPct {
			m.MaxDrawdownPct = dd
		}

		if t.ExitTime.After(t.EntryTime) {
			held += t.ExitTime.Sub(t.EntryTime)
		}
	}

	m.TotalReturnPct = equity - 1
	if n > 0 {
		m.WinRatePct = float64(m.Wins) / float64(n)
		m.AvgTrade = sum / float64(n)
	}

	span := end.Sub(start)
	if span > 0 {
		m.Exposure = math.Min(1, float64(held)/float64(span))
		m.CAGRPct = annualize(equity, span)
	}
	return m
}

// annualize converts a growth factor over span into a yearly rate. Spans
// shorter than a day are not annualized.
func annualize(growth float64, span time.Duration) float64 {
	if growth <= 0 {
		return -1
	}
	if span < 24*time.Hour {
		return growth - 1
	}
	years := span.Hours() / 24 / 365.25
	r := math.Pow(growth, 1/years) - 1
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return growth - 1
	}
	return r
}
