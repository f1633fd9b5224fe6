package backtest

import (
	"fmt"
	"io"
	"time"
)

// PrintResult writes a human readable report of r.
func PrintResult(w io.Writer, r *Result) {
	s := r.Summary
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Symbol:        %s\n", s.Symbol)
	fmt.Fprintf(w, "Strategy:      %s\n", r.Config)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Period")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "From:          %s\n", dateStr(s.From))
	fmt.Fprintf(w, "To:            %s\n", dateStr(s.To))
	if !r.Start.IsZero() {
		fmt.Fprintf(w, "First Bar:     %s\n", r.Start.Format(time.RFC3339))
		fmt.Fprintf(w, "Last Bar:      %s\n", r.End.Format(time.RFC3339))
	}
	fmt.Fprintf(w, "Samples:       %d\n", r.Samples)

	m := r.Metrics
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:        %d\n", s.NumTrades)
	fmt.Fprintf(w, "Wins:          %d\n", m.Wins)
	fmt.Fprintf(w, "Losses:        %d\n", m.Losses)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", m.WinRatePct*100)
	if s.NumTrades > 0 {
		fmt.Fprintf(w, "Avg Trade:     %.2f%%\n", m.AvgTrade*100)
		fmt.Fprintf(w, "Best Trade:    %.2f%%\n", m.Best*100)
		fmt.Fprintf(w, "Worst Trade:   %.2f%%\n", m.Worst*100)
	}
	fmt.Fprintf(w, "Exposure:      %.2f%%\n", m.Exposure*100)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Total Return:  %.2f%%\n", s.TotalReturnPct*100)
	fmt.Fprintf(w, "CAGR:          %.2f%%\n", m.CAGRPct*100)
	fmt.Fprintf(w, "Max Drawdown:  %.2f%%\n", m.MaxDrawdownPct*100)

	if r.Open != nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Open Position: long since %s @ %.4f (not counted)\n",
			r.Open.EntryTime.Format(time.RFC3339), r.Open.EntryPrice)
	}

	fmt.Fprintln(w)
}

// PrintTrades writes one line per trade.
func PrintTrades(w io.Writer, trades []Trade) {
	for i, t := range trades {
		if !t.Closed {
			fmt.Fprintf(w, "%3d  %s  %s @ %.4f  (open)\n",
				i+1, t.Side, t.EntryTime.Format(time.RFC3339), t.EntryPrice)
			continue
		}
		fmt.Fprintf(w, "%3d  %s  %s @ %.4f -> %s @ %.4f  %+.2f%%\n",
			i+1, t.Side,
			t.EntryTime.Format(time.RFC3339), t.EntryPrice,
			t.ExitTime.Format(time.RFC3339), t.ExitPrice,
			t.PnLPct*100)
	}
}

// String renders the summary as a single line.
func (s Summary) String() string {
	return fmt.Sprintf("symbol=%s from=%s to=%s numTrades=%d totalReturnPct=%.6f",
		s.Symbol, dateStr(s.From), dateStr(s.To), s.NumTrades, s.TotalReturnPct)
}
