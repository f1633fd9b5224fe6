package journal

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"
)

var runOrgFuncs = template.FuncMap{
	"mul100": func(x float64) float64 { return x * 100.0 },
	"date":   func(t time.Time) string { return t.Format("2006-01-02") },
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

var runOrgTmpl = template.Must(template.New("run").Funcs(runOrgFuncs).Parse(RunOrgTemplate))

const RunOrgTemplate = `* BACKTEST: SMA-Cross {{.Symbol}} 15m/1d
:PROPERTIES:
:RUN_ID:      {{if .RunID}}{{.RunID}}{{else}}(run-id?){{end}}
:STRATEGY:    sma_cross_trend
:SYMBOL:      {{.Symbol}}
:DATASET:     {{if .Dataset}}{{.Dataset}}{{else}}(dataset?){{end}}
:START_DATE:  {{date .From}}
:END_DATE:    {{date .To}}
:TRADES:      {{.NumTrades}}
:RETURN_PCT:  {{printf "%.2f" (mul100 .TotalReturnPct)}}
:CAGR_PCT:    {{printf "%.2f" (mul100 .CAGRPct)}}
:WIN_RATE:    {{printf "%.2f" (mul100 .WinRatePct)}}
:MAX_DD_PCT:  {{printf "%.2f" (mul100 .MaxDrawdownPct)}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Strategy Parameters
| Parameter     | Value |
|---------------+-------|
| Fast (fine)   | {{.FastFine}} |
| Slow (fine)   | {{.SlowFine}} |
| Fast (coarse) | {{.FastCoarse}} |
| Slow (coarse) | {{.SlowCoarse}} |

** Performance Summary
- Return:           *{{printf "%.2f" (mul100 .TotalReturnPct)}}%*
- CAGR:             *{{printf "%.2f" (mul100 .CAGRPct)}}%*
- Max Drawdown:     *{{printf "%.2f" (mul100 .MaxDrawdownPct)}}%*
- Win Rate:         *{{printf "%.2f" (mul100 .WinRatePct)}}%*
{{- if .OpenPosition }}
- Open position at end of data (not counted)
{{- end }}
`

// FormatRunOrg renders a run and its trades as an Org-mode document.
func FormatRunOrg(r RunRecord, trades []TradeRecord) (string, error) {
	var buf bytes.Buffer
	if err := runOrgTmpl.Execute(&buf, r); err != nil {
		return "", err
	}
	if len(trades) > 0 {
		buf.WriteString("\n** Trades\n")
		buf.WriteString(FormatTradesOrg(trades))
	}
	return buf.String(), nil
}

// WriteRunOrg writes FormatRunOrg output to path.
func WriteRunOrg(path string, r RunRecord, trades []TradeRecord) error {
	s, err := FormatRunOrg(r, trades)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(s), 0644)
}

// FormatTradeOrg renders a TradeRecord as an Org-mode block with the facts
// in a PROPERTIES drawer for easy search.
func FormatTradeOrg(t TradeRecord) string {
	heading := fmt.Sprintf("*** Trade: %s %s (%s)", t.Symbol, t.Side, shortID(t.TradeID))
	open := t.OpenTime.UTC().Format(time.RFC3339)
	close := t.CloseTime.UTC().Format(time.RFC3339)

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":TRADE_ID: %s\n", t.TradeID))
	b.WriteString(fmt.Sprintf(":RUN_ID: %s\n", t.RunID))
	b.WriteString(fmt.Sprintf(":SYMBOL: %s\n", t.Symbol))
	b.WriteString(fmt.Sprintf(":ENTRY_PRICE: %.4f\n", t.EntryPrice))
	b.WriteString(fmt.Sprintf(":EXIT_PRICE: %.4f\n", t.ExitPrice))
	b.WriteString(fmt.Sprintf(":OPEN_TIME: %s\n", open))
	b.WriteString(fmt.Sprintf(":CLOSE_TIME: %s\n", close))
	b.WriteString(fmt.Sprintf(":PNL_PCT: %.2f\n", t.PnLPct*100))
	b.WriteString(":END:\n")

	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []TradeRecord) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
