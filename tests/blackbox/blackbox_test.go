//go:build blackbox

package blackbox

import (
	"database/sql"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var traderBin string

func TestMain(m *testing.M) {
	tmp, err := os.MkdirTemp("", "trader-blackbox-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmp)

	traderBin = filepath.Join(tmp, "trader")

	// Build the binary once for all tests.
	cmd := exec.Command("go", "build", "-o", traderBin, "../../cmd/trader")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

func run(t *testing.T, args ...string) string {
	t.Helper()

	cmd := exec.Command(traderBin, args...)
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("command failed: %v\nargs: %v\noutput:\n%s", err, args, string(out))
	}
	return string(out)
}

func TestVersion(t *testing.T) {
	out := run(t, "version")
	if !contains(out, "trader version") {
		t.Fatalf("unexpected version output:\n%s", out)
	}
}

func TestBacktest_ProducesTrades(t *testing.T) {
	dir := t.TempDir()
	dailyPath := filepath.Join(dir, "daily.csv")
	intraPath := filepath.Join(dir, "intra.csv")
	dbPath := filepath.Join(dir, "runs.sqlite")

	// 80 rising days make SMA(20) > SMA(50) from day 50 on.
	dayStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	writeBarsCSV(t, dailyPath, dayStart, 24*time.Hour, 80, func(i int) float64 {
		return 100 + float64(i)
	})

	// Thirty hours of 15m bars over the last two days: flat, ramp up, ramp down.
	intraStart := dayStart.AddDate(0, 0, 78)
	writeBarsCSV(t, intraPath, intraStart, 15*time.Minute, 120, func(i int) float64 {
		switch {
		case i < 40:
			return 150
		case i < 80:
			return 150 + float64(i-40)*0.5
		default:
			return 170 - float64(i-80)*0.5
		}
	})

	out := run(t,
		"backtest",
		"--symbol", "TEST",
		"--from", "2024-01-01",
		"--to", "2024-03-20",
		"--source", "csv",
		"--daily", dailyPath,
		"--intraday", intraPath,
		"--journal", "sqlite",
		"--db", dbPath,
		"--json",
	)

	var summary struct {
		Symbol         string  `json:"symbol"`
		NumTrades      int     `json:"numTrades"`
		TotalReturnPct float64 `json:"totalReturnPct"`
	}
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode summary: %v\n%s", err, out)
	}
	if summary.NumTrades < 1 {
		t.Fatalf("expected at least one trade, got %+v", summary)
	}
	if summary.TotalReturnPct <= 0 {
		t.Fatalf("expected a profitable ramp trade, got %+v", summary)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM trades`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != summary.NumTrades {
		t.Fatalf("journal has %d trades, summary says %d", n, summary.NumTrades)
	}

	out = run(t, "journal", "runs", "--db", dbPath)
	if !contains(out, "TEST") {
		t.Fatalf("run not listed:\n%s", out)
	}
}
