//go:build blackbox

package blackbox

import (
	"fmt"
	"os"
	"strings"
	"testing"
	"time"
)

func contains(s, sub string) bool { return strings.Contains(s, sub) }

// writeBarsCSV writes n bars starting at start, step apart, with closes from fn.
func writeBarsCSV(t *testing.T, path string, start time.Time, step time.Duration, n int, fn func(i int) float64) {
	t.Helper()

	var b strings.Builder
	b.WriteString("time,open,high,low,close,volume\n")
	for i := 0; i < n; i++ {
		c := fn(i)
		fmt.Fprintf(&b, "%s,%.4f,%.4f,%.4f,%.4f,1000\n",
			start.Add(time.Duration(i)*step).UTC().Format(time.RFC3339), c, c, c, c)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatal(err)
	}
}
