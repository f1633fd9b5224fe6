package market

import (
	"fmt"
	"io"
	"time"
)

// Gap kinds.
const (
	GapMinor      = "minor"
	GapOvernight  = "overnight"
	GapWeekend    = "weekend"
	GapSuspicious = "suspicious"
)

// Gap is a stretch between two consecutive bars longer than one step.
type Gap struct {
	After   time.Time // last bar before the gap
	Before  time.Time // first bar after it
	Missing int       // whole steps with no bar
	Kind    string
}

func (g Gap) Duration() time.Duration { return g.Before.Sub(g.After) }

type GapStats struct {
	Bars           int
	Missing        int
	GapCount       int
	OvernightGaps  int
	WeekendGaps    int
	SuspiciousGaps int
	LongestGap     time.Duration
	LongestGapKind string
}

// Gaps lists every gap in s for bars step apart.
func Gaps(s *Series, step time.Duration) []Gap {
	var gaps []Gap
	for i := 1; i < s.Len(); i++ {
		prev, curr := s.Bars[i-1].Time, s.Bars[i].Time
		d := curr.Sub(prev)
		if d <= step {
			continue
		}
		gaps = append(gaps, Gap{
			After:   prev,
			Before:  curr,
			Missing: int(d/step) - 1,
			Kind:    classifyGap(prev, curr, step),
		})
	}
	return gaps
}

func classifyGap(prev, curr time.Time, step time.Duration) string {
	d := curr.Sub(prev)

	// Weekend-ish if the gap spans a day or more and starts Fri/Sat/Sun.
	if d >= 24*time.Hour+step {
		switch prev.Weekday() {
		case time.Friday, time.Saturday, time.Sunday:
			if d <= 4*24*time.Hour {
				return GapWeekend
			}
		}
		return GapSuspicious
	}
	if !FloorDay(prev).Equal(FloorDay(curr)) {
		return GapOvernight
	}
	if d > 2*step {
		return GapSuspicious
	}
	return GapMinor
}

// Stats summarises the gaps of s.
func Stats(s *Series, step time.Duration) GapStats {
	st := GapStats{Bars: s.Len()}
	for _, g := range Gaps(s, step) {
		st.GapCount++
		st.Missing += g.Missing
		if g.Duration() > st.LongestGap {
			st.LongestGap = g.Duration()
			st.LongestGapKind = g.Kind
		}
		switch g.Kind {
		case GapOvernight:
			st.OvernightGaps++
		case GapWeekend:
			st.WeekendGaps++
		case GapSuspicious:
			st.SuspiciousGaps++
		}
	}
	return st
}

// PrintStats writes a gap report for s.
func PrintStats(w io.Writer, s *Series, step time.Duration) {
	st := Stats(s, step)
	first, last := s.Span()

	fmt.Fprintf(w, "---- %s Stats ----\n", s.label())
	if st.Bars > 0 {
		fmt.Fprintf(w, "Range: %s → %s\n", first.Format(time.RFC3339), last.Format(time.RFC3339))
	}
	fmt.Fprintf(w, "            Bars: %d\n", st.Bars)
	fmt.Fprintf(w, "   Missing Steps: %d\n", st.Missing)
	fmt.Fprintf(w, "      Total Gaps: %d\n", st.GapCount)
	fmt.Fprintf(w, "  Overnight Gaps: %d\n", st.OvernightGaps)
	fmt.Fprintf(w, "    Weekend Gaps: %d\n", st.WeekendGaps)
	fmt.Fprintf(w, " Suspicious Gaps: %d\n", st.SuspiciousGaps)
	if st.GapCount > 0 {
		fmt.Fprintf(w, "Longest Gap: %s (%s)\n", st.LongestGap, st.LongestGapKind)
	}
	fmt.Fprintln(w, "--------------------------")
}
