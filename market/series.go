package market

import (
	"errors"
	"fmt"
	"time"
)

// ErrMisaligned is returned when a series is not strictly ascending in time.
var ErrMisaligned = errors.New("market: misaligned input")

// MisalignedError describes the first pair of bars that breaks strict
// ascending order.
type MisalignedError struct {
	Series string
	Index  int
	Prev   time.Time
	Curr   time.Time
}

func (e *MisalignedError) Error() string {
	kind := "out of order"
	if e.Prev.Equal(e.Curr) {
		kind = "duplicate timestamp"
	}
	return fmt.Sprintf("market: misaligned input: %s series %s at index %d (%s after %s)",
		e.Series, kind, e.Index, e.Curr.Format(time.RFC3339), e.Prev.Format(time.RFC3339))
}

func (e *MisalignedError) Is(target error) bool { return target == ErrMisaligned }

// Series is an ordered sequence of bars at a single granularity.
type Series struct {
	Symbol    string
	Timeframe string // e.g. "15m", "1d"
	Bars      []Bar
}

func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Bars)
}

// Closes returns the closing prices, aligned 1:1 with Bars.
func (s *Series) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Validate checks that timestamps are strictly ascending.
func (s *Series) Validate() error {
	for i := 1; i < len(s.Bars); i++ {
		prev, curr := s.Bars[i-1].Time, s.Bars[i].Time
		if !curr.After(prev) {
			return &MisalignedError{Series: s.label(), Index: i, Prev: prev, Curr: curr}
		}
	}
	return nil
}

// Between returns a copy of s holding only bars in [from, to+1day), i.e. the
// calendar days from..to inclusive. Zero bounds are open.
func (s *Series) Between(from, to time.Time) *Series {
	out := &Series{Symbol: s.Symbol, Timeframe: s.Timeframe}
	var end time.Time
	if !to.IsZero() {
		end = FloorDay(to).AddDate(0, 0, 1)
	}
	for _, b := range s.Bars {
		if !from.IsZero() && b.Time.Before(from) {
			continue
		}
		if !end.IsZero() && !b.Time.Before(end) {
			continue
		}
		out.Bars = append(out.Bars, b)
	}
	return out
}

// Span returns the first and last bar times. Both are zero for an empty series.
func (s *Series) Span() (first, last time.Time) {
	if s.Len() == 0 {
		return
	}
	return s.Bars[0].Time, s.Bars[len(s.Bars)-1].Time
}

func (s *Series) label() string {
	switch {
	case s.Symbol != "" && s.Timeframe != "":
		return s.Symbol + "/" + s.Timeframe
	case s.Timeframe != "":
		return s.Timeframe
	case s.Symbol != "":
		return s.Symbol
	}
	return "bar"
}
