// Package indicators provides technical analysis indicators for backtesting.
package indicators

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is returned when an indicator is configured with a
// window length that cannot produce values.
var ErrInvalidParameter = errors.New("indicators: invalid parameter")

// Indicator computes a single streaming value from closing prices.
// It is deterministic and safe to use in replays and backtests.
type Indicator interface {
	// Reset clears all internal state.
	Reset()

	// Update consumes the next closing price.
	Update(close float64)

	// Value returns the current indicator value, None until warmup completes.
	Value() Value
}

// Apply resets ind and feeds it values in order, returning the value after
// each update. The result has the same length as values.
func Apply(ind Indicator, values []float64) []Value {
	ind.Reset()
	out := make([]Value, len(values))
	for i, v := range values {
		ind.Update(v)
		out[i] = ind.Value()
	}
	return out
}

func checkPeriod(period int) error {
	if period <= 0 {
		return fmt.Errorf("%w: period must be positive, got %d", ErrInvalidParameter, period)
	}
	return nil
}
