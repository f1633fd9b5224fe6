// Package strategy holds the trend-filtered SMA crossover rules: a coarse
// (daily) trend gate and a fine (intraday) crossover signal.
package strategy

import (
	"fmt"

	"github.com/rustyeddy/trendcross/indicators"
)

// Config holds the indicator window lengths for both timeframes.
type Config struct {
	FastFine   int `json:"fast_fine" yaml:"fast_fine"`     // 10
	SlowFine   int `json:"slow_fine" yaml:"slow_fine"`     // 30
	FastCoarse int `json:"fast_coarse" yaml:"fast_coarse"` // 20
	SlowCoarse int `json:"slow_coarse" yaml:"slow_coarse"` // 50
}

// Defaults returns the SMA(10/30) intraday, SMA(20/50) daily configuration.
func Defaults() Config {
	return Config{
		FastFine:   10,
		SlowFine:   30,
		FastCoarse: 20,
		SlowCoarse: 50,
	}
}

// Validate rejects non-positive window lengths.
func (c Config) Validate() error {
	for _, p := range []struct {
		name string
		v    int
	}{
		{"fast_fine", c.FastFine},
		{"slow_fine", c.SlowFine},
		{"fast_coarse", c.FastCoarse},
		{"slow_coarse", c.SlowCoarse},
	} {
		if p.v <= 0 {
			return fmt.Errorf("%w: strategy.%s must be positive (got %d)", indicators.ErrInvalidParameter, p.name, p.v)
		}
	}
	return nil
}

func (c Config) String() string {
	return fmt.Sprintf("SMA(%d/%d) over SMA(%d/%d) trend", c.FastFine, c.SlowFine, c.FastCoarse, c.SlowCoarse)
}
