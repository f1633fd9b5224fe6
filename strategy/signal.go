package strategy

import "github.com/rustyeddy/trendcross/indicators"

// Crossover reports whether the fast average is above the slow one at index
// i. ok is false when either value is undefined; callers skip such samples
// rather than treating them as bearish.
func Crossover(fast, slow []indicators.Value, i int) (bullish, ok bool) {
	if i < 0 || i >= len(fast) || i >= len(slow) {
		return false, false
	}
	return fast[i].Greater(slow[i])
}
