package backtest

import "errors"

// ErrNoData is returned when the coarse or fine series is empty. No summary
// is produced.
var ErrNoData = errors.New("backtest: no data")
