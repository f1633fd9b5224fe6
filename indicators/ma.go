package indicators

// SMA returns the simple moving average of values over period.
//
// The result has the same length as values. Element i is the mean of
// values[i-period+1 : i+1] when that window exists and is undefined otherwise,
// so the first period-1 elements are always None. Only past and current
// values contribute to element i.
func SMA(values []float64, period int) ([]Value, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}

	return Apply(NewMA(period), values), nil
}
