package market

import "time"

// Bar represents one OHLCV price bar. Time is the bar's open instant,
// normalised to UTC with no further time zone meaning.
type Bar struct {
	time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// CalendarDay returns the bar's timestamp floored to midnight of its day.
func (b Bar) CalendarDay() time.Time {
	return FloorDay(b.Time)
}

// FloorDay truncates t to midnight of its calendar day in t's location.
func FloorDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
