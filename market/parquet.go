package market

import (
	"fmt"
	"time"

	"github.com/parquet-go/parquet-go"
)

// parquetBar is the on-disk row layout for Parquet bar files.
type parquetBar struct {
	Timestamp int64   `parquet:"t"` // Unix timestamp in milliseconds
	Open      float64 `parquet:"o"`
	High      float64 `parquet:"h"`
	Low       float64 `parquet:"l"`
	Close     float64 `parquet:"c"`
	Volume    float64 `parquet:"v"`
}

// LoadParquet reads a Parquet bar file written by SaveParquet. Rows must
// carry a positive close, as in LoadCSV.
func LoadParquet(path, symbol, timeframe string) (*Series, error) {
	rows, err := parquet.ReadFile[parquetBar](path)
	if err != nil {
		return nil, err
	}

	s := &Series{Symbol: symbol, Timeframe: timeframe, Bars: make([]Bar, len(rows))}
	for i, r := range rows {
		if r.Close <= 0 {
			return nil, fmt.Errorf("%s: row %d: bad close %v: must be positive", path, i+1, r.Close)
		}
		s.Bars[i] = Bar{
			Time:   time.UnixMilli(r.Timestamp).UTC(),
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
		}
	}
	return s, nil
}

// SaveParquet writes s to path as Parquet.
func SaveParquet(path string, s *Series) error {
	rows := make([]parquetBar, len(s.Bars))
	for i, b := range s.Bars {
		rows[i] = parquetBar{
			Timestamp: b.Time.UnixMilli(),
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
		}
	}
	return parquet.WriteFile(path, rows)
}
