package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// CSV bar files use the header
//
//	time,open,high,low,close,volume
//
// where time is RFC3339, "2006-01-02 15:04:05" or "2006-01-02". Zoned
// timestamps are converted to UTC. A header row is optional and empty rows
// are skipped.
var csvHeader = []string{"time", "open", "high", "low", "close", "volume"}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// LoadCSV reads a bar CSV file into a Series.
func LoadCSV(path, symbol, timeframe string) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := ReadCSV(f, symbol, timeframe)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ReadCSV parses bar rows from r. It does not sort or validate ordering;
// call Series.Validate for that.
func ReadCSV(r io.Reader, symbol, timeframe string) (*Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	s := &Series{Symbol: symbol, Timeframe: timeframe}
	sawFirst := false
	line := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}

		// Allow a single header row
		if !sawFirst {
			sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}

		b, err := parseBarRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		s.Bars = append(s.Bars, b)
	}
	return s, nil
}

// WriteCSV writes bars with a header row.
func WriteCSV(w io.Writer, s *Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, b := range s.Bars {
		if err := cw.Write([]string{
			b.Time.UTC().Format(time.RFC3339),
			floatStr(b.Open),
			floatStr(b.High),
			floatStr(b.Low),
			floatStr(b.Close),
			floatStr(b.Volume),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes s to path, truncating any existing file.
func SaveCSV(path string, s *Series) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func parseBarRow(row []string) (Bar, error) {
	// Need at least: time,open,high,low,close
	if len(row) < 5 {
		return Bar{}, fmt.Errorf("short row: want at least 5 fields, got %d", len(row))
	}

	t, err := ParseTime(row[0])
	if err != nil {
		return Bar{}, err
	}

	var vals [5]float64
	n := len(row)
	if n > 6 {
		n = 6
	}
	for i := 1; i < n; i++ {
		field := strings.TrimSpace(row[i])
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return Bar{}, fmt.Errorf("bad %s %q: %w", csvHeader[i], row[i], err)
		}
		vals[i-1] = v
	}
	if vals[3] <= 0 {
		return Bar{}, fmt.Errorf("bad close %q: must be positive", row[4])
	}

	return Bar{
		Time:   t,
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}

// ParseTime accepts the timestamp layouts used in bar files and returns the
// instant in UTC. Layouts without a zone are read as UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("bad time %q", s)
}

func floatStr(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
