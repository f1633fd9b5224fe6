package market

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBarRow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		row     []string
		wantErr bool
		want    Bar
	}{
		{
			name: "valid row",
			row:  []string{"2024-01-02T14:30:00Z", "185.1", "186", "184.9", "185.5", "120000"},
			want: Bar{
				Time: time.Date(2024, 1, 2, 14, 30, 0, 0, time.UTC),
				Open: 185.1, High: 186, Low: 184.9, Close: 185.5, Volume: 120000,
			},
		},
		{
			name: "zoned timestamp converted to UTC",
			row:  []string{"2024-01-02T09:30:00-05:00", "1", "1", "1", "2"},
			want: Bar{Time: time.Date(2024, 1, 2, 14, 30, 0, 0, time.UTC), Open: 1, High: 1, Low: 1, Close: 2},
		},
		{
			name: "date only",
			row:  []string{" 2024-01-02 ", " 1 ", " 1 ", " 1 ", " 3 ", ""},
			want: Bar{Time: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Open: 1, High: 1, Low: 1, Close: 3},
		},
		{
			name:    "short row",
			row:     []string{"2024-01-02", "1", "1"},
			wantErr: true,
		},
		{
			name:    "bad time",
			row:     []string{"yesterday", "1", "1", "1", "1"},
			wantErr: true,
		},
		{
			name:    "bad close",
			row:     []string{"2024-01-02", "1", "1", "1", "abc"},
			wantErr: true,
		},
		{
			name:    "non-positive close",
			row:     []string{"2024-01-02", "1", "1", "1", "0"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseBarRow(tt.row)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Time.Equal(got.Time))
			assert.Equal(t, tt.want.Close, got.Close)
			assert.Equal(t, tt.want.Open, got.Open)
			assert.Equal(t, tt.want.Volume, got.Volume)
		})
	}
}

func TestReadCSV(t *testing.T) {
	t.Parallel()

	in := strings.Join([]string{
		"time,open,high,low,close,volume",
		"2024-01-02 14:30:00,1,2,0.5,1.5,100",
		"",
		"2024-01-02 14:45:00,1.5,2,1,1.75,200",
	}, "\n")

	s, err := ReadCSV(strings.NewReader(in), "AAPL", "15m")
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())
	assert.Equal(t, "AAPL", s.Symbol)
	assert.Equal(t, "15m", s.Timeframe)
	assert.Equal(t, 1.75, s.Bars[1].Close)
	assert.NoError(t, s.Validate())
}

func TestReadCSV_ReportsLine(t *testing.T) {
	in := "time,open,high,low,close\n2024-01-02,1,1,1,1\n2024-01-03,1,1,1,x\n"
	_, err := ReadCSV(strings.NewReader(in), "AAPL", "1d")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestCSVRoundTrip(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 6, 3, 13, 30, 0, 0, time.UTC)
	s := &Series{Symbol: "MSFT", Timeframe: "15m"}
	for i := 0; i < 5; i++ {
		s.Bars = append(s.Bars, Bar{
			Time:  base.Add(time.Duration(i) * 15 * time.Minute),
			Open:  400 + float64(i),
			High:  401 + float64(i),
			Low:   399 + float64(i),
			Close: 400.5 + float64(i),
		})
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, s))
	assert.True(t, strings.HasPrefix(buf.String(), "time,open,high,low,close,volume\n"))

	got, err := ReadCSV(&buf, "MSFT", "15m")
	require.NoError(t, err)
	require.Equal(t, s.Len(), got.Len())
	for i := range s.Bars {
		assert.True(t, s.Bars[i].Time.Equal(got.Bars[i].Time))
		assert.Equal(t, s.Bars[i].Close, got.Bars[i].Close)
	}
}

func TestLoadBySuffix(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := &Series{Bars: []Bar{
		{Time: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Open: 1, High: 1, Low: 1, Close: 1, Volume: 10},
		{Time: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Open: 2, High: 2, Low: 2, Close: 2, Volume: 20},
	}}

	for _, format := range []string{"csv", "parquet"} {
		path := filepath.Join(dir, "bars"+Extension(format))
		require.NoError(t, Save(path, format, s), format)

		got, err := Load(path, "SPY", "1d")
		require.NoError(t, err, format)
		require.Equal(t, 2, got.Len(), format)
		assert.Equal(t, "SPY", got.Symbol)
		assert.True(t, got.Bars[1].Time.Equal(s.Bars[1].Time), format)
		assert.Equal(t, 20.0, got.Bars[1].Volume, format)
	}

	bad := filepath.Join(dir, "bars.xlsx")
	require.NoError(t, os.WriteFile(bad, []byte("x"), 0o644))
	_, err := Load(bad, "SPY", "1d")
	assert.Error(t, err)
	assert.Error(t, Save(bad, "xlsx", s))
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"bars.csv", "csv"},
		{"bars.TXT", "csv"},
		{"dir/bars.parquet", "parquet"},
		{"bars.pq", "parquet"},
	}
	for _, tt := range tests {
		got, err := FormatOf(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}

	for _, path := range []string{"bars.xlsx", "bars"} {
		_, err := FormatOf(path)
		assert.ErrorContains(t, err, "unsupported bar file", path)
	}
}

func TestSaveLoadAlternateExtensions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := &Series{Bars: []Bar{
		{Time: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Open: 1, High: 1, Low: 1, Close: 1, Volume: 10},
	}}
	for _, name := range []string{"bars.pq", "bars.txt"} {
		path := filepath.Join(dir, name)
		format, err := FormatOf(path)
		require.NoError(t, err)
		require.NoError(t, Save(path, format, s), name)

		got, err := Load(path, "SPY", "1d")
		require.NoError(t, err, name)
		assert.Equal(t, 1, got.Len(), name)
	}
}

func TestLoadParquetRejectsNonPositiveClose(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for _, c := range []float64{0, -3} {
		path := filepath.Join(dir, fmt.Sprintf("bars%v.parquet", c))
		s := &Series{Bars: []Bar{
			{Time: day, Open: 1, High: 1, Low: 1, Close: 1},
			{Time: day.AddDate(0, 0, 1), Open: 1, High: 1, Low: 0, Close: c},
		}}
		require.NoError(t, SaveParquet(path, s))

		_, err := LoadParquet(path, "SPY", "1d")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 2: bad close")
	}
}
