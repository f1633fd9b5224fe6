package market

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FormatOf maps a bar file's extension to its format name: "csv" for .csv
// and .txt, "parquet" for .parquet and .pq.
func FormatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet", ".pq":
		return "parquet", nil
	case ".csv", ".txt":
		return "csv", nil
	default:
		return "", fmt.Errorf("market: unsupported bar file %q (want .csv or .parquet)", path)
	}
}

// Load reads a bar file, picking the decoder from the file extension.
func Load(path, symbol, timeframe string) (*Series, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if format == "parquet" {
		return LoadParquet(path, symbol, timeframe)
	}
	return LoadCSV(path, symbol, timeframe)
}

// Save writes a bar file in the format named by format ("csv" or "parquet").
func Save(path, format string, s *Series) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return SaveCSV(path, s)
	case "parquet":
		return SaveParquet(path, s)
	default:
		return fmt.Errorf("market: unsupported format %q (want csv or parquet)", format)
	}
}

// Extension returns the file extension for a format name.
func Extension(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "parquet":
		return ".parquet"
	default:
		return ".csv"
	}
}
