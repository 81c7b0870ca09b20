// Package csvfile loads CSV-backed event sources. Individual malformed rows
// are skipped and counted; a missing file is treated as an empty source.
package csvfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"sentinelsoc/internal/logger"
)

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// row gives header-keyed access to one CSV record.
type row struct {
	columns map[string]int
	values  []string
}

func (r row) get(name string) string {
	idx, ok := r.columns[name]
	if !ok || idx >= len(r.values) {
		return ""
	}
	return strings.TrimSpace(r.values[idx])
}

func (r row) getFloat(name string) (float64, error) {
	raw := r.get(name)
	if raw == "" {
		return 0, fmt.Errorf("column %s is empty", name)
	}
	return strconv.ParseFloat(raw, 64)
}

func (r row) getInt(name string) (int, error) {
	raw := r.get(name)
	if raw == "" {
		return 0, fmt.Errorf("column %s is empty", name)
	}
	// Some exports serialize ports as floats.
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func (r row) getTime(name string) (time.Time, error) {
	raw := r.get(name)
	if raw == "" {
		return time.Time{}, fmt.Errorf("column %s is empty", name)
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable timestamp %q in column %s", raw, name)
}

func (r row) getBool(name string) bool {
	return strings.EqualFold(r.get(name), "true")
}

// readRows loads all rows of a CSV file keyed by its header. A missing file
// yields no rows and no error.
func readRows(path string) ([]row, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warnf("CSV source not found, treating as empty: %s", path)
			return nil, nil
		}
		return nil, fmt.Errorf("open csv source: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv source %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	rows := make([]row, 0, len(records)-1)
	for _, values := range records[1:] {
		rows = append(rows, row{columns: columns, values: values})
	}
	return rows, nil
}
