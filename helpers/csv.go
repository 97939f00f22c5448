package helpers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/spektr-org/talkingdata/engine"
	"github.com/spektr-org/talkingdata/schema"
)

// ============================================================================
// CSV LOADER — Reads a ratings CSV into an immutable RecordView
// ============================================================================
// The file is read into a gota DataFrame with type detection off, so every
// cell arrives as verbatim text. Required columns are checked up front; extra
// columns are classified by schema.Discover and kept. A header without rows
// loads as an empty view.
// Each row becomes a Record: raw text for every column in Dimensions, parsed
// floats for measure columns in Measures (NaN when empty or unparseable).
// ============================================================================

// ErrMalformedCSV is returned when the input cannot be parsed as a CSV table.
var ErrMalformedCSV = errors.New("malformed CSV")

// Dataset is a loaded CSV: header order, effective schema and the rows.
type Dataset struct {
	Source  string
	Headers []string
	Schema  schema.Config
	View    engine.RecordView

	// Missing counts, per measure, the cells that were empty or not numeric.
	Missing map[string]int
}

// Len returns the number of data rows.
func (d *Dataset) Len() int {
	if d == nil || d.View == nil {
		return 0
	}
	return d.View.Len()
}

// LoadCSV opens path and parses it with ParseCSV.
func LoadCSV(path string, sch schema.Config) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	ds, err := ParseCSV(f, sch)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	ds.Source = path
	return ds, nil
}

// ParseCSVBytes is ParseCSV over an in-memory buffer.
func ParseCSVBytes(data []byte, sch schema.Config) (*Dataset, error) {
	return ParseCSV(bytes.NewReader(data), sch)
}

// ParseCSV reads a CSV with a header row. It fails with ErrMalformedCSV when
// the table cannot be parsed and with schema.ErrMissingColumn when a required
// column is absent.
func ParseCSV(r io.Reader, sch schema.Config) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}

	headers, rows, err := readTable(data)
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(headers); err != nil {
		return nil, err
	}

	discovered, err := schema.Discover(headers, rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}
	effective := sch.Merge(*discovered)

	measureKeys := make([]string, 0, len(effective.Measures))
	for _, h := range headers {
		if effective.IsMeasure(h) {
			measureKeys = append(measureKeys, h)
		}
	}

	ds := &Dataset{
		Headers: headers,
		Schema:  effective,
		Missing: make(map[string]int, len(measureKeys)),
	}

	recs := make([]engine.Record, 0, len(rows))
	for _, row := range rows {
		rec := engine.Record{
			Dimensions: make(map[string]string, len(headers)),
			Measures:   make(map[string]float64, len(measureKeys)),
		}
		for i, h := range headers {
			if i < len(row) {
				rec.Dimensions[h] = row[i]
			}
		}
		for _, key := range measureKeys {
			v, ok := parseMeasure(rec.Dimensions[key])
			if !ok {
				ds.Missing[key]++
			}
			rec.Measures[key] = v
		}
		recs = append(recs, rec)
	}

	ds.View = engine.NewSliceViewWithKeys(recs, headers, measureKeys)
	return ds, nil
}

// readTable returns the header and data rows of a CSV as verbatim text.
// A file holding only a header row is a valid table with no rows.
func readTable(data []byte) ([]string, [][]string, error) {
	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if df.Err == nil {
		// First record is the header row.
		records := df.Records()
		return df.Names(), records[1:], nil
	}

	// gota cannot hold a frame without rows; fall back to the header alone.
	if headers, ok := headerOnly(data); ok {
		return headers, nil, nil
	}
	return nil, nil, fmt.Errorf("%w: %v", ErrMalformedCSV, df.Err)
}

func headerOnly(data []byte) ([]string, bool) {
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil || len(records) != 1 || len(records[0]) == 0 {
		return nil, false
	}
	return records[0], true
}

// parseMeasure converts a cell to a float. Empty or non-numeric cells become NaN.
func parseMeasure(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return math.NaN(), false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return math.NaN(), false
	}
	return f, true
}
