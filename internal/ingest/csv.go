package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/seasonal-baseline/internal/climate"
)

var (
	// ErrMalformedObservation marks a historical row that could not be parsed.
	ErrMalformedObservation = errors.New("malformed observation")

	// ErrMissingColumn is returned when the header lacks a required column.
	ErrMissingColumn = errors.New("missing required column")
)

var requiredColumns = []string{"city", "timestamp", "temperature"}

// timestampLayouts are tried in order; the first that parses wins.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"20060102",
}

// RowError describes a dropped row. Line is 1-based and counts the header.
type RowError struct {
	Line   int
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

func (e RowError) Unwrap() error {
	return ErrMalformedObservation
}

// Result is the outcome of loading a historical dataset. Bad rows are
// dropped individually and reported in Errors; they never abort the batch.
type Result struct {
	Observations []climate.Observation
	Total        int
	Dropped      int
	Errors       []RowError
}

// LoadCSV parses a tabular source with at least city, timestamp and
// temperature columns. An optional season column is honoured when present
// and non-empty. Column names are matched case-insensitively.
func LoadCSV(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	result := &Result{}

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty input", ErrMissingColumn)
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	columns := make(map[string]int, len(headers))
	for i, h := range headers {
		columns[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		result.Total++
		if err != nil {
			result.drop(line, fmt.Sprintf("csv read error: %v", err))
			continue
		}

		obs, err := parseRecord(record, columns)
		if err != nil {
			result.drop(line, err.Error())
			continue
		}
		result.Observations = append(result.Observations, obs)
	}

	return result, nil
}

func (r *Result) drop(line int, reason string) {
	r.Dropped++
	r.Errors = append(r.Errors, RowError{Line: line, Reason: reason})
}

func parseRecord(record []string, columns map[string]int) (climate.Observation, error) {
	get := func(col string) string {
		if idx, ok := columns[col]; ok && idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
		return ""
	}

	ts, err := ParseTimestamp(get("timestamp"))
	if err != nil {
		return climate.Observation{}, err
	}

	tempStr := get("temperature")
	temp, err := strconv.ParseFloat(tempStr, 64)
	if err != nil {
		return climate.Observation{}, fmt.Errorf("invalid temperature %q", tempStr)
	}
	if math.IsNaN(temp) || math.IsInf(temp, 0) {
		return climate.Observation{}, fmt.Errorf("non-finite temperature %q", tempStr)
	}

	obs := climate.Observation{
		City:        get("city"),
		Timestamp:   ts,
		Temperature: temp,
	}

	if raw := get("season"); raw != "" {
		season, err := climate.ParseSeason(raw)
		if err != nil {
			return climate.Observation{}, err
		}
		obs.Season = season
	}

	return obs, nil
}

// ParseTimestamp accepts ISO-8601 variants or unix seconds and returns UTC.
// Eight-digit values are read as compact dates (20100115), not epoch seconds.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
