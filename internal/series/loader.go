package series

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jgoulah/tempcompare/pkg/models"
)

var dateLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"2006.1.2",
	"20060102",
	"2006-1-2 15:04",
	"2006-1-2 15:04:05",
	"2006-01-02T15:04:05",
	"2006/1/2 15:04",
}

// ParseDate parses a calendar date in any of the layouts the exports use.
// Any time-of-day component is dropped
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return models.Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// ParseTarget parses a user-supplied target date. Strings that are not a
// valid calendar day (e.g. 2025-02-30) can never match a record, so they
// report ErrNotFound rather than a parse failure
func ParseTarget(s string) (time.Time, error) {
	t, err := ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrNotFound, strings.TrimSpace(s))
	}
	return t, nil
}

// LoadFile loads a series from a file on disk
func LoadFile(path string, opts Options) (Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return Series{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	s, err := Load(f, opts)
	if err != nil {
		return Series{}, fmt.Errorf("loading %s: %w", path, err)
	}
	return s, nil
}

// Load parses r and returns a sorted, de-duplicated series
func Load(r io.Reader, opts Options) (Series, error) {
	records, err := Parse(r, opts)
	if err != nil {
		return Series{}, err
	}
	return New(records), nil
}

// Parse reads tabular input into records in file order. The first row is a
// header. Any malformed row fails the whole parse
func Parse(r io.Reader, opts Options) ([]models.Record, error) {
	opts = opts.withDefaults()
	if err := opts.Layout.Validate(); err != nil {
		return nil, err
	}

	text, err := decode(r, opts.Encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(text)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &FormatError{Line: 1, Err: ErrEmptyInput}
	}
	if err != nil {
		return nil, csvError(err)
	}
	if len(header) < opts.Layout.Width() {
		return nil, &FormatError{
			Line:   1,
			Column: "header",
			Err:    fmt.Errorf("got %d columns, want at least %d", len(header), opts.Layout.Width()),
		}
	}

	var records []models.Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(err)
		}

		line, _ := cr.FieldPos(0)
		record, err := parseRow(row, line, opts.Layout)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

func parseRow(row []string, line int, l Layout) (models.Record, error) {
	date, err := ParseDate(row[l.Date])
	if err != nil {
		return models.Record{}, &FormatError{Line: line, Column: "date", Value: row[l.Date], Err: err}
	}

	tmin, err := parseTemperature(row[l.TMin])
	if err != nil {
		return models.Record{}, &FormatError{Line: line, Column: "tmin", Value: row[l.TMin], Err: err}
	}

	tmax, err := parseTemperature(row[l.TMax])
	if err != nil {
		return models.Record{}, &FormatError{Line: line, Column: "tmax", Value: row[l.TMax], Err: err}
	}

	return models.NewRecord(date, tmin, tmax), nil
}

// parseTemperature treats a blank cell as a missing value
func parseTemperature(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New("not a number")
	}
	return v, nil
}

func csvError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &FormatError{Line: pe.Line, Err: pe.Err}
	}
	return fmt.Errorf("reading input: %w", err)
}
