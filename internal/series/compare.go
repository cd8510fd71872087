package series

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jgoulah/tempcompare/pkg/models"
)

// CompareOptions tunes the historical comparison
type CompareOptions struct {
	// ExcludeTarget leaves the target record out of the historical mean.
	// By default the target counts toward its own baseline
	ExcludeTarget bool
}

// Comparison is the outcome of comparing one day against its calendar-day history
type Comparison struct {
	Target         models.Record
	Key            DayKey
	SameDay        []models.Record // every year on Key, target included
	HistoricalMean float64
	Deviation      float64 // Target.TMean - HistoricalMean; positive is warmer
	Samples        int     // records that went into HistoricalMean
}

// Compare computes the historical mean for the target's calendar day and the
// target's deviation from it. Records with a missing mean are skipped
func Compare(target models.Record, s Series, opts CompareOptions) (Comparison, error) {
	date := target.Date.Format("2006-01-02")
	if !target.HasMean() {
		return Comparison{}, fmt.Errorf("%w: %s", ErrMissingValue, date)
	}

	key := KeyOf(target.Date)
	sameDay := s.DayGroup(key)

	var sum float64
	var n int
	for _, r := range sameDay {
		if !r.HasMean() {
			continue
		}
		if opts.ExcludeTarget && r.Date.Equal(target.Date) {
			continue
		}
		sum += r.TMean
		n++
	}
	if n == 0 {
		return Comparison{}, fmt.Errorf("%w: %s", ErrNoHistory, key)
	}

	mean := sum / float64(n)
	return Comparison{
		Target:         target,
		Key:            key,
		SameDay:        sameDay,
		HistoricalMean: mean,
		Deviation:      target.TMean - mean,
		Samples:        n,
	}, nil
}

// CompareLatest compares the most recent record in the series
func CompareLatest(s Series, opts CompareOptions) (Comparison, error) {
	target, err := s.Latest()
	if err != nil {
		return Comparison{}, err
	}
	return Compare(target, s, opts)
}

// CompareDate compares the record for exactly date. There is no fallback:
// a date without a record, including the zero date, reports ErrNotFound
func CompareDate(s Series, date time.Time, opts CompareOptions) (Comparison, error) {
	target, err := s.Select(date)
	if err != nil {
		return Comparison{}, fmt.Errorf("%w: %s", err, date.Format("2006-01-02"))
	}
	return Compare(target, s, opts)
}

// CompareInput compares the date written in raw, or the latest record when
// raw is blank. A raw value that is not a calendar day reports ErrNotFound
func CompareInput(s Series, raw string, opts CompareOptions) (Comparison, error) {
	if strings.TrimSpace(raw) == "" {
		return CompareLatest(s, opts)
	}
	date, err := ParseTarget(raw)
	if err != nil {
		return Comparison{}, err
	}
	return CompareDate(s, date, opts)
}

// IsNoData reports errors that end a comparison with a warning rather than
// a failure
func IsNoData(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrMissingValue) ||
		errors.Is(err, ErrNoHistory)
}
