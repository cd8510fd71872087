// Package series holds the daily temperature series and the historical
// comparison built on top of it
package series

import (
	"slices"
	"time"

	"github.com/jgoulah/tempcompare/pkg/models"
)

// Series is an ascending, date-unique sequence of records. The zero value is
// an empty series. A Series is never modified after construction
type Series struct {
	records []models.Record
}

// New builds a series from records in arrival order. When a date appears more
// than once the last record for it wins
func New(records []models.Record) Series {
	latest := make(map[time.Time]int, len(records))
	for i, r := range records {
		latest[models.Day(r.Date)] = i
	}

	out := make([]models.Record, 0, len(latest))
	for i, r := range records {
		if latest[models.Day(r.Date)] == i {
			r.Date = models.Day(r.Date)
			out = append(out, r)
		}
	}

	slices.SortFunc(out, func(a, b models.Record) int {
		return a.Date.Compare(b.Date)
	})
	return Series{records: out}
}

// Len returns the number of records
func (s Series) Len() int {
	return len(s.records)
}

// Records returns a copy of the records in date order
func (s Series) Records() []models.Record {
	return slices.Clone(s.records)
}

// Latest returns the most recent record
func (s Series) Latest() (models.Record, error) {
	if len(s.records) == 0 {
		return models.Record{}, ErrNotFound
	}
	return s.records[len(s.records)-1], nil
}

// Select returns the record for exactly the given calendar day
func (s Series) Select(date time.Time) (models.Record, error) {
	day := models.Day(date)
	i, found := slices.BinarySearchFunc(s.records, day, func(r models.Record, t time.Time) int {
		return r.Date.Compare(t)
	})
	if !found {
		return models.Record{}, ErrNotFound
	}
	return s.records[i], nil
}

// Range returns the records between since and until, inclusive. A zero bound
// is open
func (s Series) Range(since, until time.Time) []models.Record {
	var out []models.Record
	for _, r := range s.records {
		if !since.IsZero() && r.Date.Before(models.Day(since)) {
			continue
		}
		if !until.IsZero() && r.Date.After(models.Day(until)) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// DayGroup returns every record, across all years, that falls on key
func (s Series) DayGroup(key DayKey) []models.Record {
	var out []models.Record
	for _, r := range s.records {
		if KeyOf(r.Date) == key {
			out = append(out, r)
		}
	}
	return out
}
