package models

import (
	"math"
	"time"
)

// Record represents a single day's temperature observation
type Record struct {
	Date  time.Time `json:"date"`  // Calendar day, midnight UTC
	TMin  float64   `json:"tmin"`  // NaN when the source cell was blank
	TMax  float64   `json:"tmax"`  // NaN when the source cell was blank
	TMean float64   `json:"tmean"` // Always (TMin+TMax)/2
}

// NewRecord builds a record for the given day and derives its mean temperature
func NewRecord(date time.Time, tmin, tmax float64) Record {
	return Record{
		Date:  Day(date),
		TMin:  tmin,
		TMax:  tmax,
		TMean: (tmin + tmax) / 2,
	}
}

// HasMean reports whether the record carries a usable mean temperature
func (r Record) HasMean() bool {
	return !math.IsNaN(r.TMean)
}

// Day truncates t to its calendar day in UTC, keeping the wall-clock date
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
