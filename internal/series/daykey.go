package series

import (
	"fmt"
	"time"
)

// DayKey identifies a calendar day independent of year
type DayKey struct {
	Month time.Month
	Day   int
}

// KeyOf returns the day key of t
func KeyOf(t time.Time) DayKey {
	_, m, d := t.Date()
	return DayKey{Month: m, Day: d}
}

// String formats the key as MM-DD
func (k DayKey) String() string {
	return fmt.Sprintf("%02d-%02d", int(k.Month), k.Day)
}
