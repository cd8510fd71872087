package series

import "math"

// MissingCounts holds the number of missing values per column
type MissingCounts struct {
	Date  int `json:"date"`
	TMin  int `json:"tmin"`
	TMax  int `json:"tmax"`
	TMean int `json:"tmean"`
}

// ColumnCount is one row of the data-quality view
type ColumnCount struct {
	Column  string `json:"column"`
	Missing int    `json:"missing"`
}

// Columns lists the counts in display order
func (m MissingCounts) Columns() []ColumnCount {
	return []ColumnCount{
		{Column: "date", Missing: m.Date},
		{Column: "tmean", Missing: m.TMean},
		{Column: "tmin", Missing: m.TMin},
		{Column: "tmax", Missing: m.TMax},
	}
}

// Total is the sum of all missing values
func (m MissingCounts) Total() int {
	return m.Date + m.TMin + m.TMax + m.TMean
}

// MissingCounts counts missing values in each column
func (s Series) MissingCounts() MissingCounts {
	var m MissingCounts
	for _, r := range s.records {
		if r.Date.IsZero() {
			m.Date++
		}
		if math.IsNaN(r.TMin) {
			m.TMin++
		}
		if math.IsNaN(r.TMax) {
			m.TMax++
		}
		if math.IsNaN(r.TMean) {
			m.TMean++
		}
	}
	return m
}
