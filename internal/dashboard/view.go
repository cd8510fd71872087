package dashboard

import "github.com/jgoulah/tempcompare/internal/series"

type pageView struct {
	Date          string
	Latest        string
	ExcludeTarget bool
	Records       int
	Warning       string
	Comparison    *comparisonView
}

type comparisonView struct {
	TargetDate     string
	DayKey         string
	TMean          float64
	HistoricalMean float64
	Deviation      float64
	Samples        int
	Rows           []rowView
}

type rowView struct {
	Date     string
	Year     int
	TMean    float64
	Delta    float64
	IsTarget bool
}

func newComparisonView(c series.Comparison) *comparisonView {
	v := &comparisonView{
		TargetDate:     c.Target.Date.Format("2006-01-02"),
		DayKey:         c.Key.String(),
		TMean:          c.Target.TMean,
		HistoricalMean: c.HistoricalMean,
		Deviation:      c.Deviation,
		Samples:        c.Samples,
	}
	for _, r := range c.SameDay {
		v.Rows = append(v.Rows, rowView{
			Date:     r.Date.Format("2006-01-02"),
			Year:     r.Date.Year(),
			TMean:    r.TMean,
			Delta:    r.TMean - c.HistoricalMean,
			IsTarget: r.Date.Equal(c.Target.Date),
		})
	}
	return v
}

type comparisonJSON struct {
	Date           string     `json:"date"`
	DayKey         string     `json:"day_key"`
	TMean          float64    `json:"tmean"`
	HistoricalMean float64    `json:"historical_mean"`
	Deviation      float64    `json:"deviation"`
	Samples        int        `json:"samples"`
	SameDay        []yearJSON `json:"same_day"`
}

type yearJSON struct {
	Date  string   `json:"date"`
	TMean *float64 `json:"tmean"` // null when missing
}

func newComparisonJSON(c series.Comparison) comparisonJSON {
	out := comparisonJSON{
		Date:           c.Target.Date.Format("2006-01-02"),
		DayKey:         c.Key.String(),
		TMean:          c.Target.TMean,
		HistoricalMean: c.HistoricalMean,
		Deviation:      c.Deviation,
		Samples:        c.Samples,
		SameDay:        make([]yearJSON, 0, len(c.SameDay)),
	}
	for _, r := range c.SameDay {
		y := yearJSON{Date: r.Date.Format("2006-01-02")}
		if r.HasMean() {
			v := r.TMean
			y.TMean = &v
		}
		out.SameDay = append(out.SameDay, y)
	}
	return out
}
