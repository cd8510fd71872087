package series

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
)

// DefaultEncoding is the code page the baseline export is written in
const DefaultEncoding = "cp949"

// Layout is the column contract for input files. Each field holds the
// zero-based column index of the named value; every other column is ignored
type Layout struct {
	Date int `yaml:"date"`
	TMin int `yaml:"tmin"`
	TMax int `yaml:"tmax"`
}

// DefaultLayout matches the baseline export: [date, station, tmin, tmax, ...]
var DefaultLayout = Layout{Date: 0, TMin: 2, TMax: 3}

// Validate checks that the indexes are non-negative and distinct
func (l Layout) Validate() error {
	if l.Date < 0 || l.TMin < 0 || l.TMax < 0 {
		return fmt.Errorf("column indexes must be non-negative (date=%d tmin=%d tmax=%d)", l.Date, l.TMin, l.TMax)
	}
	if l.Date == l.TMin || l.Date == l.TMax || l.TMin == l.TMax {
		return fmt.Errorf("column indexes must be distinct (date=%d tmin=%d tmax=%d)", l.Date, l.TMin, l.TMax)
	}
	return nil
}

// Width is the minimum number of columns a row must have
func (l Layout) Width() int {
	return max(l.Date, l.TMin, l.TMax) + 1
}

func (l Layout) isZero() bool {
	return l == Layout{}
}

// Options controls how raw tabular input is decoded
type Options struct {
	Encoding string
	Layout   Layout
}

func (o Options) withDefaults() Options {
	if o.Encoding == "" {
		o.Encoding = DefaultEncoding
	}
	if o.Layout.isZero() {
		o.Layout = DefaultLayout
	}
	return o
}

// decode wraps r so that it yields UTF-8 text
func decode(r io.Reader, name string) (io.Reader, error) {
	enc, err := lookupEncoding(name)
	if err != nil {
		return nil, err
	}
	return enc.NewDecoder().Reader(r), nil
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "cp949", "ms949", "uhc", "windows-949", "euc-kr", "euckr":
		return korean.EUCKR, nil
	case "utf-8", "utf8":
		// Strips a leading BOM
		return unicode.UTF8BOM, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc, nil
}
