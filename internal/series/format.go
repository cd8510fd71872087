package series

import (
	"fmt"
	"math"
)

// MissingGlyph stands in for a missing temperature in rendered output
const MissingGlyph = "-"

// FormatTemp renders a temperature as "24.0 ℃"
func FormatTemp(v float64) string {
	if math.IsNaN(v) {
		return MissingGlyph
	}
	return fmt.Sprintf("%.1f ℃", v)
}

// FormatDelta renders a signed difference as "+1.0 ℃"
func FormatDelta(v float64) string {
	if math.IsNaN(v) {
		return MissingGlyph
	}
	return fmt.Sprintf("%+.1f ℃", v)
}
