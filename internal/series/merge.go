package series

import (
	"fmt"
	"io"

	"github.com/jgoulah/tempcompare/pkg/models"
)

// Merge returns base with incoming laid over it. A date present in both takes
// the incoming record; base itself is left unchanged
func Merge(base Series, incoming []models.Record) Series {
	if len(incoming) == 0 {
		return base
	}
	combined := make([]models.Record, 0, len(base.records)+len(incoming))
	combined = append(combined, base.records...)
	combined = append(combined, incoming...)
	return New(combined)
}

// MergeReader parses r with the loader rules and merges the result into base.
// On any parse failure it returns base unmodified alongside the error
func MergeReader(base Series, r io.Reader, opts Options) (Series, error) {
	incoming, err := Parse(r, opts)
	if err != nil {
		return base, fmt.Errorf("parsing supplementary data: %w", err)
	}
	return Merge(base, incoming), nil
}

// MergeFile is MergeReader for a file on disk
func MergeFile(base Series, path string, opts Options) (Series, error) {
	incoming, err := LoadFile(path, opts)
	if err != nil {
		return base, err
	}
	return Merge(base, incoming.records), nil
}
