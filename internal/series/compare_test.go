package series

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/tempcompare/pkg/models"
)

func stringsReader(s string) io.Reader {
	return strings.NewReader(s)
}

func TestCompareSameDayAcrossYears(t *testing.T) {
	s := New([]models.Record{
		rec(2023, 6, 15, 18, 26),
		rec(2024, 6, 15, 20, 28),
	})

	target, err := s.Select(day(2024, 6, 15))
	require.NoError(t, err)
	assert.Equal(t, 24.0, target.TMean)

	c, err := Compare(target, s, CompareOptions{})
	require.NoError(t, err)
	assert.Equal(t, "06-15", c.Key.String())
	assert.Len(t, c.SameDay, 2)
	assert.Equal(t, 2, c.Samples)
	assert.InDelta(t, 23.0, c.HistoricalMean, 1e-9)
	assert.InDelta(t, 1.0, c.Deviation, 1e-9)
}

func TestCompareExcludeTarget(t *testing.T) {
	s := New([]models.Record{
		rec(2022, 6, 15, 16, 24),
		rec(2023, 6, 15, 18, 26),
		rec(2024, 6, 15, 20, 28),
	})
	target, _ := s.Select(day(2024, 6, 15))

	c, err := Compare(target, s, CompareOptions{ExcludeTarget: true})
	require.NoError(t, err)
	assert.Equal(t, 2, c.Samples)
	assert.Len(t, c.SameDay, 3)
	assert.InDelta(t, 21.0, c.HistoricalMean, 1e-9)
	assert.InDelta(t, 3.0, c.Deviation, 1e-9)
}

func TestCompareExcludeTargetNoHistory(t *testing.T) {
	s := New([]models.Record{rec(2024, 6, 15, 20, 28)})
	target, _ := s.Select(day(2024, 6, 15))

	_, err := Compare(target, s, CompareOptions{ExcludeTarget: true})
	assert.True(t, errors.Is(err, ErrNoHistory))

	c, err := Compare(target, s, CompareOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, c.Deviation)
}

func TestCompareSkipsMissingValues(t *testing.T) {
	s := New([]models.Record{
		rec(2022, 3, 1, math.NaN(), 10),
		rec(2023, 3, 1, 0, 4),
		rec(2024, 3, 1, 2, 6),
	})
	target, _ := s.Select(day(2024, 3, 1))

	c, err := Compare(target, s, CompareOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, c.Samples)
	assert.InDelta(t, 3.0, c.HistoricalMean, 1e-9)
}

func TestCompareTargetMissingValue(t *testing.T) {
	s := New([]models.Record{rec(2024, 3, 1, math.NaN(), 6)})
	target, _ := s.Select(day(2024, 3, 1))

	_, err := Compare(target, s, CompareOptions{})
	assert.True(t, errors.Is(err, ErrMissingValue))
}

func TestCompareLatest(t *testing.T) {
	s := New([]models.Record{
		rec(2023, 6, 15, 18, 26),
		rec(2024, 6, 15, 20, 28),
	})

	c, err := CompareLatest(s, CompareOptions{})
	require.NoError(t, err)
	assert.Equal(t, day(2024, 6, 15), c.Target.Date)
	assert.InDelta(t, 1.0, c.Deviation, 1e-9)

	_, err = CompareLatest(Series{}, CompareOptions{})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCompareDateNotFound(t *testing.T) {
	s := New([]models.Record{rec(2024, 6, 15, 20, 28)})

	_, err := CompareDate(s, day(2024, 6, 16), CompareOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "2024-06-16")

	_, err = CompareDate(Series{}, day(2024, 6, 15), CompareOptions{})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCompareDateZeroIsExact(t *testing.T) {
	s := New([]models.Record{rec(2024, 6, 15, 20, 28)})

	_, err := CompareDate(s, time.Time{}, CompareOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "0001-01-01")
}

func TestCompareInput(t *testing.T) {
	s := New([]models.Record{
		rec(2023, 6, 15, 18, 26),
		rec(2024, 6, 14, 19, 25),
		rec(2024, 6, 15, 20, 28),
	})

	tests := []struct {
		raw     string
		want    time.Time
		wantErr error
	}{
		{raw: "", want: day(2024, 6, 15)},
		{raw: "   ", want: day(2024, 6, 15)},
		{raw: "2023-06-15", want: day(2023, 6, 15)},
		{raw: "20230615", want: day(2023, 6, 15)},
		{raw: "0001-01-01", wantErr: ErrNotFound},
		{raw: "00010101", wantErr: ErrNotFound},
		{raw: "2025-02-30", wantErr: ErrNotFound},
		{raw: "2024-06-14", wantErr: ErrNoHistory},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			c, err := CompareInput(s, tt.raw, CompareOptions{ExcludeTarget: true})
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Target.Date)
		})
	}
}

func TestIsNoData(t *testing.T) {
	assert.True(t, IsNoData(fmt.Errorf("wrapped: %w", ErrNotFound)))
	assert.True(t, IsNoData(ErrMissingValue))
	assert.True(t, IsNoData(ErrNoHistory))
	assert.False(t, IsNoData(ErrEmptyInput))
	assert.False(t, IsNoData(nil))
}

func TestFormatTemp(t *testing.T) {
	assert.Equal(t, "24.0 ℃", FormatTemp(24))
	assert.Equal(t, "-3.5 ℃", FormatTemp(-3.5))
	assert.Equal(t, MissingGlyph, FormatTemp(math.NaN()))

	assert.Equal(t, "+1.0 ℃", FormatDelta(1))
	assert.Equal(t, "-0.5 ℃", FormatDelta(-0.5))
	assert.Equal(t, "+0.0 ℃", FormatDelta(0))
	assert.Equal(t, MissingGlyph, FormatDelta(math.NaN()))
}
