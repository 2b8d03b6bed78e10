package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("iso date", func(t *testing.T) {
		d, ok := Parse("2025-06-15")
		require.True(t, ok)
		assert.Equal(t, time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC), d)
	})

	t.Run("dotted with four digit year", func(t *testing.T) {
		d, ok := Parse("15.06.2025")
		require.True(t, ok)
		assert.Equal(t, "2025-06-15", d.Format("2006-01-02"))
	})

	t.Run("dotted with two digit year", func(t *testing.T) {
		d, ok := Parse("15.06.25")
		require.True(t, ok)
		assert.Equal(t, "2025-06-15", d.Format("2006-01-02"))
	})

	t.Run("slashes are tolerated", func(t *testing.T) {
		d, ok := Parse("15/06/2025")
		require.True(t, ok)
		assert.Equal(t, "2025-06-15", d.Format("2006-01-02"))
	})

	t.Run("single digit day and month", func(t *testing.T) {
		d, ok := Parse("1.6.25")
		require.True(t, ok)
		assert.Equal(t, "2025-06-01", d.Format("2006-01-02"))
	})

	t.Run("russian month with year", func(t *testing.T) {
		d, ok := Parse("15 июня 2025")
		require.True(t, ok)
		assert.Equal(t, "2025-06-15", d.Format("2006-01-02"))
	})

	t.Run("russian month without year assumes default", func(t *testing.T) {
		d, ok := Parse("15 июня")
		require.True(t, ok)
		assert.Equal(t, "2025-06-15", d.Format("2006-01-02"))
	})

	t.Run("day range collapses to first day", func(t *testing.T) {
		d, ok := Parse("10-15 июня")
		require.True(t, ok)
		assert.Equal(t, "2025-06-10", d.Format("2006-01-02"))
	})

	t.Run("en dash range", func(t *testing.T) {
		d, ok := Parse("10–12 июля 2025")
		require.True(t, ok)
		assert.Equal(t, "2025-07-10", d.Format("2006-01-02"))
	})

	t.Run("iso date is not mistaken for a range", func(t *testing.T) {
		d, ok := Parse("2025-12-01")
		require.True(t, ok)
		assert.Equal(t, "2025-12-01", d.Format("2006-01-02"))
	})

	t.Run("case insensitive", func(t *testing.T) {
		_, ok := Parse("15 ИЮНЯ 2025")
		assert.True(t, ok)
	})

	t.Run("overflow day is rejected", func(t *testing.T) {
		_, ok := Parse("31 июня")
		assert.False(t, ok)
	})

	t.Run("unparsable strings", func(t *testing.T) {
		for _, raw := range []string{"скоро", "", "  ", "в июне", "2025", "later"} {
			_, ok := Parse(raw)
			assert.False(t, ok, "expected %q to stay unparsed", raw)
		}
	})
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, "2025-06-15", Canonical("15 июня 2025"))
	assert.Equal(t, "2025-06-10", Canonical("10-15 июня"))
	assert.Equal(t, "", Canonical("скоро"))
}

func TestIsFutureOrToday(t *testing.T) {
	now := time.Date(2025, time.January, 1, 15, 30, 0, 0, time.UTC)

	t.Run("today counts", func(t *testing.T) {
		day := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
		assert.True(t, IsFutureOrToday(day, now))
	})

	t.Run("tomorrow counts", func(t *testing.T) {
		day := time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)
		assert.True(t, IsFutureOrToday(day, now))
	})

	t.Run("yesterday does not", func(t *testing.T) {
		day := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)
		assert.False(t, IsFutureOrToday(day, now))
	})
}
