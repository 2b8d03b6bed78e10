package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/sbercal/sbercal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeed(t *testing.T) {
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

	t.Run("renders all-day events", func(t *testing.T) {
		feed := Feed([]core.CalendarEvent{
			{Date: "2025-06-15", Text: "Псков. Хакатон по веб-разработке"},
		}, now)

		assert.Contains(t, feed, "BEGIN:VCALENDAR")
		assert.Contains(t, feed, "METHOD:PUBLISH")
		assert.Contains(t, feed, "BEGIN:VEVENT")
		assert.Contains(t, feed, "20250615")
		assert.Contains(t, feed, "@sbercal")
	})

	t.Run("normalizes russian dates", func(t *testing.T) {
		feed := Feed([]core.CalendarEvent{
			{Date: "15 июня 2025", Text: "Вологда. Митап"},
		}, now)

		assert.Contains(t, feed, "20250615")
	})

	t.Run("skips unparsable dates", func(t *testing.T) {
		feed := Feed([]core.CalendarEvent{
			{Date: "скоро", Text: "Мурманск. Лекция"},
			{Date: "2025-07-01", Text: "Псков. Семинар"},
		}, now)

		assert.Equal(t, 1, strings.Count(feed, "BEGIN:VEVENT"))
	})

	t.Run("stable uids for identical events", func(t *testing.T) {
		events := []core.CalendarEvent{{Date: "2025-06-15", Text: "Псков. Хакатон"}}
		first := Feed(events, now)
		second := Feed(events, now)
		require.Equal(t, first, second)
	})

	t.Run("empty input still yields a valid calendar", func(t *testing.T) {
		feed := Feed(nil, now)
		assert.Contains(t, feed, "BEGIN:VCALENDAR")
		assert.NotContains(t, feed, "BEGIN:VEVENT")
	})
}
