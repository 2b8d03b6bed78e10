// Package calendar renders retrieval results as an iCalendar feed so users
// can pull upcoming events into their own calendar clients.
package calendar

import (
	"fmt"
	"log/slog"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/sbercal/sbercal/core"
	"github.com/sbercal/sbercal/dates"
)

const productID = "-//SberCal//Event Assistant//RU"

// Feed renders the events as an all-day iCalendar feed.
// Events whose dates cannot be normalized are skipped rather than failing
// the whole feed. UIDs are content-derived, so re-exporting the same events
// never duplicates them in a subscribed calendar.
func Feed(events []core.CalendarEvent, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	logger := slog.Default().With("component", "calendar")

	for _, event := range events {
		day, ok := dates.Parse(event.Date)
		if !ok {
			logger.Debug("skipping event with unparsable date", "date", event.Date)
			continue
		}

		uid := fmt.Sprintf("%x@sbercal", uint64(core.IDFromContent(event.Date+"|"+event.Text)))
		ve := cal.AddEvent(uid)
		ve.SetDtStampTime(now)
		ve.SetAllDayStartAt(day)
		ve.SetAllDayEndAt(day.AddDate(0, 0, 1))
		ve.SetSummary(event.Text)
	}

	return cal.Serialize()
}
