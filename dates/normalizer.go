// Package dates normalizes the date strings attached to corpus events.
//
// Corpus dates come from an LLM and from hand-edited JSON, so the package
// accepts several common Russian formats and collapses them to a canonical
// YYYY-MM-DD day. Strings that fit no known format stay unparsed; callers
// treat such events as undated rather than dropping them.
package dates

import (
	"regexp"
	"strings"
	"time"
)

// genitiveMonths maps Russian genitive month names to month numbers.
var genitiveMonths = map[string]time.Month{
	"января":   time.January,
	"февраля":  time.February,
	"марта":    time.March,
	"апреля":   time.April,
	"мая":      time.May,
	"июня":     time.June,
	"июля":     time.July,
	"августа":  time.August,
	"сентября": time.September,
	"октября":  time.October,
	"ноября":   time.November,
	"декабря":  time.December,
}

// fallbackYear is assumed when a Russian-style date omits the year.
const fallbackYear = 2025

var (
	leadingDayRangeRe = regexp.MustCompile(`^(\d{1,2})\s*[-–—]\s*\d{1,2}(.*)$`)
	nonDateCharsRe    = regexp.MustCompile(`[^0-9.]`)
	dottedDateRe      = regexp.MustCompile(`^(\d{1,4})\.(\d{1,2})\.(\d{1,4})$`)
	russianDateRe     = regexp.MustCompile(`^(\d{1,2})\s+([а-яё]+)(?:\s+(\d{4}))?$`)
)

// Parse normalizes a raw date string to a single calendar day.
// Supported forms, tried in order:
//
//	2025-06-15            ISO
//	15.06.2025, 15.06.25  dotted, slashes tolerated, 2-digit year means 20xx
//	15 июня 2025          Russian genitive month
//	15 июня               same with the year assumed
//	10-15 июня            day range, collapsed to its first day
//
// The boolean result reports whether parsing succeeded.
func Parse(raw string) (time.Time, bool) {
	s := strings.TrimSpace(strings.ToLower(raw))
	if s == "" {
		return time.Time{}, false
	}

	// A leading day range like "10-15 июня" collapses to its first day.
	// ISO dates are unaffected: a four-digit year cannot match the range.
	if m := leadingDayRangeRe.FindStringSubmatch(s); m != nil {
		s = m[1] + m[2]
	}

	// Other ranges keep the first segment only.
	for _, dash := range []string{"–", "—", "-"} {
		if idx := strings.Index(s, dash); idx > 0 {
			// Keep ISO dates whole.
			if dash == "-" && isoCandidate(s) {
				break
			}
			s = strings.TrimSpace(s[:idx])
			break
		}
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}

	if t, ok := parseDotted(s); ok {
		return t, true
	}

	return parseRussian(s)
}

// isoCandidate reports whether the string starts like a YYYY-MM-DD date.
func isoCandidate(s string) bool {
	if len(s) < 5 {
		return false
	}
	for i := 0; i < 4; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s[4] == '-'
}

// parseDotted handles numeric dates like "15.06.2025", "15/06/25" or "15.6.25".
func parseDotted(s string) (time.Time, bool) {
	s = strings.ReplaceAll(s, "/", ".")
	s = nonDateCharsRe.ReplaceAllString(s, "")

	m := dottedDateRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	day, month, year := m[1], m[2], m[3]
	if len(day) > 2 || len(month) > 2 {
		return time.Time{}, false
	}
	switch len(year) {
	case 2:
		year = "20" + year
	case 4:
	default:
		return time.Time{}, false
	}

	t, err := time.Parse("2.1.2006", day+"."+month+"."+year)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// parseRussian handles "15 июня 2025" and "15 июня" (year assumed).
func parseRussian(s string) (time.Time, bool) {
	m := russianDateRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}

	month, ok := genitiveMonths[m[2]]
	if !ok {
		return time.Time{}, false
	}

	day := 0
	for _, r := range m[1] {
		day = day*10 + int(r-'0')
	}

	year := fallbackYear
	if m[3] != "" {
		year = 0
		for _, r := range m[3] {
			year = year*10 + int(r-'0')
		}
	}

	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow ("31 июня" becomes July 1); reject those.
	if t.Day() != day || t.Month() != month {
		return time.Time{}, false
	}
	return t, true
}

// Canonical returns the YYYY-MM-DD form of a raw date string,
// or "" when the string fits no known format.
func Canonical(raw string) string {
	t, ok := Parse(raw)
	if !ok {
		return ""
	}
	return t.Format("2006-01-02")
}

// IsFutureOrToday reports whether the day of t is today or later,
// compared against the calendar day of now in UTC.
func IsFutureOrToday(t time.Time, now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(today)
}
