package search

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// StrictKeywords are event-type words that, once present in a query, must
// also appear in every returned event. Asking for a hackathon should never
// surface a lecture just because it scored well.
var StrictKeywords = []string{
	"хакатон", "митап", "форум", "конференция", "семинар",
	"лекция", "премия", "сессия", "встреча", "круглый стол",
}

// queryKeywords returns the strict keywords mentioned in the query.
func queryKeywords(query string) []string {
	queryLower := strings.ToLower(query)
	var found []string
	for _, kw := range StrictKeywords {
		if strings.Contains(queryLower, kw) {
			found = append(found, kw)
		}
	}
	return found
}

// containsKeyword reports whether text contains keyword starting at a word
// boundary. Matching is a prefix match, so "хакатон" matches "хакатоны".
// The boundary check is done by hand because regexp's \b is ASCII-only and
// never fires inside Cyrillic text.
func containsKeyword(text, keyword string) bool {
	textLower := strings.ToLower(text)
	for from := 0; ; {
		idx := strings.Index(textLower[from:], keyword)
		if idx < 0 {
			return false
		}
		idx += from
		if idx == 0 {
			return true
		}
		prev, _ := utf8.DecodeLastRuneInString(textLower[:idx])
		if !unicode.IsLetter(prev) && !unicode.IsDigit(prev) {
			return true
		}
		from = idx + len(keyword)
	}
}

// passesKeywordFilter reports whether the event text satisfies every strict
// keyword found in the query. On failure it also returns the first keyword
// the event is missing.
func passesKeywordFilter(eventText string, keywords []string) (bool, string) {
	for _, kw := range keywords {
		if !containsKeyword(eventText, kw) {
			return false, kw
		}
	}
	return true, ""
}
