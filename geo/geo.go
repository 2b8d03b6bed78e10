// Package geo recognizes Northwestern Federal District city mentions in
// free-text queries and matches them against event descriptions.
package geo

import "strings"

// NorthwestCities lists the recognized city names and aliases, lowercase.
// Multi-word and hyphenated names are matched after hyphen normalization.
var NorthwestCities = []string{
	"санкт-петербург", "спб", "петербург", "деловой петербург", "питер",
	"всеволожск", "гатчина", "каменногорск", "кириши", "кольцово", "луза",
	"выборг", "тосно", "волхов", "сосновый бор",
	"петрозаводск", "кондопога", "беломорск", "олонец",
	"мурманск", "апатиты", "ковдор", "мончегорск", "полярные зори",
	"архангельск", "новодвинск", "коряжма", "котлас", "нарьян-мар",
	"калининград", "черняховск", "гусев", "балтийск", "советск",
	"великий новгород", "новгород", "боровичи", "старая русса",
	"псков", "великие луки", "остров", "невель",
	"вологда", "череповец", "грязовец", "кириллов",
}

// Hints returns the cities from NorthwestCities mentioned in the query.
// Matching is case-insensitive and hyphen-insensitive, so "Санкт-Петербург"
// and "санкт петербург" both match. The frequent "калининрад" misspelling
// is corrected before matching. Returned names are the canonical list
// entries, not the query spelling.
func Hints(query string) []string {
	queryNorm := strings.ReplaceAll(strings.ToLower(query), "-", " ")
	queryNorm = strings.ReplaceAll(queryNorm, "калининрад", "калининград")

	var matches []string
	for _, city := range NorthwestCities {
		cityNorm := strings.ReplaceAll(city, "-", " ")
		if strings.Contains(queryNorm, cityNorm) {
			matches = append(matches, city)
		}
	}
	return matches
}

// MatchesAny reports whether the context text mentions at least one of the
// hinted cities. The context is normalized the same way as queries. An empty
// hint list never matches.
func MatchesAny(context string, hints []string) bool {
	contextNorm := strings.ReplaceAll(strings.ToLower(context), "-", " ")
	for _, city := range hints {
		cityNorm := strings.ReplaceAll(city, "-", " ")
		if strings.Contains(contextNorm, cityNorm) {
			return true
		}
	}
	return false
}
