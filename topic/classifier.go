// Package topic decides whether a user query belongs to the IT-events
// domain before any expensive retrieval work happens.
package topic

import (
	"context"
	"log/slog"
	"regexp"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/sbercal/sbercal/ai"
	"github.com/sbercal/sbercal/geo"
)

// Word boundaries are checked manually below: RE2's \b is ASCII-only, so a
// \b-anchored pattern would fire inside Cyrillic words.
var (
	numericDateRe = regexp.MustCompile(`\d{1,2}[./]\d{1,2}`)
	nearYearRe    = regexp.MustCompile(`202[4-6]`)
)

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// hasDateToken reports a day.month-looking token or a near-term year at a
// word boundary. The day.month form only needs a leading boundary; the year
// must stand alone.
func hasDateToken(query string) bool {
	for _, loc := range numericDateRe.FindAllStringIndex(query, -1) {
		if boundaryBefore(query, loc[0]) {
			return true
		}
	}
	for _, loc := range nearYearRe.FindAllStringIndex(query, -1) {
		if boundaryBefore(query, loc[0]) && boundaryAfter(query, loc[1]) {
			return true
		}
	}
	return false
}

// Classifier decides whether a query is about IT events.
//
// Cheap local signals (a recognized city, a date-looking token) short-circuit
// to an on-topic verdict. Everything else goes to the external judge, bounded
// by a timeout. The judge is advisory: when it errors or times out the
// classifier fails open and lets the query through, because dropping a valid
// question is worse than answering an off-topic one.
type Classifier struct {
	judge   ai.RelevanceJudge
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithTimeout bounds a single judge call. Default: 10s.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Classifier) {
		c.timeout = timeout
	}
}

// WithLogger sets the logger for classification decisions.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) {
		c.logger = logger.With("component", "topic-classifier")
	}
}

// NewClassifier creates a classifier backed by the given judge.
// A nil judge disables external judgment entirely: every query that misses
// the fast paths is treated as on-topic.
func NewClassifier(judge ai.RelevanceJudge, opts ...Option) *Classifier {
	c := &Classifier{
		judge:   judge,
		timeout: 10 * time.Second,
		logger:  slog.Default().With("component", "topic-classifier"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsOnTopic reports whether the query belongs to the IT-events domain.
func (c *Classifier) IsOnTopic(ctx context.Context, query string) bool {
	// A recognized Northwest city is a strong enough signal on its own.
	if len(geo.Hints(query)) > 0 {
		c.logger.Debug("on-topic via geo fast path", "query_length", len(query))
		return true
	}

	// So is anything that looks like a date or a near-term year.
	if hasDateToken(query) {
		c.logger.Debug("on-topic via date fast path", "query_length", len(query))
		return true
	}

	if c.judge == nil {
		return true
	}

	judgeCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	relevant, err := c.judge.IsRelevant(judgeCtx, query)
	if err != nil {
		c.logger.Warn("relevance judge unavailable, letting query through", "err", err)
		return true
	}
	return relevant
}
