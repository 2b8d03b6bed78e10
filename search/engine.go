package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/sbercal/sbercal/ai"
	"github.com/sbercal/sbercal/core"
	"github.com/sbercal/sbercal/geo"
)

// Engine ranks corpus events against a free-text query by cosine similarity,
// then narrows the ranked list with strict keyword and geography filters.
type Engine struct {
	embedder ai.Embedder
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEngine creates a new ranking engine.
func NewEngine(embedder ai.Embedder, opts ...Option) (*Engine, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	e := &Engine{
		embedder: embedder,
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Rank scores the corpus against the query and returns up to topK results,
// most similar first. When useGeo is set, city mentions in the query restrict
// results to events that mention one of those cities.
func (e *Engine) Rank(ctx context.Context, query string, corpus []*core.EventRecord, topK int, useGeo bool) ([]*core.RankedResult, error) {
	return e.RankWithMonitor(ctx, query, corpus, topK, useGeo, nil)
}

// RankWithMonitor ranks with monitoring.
// The monitor receives callbacks at each stage of the ranking process.
func (e *Engine) RankWithMonitor(ctx context.Context, query string, corpus []*core.EventRecord, topK int, useGeo bool, monitor RankMonitor) ([]*core.RankedResult, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query)

	if topK <= 0 || len(corpus) == 0 {
		results := []*core.RankedResult{}
		monitor.Finish(results)
		return results, nil
	}

	embedding, err := e.embedder.EmbedText(ctx, query)
	if err != nil {
		e.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}
	monitor.AfterQueryEmbedding(len(embedding))

	// Score the whole corpus. Vectors are unit-normalized, so the dot
	// product is the cosine similarity.
	scores := make([]float32, len(corpus))
	order := make([]int, len(corpus))
	for i, record := range corpus {
		if len(record.Vector) != len(embedding) {
			return nil, fmt.Errorf("%w: corpus %d, query %d",
				ErrDimensionMismatch, len(record.Vector), len(embedding))
		}
		scores[i] = dotProduct(record.Vector, embedding)
		order[i] = i
	}
	monitor.AfterScoring(scores)

	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	keywords := queryKeywords(query)

	var geoHints []string
	if useGeo {
		geoHints = geo.Hints(query)
	}

	results := make([]*core.RankedResult, 0, topK)
	for _, i := range order {
		record := corpus[i]

		if ok, kw := passesKeywordFilter(record.Text, keywords); !ok {
			monitor.KeywordFiltered(record, kw)
			continue
		}

		if len(geoHints) > 0 {
			eventContext := strings.ToLower(record.Date + " " + record.Text)
			if !geo.MatchesAny(eventContext, geoHints) {
				monitor.GeoFiltered(record)
				continue
			}
		}

		results = append(results, &core.RankedResult{
			Date:  record.Date,
			Text:  record.Text,
			Score: scores[i],
		})
		if len(results) == topK {
			break
		}
	}

	e.logger.Debug("ranked corpus",
		"corpus", len(corpus),
		"keywords", len(keywords),
		"geo_hints", len(geoHints),
		"results", len(results))

	monitor.Finish(results)
	return results, nil
}

// dotProduct computes the dot product of two equal-length vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
