package ai

import (
	"context"
	"time"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector is unit-normalized and deterministic for identical
	// text and model version.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// RelevanceJudge decides whether a free-text query is about IT events.
// It is an unreliable, high-latency dependency: callers must bound it with a
// timeout and choose a default decision when it errors.
// Implementations must be thread-safe for concurrent use.
type RelevanceJudge interface {
	// IsRelevant returns the judge's yes/no verdict for the query.
	IsRelevant(ctx context.Context, query string) (bool, error)
}

// EventPlanner produces candidate event records for the corpus refresh.
// Implementations must be thread-safe for concurrent use.
type EventPlanner interface {
	// PlanEvents returns candidate events scheduled within [from, to].
	// The returned dates are strict YYYY-MM-DD strings; entries violating
	// that contract are filtered out by the ingestion pipeline.
	PlanEvents(ctx context.Context, from, to time.Time) ([]PlannedEvent, error)
}

// PlannedEvent is a single candidate event produced by an EventPlanner.
type PlannedEvent struct {
	// Date is the event day in YYYY-MM-DD form.
	Date string

	// Name is the event title.
	Name string

	// City is the host city.
	City string

	// Description is a short free-text description.
	Description string
}

// FullText renders the corpus text form of the event: "City. Name. Description".
func (e PlannedEvent) FullText() string {
	return e.City + ". " + e.Name + ". " + e.Description
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder, RelevanceJudge and EventPlanner
// instances, ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// RelevanceJudge returns the domain judgment service.
	// The returned RelevanceJudge is safe for concurrent use.
	RelevanceJudge() RelevanceJudge

	// EventPlanner returns the corpus planning service.
	// The returned EventPlanner is safe for concurrent use.
	EventPlanner() EventPlanner

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
