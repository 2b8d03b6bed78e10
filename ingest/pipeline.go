// Package ingest refreshes the event corpus from the planning model.
//
// A refresh run asks the planner for candidate events inside a rolling
// window, embeds the survivors concurrently, drops near-duplicates of events
// already in the corpus, and saves the merged corpus atomically. Runs are
// additive: existing corpus entries are never removed.
package ingest

import (
	"context"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sbercal/sbercal/ai"
	"github.com/sbercal/sbercal/core"
	"github.com/sbercal/sbercal/corpus"
)

const (
	defaultWindow       = 180 * 24 * time.Hour
	defaultDupThreshold = 0.92
	defaultPoolSize     = 4
)

var strictISODateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Pipeline drives a corpus refresh.
type Pipeline struct {
	store        *corpus.Store
	embedder     ai.Embedder
	planner      ai.EventPlanner
	pool         *ants.Pool
	window       time.Duration
	dupThreshold float32
	logger       *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the number of concurrent embedding workers.
// Default is 4.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool.Release()
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger.With("component", "ingest")
		return nil
	}
}

// WithWindow sets how far ahead of today planned events may be scheduled.
// Default is 180 days.
func WithWindow(window time.Duration) Option {
	return func(p *Pipeline) error {
		p.window = window
		return nil
	}
}

// WithDuplicateThreshold sets the cosine similarity above which a candidate
// counts as a duplicate of an existing corpus event.
// Default is 0.92.
func WithDuplicateThreshold(threshold float32) Option {
	return func(p *Pipeline) error {
		p.dupThreshold = threshold
		return nil
	}
}

// NewPipeline creates a refresh pipeline.
func NewPipeline(store *corpus.Store, provider ai.AIProvider, opts ...Option) (*Pipeline, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	pool, err := ants.NewPool(defaultPoolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		store:        store,
		embedder:     provider.Embedder(),
		planner:      provider.EventPlanner(),
		pool:         pool,
		window:       defaultWindow,
		dupThreshold: defaultDupThreshold,
		logger:       slog.Default().With("component", "ingest"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(p); err != nil {
			p.pool.Release()
			return nil, err
		}
	}

	return p, nil
}

// Release frees the worker pool. The pipeline must not be used afterwards.
func (p *Pipeline) Release() {
	p.pool.Release()
}

// Run executes one refresh and returns the number of events added.
// today anchors the planning window [today, today+window].
func (p *Pipeline) Run(ctx context.Context, today time.Time) (int, error) {
	from := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	to := from.Add(p.window)

	planned, err := p.planner.PlanEvents(ctx, from, to)
	if err != nil {
		return 0, err
	}
	p.logger.Info("planner returned candidates", "count", len(planned))

	candidates := p.filterPlanned(planned, from, to)
	if len(candidates) == 0 {
		p.logger.Info("no valid candidates, corpus unchanged")
		return 0, nil
	}

	existing, err := p.store.Load()
	if err != nil {
		return 0, err
	}

	embedded, err := p.embedAll(ctx, candidates)
	if err != nil {
		return 0, err
	}

	// Dedup sequentially so candidates are also checked against each other.
	merged := existing
	added := 0
	for _, record := range embedded {
		if dup, score := p.findDuplicate(merged, record.Vector); dup != nil {
			p.logger.Debug("skipping near-duplicate",
				"text", record.Text, "existing", dup.Text, "similarity", score)
			continue
		}
		merged = append(merged, record)
		added++
	}

	if added == 0 {
		p.logger.Info("all candidates were duplicates, corpus unchanged")
		return 0, nil
	}

	if err := p.store.Save(merged); err != nil {
		return 0, err
	}

	p.logger.Info("corpus refreshed", "added", added, "total", len(merged))
	return added, nil
}

// filterPlanned drops candidates without a strict ISO date or outside the window.
func (p *Pipeline) filterPlanned(planned []ai.PlannedEvent, from, to time.Time) []ai.PlannedEvent {
	kept := make([]ai.PlannedEvent, 0, len(planned))
	for _, event := range planned {
		if !strictISODateRe.MatchString(event.Date) {
			p.logger.Warn("dropping candidate with malformed date", "date", event.Date)
			continue
		}
		day, err := time.Parse("2006-01-02", event.Date)
		if err != nil {
			p.logger.Warn("dropping candidate with invalid date", "date", event.Date)
			continue
		}
		if day.Before(from) || day.After(to) {
			p.logger.Debug("dropping candidate outside window", "date", event.Date)
			continue
		}
		kept = append(kept, event)
	}
	return kept
}

// embedAll embeds all candidates on the worker pool.
// Result order is not significant; dedup happens afterwards.
func (p *Pipeline) embedAll(ctx context.Context, candidates []ai.PlannedEvent) ([]*core.EventRecord, error) {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
		records  = make([]*core.EventRecord, 0, len(candidates))
	)

	for _, event := range candidates {
		event := event
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()

			text := event.FullText()
			vector, err := p.embedder.EmbedText(ctx, text)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			records = append(records, &core.EventRecord{
				Date:   event.Date,
				Text:   text,
				Vector: vector,
			})
		})
		if err != nil {
			wg.Done()
			return nil, err
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return records, nil
}

// findDuplicate returns the first existing record whose similarity with the
// vector reaches the duplicate threshold.
func (p *Pipeline) findDuplicate(existing []*core.EventRecord, vector []float32) (*core.EventRecord, float32) {
	for _, record := range existing {
		if len(record.Vector) != len(vector) {
			continue
		}
		var sum float32
		for i := range vector {
			sum += record.Vector[i] * vector[i]
		}
		if sum >= p.dupThreshold {
			return record, sum
		}
	}
	return nil, 0
}
