package ingest

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sbercal/sbercal/ai"
	"github.com/sbercal/sbercal/ai/mock"
	"github.com/sbercal/sbercal/core"
	"github.com/sbercal/sbercal/corpus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

func plannerWith(events ...ai.PlannedEvent) *mock.MockPlanner {
	planner := mock.NewMockPlanner()
	planner.PlanEventsFunc = func(ctx context.Context, from, to time.Time) ([]ai.PlannedEvent, error) {
		return events, nil
	}
	return planner
}

func newTestStore(t *testing.T) *corpus.Store {
	t.Helper()
	return corpus.NewStore(filepath.Join(t.TempDir(), "corpus.json"))
}

func TestPipelineRun(t *testing.T) {
	ctx := context.Background()

	t.Run("adds planned events", func(t *testing.T) {
		store := newTestStore(t)
		planner := plannerWith(
			ai.PlannedEvent{Date: "2025-06-15", Name: "AI Meetup", City: "Псков", Description: "Митап"},
			ai.PlannedEvent{Date: "2025-07-01", Name: "SecConf", City: "Вологда", Description: "Конференция"},
		)
		provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), mock.NewMockJudge(), planner)

		pipeline, err := NewPipeline(store, provider)
		require.NoError(t, err)
		defer pipeline.Release()

		added, err := pipeline.Run(ctx, today)
		require.NoError(t, err)
		assert.Equal(t, 2, added)

		records, err := store.Load()
		require.NoError(t, err)
		require.Len(t, records, 2)
		for _, record := range records {
			assert.Len(t, record.Vector, 768)
		}
	})

	t.Run("drops malformed and out-of-window dates", func(t *testing.T) {
		store := newTestStore(t)
		planner := plannerWith(
			ai.PlannedEvent{Date: "15 июня", Name: "A", City: "Псков", Description: "x"},
			ai.PlannedEvent{Date: "2025-05-01", Name: "B", City: "Псков", Description: "прошло"},
			ai.PlannedEvent{Date: "2026-06-15", Name: "C", City: "Псков", Description: "слишком далеко"},
			ai.PlannedEvent{Date: "2025-06-20", Name: "D", City: "Псков", Description: "ок"},
		)
		provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), mock.NewMockJudge(), planner)

		pipeline, err := NewPipeline(store, provider)
		require.NoError(t, err)
		defer pipeline.Release()

		added, err := pipeline.Run(ctx, today)
		require.NoError(t, err)
		assert.Equal(t, 1, added)
	})

	t.Run("skips near-duplicates of existing corpus", func(t *testing.T) {
		store := newTestStore(t)

		// Seed the corpus with the exact vector the mock embedder will
		// produce for the duplicate candidate.
		embedder := mock.NewMockEmbedder()
		dupText := "Псков. AI Meetup. Митап"
		dupVector, err := embedder.EmbedText(ctx, dupText)
		require.NoError(t, err)
		require.NoError(t, store.Save([]*core.EventRecord{
			{Date: "2025-06-15", Text: dupText, Vector: dupVector},
		}))
		embedder.Reset()

		planner := plannerWith(
			ai.PlannedEvent{Date: "2025-06-15", Name: "AI Meetup", City: "Псков", Description: "Митап"},
			ai.PlannedEvent{Date: "2025-07-01", Name: "SecConf", City: "Вологда", Description: "Конференция"},
		)
		provider := mock.NewMockProviderWithServices(embedder, mock.NewMockJudge(), planner)

		pipeline, err := NewPipeline(store, provider)
		require.NoError(t, err)
		defer pipeline.Release()

		added, err := pipeline.Run(ctx, today)
		require.NoError(t, err)
		assert.Equal(t, 1, added)

		records, err := store.Load()
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("empty plan leaves corpus untouched", func(t *testing.T) {
		store := newTestStore(t)
		provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), mock.NewMockJudge(), plannerWith())

		pipeline, err := NewPipeline(store, provider)
		require.NoError(t, err)
		defer pipeline.Release()

		added, err := pipeline.Run(ctx, today)
		require.NoError(t, err)
		assert.Zero(t, added)

		records, err := store.Load()
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("planner error propagates", func(t *testing.T) {
		store := newTestStore(t)
		planner := mock.NewMockPlanner()
		planner.PlanEventsFunc = func(ctx context.Context, from, to time.Time) ([]ai.PlannedEvent, error) {
			return nil, errors.New("chat service down")
		}
		provider := mock.NewMockProviderWithServices(mock.NewMockEmbedder(), mock.NewMockJudge(), planner)

		pipeline, err := NewPipeline(store, provider)
		require.NoError(t, err)
		defer pipeline.Release()

		_, err = pipeline.Run(ctx, today)
		assert.Error(t, err)
	})

	t.Run("embedder error propagates", func(t *testing.T) {
		store := newTestStore(t)
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return nil, errors.New("embedding service down")
		}
		planner := plannerWith(
			ai.PlannedEvent{Date: "2025-06-15", Name: "AI Meetup", City: "Псков", Description: "Митап"},
		)
		provider := mock.NewMockProviderWithServices(embedder, mock.NewMockJudge(), planner)

		pipeline, err := NewPipeline(store, provider)
		require.NoError(t, err)
		defer pipeline.Release()

		_, err = pipeline.Run(ctx, today)
		assert.Error(t, err)
	})

	t.Run("nil store rejected", func(t *testing.T) {
		_, err := NewPipeline(nil, mock.NewMockProvider())
		assert.ErrorIs(t, err, ErrStoreRequired)
	})

	t.Run("nil provider rejected", func(t *testing.T) {
		_, err := NewPipeline(newTestStore(t), nil)
		assert.ErrorIs(t, err, ErrAIProviderRequired)
	})
}
