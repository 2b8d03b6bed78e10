package sbercal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sbercal/sbercal/ai/mock"
	"github.com/sbercal/sbercal/core"
	"github.com/sbercal/sbercal/corpus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testToday = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// seedCorpus writes records whose vectors come from the mock embedder, so a
// query with identical text ranks its record first.
func seedCorpus(t *testing.T, embedder *mock.MockEmbedder, entries map[string]string) *corpus.Store {
	t.Helper()
	store := corpus.NewStore(filepath.Join(t.TempDir(), "corpus.json"))

	records := make([]*core.EventRecord, 0, len(entries))
	for date, text := range entries {
		vector, err := embedder.EmbedText(context.Background(), text)
		require.NoError(t, err)
		records = append(records, &core.EventRecord{Date: date, Text: text, Vector: vector})
	}
	require.NoError(t, store.Save(records))
	embedder.Reset()
	return store
}

func TestAssistantAnswer(t *testing.T) {
	ctx := context.Background()

	t.Run("end to end match", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		store := seedCorpus(t, embedder, map[string]string{
			"2025-09-10": "Конференция по AI в Санкт-Петербурге",
		})
		provider := mock.NewMockProviderWithServices(embedder, mock.NewMockJudge(), mock.NewMockPlanner())

		assistant, err := NewAssistant(store, provider)
		require.NoError(t, err)

		answer, err := assistant.Answer(ctx, "конференция в Петербурге", testToday, 10)
		require.NoError(t, err)

		assert.Contains(t, answer.Response, "Вот подходящие мероприятия:")
		assert.Contains(t, answer.Response, "1. 2025-09-10 — Конференция по AI в Санкт-Петербурге")
		require.Len(t, answer.Events, 1)
		assert.Equal(t, core.CalendarEvent{
			Date: "2025-09-10",
			Text: "Конференция по AI в Санкт-Петербурге",
		}, answer.Events[0])
	})

	t.Run("keyword filter yields nothing found", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		store := seedCorpus(t, embedder, map[string]string{
			"2025-09-10": "Конференция по AI в Санкт-Петербурге",
		})
		provider := mock.NewMockProviderWithServices(embedder, mock.NewMockJudge(), mock.NewMockPlanner())

		assistant, err := NewAssistant(store, provider)
		require.NoError(t, err)

		// "митап" is a strict keyword the only record lacks; "Москва" is
		// not a recognized Northwest city, so the geo filter is skipped.
		answer, err := assistant.Answer(ctx, "митап в Москве", testToday, 10)
		require.NoError(t, err)
		assert.Equal(t, "К сожалению, по вашему запросу ничего не найдено.", answer.Response)
		assert.Empty(t, answer.Events)
	})

	t.Run("empty query", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		store := seedCorpus(t, embedder, map[string]string{})
		provider := mock.NewMockProviderWithServices(embedder, mock.NewMockJudge(), mock.NewMockPlanner())

		assistant, err := NewAssistant(store, provider)
		require.NoError(t, err)

		for _, query := range []string{"", "   ", "📎 загрузка файла"} {
			answer, err := assistant.Answer(ctx, query, testToday, 3)
			require.NoError(t, err)
			assert.Equal(t, "Пожалуйста, введите запрос о мероприятии.", answer.Response)
			assert.Empty(t, answer.Events)
		}
	})

	t.Run("off-topic query", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		store := seedCorpus(t, embedder, map[string]string{
			"2025-09-10": "Конференция по AI в Санкт-Петербурге",
		})
		judge := mock.NewMockJudge()
		judge.IsRelevantFunc = func(ctx context.Context, query string) (bool, error) {
			return false, nil
		}
		provider := mock.NewMockProviderWithServices(embedder, judge, mock.NewMockPlanner())

		assistant, err := NewAssistant(store, provider)
		require.NoError(t, err)

		answer, err := assistant.Answer(ctx, "как приготовить борщ", testToday, 3)
		require.NoError(t, err)
		assert.Contains(t, answer.Response, "не относится к теме IT-мероприятий")
		assert.Empty(t, answer.Events)
	})

	t.Run("only past events", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		store := seedCorpus(t, embedder, map[string]string{
			"2024-12-31": "Конференция по AI в Санкт-Петербурге",
		})
		provider := mock.NewMockProviderWithServices(embedder, mock.NewMockJudge(), mock.NewMockPlanner())

		assistant, err := NewAssistant(store, provider)
		require.NoError(t, err)

		answer, err := assistant.Answer(ctx, "конференция в Петербурге", testToday, 3)
		require.NoError(t, err)
		assert.Contains(t, answer.Response, "прошедшие мероприятия")
		assert.Empty(t, answer.Events)
	})

	t.Run("unparsable dates count as past", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		store := seedCorpus(t, embedder, map[string]string{
			"скоро": "Конференция по AI в Санкт-Петербурге",
		})
		provider := mock.NewMockProviderWithServices(embedder, mock.NewMockJudge(), mock.NewMockPlanner())

		assistant, err := NewAssistant(store, provider)
		require.NoError(t, err)

		answer, err := assistant.Answer(ctx, "конференция в Петербурге", testToday, 3)
		require.NoError(t, err)
		assert.Contains(t, answer.Response, "прошедшие мероприятия")
	})

	t.Run("empty corpus", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		store := corpus.NewStore(filepath.Join(t.TempDir(), "absent.json"))
		provider := mock.NewMockProviderWithServices(embedder, mock.NewMockJudge(), mock.NewMockPlanner())

		assistant, err := NewAssistant(store, provider)
		require.NoError(t, err)

		answer, err := assistant.Answer(ctx, "конференция", testToday, 3)
		require.NoError(t, err)
		assert.Equal(t, "К сожалению, по вашему запросу ничего не найдено.", answer.Response)
	})

	t.Run("today boundary is inclusive", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		store := seedCorpus(t, embedder, map[string]string{
			"2025-01-01": "Конференция по AI в Санкт-Петербурге",
		})
		provider := mock.NewMockProviderWithServices(embedder, mock.NewMockJudge(), mock.NewMockPlanner())

		assistant, err := NewAssistant(store, provider)
		require.NoError(t, err)

		answer, err := assistant.Answer(ctx, "конференция в Петербурге", testToday, 3)
		require.NoError(t, err)
		require.Len(t, answer.Events, 1)
	})
}

func TestBuildFilterQuery(t *testing.T) {
	t.Run("all fields joined", func(t *testing.T) {
		query, ok := BuildFilterQuery(Filters{
			Type: "хакатон", City: "Псков", Date: "15 июня", Guests: "100", Speakers: "5",
		})
		require.True(t, ok)
		assert.Equal(t, "хакатон Псков дата 15 июня гостей 100 спикеров 5", query)
	})

	t.Run("lone city becomes a phrase", func(t *testing.T) {
		query, ok := BuildFilterQuery(Filters{City: "Псков"})
		require.True(t, ok)
		assert.Equal(t, "Мероприятия в Псков", query)
	})

	t.Run("empty filters", func(t *testing.T) {
		_, ok := BuildFilterQuery(Filters{})
		assert.False(t, ok)
	})
}
