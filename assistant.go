// Package sbercal wires the event corpus, AI services and ranking engine
// into the query-answering assistant.
package sbercal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sbercal/sbercal/ai"
	"github.com/sbercal/sbercal/core"
	"github.com/sbercal/sbercal/corpus"
	"github.com/sbercal/sbercal/dates"
	"github.com/sbercal/sbercal/search"
	"github.com/sbercal/sbercal/topic"
)

// User-facing response texts. The assistant never surfaces raw errors.
const (
	msgEmptyQuery   = "Пожалуйста, введите запрос о мероприятии."
	msgOffTopic     = "Ваш запрос не относится к теме IT-мероприятий...\nОбратитесь к GigaChat для общих вопросов."
	msgNothingFound = "К сожалению, по вашему запросу ничего не найдено."
	msgOnlyPast     = "По вашему запросу найдены только прошедшие мероприятия, актуальных нет."
	msgListHeader   = "Вот подходящие мероприятия:\n"
	msgNoFilters    = "Выберите хотя бы один фильтр."
)

// uploadPlaceholder is sent by the web client while a file upload is pending.
const uploadPlaceholder = "📎 загрузка файла"

const defaultOverfetch = 3

// Assistant answers free-text queries about upcoming IT events.
type Assistant struct {
	store      *corpus.Store
	classifier *topic.Classifier
	engine     *search.Engine
	overfetch  int
	logger     *slog.Logger
}

// Option configures an Assistant.
type Option func(*Assistant) error

// WithOverfetch sets the multiplier applied to top_k during ranking so that
// date filtering still leaves enough results.
// Default is 3.
func WithOverfetch(multiplier int) Option {
	return func(a *Assistant) error {
		if multiplier < 1 {
			multiplier = 1
		}
		a.overfetch = multiplier
		return nil
	}
}

// WithClassifier replaces the default topic classifier.
func WithClassifier(classifier *topic.Classifier) Option {
	return func(a *Assistant) error {
		a.classifier = classifier
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assistant) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger.With("component", "assistant")
		return nil
	}
}

// NewAssistant creates the query orchestrator.
func NewAssistant(store *corpus.Store, provider ai.AIProvider, opts ...Option) (*Assistant, error) {
	if store == nil {
		return nil, fmt.Errorf("corpus store required")
	}
	if provider == nil {
		return nil, fmt.Errorf("AI provider required")
	}

	engine, err := search.NewEngine(provider.Embedder())
	if err != nil {
		return nil, err
	}

	a := &Assistant{
		store:      store,
		classifier: topic.NewClassifier(provider.RelevanceJudge()),
		engine:     engine,
		overfetch:  defaultOverfetch,
		logger:     slog.Default().With("component", "assistant"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// Answer processes one query and returns the response text plus calendar
// events. today anchors the future/past partition. Only infrastructure
// failures (corpus unreadable, embedding service down) return an error;
// every domain outcome is a normal Answer.
func (a *Assistant) Answer(ctx context.Context, query string, today time.Time, topK int) (*core.Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" || query == uploadPlaceholder {
		return &core.Answer{Response: msgEmptyQuery, Events: []core.CalendarEvent{}}, nil
	}

	if !a.classifier.IsOnTopic(ctx, query) {
		a.logger.Info("query rejected as off-topic", "query_length", len(query))
		return &core.Answer{Response: msgOffTopic, Events: []core.CalendarEvent{}}, nil
	}

	// The corpus is reloaded per query so refreshes and hand edits are
	// visible without restarts.
	records, err := a.store.Load()
	if err != nil {
		return nil, err
	}

	// Over-fetch so the future-date filter below still leaves enough results.
	candidates, err := a.engine.Rank(ctx, query, records, topK*a.overfetch, true)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		return &core.Answer{Response: msgNothingFound, Events: []core.CalendarEvent{}}, nil
	}

	upcoming := make([]*core.RankedResult, 0, len(candidates))
	for _, candidate := range candidates {
		day, ok := dates.Parse(candidate.Date)
		// Unparsable dates are excluded from upcoming views.
		if !ok || !dates.IsFutureOrToday(day, today) {
			continue
		}
		upcoming = append(upcoming, candidate)
		if len(upcoming) == topK {
			break
		}
	}

	if len(upcoming) == 0 {
		return &core.Answer{Response: msgOnlyPast, Events: []core.CalendarEvent{}}, nil
	}

	var sb strings.Builder
	sb.WriteString(msgListHeader)
	events := make([]core.CalendarEvent, 0, len(upcoming))
	for i, result := range upcoming {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%d. %s — %s", i+1, result.Date, result.Text)

		if canonical := dates.Canonical(result.Date); canonical != "" {
			events = append(events, core.CalendarEvent{Date: canonical, Text: result.Text})
		}
	}

	return &core.Answer{Response: sb.String(), Events: events}, nil
}

// Filters is the structured event filter form of the web client.
type Filters struct {
	Type     string
	City     string
	Date     string
	Guests   string
	Speakers string
}

// BuildFilterQuery joins filter fields into a synthetic free-text query.
// The boolean result is false when no filter was selected.
func BuildFilterQuery(f Filters) (string, bool) {
	var parts []string
	if f.Type != "" {
		parts = append(parts, f.Type)
	}
	if f.City != "" {
		parts = append(parts, f.City)
	}
	if f.Date != "" {
		parts = append(parts, "дата "+f.Date)
	}
	if f.Guests != "" {
		parts = append(parts, "гостей "+f.Guests)
	}
	if f.Speakers != "" {
		parts = append(parts, "спикеров "+f.Speakers)
	}

	if len(parts) == 0 {
		return "", false
	}

	// A lone city reads better as a full phrase.
	if len(parts) == 1 && f.City != "" && f.Type == "" {
		return "Мероприятия в " + f.City, true
	}
	return strings.Join(parts, " "), true
}

// NoFiltersMessage is the response for an empty filter form.
func NoFiltersMessage() string {
	return msgNoFilters
}
