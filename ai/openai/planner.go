// Copyright 2025 SberCal Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/sbercal/sbercal/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// plannerPromptTemplate asks the chat model for a markdown table of events.
// The table format is rigid so the response can be parsed line by line.
const plannerPromptTemplate = `Ты — организатор IT-мероприятий в СЗФО. Придумай 12–15 **вымышленных, но правдоподобных** мероприятий
в период с %s по %s.

Правила:
1. Каждое мероприятие — уникальное, с конкретной датой.
2. Дата проведения — **один день**, в формате "YYYY-MM-DD".
3. Города только из СЗФО: СПб, Калининград, Мурманск, Архангельск, Вологда, Новгород, Псков, Петрозаводск.
4. Темы: AI, ML, хакатоны, митапы, конференции, кибербезопасность, веб-разработка.
5. Названия — реалистичные, как настоящие события.

Верни ТОЛЬКО таблицу в формате:

| Дата | Мероприятие | Город | Описание |
|------|-------------|-------|----------|

Без пояснений, без markdown-обрамления.`

var isoDateRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// EventPlanner implements ai.EventPlanner using OpenAI-compatible chat APIs.
type EventPlanner struct {
	client llms.Model
	logger *slog.Logger
}

// newEventPlanner is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEventPlanner(config *ai.Config) (*EventPlanner, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken("none"),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return &EventPlanner{
		client: client,
		logger: slog.Default().With("component", "openai-planner"),
	}, nil
}

// NewEventPlanner creates a new event planner using the provided configuration.
//
// Returns ai.EventPlanner interface to enforce abstraction.
func NewEventPlanner(config *ai.Config) (ai.EventPlanner, error) {
	return newEventPlanner(config)
}

// PlanEvents asks the chat model for candidate events within [from, to]
// and parses the markdown table from the response.
func (p *EventPlanner) PlanEvents(ctx context.Context, from, to time.Time) ([]ai.PlannedEvent, error) {
	prompt := fmt.Sprintf(plannerPromptTemplate,
		from.Format("2006-01-02"),
		to.Format("2006-01-02"))

	response, err := llms.GenerateFromSinglePrompt(ctx, p.client, prompt, llms.WithTemperature(0.7))
	if err != nil {
		p.logger.Error("event planning failed", "err", err)
		return nil, err
	}

	events := parsePlannedEvents(response)
	p.logger.Debug("planned events", "count", len(events))
	return events, nil
}

// parsePlannedEvents extracts events from a markdown-table response.
// Rows before the |---| separator line are treated as headers.
// Rows with fewer than four cells or without a YYYY-MM-DD date are skipped.
func parsePlannedEvents(text string) []ai.PlannedEvent {
	var events []ai.PlannedEvent
	inTable := false

	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "|") || !strings.Contains(line[1:], "|") {
			continue
		}
		if strings.Contains(line, "---") {
			inTable = true
			continue
		}
		if !inTable {
			continue
		}

		var cells []string
		for _, cell := range strings.Split(line, "|") {
			if cell = strings.TrimSpace(cell); cell != "" {
				cells = append(cells, cell)
			}
		}
		if len(cells) < 4 {
			continue
		}

		dateCell, name, city, description := cells[0], cells[1], cells[2], cells[3]

		// Some models repeat the header row inside the table body
		if strings.Contains(strings.ToLower(dateCell), "дата") ||
			strings.Contains(strings.ToLower(name), "мероприятие") {
			continue
		}

		date := isoDateRe.FindString(dateCell)
		if date == "" {
			continue
		}

		events = append(events, ai.PlannedEvent{
			Date:        date,
			Name:        name,
			City:        city,
			Description: description,
		})
	}
	return events
}
