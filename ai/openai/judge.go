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
	"strings"

	"github.com/sbercal/sbercal/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// judgePromptTemplate asks the chat model for a bare yes/no verdict.
// Keeping the answer format rigid makes the response cheap to parse.
const judgePromptTemplate = `Относится ли запрос к IT-мероприятиям (хакатоны, митапы, конференции и т.п.)?
Ответь строго: "да" или "нет".
Запрос: «%s»
Ответ:`

// RelevanceJudge implements ai.RelevanceJudge using OpenAI-compatible chat APIs.
type RelevanceJudge struct {
	client llms.Model
	logger *slog.Logger
}

// newRelevanceJudge is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newRelevanceJudge(config *ai.Config) (*RelevanceJudge, error) {
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

	return &RelevanceJudge{
		client: client,
		logger: slog.Default().With("component", "openai-judge"),
	}, nil
}

// NewRelevanceJudge creates a new relevance judge using the provided configuration.
//
// Returns ai.RelevanceJudge interface to enforce abstraction.
func NewRelevanceJudge(config *ai.Config) (ai.RelevanceJudge, error) {
	return newRelevanceJudge(config)
}

// IsRelevant asks the chat model whether the query is about IT events.
// Any answer containing "да" counts as a yes; everything else is a no.
func (j *RelevanceJudge) IsRelevant(ctx context.Context, query string) (bool, error) {
	prompt := fmt.Sprintf(judgePromptTemplate, query)

	response, err := llms.GenerateFromSinglePrompt(ctx, j.client, prompt, llms.WithTemperature(0.0))
	if err != nil {
		j.logger.Error("relevance judgment failed", "err", err)
		return false, err
	}

	verdict := strings.ToLower(strings.TrimSpace(response))
	relevant := strings.Contains(verdict, "да")

	j.logger.Debug("relevance verdict", "query_length", len(query), "verdict", verdict, "relevant", relevant)
	return relevant, nil
}
