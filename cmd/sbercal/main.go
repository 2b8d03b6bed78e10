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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	sbercal "github.com/sbercal/sbercal"
	"github.com/sbercal/sbercal/ai"
	"github.com/sbercal/sbercal/ai/openai"
	"github.com/sbercal/sbercal/config"
	"github.com/sbercal/sbercal/corpus"
	"github.com/sbercal/sbercal/ingest"
	"github.com/sbercal/sbercal/search"
	"github.com/sbercal/sbercal/storage/badger"
	"github.com/sbercal/sbercal/topic"
	"github.com/sbercal/sbercal/web"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "sbercal",
		Usage: "Semantic assistant for internal IT events",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML configuration file",
				Value:   "config.yaml",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the assistant web application",
				Action: serveCommand,
			},
			{
				Name:   "ask",
				Usage:  "Rank corpus events against a query and print scores",
				Action: askCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of results to print",
						Value: 5,
					},
					&cli.BoolFlag{
						Name:  "geo",
						Usage: "Apply the Northwest geo filter",
						Value: true,
					},
				},
			},
			{
				Name:   "ingest",
				Usage:  "Refresh the event corpus from the planning model",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent embedding workers",
						Value: 4,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serveCommand(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	provider, err := openai.NewProvider(cfg.AIServiceConfig())
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}
	defer provider.Close()

	backend, err := badger.OpenBackend(cfg.DatabasePath, false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	users, err := badger.NewUserRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create user repository: %w", err)
	}
	defer users.Close()

	requests, err := badger.NewRequestRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create request repository: %w", err)
	}
	defer requests.Close()

	store := corpus.NewStore(cfg.CorpusPath)
	assistant, err := buildAssistant(cfg, provider, store)
	if err != nil {
		return fmt.Errorf("failed to create assistant: %w", err)
	}

	// Scheduled corpus refresh, if configured.
	if cfg.RefreshCron != "" {
		pipeline, err := ingest.NewPipeline(store, provider)
		if err != nil {
			return fmt.Errorf("failed to create refresh pipeline: %w", err)
		}
		defer pipeline.Release()

		scheduler := cron.New()
		_, err = scheduler.AddFunc(cfg.RefreshCron, func() {
			added, err := pipeline.Run(context.Background(), time.Now().UTC())
			if err != nil {
				slog.Error("scheduled corpus refresh failed", "err", err)
				return
			}
			slog.Info("scheduled corpus refresh finished", "added", added)
		})
		if err != nil {
			return fmt.Errorf("invalid refresh schedule %q: %w", cfg.RefreshCron, err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	server := web.NewServer(assistant, users, requests, web.WithTopK(cfg.TopK))
	slog.Info("assistant listening", "addr", cfg.Listen)
	return http.ListenAndServe(cfg.Listen, server.Router())
}

// buildAssistant assembles the assistant from configuration, carrying the
// configured judge timeout into the topic classifier.
func buildAssistant(cfg *config.Config, provider ai.AIProvider, store *corpus.Store) (*sbercal.Assistant, error) {
	classifier := topic.NewClassifier(provider.RelevanceJudge(),
		topic.WithTimeout(time.Duration(cfg.AI.JudgeTimeoutSeconds)*time.Second))
	return sbercal.NewAssistant(store, provider,
		sbercal.WithOverfetch(cfg.OverfetchMultiplier),
		sbercal.WithClassifier(classifier))
}

func askCommand(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if c.NArg() == 0 {
		return fmt.Errorf("usage: sbercal ask <query>")
	}
	query := strings.Join(c.Args().Slice(), " ")

	provider, err := openai.NewProvider(cfg.AIServiceConfig())
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}
	defer provider.Close()

	records, err := corpus.NewStore(cfg.CorpusPath).Load()
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}

	engine, err := search.NewEngine(provider.Embedder())
	if err != nil {
		return err
	}

	results, err := engine.Rank(context.Background(), query, records, c.Int("top-k"), c.Bool("geo"))
	if err != nil {
		return err
	}

	fmt.Printf("Found %d hits\n", len(results))
	for i, hit := range results {
		fmt.Printf("%d: '%s' (%s)[%0.3f]\n", i, hit.Text, hit.Date, hit.Score)
	}
	return nil
}

func ingestCommand(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	provider, err := openai.NewProvider(cfg.AIServiceConfig())
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}
	defer provider.Close()

	pipeline, err := ingest.NewPipeline(corpus.NewStore(cfg.CorpusPath), provider,
		ingest.WithPoolSize(c.Int("workers")))
	if err != nil {
		return fmt.Errorf("failed to create refresh pipeline: %w", err)
	}
	defer pipeline.Release()

	added, err := pipeline.Run(context.Background(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("corpus refresh failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Added %d events\n", added)
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
