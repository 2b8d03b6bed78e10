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


// Package config provides the YAML application configuration, including
// first-run config creation and 0600 permissions.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/sbercal/sbercal/ai"
	"gopkg.in/yaml.v3"
)

// AIConfig configures the embedding and chat model endpoints.
type AIConfig struct {
	// EmbeddingHost is the base URL of the OpenAI-compatible embedding API.
	EmbeddingHost string `yaml:"embedding_host"`
	// ChatHost is the base URL of the OpenAI-compatible chat API.
	ChatHost string `yaml:"chat_host"`
	// EmbeddingModel is the embedding model identifier.
	EmbeddingModel string `yaml:"embedding_model"`
	// ChatModel is the chat model identifier for judging and planning.
	ChatModel string `yaml:"chat_model"`
	// JudgeTimeoutSeconds bounds a single relevance judgment call.
	JudgeTimeoutSeconds int `yaml:"judge_timeout_seconds"`
}

// SMTPConfig holds the SMTP relay used for account notification emails.
// An empty Host disables email entirely.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Login    string `yaml:"login"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the assistant web app.
	Listen string `yaml:"listen"`

	// AdminListen is the HTTP listen address for the admin panel.
	AdminListen string `yaml:"admin_listen"`

	// AppURL is the externally reachable address of the assistant, used in
	// notification emails. If empty, emails omit the link.
	AppURL string `yaml:"app_url"`

	// CorpusPath is the path of the event corpus JSON file.
	CorpusPath string `yaml:"corpus_path"`

	// DatabasePath is the directory of the BadgerDB account database.
	DatabasePath string `yaml:"database_path"`

	// TopK is the number of events returned per query.
	TopK int `yaml:"top_k"`

	// OverfetchMultiplier widens ranking to TopK*multiplier candidates so
	// post-filters can drop events without shrinking the final list.
	OverfetchMultiplier int `yaml:"overfetch_multiplier"`

	// RefreshCron is a cron-style schedule (e.g. "0 3 * * *") for the
	// corpus refresh. If empty, scheduled refresh is disabled.
	RefreshCron string `yaml:"refresh"`

	// AI configures the model endpoints.
	AI AIConfig `yaml:"ai"`

	// SMTP configures the notification email relay.
	SMTP SMTPConfig `yaml:"smtp"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:              "127.0.0.1:8080",
		AdminListen:         "127.0.0.1:8081",
		CorpusPath:          "corpus.json",
		DatabasePath:        "sbercal.db",
		TopK:                3,
		OverfetchMultiplier: 3,
		RefreshCron:         "0 3 * * *",
		AI: AIConfig{
			EmbeddingHost:       "http://localhost:11434/v1",
			ChatHost:            "http://localhost:11434/v1",
			EmbeddingModel:      "labse-en-ru",
			ChatModel:           "qwen2.5:3b",
			JudgeTimeoutSeconds: 10,
		},
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	defaults := DefaultConfig()
	if c.Listen == "" {
		c.Listen = defaults.Listen
	}
	if c.AdminListen == "" {
		c.AdminListen = defaults.AdminListen
	}
	if c.CorpusPath == "" {
		c.CorpusPath = defaults.CorpusPath
	}
	if c.DatabasePath == "" {
		c.DatabasePath = defaults.DatabasePath
	}
	if c.TopK <= 0 {
		c.TopK = defaults.TopK
	}
	if c.OverfetchMultiplier <= 0 {
		c.OverfetchMultiplier = defaults.OverfetchMultiplier
	}
	if c.AI.EmbeddingHost == "" {
		c.AI.EmbeddingHost = defaults.AI.EmbeddingHost
	}
	if c.AI.ChatHost == "" {
		c.AI.ChatHost = defaults.AI.ChatHost
	}
	if c.AI.EmbeddingModel == "" {
		c.AI.EmbeddingModel = defaults.AI.EmbeddingModel
	}
	if c.AI.ChatModel == "" {
		c.AI.ChatModel = defaults.AI.ChatModel
	}
	if c.AI.JudgeTimeoutSeconds <= 0 {
		c.AI.JudgeTimeoutSeconds = defaults.AI.JudgeTimeoutSeconds
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}
}

// AIServiceConfig converts the YAML section into the ai package's Config.
func (c *Config) AIServiceConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithEmbeddingHost(c.AI.EmbeddingHost),
		ai.WithChatHost(c.AI.ChatHost),
		ai.WithEmbeddingModel(c.AI.EmbeddingModel),
		ai.WithChatModel(c.AI.ChatModel),
		ai.WithJudgeTimeout(time.Duration(c.AI.JudgeTimeoutSeconds)*time.Second),
	)
}

// MailEnabled reports whether the SMTP relay is configured.
func (c *Config) MailEnabled() bool {
	return c.SMTP.Host != ""
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// Atomic write: write to temp file in same directory then rename.
	tmp, err := os.CreateTemp(dir, ".sbercal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}

	// Flush and close before chmod/rename.
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	// Set permissions to 0600 on temp file before rename.
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	// Rename over the target path.
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	return nil
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
