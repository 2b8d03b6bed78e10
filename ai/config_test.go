package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := NewConfig()
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://localhost:11434/v1", cfg.ChatHost)
		assert.Equal(t, "labse-en-ru", cfg.EmbeddingModel)
		assert.Equal(t, 10*time.Second, cfg.JudgeTimeout)
	})

	t.Run("with host sets both", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://embed.local/v1"))
		assert.Equal(t, "http://embed.local/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://embed.local/v1", cfg.ChatHost)
	})

	t.Run("separate hosts", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingHost("http://embed.local/v1"),
			WithChatHost("http://chat.local/v1"),
		)
		assert.Equal(t, "http://embed.local/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://chat.local/v1", cfg.ChatHost)
	})
}

func TestConfigNormalize(t *testing.T) {
	t.Run("adds v1 suffix", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434"))
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://localhost:11434/v1", cfg.ChatHost)
	})

	t.Run("strips trailing slash before adding v1", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434/"))
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	})

	t.Run("leaves v1 suffix alone", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434/v1"))
		cfg.Normalize()
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	})

	t.Run("restores default judge timeout", func(t *testing.T) {
		cfg := NewConfig(WithJudgeTimeout(-1))
		cfg.Normalize()
		assert.Equal(t, 10*time.Second, cfg.JudgeTimeout)
	})
}

func TestConfigValidate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		require.NoError(t, NewConfig().Validate())
	})

	t.Run("missing embedding model", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingModel(""))
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing chat model", func(t *testing.T) {
		cfg := NewConfig(WithChatModel(""))
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing hosts", func(t *testing.T) {
		cfg := NewConfig(WithHost(""))
		assert.Error(t, cfg.Validate())
	})
}
