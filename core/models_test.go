package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a := IDFromContent("Конференция по AI в Санкт-Петербурге")
		b := IDFromContent("Конференция по AI в Санкт-Петербурге")
		assert.Equal(t, a, b)
	})

	t.Run("different content different id", func(t *testing.T) {
		a := IDFromContent("хакатон")
		b := IDFromContent("митап")
		assert.NotEqual(t, a, b)
	})

	t.Run("empty content is valid", func(t *testing.T) {
		// Zero-length input still hashes to a stable value.
		assert.Equal(t, IDFromContent(""), IDFromContent(""))
	})
}

func TestPasswordDigest(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, PasswordDigest("ivanovi", "secret"), PasswordDigest("ivanovi", "secret"))
	})

	t.Run("login acts as salt", func(t *testing.T) {
		assert.NotEqual(t, PasswordDigest("ivanovi", "secret"), PasswordDigest("petrovp", "secret"))
	})

	t.Run("distinct passwords", func(t *testing.T) {
		assert.NotEqual(t, PasswordDigest("ivanovi", "secret"), PasswordDigest("ivanovi", "secret2"))
	})
}
