package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sbercal/sbercal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLoad(t *testing.T) {
	t.Run("missing file is an empty corpus", func(t *testing.T) {
		store := NewStore(filepath.Join(t.TempDir(), "absent.json"))
		records, err := store.Load()
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("round trip", func(t *testing.T) {
		store := NewStore(filepath.Join(t.TempDir(), "corpus.json"))
		in := []*core.EventRecord{
			{Date: "2025-06-15", Text: "Псков. Хакатон", Vector: []float32{0.6, 0.8}},
			{Date: "15 июня", Text: "Вологда. Митап", Vector: []float32{1, 0}},
		}
		require.NoError(t, store.Save(in))

		out, err := store.Load()
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, in[0].Date, out[0].Date)
		assert.Equal(t, in[0].Text, out[0].Text)
		assert.Equal(t, in[0].Vector, out[0].Vector)
	})

	t.Run("lowercase field names on disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "corpus.json")
		raw := `[{"date":"2025-06-15","text":"Псков. Хакатон","vector":[1,0]}]`
		require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

		records, err := NewStore(path).Load()
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "Псков. Хакатон", records[0].Text)
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "corpus.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		_, err := NewStore(path).Load()
		assert.Error(t, err)
	})

	t.Run("inconsistent dimensions rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "corpus.json")
		raw := `[
			{"date":"2025-06-15","text":"a","vector":[1,0]},
			{"date":"2025-06-16","text":"b","vector":[1,0,0]}
		]`
		require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

		_, err := NewStore(path).Load()
		assert.ErrorIs(t, err, ErrInconsistentDimensions)
	})

	t.Run("invalid record rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "corpus.json")
		raw := `[{"date":"2025-06-15","text":"","vector":[1,0]}]`
		require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

		_, err := NewStore(path).Load()
		assert.ErrorIs(t, err, core.ErrEmptyText)
	})
}

func TestStoreSave(t *testing.T) {
	t.Run("invalid record rejected before writing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "corpus.json")
		store := NewStore(path)

		err := store.Save([]*core.EventRecord{{Text: "нет вектора"}})
		assert.ErrorIs(t, err, core.ErrEmptyVector)

		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		dir := t.TempDir()
		store := NewStore(filepath.Join(dir, "corpus.json"))
		require.NoError(t, store.Save([]*core.EventRecord{
			{Date: "2025-06-15", Text: "x", Vector: []float32{1}},
		}))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "corpus.json", entries[0].Name())
	})
}
