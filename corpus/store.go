// Package corpus loads and saves the event corpus backing retrieval.
//
// The corpus is a single JSON file: an array of objects with "date", "text"
// and "vector" fields. It is small enough (hundreds of events) to reload on
// every query, which keeps hand edits and scheduled refreshes visible without
// restarts.
package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sbercal/sbercal/core"
)

// ErrInconsistentDimensions is returned when corpus vectors disagree on length.
var ErrInconsistentDimensions = errors.New("inconsistent corpus vector dimensions")

// Store reads and writes the corpus file.
type Store struct {
	path   string
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for corpus operations.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger.With("component", "corpus-store")
	}
}

// NewStore creates a store for the corpus file at path.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		logger: slog.Default().With("component", "corpus-store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the corpus file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the corpus from disk.
// A missing file is an empty corpus, not an error: the service starts useful
// before the first refresh has run. Malformed JSON and records that fail
// validation are errors. All vectors must share one dimension; a corpus
// written by mixed embedding models must not be served.
func (s *Store) Load() ([]*core.EventRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn("corpus file missing, serving empty corpus", "path", s.path)
			return nil, nil
		}
		return nil, fmt.Errorf("reading corpus %s: %w", s.path, err)
	}

	var records []*core.EventRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing corpus %s: %w", s.path, err)
	}

	dim := -1
	for i, record := range records {
		if err := core.ValidateEventRecord(record); err != nil {
			return nil, fmt.Errorf("corpus record %d: %w", i, err)
		}
		if dim == -1 {
			dim = len(record.Vector)
		} else if len(record.Vector) != dim {
			return nil, fmt.Errorf("%w: record %d has %d, expected %d",
				ErrInconsistentDimensions, i, len(record.Vector), dim)
		}
	}

	s.logger.Debug("corpus loaded", "events", len(records), "dim", dim)
	return records, nil
}

// Save writes the corpus atomically: to a temp file in the same directory,
// then renamed over the target. A crash mid-write never corrupts the corpus
// being served.
func (s *Store) Save(records []*core.EventRecord) error {
	for i, record := range records {
		if err := core.ValidateEventRecord(record); err != nil {
			return fmt.Errorf("corpus record %d: %w", i, err)
		}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding corpus: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".corpus-*.json")
	if err != nil {
		return fmt.Errorf("creating temp corpus file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing corpus: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp corpus file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing corpus %s: %w", s.path, err)
	}

	s.logger.Info("corpus saved", "path", s.path, "events", len(records))
	return nil
}
