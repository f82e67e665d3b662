package history

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"
)

// DefaultLimit bounds the list to the ten most recent distinct names.
const DefaultLimit = 10

// Blob is the key-value store the history persists through: one opaque value
// per key. Get reports an absent key as (nil, nil), not an error.
type Blob interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Store keeps an ordered list of previously looked-up place names, most
// recent first, deduplicated case-insensitively and bounded to a fixed
// maximum. The whole list is persisted as one JSON-encoded blob under a
// fixed key; there is no schema versioning. One logical writer is assumed,
// so every operation is a synchronous read-modify-write.
type Store struct {
	blob   Blob
	key    string
	limit  int
	logger *zap.SugaredLogger
}

// New creates a Store persisting under key. A non-positive limit falls back
// to DefaultLimit.
func New(blob Blob, key string, limit int, logger *zap.SugaredLogger) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{blob: blob, key: key, limit: limit, logger: logger}
}

// Add moves name to the front of the list, dropping any existing entry equal
// to it under case folding, and trims the list to the limit. Repeated adds of
// the same name keep it at the front without growing the list; the stored
// casing is the most recently added one.
func (s *Store) Add(ctx context.Context, name string) ([]string, error) {
	name = strings.TrimSpace(name)

	names, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	next := make([]string, 0, len(names)+1)
	next = append(next, name)
	for _, n := range names {
		if strings.EqualFold(n, name) {
			continue
		}
		next = append(next, n)
	}
	if len(next) > s.limit {
		next = next[:s.limit]
	}

	if err := s.save(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Remove drops every entry equal to name under case folding and persists the
// result. Removing a name that was never added is a no-op, not an error.
func (s *Store) Remove(ctx context.Context, name string) ([]string, error) {
	name = strings.TrimSpace(name)

	names, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	next := make([]string, 0, len(names))
	for _, n := range names {
		if strings.EqualFold(n, name) {
			continue
		}
		next = append(next, n)
	}

	if err := s.save(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// List returns the persisted names, most recent first. Missing state is an
// empty list; so is malformed state, which is deliberately not an error.
func (s *Store) List(ctx context.Context) ([]string, error) {
	return s.load(ctx)
}

func (s *Store) load(ctx context.Context) ([]string, error) {
	raw, err := s.blob.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return []string{}, nil
	}

	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		// Malformed persisted state starts the history over instead of
		// poisoning every subsequent call.
		s.logger.Warnw("discarding malformed history blob", "key", s.key, "error", err)
		return []string{}, nil
	}
	return names, nil
}

func (s *Store) save(ctx context.Context, names []string) error {
	raw, err := json.Marshal(names)
	if err != nil {
		return err
	}
	return s.blob.Set(ctx, s.key, raw)
}
