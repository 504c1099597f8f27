// Package entry holds the ordered list of wheel labels and persists it to a
// key-value store after every mutation.
package entry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/wheel/internal/storage"
)

// DefaultKey is the storage key holding the persisted list.
const DefaultKey = "rouletteEntries"

// DefaultEntries is used when nothing usable has been persisted.
var DefaultEntries = []string{"Prize 1", "Prize 2", "Prize 3"}

var (
	// ErrEmptyEntry is returned when an entry's text is blank after trimming.
	ErrEmptyEntry = errors.New("entry text must not be empty")
	// ErrIndexOutOfRange is returned for an index outside the list.
	ErrIndexOutOfRange = errors.New("entry index out of range")
	// ErrLastEntry is returned when removing the only remaining entry.
	ErrLastEntry = errors.New("the wheel needs at least one entry")
)

// Store is the ordered entry list. It is not safe for concurrent use; the
// owning event loop serialises access.
type Store struct {
	kv       storage.KV
	key      string
	defaults []string
	entries  []string
	logger   *zap.Logger
}

// NewStore creates a Store holding a copy of defaults. Call Load to read the
// persisted list.
//
// Precondition: kv and logger must be non-nil; defaults must be non-empty.
// An empty key selects DefaultKey.
func NewStore(kv storage.KV, key string, defaults []string, logger *zap.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	if len(defaults) == 0 {
		defaults = DefaultEntries
	}
	d := clone(defaults)
	return &Store{
		kv:       kv,
		key:      key,
		defaults: d,
		entries:  clone(d),
		logger:   logger,
	}
}

// Load replaces the in-memory list with the persisted one.
//
// Postcondition: Entries is non-empty. An absent, malformed or empty value,
// or one holding a blank label, yields the defaults and is not an error; only
// a storage failure is.
func (s *Store) Load(ctx context.Context) error {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.entries = clone(s.defaults)
		return fmt.Errorf("loading entries: %w", err)
	}
	if !ok {
		s.entries = clone(s.defaults)
		return nil
	}

	var loaded []string
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		s.logger.Warn("persisted entries are malformed, using defaults",
			zap.String("key", s.key),
			zap.Error(err),
		)
		s.entries = clone(s.defaults)
		return nil
	}
	if len(loaded) == 0 {
		s.entries = clone(s.defaults)
		return nil
	}
	for i, e := range loaded {
		if strings.TrimSpace(e) == "" {
			s.logger.Warn("persisted entries contain a blank label, using defaults",
				zap.String("key", s.key),
				zap.Int("index", i),
			)
			s.entries = clone(s.defaults)
			return nil
		}
	}
	s.entries = loaded
	return nil
}

// Entries returns a copy of the current list.
func (s *Store) Entries() []string {
	return clone(s.entries)
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// At returns the entry at i.
//
// Precondition: 0 <= i < Len().
func (s *Store) At(i int) string {
	return s.entries[i]
}

// Add appends the trimmed text.
//
// Postcondition: On ErrEmptyEntry the list is unchanged. A returned storage
// error leaves the appended entry in memory.
func (s *Store) Add(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyEntry
	}
	s.entries = append(s.entries, text)
	return s.persist(ctx)
}

// Update replaces the entry at i with the trimmed text.
func (s *Store) Update(ctx context.Context, i int, text string) error {
	if i < 0 || i >= len(s.entries) {
		return fmt.Errorf("updating entry %d: %w", i, ErrIndexOutOfRange)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyEntry
	}
	s.entries[i] = text
	return s.persist(ctx)
}

// Remove deletes the entry at i.
//
// Postcondition: Returns ErrLastEntry without changes when only one entry remains.
func (s *Store) Remove(ctx context.Context, i int) error {
	if i < 0 || i >= len(s.entries) {
		return fmt.Errorf("removing entry %d: %w", i, ErrIndexOutOfRange)
	}
	if len(s.entries) <= 1 {
		return ErrLastEntry
	}
	s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
	return s.persist(ctx)
}

// Reset restores the defaults and persists them.
func (s *Store) Reset(ctx context.Context) error {
	s.entries = clone(s.defaults)
	return s.persist(ctx)
}

func (s *Store) persist(ctx context.Context) error {
	data, err := json.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("encoding entries: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("persisting entries: %w", err)
	}
	s.logger.Debug("entries persisted", zap.String("key", s.key), zap.Int("count", len(s.entries)))
	return nil
}

func clone(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
