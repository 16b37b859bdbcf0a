// Package store persists the note list under a single key of a local
// key-value backend. The whole list is rewritten on every change.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/entrhq/nebula/pkg/logging"
	"github.com/entrhq/nebula/pkg/memo"
)

// NotesKey is the key holding the serialized note list.
const NotesKey = "nebula_notes"

// ErrNotFound is returned by KV.Get for a missing key.
var ErrNotFound = errors.New("store: key not found")

// KV is a minimal durable key-value backend.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// NoteStore loads and saves the note list.
type NoteStore struct {
	kv     KV
	logger *logging.Logger
}

// NewNoteStore wraps kv. A nil logger discards diagnostics.
func NewNoteStore(kv KV, logger *logging.Logger) *NoteStore {
	if logger == nil {
		logger = logging.Discard("store")
	}
	return &NoteStore{kv: kv, logger: logger}
}

// Load returns the stored notes, newest first. A missing, unreadable or
// malformed payload yields an empty list; the cause is only logged.
func (s *NoteStore) Load(ctx context.Context) []memo.Note {
	raw, err := s.kv.Get(ctx, NotesKey)
	if errors.Is(err, ErrNotFound) {
		return []memo.Note{}
	}
	if err != nil {
		s.logger.Warnf("failed to read notes, starting empty: %v", err)
		return []memo.Note{}
	}

	var notes []memo.Note
	if err := json.Unmarshal(raw, &notes); err != nil {
		s.logger.Warnf("stored notes are malformed, starting empty: %v", err)
		return []memo.Note{}
	}
	if notes == nil {
		notes = []memo.Note{}
	}
	return notes
}

// Save serializes the full list and writes it under NotesKey.
func (s *NoteStore) Save(ctx context.Context, notes []memo.Note) error {
	if notes == nil {
		notes = []memo.Note{}
	}
	raw, err := json.Marshal(notes)
	if err != nil {
		return fmt.Errorf("failed to encode notes: %w", err)
	}
	if err := s.kv.Put(ctx, NotesKey, raw); err != nil {
		return fmt.Errorf("failed to write notes: %w", err)
	}
	return nil
}

// Attach saves the timeline on every change. Write failures are logged;
// the in-memory list stays authoritative.
func (s *NoteStore) Attach(ctx context.Context, timeline *memo.Timeline) {
	timeline.Subscribe(func(notes []memo.Note) {
		if err := s.Save(ctx, notes); err != nil {
			s.logger.Errorf("%v", err)
			return
		}
		s.logger.Debugf("saved %d notes", len(notes))
	})
}

// Close releases the backend.
func (s *NoteStore) Close() error {
	return s.kv.Close()
}
