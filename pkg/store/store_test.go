package store

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/entrhq/nebula/pkg/logging"
	"github.com/entrhq/nebula/pkg/memo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]KV {
	t.Helper()
	dir := t.TempDir()

	fileKV, err := Open(BackendFile, filepath.Join(dir, "notes.json"))
	require.NoError(t, err)
	sqliteKV, err := Open(BackendSQLite, filepath.Join(dir, "notes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqliteKV.Close() })

	return map[string]KV{
		BackendFile:   fileKV,
		BackendSQLite: sqliteKV,
	}
}

func sampleNotes() []memo.Note {
	return []memo.Note{
		{ID: "n2", Content: "call mom", CreatedAt: 1_700_000_001_000},
		{ID: "n1", Content: "buy milk", CreatedAt: 1_700_000_000_000, IsAIGenerated: true},
	}
}

func TestNoteStoreRoundTrip(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := NewNoteStore(kv, nil)
			ctx := context.Background()

			require.NoError(t, s.Save(ctx, sampleNotes()))
			assert.Equal(t, sampleNotes(), s.Load(ctx))

			// Full rewrite replaces the previous list
			next := append([]memo.Note{{ID: "n3", Content: "water plants", CreatedAt: 1_700_000_002_000}}, sampleNotes()...)
			require.NoError(t, s.Save(ctx, next))
			assert.Equal(t, next, s.Load(ctx))
		})
	}
}

func TestNoteStoreLoadMissingIsEmpty(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			got := NewNoteStore(kv, nil).Load(context.Background())
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestNoteStoreLoadMalformedIsEmpty(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, kv.Put(ctx, NotesKey, []byte(`{"not":"a list"}`)))

			var logs bytes.Buffer
			s := NewNoteStore(kv, logging.NewWriterLogger("store", &logs))
			got := s.Load(ctx)

			assert.NotNil(t, got)
			assert.Empty(t, got)
			assert.Contains(t, logs.String(), "stored notes are malformed")
		})
	}
}

func TestNoteStoreLoadCorruptFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.json")
	require.NoError(t, os.WriteFile(path, []byte("{{{"), 0600))

	kv, err := NewFileKV(path)
	require.NoError(t, err)

	got := NewNoteStore(kv, nil).Load(context.Background())
	assert.Empty(t, got)

	// Writing over a corrupt file recovers it
	s := NewNoteStore(kv, nil)
	require.NoError(t, s.Save(context.Background(), sampleNotes()))
	assert.Equal(t, sampleNotes(), s.Load(context.Background()))
}

func TestNoteStoreSaveNilWritesEmptyArray(t *testing.T) {
	kv, err := NewFileKV(filepath.Join(t.TempDir(), "notes.json"))
	require.NoError(t, err)

	require.NoError(t, NewNoteStore(kv, nil).Save(context.Background(), nil))

	raw, err := kv.Get(context.Background(), NotesKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestNoteStoreWireFormat(t *testing.T) {
	kv, err := NewFileKV(filepath.Join(t.TempDir(), "notes.json"))
	require.NoError(t, err)

	require.NoError(t, NewNoteStore(kv, nil).Save(context.Background(), sampleNotes()))

	raw, err := kv.Get(context.Background(), NotesKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"id":"n2","content":"call mom","createdAt":1700000001000},
		{"id":"n1","content":"buy milk","createdAt":1700000000000,"isAiGenerated":true}
	]`, string(raw))
}

func TestNoteStoreAttachSavesOnEveryChange(t *testing.T) {
	kv, err := NewFileKV(filepath.Join(t.TempDir(), "notes.json"))
	require.NoError(t, err)
	s := NewNoteStore(kv, nil)
	ctx := context.Background()

	timeline := memo.NewTimeline(s.Load(ctx))
	s.Attach(ctx, timeline)

	first := memo.NewNote("buy milk", time.UnixMilli(1_700_000_000_000))
	timeline.Prepend(first)
	assert.Equal(t, []memo.Note{first}, s.Load(ctx))

	second := memo.NewNote("call mom", time.UnixMilli(1_700_000_000_500))
	timeline.Prepend(second)
	assert.Equal(t, []memo.Note{second, first}, s.Load(ctx))
}

func TestFileKVKeepsOtherKeys(t *testing.T) {
	kv, err := NewFileKV(filepath.Join(t.TempDir(), "nested", "notes.json"))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, kv.Put(ctx, "other", []byte(`{"keep":true}`)))
	require.NoError(t, kv.Put(ctx, NotesKey, []byte(`[]`)))

	other, err := kv.Get(ctx, "other")
	require.NoError(t, err)
	assert.JSONEq(t, `{"keep":true}`, string(other))
}

func TestFileKVRejectsInvalidJSON(t *testing.T) {
	kv, err := NewFileKV(filepath.Join(t.TempDir(), "notes.json"))
	require.NoError(t, err)
	assert.Error(t, kv.Put(context.Background(), NotesKey, []byte("nope")))
}

func TestKVGetMissing(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := kv.Get(context.Background(), "absent")
			assert.True(t, errors.Is(err, ErrNotFound))
		})
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open("redis", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage backend")
}
