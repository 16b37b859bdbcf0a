package memo

import "sync"

// Timeline owns the ordered note list, newest first. It has a single writer
// (Prepend/Reset) and notifies subscribers after every change.
type Timeline struct {
	mu          sync.RWMutex
	notes       []Note
	subscribers []func([]Note)
}

// NewTimeline creates a timeline seeded with notes, which must already be
// ordered newest first.
func NewTimeline(notes []Note) *Timeline {
	t := &Timeline{}
	t.notes = append(t.notes, notes...)
	return t
}

// Subscribe registers fn to be called with a snapshot of the list after each change.
func (t *Timeline) Subscribe(fn func([]Note)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subscribers = append(t.subscribers, fn)
}

// Prepend inserts note at the head of the list.
func (t *Timeline) Prepend(note Note) {
	t.mu.Lock()
	next := make([]Note, 0, len(t.notes)+1)
	next = append(next, note)
	next = append(next, t.notes...)
	t.notes = next
	subs := append([]func([]Note){}, t.subscribers...)
	snapshot := t.snapshotLocked()
	t.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

// Notes returns a copy of the full list.
func (t *Timeline) Notes() []Note {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snapshotLocked()
}

// Recent returns a copy of at most n of the newest notes.
func (t *Timeline) Recent(n int) []Note {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if n <= 0 {
		return []Note{}
	}
	if n > len(t.notes) {
		n = len(t.notes)
	}
	out := make([]Note, n)
	copy(out, t.notes[:n])
	return out
}

// Len returns the number of notes.
func (t *Timeline) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.notes)
}

func (t *Timeline) snapshotLocked() []Note {
	out := make([]Note, len(t.notes))
	copy(out, t.notes)
	return out
}
