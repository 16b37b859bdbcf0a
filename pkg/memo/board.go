package memo

import "sync"

// Board owns the current suggestion set. Each Replace discards the previous
// batch entirely; batches are never merged.
type Board struct {
	mu          sync.RWMutex
	suggestions []Suggestion
	subscribers []func([]Suggestion)
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{}
}

// Subscribe registers fn to be called with the new set after each Replace.
func (b *Board) Subscribe(fn func([]Suggestion)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, fn)
}

// Replace swaps in a new suggestion set. A nil set clears the board.
func (b *Board) Replace(suggestions []Suggestion) {
	b.mu.Lock()
	b.suggestions = append([]Suggestion{}, suggestions...)
	snapshot := append([]Suggestion{}, b.suggestions...)
	subs := append([]func([]Suggestion){}, b.subscribers...)
	b.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

// Suggestions returns a copy of the current set.
func (b *Board) Suggestions() []Suggestion {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Suggestion{}, b.suggestions...)
}

// Len returns the size of the current set.
func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.suggestions)
}
