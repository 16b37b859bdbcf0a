// Package memo holds the note and suggestion model together with the two
// collections the application owns: the note Timeline and the suggestion Board.
package memo

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Note is a single captured fragment. Notes are immutable once created.
type Note struct {
	ID            string `json:"id" yaml:"id"`
	Content       string `json:"content" yaml:"content"`
	CreatedAt     int64  `json:"createdAt" yaml:"created_at"` // Unix milliseconds
	IsAIGenerated bool   `json:"isAiGenerated,omitempty" yaml:"is_ai_generated,omitempty"`
}

// NewNote creates a note with a fresh unique ID stamped at now.
func NewNote(content string, now time.Time) Note {
	return Note{
		ID:        uuid.NewString(),
		Content:   content,
		CreatedAt: now.UnixMilli(),
	}
}

// Time returns the creation time of the note.
func (n Note) Time() time.Time {
	return time.UnixMilli(n.CreatedAt)
}

// IsBlank reports whether text contains nothing but whitespace.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}
