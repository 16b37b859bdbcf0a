package memo

import "github.com/google/uuid"

// SuggestionType classifies a generated prompt.
type SuggestionType string

const (
	SuggestionQuestion SuggestionType = "question"
	SuggestionTopic    SuggestionType = "topic"
	SuggestionSummary  SuggestionType = "summary"
)

// Valid reports whether t is one of the known suggestion types.
func (t SuggestionType) Valid() bool {
	switch t {
	case SuggestionQuestion, SuggestionTopic, SuggestionSummary:
		return true
	default:
		return false
	}
}

// Suggestion is a short machine-generated prompt meant to provoke more writing.
// Suggestions are never persisted.
type Suggestion struct {
	ID   string         `json:"id"`
	Text string         `json:"text"`
	Type SuggestionType `json:"type"`
}

// NewSuggestion assigns a fresh ID to a generated text/type pair.
func NewSuggestion(text string, typ SuggestionType) Suggestion {
	return Suggestion{
		ID:   "ai-" + uuid.NewString(),
		Text: text,
		Type: typ,
	}
}
