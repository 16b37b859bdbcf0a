package insight

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/entrhq/nebula/pkg/memo"
)

// ErrSchema marks a reply that does not match ResponseSchema.
var ErrSchema = errors.New("insight: response does not match schema")

type rawSuggestion struct {
	Text *string `json:"text"`
	Type *string `json:"type"`
}

// ParseSuggestions validates a JSON reply and assigns each item a fresh ID.
// Any invalid item rejects the whole reply. At most limit items are kept
// when limit is positive.
func ParseSuggestions(raw string, limit int) ([]memo.Suggestion, error) {
	body := stripCodeFence(raw)
	if body == "" {
		return nil, fmt.Errorf("%w: empty body", ErrSchema)
	}

	var items []rawSuggestion
	if err := json.Unmarshal([]byte(body), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}

	out := make([]memo.Suggestion, 0, len(items))
	for i, item := range items {
		if item.Text == nil || strings.TrimSpace(*item.Text) == "" {
			return nil, fmt.Errorf("%w: item %d has no text", ErrSchema, i)
		}
		if item.Type == nil {
			return nil, fmt.Errorf("%w: item %d has no type", ErrSchema, i)
		}
		typ := memo.SuggestionType(*item.Type)
		if typ != memo.SuggestionQuestion && typ != memo.SuggestionTopic {
			return nil, fmt.Errorf("%w: item %d has type %q", ErrSchema, i, *item.Type)
		}
		out = append(out, memo.NewSuggestion(strings.TrimSpace(*item.Text), typ))
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// stripCodeFence removes a surrounding ``` or ```json fence, which some
// compatible servers add even in JSON mode.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
