package insight

import (
	"fmt"
	"strings"

	"github.com/entrhq/nebula/pkg/llm"
	"github.com/entrhq/nebula/pkg/memo"
)

// BuildPrompt renders notes as a bulleted list followed by the instruction.
func BuildPrompt(notes []memo.Note, count int) string {
	lines := make([]string, 0, len(notes))
	for _, n := range notes {
		lines = append(lines, "- "+n.Content)
	}

	return fmt.Sprintf(`Here are the user's recent fragmented notes:
%s

Based on these notes, generate %d short, thought-provoking follow-up questions or related topics that would encourage the user to write more.
Keep them very brief (under 10 words).`, strings.Join(lines, "\n"), count)
}

// ResponseSchema is the declared reply shape: an array of {text, type}.
func ResponseSchema() *llm.Schema {
	return &llm.Schema{
		Type: llm.TypeArray,
		Items: &llm.Schema{
			Type: llm.TypeObject,
			Properties: map[string]*llm.Schema{
				"text": {Type: llm.TypeString},
				"type": {
					Type: llm.TypeString,
					Enum: []string{string(memo.SuggestionQuestion), string(memo.SuggestionTopic)},
				},
			},
			Required: []string{"text", "type"},
		},
	}
}
