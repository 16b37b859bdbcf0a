package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/entrhq/nebula/pkg/memo"
)

// formatNoteTime renders a note timestamp as date and HH:MM in local time.
func formatNoteTime(createdAt int64) string {
	t := time.UnixMilli(createdAt).Local()
	return fmt.Sprintf("%s • %s", t.Format("Jan 2, 2006"), t.Format("15:04"))
}

// memoCount renders the header counter.
func memoCount(n int) string {
	if n == 1 {
		return "1 Memo"
	}
	return fmt.Sprintf("%d Memos", n)
}

// quickHints returns the suggestions offered under an empty capture buffer.
func quickHints(suggestions []memo.Suggestion) []memo.Suggestion {
	if len(suggestions) > quickHintCount {
		return suggestions[:quickHintCount]
	}
	return suggestions
}

// indent prefixes every line of text with pad.
func indent(text, pad string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = pad + l
	}
	return strings.Join(lines, "\n")
}

// wordWrap wraps text at width cells, keeping explicit line breaks. Words
// longer than width are split.
func wordWrap(text string, width int) string {
	if width <= 0 {
		width = 80
	}

	var out []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}

		line, lineLen := "", 0
		flush := func() {
			if lineLen > 0 {
				out = append(out, line)
			}
			line, lineLen = "", 0
		}

		for _, word := range words {
			runes := []rune(word)
			for len(runes) > width {
				flush()
				out = append(out, string(runes[:width]))
				runes = runes[width:]
			}
			if len(runes) == 0 {
				continue
			}

			n := len(runes)
			switch {
			case lineLen == 0:
				line, lineLen = string(runes), n
			case lineLen+1+n > width:
				flush()
				line, lineLen = string(runes), n
			default:
				line += " " + string(runes)
				lineLen += 1 + n
			}
		}
		flush()
	}
	return strings.Join(out, "\n")
}
