// Package export writes notes out in formats meant for other tools.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/entrhq/nebula/pkg/memo"
)

// Format selects the output encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

const frontMatterDelimiter = "---"

// Formats lists the supported formats in display order.
var Formats = []Format{FormatJSON, FormatYAML, FormatMarkdown}

// ParseFormat resolves a format name. "yml" and "md" are accepted aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown export format %q (want json, yaml or markdown)", name)
}

// Write encodes notes to w in the given format, preserving their order.
func Write(w io.Writer, notes []memo.Note, format Format) error {
	if notes == nil {
		notes = []memo.Note{}
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(notes); err != nil {
			return fmt.Errorf("export: json encode: %w", err)
		}
		return nil

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(notes); err != nil {
			return fmt.Errorf("export: yaml encode: %w", err)
		}
		return enc.Close()

	case FormatMarkdown:
		return writeMarkdown(w, notes)
	}
	return fmt.Errorf("export: unsupported format %q", format)
}

// frontMatter is the YAML header written above each note body.
type frontMatter struct {
	ID          string `yaml:"id"`
	Created     string `yaml:"created"`
	AIGenerated bool   `yaml:"ai_generated,omitempty"`
}

// writeMarkdown emits one front-matter block per note followed by its content.
func writeMarkdown(w io.Writer, notes []memo.Note) error {
	var sb strings.Builder
	for i, n := range notes {
		meta, err := yaml.Marshal(frontMatter{
			ID:          n.ID,
			Created:     n.Time().UTC().Format(time.RFC3339),
			AIGenerated: n.IsAIGenerated,
		})
		if err != nil {
			return fmt.Errorf("export: front-matter for %s: %w", n.ID, err)
		}
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(frontMatterDelimiter + "\n")
		sb.Write(meta)
		sb.WriteString(frontMatterDelimiter + "\n\n")
		sb.WriteString(strings.TrimRight(n.Content, "\n"))
		sb.WriteString("\n")
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("export: write: %w", err)
	}
	return nil
}
