package config

import (
	"fmt"
	"sync"
	"time"
)

// SectionIDInsights is the identifier for the suggestion refresh section.
const SectionIDInsights = "insights"

// Insight defaults.
const (
	DefaultInterval       = 30 * time.Second
	DefaultAutoLimit      = 5
	DefaultManualLimit    = 10
	DefaultMaxSuggestions = 2
)

// InsightsSection tunes how and when suggestions are regenerated.
type InsightsSection struct {
	Interval        time.Duration
	AutoLimit       int
	ManualLimit     int
	MaxSuggestions  int
	MaxPromptTokens int
	mu              sync.RWMutex
}

func NewInsightsSection() *InsightsSection {
	s := &InsightsSection{}
	s.reset()
	return s
}

func (s *InsightsSection) ID() string    { return SectionIDInsights }
func (s *InsightsSection) Title() string { return "Insights" }

func (s *InsightsSection) Description() string {
	return "Suggestion refresh. interval is a duration such as 30s; auto_limit and manual_limit cap how many recent notes are sent; max_prompt_tokens of 0 disables the token budget."
}

func (s *InsightsSection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]any{
		"interval":          s.Interval.String(),
		"auto_limit":        s.AutoLimit,
		"manual_limit":      s.ManualLimit,
		"max_suggestions":   s.MaxSuggestions,
		"max_prompt_tokens": s.MaxPromptTokens,
	}
}

func (s *InsightsSection) SetData(data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := data["interval"]; ok {
		d, err := durationValue(v)
		if err != nil {
			return fmt.Errorf("interval: %w", err)
		}
		s.Interval = d
	}
	if n, ok := intValue(data["auto_limit"]); ok {
		s.AutoLimit = n
	}
	if n, ok := intValue(data["manual_limit"]); ok {
		s.ManualLimit = n
	}
	if n, ok := intValue(data["max_suggestions"]); ok {
		s.MaxSuggestions = n
	}
	if n, ok := intValue(data["max_prompt_tokens"]); ok {
		s.MaxPromptTokens = n
	}
	return nil
}

func (s *InsightsSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch {
	case s.Interval <= 0:
		return fmt.Errorf("interval must be positive, got %s", s.Interval)
	case s.AutoLimit < 1 || s.ManualLimit < 1:
		return fmt.Errorf("note limits must be at least 1")
	case s.MaxSuggestions < 1:
		return fmt.Errorf("max_suggestions must be at least 1")
	case s.MaxPromptTokens < 0:
		return fmt.Errorf("max_prompt_tokens must not be negative")
	}
	return nil
}

func (s *InsightsSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *InsightsSection) reset() {
	s.Interval = DefaultInterval
	s.AutoLimit = DefaultAutoLimit
	s.ManualLimit = DefaultManualLimit
	s.MaxSuggestions = DefaultMaxSuggestions
	s.MaxPromptTokens = 0
}

// Snapshot returns a copy of the settings safe to read without locking.
func (s *InsightsSection) Snapshot() InsightsSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return InsightsSettings{
		Interval:        s.Interval,
		AutoLimit:       s.AutoLimit,
		ManualLimit:     s.ManualLimit,
		MaxSuggestions:  s.MaxSuggestions,
		MaxPromptTokens: s.MaxPromptTokens,
	}
}

// InsightsSettings is a point-in-time copy of InsightsSection.
type InsightsSettings struct {
	Interval        time.Duration
	AutoLimit       int
	ManualLimit     int
	MaxSuggestions  int
	MaxPromptTokens int
}

// DefaultInsightsSettings is used when no configuration has been loaded.
func DefaultInsightsSettings() InsightsSettings {
	return NewInsightsSection().Snapshot()
}

// JSON numbers decode as float64.
func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

func durationValue(v any) (time.Duration, error) {
	switch d := v.(type) {
	case string:
		return time.ParseDuration(d)
	case time.Duration:
		return d, nil
	case float64:
		return time.Duration(d) * time.Second, nil
	case int:
		return time.Duration(d) * time.Second, nil
	}
	return 0, fmt.Errorf("unsupported value %v", v)
}
