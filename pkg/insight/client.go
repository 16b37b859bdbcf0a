// Package insight turns a handful of recent notes into short follow-up
// prompts using a remote language model.
//
// Generate never returns an error: transport failures, empty replies and
// schema violations all collapse into an empty suggestion list and are only
// written to the session log.
package insight

import (
	"context"
	"time"

	"github.com/entrhq/nebula/pkg/llm"
	"github.com/entrhq/nebula/pkg/logging"
	"github.com/entrhq/nebula/pkg/memo"
)

const (
	// DefaultMaxSuggestions is the number of prompts requested per call.
	DefaultMaxSuggestions = 2

	// MaxInputNotes caps how many notes a single request may carry.
	MaxInputNotes = 10

	defaultTimeout = 30 * time.Second
)

// Client generates suggestions from notes.
type Client struct {
	provider        llm.Provider
	logger          *logging.Logger
	maxSuggestions  int
	maxPromptTokens int
	counter         Counter
	timeout         time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMaxSuggestions sets how many prompts are requested and kept.
func WithMaxSuggestions(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxSuggestions = n
		}
	}
}

// WithTokenBudget limits the prompt to maxTokens as measured by counter.
// Older notes are dropped first. A zero budget or nil counter disables it.
func WithTokenBudget(maxTokens int, counter Counter) Option {
	return func(c *Client) {
		c.maxPromptTokens = maxTokens
		c.counter = counter
	}
}

// WithTimeout bounds a single remote call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewClient creates a client. A nil provider is allowed: every call then
// yields no suggestions, which is how an unconfigured AI degrades.
func NewClient(provider llm.Provider, opts ...Option) *Client {
	c := &Client{
		provider:       provider,
		maxSuggestions: DefaultMaxSuggestions,
		timeout:        defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.Discard("insight")
	}
	return c
}

// Generate requests follow-up prompts for notes, which callers pass newest
// first. At most MaxInputNotes are used. An empty input returns an empty
// result without contacting the service.
func (c *Client) Generate(ctx context.Context, notes []memo.Note) []memo.Suggestion {
	if len(notes) == 0 {
		return []memo.Suggestion{}
	}
	if len(notes) > MaxInputNotes {
		notes = notes[:MaxInputNotes]
	}
	if c.provider == nil {
		c.logger.Debugf("no provider configured, skipping insight request")
		return []memo.Suggestion{}
	}

	notes = c.fitBudget(notes)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	started := time.Now()
	reply, err := c.provider.Complete(ctx, &llm.Request{
		Messages: []*llm.Message{llm.NewUserMessage(BuildPrompt(notes, c.maxSuggestions))},
		Format: &llm.ResponseFormat{
			Name:   "suggestions",
			Schema: ResponseSchema(),
		},
	})
	if err != nil {
		c.logger.Errorf("insight request via %s/%s failed: %v", c.provider.Name(), c.provider.GetModel(), err)
		return []memo.Suggestion{}
	}

	suggestions, err := ParseSuggestions(reply.Content, c.maxSuggestions)
	if err != nil {
		c.logger.Warnf("discarding insight response: %v", err)
		return []memo.Suggestion{}
	}

	c.logger.Infof("received %d suggestions from %d notes in %s", len(suggestions), len(notes), time.Since(started).Round(time.Millisecond))
	return suggestions
}

// fitBudget drops the oldest notes until the prompt fits the token budget.
// The newest note is always kept.
func (c *Client) fitBudget(notes []memo.Note) []memo.Note {
	if c.maxPromptTokens <= 0 || c.counter == nil {
		return notes
	}
	for len(notes) > 1 && c.counter.Count(BuildPrompt(notes, c.maxSuggestions)) > c.maxPromptTokens {
		notes = notes[:len(notes)-1]
	}
	return notes
}
