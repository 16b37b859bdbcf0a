package main

import (
	"context"
	"fmt"
	"os"

	"github.com/entrhq/nebula/pkg/config"
	"github.com/entrhq/nebula/pkg/insight"
	"github.com/entrhq/nebula/pkg/llm"
	"github.com/entrhq/nebula/pkg/logging"
	"github.com/entrhq/nebula/pkg/memo"
	"github.com/entrhq/nebula/pkg/store"
)

// tokenEncoding is the tiktoken encoding used to budget prompts.
const tokenEncoding = "cl100k_base"

// app holds the flag values shared by every command and the constructors
// tests replace.
type app struct {
	configPath string
	backend    string
	storePath  string
	verbose    bool
	llm        config.Overrides

	newLogger     func(component string) *logging.Logger
	buildProvider func(ctx context.Context, o config.Overrides) (llm.Provider, error)
}

func newApp() *app {
	return &app{
		newLogger:     logging.MustLogger,
		buildProvider: config.BuildProvider,
	}
}

// setup loads configuration and applies the verbose flag. Mirroring is
// skipped for the TUI, which owns the terminal.
func (a *app) setup(mirror bool) error {
	if err := config.Initialize(a.configPath); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}
	if a.verbose && mirror {
		logging.SetMirror(os.Stderr)
	}
	return nil
}

// openNotes opens the configured backend and loads every note into a
// timeline. Flags win over the storage section.
func (a *app) openNotes(ctx context.Context) (*store.NoteStore, *memo.Timeline, error) {
	backend, path := "", ""
	if s := config.GetStorage(); s != nil {
		backend, path = s.Settings()
	}
	if a.backend != "" {
		backend = a.backend
	}
	if a.storePath != "" {
		path = a.storePath
	}

	kv, err := store.Open(backend, path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open note store: %w", err)
	}
	notes := store.NewNoteStore(kv, a.newLogger("store"))
	return notes, memo.NewTimeline(notes.Load(ctx)), nil
}

// newInsightClient wraps provider, which may be nil, with the configured
// suggestion count and prompt budget.
func (a *app) newInsightClient(provider llm.Provider, settings config.InsightsSettings) *insight.Client {
	logger := a.newLogger("insight")
	opts := []insight.Option{
		insight.WithLogger(logger),
		insight.WithMaxSuggestions(settings.MaxSuggestions),
	}
	if settings.MaxPromptTokens > 0 {
		counter, err := insight.NewTiktokenCounter(tokenEncoding)
		if err != nil {
			logger.Warnf("prompt budget disabled: %v", err)
		} else {
			opts = append(opts, insight.WithTokenBudget(settings.MaxPromptTokens, counter))
		}
	}
	return insight.NewClient(provider, opts...)
}
