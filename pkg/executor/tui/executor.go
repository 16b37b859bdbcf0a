// Package tui provides the interactive terminal interface for Nebula: a
// history timeline, a capture card with optional dictation, and an ideas
// view fed by the suggestion refresher.
//
// The TUI codebase is split into multiple files:
// - executor.go: program lifecycle and event forwarding
// - model.go: core model structure, messages and key bindings
// - update.go: Bubble Tea Update function and message handling
// - view.go: Bubble Tea View function and rendering
// - sparkles.go: particle burst shown on save
// - helpers.go: formatting utilities
// - styles.go: color palette and styles
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/nebula/pkg/capture"
	"github.com/entrhq/nebula/pkg/logging"
	"github.com/entrhq/nebula/pkg/memo"
	"github.com/entrhq/nebula/pkg/refresh"
	"github.com/entrhq/nebula/pkg/speech"
)

// Executor runs the terminal UI over an already loaded timeline.
type Executor struct {
	timeline    *memo.Timeline
	board       *memo.Board
	machine     *capture.Machine
	refresher   *refresh.Refresher
	transcriber speech.Transcriber
	logger      *logging.Logger
	program     *tea.Program
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *logging.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// NewExecutor wires the UI to its collaborators. The transcriber must be the
// one the capture machine was built with.
func NewExecutor(timeline *memo.Timeline, board *memo.Board, machine *capture.Machine, refresher *refresh.Refresher, transcriber speech.Transcriber, opts ...Option) *Executor {
	if transcriber == nil {
		transcriber = speech.NewUnavailable()
	}
	e := &Executor{
		timeline:    timeline,
		board:       board,
		machine:     machine,
		refresher:   refresher,
		transcriber: transcriber,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.Discard("tui")
	}
	return e
}

// Run starts the TUI and blocks until the user exits. The periodic refresh
// and any dictation session are stopped before it returns.
func (e *Executor) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newModel(ctx, modelConfig{
		machine:   e.machine,
		timeline:  e.timeline,
		board:     e.board,
		refresher: e.refresher,
		logger:    e.logger,
	})

	e.program = tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	// Board updates come from refresher goroutines; Send is asynchronous so a
	// replace never waits on the event loop.
	e.board.Subscribe(func([]memo.Suggestion) {
		go e.program.Send(suggestionsChangedMsg{})
	})

	go e.forwardSpeech(ctx)

	e.refresher.Start(ctx)
	defer e.refresher.Stop()
	defer func() {
		if err := e.transcriber.Stop(); err != nil {
			e.logger.Warnf("failed to stop dictation: %v", err)
		}
	}()

	e.logger.Infof("TUI starting with %d notes", e.timeline.Len())
	if _, err := e.program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI program: %w", err)
	}
	e.logger.Infof("TUI exited")
	return nil
}

// forwardSpeech relays transcriber events into the update loop.
func (e *Executor) forwardSpeech(ctx context.Context) {
	events := e.transcriber.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			e.program.Send(speechEventMsg{event: ev})
		}
	}
}
