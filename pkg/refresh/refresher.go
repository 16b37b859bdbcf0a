// Package refresh decides when suggestions are regenerated. A periodic task
// refreshes from the newest notes on a fixed interval, and two on-demand
// triggers cover opening the ideas view and an explicit refresh.
//
// Every trigger replaces the whole suggestion set. Overlapping requests are
// not sequenced: whichever response arrives last wins.
package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/entrhq/nebula/pkg/logging"
	"github.com/entrhq/nebula/pkg/memo"
)

const (
	DefaultInterval    = 30 * time.Second
	DefaultAutoLimit   = 5
	DefaultManualLimit = 10
)

// Generator produces suggestions for notes, newest first. It must not fail;
// problems surface as an empty result.
type Generator interface {
	Generate(ctx context.Context, notes []memo.Note) []memo.Suggestion
}

// Trigger names the reason for a refresh.
type Trigger string

const (
	TriggerPeriodic Trigger = "periodic"
	TriggerIdeas    Trigger = "ideas"
	TriggerManual   Trigger = "manual"
)

// Refresher owns the periodic task and the on-demand triggers.
type Refresher struct {
	generator   Generator
	timeline    *memo.Timeline
	board       *memo.Board
	interval    time.Duration
	autoLimit   int
	manualLimit int
	logger      *logging.Logger

	reset chan struct{}

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Refresher.
type Option func(*Refresher)

// WithInterval sets the periodic refresh interval.
func WithInterval(d time.Duration) Option {
	return func(r *Refresher) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithLimits sets how many notes the automatic and manual triggers send.
func WithLimits(auto, manual int) Option {
	return func(r *Refresher) {
		if auto > 0 {
			r.autoLimit = auto
		}
		if manual > 0 {
			r.manualLimit = manual
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *logging.Logger) Option {
	return func(r *Refresher) {
		r.logger = logger
	}
}

// New creates a refresher. The periodic interval restarts whenever the
// timeline changes.
func New(generator Generator, timeline *memo.Timeline, board *memo.Board, opts ...Option) *Refresher {
	r := &Refresher{
		generator:   generator,
		timeline:    timeline,
		board:       board,
		interval:    DefaultInterval,
		autoLimit:   DefaultAutoLimit,
		manualLimit: DefaultManualLimit,
		reset:       make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logging.Discard("refresh")
	}

	timeline.Subscribe(func([]memo.Note) {
		select {
		case r.reset <- struct{}{}:
		default:
		}
	})
	return r
}

// Start launches the periodic task. It runs until Stop is called or ctx is
// done. Starting twice is a no-op.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	go r.loop(ctx, r.done)
	r.logger.Infof("periodic refresh started (every %s)", r.interval)
}

// Stop cancels the periodic task, aborting any refresh it has in flight,
// and waits for it to exit. Safe to call multiple times.
func (r *Refresher) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	r.logger.Infof("periodic refresh stopped")
}

func (r *Refresher) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.reset:
			ticker.Reset(r.interval)
		case <-ticker.C:
			r.Periodic(ctx)
		}
	}
}

// Periodic refreshes from the newest notes when at least one exists.
func (r *Refresher) Periodic(ctx context.Context) bool {
	if r.timeline.Len() == 0 {
		return false
	}
	r.refresh(ctx, TriggerPeriodic, r.autoLimit)
	return true
}

// OnIdeasOpened refreshes when the suggestion set is empty and notes exist.
func (r *Refresher) OnIdeasOpened(ctx context.Context) bool {
	if r.board.Len() > 0 || r.timeline.Len() == 0 {
		return false
	}
	r.refresh(ctx, TriggerIdeas, r.autoLimit)
	return true
}

// Manual refreshes from up to the manual limit of notes when any exist.
func (r *Refresher) Manual(ctx context.Context) bool {
	if r.timeline.Len() == 0 {
		return false
	}
	r.refresh(ctx, TriggerManual, r.manualLimit)
	return true
}

func (r *Refresher) refresh(ctx context.Context, trigger Trigger, limit int) {
	notes := r.timeline.Recent(limit)
	suggestions := r.generator.Generate(ctx, notes)
	if ctx.Err() != nil {
		r.logger.Debugf("%s refresh abandoned: %v", trigger, ctx.Err())
		return
	}
	r.board.Replace(suggestions)
	r.logger.Debugf("%s refresh from %d notes produced %d suggestions", trigger, len(notes), len(suggestions))
}
