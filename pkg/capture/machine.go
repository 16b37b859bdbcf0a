// Package capture implements the input surface state machine: typed and
// dictated text accumulate in a buffer that a save turns into a note.
//
//	Idle --toggle--> Recording --toggle/ended/error--> Idle
//	Idle --save--> Saving --complete--> Idle
package capture

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/entrhq/nebula/pkg/logging"
	"github.com/entrhq/nebula/pkg/memo"
	"github.com/entrhq/nebula/pkg/speech"
)

// SaveDelay is how long the Saving phase lasts before the note is committed.
const SaveDelay = 600 * time.Millisecond

// Phase is the current mode of the input surface.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRecording
	PhaseSaving
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRecording:
		return "recording"
	case PhaseSaving:
		return "saving"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Machine owns the input buffer and the capture phase. Saved notes are
// prepended to the timeline it was created with.
type Machine struct {
	mu          sync.Mutex
	phase       Phase
	input       string
	interim     string
	pending     *memo.Note
	timeline    *memo.Timeline
	transcriber speech.Transcriber
	now         func() time.Time
	logger      *logging.Logger
}

// Option configures a Machine.
type Option func(*Machine)

// WithClock replaces time.Now for note timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		m.now = now
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *logging.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// New creates a machine in PhaseIdle with an empty buffer. A nil
// transcriber is treated as speech.Unavailable.
func New(timeline *memo.Timeline, transcriber speech.Transcriber, opts ...Option) *Machine {
	if transcriber == nil {
		transcriber = speech.NewUnavailable()
	}
	m := &Machine{
		phase:       PhaseIdle,
		timeline:    timeline,
		transcriber: transcriber,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = logging.Discard("capture")
	}
	return m
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Input returns the buffer.
func (m *Machine) Input() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.input
}

// Interim returns the latest uncommitted transcript fragment, if any.
func (m *Machine) Interim() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.interim
}

// SetInput replaces the buffer with typed text.
func (m *Machine) SetInput(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.input = text
}

// CanRecord reports whether dictation is supported on this host.
func (m *Machine) CanRecord() bool {
	return m.transcriber.Available()
}

// CanSave reports whether a save would do anything.
func (m *Machine) CanSave() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending == nil && !memo.IsBlank(m.input)
}

// ToggleRecording starts dictation from Idle or stops it from Recording.
// It is a no-op while saving or when no transcriber is available. If the
// transcriber fails to start the machine stays Idle and the error is returned.
func (m *Machine) ToggleRecording(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.phase {
	case PhaseIdle:
		if !m.transcriber.Available() {
			return nil
		}
		if err := m.transcriber.Start(ctx); err != nil {
			m.logger.Errorf("failed to start dictation: %v", err)
			return err
		}
		m.phase = PhaseRecording
		m.logger.Debugf("recording started")
	case PhaseRecording:
		m.stopRecordingLocked()
	}
	return nil
}

func (m *Machine) stopRecordingLocked() {
	if err := m.transcriber.Stop(); err != nil {
		m.logger.Warnf("failed to stop dictation: %v", err)
	}
	m.phase = PhaseIdle
	m.interim = ""
	m.logger.Debugf("recording stopped")
}

// HandleEvent applies a transcriber event.
//
// Final text is appended (space-separated) only while recording; interim
// text is never committed. An error forces Idle from any phase; a pending
// save still completes. An ended session returns to Idle only
// if the machine is still recording, so a late callback cannot undo a
// transition the user already made.
func (m *Machine) HandleEvent(ev speech.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch ev.Kind {
	case speech.EventInterim:
		if m.phase == PhaseRecording {
			m.interim = ev.Text
		}
	case speech.EventFinal:
		if m.phase != PhaseRecording || ev.Text == "" {
			return
		}
		if m.input != "" {
			m.input += " "
		}
		m.input += ev.Text
		m.interim = ""
	case speech.EventError:
		m.logger.Warnf("dictation error: %v", ev.Err)
		m.interim = ""
		m.phase = PhaseIdle
	case speech.EventEnded:
		if m.phase == PhaseRecording {
			m.phase = PhaseIdle
			m.interim = ""
		}
	}
}

// BeginSave enters Saving with a new note built from the buffer. It returns
// false, changing nothing, when the buffer is blank or a save is already in
// progress. Dictation is stopped first when recording.
func (m *Machine) BeginSave() (memo.Note, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pending != nil || memo.IsBlank(m.input) {
		return memo.Note{}, false
	}
	if m.phase == PhaseRecording {
		m.stopRecordingLocked()
	}

	note := memo.NewNote(m.input, m.now())
	m.pending = &note
	m.phase = PhaseSaving
	return note, true
}

// CompleteSave prepends the pending note to the timeline, clears the buffer
// and returns to Idle. It returns false when no save is pending.
func (m *Machine) CompleteSave() (memo.Note, bool) {
	m.mu.Lock()
	if m.pending == nil {
		m.mu.Unlock()
		return memo.Note{}, false
	}
	note := *m.pending
	m.pending = nil
	m.input = ""
	m.phase = PhaseIdle
	m.mu.Unlock()

	// Outside the lock: subscribers (the store writer) run synchronously.
	m.timeline.Prepend(note)
	m.logger.Infof("saved note %s (%d chars)", note.ID, len(note.Content))
	return note, true
}

// Save performs BeginSave and CompleteSave without the Saving delay.
func (m *Machine) Save() (memo.Note, bool) {
	if _, ok := m.BeginSave(); !ok {
		return memo.Note{}, false
	}
	return m.CompleteSave()
}

// UseSuggestion appends a suggestion's text to the buffer on its own line,
// followed by a space so typing can continue.
func (m *Machine) UseSuggestion(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.input != "" {
		m.input += "\n"
	}
	m.input += text + " "
}
