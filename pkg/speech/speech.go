// Package speech models dictation as an explicit capability. Detect picks
// one of two variants at startup: a Command transcriber that wraps an
// external streaming speech-to-text program, or Unavailable, a no-op used
// when the host offers no such program.
package speech

import (
	"context"
	"errors"
)

// ErrUnavailable is returned by Start on hosts without a transcriber.
var ErrUnavailable = errors.New("speech: transcription is not available")

// EventKind identifies a transcriber event.
type EventKind int

const (
	// EventInterim carries a partial transcript that may still change.
	EventInterim EventKind = iota
	// EventFinal carries a finalized transcript chunk.
	EventFinal
	// EventError reports a session failure. The session is over.
	EventError
	// EventEnded reports that the session stopped on its own or after Stop.
	EventEnded
)

func (k EventKind) String() string {
	switch k {
	case EventInterim:
		return "interim"
	case EventFinal:
		return "final"
	case EventError:
		return "error"
	case EventEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Event is emitted by a running transcription session.
type Event struct {
	Kind EventKind
	Text string
	Err  error
}

// Transcriber is a continuous, interim-enabled speech-to-text session.
type Transcriber interface {
	// Available reports whether Start can succeed on this host.
	Available() bool

	// Start begins a session. Events arrive on Events until an EventError
	// or EventEnded is delivered.
	Start(ctx context.Context) error

	// Stop ends the running session. Stopping an idle transcriber is a no-op.
	Stop() error

	// Events returns the event stream. The channel is never closed.
	Events() <-chan Event
}
