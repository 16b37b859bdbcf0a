package speech

import "context"

// Unavailable is the Transcriber used when dictation is not supported.
type Unavailable struct {
	events chan Event
}

// NewUnavailable returns a transcriber whose Start always fails.
func NewUnavailable() *Unavailable {
	return &Unavailable{events: make(chan Event)}
}

// Available always reports false.
func (u *Unavailable) Available() bool { return false }

// Start returns ErrUnavailable.
func (u *Unavailable) Start(context.Context) error { return ErrUnavailable }

// Stop does nothing.
func (u *Unavailable) Stop() error { return nil }

// Events returns a channel that never delivers.
func (u *Unavailable) Events() <-chan Event { return u.events }
