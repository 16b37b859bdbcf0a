package capture

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/entrhq/nebula/pkg/memo"
	"github.com/entrhq/nebula/pkg/speech"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTranscriber records Start/Stop calls.
type fakeTranscriber struct {
	available bool
	startErr  error
	starts    int
	stops     int
	events    chan speech.Event
}

func newFakeTranscriber() *fakeTranscriber {
	return &fakeTranscriber{available: true, events: make(chan speech.Event, 8)}
}

func (f *fakeTranscriber) Available() bool { return f.available }
func (f *fakeTranscriber) Start(context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.starts++
	return nil
}
func (f *fakeTranscriber) Stop() error                 { f.stops++; return nil }
func (f *fakeTranscriber) Events() <-chan speech.Event { return f.events }

var fixedNow = time.UnixMilli(1_700_000_000_000)

func newMachine(tr speech.Transcriber) (*Machine, *memo.Timeline) {
	tl := memo.NewTimeline(nil)
	return New(tl, tr, WithClock(func() time.Time { return fixedNow })), tl
}

func TestInitialState(t *testing.T) {
	m, _ := newMachine(nil)
	assert.Equal(t, PhaseIdle, m.Phase())
	assert.Equal(t, "", m.Input())
	assert.False(t, m.CanRecord())
	assert.False(t, m.CanSave())
}

func TestSaveScenario(t *testing.T) {
	m, tl := newMachine(nil)
	m.SetInput("buy milk")
	require.True(t, m.CanSave())

	pending, ok := m.BeginSave()
	require.True(t, ok)
	assert.Equal(t, PhaseSaving, m.Phase())
	assert.Equal(t, 0, tl.Len(), "note is committed only when the save completes")
	assert.False(t, m.CanSave())

	note, ok := m.CompleteSave()
	require.True(t, ok)
	assert.Equal(t, pending, note)
	assert.Equal(t, "buy milk", note.Content)
	assert.Equal(t, fixedNow.UnixMilli(), note.CreatedAt)
	assert.NotEmpty(t, note.ID)

	assert.Equal(t, PhaseIdle, m.Phase())
	assert.Equal(t, "", m.Input())
	assert.Equal(t, []memo.Note{note}, tl.Notes())
}

func TestSaveBlankIsNoop(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t"} {
		m, tl := newMachine(nil)
		m.SetInput(input)

		_, ok := m.Save()
		assert.False(t, ok)
		assert.Equal(t, 0, tl.Len())
		assert.Equal(t, input, m.Input())
		assert.Equal(t, PhaseIdle, m.Phase())
	}
}

func TestSequentialSavesPrepend(t *testing.T) {
	m, tl := newMachine(nil)
	for i, text := range []string{"one", "two", "three"} {
		m.SetInput(text)
		note, ok := m.Save()
		require.True(t, ok)

		notes := tl.Notes()
		assert.Len(t, notes, i+1)
		assert.Equal(t, note.ID, notes[0].ID)
	}
}

func TestBeginSaveTwiceIsNoop(t *testing.T) {
	m, _ := newMachine(nil)
	m.SetInput("once")
	_, ok := m.BeginSave()
	require.True(t, ok)

	_, ok = m.BeginSave()
	assert.False(t, ok)
}

func TestCompleteSaveWithoutPending(t *testing.T) {
	m, _ := newMachine(nil)
	_, ok := m.CompleteSave()
	assert.False(t, ok)
}

func TestRecordingScenario(t *testing.T) {
	tr := newFakeTranscriber()
	m, _ := newMachine(tr)

	require.NoError(t, m.ToggleRecording(context.Background()))
	assert.Equal(t, PhaseRecording, m.Phase())
	assert.Equal(t, 1, tr.starts)

	m.HandleEvent(speech.Event{Kind: speech.EventInterim, Text: "call"})
	assert.Equal(t, "", m.Input())
	assert.Equal(t, "call", m.Interim())

	m.HandleEvent(speech.Event{Kind: speech.EventFinal, Text: "call mom"})
	assert.Equal(t, "call mom", m.Input())
	assert.Equal(t, "", m.Interim())

	require.NoError(t, m.ToggleRecording(context.Background()))
	assert.Equal(t, PhaseIdle, m.Phase())
	assert.Equal(t, 1, tr.stops)
	assert.Equal(t, "call mom", m.Input())
}

func TestFinalTranscriptsAppendInOrder(t *testing.T) {
	tr := newFakeTranscriber()
	m, _ := newMachine(tr)
	m.SetInput("typed")
	require.NoError(t, m.ToggleRecording(context.Background()))

	m.HandleEvent(speech.Event{Kind: speech.EventFinal, Text: "first"})
	m.HandleEvent(speech.Event{Kind: speech.EventInterim, Text: "sec"})
	m.HandleEvent(speech.Event{Kind: speech.EventFinal, Text: "second"})

	assert.Equal(t, "typed first second", m.Input())
}

func TestFinalTranscriptOutsideRecordingIgnored(t *testing.T) {
	m, _ := newMachine(newFakeTranscriber())
	m.HandleEvent(speech.Event{Kind: speech.EventFinal, Text: "late"})
	assert.Equal(t, "", m.Input())
}

func TestEndedOnlyStopsWhileRecording(t *testing.T) {
	tr := newFakeTranscriber()
	m, _ := newMachine(tr)

	require.NoError(t, m.ToggleRecording(context.Background()))
	m.HandleEvent(speech.Event{Kind: speech.EventEnded})
	assert.Equal(t, PhaseIdle, m.Phase())

	// A stale end after the user already moved on to saving must not interfere
	m.SetInput("draft")
	_, ok := m.BeginSave()
	require.True(t, ok)
	m.HandleEvent(speech.Event{Kind: speech.EventEnded})
	assert.Equal(t, PhaseSaving, m.Phase())
}

func TestErrorForcesIdle(t *testing.T) {
	tr := newFakeTranscriber()
	m, tl := newMachine(tr)

	require.NoError(t, m.ToggleRecording(context.Background()))
	m.HandleEvent(speech.Event{Kind: speech.EventError, Err: errors.New("no mic")})
	assert.Equal(t, PhaseIdle, m.Phase())

	// Also from Saving; the pending note still lands
	m.SetInput("keep me")
	_, ok := m.BeginSave()
	require.True(t, ok)
	m.HandleEvent(speech.Event{Kind: speech.EventError, Err: errors.New("late")})
	assert.Equal(t, PhaseIdle, m.Phase())
	assert.False(t, m.CanSave())

	_, ok = m.CompleteSave()
	require.True(t, ok)
	assert.Equal(t, 1, tl.Len())
}

func TestToggleUnavailableIsNoop(t *testing.T) {
	m, _ := newMachine(speech.NewUnavailable())
	require.NoError(t, m.ToggleRecording(context.Background()))
	assert.Equal(t, PhaseIdle, m.Phase())

	m.SetInput("typing still works")
	_, ok := m.Save()
	assert.True(t, ok)
}

func TestToggleStartFailureStaysIdle(t *testing.T) {
	tr := newFakeTranscriber()
	tr.startErr = errors.New("device busy")
	m, _ := newMachine(tr)

	err := m.ToggleRecording(context.Background())
	require.Error(t, err)
	assert.Equal(t, PhaseIdle, m.Phase())
}

func TestToggleWhileSavingIsNoop(t *testing.T) {
	tr := newFakeTranscriber()
	m, _ := newMachine(tr)
	m.SetInput("x")
	_, ok := m.BeginSave()
	require.True(t, ok)

	require.NoError(t, m.ToggleRecording(context.Background()))
	assert.Equal(t, PhaseSaving, m.Phase())
	assert.Equal(t, 0, tr.starts)
}

func TestSaveWhileRecordingStopsDictation(t *testing.T) {
	tr := newFakeTranscriber()
	m, tl := newMachine(tr)
	require.NoError(t, m.ToggleRecording(context.Background()))
	m.HandleEvent(speech.Event{Kind: speech.EventFinal, Text: "spoken"})

	note, ok := m.Save()
	require.True(t, ok)
	assert.Equal(t, "spoken", note.Content)
	assert.Equal(t, 1, tr.stops)
	assert.Equal(t, PhaseIdle, m.Phase())
	assert.Equal(t, 1, tl.Len())
}

func TestUseSuggestion(t *testing.T) {
	m, _ := newMachine(nil)
	m.UseSuggestion("Morning routine")
	assert.Equal(t, "Morning routine ", m.Input())

	m.UseSuggestion("What made today hard?")
	assert.Equal(t, "Morning routine \nWhat made today hard? ", m.Input())
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "recording", PhaseRecording.String())
	assert.Equal(t, "saving", PhaseSaving.String())
	assert.Equal(t, "phase(9)", Phase(9).String())
}
