package tui

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/nebula/pkg/capture"
	"github.com/entrhq/nebula/pkg/memo"
	"github.com/entrhq/nebula/pkg/refresh"
	"github.com/entrhq/nebula/pkg/speech"
)

type stubTranscriber struct {
	available bool
	events    chan speech.Event
}

func (s *stubTranscriber) Available() bool             { return s.available }
func (s *stubTranscriber) Start(context.Context) error { return nil }
func (s *stubTranscriber) Stop() error                 { return nil }
func (s *stubTranscriber) Events() <-chan speech.Event { return s.events }

type stubGenerator struct {
	mu    sync.Mutex
	calls int
	out   []memo.Suggestion
}

func (g *stubGenerator) Generate(context.Context, []memo.Note) []memo.Suggestion {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return g.out
}

type harness struct {
	m        *model
	timeline *memo.Timeline
	board    *memo.Board
	gen      *stubGenerator
	copied   []string
	copyErr  error
}

func newHarness(t *testing.T, notes ...memo.Note) *harness {
	t.Helper()
	h := &harness{
		timeline: memo.NewTimeline(notes),
		board:    memo.NewBoard(),
		gen: &stubGenerator{out: []memo.Suggestion{
			memo.NewSuggestion("Why does this matter?", memo.SuggestionQuestion),
			memo.NewSuggestion("Weekend plans", memo.SuggestionTopic),
		}},
	}
	transcriber := &stubTranscriber{available: true, events: make(chan speech.Event)}
	machine := capture.New(h.timeline, transcriber)
	refresher := refresh.New(h.gen, h.timeline, h.board)

	h.m = newModel(context.Background(), modelConfig{
		machine:   machine,
		timeline:  h.timeline,
		board:     h.board,
		refresher: refresher,
		copyText: func(s string) error {
			if h.copyErr != nil {
				return h.copyErr
			}
			h.copied = append(h.copied, s)
			return nil
		},
		rng: rand.New(rand.NewSource(1)),
	})
	h.send(tea.WindowSizeMsg{Width: 100, Height: 40})
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	_, cmd := h.m.Update(msg)
	return cmd
}

func (h *harness) typeText(text string) {
	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func keyPress(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func runeKey(r rune) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}} }

func TestStartsInCaptureView(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, viewCapture, h.m.active)
	assert.Contains(t, h.m.View(), "0 Memos")
}

func TestSaveFlow(t *testing.T) {
	h := newHarness(t)
	h.typeText("buy milk")
	assert.Equal(t, "buy milk", h.m.machine.Input())

	cmd := h.send(keyPress(tea.KeyCtrlS))
	require.NotNil(t, cmd)
	assert.Equal(t, capture.PhaseSaving, h.m.machine.Phase())
	require.NotNil(t, h.m.sparkles)
	assert.Len(t, h.m.sparkles.particles, sparkleCount)

	// Typing is ignored inside the Saving window.
	h.typeText("x")
	assert.Equal(t, "buy milk", h.m.textarea.Value())

	h.send(saveCommitMsg{})
	assert.Equal(t, capture.PhaseIdle, h.m.machine.Phase())
	assert.Empty(t, h.m.textarea.Value())
	require.Equal(t, 1, h.timeline.Len())
	assert.Equal(t, "buy milk", h.timeline.Notes()[0].Content)
	assert.Contains(t, h.m.View(), "1 Memo")

	// The burst outlives the save window and is cleared by its own timer.
	require.NotNil(t, h.m.sparkles)
	h.send(sparkleDoneMsg{id: h.m.sparkles.id})
	assert.Nil(t, h.m.sparkles)
}

func TestSaveBlankIsNoop(t *testing.T) {
	h := newHarness(t)
	h.typeText("   ")

	cmd := h.send(keyPress(tea.KeyCtrlS))
	assert.Nil(t, cmd)
	assert.Equal(t, capture.PhaseIdle, h.m.machine.Phase())
	assert.Nil(t, h.m.sparkles)
	assert.Zero(t, h.timeline.Len())
}

func TestStaleSparkleMessagesIgnored(t *testing.T) {
	h := newHarness(t)
	h.typeText("one")
	h.send(keyPress(tea.KeyCtrlS))
	h.send(saveCommitMsg{})
	first := h.m.sparkles.id

	h.typeText("two")
	h.send(keyPress(tea.KeyCtrlS))
	require.NotEqual(t, first, h.m.sparkles.id)

	h.send(sparkleDoneMsg{id: first})
	assert.NotNil(t, h.m.sparkles)
}

func TestDictationUpdatesTextarea(t *testing.T) {
	h := newHarness(t)
	h.send(keyPress(tea.KeyCtrlR))
	require.Equal(t, capture.PhaseRecording, h.m.machine.Phase())

	h.send(speechEventMsg{event: speech.Event{Kind: speech.EventInterim, Text: "call"}})
	assert.Contains(t, h.m.View(), "call")
	assert.Empty(t, h.m.textarea.Value())

	h.send(speechEventMsg{event: speech.Event{Kind: speech.EventFinal, Text: "call mom"}})
	assert.Equal(t, "call mom", h.m.textarea.Value())
	assert.Contains(t, h.m.View(), "REC")

	h.send(speechEventMsg{event: speech.Event{Kind: speech.EventEnded}})
	assert.Equal(t, capture.PhaseIdle, h.m.machine.Phase())
}

func TestViewCycling(t *testing.T) {
	h := newHarness(t)
	h.send(keyPress(tea.KeyTab))
	assert.Equal(t, viewIdeas, h.m.active)
	h.send(keyPress(tea.KeyTab))
	assert.Equal(t, viewHistory, h.m.active)
	h.send(keyPress(tea.KeyShiftTab))
	assert.Equal(t, viewIdeas, h.m.active)
}

func TestHistoryRendering(t *testing.T) {
	h := newHarness(t)
	h.send(keyPress(tea.KeyShiftTab))
	require.Equal(t, viewHistory, h.m.active)
	assert.Contains(t, h.m.View(), emptyHistoryText)

	created := time.Date(2026, 3, 4, 9, 7, 0, 0, time.Local)
	h.timeline.Prepend(memo.Note{ID: "n1", Content: "idea about gardens", CreatedAt: created.UnixMilli()})
	h.send(keyPress(tea.KeyTab))
	h.send(keyPress(tea.KeyShiftTab))

	out := h.m.View()
	assert.Contains(t, out, "idea about gardens")
	assert.Contains(t, out, "Mar 4, 2026 • 09:07")
	assert.NotContains(t, out, emptyHistoryText)
}

func TestOpeningIdeasFetchesWhenEmpty(t *testing.T) {
	h := newHarness(t, memo.Note{ID: "n1", Content: "note", CreatedAt: 1})

	openCmd := h.send(keyPress(tea.KeyTab))
	require.NotNil(t, openCmd)
	require.Equal(t, viewIdeas, h.m.active)
	assert.True(t, h.m.fetching)
	assert.Contains(t, h.m.View(), analyzingText)

	h.send(openCmd())

	assert.False(t, h.m.fetching)
	assert.Equal(t, 2, h.board.Len())
	out := h.m.View()
	assert.Contains(t, out, "Why does this matter?")
	assert.Contains(t, out, "QUESTION")
}

func TestOpeningIdeasWithoutNotesDoesNotFetch(t *testing.T) {
	h := newHarness(t)
	cmd := h.send(keyPress(tea.KeyTab))
	assert.Nil(t, cmd)
	assert.False(t, h.m.fetching)
	assert.Zero(t, h.gen.calls)
}

func TestOpeningIdeasWithSuggestionsDoesNotFetch(t *testing.T) {
	h := newHarness(t, memo.Note{ID: "n1", Content: "note", CreatedAt: 1})
	h.board.Replace(h.gen.out)

	cmd := h.send(keyPress(tea.KeyTab))
	assert.Nil(t, cmd)
	assert.False(t, h.m.fetching)
}

func TestManualRefresh(t *testing.T) {
	h := newHarness(t, memo.Note{ID: "n1", Content: "note", CreatedAt: 1})
	h.board.Replace(h.gen.out)
	h.send(keyPress(tea.KeyTab))

	cmd := h.send(runeKey('r'))
	require.NotNil(t, cmd)
	assert.True(t, h.m.fetching)

	// A second press while in flight does nothing.
	assert.Nil(t, h.send(runeKey('r')))

	h.send(cmd())
	assert.False(t, h.m.fetching)
	assert.Equal(t, 1, h.gen.calls)
}

func TestUseSuggestionFromIdeas(t *testing.T) {
	h := newHarness(t, memo.Note{ID: "n1", Content: "note", CreatedAt: 1})
	h.board.Replace(h.gen.out)
	h.typeText("draft")
	h.send(keyPress(tea.KeyTab))

	h.send(keyPress(tea.KeyDown))
	assert.Equal(t, 1, h.m.selected)
	h.send(keyPress(tea.KeyDown))
	assert.Equal(t, 1, h.m.selected)

	h.send(keyPress(tea.KeyEnter))
	assert.Equal(t, viewCapture, h.m.active)
	assert.Equal(t, "draft\nWeekend plans ", h.m.textarea.Value())
	assert.Equal(t, "draft\nWeekend plans ", h.m.machine.Input())
}

func TestQuickHints(t *testing.T) {
	h := newHarness(t)
	h.board.Replace(append(h.gen.out, memo.NewSuggestion("third", memo.SuggestionTopic)))

	out := h.m.View()
	assert.Contains(t, out, "Why does this matter?")
	assert.Contains(t, out, "Weekend plans")
	assert.NotContains(t, out, "third")

	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}, Alt: true})
	assert.Equal(t, "Weekend plans ", h.m.textarea.Value())

	// Hints disappear once the buffer has text.
	assert.NotContains(t, h.m.View(), "alt+1  Why")
}

func TestCopySuggestion(t *testing.T) {
	h := newHarness(t, memo.Note{ID: "n1", Content: "note", CreatedAt: 1})
	h.board.Replace(h.gen.out)
	h.send(keyPress(tea.KeyTab))

	cmd := h.send(runeKey('c'))
	require.NotNil(t, cmd)
	assert.Equal(t, []string{"Why does this matter?"}, h.copied)
	require.NotNil(t, h.m.toast)
	assert.Contains(t, h.m.View(), "Copied to clipboard")

	h.send(toastExpiredMsg{id: h.m.toast.id})
	assert.Nil(t, h.m.toast)
}

func TestCopyFailureShowsError(t *testing.T) {
	h := newHarness(t, memo.Note{ID: "n1", Content: "note", CreatedAt: 1})
	h.board.Replace(h.gen.out)
	h.copyErr = errors.New("no clipboard")
	h.send(keyPress(tea.KeyTab))

	h.send(runeKey('c'))
	require.NotNil(t, h.m.toast)
	assert.True(t, h.m.toast.isError)
}

func TestSelectionClampedWhenBoardShrinks(t *testing.T) {
	h := newHarness(t, memo.Note{ID: "n1", Content: "note", CreatedAt: 1})
	h.board.Replace(h.gen.out)
	h.send(keyPress(tea.KeyTab))
	h.send(keyPress(tea.KeyDown))
	require.Equal(t, 1, h.m.selected)

	h.board.Replace(h.gen.out[:1])
	h.send(suggestionsChangedMsg{})
	assert.Equal(t, 0, h.m.selected)
}

func TestQuitCommitsPendingSave(t *testing.T) {
	h := newHarness(t)
	h.typeText("last thought")
	h.send(keyPress(tea.KeyCtrlS))

	cmd := h.send(keyPress(tea.KeyCtrlC))
	require.NotNil(t, cmd)
	assert.Equal(t, 1, h.timeline.Len())
}

func TestViewBeforeResize(t *testing.T) {
	m := newModel(context.Background(), modelConfig{
		machine:  capture.New(memo.NewTimeline(nil), nil),
		timeline: memo.NewTimeline(nil),
		board:    memo.NewBoard(),
	})
	assert.Equal(t, "Initializing...", m.View())
}

func TestSparkleCanvasSize(t *testing.T) {
	var nilBurst *sparkleBurst
	lines := strings.Split(nilBurst.View(), "\n")
	assert.Len(t, lines, sparkleHeight)

	b := newSparkleBurst(1, rand.New(rand.NewSource(7)), time.Now())
	assert.True(t, b.advance(b.started.Add(100*time.Millisecond)))
	assert.Len(t, strings.Split(b.View(), "\n"), sparkleHeight)
	assert.False(t, b.advance(b.started.Add(sparkleDuration)))
	assert.Equal(t, 1.0, b.progress())
}
