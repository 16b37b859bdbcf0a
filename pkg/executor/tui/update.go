package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/nebula/pkg/capture"
	"github.com/entrhq/nebula/pkg/refresh"
)

// Init starts the spinner and, when notes already exist, primes the
// history view.
func (m *model) Init() tea.Cmd {
	m.refreshHistory()
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

// Update handles all state updates for the TUI model.
// This is the main event loop handler for Bubble Tea.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case speechEventMsg:
		m.logger.Debugf("speech event: %s", msg.event.Kind)
		m.machine.HandleEvent(msg.event)
		m.syncInput()
		return m, nil

	case suggestionsChangedMsg:
		m.clampSelection()
		return m, nil

	case saveCommitMsg:
		return m.handleSaveCommit()

	case refreshDoneMsg:
		m.fetching = false
		m.clampSelection()
		m.logger.Debugf("%s refresh finished (ran=%t)", msg.trigger, msg.ran)
		return m, nil

	case sparkleFrameMsg:
		return m.handleSparkleFrame(msg)

	case sparkleDoneMsg:
		if m.sparkles != nil && m.sparkles.id == msg.id {
			m.sparkles = nil
		}
		return m, nil

	case toastExpiredMsg:
		if m.toast != nil && m.toast.id == msg.id {
			m.toast = nil
		}
		return m, nil
	}

	// Anything else (cursor blink and so on) goes to the focused widget.
	return m.updateFocused(msg)
}

func (m *model) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true

	m.textarea.SetWidth(max(m.width-8, 20))
	m.help.Width = m.width
	m.recalculateLayout()
	return m, nil
}

// recalculateLayout sizes the history viewport to the space between the
// chrome and refreshes its content.
func (m *model) recalculateLayout() {
	m.viewport.Width = max(m.width-4, 20)
	m.viewport.Height = max(m.height-m.chromeHeight(), 3)
	m.refreshHistory()
}

func (m *model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.machine.Phase() == capture.PhaseRecording {
			_ = m.machine.ToggleRecording(m.ctx)
		}
		// A save inside its Saving window is committed rather than lost.
		m.machine.CompleteSave()
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextView):
		return m.switchView(m.active.next())
	case key.Matches(msg, m.keys.PrevView):
		return m.switchView(m.active.prev())
	}

	switch m.active {
	case viewCapture:
		return m.handleCaptureKey(msg)
	case viewIdeas:
		return m.handleIdeasKey(msg)
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
}

func (m *model) switchView(v view) (tea.Model, tea.Cmd) {
	m.active = v
	m.logger.Debugf("switched to %s view", v)

	switch v {
	case viewCapture:
		m.textarea.Focus()
	case viewHistory:
		m.textarea.Blur()
		m.refreshHistory()
	case viewIdeas:
		m.textarea.Blur()
		m.clampSelection()
		if m.board.Len() == 0 && m.timeline.Len() > 0 && !m.fetching {
			return m, m.startRefresh(refresh.TriggerIdeas)
		}
	}
	return m, nil
}

func (m *model) handleCaptureKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Save):
		return m.beginSave()

	case key.Matches(msg, m.keys.Record):
		if err := m.machine.ToggleRecording(m.ctx); err != nil {
			return m, m.showToast("Dictation failed to start", true)
		}
		return m, nil

	case key.Matches(msg, m.keys.QuickHint1), key.Matches(msg, m.keys.QuickHint2):
		idx := 0
		if key.Matches(msg, m.keys.QuickHint2) {
			idx = 1
		}
		if m.textarea.Value() != "" {
			return m, nil
		}
		hints := quickHints(m.board.Suggestions())
		if idx < len(hints) {
			m.useSuggestion(hints[idx].Text)
		}
		return m, nil
	}

	// Typing is locked while a save is committing.
	if m.machine.Phase() == capture.PhaseSaving {
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	m.machine.SetInput(m.textarea.Value())
	return m, cmd
}

func (m *model) handleIdeasKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	suggestions := m.board.Suggestions()

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(suggestions)-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Use):
		if m.selected < len(suggestions) {
			text := suggestions[m.selected].Text
			_, cmd := m.switchView(viewCapture)
			m.useSuggestion(text)
			return m, cmd
		}
	case key.Matches(msg, m.keys.Refresh):
		if !m.fetching && m.timeline.Len() > 0 {
			return m, m.startRefresh(refresh.TriggerManual)
		}
	case key.Matches(msg, m.keys.Copy):
		if m.selected < len(suggestions) {
			if err := m.copyText(suggestions[m.selected].Text); err != nil {
				m.logger.Warnf("clipboard write failed: %v", err)
				return m, m.showToast("Clipboard unavailable", true)
			}
			return m, m.showToast("Copied to clipboard", false)
		}
	}
	return m, nil
}

// beginSave starts the Saving window and the particle burst together.
func (m *model) beginSave() (tea.Model, tea.Cmd) {
	m.machine.SetInput(m.textarea.Value())
	if _, ok := m.machine.BeginSave(); !ok {
		return m, nil
	}

	m.nextID++
	m.sparkles = newSparkleBurst(m.nextID, m.rng, time.Now())

	return m, tea.Batch(
		tea.Tick(capture.SaveDelay, func(time.Time) tea.Msg { return saveCommitMsg{} }),
		sparkleCmds(m.nextID),
	)
}

func (m *model) handleSaveCommit() (tea.Model, tea.Cmd) {
	if _, ok := m.machine.CompleteSave(); ok {
		m.syncInput()
		m.refreshHistory()
	}
	return m, nil
}

func (m *model) handleSparkleFrame(msg sparkleFrameMsg) (tea.Model, tea.Cmd) {
	if m.sparkles == nil || m.sparkles.id != msg.id {
		return m, nil
	}
	if m.sparkles.advance(time.Now()) {
		return m, tea.Tick(sparkleFrame, func(time.Time) tea.Msg { return sparkleFrameMsg{id: msg.id} })
	}
	return m, nil
}

// startRefresh runs an on-demand refresh off the update loop.
func (m *model) startRefresh(trigger refresh.Trigger) tea.Cmd {
	m.fetching = true
	ctx, r := m.ctx, m.refresher
	return func() tea.Msg {
		var ran bool
		switch trigger {
		case refresh.TriggerManual:
			ran = r.Manual(ctx)
		default:
			ran = r.OnIdeasOpened(ctx)
		}
		return refreshDoneMsg{trigger: trigger, ran: ran}
	}
}

func (m *model) useSuggestion(text string) {
	m.machine.SetInput(m.textarea.Value())
	m.machine.UseSuggestion(text)
	m.syncInput()
}

// syncInput copies the machine's buffer into the textarea when they differ.
func (m *model) syncInput() {
	if v := m.machine.Input(); v != m.textarea.Value() {
		m.textarea.SetValue(v)
		m.textarea.CursorEnd()
	}
}

func (m *model) clampSelection() {
	n := m.board.Len()
	if m.selected >= n {
		m.selected = max(n-1, 0)
	}
}

func (m *model) showToast(message string, isError bool) tea.Cmd {
	m.nextID++
	id := m.nextID
	m.toast = &toastNotification{id: id, message: message, isError: isError}
	return tea.Tick(toastDuration, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} })
}

func (m *model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.active == viewCapture {
		m.textarea, cmd = m.textarea.Update(msg)
	} else if m.active == viewHistory {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}
