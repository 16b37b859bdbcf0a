package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/entrhq/nebula/pkg/capture"
)

const (
	emptyHistoryText = "No history yet."
	analyzingText    = "Analyzing your notes to spark new ideas..."
)

// View renders the entire TUI interface.
// This is called by Bubble Tea whenever the UI needs to be redrawn.
func (m *model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var body string
	switch m.active {
	case viewHistory:
		body = m.buildHistory()
	case viewIdeas:
		body = m.buildIdeas()
	default:
		body = m.buildCapture()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.buildHeader(),
		m.buildTabs(),
		"",
		body,
		"",
		m.buildStatusLine(),
		m.buildHelp(),
	)
}

// chromeHeight is the number of rows outside the history viewport.
func (m *model) chromeHeight() int {
	// header, tabs, blank, section title, blank, blank, status, help
	return 8
}

// buildHeader renders the title and the memo counter on one row.
func (m *model) buildHeader() string {
	left := titleStyle.Render("✦ Nebula")
	right := memoCountStyle.Render(memoCount(m.timeline.Len()))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return " " + left + strings.Repeat(" ", gap) + right
}

// buildTabs renders the view switcher.
func (m *model) buildTabs() string {
	tabs := make([]string, 0, len(viewOrder))
	for _, v := range viewOrder {
		style := tabStyle
		if v == m.active {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(v.String()))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, row)
}

func (m *model) buildHistory() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		sectionTitleStyle.Render("  TIMELINE"),
		m.viewport.View(),
	)
}

// refreshHistory rebuilds the timeline content from the current notes.
func (m *model) refreshHistory() {
	notes := m.timeline.Notes()
	if len(notes) == 0 {
		m.viewport.SetContent("\n" + lipgloss.PlaceHorizontal(m.viewport.Width, lipgloss.Center, hintStyle.Render(emptyHistoryText)))
		return
	}

	wrapWidth := max(m.viewport.Width-4, 10)
	var b strings.Builder
	for i, n := range notes {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(timelineDotStyle.Render("●"))
		b.WriteString(" ")
		b.WriteString(timestampStyle.Render(formatNoteTime(n.CreatedAt)))
		b.WriteString("\n")
		content := wordWrap(strings.TrimRight(n.Content, "\n"), wrapWidth)
		b.WriteString(noteContentStyle.Render(indent(content, "│ ")))
	}
	m.viewport.SetContent(b.String())
}

func (m *model) buildCapture() string {
	boxStyle := inputBoxStyle
	if m.machine.Phase() == capture.PhaseRecording {
		boxStyle = recordingBoxStyle
	}
	card := boxStyle.Width(m.width - 4).Render(m.textarea.View())

	sections := []string{card, m.buildToolbar(), lipgloss.PlaceHorizontal(m.width-2, lipgloss.Right, m.sparkles.View())}

	if hints := quickHints(m.board.Suggestions()); m.textarea.Value() == "" && len(hints) > 0 {
		rendered := make([]string, 0, len(hints))
		for i, h := range hints {
			rendered = append(rendered, quickHintStyle.Render(fmt.Sprintf("alt+%d  %s", i+1, h.Text)))
		}
		sections = append(sections, lipgloss.PlaceHorizontal(m.width, lipgloss.Center, lipgloss.JoinHorizontal(lipgloss.Top, rendered...)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// buildToolbar renders the dictation state on the left and the save button
// on the right.
func (m *model) buildToolbar() string {
	var left string
	switch m.machine.Phase() {
	case capture.PhaseRecording:
		left = recordingStyle.Render("● REC") + " " + hintStyle.Render("ctrl+r to stop")
	case capture.PhaseSaving:
		left = interimStyle.Render("saving...")
	default:
		if m.machine.CanRecord() {
			left = hintStyle.Render("ctrl+r to dictate")
		}
	}

	button := saveButtonDisabledStyle.Render("Save ➤")
	if m.machine.CanSave() {
		button = saveButtonStyle.Render("Save ➤")
	}

	gap := m.width - 4 - lipgloss.Width(left) - lipgloss.Width(button)
	if gap < 1 {
		gap = 1
	}
	return "  " + left + strings.Repeat(" ", gap) + button
}

func (m *model) buildIdeas() string {
	lines := []string{sectionTitleStyle.Render("  INSPIRATION"), ""}

	suggestions := m.board.Suggestions()
	cardWidth := max(m.width-6, 20)

	if len(suggestions) == 0 || m.fetching {
		msg := analyzingText
		if m.timeline.Len() == 0 {
			msg = "Capture a few notes and ideas will appear here."
		}
		empty := ideaCardStyle.Width(cardWidth).Align(lipgloss.Center).Render(
			m.spinner.View() + " " + interimStyle.Render(msg))
		lines = append(lines, indent(empty, "  "))
	} else {
		for i, s := range suggestions {
			style := ideaCardStyle
			action := ""
			if i == m.selected {
				style = selectedIdeaCardStyle
				action = "\n" + hintStyle.Render("enter: write about this ➤")
			}
			text := wordWrap(fmt.Sprintf("“%s”", s.Text), cardWidth-4)
			card := style.Width(cardWidth).Render(
				ideaTypeStyle.Render(strings.ToUpper(string(s.Type))) + "\n" +
					ideaTextStyle.Render(text) + action)
			lines = append(lines, indent(card, "  "))
		}
	}

	lines = append(lines, "", hintStyle.Render("  Need more sparks? Press r to refresh ideas."))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// buildStatusLine shows a toast when one is active, otherwise the live
// dictation preview.
func (m *model) buildStatusLine() string {
	if m.toast != nil {
		if m.toast.isError {
			return toastErrorStyle.Render("✗ " + m.toast.message)
		}
		return toastStyle.Render("✓ " + m.toast.message)
	}
	if interim := m.machine.Interim(); interim != "" {
		return statusBarStyle.Render(interimStyle.Render("… " + interim))
	}
	return ""
}

func (m *model) buildHelp() string {
	return statusBarStyle.Render(m.help.ShortHelpView(m.keys.helpFor(m.active, m.machine.CanRecord())))
}
