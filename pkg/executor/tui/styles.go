package tui

import "github.com/charmbracelet/lipgloss"

// Color Palette
// This is the single source of truth for all TUI colors.
var (
	nebula100 = lipgloss.Color("#E0D4FC") // Pale lavender - primary text
	nebula300 = lipgloss.Color("#B9A4F2") // Soft violet - secondary text
	nebula500 = lipgloss.Color("#7652D6") // Nebula purple - primary accent
	nebula700 = lipgloss.Color("#3F2A80") // Deep indigo - borders
	mutedGray = lipgloss.Color("#6B7280") // Muted gray - hints and timestamps
	recordRed = lipgloss.Color("#F87171") // Recording indicator
	mintGreen = lipgloss.Color("#A8E6CF") // Success toasts
)

// Sparkle particle colors, alternated at random.
var sparkleColors = []lipgloss.Color{nebula100, nebula500}

// Common Styles
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(nebula100).
			Bold(true)

	memoCountStyle = lipgloss.NewStyle().
			Foreground(nebula500).
			Background(lipgloss.Color("#1E1B3A")).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(nebula300).
			Padding(0, 2)

	activeTabStyle = tabStyle.
			Foreground(nebula100).
			Background(nebula700).
			Bold(true)

	sectionTitleStyle = lipgloss.NewStyle().
				Foreground(nebula300).
				Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	interimStyle = lipgloss.NewStyle().
			Foreground(nebula300).
			Italic(true)

	recordingStyle = lipgloss.NewStyle().
			Foreground(recordRed).
			Bold(true)

	// Capture card
	inputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(nebula500).
			Padding(0, 1)

	recordingBoxStyle = inputBoxStyle.
				BorderForeground(recordRed)

	saveButtonStyle = lipgloss.NewStyle().
			Foreground(nebula100).
			Background(nebula500).
			Bold(true).
			Padding(0, 2)

	saveButtonDisabledStyle = saveButtonStyle.
				Foreground(mutedGray).
				Background(lipgloss.Color("#1E1B3A"))

	quickHintStyle = lipgloss.NewStyle().
			Foreground(nebula300).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(nebula700).
			Padding(0, 1)

	// History timeline
	timelineDotStyle = lipgloss.NewStyle().
				Foreground(nebula500)

	noteContentStyle = lipgloss.NewStyle().
				Foreground(nebula100)

	timestampStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	// Ideas
	ideaCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(nebula700).
			Padding(0, 2)

	selectedIdeaCardStyle = ideaCardStyle.
				BorderForeground(nebula500)

	ideaTypeStyle = lipgloss.NewStyle().
			Foreground(nebula300).
			Bold(true)

	ideaTextStyle = lipgloss.NewStyle().
			Foreground(nebula100)

	// Feedback
	toastStyle = lipgloss.NewStyle().
			Foreground(mintGreen).
			Padding(0, 1)

	toastErrorStyle = toastStyle.
			Foreground(recordRed)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Padding(0, 1)
)
