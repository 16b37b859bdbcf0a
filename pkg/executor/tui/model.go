package tui

import (
	"context"
	"math/rand"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/entrhq/nebula/pkg/capture"
	"github.com/entrhq/nebula/pkg/logging"
	"github.com/entrhq/nebula/pkg/memo"
	"github.com/entrhq/nebula/pkg/refresh"
	"github.com/entrhq/nebula/pkg/speech"
)

// view is one of the three mutually exclusive screens.
type view int

const (
	viewHistory view = iota
	viewCapture
	viewIdeas
)

var viewOrder = []view{viewHistory, viewCapture, viewIdeas}

func (v view) String() string {
	switch v {
	case viewHistory:
		return "History"
	case viewCapture:
		return "Capture"
	case viewIdeas:
		return "Ideas"
	}
	return "?"
}

func (v view) next() view { return viewOrder[(int(v)+1)%len(viewOrder)] }
func (v view) prev() view { return viewOrder[(int(v)+len(viewOrder)-1)%len(viewOrder)] }

const (
	// quickHintCount is how many suggestions the capture view offers when the
	// buffer is empty.
	quickHintCount = 2
	toastDuration  = 2 * time.Second
)

// model represents the state of the TUI application.
type model struct {
	// Bubble Tea components
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model
	keys     keyMap

	// Domain
	ctx       context.Context
	machine   *capture.Machine
	timeline  *memo.Timeline
	board     *memo.Board
	refresher *refresh.Refresher
	logger    *logging.Logger
	copyText  func(string) error

	// UI state
	active   view
	selected int  // highlighted suggestion in the ideas view
	fetching bool // an on-demand refresh is in flight
	sparkles *sparkleBurst
	toast    *toastNotification
	rng      *rand.Rand
	nextID   int

	// Window dimensions
	width  int
	height int
	ready  bool
}

// speechEventMsg carries a transcriber event into the update loop.
type speechEventMsg struct{ event speech.Event }

// suggestionsChangedMsg signals that the board was replaced.
type suggestionsChangedMsg struct{}

// saveCommitMsg fires when the Saving window has elapsed.
type saveCommitMsg struct{}

// refreshDoneMsg reports that an on-demand refresh finished.
type refreshDoneMsg struct {
	trigger refresh.Trigger
	ran     bool
}

// sparkleFrameMsg advances the particle animation.
type sparkleFrameMsg struct{ id int }

// sparkleDoneMsg removes the particle burst.
type sparkleDoneMsg struct{ id int }

// toastExpiredMsg hides a toast if it is still the current one.
type toastExpiredMsg struct{ id int }

// toastNotification represents a temporary notification message
type toastNotification struct {
	id      int
	message string
	isError bool
}

// keyMap lists every binding; which ones apply depends on the active view.
type keyMap struct {
	NextView   key.Binding
	PrevView   key.Binding
	Save       key.Binding
	Record     key.Binding
	QuickHint1 key.Binding
	QuickHint2 key.Binding
	Up         key.Binding
	Down       key.Binding
	Use        key.Binding
	Refresh    key.Binding
	Copy       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextView:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		PrevView:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev view")),
		Save:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Record:     key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "dictate")),
		QuickHint1: key.NewBinding(key.WithKeys("alt+1"), key.WithHelp("alt+1/2", "use hint")),
		QuickHint2: key.NewBinding(key.WithKeys("alt+2")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Use:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "write about this")),
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh ideas")),
		Copy:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// helpFor returns the bindings shown in the footer for a view.
func (k keyMap) helpFor(v view, canRecord bool) []key.Binding {
	switch v {
	case viewCapture:
		bindings := []key.Binding{k.Save}
		if canRecord {
			bindings = append(bindings, k.Record)
		}
		return append(bindings, k.QuickHint1, k.NextView, k.Quit)
	case viewIdeas:
		return []key.Binding{k.Up, k.Down, k.Use, k.Refresh, k.Copy, k.NextView, k.Quit}
	default:
		return []key.Binding{k.Up, k.Down, k.NextView, k.Quit}
	}
}

// modelConfig holds the collaborators a model needs.
type modelConfig struct {
	machine   *capture.Machine
	timeline  *memo.Timeline
	board     *memo.Board
	refresher *refresh.Refresher
	logger    *logging.Logger
	copyText  func(string) error
	rng       *rand.Rand
}

func newModel(ctx context.Context, cfg modelConfig) *model {
	ta := textarea.New()
	ta.Placeholder = "What's on your mind?"
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.SetHeight(8)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = interimStyle

	if cfg.logger == nil {
		cfg.logger = logging.Discard("tui")
	}
	if cfg.copyText == nil {
		cfg.copyText = clipboard.WriteAll
	}
	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec
	}

	return &model{
		textarea:  ta,
		viewport:  viewport.New(80, 20),
		spinner:   sp,
		help:      help.New(),
		keys:      defaultKeyMap(),
		ctx:       ctx,
		machine:   cfg.machine,
		timeline:  cfg.timeline,
		board:     cfg.board,
		refresher: cfg.refresher,
		logger:    cfg.logger,
		copyText:  cfg.copyText,
		rng:       cfg.rng,
		active:    viewCapture,
	}
}
