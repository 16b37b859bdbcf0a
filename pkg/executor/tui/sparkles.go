package tui

import (
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Particle burst shown when a note is saved. It runs on its own timers and
// never delays the save itself.
const (
	sparkleCount    = 12
	sparkleDuration = 800 * time.Millisecond
	sparkleLifetime = time.Second
	sparkleFrame    = 50 * time.Millisecond

	sparkleWidth  = 24
	sparkleHeight = 5
)

type particle struct {
	dx, dy float64 // final offset from the origin, in cells
	color  lipgloss.Color
}

type sparkleBurst struct {
	id        int
	started   time.Time
	elapsed   time.Duration
	particles []particle
}

func newSparkleBurst(id int, rng *rand.Rand, now time.Time) *sparkleBurst {
	b := &sparkleBurst{id: id, started: now}
	for i := 0; i < sparkleCount; i++ {
		b.particles = append(b.particles, particle{
			dx:    (rng.Float64() - 0.5) * sparkleWidth,
			dy:    (rng.Float64() - 0.5) * sparkleHeight,
			color: sparkleColors[rng.Intn(len(sparkleColors))],
		})
	}
	return b
}

// sparkleCmds schedules the animation frames and the final removal.
func sparkleCmds(id int) tea.Cmd {
	return tea.Batch(
		tea.Tick(sparkleFrame, func(time.Time) tea.Msg { return sparkleFrameMsg{id: id} }),
		tea.Tick(sparkleLifetime, func(time.Time) tea.Msg { return sparkleDoneMsg{id: id} }),
	)
}

// advance moves the animation to now and reports whether more frames are
// needed.
func (b *sparkleBurst) advance(now time.Time) bool {
	b.elapsed = now.Sub(b.started)
	return b.elapsed < sparkleDuration
}

// progress is the eased completion of the animation in [0, 1].
func (b *sparkleBurst) progress() float64 {
	p := float64(b.elapsed) / float64(sparkleDuration)
	if p >= 1 {
		return 1
	}
	if p < 0 {
		p = 0
	}
	return 1 - (1-p)*(1-p)
}

// glyph shrinks as the particle fades.
func (b *sparkleBurst) glyph() string {
	switch p := b.progress(); {
	case p < 0.4:
		return "✦"
	case p < 0.75:
		return "✧"
	default:
		return "·"
	}
}

// View renders the burst on a fixed-size canvas so layout never shifts.
// A nil or finished burst renders blank.
func (b *sparkleBurst) View() string {
	grid := make([][]string, sparkleHeight)
	for y := range grid {
		grid[y] = make([]string, sparkleWidth)
		for x := range grid[y] {
			grid[y][x] = " "
		}
	}

	if b != nil && b.progress() < 1 {
		p := b.progress()
		glyph := b.glyph()
		cx, cy := float64(sparkleWidth)/2, float64(sparkleHeight)/2
		for _, pt := range b.particles {
			x := int(cx + pt.dx*p)
			y := int(cy + pt.dy*p)
			if x < 0 || x >= sparkleWidth || y < 0 || y >= sparkleHeight {
				continue
			}
			grid[y][x] = lipgloss.NewStyle().Foreground(pt.color).Render(glyph)
		}
	}

	lines := make([]string, sparkleHeight)
	for y, row := range grid {
		lines[y] = strings.Join(row, "")
	}
	return strings.Join(lines, "\n")
}
