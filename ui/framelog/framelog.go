package framelog

import (
	"fmt"
	"strings"

	"flagframe/framing"
	"flagframe/packet"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// maxLines bounds the history kept regardless of window size.
const maxLines = 500

var (
	rxStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	txStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// Model holds the frame log's state
type Model struct {
	width  int
	height int
	frames []packet.Frame // newest first
}

// New creates a new frame log model
func New() Model {
	return Model{
		width:  60,
		height: 20,
		frames: make([]packet.Frame, 0),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Len returns the number of frames held.
func (m Model) Len() int {
	return len(m.frames)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case packet.Frame:
		m.frames = append([]packet.Frame{msg}, m.frames...)
		if len(m.frames) > maxLines {
			m.frames = m.frames[:maxLines]
		}
	}
	return m, nil
}

// Line renders a single frame, e.g. "12:00:00 RX #3 len=1 {0x01}".
func Line(f packet.Frame) string {
	return fmt.Sprintf("%s %s #%d %s", f.At.Format("15:04:05"), f.Direction, f.Seq, framing.Format(f.Payload))
}

func (m Model) View() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(m.width - 2).   // -2 for border
		Height(m.height - 2). // -2 for border
		Padding(0, 1)

	contentWidth := m.width - 2 - 2 // -border, -padding
	if contentWidth < 0 {
		contentWidth = 0
	}
	numLines := m.height - 2
	if numLines < 0 {
		numLines = 0
	}

	// Oldest visible frame at the top so the log scrolls upwards.
	visible := m.frames
	if len(visible) > numLines {
		visible = visible[:numLines]
	}

	var b strings.Builder
	for i := len(visible) - 1; i >= 0; i-- {
		line := Line(visible[i])
		if len(line) > contentWidth {
			line = line[:contentWidth]
		}
		if visible[i].Direction == packet.DirectionTX {
			line = txStyle.Render(line)
		} else {
			line = rxStyle.Render(line)
		}
		b.WriteString(line)
		if i > 0 {
			b.WriteRune('\n')
		}
	}

	return style.Render(b.String())
}
