package stats

import (
	"fmt"
	"strings"

	"flagframe/framing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Model holds the statistics sidebar's state
type Model struct {
	width  int
	height int
	stats  framing.Stats
	sent   uint64
}

// New creates a new statistics sidebar
func New() Model {
	return Model{
		width:  24,
		height: 20,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// SetStats replaces the decoder counters shown.
func (m *Model) SetStats(s framing.Stats) {
	m.stats = s
}

// AddSent counts one transmitted frame.
func (m *Model) AddSent() {
	m.sent++
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

// Rows returns the label/value pairs displayed, in order.
func (m Model) Rows() [][2]string {
	return [][2]string{
		{"Frames RX", fmt.Sprint(m.stats.Frames)},
		{"Frames TX", fmt.Sprint(m.sent)},
		{"Bytes in", fmt.Sprint(m.stats.BytesIn)},
		{"Noise", fmt.Sprint(m.stats.BytesDiscarded)},
		{"Resync", fmt.Sprint(m.stats.UnexpectedStart)},
		{"Overflow", fmt.Sprint(m.stats.Overflows)},
		{"Bad escape", fmt.Sprint(m.stats.BadEscapes)},
	}
}

func (m Model) View() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(m.width - 2).   // -2 for border
		Height(m.height - 2). // -2 for border
		Padding(0, 1)

	inner := m.width - 2 - 2 // -2 border, -2 padding
	if inner < 0 {
		inner = 0
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Underline(true).
		Width(inner).
		Render("Decoder")

	var b strings.Builder
	b.WriteString(header)

	// Inner height minus the header line
	contentHeight := (m.height - 2) - 1
	rows := m.Rows()
	for i, row := range rows {
		if i >= contentHeight {
			break
		}
		b.WriteRune('\n')
		pad := inner - len(row[0]) - len(row[1])
		if pad < 1 {
			pad = 1
		}
		line := row[0] + strings.Repeat(" ", pad) + row[1]
		if len(line) > inner {
			line = line[:inner]
		}
		b.WriteString(line)
	}

	return style.Render(b.String())
}
