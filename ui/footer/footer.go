package footer

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const help = "s: send sample frame · q: quit"

// Model holds the footer's state
type Model struct {
	width  int
	status string
}

// New creates a new footer model
func New() Model {
	return Model{width: 80}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// SetStatus replaces the status text shown before the key help.
func (m *Model) SetStatus(s string) {
	m.status = s
}

// Status returns the current status text.
func (m Model) Status() string {
	return m.status
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

func (m Model) View() string {
	text := help
	if m.status != "" {
		text = m.status + " | " + help
	}
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Width(m.width)
	return style.Render(text)
}
