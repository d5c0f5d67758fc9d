package stats

import (
	"testing"

	"flagframe/framing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestRowsReflectCounters(t *testing.T) {
	m := New()
	m.SetStats(framing.Stats{Frames: 2, BytesIn: 40, UnexpectedStart: 4, BadEscapes: 1})
	m.AddSent()

	rows := m.Rows()
	assert.Contains(t, rows, [2]string{"Frames RX", "2"})
	assert.Contains(t, rows, [2]string{"Frames TX", "1"})
	assert.Contains(t, rows, [2]string{"Resync", "4"})
	assert.Contains(t, rows, [2]string{"Bad escape", "1"})
}

func TestViewRespectsHeight(t *testing.T) {
	m := New()
	m, _ = m.Update(tea.WindowSizeMsg{Width: 24, Height: 5}) // header + two rows
	view := m.View()
	assert.Contains(t, view, "Frames RX")
	assert.Contains(t, view, "Frames TX")
	assert.NotContains(t, view, "Overflow")
}
