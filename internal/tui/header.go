package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Header renders the game title and the current round.
type Header struct {
	width int
	round int
}

// NewHeader creates a new Header.
func NewHeader() *Header {
	return &Header{
		width: 80,
	}
}

// SetWidth sets the header width.
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetRound sets the round number shown under the title. Zero hides it.
func (h *Header) SetRound(round int) {
	h.round = round
}

// View renders the header.
func (h *Header) View() string {
	// Gradient colors for the title
	colors := []string{"#FF6B6B", "#FF8E53", "#FFC857", "#4ECDC4", "#45B7D1", "#96E6A1"}

	var title strings.Builder
	for i, r := range "ADIVINA" {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(colors[i%len(colors)])).Bold(true)
		title.WriteString(style.Render(string(r) + " "))
	}

	lines := []string{strings.TrimRight(title.String(), " ")}
	if h.round > 0 {
		subtitle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true).
			Render(fmt.Sprintf("Ronda %d", h.round))
		lines = append(lines, subtitle)
	}

	return lipgloss.NewStyle().
		Width(h.width).
		PaddingBottom(1).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
