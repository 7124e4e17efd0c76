package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/ShayCichocki/adivina/pkg/models"
)

// Score counts finished rounds by outcome.
type Score struct {
	Right   int
	Wrong   int
	Unknown int
	Learned int
}

// Add counts one finished round.
func (s *Score) Add(outcome models.Outcome, learned bool) {
	switch outcome {
	case models.OutcomeGuessedRight:
		s.Right++
	case models.OutcomeGuessedWrong:
		s.Wrong++
	case models.OutcomeUnknown:
		s.Unknown++
	}
	if learned {
		s.Learned++
	}
}

// Played returns the number of rounds counted.
func (s Score) Played() int {
	return s.Right + s.Wrong + s.Unknown
}

// Footer renders the score and keyboard hints.
type Footer struct {
	score Score
	width int

	// Styles
	successStyle   lipgloss.Style
	errorStyle     lipgloss.Style
	hintStyle      lipgloss.Style
	separatorStyle lipgloss.Style
}

// NewFooter creates a new Footer instance.
func NewFooter() *Footer {
	return &Footer{
		successStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("28")).
			Bold(true),

		errorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),

		hintStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),

		separatorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("236")),
	}
}

// SetScore updates the score for display.
func (f *Footer) SetScore(s Score) {
	f.score = s
}

// SetWidth sets the footer width.
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// View renders the footer.
func (f *Footer) View() string {
	var left string
	if f.score.Played() > 0 {
		left = f.successStyle.Render(fmt.Sprintf("✓%d", f.score.Right))
		if misses := f.score.Wrong + f.score.Unknown; misses > 0 {
			left += f.errorStyle.Render(fmt.Sprintf(" ✗%d", misses))
		}
		if f.score.Learned > 0 {
			left += f.hintStyle.Render(fmt.Sprintf(" +%d aprendidos", f.score.Learned))
		}
	}

	right := f.hintStyle.Render("enter responder │ esc salir")

	if left == "" {
		return right
	}
	return left + f.separatorStyle.Render(" │ ") + right
}
