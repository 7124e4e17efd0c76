package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ShayCichocki/adivina/internal/prompt"
)

var (
	questionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	transcriptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

// promptModel asks one question and quits once it has an acceptable answer.
type promptModel struct {
	question   string
	transcript []string
	field      *InputField

	// header and footer are optional chrome around the prompt.
	header *Header
	footer *Footer

	// classifier is set for yes/no questions.
	classifier *prompt.Classifier
	reprompt   string
	warning    string

	answer   string
	yes      bool
	done     bool
	canceled bool
}

func newTextModel(question string, transcript []string) *promptModel {
	return &promptModel{
		question:   question,
		transcript: transcript,
		field:      NewInputField("Escribe tu respuesta y pulsa Enter..."),
	}
}

func newYesNoModel(question string, transcript []string, c *prompt.Classifier, reprompt string) *promptModel {
	m := newTextModel(question, transcript)
	m.field = NewInputField("sí / no")
	m.classifier = c
	m.reprompt = reprompt
	return m
}

// Init implements tea.Model.
func (m *promptModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.field.SetWidth(msg.Width)
		if m.header != nil {
			m.header.SetWidth(msg.Width)
		}
		if m.footer != nil {
			m.footer.SetWidth(msg.Width)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.canceled = true
			return m, tea.Quit
		}

	case AnswerSubmittedMsg:
		return m.submit(msg.Text)
	}

	var cmd tea.Cmd
	m.field, cmd = m.field.Update(msg)
	return m, cmd
}

func (m *promptModel) submit(text string) (tea.Model, tea.Cmd) {
	text = strings.TrimSpace(text)
	if m.classifier != nil {
		switch m.classifier.Classify(text) {
		case prompt.Yes:
			m.yes = true
		case prompt.No:
			m.yes = false
		default:
			m.warning = m.reprompt
			return m, nil
		}
	}
	m.answer = text
	m.done = true
	return m, tea.Quit
}

// View implements tea.Model.
func (m *promptModel) View() string {
	if m.done || m.canceled {
		return ""
	}

	var b strings.Builder
	if m.header != nil {
		b.WriteString(m.header.View())
		b.WriteString("\n")
	}
	for _, line := range m.transcript {
		b.WriteString(transcriptStyle.Render(line))
		b.WriteString("\n")
	}
	b.WriteString(questionStyle.Render(m.question))
	if m.classifier != nil {
		b.WriteString(" ")
		b.WriteString(hintStyle.Render(strings.TrimSpace(prompt.YesNoHint)))
	}
	b.WriteString("\n")
	b.WriteString(m.field.View())
	b.WriteString("\n")
	if m.warning != "" {
		b.WriteString(warnStyle.Render(m.warning))
		b.WriteString("\n")
	}
	if m.footer != nil {
		b.WriteString(m.footer.View())
	} else {
		b.WriteString(hintStyle.Render("esc: salir"))
	}
	return b.String()
}
