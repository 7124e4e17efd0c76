package tui

import (
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ShayCichocki/adivina/internal/prompt"
	"github.com/ShayCichocki/adivina/pkg/models"
)

// ErrCanceled is returned when the user quits a prompt with esc or ctrl+c.
var ErrCanceled = errors.New("prompt canceled")

// maxTranscript bounds the answered questions shown above a prompt.
const maxTranscript = 8

// Prompter asks each question in a short-lived bubbletea program.
// Answered questions are kept as a transcript shown above the next prompt.
type Prompter struct {
	in         io.Reader
	out        io.Writer
	classifier *prompt.Classifier
	reprompt   string
	transcript []string

	round  int
	score  Score
	header *Header
	footer *Footer

	// run executes a model; replaced in tests.
	run func(m tea.Model) (tea.Model, error)
}

// NewPrompter creates a prompter on the given terminal streams.
func NewPrompter(in io.Reader, out io.Writer, c *prompt.Classifier, reprompt string) *Prompter {
	if c == nil {
		c = prompt.NewClassifier(nil, nil)
	}
	if reprompt == "" {
		reprompt = prompt.DefaultReprompt
	}
	p := &Prompter{
		in:         in,
		out:        out,
		classifier: c,
		reprompt:   reprompt,
		header:     NewHeader(),
		footer:     NewFooter(),
	}
	p.run = func(m tea.Model) (tea.Model, error) {
		return tea.NewProgram(m, tea.WithInput(p.in), tea.WithOutput(p.out)).Run()
	}
	return p
}

// AskYesNo shows question and waits for a recognized yes/no reply.
func (p *Prompter) AskYesNo(question string) (bool, error) {
	m, err := p.ask(newYesNoModel(question, p.transcript, p.classifier, p.reprompt))
	if err != nil {
		return false, err
	}
	answer := "no"
	if m.yes {
		answer = "sí"
	}
	p.record(question + " " + answer)
	return m.yes, nil
}

// AskText shows question and returns the submitted text, trimmed.
func (p *Prompter) AskText(question string) (string, error) {
	m, err := p.ask(newTextModel(question, p.transcript))
	if err != nil {
		return "", err
	}
	p.record(question + " " + m.answer)
	return m.answer, nil
}

// Say prints a message between prompts and adds it to the transcript.
func (p *Prompter) Say(msg string) {
	fmt.Fprintln(p.out, questionStyle.Render(msg))
	p.record(msg)
}

// Reset clears the transcript and starts the next round.
func (p *Prompter) Reset() {
	p.transcript = nil
	p.round++
	p.header.SetRound(p.round)
}

// RoundFinished adds a finished round to the score shown in the footer.
func (p *Prompter) RoundFinished(outcome models.Outcome, learned bool) {
	p.score.Add(outcome, learned)
	p.footer.SetScore(p.score)
}

// Score returns the rounds counted so far.
func (p *Prompter) Score() Score {
	return p.score
}

func (p *Prompter) ask(m *promptModel) (*promptModel, error) {
	m.header = p.header
	m.footer = p.footer
	final, err := p.run(m)
	if err != nil {
		return nil, fmt.Errorf("run prompt: %w", err)
	}
	result, ok := final.(*promptModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model %T", final)
	}
	if result.canceled || !result.done {
		return nil, ErrCanceled
	}
	return result, nil
}

func (p *Prompter) record(line string) {
	p.transcript = append(p.transcript, line)
	if len(p.transcript) > maxTranscript {
		p.transcript = p.transcript[len(p.transcript)-maxTranscript:]
	}
}
