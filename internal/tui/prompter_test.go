package tui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ShayCichocki/adivina/internal/prompt"
	"github.com/ShayCichocki/adivina/pkg/models"
)

// typeLine feeds text followed by enter into a model, the way a user would.
func typeLine(t *testing.T, m tea.Model, text string) tea.Model {
	t.Helper()
	for _, r := range text {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter returned no command")
	}
	m, _ = m.Update(cmd())
	return m
}

// scripted returns a run function that types each line into the model.
func scripted(t *testing.T, lines ...[]string) func(tea.Model) (tea.Model, error) {
	call := 0
	return func(m tea.Model) (tea.Model, error) {
		if call >= len(lines) {
			t.Fatalf("unexpected prompt %d", call)
		}
		for _, line := range lines[call] {
			m = typeLine(t, m, line)
		}
		call++
		return m, nil
	}
}

func TestPromptModel_YesNo(t *testing.T) {
	tests := []struct {
		reply string
		want  bool
	}{
		{"Sí", true},
		{"n", false},
	}

	for _, tt := range tests {
		m := newYesNoModel("¿El animal... Ruge?", nil, prompt.NewClassifier(nil, nil), "repite")
		final := typeLine(t, m, tt.reply).(*promptModel)

		if !final.done {
			t.Fatalf("reply %q: model not done", tt.reply)
		}
		if final.yes != tt.want {
			t.Errorf("reply %q: yes = %v, want %v", tt.reply, final.yes, tt.want)
		}
	}
}

func TestPromptModel_YesNo_UnrecognizedWarns(t *testing.T) {
	m := newYesNoModel("¿El animal... Ruge?", nil, prompt.NewClassifier(nil, nil), "Intenta escribiendo si o no.")

	final := typeLine(t, m, "quizás").(*promptModel)
	if final.done {
		t.Fatal("model should wait for a recognized reply")
	}
	if final.warning != "Intenta escribiendo si o no." {
		t.Errorf("warning = %q", final.warning)
	}
	if !strings.Contains(final.View(), "Intenta escribiendo si o no.") {
		t.Error("View should show the warning")
	}

	final = typeLine(t, final, "si").(*promptModel)
	if !final.done || !final.yes {
		t.Errorf("after retry: done=%v yes=%v", final.done, final.yes)
	}
}

func TestPromptModel_Text(t *testing.T) {
	m := newTextModel("¿Qué animal era?", []string{"¿El animal... Ruge? no"})

	view := m.View()
	if !strings.Contains(view, "¿Qué animal era?") || !strings.Contains(view, "Ruge? no") {
		t.Errorf("View missing question or transcript:\n%s", view)
	}

	final := typeLine(t, m, "  Hámster ").(*promptModel)
	if !final.done || final.answer != "Hámster" {
		t.Errorf("done=%v answer=%q", final.done, final.answer)
	}
	if final.View() != "" {
		t.Error("View should be empty once answered")
	}
}

func TestPromptModel_Cancel(t *testing.T) {
	m := newTextModel("¿Qué animal era?", nil)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc should quit")
	}
	if !updated.(*promptModel).canceled {
		t.Error("model should be canceled")
	}
}

func TestPrompter_AsksAndKeepsTranscript(t *testing.T) {
	out := &bytes.Buffer{}
	p := NewPrompter(strings.NewReader(""), out, nil, "")
	p.run = scripted(t, []string{"tal vez", "si"}, []string{"Lince"})

	yes, err := p.AskYesNo("¿El animal... Ruge?")
	if err != nil {
		t.Fatalf("AskYesNo() error = %v", err)
	}
	if !yes {
		t.Error("AskYesNo() = false, want true")
	}

	name, err := p.AskText("¿Qué animal era?")
	if err != nil {
		t.Fatalf("AskText() error = %v", err)
	}
	if name != "Lince" {
		t.Errorf("AskText() = %q, want Lince", name)
	}

	p.Say("No conozco ese animal...")
	if !strings.Contains(out.String(), "No conozco ese animal...") {
		t.Errorf("Say() output = %q", out.String())
	}

	want := []string{"¿El animal... Ruge? sí", "¿Qué animal era? Lince", "No conozco ese animal..."}
	if strings.Join(p.transcript, "|") != strings.Join(want, "|") {
		t.Errorf("transcript = %q, want %q", p.transcript, want)
	}

	p.Reset()
	if len(p.transcript) != 0 {
		t.Error("Reset() should clear the transcript")
	}
}

func TestPrompter_TranscriptIsBounded(t *testing.T) {
	p := NewPrompter(strings.NewReader(""), &bytes.Buffer{}, nil, "")
	for i := 0; i < maxTranscript+5; i++ {
		p.record("line")
	}
	if len(p.transcript) != maxTranscript {
		t.Errorf("transcript length = %d, want %d", len(p.transcript), maxTranscript)
	}
}

func TestPrompter_Canceled(t *testing.T) {
	p := NewPrompter(strings.NewReader(""), &bytes.Buffer{}, nil, "")
	p.run = func(m tea.Model) (tea.Model, error) {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		return m, nil
	}

	if _, err := p.AskYesNo("¿El animal... Ruge?"); !errors.Is(err, ErrCanceled) {
		t.Errorf("AskYesNo() error = %v, want ErrCanceled", err)
	}
	if _, err := p.AskText("¿Qué animal era?"); !errors.Is(err, ErrCanceled) {
		t.Errorf("AskText() error = %v, want ErrCanceled", err)
	}
}

func TestPrompter_RunError(t *testing.T) {
	p := NewPrompter(strings.NewReader(""), &bytes.Buffer{}, nil, "")
	boom := errors.New("no tty")
	p.run = func(m tea.Model) (tea.Model, error) { return m, boom }

	if _, err := p.AskText("¿Qué animal era?"); !errors.Is(err, boom) {
		t.Errorf("AskText() error = %v, want %v", err, boom)
	}
}

func TestPrompter_RoundsAndScore(t *testing.T) {
	p := NewPrompter(strings.NewReader(""), &bytes.Buffer{}, nil, "")
	var views []string
	p.run = func(m tea.Model) (tea.Model, error) {
		views = append(views, m.View())
		return typeLine(t, m, "no"), nil
	}

	p.Reset()
	p.RoundFinished(models.OutcomeGuessedRight, false)
	p.Reset()
	p.RoundFinished(models.OutcomeGuessedWrong, true)
	p.Reset()

	if _, err := p.AskYesNo("¿El animal... Ruge?"); err != nil {
		t.Fatalf("AskYesNo() error = %v", err)
	}

	want := Score{Right: 1, Wrong: 1, Learned: 1}
	if p.Score() != want {
		t.Errorf("Score() = %+v, want %+v", p.Score(), want)
	}
	if p.Score().Played() != 2 {
		t.Errorf("Played() = %d, want 2", p.Score().Played())
	}

	view := views[0]
	for _, s := range []string{"Ronda 3", "✓1", "✗1", "+1 aprendidos", "esc salir"} {
		if !strings.Contains(view, s) {
			t.Errorf("View missing %q:\n%s", s, view)
		}
	}
}

func TestFooter_NoRoundsShowsHintsOnly(t *testing.T) {
	view := NewFooter().View()
	if strings.Contains(view, "✓") {
		t.Errorf("View() = %q, want no score", view)
	}
	if !strings.Contains(view, "esc salir") {
		t.Errorf("View() = %q, want key hints", view)
	}
}

func TestScore_Add(t *testing.T) {
	var s Score
	s.Add(models.OutcomeUnknown, true)
	s.Add(models.OutcomeGuessedRight, false)
	s.Add(models.Outcome("bogus"), false)

	want := Score{Right: 1, Unknown: 1, Learned: 1}
	if s != want {
		t.Errorf("Score = %+v, want %+v", s, want)
	}
}
