package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestNewInputField(t *testing.T) {
	field := NewInputField("sí / no")

	if field == nil {
		t.Fatal("NewInputField returned nil")
	}
	if field.width != 80 {
		t.Errorf("Default width = %d, want 80", field.width)
	}
	if field.input.Placeholder != "sí / no" {
		t.Errorf("Placeholder = %q, want %q", field.input.Placeholder, "sí / no")
	}
}

func TestInputField_SetWidth(t *testing.T) {
	field := NewInputField("")

	field.SetWidth(120)

	if field.width != 120 {
		t.Errorf("Width after SetWidth(120) = %d, want 120", field.width)
	}
	// Input width should be width - 4 for prompt and padding
	if field.input.Width != 116 {
		t.Errorf("Input width = %d, want 116", field.input.Width)
	}
}

func TestInputField_Update_Enter(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"with input", "Hámster"},
		{"empty input", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field := NewInputField("")
			field.input.SetValue(tt.value)

			updated, cmd := field.Update(tea.KeyMsg{Type: tea.KeyEnter})
			if cmd == nil {
				t.Fatal("Expected command from enter")
			}

			submitted, ok := cmd().(AnswerSubmittedMsg)
			if !ok {
				t.Fatalf("Expected AnswerSubmittedMsg, got %T", cmd())
			}
			if submitted.Text != tt.value {
				t.Errorf("Text = %q, want %q", submitted.Text, tt.value)
			}
			if updated.Value() != "" {
				t.Errorf("Input should be cleared after enter, got %q", updated.Value())
			}
		})
	}
}

func TestInputField_Update_OtherKeys(t *testing.T) {
	field := NewInputField("")

	for _, char := range "león" {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{char}}
		field, _ = field.Update(msg)
	}

	if field.Value() != "león" {
		t.Errorf("Input value = %q, want %q", field.Value(), "león")
	}
}

func TestInputField_View(t *testing.T) {
	field := NewInputField("")
	field.SetWidth(80)
	field.input.SetValue("Gato")

	view := field.View()
	if view == "" {
		t.Error("View should not be empty")
	}
}
