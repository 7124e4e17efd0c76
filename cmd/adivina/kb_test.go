package main

import (
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ShayCichocki/adivina/internal/tui"
	"github.com/ShayCichocki/adivina/pkg/models"
)

func TestMatchEntities(t *testing.T) {
	entities := models.DefaultEntities()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "name ignores case", query: "gato", want: []string{"Gato"}},
		{name: "name ignores accents", query: "LEON", want: []string{"León"}},
		{name: "characteristic substring", query: "ruge", want: []string{"León", "Tigre"}},
		{name: "shared characteristic", query: "mascota", want: []string{"Gato", "Perro"}},
		{name: "no match", query: "vuela", want: nil},
		{name: "blank query", query: "  ", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, e := range matchEntities(entities, tt.query) {
				got = append(got, e.Name)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("matchEntities(%q) mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}

func TestAppendMissing(t *testing.T) {
	kb, err := models.NewKnowledgeBase([]models.Entity{models.NewEntity("Gato", "Ronronea")})
	if err != nil {
		t.Fatal(err)
	}

	added, err := appendMissing(kb, []models.Entity{
		models.NewEntity("Gato", "Maúlla"),
		models.NewEntity("Vaca", "Da leche"),
	})
	if err != nil {
		t.Fatalf("appendMissing() error = %v", err)
	}
	if added != 1 {
		t.Errorf("added = %d, want 1", added)
	}
	gato, _ := kb.Find("Gato")
	if diff := cmp.Diff([]string{"Ronronea"}, gato.Characteristics); diff != "" {
		t.Errorf("existing entity changed (-want +got):\n%s", diff)
	}
	if kb.Len() != 2 {
		t.Errorf("kb.Len() = %d, want 2", kb.Len())
	}
}

func TestSeedKnowledgeBase(t *testing.T) {
	kb, err := models.NewKnowledgeBase([]models.Entity{models.NewEntity("Perro", "Ladra")})
	if err != nil {
		t.Fatal(err)
	}

	added, err := seedKnowledgeBase(kb)
	if err != nil {
		t.Fatalf("seedKnowledgeBase() error = %v", err)
	}
	if added != 3 || kb.Len() != 4 {
		t.Errorf("added = %d, kb.Len() = %d; want 3, 4", added, kb.Len())
	}

	added, err = seedKnowledgeBase(kb)
	if err != nil {
		t.Fatalf("second seedKnowledgeBase() error = %v", err)
	}
	if added != 0 {
		t.Errorf("second seed added %d, want 0", added)
	}
}

func TestIsQuit(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{io.EOF, true},
		{tui.ErrCanceled, true},
		{errors.New("disk full"), false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := isQuit(tt.err); got != tt.want {
			t.Errorf("isQuit(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
