package decision

import (
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ShayCichocki/adivina/pkg/models"
)

// oracleSource answers as a user thinking of a specific entity.
type oracleSource struct {
	entity models.Entity
	asked  []string
}

func oracle(e models.Entity) *oracleSource {
	return &oracleSource{entity: e}
}

func (o *oracleSource) AskYesNo(prompt string) (bool, error) {
	o.asked = append(o.asked, prompt)
	for _, c := range o.entity.Characteristics {
		if prompt == FormatPhrase(DefaultQuestionFormat)(c) {
			return true, nil
		}
	}
	return false, nil
}

// mascotaTree is the tree of the pet scenarios: it asks about Mascota first.
func mascotaTree() Node {
	return &Split{
		Characteristic: "Mascota",
		Yes: &Split{
			Characteristic: "Ronronea",
			Yes:            &Leaf{Answer: "Gato", Known: true},
			No:             &Leaf{Answer: "Perro", Known: true},
		},
		No: &Leaf{},
	}
}

func TestWalk_YesToMascotaAndRonronea(t *testing.T) {
	src := &Replay{Answers: []bool{true, true}}
	res, err := NewWalker(nil).Walk(mascotaTree(), src)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	if !res.Known || res.Guess != "Gato" {
		t.Errorf("Walk() = (%q, %v), want (Gato, true)", res.Guess, res.Known)
	}
	if diff := cmp.Diff([]string{"Mascota", "Ronronea"}, res.Confirmed); diff != "" {
		t.Errorf("Confirmed mismatch (-want +got):\n%s", diff)
	}
	wantAsked := []string{"¿El animal... Mascota?", "¿El animal... Ronronea?"}
	if diff := cmp.Diff(wantAsked, src.Asked); diff != "" {
		t.Errorf("prompts mismatch (-want +got):\n%s", diff)
	}
}

func TestWalk_NoToMascotaIsUnknown(t *testing.T) {
	res, err := NewWalker(nil).Walk(mascotaTree(), &Replay{Answers: []bool{false}})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	if res.Known || res.Guess != "" {
		t.Errorf("Walk() = (%q, %v), want unknown", res.Guess, res.Known)
	}
	if diff := cmp.Diff([]string{}, res.Confirmed); diff != "" {
		t.Errorf("Confirmed mismatch (-want +got):\n%s", diff)
	}
}

func TestWalk_BuiltPetsTree(t *testing.T) {
	root := Build(petsBase())

	res, err := NewWalker(nil).Walk(root, oracle(models.NewEntity("x", "Mascota", "Ronronea")))
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if res.Guess != "Gato" {
		t.Errorf("Guess = %q, want Gato", res.Guess)
	}
	if len(res.Confirmed) != 0 {
		t.Errorf("Confirmed = %v, want none (only Ladra was asked)", res.Confirmed)
	}
}

func TestWalk_ConfirmedExcludesNoAnswers(t *testing.T) {
	root := Build(models.DefaultEntities())

	res, err := NewWalker(nil).Walk(root, &Replay{Answers: []bool{true, false}})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	if res.Guess != "León" {
		t.Errorf("Guess = %q, want León", res.Guess)
	}
	if diff := cmp.Diff([]string{"Es un animal salvaje"}, res.Confirmed); diff != "" {
		t.Errorf("Confirmed mismatch (-want +got):\n%s", diff)
	}
	wantSteps := []Step{
		{Characteristic: "Es un animal salvaje", Answer: true},
		{Characteristic: "Tiene manchas", Answer: false},
	}
	if diff := cmp.Diff(wantSteps, res.Steps); diff != "" {
		t.Errorf("Steps mismatch (-want +got):\n%s", diff)
	}
}

func TestWalk_EmptyTreeAsksNothing(t *testing.T) {
	src := &Replay{}
	res, err := NewWalker(nil).Walk(Build(nil), src)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if res.Known {
		t.Error("expected unknown result for empty knowledge base")
	}
	if len(src.Asked) != 0 {
		t.Errorf("asked %v, want no questions", src.Asked)
	}
}

func TestWalk_CustomPhrase(t *testing.T) {
	w := NewWalker(FormatPhrase("Does it %s?"))
	src := &Replay{Answers: []bool{false}}

	if _, err := w.Walk(Build(petsBase()), src); err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if diff := cmp.Diff([]string{"Does it Ladra?"}, src.Asked); diff != "" {
		t.Errorf("prompts mismatch (-want +got):\n%s", diff)
	}
}

type failingSource struct{}

func (failingSource) AskYesNo(string) (bool, error) { return false, io.EOF }

func TestWalk_SourceErrorAborts(t *testing.T) {
	_, err := NewWalker(nil).Walk(Build(petsBase()), failingSource{})
	if !errors.Is(err, io.EOF) {
		t.Errorf("Walk() error = %v, want io.EOF", err)
	}
}

func TestReplay_Exhausted(t *testing.T) {
	_, err := NewWalker(nil).Walk(Build(models.DefaultEntities()), &Replay{Answers: []bool{true}})
	if !errors.Is(err, ErrReplayExhausted) {
		t.Errorf("Walk() error = %v, want ErrReplayExhausted", err)
	}
}
