package decision

import (
	"errors"
	"fmt"
)

// DefaultQuestionFormat phrases a characteristic as a question.
const DefaultQuestionFormat = "¿El animal... %s?"

// AnswerSource supplies the user's yes/no answers.
// Implementations re-prompt on unrecognized input; an error means the input
// itself failed (e.g. EOF) and aborts the walk.
type AnswerSource interface {
	AskYesNo(prompt string) (bool, error)
}

// Result is the terminal state of a walk.
type Result struct {
	// Guess is the name at the leaf reached. Empty when Known is false.
	Guess string
	// Known is false when the walk ended on a leaf with no entity.
	Known bool
	// Confirmed lists the characteristics answered "yes", in the order asked.
	Confirmed []string
	// Steps records every question and its answer.
	Steps []Step
}

// Walker traverses a tree, asking one question per split.
type Walker struct {
	phrase func(characteristic string) string
}

// NewWalker creates a walker. A nil phrase uses DefaultQuestionFormat.
func NewWalker(phrase func(characteristic string) string) *Walker {
	if phrase == nil {
		phrase = FormatPhrase(DefaultQuestionFormat)
	}
	return &Walker{phrase: phrase}
}

// FormatPhrase returns a phrase function for a Printf format with one %s verb.
func FormatPhrase(format string) func(string) string {
	return func(characteristic string) string {
		return fmt.Sprintf(format, characteristic)
	}
}

// Walk runs the tree from root until a leaf is reached.
func (w *Walker) Walk(root Node, src AnswerSource) (Result, error) {
	res := Result{Confirmed: []string{}}
	cursor := root
	for {
		switch n := cursor.(type) {
		case *Leaf:
			res.Guess = n.Answer
			res.Known = n.Known
			return res, nil
		case *Split:
			yes, err := src.AskYesNo(w.phrase(n.Characteristic))
			if err != nil {
				return res, fmt.Errorf("ask %q: %w", n.Characteristic, err)
			}
			res.Steps = append(res.Steps, Step{Characteristic: n.Characteristic, Answer: yes})
			if yes {
				res.Confirmed = append(res.Confirmed, n.Characteristic)
				cursor = n.Yes
			} else {
				cursor = n.No
			}
		default:
			return res, fmt.Errorf("unexpected node type %T", cursor)
		}
	}
}

// ErrReplayExhausted is returned by Replay when asked more questions than it holds.
var ErrReplayExhausted = errors.New("replay: no answers left")

// Replay answers questions from a fixed list, in order.
type Replay struct {
	Answers []bool
	// Asked collects the prompts received.
	Asked []string
}

// AskYesNo returns the next recorded answer.
func (r *Replay) AskYesNo(prompt string) (bool, error) {
	r.Asked = append(r.Asked, prompt)
	if len(r.Answers) == 0 {
		return false, ErrReplayExhausted
	}
	a := r.Answers[0]
	r.Answers = r.Answers[1:]
	return a, nil
}
