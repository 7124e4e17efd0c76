package learning

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ShayCichocki/adivina/internal/decision"
	"github.com/ShayCichocki/adivina/pkg/models"
)

// Default prompts used by the learner.
const (
	DefaultNamePrompt        = "¿Qué animal era?"
	DefaultDistinguishFormat = "¿Qué tiene %s que no tenga %s?"
)

// TextSource supplies free-form answers, trimmed of surrounding whitespace.
type TextSource interface {
	AskText(prompt string) (string, error)
}

// Learner grows the knowledge base after a round the tree got wrong.
type Learner struct {
	kb                *models.KnowledgeBase
	text              TextSource
	namePrompt        string
	distinguishFormat string
	logger            *zap.Logger
}

// LearnerOption configures a Learner.
type LearnerOption func(*Learner)

// WithPrompts overrides the name prompt and the distinguishing-question format.
// The format receives the true name and the wrong guess, in that order.
func WithPrompts(namePrompt, distinguishFormat string) LearnerOption {
	return func(l *Learner) {
		if namePrompt != "" {
			l.namePrompt = namePrompt
		}
		if distinguishFormat != "" {
			l.distinguishFormat = distinguishFormat
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) LearnerOption {
	return func(l *Learner) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLearner creates a learner that appends to kb and asks questions through text.
func NewLearner(kb *models.KnowledgeBase, text TextSource, opts ...LearnerOption) *Learner {
	l := &Learner{
		kb:                kb,
		text:              text,
		namePrompt:        DefaultNamePrompt,
		distinguishFormat: DefaultDistinguishFormat,
		logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Learn records the user's real entity after a miss and appends it to the
// knowledge base. res must come from a walk that either ended on an unknown
// leaf or produced a guess the user rejected.
//
// The new entity carries exactly the characteristics confirmed during the
// walk, plus the distinguishing characteristic when the guess was wrong.
func (l *Learner) Learn(res decision.Result) (models.Entity, error) {
	name, err := l.askName()
	if err != nil {
		return models.Entity{}, err
	}

	characteristics := append([]string(nil), res.Confirmed...)
	if res.Known {
		answer, err := l.askDistinguishing(name, res)
		if err != nil {
			return models.Entity{}, err
		}
		if answer != "" {
			characteristics = append(characteristics, answer)
		}
	}

	entity := models.NewEntity(name, characteristics...)
	if err := l.kb.Append(entity); err != nil {
		return models.Entity{}, fmt.Errorf("append entity: %w", err)
	}

	l.logger.Info("learned entity",
		zap.String("name", entity.Name),
		zap.Strings("characteristics", entity.Characteristics),
		zap.Bool("after_wrong_guess", res.Known),
		zap.Int("kb_size", l.kb.Len()))

	return entity, nil
}

// askName prompts until a non-empty name is given.
func (l *Learner) askName() (string, error) {
	for {
		name, err := l.text.AskText(l.namePrompt)
		if err != nil {
			return "", fmt.Errorf("ask entity name: %w", err)
		}
		if name = strings.TrimSpace(name); name != "" {
			return name, nil
		}
	}
}

// askDistinguishing asks what sets name apart from the wrong guess. A
// characteristic answered "no" earlier in the walk is asked again, since the
// user already denied it for their entity. An empty answer is accepted.
func (l *Learner) askDistinguishing(name string, res decision.Result) (string, error) {
	prompt := fmt.Sprintf(l.distinguishFormat, name, res.Guess)
	for {
		answer, err := l.text.AskText(prompt)
		if err != nil {
			return "", fmt.Errorf("ask distinguishing characteristic: %w", err)
		}
		answer = strings.TrimSpace(answer)
		if !deniedIn(res.Steps, answer) {
			return answer, nil
		}
		l.logger.Debug("distinguishing characteristic was answered no",
			zap.String("characteristic", answer))
	}
}

// deniedIn reports whether characteristic was answered "no" in steps.
func deniedIn(steps []decision.Step, characteristic string) bool {
	for _, s := range steps {
		if !s.Answer && s.Characteristic == characteristic {
			return true
		}
	}
	return false
}
