// Package game runs rounds: build the tree from the knowledge base, walk it
// with the user, confirm the guess and learn on a miss.
package game

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ShayCichocki/adivina/internal/decision"
	"github.com/ShayCichocki/adivina/internal/learning"
	"github.com/ShayCichocki/adivina/internal/state"
	"github.com/ShayCichocki/adivina/pkg/models"
)

// Prompter is the user-facing side of a session.
type Prompter interface {
	decision.AnswerSource
	learning.TextSource
	Say(msg string)
}

// resetter is implemented by prompters that keep a per-round transcript.
type resetter interface {
	Reset()
}

// roundObserver is implemented by prompters that display a running score.
type roundObserver interface {
	RoundFinished(outcome models.Outcome, learned bool)
}

// Texts holds the phrasing used by a session. Empty fields use defaults.
type Texts struct {
	QuestionFormat    string
	GuessFormat       string
	UnknownMessage    string
	NamePrompt        string
	DistinguishFormat string
	ContinuePrompt    string
}

// DefaultTexts returns the built-in Spanish phrasing.
func DefaultTexts() Texts {
	return Texts{
		QuestionFormat:    decision.DefaultQuestionFormat,
		GuessFormat:       "¿Tu animal es... %s?",
		UnknownMessage:    "No conozco ese animal...",
		NamePrompt:        learning.DefaultNamePrompt,
		DistinguishFormat: learning.DefaultDistinguishFormat,
		ContinuePrompt:    "¿Quieres seguir jugando?",
	}
}

func (t Texts) withDefaults() Texts {
	d := DefaultTexts()
	if t.QuestionFormat == "" {
		t.QuestionFormat = d.QuestionFormat
	}
	if t.GuessFormat == "" {
		t.GuessFormat = d.GuessFormat
	}
	if t.UnknownMessage == "" {
		t.UnknownMessage = d.UnknownMessage
	}
	if t.NamePrompt == "" {
		t.NamePrompt = d.NamePrompt
	}
	if t.DistinguishFormat == "" {
		t.DistinguishFormat = d.DistinguishFormat
	}
	if t.ContinuePrompt == "" {
		t.ContinuePrompt = d.ContinuePrompt
	}
	return t
}

// RoundResult describes one finished round.
type RoundResult struct {
	Outcome models.Outcome
	// Guess is the entity the tree named, empty on an unknown leaf.
	Guess string
	// Answer is the entity the user had in mind.
	Answer string
	// Learned is the entity appended to the knowledge base on a miss.
	Learned   *models.Entity
	Confirmed []string
	Questions int
	Tree      decision.TreeStats
}

// Session owns the knowledge base for the duration of a game.
type Session struct {
	kb      *models.KnowledgeBase
	store   learning.Store
	history state.HistoryStore
	io      Prompter
	texts   Texts
	logger  *zap.Logger

	walker  *decision.Walker
	learner *learning.Learner
}

// Option configures a Session.
type Option func(*Session)

// WithHistory records every round in h.
func WithHistory(h state.HistoryStore) Option {
	return func(s *Session) { s.history = h }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithTexts overrides the session phrasing.
func WithTexts(t Texts) Option {
	return func(s *Session) { s.texts = t }
}

// NewSession creates a session over kb. The knowledge base is saved to store
// after every learning event; store may be nil to keep it in memory.
func NewSession(kb *models.KnowledgeBase, store learning.Store, io Prompter, opts ...Option) *Session {
	s := &Session{
		kb:     kb,
		store:  store,
		io:     io,
		texts:  DefaultTexts(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.texts = s.texts.withDefaults()

	s.walker = decision.NewWalker(decision.FormatPhrase(s.texts.QuestionFormat))
	s.learner = learning.NewLearner(kb, io,
		learning.WithPrompts(s.texts.NamePrompt, s.texts.DistinguishFormat),
		learning.WithLogger(s.logger))
	return s
}

// PlayRound plays a single round. A prompt error aborts the round with the
// knowledge base unchanged.
func (s *Session) PlayRound(ctx context.Context) (*RoundResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r, ok := s.io.(resetter); ok {
		r.Reset()
	}

	root := decision.Build(s.kb.Entities())
	stats := decision.Stats(root)
	s.logger.Debug("tree built",
		zap.Int("entities", s.kb.Len()),
		zap.Int("splits", stats.Splits),
		zap.Int("leaves", stats.Leaves),
		zap.Int("depth", stats.Depth))

	walk, err := s.walker.Walk(root, s.io)
	if err != nil {
		return nil, fmt.Errorf("walk tree: %w", err)
	}

	result := &RoundResult{
		Guess:     walk.Guess,
		Confirmed: walk.Confirmed,
		Questions: len(walk.Steps),
		Tree:      stats,
	}

	if !walk.Known {
		s.io.Say(s.texts.UnknownMessage)
		result.Outcome = models.OutcomeUnknown
	} else {
		right, err := s.io.AskYesNo(fmt.Sprintf(s.texts.GuessFormat, walk.Guess))
		if err != nil {
			return nil, fmt.Errorf("confirm guess: %w", err)
		}
		result.Questions++
		if right {
			result.Outcome = models.OutcomeGuessedRight
			result.Answer = walk.Guess
		} else {
			result.Outcome = models.OutcomeGuessedWrong
		}
	}

	if result.Outcome.IsMiss() {
		learned, err := s.learner.Learn(walk)
		if err != nil {
			return nil, fmt.Errorf("learn entity: %w", err)
		}
		result.Learned = &learned
		result.Answer = learned.Name

		if s.store != nil {
			if err := s.store.Save(s.kb.Entities()); err != nil {
				return nil, fmt.Errorf("save knowledge base: %w", err)
			}
		}
	}

	s.logger.Info("round finished",
		zap.String("outcome", string(result.Outcome)),
		zap.String("guess", result.Guess),
		zap.String("answer", result.Answer),
		zap.Int("questions", result.Questions))

	s.record(result)
	if o, ok := s.io.(roundObserver); ok {
		o.RoundFinished(result.Outcome, result.Learned != nil)
	}
	return result, nil
}

// Play runs rounds until the user declines to continue or ctx is done.
// It returns the finished rounds.
func (s *Session) Play(ctx context.Context) ([]*RoundResult, error) {
	var rounds []*RoundResult
	for {
		r, err := s.PlayRound(ctx)
		if err != nil {
			return rounds, err
		}
		rounds = append(rounds, r)

		again, err := s.io.AskYesNo(s.texts.ContinuePrompt)
		if err != nil {
			return rounds, fmt.Errorf("ask to continue: %w", err)
		}
		if !again {
			return rounds, nil
		}
	}
}

// record writes the round to history. A history failure is logged, not
// returned: the round itself already succeeded.
func (s *Session) record(r *RoundResult) {
	if s.history == nil {
		return
	}
	err := s.history.Record(&state.Round{
		Outcome:   r.Outcome,
		Guess:     r.Guess,
		Answer:    r.Answer,
		Confirmed: r.Confirmed,
		Questions: r.Questions,
		Learned:   r.Learned != nil,
	})
	if err != nil {
		s.logger.Warn("record round", zap.Error(err))
	}
}
