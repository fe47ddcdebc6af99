package game

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/mroshb/quizline/internal/models"
)

type Outcome int

const (
	InProgress Outcome = iota
	Won
	Lost
)

func (o Outcome) String() string {
	switch o {
	case InProgress:
		return "in_progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

type Result int

const (
	Correct Result = iota
	Incorrect
)

func (r Result) String() string {
	if r == Correct {
		return "correct"
	}
	return "incorrect"
}

// Prompter asks the user one line of text and waits for the reply.
type Prompter interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(ctx context.Context, prompt string) (string, error)

func (f PrompterFunc) Ask(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// TurnOutcome is what one Advance call produced.
type TurnOutcome struct {
	QuizID   uint
	Question string
	Result   Result
	Final    bool
	Score    int
	Outcome  Outcome
}

// Events converts the turn into the notifications a transport renders.
func (t TurnOutcome) Events() []Event {
	if t.Result == Incorrect {
		return []Event{IncorrectAnswer{FinalScore: t.Score}}
	}
	events := []Event{CorrectAnswer{ScoreSoFar: t.Score}}
	if t.Outcome == Won {
		events = append(events, RoundWon{FinalScore: t.Score})
	}
	return events
}

type Option func(*Session)

// WithRand fixes the random source used to order the round.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) {
		s.rng = rng
	}
}

// Session is one round of play. It is owned by a single connection and
// must not be used from more than one goroutine.
type Session struct {
	snapshot  map[uint]models.Quiz
	remaining map[uint]struct{}
	order     []uint
	sampler   *Sampler
	rng       *rand.Rand

	score     int
	total     int
	outcome   Outcome
	abandoned bool
}

// Start copies quizzes into a private snapshot and prepares a round over them.
func Start(quizzes []models.Quiz, opts ...Option) (*Session, error) {
	if len(quizzes) == 0 {
		return nil, ErrEmptyCatalog
	}

	s := &Session{
		snapshot:  make(map[uint]models.Quiz, len(quizzes)),
		remaining: make(map[uint]struct{}, len(quizzes)),
	}
	for _, opt := range opts {
		opt(s)
	}

	ids := make([]uint, 0, len(quizzes))
	for _, q := range quizzes {
		if _, dup := s.snapshot[q.ID]; dup {
			continue
		}
		s.snapshot[q.ID] = q
		s.remaining[q.ID] = struct{}{}
		ids = append(ids, q.ID)
	}

	sampler, err := NewSampler(ids, s.rng)
	if err != nil {
		return nil, err
	}
	s.sampler = sampler
	s.total = len(ids)
	s.order = make([]uint, 0, len(ids))

	return s, nil
}

// Advance plays one turn: it draws the next question, asks it through p
// and scores the reply. If p fails the turn is abandoned, the score stays
// as it was and the session accepts no further turns.
func (s *Session) Advance(ctx context.Context, p Prompter) (TurnOutcome, error) {
	if s.outcome != InProgress || s.abandoned {
		return TurnOutcome{}, ErrInvalidPrecondition
	}

	id, ok := s.sampler.Next()
	if !ok {
		return TurnOutcome{}, ErrInvalidPrecondition
	}
	quiz := s.snapshot[id]
	s.order = append(s.order, id)

	reply, err := p.Ask(ctx, quiz.Question+" ? ")
	if err != nil {
		s.abandoned = true
		return TurnOutcome{}, fmt.Errorf("ask quiz %d: %w", id, err)
	}

	turn := TurnOutcome{QuizID: id, Question: quiz.Question}
	if strings.TrimSpace(reply) == quiz.Answer {
		s.score++
		delete(s.remaining, id)
		turn.Result = Correct
		if len(s.remaining) == 0 {
			s.outcome = Won
			turn.Final = true
		}
	} else {
		s.outcome = Lost
		turn.Result = Incorrect
		turn.Final = true
	}

	turn.Score = s.score
	turn.Outcome = s.outcome
	return turn, nil
}

func (s *Session) Outcome() Outcome { return s.outcome }

func (s *Session) Score() int { return s.score }

func (s *Session) Total() int { return s.total }

// Remaining is the number of questions not yet answered correctly.
func (s *Session) Remaining() int { return len(s.remaining) }

// Abandoned reports whether a turn was cut short by the prompter.
func (s *Session) Abandoned() bool { return s.abandoned }

// Order lists the ids drawn so far, in the order they were asked.
func (s *Session) Order() []uint {
	out := make([]uint, len(s.order))
	copy(out, s.order)
	return out
}
