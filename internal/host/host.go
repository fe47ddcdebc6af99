package host

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mroshb/quizline/internal/game"
	"github.com/mroshb/quizline/internal/models"
	"github.com/mroshb/quizline/pkg/logger"
)

// Catalog is the read side of the quiz store a round needs.
type Catalog interface {
	ListAll(ctx context.Context) ([]models.Quiz, error)
}

// Player is the user on the other end of one connection.
type Player interface {
	game.Prompter
	Render(e game.Event)
}

// Summary describes how a round ended.
type Summary struct {
	SessionID string
	Score     int
	Total     int
	Outcome   game.Outcome
	Abandoned bool
}

// SessionInfo is the registry entry for a live round.
type SessionInfo struct {
	ID        string
	Remote    string
	StartedAt time.Time
}

// Host starts rounds for connected players. Every round lives on the
// goroutine that called Play; the registry only records which are live.
type Host struct {
	catalog Catalog
	newRand func() *rand.Rand

	mu       sync.Mutex
	sessions map[string]SessionInfo
}

type Option func(*Host)

// WithRandSource sets the factory for per-round random sources.
func WithRandSource(f func() *rand.Rand) Option {
	return func(h *Host) {
		h.newRand = f
	}
}

func New(catalog Catalog, opts ...Option) *Host {
	h := &Host{
		catalog:  catalog,
		sessions: make(map[string]SessionInfo),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Play runs one round for p and returns when it is won, lost or abandoned.
// remote only labels the session in logs and the registry.
func (h *Host) Play(ctx context.Context, p Player, remote string) (Summary, error) {
	quizzes, err := h.catalog.ListAll(ctx)
	if err != nil {
		logger.Warn("Failed to load catalog for round", "remote", remote, "error", err)
		return Summary{}, fmt.Errorf("%w: %w", game.ErrEmptyCatalog, err)
	}

	var opts []game.Option
	if h.newRand != nil {
		opts = append(opts, game.WithRand(h.newRand()))
	}
	session, err := game.Start(quizzes, opts...)
	if err != nil {
		return Summary{}, err
	}

	id := uuid.NewString()
	h.register(SessionInfo{ID: id, Remote: remote, StartedAt: time.Now()})
	defer h.release(id)

	logger.Info("Round started", "session_id", id, "remote", remote, "questions", session.Total())

	for {
		turn, err := session.Advance(ctx, p)
		if err != nil {
			summary := summarize(id, session)
			if errors.Is(err, game.ErrInvalidPrecondition) {
				logger.Error("Round advanced out of turn", "session_id", id, "outcome", session.Outcome().String())
				return summary, err
			}
			logger.Info("Round abandoned", "session_id", id, "score", session.Score(), "error", err)
			return summary, err
		}

		for _, e := range turn.Events() {
			p.Render(e)
		}

		if turn.Final {
			summary := summarize(id, session)
			logger.Info("Round finished",
				"session_id", id,
				"outcome", summary.Outcome.String(),
				"score", summary.Score,
				"total", summary.Total,
			)
			return summary, nil
		}
	}
}

// Active returns the number of rounds in progress.
func (h *Host) Active() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Sessions lists live rounds, oldest first.
func (h *Host) Sessions() []SessionInfo {
	h.mu.Lock()
	out := make([]SessionInfo, 0, len(h.sessions))
	for _, info := range h.sessions {
		out = append(out, info)
	}
	h.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}

func (h *Host) register(info SessionInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[info.ID] = info
}

func (h *Host) release(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, id)
}

func summarize(id string, s *game.Session) Summary {
	return Summary{
		SessionID: id,
		Score:     s.Score(),
		Total:     s.Total(),
		Outcome:   s.Outcome(),
		Abandoned: s.Abandoned(),
	}
}
