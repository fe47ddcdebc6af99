package host

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mroshb/quizline/internal/game"
	"github.com/mroshb/quizline/internal/models"
)

type fakeCatalog struct {
	mu      sync.Mutex
	quizzes []models.Quiz
	err     error
}

func (c *fakeCatalog) ListAll(context.Context) ([]models.Quiz, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	out := make([]models.Quiz, len(c.quizzes))
	copy(out, c.quizzes)
	return out, nil
}

func (c *fakeCatalog) setAnswer(id uint, answer string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.quizzes {
		if c.quizzes[i].ID == id {
			c.quizzes[i].Answer = answer
		}
	}
}

func catalogOf(n int) *fakeCatalog {
	c := &fakeCatalog{}
	for i := 1; i <= n; i++ {
		c.quizzes = append(c.quizzes, models.Quiz{
			ID:       uint(i),
			Question: fmt.Sprintf("%d+%d", i, i),
			Answer:   fmt.Sprint(2 * i),
		})
	}
	return c
}

// scriptedPlayer answers correctly by question text and fails on the
// wrongAt-th prompt (1-based, 0 never fails). onAsk runs before each reply.
type scriptedPlayer struct {
	answers map[string]string
	wrongAt int
	asked   int
	onAsk   func(ctx context.Context, n int) error
	events  []game.Event
}

func newPlayer(c *fakeCatalog, wrongAt int) *scriptedPlayer {
	p := &scriptedPlayer{answers: make(map[string]string), wrongAt: wrongAt}
	for _, q := range c.quizzes {
		p.answers[q.Question+" ? "] = q.Answer
	}
	return p
}

func (p *scriptedPlayer) Ask(ctx context.Context, prompt string) (string, error) {
	p.asked++
	if p.onAsk != nil {
		if err := p.onAsk(ctx, p.asked); err != nil {
			return "", err
		}
	}
	if p.asked == p.wrongAt {
		return "nope", nil
	}
	return p.answers[prompt], nil
}

func (p *scriptedPlayer) Render(e game.Event) {
	p.events = append(p.events, e)
}

func TestPlay_Win(t *testing.T) {
	catalog := catalogOf(4)
	h := New(catalog)
	p := newPlayer(catalog, 0)

	summary, err := h.Play(context.Background(), p, "test")
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	if summary.Outcome != game.Won || summary.Score != 4 || summary.Total != 4 {
		t.Errorf("summary = %+v, want won 4/4", summary)
	}
	if summary.SessionID == "" {
		t.Error("summary has no session id")
	}

	want := []game.Event{
		game.CorrectAnswer{ScoreSoFar: 1},
		game.CorrectAnswer{ScoreSoFar: 2},
		game.CorrectAnswer{ScoreSoFar: 3},
		game.CorrectAnswer{ScoreSoFar: 4},
		game.RoundWon{FinalScore: 4},
	}
	if len(p.events) != len(want) {
		t.Fatalf("events = %#v, want %#v", p.events, want)
	}
	for i := range want {
		if p.events[i] != want[i] {
			t.Errorf("event %d = %#v, want %#v", i, p.events[i], want[i])
		}
	}
	if h.Active() != 0 {
		t.Errorf("Active() after round = %d, want 0", h.Active())
	}
}

func TestPlay_Lose(t *testing.T) {
	catalog := catalogOf(4)
	h := New(catalog)
	p := newPlayer(catalog, 3)

	summary, err := h.Play(context.Background(), p, "test")
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	if summary.Outcome != game.Lost || summary.Score != 2 {
		t.Errorf("summary = %+v, want lost with score 2", summary)
	}
	last := p.events[len(p.events)-1]
	if last != (game.IncorrectAnswer{FinalScore: 2}) {
		t.Errorf("last event = %#v, want IncorrectAnswer{2}", last)
	}
	if p.asked != 3 {
		t.Errorf("questions asked = %d, want 3", p.asked)
	}
}

func TestPlay_EmptyCatalog(t *testing.T) {
	cause := errors.New("database is locked")

	tests := []struct {
		name    string
		catalog *fakeCatalog
		cause   error
	}{
		{name: "No quizzes", catalog: &fakeCatalog{}},
		{name: "Catalog failure", catalog: &fakeCatalog{err: cause}, cause: cause},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(tt.catalog)
			p := newPlayer(tt.catalog, 0)

			_, err := h.Play(context.Background(), p, "test")
			if !errors.Is(err, game.ErrEmptyCatalog) {
				t.Errorf("Play() error = %v, want ErrEmptyCatalog", err)
			}
			if tt.cause != nil && !errors.Is(err, tt.cause) {
				t.Errorf("Play() error = %v, want cause %v kept", err, tt.cause)
			}
			if p.asked != 0 {
				t.Errorf("questions asked = %d, want 0", p.asked)
			}
		})
	}
}

func TestPlay_Abandoned(t *testing.T) {
	catalog := catalogOf(3)
	h := New(catalog)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := newPlayer(catalog, 0)
	p.onAsk = func(ctx context.Context, n int) error {
		if n == 2 {
			cancel()
			return ctx.Err()
		}
		return nil
	}

	summary, err := h.Play(ctx, p, "test")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Play() error = %v, want context.Canceled", err)
	}
	if !summary.Abandoned || summary.Outcome != game.InProgress || summary.Score != 1 {
		t.Errorf("summary = %+v, want abandoned in progress with score 1", summary)
	}
	if h.Active() != 0 {
		t.Errorf("Active() after abandonment = %d, want 0", h.Active())
	}
}

func TestPlay_SnapshotSurvivesCatalogEdits(t *testing.T) {
	catalog := catalogOf(2)
	h := New(catalog)

	p := newPlayer(catalog, 0)
	p.onAsk = func(_ context.Context, n int) error {
		if n == 1 {
			catalog.setAnswer(1, "changed")
			catalog.setAnswer(2, "changed")
		}
		return nil
	}

	summary, err := h.Play(context.Background(), p, "test")
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if summary.Outcome != game.Won {
		t.Errorf("Outcome = %v, want won against the start-of-round snapshot", summary.Outcome)
	}
}

func TestPlay_ConcurrentSessionsIsolated(t *testing.T) {
	const players = 12
	catalog := catalogOf(6)
	h := New(catalog)

	// Hold every player on its first question until all rounds are live.
	release := make(chan struct{})
	var started sync.WaitGroup
	started.Add(players)

	type result struct {
		summary Summary
		events  []game.Event
		err     error
	}
	results := make([]result, players)

	var wg sync.WaitGroup
	for i := 0; i < players; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			p := newPlayer(catalog, i%6+1)
			p.onAsk = func(ctx context.Context, n int) error {
				if n == 1 {
					started.Done()
					<-release
				}
				return nil
			}
			summary, err := h.Play(context.Background(), p, fmt.Sprintf("player-%d", i))
			results[i] = result{summary: summary, events: p.events, err: err}
		}(i)
	}

	waitOrFail(t, &started)
	if got := h.Active(); got != players {
		t.Errorf("Active() with all rounds live = %d, want %d", got, players)
	}
	if got := len(h.Sessions()); got != players {
		t.Errorf("len(Sessions()) = %d, want %d", got, players)
	}
	close(release)
	wg.Wait()

	ids := make(map[string]bool)
	for i, r := range results {
		if r.err != nil {
			t.Errorf("player %d Play() error = %v", i, r.err)
			continue
		}
		wantScore := i % 6
		if r.summary.Score != wantScore || r.summary.Outcome != game.Lost {
			t.Errorf("player %d summary = %+v, want lost with score %d", i, r.summary, wantScore)
		}
		if len(r.events) != wantScore+1 {
			t.Errorf("player %d saw %d events, want %d", i, len(r.events), wantScore+1)
		}
		if ids[r.summary.SessionID] {
			t.Errorf("session id %s reused", r.summary.SessionID)
		}
		ids[r.summary.SessionID] = true
	}
	if h.Active() != 0 {
		t.Errorf("Active() after all rounds = %d, want 0", h.Active())
	}
}

func waitOrFail(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for rounds to start")
	}
}
