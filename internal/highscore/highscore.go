// Package highscore persists the best score and a history of finished runs.
// The simulation never touches it; hosts call it once a run is over.
package highscore

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tomz197/vectordrift/internal/gamestate"
)

// ErrNoStore is returned when a check is made without a store.
var ErrNoStore = errors.New("highscore: no store configured")

// Run is the summary of one finished game.
type Run struct {
	ID        uuid.UUID
	Player    string
	Score     int
	Phase     string
	Elapsed   float64 // seconds survived
	Kills     int
	BestCombo int
	EndedAt   time.Time
}

// NewRun summarises the final HUD of a run under a fresh ID.
func NewRun(player string, hud gamestate.HUD, endedAt time.Time) Run {
	return Run{
		ID:        uuid.New(),
		Player:    player,
		Score:     hud.Score,
		Phase:     hud.Phase,
		Elapsed:   hud.Elapsed,
		Kills:     hud.Kills,
		BestCombo: hud.BestCombo,
		EndedAt:   endedAt,
	}
}

// Store keeps the single best score and the run history.
type Store interface {
	HighScore(ctx context.Context) (int, error)
	SetHighScore(ctx context.Context, score int) error
	Record(ctx context.Context, run Run) error
	Top(ctx context.Context, n int) ([]Run, error)
}

// Check stores score as the new best when it beats the current one and
// reports whether it did. Ties are not a new high score.
func Check(ctx context.Context, store Store, score int) (bool, error) {
	if store == nil {
		return false, ErrNoStore
	}
	current, err := store.HighScore(ctx)
	if err != nil {
		return false, fmt.Errorf("read high score: %w", err)
	}
	if score <= current {
		return false, nil
	}
	if err := store.SetHighScore(ctx, score); err != nil {
		return false, fmt.Errorf("write high score: %w", err)
	}
	return true, nil
}

// compareRuns orders by score, best first, then earliest finish.
func compareRuns(a, b Run) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	return a.EndedAt.Compare(b.EndedAt)
}

// MemoryStore is a Store that forgets everything when the process exits.
type MemoryStore struct {
	mu   sync.Mutex
	high int
	runs []Run
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) HighScore(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.high, nil
}

func (m *MemoryStore) SetHighScore(_ context.Context, score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.high = score
	return nil
}

func (m *MemoryStore) Record(_ context.Context, run Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

func (m *MemoryStore) Top(_ context.Context, n int) ([]Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	runs := slices.Clone(m.runs)
	slices.SortStableFunc(runs, compareRuns)
	if n >= 0 && len(runs) > n {
		runs = runs[:n]
	}
	return runs, nil
}
