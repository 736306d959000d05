// Package arcade connects the independent game sessions of one server: it
// tracks who is playing, keeps the shared scoreboard, records finished runs
// and tells every session when the server is going away.
package arcade

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/vectordrift/internal/highscore"
)

const (
	// TopRuns is how many finished runs the board keeps.
	TopRuns = 10
	// boardInterval is how often the live board is rebuilt and pushed to
	// subscribers.
	boardInterval = 500 * time.Millisecond
)

// EventType identifies an event sent from the hub to a session.
type EventType int

const (
	EventServerShutdown EventType = iota
	// EventHighScore means another session set a new high score.
	EventHighScore
)

// Event is sent from the hub to a session.
type Event struct {
	Type   EventType
	Player string
	Score  int
}

// Session is one connected terminal.
type Session struct {
	ID     int
	Player string
	Events chan Event
}

// Status is a session's live state as shown on the board.
type Status struct {
	ID      int     `msgpack:"id" json:"id"`
	Player  string  `msgpack:"player" json:"player"`
	Playing bool    `msgpack:"playing" json:"playing"`
	Score   int     `msgpack:"score" json:"score"`
	Phase   string  `msgpack:"phase" json:"phase"`
	Elapsed float64 `msgpack:"elapsed" json:"elapsed"`
}

// Entry is a finished run on the board.
type Entry struct {
	Player  string  `msgpack:"player" json:"player"`
	Score   int     `msgpack:"score" json:"score"`
	Phase   string  `msgpack:"phase" json:"phase"`
	Elapsed float64 `msgpack:"elapsed" json:"elapsed"`
	EndedAt int64   `msgpack:"endedAt" json:"endedAt"` // unix ms
}

// Board is an immutable scoreboard snapshot.
type Board struct {
	HighScore int      `msgpack:"high" json:"high"`
	Live      []Status `msgpack:"live" json:"live"`
	Top       []Entry  `msgpack:"top" json:"top"`
	UpdatedAt int64    `msgpack:"at" json:"at"` // unix ms
}

// Hub is safe for concurrent use by any number of sessions.
type Hub struct {
	store    highscore.Store
	logger   *log.Logger
	finishMu sync.Mutex // serialises the read-compare-write of Check

	mu       sync.RWMutex
	sessions map[int]*Session
	status   map[int]Status
	nextID   int
	high     int
	top      []highscore.Run

	board atomic.Pointer[Board]

	subsMu sync.Mutex
	subs   map[chan []byte]struct{}
}

// NewHub creates a hub persisting finished runs to store. A nil store keeps
// everything in memory.
func NewHub(store highscore.Store, logger *log.Logger) *Hub {
	if store == nil {
		store = highscore.NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	h := &Hub{
		store:    store,
		logger:   logger,
		sessions: make(map[int]*Session),
		status:   make(map[int]Status),
		nextID:   1,
		subs:     make(map[chan []byte]struct{}),
	}
	h.board.Store(&Board{})
	return h
}

// Load reads the high score and the best runs from the store.
func (h *Hub) Load(ctx context.Context) error {
	high, err := h.store.HighScore(ctx)
	if err != nil {
		return fmt.Errorf("load high score: %w", err)
	}
	top, err := h.store.Top(ctx, TopRuns)
	if err != nil {
		return fmt.Errorf("load top runs: %w", err)
	}
	h.mu.Lock()
	h.high, h.top = high, top
	h.mu.Unlock()
	h.rebuild()
	return nil
}

// Register adds a session for player and returns its handle.
func (h *Hub) Register(player string) *Session {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := &Session{
		ID:     h.nextID,
		Player: player,
		Events: make(chan Event, 16),
	}
	h.nextID++
	h.sessions[s.ID] = s
	h.status[s.ID] = Status{ID: s.ID, Player: player}
	h.logger.Info("session registered", "id", s.ID, "player", player, "online", len(h.sessions))
	return s
}

// Unregister removes a session. Unknown IDs are ignored.
func (h *Hub) Unregister(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.sessions[id]; !ok {
		return
	}
	delete(h.sessions, id)
	delete(h.status, id)
	h.logger.Info("session closed", "id", id, "online", len(h.sessions))
}

// Online returns the number of registered sessions.
func (h *Hub) Online() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Publish updates the live status of a session.
func (h *Hub) Publish(st Status) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sessions[st.ID]; ok {
		h.status[st.ID] = st
	}
}

// HighScore returns the best score known to the hub.
func (h *Hub) HighScore() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.high
}

// Finish records a finished run and reports whether it set a new high
// score. Other sessions are told about new high scores.
func (h *Hub) Finish(ctx context.Context, sessionID int, run highscore.Run) (bool, error) {
	h.finishMu.Lock()
	defer h.finishMu.Unlock()

	if err := h.store.Record(ctx, run); err != nil {
		return false, fmt.Errorf("record run: %w", err)
	}
	// the run stays recorded even when the high score update fails
	newHigh, err := highscore.Check(ctx, h.store, run.Score)
	if err != nil {
		return false, fmt.Errorf("check high score: %w", err)
	}

	h.mu.Lock()
	if newHigh {
		h.high = run.Score
	}
	h.top = insertRun(h.top, run)
	var others []*Session
	if newHigh {
		for id, s := range h.sessions {
			if id != sessionID {
				others = append(others, s)
			}
		}
	}
	h.mu.Unlock()

	h.logger.Info("run finished", "player", run.Player, "score", run.Score,
		"phase", run.Phase, "elapsed", fmt.Sprintf("%.1fs", run.Elapsed), "newHigh", newHigh)
	for _, s := range others {
		select {
		case s.Events <- Event{Type: EventHighScore, Player: run.Player, Score: run.Score}:
		default:
		}
	}
	h.rebuild()
	return newHigh, nil
}

// insertRun keeps top sorted and at most TopRuns long.
func insertRun(top []highscore.Run, run highscore.Run) []highscore.Run {
	top = append(top, run)
	slices.SortStableFunc(top, func(a, b highscore.Run) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(top) > TopRuns {
		top = top[:TopRuns]
	}
	return top
}

// Board returns the latest scoreboard snapshot.
func (h *Hub) Board() *Board {
	return h.board.Load()
}

// rebuild makes a new board snapshot from the current state.
func (h *Hub) rebuild() *Board {
	h.mu.RLock()
	b := &Board{
		HighScore: h.high,
		Live:      make([]Status, 0, len(h.status)),
		Top:       make([]Entry, 0, len(h.top)),
		UpdatedAt: time.Now().UnixMilli(),
	}
	for _, st := range h.status {
		b.Live = append(b.Live, st)
	}
	for _, r := range h.top {
		b.Top = append(b.Top, Entry{
			Player:  r.Player,
			Score:   r.Score,
			Phase:   r.Phase,
			Elapsed: r.Elapsed,
			EndedAt: r.EndedAt.UnixMilli(),
		})
	}
	h.mu.RUnlock()

	slices.SortFunc(b.Live, func(a, c Status) int {
		if n := cmp.Compare(c.Score, a.Score); n != 0 {
			return n
		}
		return cmp.Compare(a.ID, c.ID)
	})
	h.board.Store(b)
	return b
}

// Run rebuilds the board periodically and pushes it to subscribers.
// Blocks until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(boardInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		b := h.rebuild()
		data, err := EncodeBoard(b)
		if err != nil {
			h.logger.Error("encode board", "err", err)
			continue
		}
		h.broadcast(data)
	}
}

// Subscribe returns a channel receiving every encoded board. Slow
// subscribers miss boards rather than block the hub.
func (h *Hub) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, 4)
	h.subsMu.Lock()
	h.subs[ch] = struct{}{}
	h.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.subsMu.Lock()
			delete(h.subs, ch)
			h.subsMu.Unlock()
		})
	}
}

func (h *Hub) broadcast(data []byte) {
	h.subsMu.Lock()
	defer h.subsMu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- data:
		default:
		}
	}
}

// Shutdown notifies all sessions and waits for them to disconnect, or for
// timeout to pass.
func (h *Hub) Shutdown(timeout time.Duration) {
	h.mu.RLock()
	for _, s := range h.sessions {
		select {
		case s.Events <- Event{Type: EventServerShutdown}:
		default:
		}
	}
	h.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			if h.Online() == 0 {
				return
			}
		}
	}
}
