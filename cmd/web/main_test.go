package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/tomz197/vectordrift/internal/arcade"
	"github.com/tomz197/vectordrift/internal/highscore"
)

func TestFeedFollowsBoard(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	logger := log.New(io.Discard)

	hub := arcade.NewHub(highscore.NewMemoryStore(), logger)
	s := hub.Register("ada")
	run := highscore.Run{ID: uuid.New(), Player: "ada", Score: 4242, Phase: "KERNEL", EndedAt: time.Now()}
	if _, err := hub.Finish(ctx, s.ID, run); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	arcadeSrv := httptest.NewServer(hub.BoardHandler())
	defer arcadeSrv.Close()

	f := newFeed("ws"+strings.TrimPrefix(arcadeSrv.URL, "http"), logger)
	go f.Run(ctx)

	deadline := time.Now().Add(5 * time.Second)
	for f.Board() == nil {
		if time.Now().After(deadline) {
			t.Fatalf("feed never received a board")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if got := f.Board().HighScore; got != 4242 {
		t.Fatalf("HighScore = %d, want 4242", got)
	}

	mux := newMux(f, "play.example.org", logger)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	body := rec.Body.String()
	for _, want := range []string{"ssh -t play.example.org", "High score 4242", "ada", "KERNEL"} {
		if !strings.Contains(body, want) {
			t.Fatalf("page missing %q", want)
		}
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/board.json", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"high":4242`) {
		t.Fatalf("board.json = %d %s", rec.Code, rec.Body.String())
	}
}

func TestOfflineBoard(t *testing.T) {
	f := newFeed("ws://127.0.0.1:1/ws", log.New(io.Discard))
	mux := newMux(f, "play.example.org", log.New(io.Discard))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.Contains(rec.Body.String(), "Scoreboard offline") {
		t.Fatalf("page does not report the offline board")
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/board.json", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("board.json status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown path status = %d, want 404", rec.Code)
	}
}
