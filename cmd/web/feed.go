package main

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/tomz197/vectordrift/internal/arcade"
)

const retryDelay = 3 * time.Second

// feed follows the arcade's board websocket and keeps the latest board.
type feed struct {
	url    string
	logger *log.Logger
	board  atomic.Pointer[arcade.Board]
}

func newFeed(url string, logger *log.Logger) *feed {
	return &feed{url: url, logger: logger}
}

// Board returns the latest board, or nil while the arcade is unreachable.
func (f *feed) Board() *arcade.Board {
	return f.board.Load()
}

// Run reconnects until ctx is cancelled.
func (f *feed) Run(ctx context.Context) {
	for {
		err := f.follow(ctx)
		f.board.Store(nil)
		if ctx.Err() != nil {
			return
		}
		f.logger.Warn("board feed lost", "url", f.url, "err", err)

		select {
		case <-ctx.Done():
			return
		case <-time.After(retryDelay):
		}
	}
}

func (f *feed) follow(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, f.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	f.logger.Info("board feed connected", "url", f.url)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		b, err := arcade.DecodeBoard(data)
		if err != nil {
			return err
		}
		f.board.Store(b)
	}
}
