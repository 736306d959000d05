package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/tomz197/vectordrift/internal/arcade"
	"github.com/tomz197/vectordrift/internal/config"
	"github.com/tomz197/vectordrift/internal/draw"
	"github.com/tomz197/vectordrift/internal/highscore"
	"github.com/tomz197/vectordrift/internal/loop"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	defaultBoardAddr   = ":8081"
	defaultDBPath      = "vectordrift.db"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "ssh",
		ReportTimestamp: true,
	})
	if lvl, err := log.ParseLevel(config.GetEnv("LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(lvl)
	}

	if err := run(logger); err != nil {
		logger.Fatal("server stopped", "err", err)
	}
}

func run(logger *log.Logger) error {
	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	boardAddr := config.GetEnv("BOARD_ADDR", defaultBoardAddr)
	dbPath := config.GetEnv("VECTOR_DRIFT_DB", defaultDBPath)
	shutdownWait := config.GetEnvDuration("SHUTDOWN_WAIT", 15*time.Second)

	tuning := config.Default()
	if path := config.GetEnv("VECTOR_DRIFT_TUNING", ""); path != "" {
		var err error
		if tuning, err = config.LoadTuning(path); err != nil {
			return err
		}
		logger.Info("tuning loaded", "path", path)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var store highscore.Store
	if dbPath != "" {
		sqlite, err := highscore.OpenSQLite(ctx, dbPath, logger.WithPrefix("highscore"))
		if err != nil {
			return err
		}
		defer sqlite.Close()
		store = sqlite
	}

	// Shared by all SSH sessions
	hub := arcade.NewHub(store, logger.WithPrefix("arcade"))
	if err := hub.Load(ctx); err != nil {
		return err
	}
	go hub.Run(ctx)
	logger.Info("arcade started", "high", hub.HighScore())

	var boardSrv *http.Server
	if boardAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/ws", hub.BoardHandler())
		mux.Handle("/board.json", hub.JSONHandler())
		boardSrv = &http.Server{Addr: boardAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			logger.Info("board listening", "addr", boardAddr)
			if err := boardSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("board server", "err", err)
			}
		}()
	}

	g := &game{hub: hub, tuning: &tuning, logger: logger.WithPrefix("session")}
	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			g.middleware,
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	logger.Info("starting SSH server", "host", host, "port", port)
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-done:
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	}
	logger.Info("shutting down", "online", hub.Online())

	// Notify players and wait for them to disconnect
	hub.Shutdown(shutdownWait)
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if boardSrv != nil {
		_ = boardSrv.Shutdown(shutdownCtx)
	}
	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// game runs one client per SSH session against the shared hub.
type game struct {
	hub    *arcade.Hub
	tuning *config.Config
	logger *log.Logger
}

func (g *game) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		// Listen for window size changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		c, err := loop.NewClient(g.hub, bufio.NewReader(sess), sess, loop.Options{
			TermSizeFunc: sizeTracker.getSize,
			Username:     sess.User(),
			Config:       g.tuning,
			Logger:       g.logger,
		})
		if err != nil {
			g.logger.Error("start session", "user", sess.User(), "err", err)
			return
		}
		if err := c.Run(sess.Context()); err != nil {
			g.logger.Warn("session error", "user", sess.User(), "err", err)
		}
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
