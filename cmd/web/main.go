package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"html/template"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/vectordrift/internal/arcade"
	"github.com/tomz197/vectordrift/internal/config"
)

const (
	defaultHost     = "0.0.0.0"
	defaultPort     = "8080"
	defaultBoardURL = "ws://localhost:8081/ws"
)

//go:embed index.html
var htmlPage string

var pageTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(htmlPage))

type page struct {
	SSHHost string
	Board   *arcade.Board
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Warn("load .env", "err", err)
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "web",
		ReportTimestamp: true,
	})
	if lvl, err := log.ParseLevel(config.GetEnv("LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(lvl)
	}

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	boardURL := config.GetEnv("BOARD_URL", defaultBoardURL)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	f := newFeed(boardURL, logger)
	go f.Run(ctx)

	srv := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           newMux(f, sshHost, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("starting web server", "addr", "http://"+srv.Addr, "board", boardURL)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", "err", err)
	}
}

func newMux(f *feed, sshHost string, logger *log.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := pageTmpl.Execute(w, page{SSHHost: sshHost, Board: f.Board()}); err != nil {
			logger.Warn("render page", "err", err)
		}
	})
	mux.HandleFunc("/board.json", func(w http.ResponseWriter, r *http.Request) {
		b := f.Board()
		if b == nil {
			http.Error(w, "scoreboard offline", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(b)
	})
	return mux
}
