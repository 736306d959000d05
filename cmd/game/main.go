package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/tomz197/vectordrift/internal/arcade"
	"github.com/tomz197/vectordrift/internal/audio"
	"github.com/tomz197/vectordrift/internal/config"
	"github.com/tomz197/vectordrift/internal/highscore"
	"github.com/tomz197/vectordrift/internal/loop"
	"golang.org/x/term"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}
	logger, closeLog, err := newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := run(logger); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger logs to VECTOR_DRIFT_LOG. The terminal belongs to the game, so
// without a file nothing is logged.
func newLogger() (*log.Logger, func(), error) {
	var w io.Writer = io.Discard
	closeLog := func() {}
	if path := config.GetEnv("VECTOR_DRIFT_LOG", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		w = f
		closeLog = func() { _ = f.Close() }
	}
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "game",
		ReportTimestamp: true,
	})
	if lvl, err := log.ParseLevel(config.GetEnv("LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(lvl)
	}
	return logger, closeLog, nil
}

func run(logger *log.Logger) error {
	ctx := context.Background()

	tuning := config.Default()
	if path := config.GetEnv("VECTOR_DRIFT_TUNING", ""); path != "" {
		var err error
		if tuning, err = config.LoadTuning(path); err != nil {
			return err
		}
	}

	var store highscore.Store
	if path := config.GetEnv("VECTOR_DRIFT_DB", ""); path != "" {
		sqlite, err := highscore.OpenSQLite(ctx, path, logger)
		if err != nil {
			return err
		}
		defer sqlite.Close()
		store = sqlite
	}
	hub := arcade.NewHub(store, logger)
	if err := hub.Load(ctx); err != nil {
		return err
	}

	var sound audio.Player = audio.Nop{}
	if config.GetEnvBool("VECTOR_DRIFT_AUDIO", true) {
		p := audio.NewBeepPlayer(config.GetEnvFloat("VECTOR_DRIFT_VOLUME", 0.8))
		if err := p.Init(); err != nil {
			logger.Warn("audio disabled", "err", err)
		} else {
			defer p.Close()
			sound = p
		}
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	c, err := loop.NewClient(hub, bufio.NewReader(os.Stdin), os.Stdout, loop.Options{
		Username: config.GetEnv("USER", loop.DefaultUsername),
		Config:   &tuning,
		Audio:    sound,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	return c.Run(ctx)
}
