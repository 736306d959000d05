package highscore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS high_score (
	id    INTEGER PRIMARY KEY CHECK (id = 1),
	score INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	player     TEXT NOT NULL,
	score      INTEGER NOT NULL,
	phase      TEXT NOT NULL,
	elapsed    REAL NOT NULL,
	kills      INTEGER NOT NULL,
	best_combo INTEGER NOT NULL,
	ended_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_by_score ON runs (score DESC, ended_at);
`

// SQLiteStore is a Store backed by a SQLite database file. It is safe for
// concurrent use by many sessions.
type SQLiteStore struct {
	db     *sql.DB
	logger *log.Logger
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string, logger *log.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// sqlite allows one writer; serialise through a single connection
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema in %s: %w", path, err)
	}
	if logger == nil {
		logger = log.Default()
	}
	logger.Info("high score store ready", "path", path)
	return &SQLiteStore{db: db, logger: logger}, nil
}

// Close releases the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) HighScore(ctx context.Context) (int, error) {
	var score int
	err := s.db.QueryRowContext(ctx, `SELECT score FROM high_score WHERE id = 1`).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return score, nil
}

func (s *SQLiteStore) SetHighScore(ctx context.Context, score int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO high_score (id, score) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET score = excluded.score`, score)
	if err != nil {
		return err
	}
	s.logger.Debug("high score updated", "score", score)
	return nil
}

func (s *SQLiteStore) Record(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, player, score, phase, elapsed, kills, best_combo, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID.String(), run.Player, run.Score, run.Phase, run.Elapsed,
		run.Kills, run.BestCombo, run.EndedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("record run %s: %w", run.ID, err)
	}
	return nil
}

func (s *SQLiteStore) Top(ctx context.Context, n int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, player, score, phase, elapsed, kills, best_combo, ended_at
		FROM runs ORDER BY score DESC, ended_at ASC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r     Run
			id    string
			ended int64
		)
		if err := rows.Scan(&id, &r.Player, &r.Score, &r.Phase, &r.Elapsed, &r.Kills, &r.BestCombo, &ended); err != nil {
			return nil, err
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			s.logger.Warn("skipping run with malformed id", "id", id, "err", err)
			continue
		}
		r.EndedAt = time.UnixMilli(ended)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
