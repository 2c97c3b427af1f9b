// Package records keeps the outcome of finished rounds in SQLite: who won or
// lost on which preset and how fast. Boards themselves are never stored.
package records

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/tomasstrnad1997/sweeper/mines"
)

//go:embed schema.sql
var ddl string

type Result struct {
	ID            uuid.UUID
	Preset        string
	Width         int
	Height        int
	Mines         int
	Status        mines.Status
	StartedAt     time.Time
	EndedAt       time.Time
	Moves         int
	CellsRevealed int
}

func (r Result) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

type Summary struct {
	Played int
	Won    int
	Best   time.Duration
}

var ErrRoundNotOver = errors.New("round is not over")

type SQLStore struct {
	DB *sql.DB
}

func InitializeTables(db *sql.DB) error {
	_, err := db.Exec(ddl)
	return err
}

func (store *SQLStore) InitializeTables() error {
	return InitializeTables(store.DB)
}

func Open(path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// Need to ping the database to check if the file could be opened
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLStore{DB: db}, nil
}

// InitStore opens the store at $DB_PATH.
func InitStore() (*SQLStore, error) {
	path := os.Getenv("DB_PATH")
	if path == "" {
		return nil, fmt.Errorf("DB_PATH not set in environment")
	}
	return Open(path)
}

func (s *SQLStore) Close() error {
	return s.DB.Close()
}

func (s *SQLStore) Save(ctx context.Context, r Result) error {
	if r.Status != mines.Won && r.Status != mines.Lost {
		return fmt.Errorf("save round %s in status %s: %w", r.ID, r.Status, ErrRoundNotOver)
	}
	_, err := s.DB.ExecContext(ctx, `
INSERT INTO rounds (id, preset, width, height, mines, status, started_at, ended_at, duration_ms, moves, cells_revealed)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID.String(), r.Preset, r.Width, r.Height, r.Mines, r.Status.String(),
		r.StartedAt.UnixMilli(), r.EndedAt.UnixMilli(), r.Duration().Milliseconds(),
		r.Moves, r.CellsRevealed,
	)
	if err != nil {
		return fmt.Errorf("save round %s: %w", r.ID, err)
	}
	logrus.WithFields(logrus.Fields{
		"round":    r.ID,
		"preset":   r.Preset,
		"status":   r.Status,
		"duration": r.Duration(),
	}).Debug("round recorded")
	return nil
}

// BestTimes lists the fastest won rounds of a preset.
func (s *SQLStore) BestTimes(ctx context.Context, preset string, limit int) ([]Result, error) {
	rows, err := s.DB.QueryContext(ctx, `
SELECT id, preset, width, height, mines, started_at, ended_at, moves, cells_revealed
FROM rounds
WHERE preset = ? AND status = ?
ORDER BY duration_ms ASC, ended_at ASC
LIMIT ?`, preset, mines.Won.String(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var (
			r                  Result
			id                 string
			startedAt, endedAt int64
		)
		err := rows.Scan(&id, &r.Preset, &r.Width, &r.Height, &r.Mines, &startedAt, &endedAt, &r.Moves, &r.CellsRevealed)
		if err != nil {
			return nil, err
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("round id %q: %w", id, err)
		}
		r.Status = mines.Won
		r.StartedAt = time.UnixMilli(startedAt)
		r.EndedAt = time.UnixMilli(endedAt)
		results = append(results, r)
	}
	return results, rows.Err()
}

func (s *SQLStore) Summary(ctx context.Context, preset string) (Summary, error) {
	var (
		summary Summary
		best    sql.NullInt64
	)
	err := s.DB.QueryRowContext(ctx, `
SELECT COUNT(*),
       COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
       MIN(CASE WHEN status = ? THEN duration_ms END)
FROM rounds
WHERE preset = ?`, mines.Won.String(), mines.Won.String(), preset).Scan(&summary.Played, &summary.Won, &best)
	if err != nil {
		return Summary{}, err
	}
	if best.Valid {
		summary.Best = time.Duration(best.Int64) * time.Millisecond
	}
	return summary, nil
}
