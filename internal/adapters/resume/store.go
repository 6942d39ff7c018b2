// Package resume persists reading positions in SQLite.
package resume

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/okian/courtside/internal/domain/model"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a game has no saved position.
var ErrNotFound = errors.New("resume position not found")

// Store reads and writes reading positions.
type Store interface {
	Get(ctx context.Context, gameID string) (model.ResumePosition, error)
	Put(ctx context.Context, pos model.ResumePosition) error
	Close() error
}

// DB is a SQLite-backed Store.
type DB struct {
	conn *sql.DB
	now  func() time.Time
}

// Open opens (or creates) the database at path. ":memory:" keeps it in memory.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// one writer; an in-memory database is per connection
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn, now: time.Now}
	if err := db.initSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) initSchema() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS resume_positions (
		game_id    TEXT PRIMARY KEY,
		play_index INTEGER NOT NULL,
		period     INTEGER NOT NULL DEFAULT 0,
		clock      TEXT NOT NULL DEFAULT '',
		home_score INTEGER NOT NULL DEFAULT 0,
		away_score INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME NOT NULL
	);`
	_, err := db.conn.Exec(schema)
	return err
}

// Get returns the saved position for a game.
func (db *DB) Get(ctx context.Context, gameID string) (model.ResumePosition, error) {
	const query = `
	SELECT play_index, period, clock, home_score, away_score, updated_at
	FROM resume_positions WHERE game_id = ?`

	pos := model.ResumePosition{GameID: gameID}
	err := db.conn.QueryRowContext(ctx, query, gameID).Scan(
		&pos.Index, &pos.Period, &pos.Clock, &pos.Score.Home, &pos.Score.Away, &pos.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ResumePosition{}, ErrNotFound
	}
	if err != nil {
		return model.ResumePosition{}, fmt.Errorf("query resume position: %w", err)
	}
	return pos, nil
}

// Put inserts or replaces the position for pos.GameID. A zero UpdatedAt is
// set to the current time.
func (db *DB) Put(ctx context.Context, pos model.ResumePosition) error {
	if pos.UpdatedAt.IsZero() {
		pos.UpdatedAt = db.now().UTC()
	}

	const query = `
	INSERT INTO resume_positions (game_id, play_index, period, clock, home_score, away_score, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(game_id) DO UPDATE SET
		play_index = excluded.play_index,
		period = excluded.period,
		clock = excluded.clock,
		home_score = excluded.home_score,
		away_score = excluded.away_score,
		updated_at = excluded.updated_at`

	_, err := db.conn.ExecContext(ctx, query,
		pos.GameID, pos.Index, pos.Period, pos.Clock, pos.Score.Home, pos.Score.Away, pos.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save resume position: %w", err)
	}
	return nil
}
