// internal/database/database.go
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	engine "github.com/jason-s-yu/sojourn/engine"
)

// DB is the shared connection pool. It is nil when no database is
// configured, in which case results are not archived.
var DB *pgxpool.Pool

// ErrNotConnected is returned when storing without a pool.
var ErrNotConnected = errors.New("database pool not initialised")

const schema = `
CREATE TABLE IF NOT EXISTS game_results (
	game_id       UUID PRIMARY KEY,
	mode          TEXT        NOT NULL,
	win_threshold INTEGER     NOT NULL,
	winner_id     UUID,
	winner_name   TEXT,
	standings     JSONB       NOT NULL,
	journal       JSONB       NOT NULL,
	turns         INTEGER     NOT NULL,
	finished_at   TIMESTAMPTZ NOT NULL
)`

// FinalGameState is the archived outcome of a finished game.
type FinalGameState struct {
	Mode         engine.Mode       `json:"mode"`
	WinThreshold int               `json:"winThreshold"`
	WinnerID     uuid.UUID         `json:"winnerId"`
	WinnerName   string            `json:"winnerName"`
	Standings    []engine.Standing `json:"standings"`
	Journal      []string          `json:"journal"`
	Turns        int               `json:"turns"`
	FinishedAt   time.Time         `json:"finishedAt"`
}

// ConnectDB opens DB and ensures the schema exists.
func ConnectDB(ctx context.Context, url string) error {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return fmt.Errorf("create schema: %w", err)
	}
	DB = pool
	return nil
}

// Close releases DB if it was opened.
func Close() {
	if DB != nil {
		DB.Close()
		DB = nil
	}
}

// StoreFinalGameStateInDB upserts the final state of gameID.
func StoreFinalGameStateInDB(ctx context.Context, gameID uuid.UUID, s FinalGameState) error {
	if DB == nil {
		return ErrNotConnected
	}
	standings, err := json.Marshal(s.Standings)
	if err != nil {
		return fmt.Errorf("marshal standings: %w", err)
	}
	journal, err := json.Marshal(s.Journal)
	if err != nil {
		return fmt.Errorf("marshal journal: %w", err)
	}
	var winner *uuid.UUID
	if s.WinnerID != uuid.Nil {
		winner = &s.WinnerID
	}
	_, err = DB.Exec(ctx, `
		INSERT INTO game_results (game_id, mode, win_threshold, winner_id, winner_name, standings, journal, turns, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (game_id) DO UPDATE SET
			winner_id = EXCLUDED.winner_id,
			winner_name = EXCLUDED.winner_name,
			standings = EXCLUDED.standings,
			journal = EXCLUDED.journal,
			turns = EXCLUDED.turns,
			finished_at = EXCLUDED.finished_at`,
		gameID, string(s.Mode), s.WinThreshold, winner, s.WinnerName, standings, journal, s.Turns, s.FinishedAt)
	if err != nil {
		return fmt.Errorf("store final state for game %s: %w", gameID, err)
	}
	return nil
}
