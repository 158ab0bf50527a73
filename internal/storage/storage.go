package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// CompletedGame is one finished game. Results are only ever appended and
// listed; nothing is loaded back into a live game.
type CompletedGame struct {
	ID        string    `json:"id"`
	TableID   string    `json:"tableId"`
	Status    string    `json:"status"`
	Winner    int       `json:"winner"`
	Moves     int       `json:"moves"`
	StartedAt time.Time `json:"startedAt"`
	EndedAt   time.Time `json:"endedAt"`
}

type Tally struct {
	PlayerOneWins int `json:"playerOneWins"`
	PlayerTwoWins int `json:"playerTwoWins"`
	Draws         int `json:"draws"`
}

type Store interface {
	SaveResult(ctx context.Context, game CompletedGame) error
	RecentResults(ctx context.Context, limit int) ([]CompletedGame, error)
	Tally(ctx context.Context) (Tally, error)
}

// PostgresStore is safe for concurrent use: saves run off the table loops
// while /history reads from request goroutines.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, url string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (p *PostgresStore) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

func (p *PostgresStore) EnsureTables(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS connect4_results (
	id TEXT PRIMARY KEY,
	table_id TEXT NOT NULL,
	status TEXT NOT NULL,
	winner SMALLINT NOT NULL DEFAULT 0,
	moves SMALLINT NOT NULL,
	started_at TIMESTAMPTZ,
	ended_at TIMESTAMPTZ
);
`)
	return err
}

func (p *PostgresStore) SaveResult(ctx context.Context, game CompletedGame) error {
	if p == nil || p.pool == nil {
		return nil
	}
	_, err := p.pool.Exec(ctx, `INSERT INTO connect4_results (id, table_id, status, winner, moves, started_at, ended_at)
VALUES ($1,$2,$3,$4,$5,$6,$7) ON CONFLICT (id) DO NOTHING`,
		game.ID, game.TableID, game.Status, game.Winner, game.Moves, game.StartedAt, game.EndedAt)
	if err != nil {
		log.Error().Err(err).Str("game", game.ID).Msg("failed to save game")
	}
	return err
}

func (p *PostgresStore) RecentResults(ctx context.Context, limit int) ([]CompletedGame, error) {
	rows, err := p.pool.Query(ctx, `
SELECT id, table_id, status, winner, moves, started_at, ended_at
FROM connect4_results
ORDER BY ended_at DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []CompletedGame
	for rows.Next() {
		var g CompletedGame
		if err := rows.Scan(&g.ID, &g.TableID, &g.Status, &g.Winner, &g.Moves, &g.StartedAt, &g.EndedAt); err != nil {
			return nil, err
		}
		res = append(res, g)
	}
	return res, rows.Err()
}

func (p *PostgresStore) Tally(ctx context.Context) (Tally, error) {
	var t Tally
	err := p.pool.QueryRow(ctx, `
SELECT
	COUNT(*) FILTER (WHERE status = 'won' AND winner = 1),
	COUNT(*) FILTER (WHERE status = 'won' AND winner = 2),
	COUNT(*) FILTER (WHERE status = 'draw')
FROM connect4_results`).Scan(&t.PlayerOneWins, &t.PlayerTwoWins, &t.Draws)
	return t, err
}
