package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStorage struct {
	Connection *pgxpool.Pool
}

func NewPostgresStorage(ctx context.Context, dsn string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	return &PostgresStorage{Connection: pool}, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         TEXT PRIMARY KEY,
		username   TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS games (
		id          TEXT PRIMARY KEY,
		player1_id  TEXT NOT NULL,
		player2_id  TEXT,
		started_at  TIMESTAMPTZ NOT NULL,
		finished_at TIMESTAMPTZ,
		data        JSONB NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS games_player1_idx ON games (player1_id, started_at DESC)`,
	`CREATE INDEX IF NOT EXISTS games_player2_idx ON games (player2_id, started_at DESC)`,
	`CREATE TABLE IF NOT EXISTS statistics (
		player_id    TEXT PRIMARY KEY,
		games_played INTEGER NOT NULL DEFAULT 0,
		games_won    INTEGER NOT NULL DEFAULT 0,
		games_lost   INTEGER NOT NULL DEFAULT 0,
		games_draw   INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS invitations (
		id          TEXT PRIMARY KEY,
		sender_id   TEXT NOT NULL,
		receiver_id TEXT NOT NULL,
		status      TEXT NOT NULL,
		game_id     TEXT,
		created_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS invitations_receiver_idx ON invitations (receiver_id, created_at DESC)`,
}

// Init creates the tables when they are missing.
func (that *PostgresStorage) Init(ctx context.Context) error {
	for _, query := range schema {
		if _, err := that.Connection.Exec(ctx, query); err != nil {
			return fmt.Errorf("can't create schema: %w", err)
		}
	}

	return nil
}

func (that *PostgresStorage) Close() {
	that.Connection.Close()
}
