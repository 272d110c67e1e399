package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type GameRepository struct {
	pool *pgxpool.Pool
}

func NewGameRepository(pool *pgxpool.Pool) *GameRepository {
	return &GameRepository{pool: pool}
}

// humanID returns nil for the bot so that it never matches a player lookup.
func humanID(p entity.Participant) *string {
	if !p.IsHuman() {
		return nil
	}
	id := p.ID
	return &id
}

func (that *GameRepository) Create(ctx context.Context, game *entity.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	_, err = that.pool.Exec(ctx,
		`INSERT INTO games (id, player1_id, player2_id, started_at, finished_at, data)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		game.ID, game.Player1.ID, humanID(game.Player2), game.StartedAt, game.FinishedAt, data,
	)
	if err != nil {
		return fmt.Errorf("failed to insert game: %w", err)
	}

	return nil
}

func (that *GameRepository) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	var data []byte
	err := that.pool.QueryRow(ctx, `SELECT data FROM games WHERE id = $1`, id).Scan(&data)

	return decodeGame(id, data, err)
}

// ListByPlayerID returns the player's games, newest first.
func (that *GameRepository) ListByPlayerID(ctx context.Context, playerID string) ([]*entity.Game, error) {
	rows, err := that.pool.Query(ctx,
		`SELECT data FROM games
		 WHERE player1_id = $1 OR player2_id = $1
		 ORDER BY started_at DESC, id DESC`,
		playerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	games := make([]*entity.Game, 0)
	for rows.Next() {
		var data []byte
		if err = rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}

		var game entity.Game
		if err = json.Unmarshal(data, &game); err != nil {
			return nil, fmt.Errorf("failed to unmarshal game: %w", err)
		}

		games = append(games, &game)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate games: %w", err)
	}

	return games, nil
}

// Update locks the game row, runs fn and writes the game and its results in one transaction.
func (that *GameRepository) Update(
	ctx context.Context,
	id string,
	fn func(game *entity.Game) ([]entity.Result, error),
) (*entity.Game, error) {
	tx, err := that.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var data []byte
	err = tx.QueryRow(ctx, `SELECT data FROM games WHERE id = $1 FOR UPDATE`, id).Scan(&data)

	game, err := decodeGame(id, data, err)
	if err != nil {
		return nil, err
	}

	results, err := fn(game)
	if err != nil {
		return nil, err
	}

	if data, err = json.Marshal(game); err != nil {
		return nil, fmt.Errorf("could not marshal game: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE games SET data = $2, finished_at = $3 WHERE id = $1`,
		id, data, game.FinishedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	for _, result := range results {
		if err = recordResult(ctx, tx, result); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit game update: %w", err)
	}

	return game, nil
}

func decodeGame(id string, data []byte, err error) (*entity.Game, error) {
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrGameNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	var game entity.Game
	if err = json.Unmarshal(data, &game); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &game, nil
}
