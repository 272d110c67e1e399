package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type StatisticRepository struct {
	pool *pgxpool.Pool
}

func NewStatisticRepository(pool *pgxpool.Pool) *StatisticRepository {
	return &StatisticRepository{pool: pool}
}

func (that *StatisticRepository) GetByPlayerID(ctx context.Context, playerID string) (*entity.Statistic, error) {
	stat := entity.NewStatistic(playerID)

	err := that.pool.QueryRow(ctx,
		`SELECT games_played, games_won, games_lost, games_draw
		 FROM statistics WHERE player_id = $1`,
		playerID,
	).Scan(&stat.GamesPlayed, &stat.GamesWon, &stat.GamesLost, &stat.GamesDraw)
	if errors.Is(err, pgx.ErrNoRows) {
		return stat, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get statistic: %w", err)
	}

	return stat, nil
}

// RecordResult applies one result on its own. Finished games reach the statistics
// through GameRepository.Update, which commits them with the final move.
func (that *StatisticRepository) RecordResult(ctx context.Context, result entity.Result) error {
	return recordResult(ctx, that.pool, result)
}

func recordResult(ctx context.Context, db execer, result entity.Result) error {
	var won, lost, draw int
	switch result.Outcome {
	case entity.OutcomeWin:
		won = 1
	case entity.OutcomeLoss:
		lost = 1
	case entity.OutcomeDraw:
		draw = 1
	}

	_, err := db.Exec(ctx,
		`INSERT INTO statistics (player_id, games_played, games_won, games_lost, games_draw)
		 VALUES ($1, 1, $2, $3, $4)
		 ON CONFLICT (player_id) DO UPDATE SET
			games_played = statistics.games_played + 1,
			games_won    = statistics.games_won + EXCLUDED.games_won,
			games_lost   = statistics.games_lost + EXCLUDED.games_lost,
			games_draw   = statistics.games_draw + EXCLUDED.games_draw`,
		result.PlayerID, won, lost, draw,
	)
	if err != nil {
		return fmt.Errorf("failed to record result for %s: %w", result.PlayerID, err)
	}

	return nil
}
