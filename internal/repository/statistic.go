package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	fieldGamesPlayed = "games_played"
	fieldGamesWon    = "games_won"
	fieldGamesLost   = "games_lost"
	fieldGamesDraw   = "games_draw"
)

type StatisticRepository interface {
	GetByPlayerID(ctx context.Context, playerID string) (*entity.Statistic, error)
	RecordResult(ctx context.Context, result entity.Result) error
}

type dbStatistic struct {
	client *redis.Client
}

type statisticHash struct {
	GamesPlayed int `redis:"games_played"`
	GamesWon    int `redis:"games_won"`
	GamesLost   int `redis:"games_lost"`
	GamesDraw   int `redis:"games_draw"`
}

func NewStatisticRepository(client *redis.Client) StatisticRepository {
	return &dbStatistic{
		client: client,
	}
}

func statisticKey(playerID string) string {
	return "statistic:" + playerID
}

// GetByPlayerID returns zero counters for a player without finished games.
func (that *dbStatistic) GetByPlayerID(ctx context.Context, playerID string) (*entity.Statistic, error) {
	var hash statisticHash
	if err := that.client.HGetAll(ctx, statisticKey(playerID)).Scan(&hash); err != nil {
		return nil, fmt.Errorf("failed to get statistic: %w", err)
	}

	return &entity.Statistic{
		PlayerID:    playerID,
		GamesPlayed: hash.GamesPlayed,
		GamesWon:    hash.GamesWon,
		GamesLost:   hash.GamesLost,
		GamesDraw:   hash.GamesDraw,
	}, nil
}

// RecordResult applies one result on its own. Finished games reach the statistics
// through GameRepository.Update, which commits them with the final move.
func (that *dbStatistic) RecordResult(ctx context.Context, result entity.Result) error {
	_, err := that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		recordResult(ctx, pipe, result)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record result: %w", err)
	}

	return nil
}

func recordResult(ctx context.Context, pipe redis.Pipeliner, result entity.Result) {
	key := statisticKey(result.PlayerID)

	pipe.HIncrBy(ctx, key, fieldGamesPlayed, 1)

	switch result.Outcome {
	case entity.OutcomeWin:
		pipe.HIncrBy(ctx, key, fieldGamesWon, 1)
	case entity.OutcomeLoss:
		pipe.HIncrBy(ctx, key, fieldGamesLost, 1)
	case entity.OutcomeDraw:
		pipe.HIncrBy(ctx, key, fieldGamesDraw, 1)
	}
}
