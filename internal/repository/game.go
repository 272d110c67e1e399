package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const maxUpdateAttempts = 32

type GameRepository interface {
	Create(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	ListByPlayerID(ctx context.Context, playerID string) ([]*entity.Game, error)
	Update(ctx context.Context, id string, fn func(game *entity.Game) ([]entity.Result, error)) (*entity.Game, error)
}

type dbGame struct {
	client *redis.Client
}

func NewGameRepository(client *redis.Client) GameRepository {
	return &dbGame{
		client: client,
	}
}

func gameKey(id string) string {
	return "game:" + id
}

func playerGamesKey(playerID string) string {
	return "player:" + playerID + ":games"
}

func (that *dbGame) Create(ctx context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	var created *redis.BoolCmd
	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		created = pipe.SetNX(ctx, gameKey(game.ID), gameJSON, 0)

		for _, player := range game.Participants() {
			if !player.IsHuman() {
				continue
			}

			pipe.ZAdd(ctx, playerGamesKey(player.ID), redis.Z{
				Score:  float64(game.StartedAt.UnixNano()),
				Member: game.ID,
			})
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}

	if !created.Val() {
		return fmt.Errorf("game %s already exists", game.ID)
	}

	return nil
}

func (that *dbGame) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	return getGame(ctx, that.client, id)
}

// ListByPlayerID returns the player's games, newest first.
func (that *dbGame) ListByPlayerID(ctx context.Context, playerID string) ([]*entity.Game, error) {
	ids, err := that.client.ZRevRange(ctx, playerGamesKey(playerID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list game ids: %w", err)
	}

	games := make([]*entity.Game, 0, len(ids))
	if len(ids) == 0 {
		return games, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, gameKey(id))
	}

	values, err := that.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get games: %w", err)
	}

	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}

		var game entity.Game
		if err = json.Unmarshal([]byte(raw), &game); err != nil {
			return nil, fmt.Errorf("failed to unmarshal game: %w", err)
		}

		games = append(games, &game)
	}

	return games, nil
}

// Update runs fn against the stored game under WATCH and commits the game
// together with the statistics it returns. fn may run more than once when
// another writer commits first.
func (that *dbGame) Update(
	ctx context.Context,
	id string,
	fn func(game *entity.Game) ([]entity.Result, error),
) (*entity.Game, error) {
	key := gameKey(id)

	var updated *entity.Game
	txf := func(tx *redis.Tx) error {
		game, err := getGame(ctx, tx, id)
		if err != nil {
			return err
		}

		results, err := fn(game)
		if err != nil {
			return err
		}

		gameJSON, err := json.Marshal(game)
		if err != nil {
			return fmt.Errorf("could not marshal game: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, gameJSON, 0)

			for _, result := range results {
				recordResult(ctx, pipe, result)
			}

			return nil
		})
		if err != nil {
			return err
		}

		updated = game
		return nil
	}

	if err := watchWithRetry(ctx, that.client, txf, key); err != nil {
		return nil, err
	}

	return updated, nil
}

// watchWithRetry reruns txf while another client commits to key between WATCH and EXEC.
func watchWithRetry(ctx context.Context, client *redis.Client, txf func(tx *redis.Tx) error, key string) error {
	for range maxUpdateAttempts {
		err := client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}

		return err
	}

	return fmt.Errorf("%w: %s", apperror.ErrTxConflict, key)
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func getGame(ctx context.Context, client stringGetter, id string) (*entity.Game, error) {
	response, err := client.Get(ctx, gameKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrGameNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	var game entity.Game
	if err = json.Unmarshal([]byte(response), &game); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &game, nil
}
