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

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
}

type dbUser struct {
	client *redis.Client
}

func NewUserRepository(client *redis.Client) UserRepository {
	return &dbUser{
		client: client,
	}
}

func userKey(id string) string {
	return "user:" + id
}

func usernameKey(username string) string {
	return "username:" + username
}

// Create claims the username first so two concurrent registrations cannot both succeed.
func (that *dbUser) Create(ctx context.Context, user *entity.User) error {
	claimed, err := that.client.SetNX(ctx, usernameKey(user.Username), user.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to claim username: %w", err)
	}

	if !claimed {
		return fmt.Errorf("%w: %s", apperror.ErrUserAlreadyExists, user.Username)
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("could not marshal user: %w", err)
	}

	if err = that.client.Set(ctx, userKey(user.ID), userJSON, 0).Err(); err != nil {
		_ = that.client.Del(ctx, usernameKey(user.Username)).Err()

		return fmt.Errorf("failed to set user: %w", err)
	}

	return nil
}

func (that *dbUser) GetByID(ctx context.Context, id string) (*entity.User, error) {
	response, err := that.client.Get(ctx, userKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrPlayerNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	var user entity.User
	if err = json.Unmarshal([]byte(response), &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return &user, nil
}

func (that *dbUser) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	id, err := that.client.Get(ctx, usernameKey(username)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrPlayerNotFound, username)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get user id by username: %w", err)
	}

	return that.GetByID(ctx, id)
}
