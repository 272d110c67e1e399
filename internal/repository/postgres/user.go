package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const uniqueViolation = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (that *UserRepository) Create(ctx context.Context, user *entity.User) error {
	_, err := that.pool.Exec(ctx,
		`INSERT INTO users (id, username, created_at) VALUES ($1, $2, $3)`,
		user.ID, user.Username, user.CreatedAt,
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", apperror.ErrUserAlreadyExists, user.Username)
	}

	if err != nil {
		return fmt.Errorf("can't save user: %w", err)
	}

	return nil
}

func (that *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return that.find(ctx, `SELECT id, username, created_at FROM users WHERE id = $1`, id)
}

func (that *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return that.find(ctx, `SELECT id, username, created_at FROM users WHERE username = $1`, username)
}

func (that *UserRepository) find(ctx context.Context, query, key string) (*entity.User, error) {
	var user entity.User

	err := that.pool.QueryRow(ctx, query, key).Scan(&user.ID, &user.Username, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrPlayerNotFound, key)
	}

	if err != nil {
		return nil, fmt.Errorf("can't find user: %w", err)
	}

	return &user, nil
}
