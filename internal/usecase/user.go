package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const maxUsernameLength = 32

type UserUseCase interface {
	Register(ctx context.Context, username string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetStatistic(ctx context.Context, username string) (*entity.Statistic, error)
	ListGames(ctx context.Context, username string) ([]*entity.Game, error)
}

type statisticRepo interface {
	GetByPlayerID(ctx context.Context, playerID string) (*entity.Statistic, error)
}

type gameLister interface {
	ListByPlayerID(ctx context.Context, playerID string) ([]*entity.Game, error)
}

type userUseCase struct {
	clock         clockwork.Clock
	userRepo      userRepo
	statisticRepo statisticRepo
	gameRepo      gameLister
}

func NewUserUseCase(
	clock clockwork.Clock,
	userRepo userRepo,
	statisticRepo statisticRepo,
	gameRepo gameLister,
) UserUseCase {
	return &userUseCase{
		clock:         clock,
		userRepo:      userRepo,
		statisticRepo: statisticRepo,
		gameRepo:      gameRepo,
	}
}

func (that *userUseCase) Register(ctx context.Context, username string) (*entity.User, error) {
	username, err := normalizeUsername(username)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: that.clock.Now(),
	}

	if err = that.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user into storage: %w", err)
	}

	return user, nil
}

func (that *userUseCase) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	user, err := that.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

func (that *userUseCase) GetStatistic(ctx context.Context, username string) (*entity.Statistic, error) {
	user, err := that.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	stat, err := that.statisticRepo.GetByPlayerID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get statistic: %w", err)
	}

	return stat, nil
}

// ListGames returns the user's games, newest first.
func (that *userUseCase) ListGames(ctx context.Context, username string) ([]*entity.Game, error) {
	user, err := that.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	games, err := that.gameRepo.ListByPlayerID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	return games, nil
}

func normalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)

	if username == "" || len(username) > maxUsernameLength {
		return "", fmt.Errorf("%w: length must be between 1 and %d", apperror.ErrInvalidUsername, maxUsernameLength)
	}

	if strings.IndexFunc(username, unicode.IsSpace) >= 0 {
		return "", fmt.Errorf("%w: whitespace is not allowed", apperror.ErrInvalidUsername)
	}

	return username, nil
}
