package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type mockUserRepo struct {
	mock.Mock
}

func (that *mockUserRepo) Create(ctx context.Context, user *entity.User) error {
	args := that.Called(ctx, user)
	return args.Error(0)
}

func (that *mockUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := that.Called(ctx, id)
	return args.Get(0).(*entity.User), args.Error(1)
}

func (that *mockUserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	args := that.Called(ctx, username)
	return args.Get(0).(*entity.User), args.Error(1)
}

type mockGameRepo struct {
	mock.Mock
}

func (that *mockGameRepo) Create(ctx context.Context, game *entity.Game) error {
	args := that.Called(ctx, game)
	return args.Error(0)
}

func (that *mockGameRepo) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	args := that.Called(ctx, id)
	return args.Get(0).(*entity.Game), args.Error(1)
}

func (that *mockGameRepo) ListByPlayerID(ctx context.Context, playerID string) ([]*entity.Game, error) {
	args := that.Called(ctx, playerID)
	return args.Get(0).([]*entity.Game), args.Error(1)
}

func (that *mockGameRepo) Update(
	ctx context.Context,
	id string,
	fn func(game *entity.Game) ([]entity.Result, error),
) (*entity.Game, error) {
	args := that.Called(ctx, id, fn)
	return args.Get(0).(*entity.Game), args.Error(1)
}

type mockMetrics struct {
	mock.Mock
}

func (that *mockMetrics) GameCreated(gameType string) {
	that.Called(gameType)
}

func (that *mockMetrics) GameFinished(gameType, result string) {
	that.Called(gameType, result)
}

func (that *mockMetrics) MoveApplied(gameType, actor string) {
	that.Called(gameType, actor)
}

func (that *mockMetrics) TurnRejected(err error) {
	that.Called(err)
}

type mockGameCreator struct {
	mock.Mock
}

func (that *mockGameCreator) CreateGame(ctx context.Context, player1ID, player2ID string) (*entity.Game, error) {
	args := that.Called(ctx, player1ID, player2ID)
	return args.Get(0).(*entity.Game), args.Error(1)
}
