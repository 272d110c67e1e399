package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository/memory"
)

func newUserUseCase() UserUseCase {
	storage := memory.NewStorage()

	return NewUserUseCase(
		clockwork.NewFakeClockAt(startedAt),
		memory.NewUserRepository(storage),
		memory.NewStatisticRepository(storage),
		memory.NewGameRepository(storage),
	)
}

func TestUserUseCase_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Trims the username", func(t *testing.T) {
		users := newUserUseCase()

		user, err := users.Register(ctx, "  alice ")

		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, startedAt, user.CreatedAt)
	})

	t.Run("Rejects invalid usernames", func(t *testing.T) {
		users := newUserUseCase()

		for _, username := range []string{"", "   ", "two words", "a-name-that-is-far-too-long-to-be-accepted"} {
			_, err := users.Register(ctx, username)
			require.ErrorIs(t, err, apperror.ErrInvalidUsername, "username %q", username)
		}
	})

	t.Run("Rejects duplicates", func(t *testing.T) {
		users := newUserUseCase()

		_, err := users.Register(ctx, "alice")
		require.NoError(t, err)

		_, err = users.Register(ctx, "alice ")
		require.ErrorIs(t, err, apperror.ErrUserAlreadyExists)
	})

	t.Run("Storage failure is wrapped", func(t *testing.T) {
		userRepo := &mockUserRepo{}
		users := NewUserUseCase(clockwork.NewFakeClock(), userRepo, nil, nil)

		userRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).
			Return(errRedisDown).
			Once()

		_, err := users.Register(ctx, "alice")

		require.ErrorIs(t, err, errRedisDown)
		userRepo.AssertExpectations(t)
	})
}

func TestUserUseCase_GetStatistic(t *testing.T) {
	ctx := context.Background()

	t.Run("New user has zero counters", func(t *testing.T) {
		users := newUserUseCase()

		user, err := users.Register(ctx, "alice")
		require.NoError(t, err)

		stat, err := users.GetStatistic(ctx, "alice")

		require.NoError(t, err)
		assert.Equal(t, entity.NewStatistic(user.ID), stat)
	})

	t.Run("Unknown user", func(t *testing.T) {
		users := newUserUseCase()

		_, err := users.GetStatistic(ctx, "ghost")

		require.ErrorIs(t, err, apperror.ErrPlayerNotFound)
	})
}

func TestUserUseCase_ListGames(t *testing.T) {
	ctx := context.Background()

	storage := memory.NewStorage()
	gameRepo := memory.NewGameRepository(storage)
	users := NewUserUseCase(
		clockwork.NewFakeClockAt(startedAt),
		memory.NewUserRepository(storage),
		memory.NewStatisticRepository(storage),
		gameRepo,
	)

	alice, err := users.Register(ctx, "alice")
	require.NoError(t, err)

	// Given: alice played a bot game and an hour later a human game
	older := entity.NewGame("older", entity.Human(alice.ID), entity.Bot(), startedAt)
	newer := entity.NewGame("newer", entity.Human("bob"), entity.Human(alice.ID), startedAt.Add(time.Hour))
	require.NoError(t, gameRepo.Create(ctx, older))
	require.NoError(t, gameRepo.Create(ctx, newer))

	// When: her games are listed
	games, err := users.ListGames(ctx, "alice")

	// Then: newest comes first
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "newer", games[0].ID)
	assert.Equal(t, "older", games[1].ID)

	_, err = users.ListGames(ctx, "ghost")
	require.ErrorIs(t, err, apperror.ErrPlayerNotFound)
}
