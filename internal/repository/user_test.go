package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/testing/suite"
)

func TestUserRepository(t *testing.T) {
	t.Run("Create and lookup", func(t *testing.T) {
		ctx, st := suite.New(t)

		userRepo := NewUserRepository(st.Storage)

		// Given: a registered user
		user := &entity.User{ID: "u1", Username: "alice", CreatedAt: startedAt}
		require.NoError(t, userRepo.Create(ctx, user))

		// When: it is looked up by id and by username
		byID, err := userRepo.GetByID(ctx, "u1")
		require.NoError(t, err)

		byName, err := userRepo.GetByUsername(ctx, "alice")
		require.NoError(t, err)

		// Then: both lookups return the same user
		assert.Equal(t, "alice", byID.Username)
		assert.Equal(t, "u1", byName.ID)
	})

	t.Run("Username is unique", func(t *testing.T) {
		ctx, st := suite.New(t)

		userRepo := NewUserRepository(st.Storage)

		require.NoError(t, userRepo.Create(ctx, &entity.User{ID: "u1", Username: "alice"}))

		err := userRepo.Create(ctx, &entity.User{ID: "u2", Username: "alice"})

		require.ErrorIs(t, err, apperror.ErrUserAlreadyExists)
	})

	t.Run("Unknown user", func(t *testing.T) {
		ctx, st := suite.New(t)

		userRepo := NewUserRepository(st.Storage)

		_, err := userRepo.GetByUsername(ctx, "nobody")
		require.ErrorIs(t, err, apperror.ErrPlayerNotFound)

		_, err = userRepo.GetByID(ctx, "nobody")
		require.ErrorIs(t, err, apperror.ErrPlayerNotFound)
	})
}
