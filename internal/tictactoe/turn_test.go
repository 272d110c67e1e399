package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

func TestNextTurn(t *testing.T) {
	alice, bob := entity.Human("alice"), entity.Human("bob")

	t.Run("Invited player opens a human game", func(t *testing.T) {
		game := entity.NewGame("g1", alice, bob, startedAt)

		assert.Equal(t, bob, NextTurn(game))
	})

	t.Run("Human opens a bot game", func(t *testing.T) {
		game := entity.NewGame("g2", alice, entity.Bot(), startedAt)

		assert.Equal(t, alice, NextTurn(game))
	})

	t.Run("Turns alternate after the last actor", func(t *testing.T) {
		// Given: a human game after bob's and alice's moves
		game := entity.NewGame("g3", alice, bob, startedAt)
		game.AddMove(bob, 4, startedAt)
		assert.Equal(t, alice, NextTurn(game))

		game.AddMove(alice, 0, startedAt)

		// Then: it is bob's turn again
		assert.Equal(t, bob, NextTurn(game))
	})

	t.Run("Bot answers the human", func(t *testing.T) {
		game := entity.NewGame("g4", alice, entity.Bot(), startedAt)
		game.AddMove(alice, 0, startedAt)

		assert.True(t, NextTurn(game).IsBot())
	})
}

func TestValidateTurn(t *testing.T) {
	alice, bob := entity.Human("alice"), entity.Human("bob")
	game := entity.NewGame("g1", alice, bob, startedAt)

	t.Run("Expected actor passes", func(t *testing.T) {
		require.NoError(t, ValidateTurn(game, bob))
	})

	t.Run("Opponent is rejected", func(t *testing.T) {
		require.ErrorIs(t, ValidateTurn(game, alice), apperror.ErrNotYourTurn)
	})

	t.Run("Stranger is rejected", func(t *testing.T) {
		require.ErrorIs(t, ValidateTurn(game, entity.Human("mallory")), apperror.ErrNotYourTurn)
	})
}
