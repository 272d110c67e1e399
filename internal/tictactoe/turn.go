package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// Opener is the participant making the first move.
// In human games the invited player (player2) opens, against the bot the human opens.
func Opener(game *entity.Game) entity.Participant {
	if game.IsWithBot() {
		return game.Player1
	}
	return game.Player2
}

// NextTurn derives whose move it is from the move history.
func NextTurn(game *entity.Game) entity.Participant {
	if len(game.Moves) == 0 {
		return Opener(game)
	}

	last := game.Moves[len(game.Moves)-1].Actor
	if last.Equal(game.Player1) {
		return game.Player2
	}
	return game.Player1
}

func ValidateTurn(game *entity.Game, actor entity.Participant) error {
	if expected := NextTurn(game); !expected.Equal(actor) {
		return fmt.Errorf("%w: waiting for %s", apperror.ErrNotYourTurn, expected)
	}
	return nil
}
