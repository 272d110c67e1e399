package tictactoe

import (
	"fmt"
	"math/bits"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// Side is a slot on the board: First belongs to player1, Second to player2 (or the bot).
type Side uint8

const (
	NoSide Side = iota
	First
	Second
)

const fullMask uint16 = 1<<entity.BoardSize - 1

var winMasks = func() [len(entity.WinCombos)]uint16 {
	var masks [len(entity.WinCombos)]uint16
	for i, combo := range entity.WinCombos {
		masks[i] = 1<<combo[0] | 1<<combo[1] | 1<<combo[2]
	}
	return masks
}()

func (that Side) Opponent() Side {
	switch that {
	case First:
		return Second
	case Second:
		return First
	default:
		return NoSide
	}
}

// Board keeps one 9-bit occupancy mask per side. It is a value: Place returns a new board.
type Board struct {
	first  uint16
	second uint16
}

// NewBoard replays the moves of a game in order.
func NewBoard(game *entity.Game) Board {
	var board Board
	for _, move := range game.Moves {
		board = board.Place(SideOf(game, move.Actor), move.Position)
	}
	return board
}

// SideOf maps a participant to its board side, NoSide for strangers.
func SideOf(game *entity.Game, actor entity.Participant) Side {
	switch {
	case game.Player1.Equal(actor):
		return First
	case game.Player2.Equal(actor):
		return Second
	default:
		return NoSide
	}
}

// ParticipantOf is the inverse of SideOf.
func ParticipantOf(game *entity.Game, side Side) entity.Participant {
	if side == Second {
		return game.Player2
	}
	return game.Player1
}

func (that Board) Place(side Side, cell int) Board {
	switch side {
	case First:
		that.first |= 1 << cell
	case Second:
		that.second |= 1 << cell
	}
	return that
}

func (that Board) At(cell int) Side {
	switch {
	case that.first&(1<<cell) != 0:
		return First
	case that.second&(1<<cell) != 0:
		return Second
	default:
		return NoSide
	}
}

func (that Board) occupied() uint16 {
	return that.first | that.second
}

func (that Board) IsFull() bool {
	return that.occupied() == fullMask
}

func (that Board) Empty() int {
	return entity.BoardSize - bits.OnesCount16(that.occupied())
}

// LegalCells returns the free cells in ascending order.
func (that Board) LegalCells() []int {
	cells := make([]int, 0, that.Empty())
	for cell := 0; cell < entity.BoardSize; cell++ {
		if that.At(cell) == NoSide {
			cells = append(cells, cell)
		}
	}
	return cells
}

// CheckCell validates that a mark can be placed at cell.
func (that Board) CheckCell(cell int) error {
	if cell < 0 || cell >= entity.BoardSize {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if that.At(cell) != NoSide {
		return fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
	}

	return nil
}

func (that Board) HasLine(side Side) bool {
	var mask uint16
	switch side {
	case First:
		mask = that.first
	case Second:
		mask = that.second
	default:
		return false
	}

	for _, line := range winMasks {
		if mask&line == line {
			return true
		}
	}
	return false
}

// Winner checks player1's side before player2's.
func (that Board) Winner() Side {
	for _, side := range [2]Side{First, Second} {
		if that.HasLine(side) {
			return side
		}
	}
	return NoSide
}

// Cells renders the board with the opener's marks as "X" and the other side's as "O".
func (that Board) Cells(opener Side) [entity.BoardSize]string {
	var cells [entity.BoardSize]string
	for cell := range cells {
		switch that.At(cell) {
		case NoSide:
		case opener:
			cells[cell] = "X"
		default:
			cells[cell] = "O"
		}
	}
	return cells
}

// Render draws a game the way players see it: whoever opened plays "X".
func Render(game *entity.Game) [entity.BoardSize]string {
	return NewBoard(game).Cells(SideOf(game, Opener(game)))
}
