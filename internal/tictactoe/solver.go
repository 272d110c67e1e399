package tictactoe

import "math"

const (
	NoMove = -1

	winScore = 10
)

// BestMove picks the bot's optimal cell by exhaustive minimax.
// Among equally scored cells the lowest index wins. NoMove is returned for a full board.
func BestMove(board Board, bot Side) int {
	bestScore := math.MinInt
	bestMove := NoMove

	for _, cell := range board.LegalCells() {
		score := minimax(board.Place(bot, cell), 0, false, bot)
		if score > bestScore {
			bestScore = score
			bestMove = cell
		}
	}

	return bestMove
}

// minimax scores a position from the bot's point of view. Depth rewards faster wins and slower losses.
func minimax(board Board, depth int, maximizing bool, bot Side) int {
	switch score := evaluate(board, bot); score {
	case winScore:
		return score - depth
	case -winScore:
		return score + depth
	}

	if board.IsFull() {
		return 0
	}

	if maximizing {
		best := math.MinInt
		for _, cell := range board.LegalCells() {
			best = max(best, minimax(board.Place(bot, cell), depth+1, false, bot))
		}
		return best
	}

	best := math.MaxInt
	for _, cell := range board.LegalCells() {
		best = min(best, minimax(board.Place(bot.Opponent(), cell), depth+1, true, bot))
	}
	return best
}

func evaluate(board Board, bot Side) int {
	switch {
	case board.HasLine(bot):
		return winScore
	case board.HasLine(bot.Opponent()):
		return -winScore
	default:
		return 0
	}
}
