package tictactoe

import (
	"math"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

const noMove = -1

// move is a search candidate: the cell played and the score it leads to.
type move struct {
	cell  int
	score int
}

// BestMove returns the cell the given player should take on board.
// The computer maximizes Evaluate and the human minimizes it; ties go to the
// lowest cell index. Boards that are already won or full have no move.
func BestMove(board entity.Board, player entity.Mark) (int, error) {
	best := minimax(board, player)
	if best.cell == noMove {
		return noMove, apperror.ErrNoAvailableMoves
	}

	return best.cell, nil
}

// minimax works on its own copy of the board, so the caller's board is
// never touched whichever way the recursion returns.
func minimax(board entity.Board, player entity.Mark) move {
	switch Evaluate(board) {
	case ComputerWinScore:
		return move{cell: noMove, score: ComputerWinScore}
	case HumanWinScore:
		return move{cell: noMove, score: HumanWinScore}
	}

	moves := AvailableMoves(board)
	if len(moves) == 0 {
		return move{cell: noMove, score: DrawScore}
	}

	maximizing := player == entity.ComputerMark

	best := move{cell: noMove, score: math.MaxInt}
	if maximizing {
		best.score = math.MinInt
	}

	for _, cell := range moves {
		next := board
		next[cell] = player

		score := minimax(next, player.Opponent()).score

		if (maximizing && score > best.score) || (!maximizing && score < best.score) {
			best = move{cell: cell, score: score}
		}
	}

	return best
}
