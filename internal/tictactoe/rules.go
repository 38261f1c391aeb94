package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

// Scores of a finished board from the computer's point of view.
const (
	ComputerWinScore = 10
	HumanWinScore    = -10
	DrawScore        = 0
)

// WinCombos lists the rows, columns and diagonals of the board.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// IsValidCell reports whether cell is an index on the board.
func IsValidCell(cell int) bool {
	return cell >= 0 && cell < entity.BoardSize
}

// IsOccupied reports whether the cell holds a mark. The cell must be valid.
func IsOccupied(board entity.Board, cell int) bool {
	return board[cell] != entity.EmptyCell
}

// Winner returns the mark completing the first matching win line, or EmptyCell.
func Winner(board entity.Board) entity.Mark {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return a
		}
	}

	return entity.EmptyCell
}

// CheckWinner reports whether any win line is completed by a single mark.
func CheckWinner(board entity.Board) bool {
	return Winner(board) != entity.EmptyCell
}

// Evaluate scores a board from the computer's point of view.
func Evaluate(board entity.Board) int {
	switch Winner(board) {
	case entity.ComputerMark:
		return ComputerWinScore
	case entity.HumanMark:
		return HumanWinScore
	default:
		return DrawScore
	}
}

// IsFull reports whether no cell is empty.
func IsFull(board entity.Board) bool {
	for _, cell := range board {
		if cell == entity.EmptyCell {
			return false
		}
	}

	return true
}

// AvailableMoves returns the empty cells in ascending order.
func AvailableMoves(board entity.Board) []int {
	moves := make([]int, 0, entity.BoardSize)
	for i, cell := range board {
		if cell == entity.EmptyCell {
			moves = append(moves, i)
		}
	}

	return moves
}

// ValidateBoard checks that the board could have been reached by X and O
// alternating with X first.
func ValidateBoard(board entity.Board) error {
	for i, cell := range board {
		if !cell.IsValid() {
			return fmt.Errorf("%w: unknown mark %q at cell %d", apperror.ErrInvalidBoard, cell, i)
		}
	}

	diff := board.Count(entity.HumanMark) - board.Count(entity.ComputerMark)
	if diff != 0 && diff != 1 {
		return fmt.Errorf("%w: X and O counts differ by %d", apperror.ErrInvalidBoard, diff)
	}

	return nil
}
