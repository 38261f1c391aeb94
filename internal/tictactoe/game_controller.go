package tictactoe

import (
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

// Presenter renders what happens in a game.
type Presenter interface {
	MarkPlaced(cell int, mark entity.Mark)
	GameEnded(result entity.Result)
	BoardCleared()
}

// GameController owns the board of one game and sequences the human and
// computer turns. It is not safe for concurrent use.
type GameController struct {
	logger    *slog.Logger
	presenter Presenter

	game entity.Game
}

func NewGameController(logger *slog.Logger, id string, presenter Presenter) *GameController {
	return &GameController{
		logger:    logger.With("component", "game_controller", "gameID", id),
		presenter: presenter,
		game:      *entity.NewGame(id),
	}
}

// RestoreGameController resumes a game from a stored snapshot. The status must
// agree with the board. A snapshot stored while the computer was to move is
// resumed with the computer's move, reported to presenter.
func RestoreGameController(logger *slog.Logger, game *entity.Game, presenter Presenter) (*GameController, error) {
	if err := validateSnapshot(game); err != nil {
		return nil, fmt.Errorf("failed to restore game %s: %w", game.ID, err)
	}

	controller := &GameController{
		logger:    logger.With("component", "game_controller", "gameID", game.ID),
		presenter: presenter,
		game:      *game,
	}

	if controller.game.Status == entity.StatusAwaitingComputer {
		controller.makeComputerMove()
	}

	return controller, nil
}

// validateSnapshot - checks that the status and winner of game match its board.
func validateSnapshot(game *entity.Game) error {
	if err := ValidateBoard(game.Board); err != nil {
		return err
	}

	switch game.Status {
	case entity.StatusAwaitingHuman, entity.StatusAwaitingComputer, entity.StatusWon, entity.StatusDraw:
	default:
		return fmt.Errorf("%w: unknown status %q", apperror.ErrInvalidBoard, game.Status)
	}

	board := game.Board
	diff := board.Count(entity.HumanMark) - board.Count(entity.ComputerMark)
	winner := Winner(board)

	switch {
	case winner != entity.EmptyCell:
		if game.Status != entity.StatusWon || game.Winner != winner {
			return fmt.Errorf("%w: line of %s but status %q and winner %q", apperror.ErrInvalidBoard, winner, game.Status, game.Winner)
		}
		// the winner made the last move
		if (winner == entity.HumanMark) != (diff == 1) {
			return fmt.Errorf("%w: %s cannot have completed the last line", apperror.ErrInvalidBoard, winner)
		}
	case IsFull(board):
		if game.Status != entity.StatusDraw || game.Winner != entity.EmptyCell {
			return fmt.Errorf("%w: full board but status %q", apperror.ErrInvalidBoard, game.Status)
		}
	case game.Status.IsTerminal() || game.Winner != entity.EmptyCell:
		return fmt.Errorf("%w: open board but status %q", apperror.ErrInvalidBoard, game.Status)
	case game.Status == entity.StatusAwaitingHuman && diff != 0:
		return fmt.Errorf("%w: X has one more mark but it is X's turn", apperror.ErrInvalidBoard)
	case game.Status == entity.StatusAwaitingComputer && diff != 1:
		return fmt.Errorf("%w: O has as many marks as X but it is O's turn", apperror.ErrInvalidBoard)
	}

	return nil
}

// SubmitHumanMove places X at cell and, unless the game ends, answers with
// the computer's move. Moves on an invalid or occupied cell, or outside the
// human's turn, are ignored and reported as not accepted.
func (that *GameController) SubmitHumanMove(cell int) bool {
	if err := that.validateMove(cell); err != nil {
		that.logger.Debug("human move ignored", "cell", cell, "reason", err)
		return false
	}

	if that.place(cell, entity.HumanMark) {
		return true
	}

	that.game.Status = entity.StatusAwaitingComputer
	that.makeComputerMove()

	return true
}

// Restart clears the board and hands the first move to the human.
func (that *GameController) Restart() {
	that.game.Board = entity.Board{}
	that.game.Status = entity.StatusAwaitingHuman
	that.game.Winner = entity.EmptyCell

	that.presenter.BoardCleared()
}

func (that *GameController) Status() entity.Status {
	return that.game.Status
}

func (that *GameController) Board() entity.Board {
	return that.game.Board
}

// Snapshot returns a copy of the current game state.
func (that *GameController) Snapshot() *entity.Game {
	game := that.game
	return &game
}

// validateMove - checks if the human may play at cell.
func (that *GameController) validateMove(cell int) error {
	if that.game.Status.IsTerminal() {
		return apperror.ErrGameFinished
	}

	if that.game.Status != entity.StatusAwaitingHuman {
		return apperror.ErrNotYourTurn
	}

	if !IsValidCell(cell) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if IsOccupied(that.game.Board, cell) {
		return apperror.ErrCellOccupied
	}

	return nil
}

func (that *GameController) makeComputerMove() {
	cell, err := BestMove(that.game.Board, entity.ComputerMark)
	if err != nil {
		// unreachable: the board is not finished, so a cell is free
		that.logger.Error("computer has no move", "error", err)
		return
	}

	if that.place(cell, entity.ComputerMark) {
		return
	}

	that.game.Status = entity.StatusAwaitingHuman
}

// place puts mark at cell, reports it and reports whether the game ended.
func (that *GameController) place(cell int, mark entity.Mark) bool {
	that.game.Board[cell] = mark
	that.presenter.MarkPlaced(cell, mark)

	switch {
	case CheckWinner(that.game.Board):
		that.game.Status = entity.StatusWon
		that.game.Winner = mark
	case IsFull(that.game.Board):
		that.game.Status = entity.StatusDraw
	default:
		return false
	}

	that.logger.Info("game finished", "status", that.game.Status, "winner", that.game.Winner)
	that.presenter.GameEnded(that.game.Result())

	return true
}
