package entity

import "fmt"

// Mark is the content of a single board cell.
type Mark string

const (
	EmptyCell Mark = ""
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"

	// The human always plays X and moves first.
	HumanMark    = PlayerX
	ComputerMark = PlayerO
)

// Opponent returns the mark that moves after m.
func (m Mark) Opponent() Mark {
	if m == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func (m Mark) IsValid() bool {
	return m == EmptyCell || m == PlayerX || m == PlayerO
}

// Status is the state of the game controller.
type Status string

const (
	StatusAwaitingHuman    Status = "awaiting_human"
	StatusAwaitingComputer Status = "awaiting_computer"
	StatusWon              Status = "won"
	StatusDraw             Status = "draw"
)

func (s Status) IsTerminal() bool {
	return s == StatusWon || s == StatusDraw
}

const BoardSize = 9

// Board is a 3x3 board stored row-major.
type Board [BoardSize]Mark

// Count returns how many cells hold the given mark.
func (that Board) Count(mark Mark) int {
	count := 0
	for _, cell := range that {
		if cell == mark {
			count++
		}
	}
	return count
}

// Game is a serializable snapshot of a single game.
type Game struct {
	ID     string `json:"id"`
	Board  Board  `json:"board"`
	Status Status `json:"status"`
	Winner Mark   `json:"winner,omitempty"`
}

func NewGame(id string) *Game {
	return &Game{
		ID:     id,
		Board:  Board{},
		Status: StatusAwaitingHuman,
	}
}

func (that *Game) IsFinished() bool {
	return that.Status.IsTerminal()
}

// Result returns the outcome of a finished game.
func (that *Game) Result() Result {
	return Result{Status: that.Status, Winner: that.Winner}
}

// Result describes how a game ended: a win for Winner or a draw.
type Result struct {
	Status Status `json:"status"`
	Winner Mark   `json:"winner,omitempty"`
}

func (that Result) IsDraw() bool {
	return that.Status == StatusDraw
}

func (that Result) String() string {
	if that.IsDraw() {
		return "It's a draw!"
	}
	return fmt.Sprintf("Player %s has won!", that.Winner)
}
