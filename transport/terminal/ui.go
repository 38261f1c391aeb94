// Package terminal lets a human play against the computer on a text terminal.
package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

const (
	colorHuman    = "#E06C75"
	colorComputer = "#61AFEF"

	helpText = "Enter a cell 1-9, r to restart, q to quit."
)

// UI reads commands from input and renders the game to output. Cells are
// numbered 1-9 for the player and 0-8 for the game controller.
type UI struct {
	logger     *slog.Logger
	input      io.Reader
	output     *termenv.Output
	controller *tictactoe.GameController
}

func New(logger *slog.Logger, input io.Reader, output io.Writer, opts ...termenv.OutputOption) *UI {
	ui := &UI{
		logger: logger.With("component", "terminal"),
		input:  input,
		output: termenv.NewOutput(output, opts...),
	}
	ui.controller = tictactoe.NewGameController(logger, "terminal", ui)

	return ui
}

// Run plays until the input ends, the player quits or ctx is done.
func (that *UI) Run(ctx context.Context) error {
	that.println(that.output.String("Tic-tac-toe: you are X, the computer is O.").Bold().String())
	that.println(helpText)
	that.renderBoard()

	scanner := bufio.NewScanner(that.input)
	for ctx.Err() == nil && scanner.Scan() {
		if quit := that.handleCommand(strings.TrimSpace(scanner.Text())); quit {
			return nil
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	return nil
}

func (that *UI) handleCommand(command string) bool {
	switch strings.ToLower(command) {
	case "":
		return false
	case "q", "quit":
		that.println("Bye!")
		return true
	case "r", "restart":
		that.controller.Restart()
		return false
	case "h", "help":
		that.println(helpText)
		return false
	}

	position, err := strconv.Atoi(command)
	if err != nil {
		that.println(helpText)
		return false
	}

	if !that.controller.SubmitHumanMove(position - 1) {
		that.println(that.output.String(fmt.Sprintf("Cell %d is not available.", position)).Faint().String())
		return false
	}

	// a finished game has already been rendered by GameEnded
	if !that.controller.Status().IsTerminal() {
		that.renderBoard()
	}

	return false
}

func (that *UI) MarkPlaced(cell int, mark entity.Mark) {
	who := "You"
	if mark == entity.ComputerMark {
		who = "Computer"
	}

	that.println(fmt.Sprintf("%s placed %s on %d.", who, that.styleMark(mark), cell+1))
}

func (that *UI) GameEnded(result entity.Result) {
	that.renderBoard()
	that.println(that.output.String(result.String()).Bold().String())
	that.println("Enter r to play again or q to quit.")
}

func (that *UI) BoardCleared() {
	that.println("New game.")
	that.renderBoard()
}

func (that *UI) renderBoard() {
	board := that.controller.Board()
	for row := 0; row < 3; row++ {
		cells := make([]string, 3)
		for col := 0; col < 3; col++ {
			cell := row*3 + col
			if board[cell] == entity.EmptyCell {
				cells[col] = that.output.String(strconv.Itoa(cell + 1)).Faint().String()
				continue
			}
			cells[col] = that.styleMark(board[cell])
		}

		that.println(" " + strings.Join(cells, " | "))
		if row < 2 {
			that.println("---+---+---")
		}
	}
}

func (that *UI) styleMark(mark entity.Mark) string {
	color := colorHuman
	if mark == entity.ComputerMark {
		color = colorComputer
	}

	return that.output.String(string(mark)).Foreground(that.output.Color(color)).Bold().String()
}

func (that *UI) println(line string) {
	if _, err := fmt.Fprintln(that.output, line); err != nil {
		that.logger.Error("failed to write output", "error", err)
	}
}
