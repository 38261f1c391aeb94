package terminal

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runUI(t *testing.T, input string) (*UI, string) {
	t.Helper()

	var output bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ui := New(logger, strings.NewReader(input), &output, termenv.WithProfile(termenv.Ascii))
	require.NoError(t, ui.Run(context.Background()))

	return ui, output.String()
}

func TestUI_Run(t *testing.T) {
	t.Run("Moves are numbered from one", func(t *testing.T) {
		// When: the player takes the top-left cell and quits
		ui, output := runUI(t, "1\nq\n")

		// Then: the computer answers in the center
		assert.Contains(t, output, "You placed X on 1.")
		assert.Contains(t, output, "Computer placed O on 5.")
		assert.Contains(t, output, " X | 2 | 3")
		assert.Contains(t, output, " 4 | O | 6")
		assert.Contains(t, output, "Bye!")
		assert.Equal(t, entity.Board{entity.PlayerX, "", "", "", entity.PlayerO}, ui.controller.Board())
	})

	t.Run("Unavailable cells are reported", func(t *testing.T) {
		ui, output := runUI(t, "5\n5\n0\n10\n")

		assert.Contains(t, output, "Cell 5 is not available.")
		assert.Contains(t, output, "Cell 0 is not available.")
		assert.Contains(t, output, "Cell 10 is not available.")
		assert.Equal(t, 1, ui.controller.Board().Count(entity.HumanMark))
	})

	t.Run("Unknown command prints help", func(t *testing.T) {
		_, output := runUI(t, "center\n")

		assert.Equal(t, 2, strings.Count(output, helpText))
	})

	t.Run("Restart clears the board", func(t *testing.T) {
		ui, output := runUI(t, "1\nr\n")

		assert.Contains(t, output, "New game.")
		assert.Equal(t, entity.Board{}, ui.controller.Board())
		assert.Equal(t, entity.StatusAwaitingHuman, ui.controller.Status())
	})

	t.Run("Game ends without a human win", func(t *testing.T) {
		// Given: the player keeps trying every cell in order
		_, output := runUI(t, strings.Repeat("1\n2\n3\n4\n5\n6\n7\n8\n9\n", 2))

		// Then: the end of the game is announced and the computer did not lose
		assert.Contains(t, output, "Enter r to play again or q to quit.")
		assert.NotContains(t, output, "Player X has won!")
	})
}

func TestUI_Colors(t *testing.T) {
	var output bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ui := New(logger, strings.NewReader(""), &output, termenv.WithProfile(termenv.TrueColor))

	assert.NotEqual(t, "X", ui.styleMark(entity.PlayerX))
	assert.Contains(t, ui.styleMark(entity.PlayerX), "X")
	assert.NotEqual(t, ui.styleMark(entity.PlayerX), ui.styleMark(entity.PlayerO))
}
