package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*SessionManager, repository.GameRepository) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gameRepo := repository.NewMemoryGameRepository()

	return NewSessionManager(logger, gameRepo), gameRepo
}

func cellPtr(cell int) *int {
	return &cell
}

func TestSessionManager_NewGame(t *testing.T) {
	ctx := context.Background()
	manager, gameRepo := newTestManager(t)

	// When: a new game is created
	turn, err := manager.NewGame(ctx)

	// Then: the game is stored with an empty board and a uuid
	require.NoError(t, err)
	assert.True(t, turn.Accepted)
	assert.Empty(t, turn.Events)
	assert.NotNil(t, turn.Events)

	_, err = uuid.Parse(turn.Game.ID)
	require.NoError(t, err)

	stored, err := gameRepo.GetByID(ctx, turn.Game.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.NewGame(turn.Game.ID), stored)
}

func TestSessionManager_MakeTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("Human and computer moves are recorded", func(t *testing.T) {
		// Given: a new game
		manager, gameRepo := newTestManager(t)
		created, err := manager.NewGame(ctx)
		require.NoError(t, err)

		// When: the human plays the center
		turn, err := manager.MakeTurn(ctx, created.Game.ID, 4)

		// Then: both moves are reported in order and stored
		require.NoError(t, err)
		assert.True(t, turn.Accepted)
		assert.Equal(t, []Event{
			{Type: EventMarkPlaced, Cell: cellPtr(4), Mark: entity.HumanMark},
			{Type: EventMarkPlaced, Cell: cellPtr(0), Mark: entity.ComputerMark},
		}, turn.Events)

		stored, err := gameRepo.GetByID(ctx, created.Game.ID)
		require.NoError(t, err)
		assert.Equal(t, turn.Game, stored)
		assert.Equal(t, entity.StatusAwaitingHuman, stored.Status)
	})

	t.Run("Ignored move is not an error", func(t *testing.T) {
		// Given: a game where the human took the center
		manager, _ := newTestManager(t)
		created, err := manager.NewGame(ctx)
		require.NoError(t, err)
		first, err := manager.MakeTurn(ctx, created.Game.ID, 4)
		require.NoError(t, err)

		// When: the human plays the same cell and an invalid one
		again, err := manager.MakeTurn(ctx, created.Game.ID, 4)
		require.NoError(t, err)
		outside, err := manager.MakeTurn(ctx, created.Game.ID, 42)
		require.NoError(t, err)

		// Then: neither move is accepted and the game is unchanged
		assert.False(t, again.Accepted)
		assert.False(t, outside.Accepted)
		assert.Empty(t, again.Events)
		assert.Equal(t, first.Game, again.Game)
		assert.Equal(t, first.Game, outside.Game)
	})

	t.Run("Winning move ends the game", func(t *testing.T) {
		// Given: a stored game where X can complete the top row
		manager, gameRepo := newTestManager(t)
		game := &entity.Game{
			ID:     "123",
			Board:  entity.Board{entity.PlayerX, entity.PlayerX, "", entity.PlayerO, entity.PlayerO},
			Status: entity.StatusAwaitingHuman,
		}
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

		// When: the human plays 2
		turn, err := manager.MakeTurn(ctx, "123", 2)

		// Then: the end of the game is reported
		require.NoError(t, err)
		require.Len(t, turn.Events, 2)
		assert.Equal(t, EventGameEnded, turn.Events[1].Type)
		assert.Equal(t, "Player X has won!", turn.Events[1].Notice)
		assert.Equal(t, &entity.Result{Status: entity.StatusWon, Winner: entity.PlayerX}, turn.Events[1].Result)
		assert.True(t, turn.Game.IsFinished())
	})

	t.Run("Unknown game", func(t *testing.T) {
		manager, _ := newTestManager(t)

		_, err := manager.MakeTurn(ctx, "9999999", 0)

		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Corrupted snapshot", func(t *testing.T) {
		// Given: a stored board with more O than X
		manager, gameRepo := newTestManager(t)
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, &entity.Game{
			ID:     "123",
			Board:  entity.Board{entity.PlayerO},
			Status: entity.StatusAwaitingHuman,
		}))

		// When: the human tries to move
		_, err := manager.MakeTurn(ctx, "123", 1)

		// Then: the game cannot be restored
		require.ErrorIs(t, err, apperror.ErrInvalidBoard)
	})
}

func TestSessionManager_ResumedSnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("Computer move is stored even when the click is ignored", func(t *testing.T) {
		// Given: a game stored while the computer was to answer a corner opening
		manager, gameRepo := newTestManager(t)
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, &entity.Game{
			ID:     "123",
			Board:  entity.Board{entity.PlayerX},
			Status: entity.StatusAwaitingComputer,
		}))

		// When: the human clicks the occupied corner
		turn, err := manager.MakeTurn(ctx, "123", 0)

		// Then: the click is ignored but the computer answer is reported and kept
		require.NoError(t, err)
		assert.False(t, turn.Accepted)
		assert.Equal(t, []Event{{Type: EventMarkPlaced, Cell: cellPtr(4), Mark: entity.ComputerMark}}, turn.Events)

		stored, err := gameRepo.GetByID(ctx, "123")
		require.NoError(t, err)
		assert.Equal(t, entity.ComputerMark, stored.Board[4])
		assert.Equal(t, entity.StatusAwaitingHuman, stored.Status)
	})

	t.Run("Won board stored as in progress", func(t *testing.T) {
		// Given: a stored board where X already completed the top row
		manager, gameRepo := newTestManager(t)
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, &entity.Game{
			ID:     "123",
			Board:  entity.Board{entity.PlayerX, entity.PlayerX, entity.PlayerX, entity.PlayerO, entity.PlayerO},
			Status: entity.StatusAwaitingHuman,
		}))

		// When: the human tries to keep playing
		_, err := manager.MakeTurn(ctx, "123", 5)

		// Then: the game cannot be restored and is left untouched
		require.ErrorIs(t, err, apperror.ErrInvalidBoard)

		stored, err := gameRepo.GetByID(ctx, "123")
		require.NoError(t, err)
		assert.Equal(t, entity.EmptyCell, stored.Board[5])
	})
}

func TestSessionManager_Restart(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager(t)

	// Given: a game with two moves played
	created, err := manager.NewGame(ctx)
	require.NoError(t, err)
	_, err = manager.MakeTurn(ctx, created.Game.ID, 0)
	require.NoError(t, err)

	// When: the game is restarted
	turn, err := manager.Restart(ctx, created.Game.ID)

	// Then: the board is cleared and the id is kept
	require.NoError(t, err)
	assert.Equal(t, []Event{{Type: EventBoardCleared}}, turn.Events)
	assert.Equal(t, entity.NewGame(created.Game.ID), turn.Game)

	game, err := manager.GetGame(ctx, created.Game.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.Board{}, game.Board)
}

func TestSessionManager_EndGame(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager(t)

	created, err := manager.NewGame(ctx)
	require.NoError(t, err)

	require.NoError(t, manager.EndGame(ctx, created.Game.ID))

	_, err = manager.GetGame(ctx, created.Game.ID)
	require.ErrorIs(t, err, apperror.ErrGameNotFound)

	err = manager.EndGame(ctx, created.Game.ID)
	require.ErrorIs(t, err, apperror.ErrGameNotFound)
}

func TestSessionManager_ConcurrentTurns(t *testing.T) {
	ctx := context.Background()
	manager, _ := newTestManager(t)

	// Given: a new game
	created, err := manager.NewGame(ctx)
	require.NoError(t, err)

	// When: many clients click the same free cell at once
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		errs     []error
	)

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			turn, err := manager.MakeTurn(ctx, created.Game.ID, 8)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			if turn.Accepted {
				accepted++
			}
		}()
	}
	wg.Wait()

	// Then: exactly one click is played
	require.NoError(t, errors.Join(errs...))
	assert.Equal(t, 1, accepted)

	game, err := manager.GetGame(ctx, created.Game.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, game.Board.Count(entity.HumanMark))
	assert.Equal(t, 1, game.Board.Count(entity.ComputerMark))
	assert.Empty(t, manager.locks)
}
