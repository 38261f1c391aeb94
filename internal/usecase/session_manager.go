package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

// Turn is the result of a single request against a game.
type Turn struct {
	Game     *entity.Game `json:"game"`
	Events   []Event      `json:"events"`
	Accepted bool         `json:"accepted"`
}

// SessionManager runs games on behalf of remote clients. Each request
// restores the game controller from the repository, applies the request
// and stores the new snapshot.
type SessionManager struct {
	logger   *slog.Logger
	gameRepo gameRepo

	locksMutex sync.Mutex
	locks      map[string]*sessionLock
}

type sessionLock struct {
	sync.Mutex
	refs int
}

func NewSessionManager(logger *slog.Logger, gameRepo gameRepo) *SessionManager {
	return &SessionManager{
		logger:   logger.With("component", "session_manager"),
		gameRepo: gameRepo,
		locks:    make(map[string]*sessionLock),
	}
}

func (that *SessionManager) NewGame(ctx context.Context) (*Turn, error) {
	recorder := &eventRecorder{}
	controller := tictactoe.NewGameController(that.logger, uuid.NewString(), recorder)

	game := controller.Snapshot()
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "gameID", game.ID)

	return &Turn{Game: game, Events: recorder.recorded(), Accepted: true}, nil
}

func (that *SessionManager) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return game, nil
}

// MakeTurn plays the human move at cell and the computer's answer.
// Ignored moves are not an error: the returned turn is not accepted.
func (that *SessionManager) MakeTurn(ctx context.Context, id string, cell int) (*Turn, error) {
	return that.apply(ctx, id, func(controller *tictactoe.GameController) bool {
		return controller.SubmitHumanMove(cell)
	})
}

func (that *SessionManager) Restart(ctx context.Context, id string) (*Turn, error) {
	return that.apply(ctx, id, func(controller *tictactoe.GameController) bool {
		controller.Restart()
		return true
	})
}

func (that *SessionManager) EndGame(ctx context.Context, id string) error {
	unlock := that.lock(id)
	defer unlock()

	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Info("game ended", "gameID", id)

	return nil
}

func (that *SessionManager) apply(ctx context.Context, id string, action func(*tictactoe.GameController) bool) (*Turn, error) {
	unlock := that.lock(id)
	defer unlock()

	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	recorder := &eventRecorder{}
	controller, err := tictactoe.RestoreGameController(that.logger, game, recorder)
	if err != nil {
		return nil, err
	}

	// a snapshot stored mid-turn is resumed on restore
	resumed := *controller.Snapshot() != *game

	accepted := action(controller)
	if !accepted && !resumed {
		return &Turn{Game: game, Events: []Event{}, Accepted: false}, nil
	}

	game = controller.Snapshot()
	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return &Turn{Game: game, Events: recorder.recorded(), Accepted: accepted}, nil
}

// lock serializes requests for one game id.
func (that *SessionManager) lock(id string) func() {
	that.locksMutex.Lock()
	lock, ok := that.locks[id]
	if !ok {
		lock = &sessionLock{}
		that.locks[id] = lock
	}
	lock.refs++
	that.locksMutex.Unlock()

	lock.Lock()

	return func() {
		lock.Unlock()

		that.locksMutex.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(that.locks, id)
		}
		that.locksMutex.Unlock()
	}
}
