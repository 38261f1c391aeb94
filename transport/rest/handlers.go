package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/usecase"
)

type sessionManager interface {
	NewGame(ctx context.Context) (*usecase.Turn, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	MakeTurn(ctx context.Context, id string, cell int) (*usecase.Turn, error)
	Restart(ctx context.Context, id string) (*usecase.Turn, error)
	EndGame(ctx context.Context, id string) error
}

type GameHandlers interface {
	CreateGame(w http.ResponseWriter, r *http.Request)
	GetGame(w http.ResponseWriter, r *http.Request)
	MakeTurn(w http.ResponseWriter, r *http.Request)
	Restart(w http.ResponseWriter, r *http.Request)
	EndGame(w http.ResponseWriter, r *http.Request)
}

type errorResponse struct {
	Error string `json:"error"`
}

type gameHandlers struct {
	logger   *slog.Logger
	sessions sessionManager
}

func NewGameHandlers(logger *slog.Logger, sessions sessionManager) GameHandlers {
	return &gameHandlers{
		logger:   logger,
		sessions: sessions,
	}
}

func (that *gameHandlers) CreateGame(w http.ResponseWriter, r *http.Request) {
	turn, err := that.sessions.NewGame(r.Context())
	if err != nil {
		that.writeError(w, r, "CreateGame", err)
		return
	}

	that.writeJSON(w, http.StatusCreated, turn)
}

func (that *gameHandlers) GetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.sessions.GetGame(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		that.writeError(w, r, "GetGame", err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

// MakeTurn - plays the human move. A well-formed cell outside the board is
// not an error: the response says the move was not accepted.
func (that *gameHandlers) MakeTurn(w http.ResponseWriter, r *http.Request) {
	cell, err := strconv.Atoi(chi.URLParam(r, "cell"))
	if err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "cell must be a number"})
		return
	}

	turn, err := that.sessions.MakeTurn(r.Context(), chi.URLParam(r, "gameID"), cell)
	if err != nil {
		that.writeError(w, r, "MakeTurn", err)
		return
	}

	that.writeJSON(w, http.StatusOK, turn)
}

func (that *gameHandlers) Restart(w http.ResponseWriter, r *http.Request) {
	turn, err := that.sessions.Restart(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		that.writeError(w, r, "Restart", err)
		return
	}

	that.writeJSON(w, http.StatusOK, turn)
}

func (that *gameHandlers) EndGame(w http.ResponseWriter, r *http.Request) {
	if err := that.sessions.EndGame(r.Context(), chi.URLParam(r, "gameID")); err != nil {
		that.writeError(w, r, "EndGame", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *gameHandlers) writeError(w http.ResponseWriter, r *http.Request, method string, err error) {
	if errors.Is(err, apperror.ErrGameNotFound) {
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: apperror.ErrGameNotFound.Error()})
		return
	}

	that.logger.Error("request failed", "method", method, "path", r.URL.Path, "error", err)
	that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal Server Error"})
}

func (that *gameHandlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
