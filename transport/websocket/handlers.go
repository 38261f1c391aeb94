package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
)

func (that *Server) handleNewGame(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleNewGame")

	turn, err := that.sessions.NewGame(ctx)
	if err != nil {
		log.Error("failed to create game", "error", err)
		return that.sendErrorResponse(conn, msg.Action, "failed to create a new game")
	}

	log.Info("game created", "gameID", turn.Game.ID)

	return that.sendTurn(conn, msg.Action, turn)
}

func (that *Server) handleGetGame(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	payloadReq, err := that.readGamePayload(msg, conn)
	if payloadReq == nil {
		return err
	}

	game, err := that.sessions.GetGame(ctx, payloadReq.GameID)
	if err != nil {
		return that.sendGameError(conn, msg.Action, payloadReq.GameID, err)
	}

	return that.sendMessage(conn, msg.Action, Payload{GameID: game.ID, Game: game})
}

func (that *Server) handleGameTurn(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleGameTurn")

	payloadReq, err := that.readGamePayload(msg, conn)
	if payloadReq == nil {
		return err
	}

	if payloadReq.Cell == nil {
		log.Error("Cell is missing in payload")
		return that.sendErrorResponse(conn, msg.Action, "Cell is required")
	}

	turn, err := that.sessions.MakeTurn(ctx, payloadReq.GameID, *payloadReq.Cell)
	if err != nil {
		return that.sendGameError(conn, msg.Action, payloadReq.GameID, err)
	}

	if !turn.Accepted {
		log.Debug("move ignored", "gameID", payloadReq.GameID, "cell", *payloadReq.Cell)
	}

	return that.sendTurn(conn, msg.Action, turn)
}

func (that *Server) handleGameRestart(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	payloadReq, err := that.readGamePayload(msg, conn)
	if payloadReq == nil {
		return err
	}

	turn, err := that.sessions.Restart(ctx, payloadReq.GameID)
	if err != nil {
		return that.sendGameError(conn, msg.Action, payloadReq.GameID, err)
	}

	return that.sendTurn(conn, msg.Action, turn)
}

func (that *Server) handleGameLeave(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleGameLeave")

	payloadReq, err := that.readGamePayload(msg, conn)
	if payloadReq == nil {
		return err
	}

	if err = that.sessions.EndGame(ctx, payloadReq.GameID); err != nil {
		return that.sendGameError(conn, msg.Action, payloadReq.GameID, err)
	}

	log.Info("Player leaving", "gameID", payloadReq.GameID)

	return that.sendMessage(conn, msg.Action, Payload{GameID: payloadReq.GameID})
}

// readGamePayload decodes a payload that must name a game. On failure the
// client has been answered and a nil payload is returned.
func (that *Server) readGamePayload(msg *Message, conn *websocket.Conn) (*Payload, error) {
	var payloadReq Payload

	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		if sendErr := that.sendErrorResponse(conn, msg.Action, "invalid payload"); sendErr != nil {
			return nil, sendErr
		}
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payloadReq.GameID == "" {
		return nil, that.sendErrorResponse(conn, msg.Action, "Game is required")
	}

	return &payloadReq, nil
}

func (that *Server) sendGameError(conn *websocket.Conn, action, gameID string, err error) error {
	if errors.Is(err, apperror.ErrGameNotFound) {
		return that.sendErrorResponse(conn, action, fmt.Sprintf("game %s: %v", gameID, apperror.ErrGameNotFound))
	}

	that.logger.Error("request failed", "action", action, "gameID", gameID, "error", err)

	return that.sendErrorResponse(conn, action, "Internal Server Error")
}
