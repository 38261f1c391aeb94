package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/usecase"
)

const (
	actionGameNew     = "game:new"
	actionGameGet     = "game:get"
	actionGameTurn    = "game:turn"
	actionGameRestart = "game:restart"
	actionGameLeave   = "game:leave"

	actionMarkPlaced   = "mark:placed"
	actionGameEnded    = "game:ended"
	actionBoardCleared = "board:cleared"
)

// eventActions maps recorded game events to the action they are pushed with.
var eventActions = map[string]string{
	usecase.EventMarkPlaced:   actionMarkPlaced,
	usecase.EventGameEnded:    actionGameEnded,
	usecase.EventBoardCleared: actionBoardCleared,
}

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	GameID   string         `json:"game_id,omitempty"`
	Cell     *int           `json:"cell,omitempty"`
	Game     *entity.Game   `json:"game,omitempty"`
	Event    *usecase.Event `json:"event,omitempty"`
	Accepted *bool          `json:"accepted,omitempty"`
	Error    string         `json:"error,omitempty"`
}

func (that *Server) sendMessage(conn *websocket.Conn, action string, payload Payload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err = conn.WriteJSON(Message{Action: action, Payload: payloadJSON}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *Server) sendErrorResponse(conn *websocket.Conn, action, errorMsg string) error {
	if err := that.sendMessage(conn, action, Payload{Error: errorMsg}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}

// sendTurn pushes every recorded event followed by the resulting game.
func (that *Server) sendTurn(conn *websocket.Conn, action string, turn *usecase.Turn) error {
	for i := range turn.Events {
		event := turn.Events[i]
		if err := that.sendMessage(conn, eventActions[event.Type], Payload{GameID: turn.Game.ID, Event: &event}); err != nil {
			return err
		}
	}

	accepted := turn.Accepted
	return that.sendMessage(conn, action, Payload{GameID: turn.Game.ID, Game: turn.Game, Accepted: &accepted})
}
