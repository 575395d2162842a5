package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-spa/internal/entity"
	"github.com/rocketscienceinc/tictactoe-spa/internal/view"
)

const (
	ActionState   = "game:state"
	ActionMove    = "game:move"
	ActionRestart = "game:restart"
)

var ErrInvalidPayload = errors.New("invalid payload")

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type MovePayload struct {
	Cell *int `json:"cell"`
}

func (that *Server) handleState(ctx context.Context, sessionID string, _ *Message) (entity.GameState, error) {
	return that.gameSession.State(ctx, sessionID)
}

func (that *Server) handleMove(ctx context.Context, sessionID string, message *Message) (entity.GameState, error) {
	var payload MovePayload
	if err := json.Unmarshal(message.Payload, &payload); err != nil {
		return entity.GameState{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	if payload.Cell == nil {
		return entity.GameState{}, fmt.Errorf("%w: cell is required", ErrInvalidPayload)
	}

	return that.gameSession.ApplyMove(ctx, sessionID, *payload.Cell)
}

func (that *Server) handleRestart(ctx context.Context, sessionID string, _ *Message) (entity.GameState, error) {
	return that.gameSession.Restart(ctx, sessionID)
}

func (that *Server) sendGame(conn *websocket.Conn, action string, state entity.GameState) error {
	payload, err := json.Marshal(view.FromState(state))
	if err != nil {
		return fmt.Errorf("failed to marshal game: %w", err)
	}

	return that.send(conn, Message{Action: action, Payload: payload})
}

func (that *Server) sendError(conn *websocket.Conn, action, reason string) error {
	return that.send(conn, Message{Action: action, Error: reason})
}

func (that *Server) send(conn *websocket.Conn, message Message) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := conn.WriteJSON(message); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}
