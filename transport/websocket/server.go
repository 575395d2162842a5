package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-spa/internal/entity"
	"github.com/rocketscienceinc/tictactoe-spa/internal/pkg"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
)

type gameSession interface {
	State(ctx context.Context, sessionID string) (entity.GameState, error)
	ApplyMove(ctx context.Context, sessionID string, cell int) (entity.GameState, error)
	Restart(ctx context.Context, sessionID string) (entity.GameState, error)
}

type handlerFunc func(ctx context.Context, sessionID string, message *Message) (entity.GameState, error)

// Server upgrades /ws requests and answers game actions on the connection.
type Server struct {
	logger      *slog.Logger
	gameSession gameSession
	sessionTTL  time.Duration
	upgrader    websocket.Upgrader

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, gameSession gameSession, sessionTTL time.Duration) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket"),
		gameSession: gameSession,
		sessionTTL:  sessionTTL,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[ActionState] = server.handleState
	server.handlers[ActionMove] = server.handleMove
	server.handlers[ActionRestart] = server.handleRestart

	return server
}

// ServeHTTP - upgrades the connection to WebSocket and serves it until the client leaves.
func (that *Server) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeConnection")

	sessionID := pkg.SessionID(writer, req, that.sessionTTL)

	conn, err := that.upgrader.Upgrade(writer, req, writer.Header())
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	log.Info("WebSocket connection established", "session", sessionID)

	if err = that.handleMessages(req.Context(), conn, sessionID); err != nil {
		log.Error("error handling messages", "error", err)
	}
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, conn *websocket.Conn, sessionID string) error {
	log := that.logger.With("method", "handleMessages", "session", sessionID)

	conn.SetReadLimit(maxMessageSize)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Info("WebSocket connection closed")
				return nil
			}

			return err
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			if err = that.sendError(conn, "", "malformed message"); err != nil {
				return err
			}
			continue
		}

		if err = that.dispatch(ctx, conn, sessionID, &message); err != nil {
			return err
		}
	}
}

// dispatch - runs the handler for the message action. Only write failures end the connection.
func (that *Server) dispatch(ctx context.Context, conn *websocket.Conn, sessionID string, message *Message) error {
	log := that.logger.With("method", "dispatch", "action", message.Action)

	handler, ok := that.handlers[message.Action]
	if !ok {
		log.Warn("unknown action")
		return that.sendError(conn, message.Action, "unknown action")
	}

	state, err := handler(ctx, sessionID, message)
	switch {
	case errors.Is(err, ErrInvalidPayload):
		return that.sendError(conn, message.Action, err.Error())
	case err != nil:
		log.Error("error processing message", "error", err)
		return that.sendError(conn, message.Action, "internal error")
	}

	return that.sendGame(conn, message.Action, state)
}
