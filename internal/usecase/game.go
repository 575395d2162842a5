package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/moby/locker"

	"github.com/rocketscienceinc/tictactoe-spa/internal/entity"
	"github.com/rocketscienceinc/tictactoe-spa/internal/repository"
	"github.com/rocketscienceinc/tictactoe-spa/internal/tictactoe"
)

var ErrEmptySession = errors.New("session id is empty")

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, id string, game *entity.GameState) error
	GetByID(ctx context.Context, id string) (*entity.GameState, error)
	DeleteByID(ctx context.Context, id string) error
}

// GameSession runs one game per browser session on top of a game store.
// Every call loads the session's game, applies one transition and stores the result,
// which also pushes the expiry of an active session forward.
type GameSession struct {
	logger   *slog.Logger
	gameRepo gameRepo
	locks    *locker.Locker
}

func NewGameSession(logger *slog.Logger, gameRepo gameRepo) *GameSession {
	return &GameSession{
		logger:   logger.With("component", "game_session"),
		gameRepo: gameRepo,
		locks:    locker.New(),
	}
}

// State - returns the session's game, starting a new one if there is none.
func (that *GameSession) State(ctx context.Context, sessionID string) (entity.GameState, error) {
	return that.transition(ctx, sessionID, nil)
}

// ApplyMove - plays cell for whoever is to move. Illegal moves leave the game unchanged and are not errors.
func (that *GameSession) ApplyMove(ctx context.Context, sessionID string, cell int) (entity.GameState, error) {
	return that.transition(ctx, sessionID, func(controller *tictactoe.GameController) {
		controller.ApplyMove(cell)
	})
}

// Restart - discards the session's game. The next access starts a new one.
func (that *GameSession) Restart(ctx context.Context, sessionID string) (entity.GameState, error) {
	log := that.logger.With("method", "Restart", "session", sessionID)

	if sessionID == "" {
		return entity.GameState{}, ErrEmptySession
	}

	unlock := that.lock(sessionID)
	defer unlock()

	err := that.gameRepo.DeleteByID(ctx, sessionID)
	if err != nil && !errors.Is(err, repository.ErrGameNotFound) {
		return entity.GameState{}, fmt.Errorf("failed to delete game: %w", err)
	}

	log.Debug("game discarded")

	return entity.NewGameState(), nil
}

func (that *GameSession) transition(
	ctx context.Context,
	sessionID string,
	apply func(controller *tictactoe.GameController),
) (entity.GameState, error) {
	log := that.logger.With("method", "transition", "session", sessionID)

	if sessionID == "" {
		return entity.GameState{}, ErrEmptySession
	}

	unlock := that.lock(sessionID)
	defer unlock()

	controller, err := that.load(ctx, sessionID)
	if err != nil {
		return entity.GameState{}, err
	}

	if apply != nil {
		apply(controller)
	}
	state := controller.State()

	// saved even when unchanged to restart the store ttl
	if err = that.gameRepo.CreateOrUpdate(ctx, sessionID, &state); err != nil {
		return entity.GameState{}, fmt.Errorf("failed to save game: %w", err)
	}

	log.Debug("game saved", "turn", state.Turn.String(), "status", state.Outcome.Kind.String())

	return state, nil
}

// lock - serializes the calls of one session. The lock entry is dropped once released.
func (that *GameSession) lock(sessionID string) func() {
	that.locks.Lock(sessionID)

	return func() {
		if err := that.locks.Unlock(sessionID); err != nil {
			that.logger.Error("failed to release session lock", "session", sessionID, "error", err)
		}
	}
}

// load - returns the stored game of the session or a fresh one. A stored game that
// cannot be decoded is replaced by a fresh game instead of failing every request.
func (that *GameSession) load(ctx context.Context, sessionID string) (*tictactoe.GameController, error) {
	log := that.logger.With("method", "load", "session", sessionID)

	game, err := that.gameRepo.GetByID(ctx, sessionID)
	switch {
	case err == nil:
		return tictactoe.Restore(game.Board, game.Turn), nil
	case errors.Is(err, repository.ErrGameNotFound):
		log.Debug("no game for session, starting a new one")
		return tictactoe.NewGameController(), nil
	case errors.Is(err, repository.ErrMalformedGame):
		log.Warn("stored game is malformed, starting a new one", "error", err)
		return tictactoe.NewGameController(), nil
	default:
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
}
