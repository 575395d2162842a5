package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-spa/internal/entity"
)

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrMalformedGame = errors.New("malformed stored game")
)

// GameRepository keeps the current game of every browser session.
type GameRepository interface {
	CreateOrUpdate(ctx context.Context, id string, game *entity.GameState) error
	GetByID(ctx context.Context, id string) (*entity.GameState, error)
	DeleteByID(ctx context.Context, id string) error
}

// gameRecord is the stored form of a game. The outcome is not stored: it is derived
// from the board every time the game is loaded.
type gameRecord struct {
	Board [entity.BoardSize]string `json:"board"`
	Turn  string                   `json:"turn"`
}

func toRecord(game *entity.GameState) gameRecord {
	record := gameRecord{Turn: game.Turn.String()}
	for i, cell := range game.Board {
		record.Board[i] = cell.String()
	}

	return record
}

func fromRecord(record gameRecord) (*entity.GameState, error) {
	var board entity.Board
	for i, mark := range record.Board {
		cell, err := entity.ParseCell(mark)
		if err != nil {
			return nil, fmt.Errorf("%w: cell %d: %w", ErrMalformedGame, i, err)
		}

		board[i] = cell
	}

	turn, err := entity.ParseCell(record.Turn)
	if err != nil || turn == entity.Empty {
		return nil, fmt.Errorf("%w: turn %q", ErrMalformedGame, record.Turn)
	}

	return &entity.GameState{
		Board:   board,
		Turn:    turn,
		Outcome: entity.DetectOutcome(board),
	}, nil
}

type dbGame struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGameRepository - stores games in redis under "game:<id>", expiring after ttl.
func NewGameRepository(client *redis.Client, ttl time.Duration) GameRepository {
	return &dbGame{
		client: client,
		ttl:    ttl,
	}
}

func gameKey(id string) string {
	return "game:" + id
}

func (that *dbGame) CreateOrUpdate(ctx context.Context, id string, game *entity.GameState) error {
	gameJSON, err := json.Marshal(toRecord(game))
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	err = that.client.Set(ctx, gameKey(id), gameJSON, that.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	return nil
}

func (that *dbGame) GetByID(ctx context.Context, id string) (*entity.GameState, error) {
	response, err := that.client.Get(ctx, gameKey(id)).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrGameNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	var record gameRecord
	if err = json.Unmarshal([]byte(response), &record); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedGame, err)
	}

	return fromRecord(record)
}

func (that *dbGame) DeleteByID(ctx context.Context, id string) error {
	deleted, err := that.client.Del(ctx, gameKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete game by id: %w", err)
	}

	if deleted == 0 {
		return ErrGameNotFound
	}

	return nil
}
