package repository

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/rocketscienceinc/tictactoe-spa/internal/entity"
)

type memoryGame struct {
	cache *ttlcache.Cache[string, gameRecord]
}

// NewMemoryGameRepository - keeps games in process memory for ttl after their last write.
func NewMemoryGameRepository(ttl time.Duration) GameRepository {
	return newMemoryGameRepository(ttl)
}

func newMemoryGameRepository(ttl time.Duration) *memoryGame {
	return &memoryGame{
		// reads do not extend the ttl, same as redis GET
		cache: ttlcache.New[string, gameRecord](
			ttlcache.WithTTL[string, gameRecord](ttl),
			ttlcache.WithDisableTouchOnHit[string, gameRecord](),
		),
	}
}

func (that *memoryGame) CreateOrUpdate(_ context.Context, id string, game *entity.GameState) error {
	that.cache.DeleteExpired()
	that.cache.Set(id, toRecord(game), ttlcache.DefaultTTL)

	return nil
}

func (that *memoryGame) GetByID(_ context.Context, id string) (*entity.GameState, error) {
	item := that.cache.Get(id)
	if item == nil {
		return nil, ErrGameNotFound
	}

	return fromRecord(item.Value())
}

func (that *memoryGame) DeleteByID(_ context.Context, id string) error {
	if that.cache.Get(id) == nil {
		return ErrGameNotFound
	}

	that.cache.Delete(id)

	return nil
}
