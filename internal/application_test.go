package application

import (
	"bytes"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-spa/internal/config"
	"github.com/rocketscienceinc/tictactoe-spa/internal/entity"
	"github.com/rocketscienceinc/tictactoe-spa/testing/suite"
)

func testConfig() *config.Config {
	return &config.Config{
		LogLevel:   "info",
		Mode:       config.ModeWeb,
		HTTPPort:   "0",
		Storage:    config.StorageMemory,
		SessionTTL: time.Hour,
	}
}

func TestNewGameRepository(t *testing.T) {
	t.Run("Memory store", func(t *testing.T) {
		ctx := context.Background()

		repo, closeStore, err := newGameRepository(ctx, testConfig())
		require.NoError(t, err)
		defer func() { assert.NoError(t, closeStore()) }()

		game := entity.NewGameState()
		require.NoError(t, repo.CreateOrUpdate(ctx, "session", &game))

		stored, err := repo.GetByID(ctx, "session")
		require.NoError(t, err)
		assert.Equal(t, game, *stored)
	})

	t.Run("Redis store", func(t *testing.T) {
		ctx, s := suite.New(t)

		host, port, err := net.SplitHostPort(s.RedisAddr)
		require.NoError(t, err)

		conf := testConfig()
		conf.Storage = config.StorageRedis
		conf.Redis = config.Redis{Host: host, Port: port}

		repo, closeStore, err := newGameRepository(ctx, conf)
		require.NoError(t, err)
		defer func() { assert.NoError(t, closeStore()) }()

		game := entity.NewGameState()
		game.Board[4] = entity.X
		game.Turn = entity.O
		require.NoError(t, repo.CreateOrUpdate(ctx, "session", &game))

		ttl, err := s.Storage.TTL(ctx, "game:session").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
	})

	t.Run("Redis unreachable", func(t *testing.T) {
		// Given: nothing listening on the port
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		_, port, _ := net.SplitHostPort(listener.Addr().String())
		require.NoError(t, listener.Close())

		conf := testConfig()
		conf.Storage = config.StorageRedis
		conf.Redis = config.Redis{Host: "127.0.0.1", Port: port}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// When: building the store
		_, _, err = newGameRepository(ctx, conf)

		// Then: the connection error is reported
		assert.ErrorContains(t, err, "could not connect to redis storage")
	})
}

func TestRunConsole(t *testing.T) {
	var out bytes.Buffer
	conf := testConfig()
	conf.Mode = config.ModeConsole

	err := runConsole(context.Background(), suite.NewLogger(), conf, strings.NewReader("5\nq\n"), &out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Next player: O")
}

func TestRunWeb_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		errCh <- runWeb(ctx, suite.NewLogger(), testConfig())
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("web mode did not stop")
	}
}

func TestRunApp_UnknownMode(t *testing.T) {
	conf := testConfig()
	conf.Mode = "carrier-pigeon"

	err := RunApp(suite.NewLogger(), conf)

	assert.ErrorIs(t, err, ErrUnknownMode)
}
