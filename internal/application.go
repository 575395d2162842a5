package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-spa/internal/config"
	"github.com/rocketscienceinc/tictactoe-spa/internal/console"
	"github.com/rocketscienceinc/tictactoe-spa/internal/repository"
	"github.com/rocketscienceinc/tictactoe-spa/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-spa/internal/ui"
	"github.com/rocketscienceinc/tictactoe-spa/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-spa/transport/rest"
	"github.com/rocketscienceinc/tictactoe-spa/transport/websocket"
)

var ErrUnknownMode = errors.New("unknown mode")

// RunApp - runs the application in the configured mode until it finishes or a signal arrives.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	log.Info("Starting", "mode", conf.Mode)

	switch conf.Mode {
	case config.ModeWeb:
		return runWeb(ctx, logger, conf)
	case config.ModeTerminal:
		return ui.NewApp(logger, conf.Theme.Color).Run(ctx)
	case config.ModeConsole:
		return runConsole(ctx, logger, conf, os.Stdin, os.Stdout)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, conf.Mode)
	}
}

func runWeb(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	gameRepo, closeStore, err := newGameRepository(ctx, conf)
	if err != nil {
		return err
	}

	defer func() {
		if err = closeStore(); err != nil {
			log.Error("could not close game storage", "error", err)
		}
	}()

	gameSession := usecase.NewGameSession(logger, gameRepo)

	server := rest.New(logger, gameSession, conf.SessionTTL)
	server.Handle("/ws", websocket.New(logger, gameSession, conf.SessionTTL))

	log.Info("Starting HTTP server", "port", conf.HTTPPort, "storage", conf.Storage)
	if err = server.Start(ctx, conf.HTTPPort); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

// newGameRepository - builds the configured game store and the function that releases it.
func newGameRepository(ctx context.Context, conf *config.Config) (repository.GameRepository, func() error, error) {
	if conf.Storage != config.StorageRedis {
		return repository.NewMemoryGameRepository(conf.SessionTTL), func() error { return nil }, nil
	}

	redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	return repository.NewGameRepository(redisStorage.Connection, conf.SessionTTL), redisStorage.Close, nil
}

func runConsole(ctx context.Context, logger *slog.Logger, conf *config.Config, in io.Reader, out io.Writer) error {
	if err := console.New(logger, out, conf.Theme.Color).Run(ctx, in); err != nil {
		return fmt.Errorf("console failed: %w", err)
	}

	return nil
}
