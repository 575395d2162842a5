package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	app "github.com/rocketscienceinc/tictactoe-spa/internal"
	"github.com/rocketscienceinc/tictactoe-spa/internal/config"
)

// main - is the entry point of the application. It initializes the configuration, logger, and runs the application.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	conf := initConfig(os.Args[1:])
	logger := initLogger(conf)

	if err := app.RunApp(logger, conf); err != nil {
		panic(fmt.Errorf("app run failed: %w", err))
	}
}

// initialize config. Flags override what the file and environment say.
func initConfig(args []string) *config.Config {
	flags := flag.NewFlagSet("tictactoe", flag.ExitOnError)
	path := flags.String("config", "", "path to config.yml, searched in the XDG config dirs when empty")
	mode := flags.String("mode", "", "web, terminal or console")

	// ExitOnError handles parse failures
	_ = flags.Parse(args)

	conf := config.MustLoad(*path)

	if *mode != "" {
		conf.Mode = *mode
		if err := conf.Validate(); err != nil {
			panic(fmt.Errorf("invalid flags: %w", err))
		}
	}

	return conf
}

// initialize logger. The terminal front-ends own stdout, so they only log warnings to stderr.
func initLogger(conf *config.Config) *slog.Logger {
	level := parseLevel(conf.LogLevel)

	var out io.Writer = os.Stdout
	if conf.Mode != config.ModeWeb {
		out = os.Stderr
		level = max(level, slog.LevelWarn)
	}

	if conf.Mode == config.ModeWeb {
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
	}

	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
}

func parseLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
