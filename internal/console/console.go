// Package console plays the game over plain line based input and output.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"github.com/rocketscienceinc/tictactoe-spa/internal/entity"
	"github.com/rocketscienceinc/tictactoe-spa/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-spa/internal/view"
)

const (
	hint      = "enter 1-9 to play a cell, r to restart, q to quit"
	rowRule   = "---+---+---"
	colorX    = "#1E90FF"
	colorO    = "#FF4500"
	colorLine = "#FFD700"
)

type Console struct {
	logger     *slog.Logger
	controller *tictactoe.GameController
	output     *termenv.Output
}

// New - builds a console writing to out. Without color the output is plain ASCII.
func New(logger *slog.Logger, out io.Writer, color bool) *Console {
	output := termenv.NewOutput(out, termenv.WithProfile(termenv.Ascii))
	if color {
		output = termenv.NewOutput(out)
	}

	return &Console{
		logger:     logger.With("component", "console"),
		controller: tictactoe.NewGameController(),
		output:     output,
	}
}

// State - the game being played.
func (that *Console) State() entity.GameState {
	return that.controller.State()
}

// Render - the board and status line. Empty cells show the number that plays them.
func (that *Console) Render(state entity.GameState) string {
	var sb strings.Builder

	for row := 0; row < 3; row++ {
		if row > 0 {
			sb.WriteString(rowRule + "\n")
		}

		cells := make([]string, 0, 3)
		for col := 0; col < 3; col++ {
			cells = append(cells, that.renderCell(state, row*3+col))
		}

		sb.WriteString(strings.Join(cells, "|") + "\n")
	}

	sb.WriteString(view.Message(state.Outcome, state.Turn) + "\n")

	return sb.String()
}

func (that *Console) renderCell(state entity.GameState, index int) string {
	cell := state.Board[index]

	style := that.output.String(" " + strconv.Itoa(index+1) + " ")
	switch cell {
	case entity.X:
		style = that.output.String(" X ").Foreground(that.output.Color(colorX)).Bold()
	case entity.O:
		style = that.output.String(" O ").Foreground(that.output.Color(colorO)).Bold()
	default:
		style = style.Faint()
	}

	if state.Outcome.OnLine(index) {
		style = style.Background(that.output.Color(colorLine)).Underline()
	}

	return style.String()
}

// Run - reads commands line by line until q, end of input or ctx is canceled.
func (that *Console) Run(ctx context.Context, in io.Reader) error {
	log := that.logger.With("method", "Run")

	// stops the reader once Run returns
	readCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-readCtx.Done():
				return
			}
		}

		readErr <- scanner.Err()
	}()

	if err := that.print(that.Render(that.controller.State()), hint); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			log.Info("context canceled, stopping console")
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}

				return nil
			}

			quit, err := that.handleLine(log, line)
			if err != nil || quit {
				return err
			}
		}
	}
}

func (that *Console) handleLine(log *slog.Logger, line string) (bool, error) {
	command := strings.ToLower(strings.TrimSpace(line))
	log.Debug("command received", "command", command)

	switch command {
	case "":
		return false, nil
	case "q", "quit":
		return true, nil
	case "r", "restart":
		that.controller.Restart()
		return false, that.print(that.Render(that.controller.State()))
	}

	number, err := strconv.Atoi(command)
	if err != nil || number < 1 || number > entity.BoardSize {
		return false, that.print(hint)
	}

	// occupied cells and moves after the end are ignored by the controller
	that.controller.ApplyMove(number - 1)

	return false, that.print(that.Render(that.controller.State()))
}

func (that *Console) print(parts ...string) error {
	for _, part := range parts {
		if _, err := fmt.Fprintln(that.output, strings.TrimSuffix(part, "\n")); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	return nil
}
