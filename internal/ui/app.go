package ui

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/rocketscienceinc/tictactoe-spa/internal/tictactoe"
)

const helpText = "arrows/hjkl move · enter/space play · 1-9 play cell · r restart · q quit"

// App is the terminal front-end: one game, one board, one status line.
type App struct {
	logger *slog.Logger
	app    *tview.Application
	Board  *BoardUI
}

func NewApp(logger *slog.Logger, color bool) *App {
	app := tview.NewApplication()

	status := tview.NewTextView().SetTextAlign(tview.AlignCenter)
	board := NewBoard(tictactoe.NewGameController(), status, color)

	title := tview.NewTextView().SetTextAlign(tview.AlignCenter).SetText("TIC TAC TOE")
	help := tview.NewTextView().SetTextAlign(tview.AlignCenter).SetText(helpText)

	// center the fixed size board horizontally
	boardRow := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(board.Box, BoardWidth, 0, true).
		AddItem(nil, 0, 1, false)

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(title, 2, 0, false).
		AddItem(boardRow, BoardHeight, 0, true).
		AddItem(status, 2, 0, false).
		AddItem(help, 1, 0, false).
		AddItem(nil, 0, 1, false)
	layout.SetBorder(true).SetTitle(" tictactoe ")

	result := &App{
		logger: logger.With("component", "terminal"),
		app:    app,
		Board:  board,
	}

	app.SetInputCapture(result.handleGlobalKey)
	app.SetRoot(layout, true).SetFocus(board.Box).EnableMouse(true)

	return result
}

// handleGlobalKey - q and Esc quit from anywhere.
func (that *App) handleGlobalKey(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() == tcell.KeyEscape || (event.Key() == tcell.KeyRune && event.Rune() == 'q') {
		that.app.Stop()
		return nil
	}

	return event
}

// SetScreen - draws on the given screen instead of the terminal.
func (that *App) SetScreen(screen tcell.Screen) {
	that.app.SetScreen(screen)
}

// Run - blocks until the user quits or ctx is canceled.
func (that *App) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			that.logger.Info("context canceled, stopping terminal UI")
			that.app.Stop()
		case <-done:
		}
	}()

	if err := that.app.Run(); err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}

	return nil
}
