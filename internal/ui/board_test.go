package ui

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-spa/internal/entity"
	"github.com/rocketscienceinc/tictactoe-spa/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-spa/testing/suite"
)

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func newTestBoard() (*BoardUI, *tictactoe.GameController, *tview.TextView) {
	controller := tictactoe.NewGameController()
	status := tview.NewTextView()
	board := NewBoard(controller, status, true)
	board.Box.SetRect(0, 0, BoardWidth, BoardHeight)

	return board, controller, status
}

func drawBoard(t *testing.T, board *BoardUI) ([]tcell.SimCell, int) {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(BoardWidth, BoardHeight)

	board.Box.Draw(screen)
	screen.Show()

	cells, width, _ := screen.GetContents()

	return cells, width
}

func runeAt(cells []tcell.SimCell, width, x, y int) rune {
	runes := cells[y*width+x].Runes
	if len(runes) == 0 {
		return ' '
	}

	return runes[0]
}

func TestBoardUI_Keys(t *testing.T) {
	t.Run("Cursor starts in the centre and stops at the edges", func(t *testing.T) {
		board, _, _ := newTestBoard()
		require.Equal(t, 4, board.Selected())

		board.HandleKey(key(tcell.KeyUp))
		board.HandleKey(key(tcell.KeyUp))
		assert.Equal(t, 1, board.Selected())

		board.HandleKey(runeKey('h'))
		board.HandleKey(runeKey('h'))
		assert.Equal(t, 0, board.Selected())

		board.HandleKey(key(tcell.KeyDown))
		board.HandleKey(runeKey('j'))
		board.HandleKey(runeKey('j'))
		board.HandleKey(key(tcell.KeyRight))
		board.HandleKey(runeKey('l'))
		board.HandleKey(runeKey('l'))
		assert.Equal(t, 8, board.Selected())

		board.HandleKey(runeKey('k'))
		board.HandleKey(key(tcell.KeyLeft))
		assert.Equal(t, 4, board.Selected())
	})

	t.Run("Enter and space play the cursor cell", func(t *testing.T) {
		board, controller, status := newTestBoard()

		assert.Nil(t, board.HandleKey(key(tcell.KeyEnter)))
		board.HandleKey(key(tcell.KeyRight))
		board.HandleKey(runeKey(' '))

		assert.Equal(t, entity.X, controller.State().Board[4])
		assert.Equal(t, entity.O, controller.State().Board[5])
		assert.Equal(t, "Next player: X", status.GetText(true))
	})

	t.Run("Digits play a cell and r restarts", func(t *testing.T) {
		// Given: a board
		board, controller, status := newTestBoard()

		// When: X completes the top row with digit keys
		for _, r := range "14253" {
			board.HandleKey(runeKey(r))
		}

		// Then: X wins and the status says so
		assert.Equal(t, entity.Win, controller.State().Outcome.Kind)
		assert.Equal(t, "Winner: X", status.GetText(true))

		// When: restarting
		board.HandleKey(runeKey('r'))

		// Then: the game is new and the cursor is centred
		assert.Equal(t, entity.NewGameState(), controller.State())
		assert.Equal(t, 4, board.Selected())
		assert.Equal(t, "Next player: X", status.GetText(true))
	})

	t.Run("Unknown keys pass through", func(t *testing.T) {
		board, controller, _ := newTestBoard()

		event := runeKey('z')
		assert.Equal(t, event, board.HandleKey(event))

		event = key(tcell.KeyTab)
		assert.Equal(t, event, board.HandleKey(event))

		assert.Equal(t, entity.NewGameState(), controller.State())
	})
}

func TestBoardUI_CellAt(t *testing.T) {
	board, _, _ := newTestBoard()
	board.Box.SetRect(10, 5, BoardWidth, BoardHeight)

	cases := []struct {
		x, y int
		cell int
		ok   bool
	}{
		{10, 5, 0, true},
		{12, 5, 0, true},
		{13, 5, 0, false}, // separator
		{14, 5, 1, true},
		{18, 7, 5, true},
		{20, 9, 8, true},
		{11, 6, 0, false}, // separator row
		{9, 5, 0, false},
		{21, 9, 0, false},
		{10, 10, 0, false},
	}

	for _, tc := range cases {
		cell, ok := board.CellAt(tc.x, tc.y)

		assert.Equal(t, tc.ok, ok, "%d,%d", tc.x, tc.y)
		if tc.ok {
			assert.Equal(t, tc.cell, cell, "%d,%d", tc.x, tc.y)
		}
	}
}

func TestBoardUI_Draw(t *testing.T) {
	t.Run("Marks and grid", func(t *testing.T) {
		// Given: X in the corner and O in the centre
		board, _, _ := newTestBoard()
		board.Play(0)
		board.Play(4)

		// When: drawing
		cells, width := drawBoard(t, board)

		// Then: marks are centred in their cells and separated by lines
		assert.Equal(t, 'X', runeAt(cells, width, 1, 0))
		assert.Equal(t, 'O', runeAt(cells, width, 5, 2))
		assert.Equal(t, ' ', runeAt(cells, width, 9, 4))
		assert.Equal(t, tview.BoxDrawingsLightVertical, runeAt(cells, width, 3, 0))
		assert.Equal(t, tview.BoxDrawingsLightHorizontal, runeAt(cells, width, 0, 1))
		assert.Equal(t, tview.BoxDrawingsLightVerticalAndHorizontal, runeAt(cells, width, 7, 3))
	})

	t.Run("Winning line is highlighted", func(t *testing.T) {
		// Given: X won on the top row
		board, _, _ := newTestBoard()
		for _, cell := range []int{0, 3, 1, 4, 2} {
			board.Play(cell)
		}

		// When: drawing
		cells, width := drawBoard(t, board)

		// Then: the winning cells have the highlight background
		_, bg, _ := cells[0*width+1].Style.Decompose()
		assert.Equal(t, tcell.ColorGold, bg)

		_, bg, _ = cells[2*width+1].Style.Decompose()
		assert.NotEqual(t, tcell.ColorGold, bg)
	})
}

func TestApp_Run(t *testing.T) {
	// Given: the app on a simulated screen with a move and quit queued
	app := NewApp(suite.NewLogger(), false)
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	app.SetScreen(screen)
	screen.InjectKey(tcell.KeyRune, '5', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	// When: running it
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Run(context.Background())
	}()

	// Then: it stops on q after playing the centre
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("terminal UI did not stop")
	}

	assert.Equal(t, entity.X, app.Board.controller.State().Board[4])
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	app := NewApp(suite.NewLogger(), true)
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	app.SetScreen(screen)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Run(ctx)
	}()

	// let the event loop start so Stop finds the simulated screen
	time.Sleep(300 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("terminal UI did not stop")
	}
}
