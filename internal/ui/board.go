// Package ui draws the game in the terminal with tview.
package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/rocketscienceinc/tictactoe-spa/internal/entity"
	"github.com/rocketscienceinc/tictactoe-spa/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-spa/internal/view"
)

const (
	// each cell is three columns wide plus a separator
	cellWidth  = 4
	cellHeight = 2

	BoardWidth  = 3*cellWidth - 1
	BoardHeight = 3*cellHeight - 1
)

type BoardUI struct {
	Box        *tview.Box
	controller *tictactoe.GameController
	status     *tview.TextView
	selected   int
	color      bool
}

func NewBoard(controller *tictactoe.GameController, status *tview.TextView, color bool) *BoardUI {
	board := &BoardUI{
		Box:        tview.NewBox(),
		controller: controller,
		status:     status,
		selected:   4,
		color:      color,
	}

	board.Box.SetDrawFunc(func(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
		board.draw(screen, x, y)
		return x, y, width, height
	})
	board.Box.SetInputCapture(board.HandleKey)
	board.Box.SetMouseCapture(func(action tview.MouseAction, event *tcell.EventMouse) (tview.MouseAction, *tcell.EventMouse) {
		if action != tview.MouseLeftClick {
			return action, event
		}

		if cell, ok := board.CellAt(event.Position()); ok {
			board.selected = cell
			board.Play(cell)
			return action, nil
		}

		return action, event
	})

	board.refreshStatus()

	return board
}

// Selected - index of the cell under the cursor.
func (that *BoardUI) Selected() int {
	return that.selected
}

// MoveSelection - moves the cursor by h columns and v rows, stopping at the edges.
func (that *BoardUI) MoveSelection(h, v int) {
	row, col := that.selected/3+v, that.selected%3+h
	if row < 0 || row > 2 || col < 0 || col > 2 {
		return
	}

	that.selected = row*3 + col
}

// Play - forwards a move to the controller. Illegal moves are ignored by the controller.
func (that *BoardUI) Play(cell int) {
	that.controller.ApplyMove(cell)
	that.refreshStatus()
}

func (that *BoardUI) Restart() {
	that.controller.Restart()
	that.selected = 4
	that.refreshStatus()
}

// HandleKey - arrows or hjkl move the cursor, Enter or Space plays it, 1-9 play a cell, r restarts.
func (that *BoardUI) HandleKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyUp:
		that.MoveSelection(0, -1)
	case tcell.KeyDown:
		that.MoveSelection(0, 1)
	case tcell.KeyLeft:
		that.MoveSelection(-1, 0)
	case tcell.KeyRight:
		that.MoveSelection(1, 0)
	case tcell.KeyEnter:
		that.Play(that.selected)
	case tcell.KeyRune:
		return that.handleRune(event)
	default:
		return event
	}

	return nil
}

func (that *BoardUI) handleRune(event *tcell.EventKey) *tcell.EventKey {
	switch r := event.Rune(); {
	case r == 'k':
		that.MoveSelection(0, -1)
	case r == 'j':
		that.MoveSelection(0, 1)
	case r == 'h':
		that.MoveSelection(-1, 0)
	case r == 'l':
		that.MoveSelection(1, 0)
	case r == ' ':
		that.Play(that.selected)
	case r == 'r':
		that.Restart()
	case r >= '1' && r <= '9':
		that.selected = int(r - '1')
		that.Play(that.selected)
	default:
		return event
	}

	return nil
}

// CellAt - board cell under the screen position, if any.
func (that *BoardUI) CellAt(screenX, screenY int) (int, bool) {
	x, y, _, _ := that.Box.GetInnerRect()
	dx, dy := screenX-x, screenY-y
	if dx < 0 || dy < 0 || dx >= BoardWidth || dy >= BoardHeight {
		return 0, false
	}

	// separators belong to no cell
	if dx%cellWidth == cellWidth-1 || dy%cellHeight == cellHeight-1 {
		return 0, false
	}

	return (dy/cellHeight)*3 + dx/cellWidth, true
}

func (that *BoardUI) refreshStatus() {
	if that.status == nil {
		return
	}

	state := that.controller.State()
	that.status.SetText(view.Message(state.Outcome, state.Turn))
}

func (that *BoardUI) draw(screen tcell.Screen, x, y int) {
	state := that.controller.State()
	lineStyle := tcell.StyleDefault

	for row := 0; row < 3; row++ {
		top := y + row*cellHeight

		for col := 0; col < 3; col++ {
			index := row*3 + col
			left := x + col*cellWidth
			style := that.cellStyle(state, index)

			screen.SetContent(left, top, ' ', nil, style)
			screen.SetContent(left+1, top, markRune(state.Board[index]), nil, style)
			screen.SetContent(left+2, top, ' ', nil, style)

			if col < 2 {
				screen.SetContent(left+3, top, tview.BoxDrawingsLightVertical, nil, lineStyle)
			}
		}

		if row == 2 {
			continue
		}

		for dx := 0; dx < BoardWidth; dx++ {
			r := tview.BoxDrawingsLightHorizontal
			if dx%cellWidth == cellWidth-1 {
				r = tview.BoxDrawingsLightVerticalAndHorizontal
			}
			screen.SetContent(x+dx, top+1, r, nil, lineStyle)
		}
	}
}

func (that *BoardUI) cellStyle(state entity.GameState, index int) tcell.Style {
	style := tcell.StyleDefault

	if that.color {
		switch state.Board[index] {
		case entity.X:
			style = style.Foreground(tcell.ColorDodgerBlue).Bold(true)
		case entity.O:
			style = style.Foreground(tcell.ColorOrangeRed).Bold(true)
		}

		if state.Outcome.OnLine(index) {
			style = style.Background(tcell.ColorGold).Foreground(tcell.ColorBlack)
		}
	} else if state.Outcome.OnLine(index) {
		style = style.Underline(true)
	}

	if index == that.selected && !state.Outcome.IsFinished() {
		style = style.Reverse(true)
	}

	return style
}

func markRune(cell entity.Cell) rune {
	switch cell {
	case entity.X:
		return 'X'
	case entity.O:
		return 'O'
	default:
		return ' '
	}
}
