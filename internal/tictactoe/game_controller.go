package tictactoe

import (
	"github.com/rocketscienceinc/tictactoe-spa/internal/entity"
)

// GameController owns a single live game. It is not safe for concurrent use:
// whoever drives the interaction loop holds it and serializes calls.
type GameController struct {
	state entity.GameState
}

// NewGameController - returns a controller holding a fresh game.
func NewGameController() *GameController {
	return &GameController{state: entity.NewGameState()}
}

// Restore - rebuilds a controller from a stored board and turn.
// The outcome is always recomputed from the board; an unknown turn falls back to X.
func Restore(board entity.Board, turn entity.Cell) *GameController {
	if turn != entity.X && turn != entity.O {
		turn = entity.X
	}

	return &GameController{
		state: entity.GameState{
			Board:   board,
			Turn:    turn,
			Outcome: entity.DetectOutcome(board),
		},
	}
}

// State - returns a copy of the current game.
func (that *GameController) State() entity.GameState {
	return that.state
}

// ApplyMove - places the current player's mark on cell.
// Out of range cells, occupied cells and moves after the game ended are ignored.
func (that *GameController) ApplyMove(cell int) {
	if !that.canMove(cell) {
		return
	}

	that.state.Board[cell] = that.state.Turn
	that.state.Outcome = entity.DetectOutcome(that.state.Board)

	// the turn stays with the last mover once the game is over
	if !that.state.Outcome.IsFinished() {
		that.state.Turn = that.state.Turn.Opponent()
	}
}

// Restart - discards the current game and starts a new one.
func (that *GameController) Restart() {
	that.state = entity.NewGameState()
}

// canMove - checks the move preconditions without touching the state.
func (that *GameController) canMove(cell int) bool {
	if that.state.Outcome.IsFinished() {
		return false
	}

	if cell < 0 || cell >= len(that.state.Board) {
		return false
	}

	return that.state.Board[cell] == entity.Empty
}
