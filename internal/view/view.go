// Package view maps a game snapshot onto what the front-ends display.
package view

import (
	"github.com/rocketscienceinc/tictactoe-spa/internal/entity"
)

type Square struct {
	Index  int    `json:"index"`
	Mark   string `json:"mark"`
	Label  string `json:"label"`
	Winner bool   `json:"winner"`
}

type PlayerIndicator struct {
	Mark    string `json:"mark"`
	Current bool   `json:"current"`
	Label   string `json:"label"`
}

// Game is the rendered form of entity.GameState and the payload of the JSON APIs.
type Game struct {
	Board       [entity.BoardSize]string `json:"board"`
	Squares     []Square                 `json:"squares"`
	Players     []PlayerIndicator        `json:"players"`
	Turn        string                   `json:"turn"`
	Status      string                   `json:"status"`
	Winner      string                   `json:"winner,omitempty"`
	WinningLine []int                    `json:"winning_line"`
	Message     string                   `json:"message"`
	GameOver    bool                     `json:"game_over"`
}

// FromState - builds the view of a game.
func FromState(state entity.GameState) *Game {
	game := &Game{
		Turn:     state.Turn.String(),
		Status:   state.Outcome.Kind.String(),
		GameOver: state.Outcome.IsFinished(),
		Message:  Message(state.Outcome, state.Turn),
		Squares:  make([]Square, 0, entity.BoardSize),
	}

	for i, cell := range state.Board {
		game.Board[i] = cell.String()
		game.Squares = append(game.Squares, Square{
			Index:  i,
			Mark:   cell.String(),
			Label:  SquareLabel(cell),
			Winner: state.Outcome.OnLine(i),
		})
	}

	if state.Outcome.Kind == entity.Win {
		game.Winner = state.Outcome.Player.String()
		game.WinningLine = state.Outcome.Line[:]
	}

	for _, mark := range []entity.Cell{entity.X, entity.O} {
		current := !game.GameOver && state.Turn == mark
		label := "Player " + mark.String()
		if current {
			label += " (Current turn)"
		}

		game.Players = append(game.Players, PlayerIndicator{
			Mark:    mark.String(),
			Current: current,
			Label:   label,
		})
	}

	return game
}

// SquareLabel - accessible name of a board square.
func SquareLabel(cell entity.Cell) string {
	if cell == entity.Empty {
		return "Empty Square"
	}

	return "Square with " + cell.String()
}

// Message - the one line status shown under the board.
func Message(outcome entity.Outcome, turn entity.Cell) string {
	switch outcome.Kind {
	case entity.Win:
		return "Winner: " + outcome.Player.String()
	case entity.Draw:
		return "Draw!"
	default:
		return "Next player: " + turn.String()
	}
}
