package entity

import (
	"errors"
	"fmt"
)

// Cell is the content of a single board position.
type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

const BoardSize = 9

var ErrUnknownMark = errors.New("unknown player mark")

// Board is the 3x3 grid stored row-major: index = row*3 + col.
type Board [BoardSize]Cell

// Line is an ordered triple of board indices.
type Line [3]int

// WinLines - the eight winning lines in scan order: rows, columns, diagonals.
var WinLines = [8]Line{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// OutcomeKind tells whether the game is still going, won or drawn.
type OutcomeKind uint8

const (
	InProgress OutcomeKind = iota
	Win
	Draw
)

// Outcome is derived from a Board. Player and Line are only meaningful for Win.
type Outcome struct {
	Kind   OutcomeKind
	Player Cell
	Line   Line
}

// GameState is the whole game: board, who moves next and the derived outcome.
type GameState struct {
	Board   Board
	Turn    Cell
	Outcome Outcome
}

// NewGameState - returns the initial state: empty board, X to move, game in progress.
func NewGameState() GameState {
	return GameState{Turn: X}
}

func (that Cell) String() string {
	switch that {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// Opponent - returns the other player. Empty has no opponent.
func (that Cell) Opponent() Cell {
	switch that {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

// ParseCell - converts "X", "O" or "" into a Cell.
func ParseCell(mark string) (Cell, error) {
	switch mark {
	case "":
		return Empty, nil
	case "X":
		return X, nil
	case "O":
		return O, nil
	default:
		return Empty, fmt.Errorf("%w: %q", ErrUnknownMark, mark)
	}
}

func (that OutcomeKind) String() string {
	switch that {
	case Win:
		return "win"
	case Draw:
		return "draw"
	default:
		return "in_progress"
	}
}

// IsFinished - true when no further moves are accepted.
func (that Outcome) IsFinished() bool {
	return that.Kind != InProgress
}

// OnLine - reports whether index lies on the winning line.
func (that Outcome) OnLine(index int) bool {
	if that.Kind != Win {
		return false
	}

	for _, i := range that.Line {
		if i == index {
			return true
		}
	}

	return false
}

// IsFull - true when no cell is Empty.
func (that *Board) IsFull() bool {
	for _, cell := range that {
		if cell == Empty {
			return false
		}
	}

	return true
}

// DetectOutcome - scans WinLines in order and returns the first completed line as a win.
// Without a completed line a full board is a draw, anything else is in progress.
func DetectOutcome(board Board) Outcome {
	for _, line := range WinLines {
		a, b, c := board[line[0]], board[line[1]], board[line[2]]
		if a != Empty && a == b && b == c {
			return Outcome{Kind: Win, Player: a, Line: line}
		}
	}

	// the game continues until all the squares are full
	if board.IsFull() {
		return Outcome{Kind: Draw}
	}

	return Outcome{Kind: InProgress}
}
