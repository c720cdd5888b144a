// game implements the mines board engine: board generation and the
// reveal/cashout state machine for a single wagered game.
package game

import (
	"errors"
	"math/rand"
)

// The grid is always 5x5. At least one safe cell must remain, so a board
// can hold at most 24 hazards.
const (
	BoardWidth = 5
	BoardCells = BoardWidth * BoardWidth
	MinHazards = 1
	MaxHazards = BoardCells - 1
)

type CellKind int

const (
	CellSafe CellKind = iota
	CellHazard
)

var (
	ErrInvalidHazardCount = errors.New("hazard count must be between 1 and 24")
	ErrInvalidWager       = errors.New("wager must be a positive amount")
	ErrIndexOutOfRange    = errors.New("cell index out of range")
	ErrGameNotActive      = errors.New("game is not active")
	ErrNoActiveGame       = errors.New("no active game")
	ErrNothingRevealed    = errors.New("no cells revealed yet")
)

// Generate produces a board with exactly hazardCount hazard cells placed at
// distinct positions chosen uniformly at random. The hazard positions are
// also returned directly.
func Generate(hazardCount int) ([BoardCells]CellKind, []int, error) {
	var cells [BoardCells]CellKind
	if hazardCount < MinHazards || hazardCount > MaxHazards {
		return cells, nil, ErrInvalidHazardCount
	}

	positions := rand.Perm(BoardCells)[:hazardCount]
	for _, pos := range positions {
		cells[pos] = CellHazard
	}
	return cells, positions, nil
}
