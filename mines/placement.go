package mines

import (
	"fmt"
	"math/rand/v2"

	"github.com/sirupsen/logrus"
)

// MinePlacer lays exactly board.Mines mines on an empty board. excluded is
// the first revealed cell.
type MinePlacer interface {
	Place(board *Board, excluded Position) error
}

// attemptsPerCell bounds rejection sampling at attemptsPerCell*width*height
// draws.
const attemptsPerCell = 64

// RandomPlacer draws uniformly random cells and rejects those that already
// hold a mine or lie in the 3x3 block around the excluded cell.
type RandomPlacer struct {
	Rand *rand.Rand
}

func (p *RandomPlacer) intN(n int) int {
	if p.Rand == nil {
		return rand.IntN(n)
	}
	return p.Rand.IntN(n)
}

func freeCells(board *Board, excluded Position) int {
	free := 0
	for _, row := range board.Cells {
		for _, cell := range row {
			if !excluded.Near(cell.X, cell.Y) {
				free++
			}
		}
	}
	return free
}

func (p *RandomPlacer) Place(board *Board, excluded Position) error {
	if free := freeCells(board, excluded); board.Mines > free {
		return fmt.Errorf("%d mines around (%d, %d) with %d free cells: %w",
			board.Mines, excluded.X, excluded.Y, free, ErrPlacementImpossible)
	}
	limit := attemptsPerCell * board.Width * board.Height
	placed, attempts := 0, 0
	for placed < board.Mines {
		if attempts == limit {
			return fmt.Errorf("placed %d of %d mines after %d attempts: %w",
				placed, board.Mines, attempts, ErrPlacementExhausted)
		}
		attempts++
		x := p.intN(board.Width)
		y := p.intN(board.Height)
		cell := board.Cells[y][x]
		if cell.Mine || excluded.Near(x, y) {
			continue
		}
		cell.Mine = true
		placed++
	}
	Log.WithFields(logrus.Fields{
		"mines":    placed,
		"attempts": attempts,
		"x":        excluded.X,
		"y":        excluded.Y,
	}).Debug("placed mines")
	return nil
}

// FixedPlacer lays mines on the given positions. The layout is taken as is:
// the first revealed cell is not excluded.
type FixedPlacer struct {
	Positions []Position
}

func (p *FixedPlacer) Place(board *Board, _ Position) error {
	if len(p.Positions) != board.Mines {
		return fmt.Errorf("fixed layout has %d mines, board expects %d", len(p.Positions), board.Mines)
	}
	for _, pos := range p.Positions {
		cell, err := board.Cell(pos.X, pos.Y)
		if err != nil {
			return err
		}
		if cell.Mine {
			return fmt.Errorf("fixed layout repeats (%d, %d)", pos.X, pos.Y)
		}
		cell.Mine = true
	}
	return nil
}
