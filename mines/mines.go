package mines

import (
	"errors"
	"fmt"
)

type Cell struct {
	X             int
	Y             int
	Mine          bool
	Revealed      bool
	Flagged       bool
	AdjacentMines int
}

// Board is indexed Cells[y][x].
type Board struct {
	Width         int
	Height        int
	Mines         int
	Cells         [][]*Cell
	RevealedCells int
}

type Position struct {
	X int
	Y int
}

type GameParams struct {
	Width  int
	Height int
	Mines  int
}

type InvalidBoardParamsError struct {
	height int
	width  int
	mines  int
}

type InvalidMoveError struct {
	board *Board
	x     int
	y     int
}

var (
	ErrPlacementImpossible = errors.New("not enough free cells to place mines")
	ErrPlacementExhausted  = errors.New("mine placement exceeded its retry limit")
)

// Values reported by Cell.Display for cells that do not show a count.
const (
	ShowMine byte = 0x10
	ShowFlag byte = 0x20
	Hidden   byte = 0x30
)

func (e InvalidMoveError) Error() string {
	return fmt.Sprintf("Move out of range - (%d, %d) - Board (%d, %d)", e.x, e.y, e.board.Width, e.board.Height)
}

func (e InvalidBoardParamsError) Error() string {
	switch {
	case e.width <= 0:
		return fmt.Sprintf("Cannot create a board with width: %d", e.width)
	case e.height <= 0:
		return fmt.Sprintf("Cannot create a board with height: %d", e.height)
	case e.mines <= 0:
		return fmt.Sprintf("Cannot create a board with %d mines", e.mines)
	case e.mines >= e.width*e.height:
		return fmt.Sprintf("Not enough space for %d mines. (%d >= %d * %d)", e.mines, e.mines, e.width, e.height)
	default:
		return "Cannot construct board: unknown error"
	}
}

func (p GameParams) validate() error {
	if p.Width <= 0 || p.Height <= 0 || p.Mines <= 0 || p.Mines >= p.Width*p.Height {
		return &InvalidBoardParamsError{height: p.Height, width: p.Width, mines: p.Mines}
	}
	return nil
}

// CreateBoard builds an empty board. Mines are laid later by a MinePlacer.
func CreateBoard(params GameParams) (*Board, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	cells := make([][]*Cell, params.Height)
	for y := range cells {
		cells[y] = make([]*Cell, params.Width)
		for x := range cells[y] {
			cells[y][x] = &Cell{X: x, Y: y}
		}
	}
	return &Board{Width: params.Width, Height: params.Height, Mines: params.Mines, Cells: cells}, nil
}

func (board *Board) ValidCellIndex(x, y int) bool {
	return !(x < 0 || x >= board.Width || y >= board.Height || y < 0)
}

func (board *Board) Cell(x, y int) (*Cell, error) {
	if !board.ValidCellIndex(x, y) {
		return nil, &InvalidMoveError{board, x, y}
	}
	return board.Cells[y][x], nil
}

// Neighbours returns the up to 8 cells around cell, excluding cell itself.
func (board *Board) Neighbours(cell *Cell) []*Cell {
	cells := make([]*Cell, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			x := cell.X + dx
			y := cell.Y + dy
			if board.ValidCellIndex(x, y) {
				cells = append(cells, board.Cells[y][x])
			}
		}
	}
	return cells
}

// Near reports whether the cell at (x, y) is within Chebyshev distance 1 of p.
func (p Position) Near(x, y int) bool {
	return abs(p.X-x) <= 1 && abs(p.Y-y) <= 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (board *Board) countMines(cell *Cell) int {
	mines := 0
	for _, n := range board.Neighbours(cell) {
		if n.Mine {
			mines++
		}
	}
	return mines
}

// computeAdjacency numbers every non-mine cell. Mine cells keep 0.
func (board *Board) computeAdjacency() {
	for _, row := range board.Cells {
		for _, cell := range row {
			if cell.Mine {
				continue
			}
			cell.AdjacentMines = board.countMines(cell)
		}
	}
}

func (board *Board) MineCount() int {
	mines := 0
	for _, row := range board.Cells {
		for _, cell := range row {
			if cell.Mine {
				mines++
			}
		}
	}
	return mines
}

func (board *Board) FlagCount() int {
	flags := 0
	for _, row := range board.Cells {
		for _, cell := range row {
			if cell.Flagged {
				flags++
			}
		}
	}
	return flags
}

func (board *Board) RemainingCells() int {
	return board.Width*board.Height - board.RevealedCells
}

// reveal marks the cell revealed and reports whether its state changed.
func (board *Board) reveal(cell *Cell) bool {
	if cell.Revealed {
		return false
	}
	cell.Revealed = true
	board.RevealedCells++
	return true
}

// Display encodes what a player may see of the cell: the adjacency count for
// a revealed safe cell, or one of ShowMine, ShowFlag and Hidden.
func (cell Cell) Display() byte {
	switch {
	case cell.Revealed && cell.Mine:
		return ShowMine
	case cell.Revealed:
		return byte(cell.AdjacentMines)
	case cell.Flagged:
		return ShowFlag
	default:
		return Hidden
	}
}
