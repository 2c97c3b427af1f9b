package mines

import "time"

// Observer is notified after every engine call that changed the round.
type Observer interface {
	OnMove(g *Game, move Move, result *MoveResult)
}

type ObserverFunc func(g *Game, move Move, result *MoveResult)

func (f ObserverFunc) OnMove(g *Game, move Move, result *MoveResult) {
	f(g, move, result)
}

func (g *Game) notify(move Move, result *MoveResult) {
	if result.Result == NoChange {
		return
	}
	for _, observer := range g.observers {
		observer.OnMove(g, move, result)
	}
}

// Tally counts the moves that changed the current round.
type Tally struct {
	Reveals       int
	Flags         int
	Chords        int
	CellsRevealed int
}

func (t *Tally) Moves() int {
	return t.Reveals + t.Flags + t.Chords
}

func (t *Tally) OnMove(g *Game, move Move, result *MoveResult) {
	switch move.Type {
	case Restart:
		*t = Tally{}
		return
	case Reveal:
		t.Reveals++
	case Flag:
		t.Flags++
	case Chord:
		t.Chords++
	}
	for _, cell := range result.UpdatedCells {
		// Mines shown at the end of a lost round are not the player's doing.
		if cell.Revealed && !cell.Mine {
			t.CellsRevealed++
		}
	}
}

// Snapshot is a read-only copy of the round, with Cells in row-major order.
type Snapshot struct {
	ID        string
	Width     int
	Height    int
	Mines     int
	Status    Status
	StartedAt time.Time
	EndedAt   time.Time
	Cells     []Cell
}

func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		ID:        g.id.String(),
		Width:     g.board.Width,
		Height:    g.board.Height,
		Mines:     g.board.Mines,
		Status:    g.status,
		StartedAt: g.startedAt,
		EndedAt:   g.endedAt,
		Cells:     make([]Cell, 0, g.board.Width*g.board.Height),
	}
	for _, row := range g.board.Cells {
		for _, cell := range row {
			snap.Cells = append(snap.Cells, *cell)
		}
	}
	return snap
}

// At returns the cell at (x, y). The coordinates must lie on the board;
// out-of-range values panic or alias another cell.
func (s Snapshot) At(x, y int) Cell {
	return s.Cells[y*s.Width+x]
}
