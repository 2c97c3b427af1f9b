package mines

import "fmt"

type MoveType byte

const (
	Reveal MoveType = 0x01
	Flag   MoveType = 0x02
	Chord  MoveType = 0x03

	// Only seen by observers.
	Restart  MoveType = 0x10
	Evaluate MoveType = 0x11
)

type Move struct {
	X    int
	Y    int
	Type MoveType
}

func (move Move) String() string {
	msg := fmt.Sprintf("(%d, %d) ", move.X, move.Y)
	switch move.Type {
	case Reveal:
		return msg + "Reveal"
	case Flag:
		return msg + "Flag"
	case Chord:
		return msg + "Chord"
	case Restart:
		return "Restart"
	case Evaluate:
		return "Evaluate"
	default:
		return msg + "UNKNOWN"
	}
}

type MoveResultType int

const (
	NoChange MoveResultType = iota
	CellRevealed
	Flagged
	MineBlown
	GameWon
	GameLost
	RoundReset
)

func (t MoveResultType) String() string {
	switch t {
	case NoChange:
		return "no change"
	case CellRevealed:
		return "cell revealed"
	case Flagged:
		return "flagged"
	case MineBlown:
		return "mine blown"
	case GameWon:
		return "game won"
	case GameLost:
		return "game lost"
	case RoundReset:
		return "round reset"
	default:
		return fmt.Sprintf("MoveResultType(%d)", int(t))
	}
}

// MoveResult is the diff produced by one engine call. UpdatedCells holds
// every cell whose state changed, in the order changed.
type MoveResult struct {
	Result       MoveResultType
	Status       Status
	UpdatedCells []*Cell
}

func (r *MoveResult) touch(cell *Cell) {
	r.UpdatedCells = append(r.UpdatedCells, cell)
}

// merge folds a later result into r. A later outcome other than NoChange
// wins.
func (r *MoveResult) merge(later *MoveResult) {
	seen := make(map[*Cell]struct{}, len(r.UpdatedCells))
	for _, cell := range r.UpdatedCells {
		seen[cell] = struct{}{}
	}
	for _, cell := range later.UpdatedCells {
		if _, ok := seen[cell]; !ok {
			r.touch(cell)
		}
	}
	if later.Result != NoChange {
		r.Result = later.Result
	}
	r.Status = later.Status
}
