package mines

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

type Status int

const (
	Ready Status = iota
	Active
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case Ready:
		return "ready"
	case Active:
		return "active"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Game is the state of the current round. It is not safe for concurrent use;
// callers drive it from a single goroutine.
type Game struct {
	id          uuid.UUID
	params      GameParams
	board       *Board
	minesPlaced bool
	status      Status
	startedAt   time.Time
	endedAt     time.Time

	placer    MinePlacer
	now       func() time.Time
	observers []Observer
}

type Option func(*Game)

func WithPlacer(placer MinePlacer) Option {
	return func(g *Game) { g.placer = placer }
}

// WithRand makes random placement draw from r.
func WithRand(r *rand.Rand) Option {
	return func(g *Game) { g.placer = &RandomPlacer{Rand: r} }
}

func WithClock(now func() time.Time) Option {
	return func(g *Game) { g.now = now }
}

func WithObserver(observer Observer) Option {
	return func(g *Game) { g.observers = append(g.observers, observer) }
}

func NewGame(params GameParams, opts ...Option) (*Game, error) {
	g := &Game{
		placer: &RandomPlacer{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	if err := g.Reset(params); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) AddObserver(observer Observer) {
	g.observers = append(g.observers, observer)
}

// Reset discards the current round and starts a fresh one in the Ready
// state. Zero fields of params keep the previous round's value. On error the
// current round is left untouched.
func (g *Game) Reset(params GameParams) error {
	if params.Width == 0 {
		params.Width = g.params.Width
	}
	if params.Height == 0 {
		params.Height = g.params.Height
	}
	if params.Mines == 0 {
		params.Mines = g.params.Mines
	}
	board, err := CreateBoard(params)
	if err != nil {
		return err
	}
	g.id = uuid.New()
	g.params = params
	g.board = board
	g.minesPlaced = false
	g.status = Ready
	g.startedAt = time.Time{}
	g.endedAt = time.Time{}

	Log.WithFields(logrus.Fields{
		"round":  g.id,
		"width":  params.Width,
		"height": params.Height,
		"mines":  params.Mines,
	}).Debug("new round")
	g.notify(Move{Type: Restart}, &MoveResult{Result: RoundReset, Status: Ready})
	return nil
}

func (g *Game) placeMines(excluded Position) error {
	if err := g.placer.Place(g.board, excluded); err != nil {
		for _, row := range g.board.Cells {
			for _, cell := range row {
				cell.Mine = false
			}
		}
		return err
	}
	g.board.computeAdjacency()
	g.minesPlaced = true
	return nil
}

func (g *Game) noChange() *MoveResult {
	return &MoveResult{Result: NoChange, Status: g.status}
}

// Reveal uncovers the cell at (x, y). The first reveal of a round lays the
// mines away from (x, y) and starts the clock. Revealing a mine loses the
// round; revealing a cell with no adjacent mines opens the whole empty region
// around it and its numbered border.
//
// Flags do not protect a cell from Reveal. A mine a chord revealed under a
// flag still loses when revealed directly, and an empty cell a chord revealed
// opens its region when revealed again.
func (g *Game) Reveal(x, y int) (*MoveResult, error) {
	cell, err := g.board.Cell(x, y)
	if err != nil {
		return nil, err
	}
	if g.status == Ready {
		if !g.minesPlaced {
			if err := g.placeMines(Position{X: x, Y: y}); err != nil {
				return nil, err
			}
		}
		g.status = Active
		g.startedAt = g.now()
	}
	if g.status != Active {
		return g.noChange(), nil
	}

	result := g.noChange()
	if g.board.reveal(cell) {
		result.touch(cell)
		result.Result = CellRevealed
	}
	if cell.Mine {
		result.merge(g.declareOver(Lost))
		result.Result = MineBlown
	} else if cell.AdjacentMines == 0 {
		if g.floodFill(cell, result) > 0 {
			result.Result = CellRevealed
		}
	}
	g.notify(Move{X: x, Y: y, Type: Reveal}, result)
	return result, nil
}

// floodFill reveals the connected zero region around origin and its
// numbered border. The Revealed flag is the only visited marker.
func (g *Game) floodFill(origin *Cell, result *MoveResult) int {
	revealed := 0
	stack := []*Cell{origin}
	for len(stack) > 0 {
		cell := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, n := range g.board.Neighbours(cell) {
			if !g.board.reveal(n) {
				continue
			}
			result.touch(n)
			revealed++
			if n.AdjacentMines == 0 {
				stack = append(stack, n)
			}
		}
	}
	return revealed
}

// ToggleFlag flips the flag on a hidden cell. The number of flags is not
// limited by the number of mines.
func (g *Game) ToggleFlag(x, y int) (*MoveResult, error) {
	cell, err := g.board.Cell(x, y)
	if err != nil {
		return nil, err
	}
	if g.status != Active || cell.Revealed {
		return g.noChange(), nil
	}
	cell.Flagged = !cell.Flagged
	result := &MoveResult{Result: Flagged, Status: g.status, UpdatedCells: []*Cell{cell}}
	g.notify(Move{X: x, Y: y, Type: Flag}, result)
	return result, nil
}

// AutoExpand chords on a revealed number. When the flags around the cell
// match its number every neighbour is revealed; an unflagged mine among them
// loses the round. When the hidden neighbours match the mines not yet
// accounted for by flags, the hidden ones are all flagged. Both may happen in
// one call. Newly revealed empty cells are not flood-filled.
func (g *Game) AutoExpand(x, y int) (*MoveResult, error) {
	cell, err := g.board.Cell(x, y)
	if err != nil {
		return nil, err
	}
	if g.status != Active || !cell.Revealed || cell.Mine {
		return g.noChange(), nil
	}
	neighbours := g.board.Neighbours(cell)
	flagged, hidden := 0, 0
	for _, n := range neighbours {
		if n.Flagged {
			flagged++
		}
		if !n.Revealed {
			hidden++
		}
	}

	move := Move{X: x, Y: y, Type: Chord}
	result := g.noChange()
	if flagged == cell.AdjacentMines {
		blown := false
		for _, n := range neighbours {
			if g.board.reveal(n) {
				result.touch(n)
				result.Result = CellRevealed
			}
			if n.Mine && !n.Flagged {
				blown = true
			}
		}
		if blown {
			result.merge(g.declareOver(Lost))
			result.Result = MineBlown
			g.notify(move, result)
			return result, nil
		}
	}
	if hidden == cell.AdjacentMines-flagged {
		for _, n := range neighbours {
			if n.Revealed || n.Flagged {
				continue
			}
			n.Flagged = true
			result.touch(n)
			if result.Result == NoChange {
				result.Result = Flagged
			}
		}
	}
	g.notify(move, result)
	return result, nil
}

// CheckStatus ends an active round once every cell is revealed, flagged or
// mined. A flag on a safe cell at that point loses the round.
func (g *Game) CheckStatus() *MoveResult {
	if g.status != Active {
		return g.noChange()
	}
	wrongFlag := false
	for _, row := range g.board.Cells {
		for _, cell := range row {
			if !cell.Revealed && !cell.Flagged && !cell.Mine {
				return g.noChange()
			}
			if cell.Flagged && !cell.Mine {
				wrongFlag = true
			}
		}
	}
	var result *MoveResult
	if wrongFlag {
		result = g.declareOver(Lost)
	} else {
		result = g.declareOver(Won)
	}
	g.notify(Move{Type: Evaluate}, result)
	return result
}

// DeclareOver ends an active round with status Won or Lost. A lost round
// shows every mine.
func (g *Game) DeclareOver(status Status) *MoveResult {
	if g.status != Active || (status != Won && status != Lost) {
		return g.noChange()
	}
	result := g.declareOver(status)
	g.notify(Move{Type: Evaluate}, result)
	return result
}

func (g *Game) declareOver(status Status) *MoveResult {
	g.status = status
	g.endedAt = g.now()
	result := &MoveResult{Result: GameWon, Status: status}
	if status == Lost {
		result.Result = GameLost
		for _, row := range g.board.Cells {
			for _, cell := range row {
				if cell.Mine && g.board.reveal(cell) {
					result.touch(cell)
				}
			}
		}
	}
	Log.WithFields(logrus.Fields{
		"round":   g.id,
		"status":  status,
		"elapsed": g.endedAt.Sub(g.startedAt),
	}).Debug("round over")
	return result
}

// MakeMove applies one player move and evaluates the round afterwards.
func (g *Game) MakeMove(move Move) (*MoveResult, error) {
	var (
		result *MoveResult
		err    error
	)
	switch move.Type {
	case Reveal:
		result, err = g.Reveal(move.X, move.Y)
	case Flag:
		result, err = g.ToggleFlag(move.X, move.Y)
	case Chord:
		result, err = g.AutoExpand(move.X, move.Y)
	default:
		return nil, fmt.Errorf("Invalid move type %x", byte(move.Type))
	}
	if err != nil {
		return nil, err
	}
	result.merge(g.CheckStatus())
	return result, nil
}

func (g *Game) ID() uuid.UUID { return g.id }
func (g *Game) Params() GameParams { return g.params }
func (g *Game) Status() Status { return g.status }
func (g *Game) MinesPlaced() bool { return g.minesPlaced }
func (g *Game) FlagCount() int { return g.board.FlagCount() }
func (g *Game) RemainingCells() int { return g.board.RemainingCells() }
func (g *Game) MinesRemaining() int { return g.params.Mines - g.board.FlagCount() }
func (g *Game) Over() bool { return g.status == Won || g.status == Lost }

func (g *Game) StartedAt() (time.Time, bool) {
	return g.startedAt, !g.startedAt.IsZero()
}

func (g *Game) EndedAt() (time.Time, bool) {
	return g.endedAt, !g.endedAt.IsZero()
}

// Elapsed is the play time of the round as of now. It stops at the end of
// the round and is zero before the first reveal.
func (g *Game) Elapsed(now time.Time) time.Duration {
	switch {
	case g.startedAt.IsZero():
		return 0
	case !g.endedAt.IsZero():
		return g.endedAt.Sub(g.startedAt)
	default:
		return now.Sub(g.startedAt)
	}
}

// Cell returns a copy of the cell at (x, y).
func (g *Game) Cell(x, y int) (Cell, error) {
	cell, err := g.board.Cell(x, y)
	if err != nil {
		return Cell{}, err
	}
	return *cell, nil
}
