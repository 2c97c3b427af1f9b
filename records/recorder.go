package records

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tomasstrnad1997/sweeper/mines"
)

// Recorder saves every round it observes once the round is over.
type Recorder struct {
	// Preset is stored with each result. Change it before resetting the game
	// onto a different preset.
	Preset string

	store *SQLStore
	ctx   context.Context
	tally mines.Tally
	saved uuid.UUID
	err   error
}

func NewRecorder(ctx context.Context, store *SQLStore, preset string) *Recorder {
	return &Recorder{Preset: preset, store: store, ctx: ctx}
}

func (r *Recorder) OnMove(g *mines.Game, move mines.Move, result *mines.MoveResult) {
	r.tally.OnMove(g, move, result)
	if !g.Over() || r.saved == g.ID() {
		return
	}
	r.saved = g.ID()

	params := g.Params()
	startedAt, _ := g.StartedAt()
	endedAt, _ := g.EndedAt()
	err := r.store.Save(r.ctx, Result{
		ID:            g.ID(),
		Preset:        r.Preset,
		Width:         params.Width,
		Height:        params.Height,
		Mines:         params.Mines,
		Status:        g.Status(),
		StartedAt:     startedAt,
		EndedAt:       endedAt,
		Moves:         r.tally.Moves(),
		CellsRevealed: r.tally.CellsRevealed,
	})
	if err != nil {
		logrus.WithError(err).WithField("round", g.ID()).Error("Failed to record round")
		r.err = err
	}
}

// Err returns the last error hit while saving a round.
func (r *Recorder) Err() error {
	return r.err
}
