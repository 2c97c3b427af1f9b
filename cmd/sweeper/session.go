package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/tomasstrnad1997/sweeper/config"
	"github.com/tomasstrnad1997/sweeper/mines"
	"github.com/tomasstrnad1997/sweeper/records"
)

const bestTimesShown = 10

var errQuit = errors.New("quit")

type session struct {
	cfg      *config.Config
	preset   *config.Preset
	game     *mines.Game
	store    *records.SQLStore
	recorder *records.Recorder
	out      io.Writer
	now      func() time.Time
}

// play reads commands from in until it is exhausted or the player quits.
func (s *session) play(ctx context.Context, in io.Reader) error {
	s.printBoard()
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		err := s.exec(ctx, line)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(s.out, err)
		}
	}
	return scanner.Err()
}

func (s *session) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	switch fields[0] {
	case "quit", "q":
		return errQuit
	case "new":
		return s.newRound(fields[1:])
	case "best":
		return s.best(ctx)
	}
	move, err := parseMove(fields)
	if err != nil {
		return err
	}
	result, err := s.game.MakeMove(move)
	if err != nil {
		return err
	}
	s.printBoard()
	if result.Result == mines.NoChange {
		if s.game.Over() {
			fmt.Fprintln(s.out, "Round is over, type new to play again")
		}
		return nil
	}
	switch result.Status {
	case mines.Lost:
		fmt.Fprintf(s.out, "BOOM %s\n", s.elapsed())
	case mines.Won:
		fmt.Fprintf(s.out, "CLEARED %s\n", s.elapsed())
	}
	return nil
}

func parseMove(fields []string) (mines.Move, error) {
	if len(fields) < 2 || len(fields) > 3 {
		return mines.Move{}, fmt.Errorf("Unknown command %q", strings.Join(fields, " "))
	}
	x, err := strconv.Atoi(fields[0])
	if err != nil {
		return mines.Move{}, fmt.Errorf("Invalid x coordinate %q", fields[0])
	}
	y, err := strconv.Atoi(fields[1])
	if err != nil {
		return mines.Move{}, fmt.Errorf("Invalid y coordinate %q", fields[1])
	}
	move := mines.Move{X: x, Y: y, Type: mines.Reveal}
	if len(fields) == 3 {
		switch strings.ToLower(fields[2]) {
		case "f":
			move.Type = mines.Flag
		case "c":
			move.Type = mines.Chord
		default:
			return mines.Move{}, fmt.Errorf("Unknown move %q", fields[2])
		}
	}
	return move, nil
}

func (s *session) newRound(args []string) error {
	preset := s.preset
	if len(args) > 0 {
		var err error
		if preset, err = s.cfg.Preset(args[0]); err != nil {
			return fmt.Errorf("%w, choose one of %s", err, strings.Join(s.cfg.Names(), ", "))
		}
	}
	if s.recorder != nil {
		s.recorder.Preset = preset.Name
	}
	if err := s.game.Reset(preset.Params()); err != nil {
		return err
	}
	s.preset = preset
	s.printBoard()
	return nil
}

func (s *session) best(ctx context.Context) error {
	if s.store == nil {
		return errors.New("No records database configured")
	}
	summary, err := s.store.Summary(ctx, s.preset.Name)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s: %d played, %d won\n", s.preset.Name, summary.Played, summary.Won)
	best, err := s.store.BestTimes(ctx, s.preset.Name, bestTimesShown)
	if err != nil {
		return err
	}
	for i, result := range best {
		fmt.Fprintf(s.out, "%2d. %s  %s\n", i+1, formatDuration(result.Duration()),
			result.EndedAt.Local().Format(time.DateTime))
	}
	return nil
}

func (s *session) elapsed() string {
	return formatDuration(s.game.Elapsed(s.now()))
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}

func (s *session) printBoard() {
	snap := s.game.Snapshot()
	var b strings.Builder
	fmt.Fprintf(&b, "%s %dx%d  mines left: %d\n", s.preset.Name, snap.Width, snap.Height, s.game.MinesRemaining())
	b.WriteString("X")
	for x := 0; x < snap.Width; x++ {
		b.WriteString(strconv.Itoa(x % 10))
	}
	b.WriteByte('\n')
	for y := 0; y < snap.Height; y++ {
		b.WriteString(strconv.Itoa(y % 10))
		for x := 0; x < snap.Width; x++ {
			b.WriteByte(symbol(snap.At(x, y).Display()))
		}
		b.WriteByte('\n')
	}
	fmt.Fprint(s.out, b.String())
}

func symbol(display byte) byte {
	switch display {
	case mines.Hidden:
		return '#'
	case mines.ShowFlag:
		return 'F'
	case mines.ShowMine:
		return '*'
	default:
		return '0' + display
	}
}
