package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tomasstrnad1997/sweeper/config"
	"github.com/tomasstrnad1997/sweeper/mines"
	"github.com/tomasstrnad1997/sweeper/records"
)

// ExitError carries the process exit code for a failed run.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

type options struct {
	configPath string
	preset     string
	records    string
	logLevel   string
	seed       uint64
	seeded     bool
}

// parseArgs returns the parsed options, or true when the program should exit
// cleanly after printing help.
func parseArgs(args []string, output io.Writer) (*options, bool, error) {
	flagSet := flag.NewFlagSet("sweeper", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, `
Sweeper - minesweeper in the terminal.

Usage:
  sweeper [options]

Commands, one per line:
  x y        reveal a cell
  x y f      toggle a flag
  x y c      chord around a revealed number
  new [name] start a new round, optionally on another preset
  best       show the best times of the current preset
  quit

Options:
`)
		flagSet.PrintDefaults()
	}

	opts := &options{}
	flagSet.StringVar(&opts.configPath, "config", "", "Path to an HCL config file. Built-in presets are used when empty.")
	flagSet.StringVar(&opts.preset, "preset", "", "Preset to start with. Defaults to the config's default preset.")
	flagSet.StringVar(&opts.records, "records", "", "Path to the SQLite records database. Overrides the config.")
	flagSet.StringVar(&opts.logLevel, "log-level", "", "Logging level. Overrides the config.")
	flagSet.Uint64Var(&opts.seed, "seed", 0, "Seed for mine placement.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	flagSet.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			opts.seeded = true
		}
	})
	if flagSet.NArg() > 0 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected argument %q", flagSet.Arg(0))}
	}
	return opts, false, nil
}

func run(args []string, in io.Reader, out io.Writer) error {
	opts, exit, err := parseArgs(args, out)
	if err != nil || exit {
		return err
	}

	var cfg *config.Config
	if opts.configPath == "" {
		cfg, err = config.Default()
	} else {
		cfg, err = config.Load(opts.configPath)
	}
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}

	level := cfg.Level()
	if opts.logLevel != "" {
		if level, err = logrus.ParseLevel(opts.logLevel); err != nil {
			return &ExitError{Code: 2, Message: err.Error()}
		}
	}
	logrus.SetLevel(level)
	mines.Log.SetLevel(level)

	preset, err := cfg.Preset(opts.preset)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}

	var gameOpts []mines.Option
	if opts.seeded {
		gameOpts = append(gameOpts, mines.WithRand(rand.New(rand.NewPCG(opts.seed, opts.seed))))
	}

	ctx := context.Background()
	s := &session{cfg: cfg, preset: preset, out: out, now: time.Now}

	recordsPath := cfg.Records
	if opts.records != "" {
		recordsPath = opts.records
	}
	if recordsPath != "" {
		store, err := records.Open(recordsPath)
		if err != nil {
			return fmt.Errorf("failed to open records %s: %w", recordsPath, err)
		}
		defer store.Close()
		if err := store.InitializeTables(); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
		s.store = store
		s.recorder = records.NewRecorder(ctx, store, preset.Name)
		gameOpts = append(gameOpts, mines.WithObserver(s.recorder))
	}

	logrus.WithFields(logrus.Fields{
		"preset":  preset.Name,
		"records": recordsPath,
	}).Debug("starting")

	s.game, err = mines.NewGame(preset.Params(), gameOpts...)
	if err != nil {
		return err
	}
	return s.play(ctx, in)
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		logrus.Fatal(err)
	}
}
