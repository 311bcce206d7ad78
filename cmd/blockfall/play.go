package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/engine"
	"github.com/vovakirdan/blockfall/internal/platform/tui"
	"github.com/vovakirdan/blockfall/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a game in the current terminal.

Controls (default bindings, see 'blockfall config'):
  Left/H/A    - Move left
  Right/L/D   - Move right
  Down/J/S    - Move down
  Q/Ctrl+C    - Quit

Blocks fall one row every gravity interval (100ms by default).
When a new block cannot spawn the board is full; press Q to leave.

Examples:
  blockfall play
  blockfall play --seed 42
  blockfall play --config ./configs/blockfall.yaml --log-file /tmp/blockfall.log`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, _ []string) {
	// Exit only after play has closed the store and the log file.
	if code := play(); code != 0 {
		os.Exit(code)
	}
}

func play() int {
	cfg := loadConfig()
	logger, closeLog := newLogger(cfg)
	defer closeLog()

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ec := cfg.Engine()
	rc := core.DefaultConfig()
	rc.ScreenW, rc.ScreenH = width, height
	rc.Seed = seed
	rc.FieldW, rc.FieldH = ec.Width, ec.Height
	if !rc.FitsScreen() {
		bw, bh := rc.BoardSize()
		fmt.Fprintf(os.Stderr, "Warning: terminal is %dx%d, the board needs %dx%d\n", width, height, bw, bh)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open session database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	logger.Info("starting game", "seed", seed, "width", ec.Width, "height", ec.Height, "gravity", ec.Gravity)
	g := tui.NewGame(ec, logger, engine.WithRandomizer(engine.NewRandomizer(seed)))
	res, runErr := tui.Play(ctx, g, tui.NewKeyMap(cfg.Keys), rc)

	if store != nil {
		if _, err := store.SaveSession("local", seed, res); err != nil {
			logger.Warn("could not save session", "error", err)
		}
		store.Close()
	}

	if runErr != nil {
		logger.Error("game ended with error", "error", runErr)
		return reportPlayError(os.Stderr, runErr)
	}

	fmt.Printf("Rows cleared: %d  Blocks: %d  Time: %s (%s)\n",
		res.Stats.RowsCleared, res.Stats.Locked, res.Duration.Round(time.Second), res.Reason)
	return 0
}

// reportPlayError prints a game error to w and returns the exit code.
func reportPlayError(w io.Writer, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, engine.ErrStateCorrupted):
		fmt.Fprintf(w, "Error: game state corrupted, session aborted: %v\n", err)
	default:
		fmt.Fprintf(w, "Error running game: %v\n", err)
	}
	return 1
}
