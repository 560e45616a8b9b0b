package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/vovakirdan/voice-arcade/internal/core"
	"github.com/vovakirdan/voice-arcade/internal/platform/tui"
	"github.com/vovakirdan/voice-arcade/internal/platform/web"
	"github.com/vovakirdan/voice-arcade/internal/registry"
	"github.com/vovakirdan/voice-arcade/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagThreshold  float64
	flagFeed       string
	flagPlayer     string
)

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a game",
	Long: `Start playing the specified game.

Controls:
  Space/Up   - Shout (jump/flap)
  P/Esc      - Pause
  R          - Restart (after game over)
  Q/Ctrl+C   - Quit

Microphone:
  With --feed, a local web server is started on that address. Open it in a
  browser, enter the same player name and press "Stream to terminal" to use
  your microphone.

Difficulty options:
  easy   - Start at lowest difficulty, progresses to max
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, progresses to max
  fixed  - No progression, stays at config's initial level

Examples:
  arcade play flappy
  arcade play runner --difficulty easy
  arcade play flappy --threshold 25
  arcade play flappy --feed :8080 --player ana
  arcade play flappy --config ./my-flappy.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().Float64Var(&flagThreshold, "threshold", 0, "Loudness threshold override (0 = from config)")
	playCmd.Flags().StringVar(&flagFeed, "feed", "", "Serve a browser microphone feed on this address (e.g. :8080)")
	playCmd.Flags().StringVar(&flagPlayer, "player", storage.DefaultPlayer, "Player name for scores and the microphone feed")
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID := args[0]

	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown game %q, run 'arcade list' to see available games", gameID)
	}

	logger, closeLog, err := newLogger(io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	configureGames(gameID, flagConfig, logger)

	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	opts := []tui.Option{tui.WithPlayer(flagPlayer), tui.WithLogger(logger)}
	if flagFeed == "" {
		return tui.Run(game, store, cfg, opts...)
	}

	srv, err := web.NewServer(web.Config{Address: flagFeed, Store: store, Logger: logger})
	if err != nil {
		return err
	}
	opts = append(opts, tui.WithFeed(srv.Feeds().Source(flagPlayer)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(ctx)
	})
	g.Go(func() error {
		// The feed server stops with the game.
		defer cancel()
		return tui.Run(game, store, cfg, opts...)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
