// arcade is a voice-controlled arcade: shout to flap or jump, in the terminal,
// over SSH or in the browser.
//
// Usage:
//
//	arcade list              - List available games
//	arcade play <game>       - Play a game
//	arcade menu              - Start menu to pick games interactively
//	arcade serve             - Start SSH and HTTP servers for remote play
//	arcade scores <game>     - Show high scores for a game
//
// Global flags:
//
//	--fps <rate>         - Set render rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set database path (default: ~/.arcade/scores.db)
//	--log-level <level>  - Set log level: debug, info, warn, error
//	--log-file <path>    - Write logs to a file (terminal play logs nowhere by default)
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Importing the games registers them
	"github.com/vovakirdan/voice-arcade/internal/games/flappy"
	"github.com/vovakirdan/voice-arcade/internal/games/runner"
	"github.com/vovakirdan/voice-arcade/internal/games/voice"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arcade",
	Short: "Voice Arcade - Shout to play",
	Long: `Voice Arcade is a set of voice-controlled games: a loud enough sound
makes the bird flap or the ball jump. Without a microphone, Space shouts.

Available commands:
  list     - Show all available games
  play     - Play a specific game directly
  menu     - Interactive game picker menu
  serve    - Start SSH and HTTP servers for remote play
  scores   - View high scores

Examples:
  arcade list
  arcade play flappy
  arcade play runner --feed :8080
  arcade menu
  arcade serve --ssh :2222 --http :8080
  arcade scores flappy`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Render rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// newLogger builds the process logger. Terminal play owns the screen, so
// without --log-file it logs to fallback, which may be io.Discard.
func newLogger(fallback io.Writer) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level: %w", err)
	}

	w, closeFn := fallback, func() {}
	if flagLogFile != "" {
		if err := os.MkdirAll(filepath.Dir(flagLogFile), 0o755); err != nil {
			return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
		}
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w, closeFn = f, func() { f.Close() }
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "arcade",
		Level:           level,
	})
	return logger, closeFn, nil
}

// configureGames applies the shared game flags before games are created.
// configPath applies only to gameID; the menu passes an empty id.
func configureGames(gameID, configPath string, logger *log.Logger) {
	for _, s := range []*voice.Settings{flappy.Settings(), runner.Settings()} {
		s.SetDifficultyPreset(flagDifficulty)
		s.Logger = logger
		if flagThreshold > 0 {
			s.Threshold = flagThreshold
		}
	}

	switch gameID {
	case flappy.ID:
		flappy.SetConfigPath(configPath)
	case runner.ID:
		runner.SetConfigPath(configPath)
	}
}
