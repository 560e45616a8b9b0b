package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/voice-arcade/internal/registry"
	"github.com/vovakirdan/voice-arcade/internal/storage"
)

var flagRecent bool

var scoresCmd = &cobra.Command{
	Use:   "scores <game>",
	Short: "Show high scores for a game",
	Long: `Display the top 10 high scores for the specified game.

With --recent, list the latest browser play sessions instead.

Examples:
  arcade scores flappy
  arcade scores runner --recent`,
	Args: cobra.ExactArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagRecent, "recent", false, "Show recent play sessions")
}

func runScores(_ *cobra.Command, args []string) error {
	gameID := args[0]

	game, err := registry.Create(gameID)
	if err != nil {
		return fmt.Errorf("%w, run 'arcade list' to see available games", err)
	}
	title := game.Title()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if flagRecent {
		return printRecent(store, gameID, title)
	}

	scores, err := store.TopScores(gameID, 10)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'arcade play %s' to set the first high score!\n", gameID)
		return nil
	}

	fmt.Printf("  %-4s  %-16s  %-10s  %s\n", "Rank", "Player", "Score", "Date")
	fmt.Printf("  %-4s  %-16s  %-10s  %s\n", "----", "------", "-----", "----")

	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-16s  %-10d  %s\n", i+1, entry.PlayerName, entry.Score, dateStr)
	}

	fmt.Println()
	if stats, err := store.GetGameStats(gameID); err == nil {
		fmt.Printf("Best: %d  Runs: %d  Average: %.1f\n", stats.HighScore, stats.GamesCount, stats.AvgScore)
	}
	return nil
}

func printRecent(store *storage.Store, gameID, title string) error {
	runs, err := store.RecentPlaySessions(gameID, 10)
	if err != nil {
		return fmt.Errorf("retrieving play sessions: %w", err)
	}

	fmt.Printf("Recent Runs - %s\n", title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No play sessions recorded yet.")
		return nil
	}

	fmt.Printf("  %-16s  %-8s  %-10s  %-8s  %s\n", "Player", "Score", "Cause", "Seconds", "Date")
	fmt.Printf("  %-16s  %-8s  %-10s  %-8s  %s\n", "------", "-----", "-----", "-------", "----")
	for _, r := range runs {
		fmt.Printf("  %-16s  %-8d  %-10s  %-8d  %s\n",
			r.PlayerName, r.Score, r.Cause, r.Duration, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
