package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-stage/internal/storage"
)

var (
	flagLimit int
	flagClear bool
	flagStats bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the ranking",
	Long: `Display the top ranks saved by finished sessions.

Examples:
  stage scores
  stage scores --limit 20
  stage scores --stats
  stage scores --clear`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of ranks to show")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete every saved rank")
	scoresCmd.Flags().BoolVar(&flagStats, "stats", false, "Show totals over all sessions")
}

func runScores(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("open ranking database: %w", err)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearRanks(); err != nil {
			return fmt.Errorf("clear ranking: %w", err)
		}
		logger.Info("ranking cleared", "db", flagDBPath)
		fmt.Println("Ranking cleared.")
		return nil
	}

	ranks, err := store.Ranks(flagLimit)
	if err != nil {
		return fmt.Errorf("read ranking: %w", err)
	}

	fmt.Println("Ranking")
	fmt.Println()

	if len(ranks) == 0 {
		fmt.Println("No ranks recorded yet.")
		fmt.Println()
		fmt.Println("Play 'stage play' to set the first high score!")
		return nil
	}

	fmt.Printf("  %-4s  %-16s  %-8s  %-5s  %-5s  %s\n", "Rank", "Player", "Score", "Round", "Lines", "Date")
	fmt.Printf("  %-4s  %-16s  %-8s  %-5s  %-5s  %s\n", "----", "------", "-----", "-----", "-----", "----")
	for i, r := range ranks {
		fmt.Printf("  %-4d  %-16s  %-8d  %-5d  %-5d  %s\n",
			i+1, r.Name, r.Score, r.Round, r.Lines, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	if flagPlayer != "" {
		if best, err := store.PlayerBest(flagPlayer); err == nil && best > 0 {
			fmt.Println()
			fmt.Printf("Your best (%s): %d\n", flagPlayer, best)
		}
	}

	if flagStats {
		stats, err := store.Stats()
		if err != nil {
			return fmt.Errorf("read stats: %w", err)
		}
		fmt.Println()
		fmt.Printf("Games:       %d\n", stats.Games)
		fmt.Printf("High score:  %d\n", stats.HighScore)
		fmt.Printf("Average:     %.1f\n", stats.AvgScore)
		fmt.Printf("Best round:  %d\n", stats.BestRound)
		fmt.Printf("Total lines: %d\n", stats.TotalLines)
		if !stats.LastPlayed.IsZero() {
			fmt.Printf("Last played: %s\n", stats.LastPlayed.Format("2006-01-02 15:04"))
		}
	}
	return nil
}
