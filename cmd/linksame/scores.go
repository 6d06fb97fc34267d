package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/linksame/internal/games/linksame"
	"github.com/vovakirdan/linksame/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [variant]",
	Short: "Show high scores",
	Long: `Display the top scores of timed games. Scores are kept per board size and
number of stages, for example "normal/9". Without an argument every variant
is listed.

Examples:
  linksame scores
  linksame scores easy/9
  linksame scores --limit 3
  linksame scores --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores per variant")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all recorded scores")
}

func runScores(_ *cobra.Command, args []string) error {
	store := openStore()
	if store == nil {
		return fmt.Errorf("no scores database at %s", flagDBPath)
	}
	defer store.Close()

	if flagScoresClear {
		if err := store.ClearScores(linksame.IDTimed); err != nil {
			return err
		}
		fmt.Println("Scores cleared.")
		return nil
	}

	variants := args
	if len(variants) == 0 {
		var err error
		variants, err = store.Variants(linksame.IDTimed)
		if err != nil {
			return err
		}
	}

	if len(variants) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'linksame play' to set the first high score!")
		return nil
	}

	for i, variant := range variants {
		if i > 0 {
			fmt.Println()
		}
		if err := printVariant(store, variant); err != nil {
			return err
		}
	}

	stats, err := store.GetGameStats(linksame.IDTimed)
	if err == nil && stats.GamesCount > 0 {
		fmt.Println()
		fmt.Printf("Games won: %d  Average: %.0f  Last: %s\n",
			stats.GamesCount, stats.AvgScore, stats.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}

func printVariant(store *storage.Store, variant string) error {
	scores, err := store.TopScores(linksame.IDTimed, variant, flagScoresLimit)
	if err != nil {
		return err
	}

	fmt.Printf("High Scores - %s\n", variant)
	if len(scores) == 0 {
		fmt.Println("  No scores recorded yet.")
		return nil
	}
	fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
	fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-10d  %s\n", i+1, entry.Score, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	if best, err := store.BestScore(linksame.IDTimed, variant); err == nil {
		fmt.Printf("Best: %d\n", best)
	}
	return nil
}
