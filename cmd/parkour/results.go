package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-parkour/internal/storage"
)

var (
	flagResultsLevel int
	flagResultsLimit int
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Show recent results and progress",
	Long: `Display your coins, recent races and per-level progress.

Examples:
  parkour results
  parkour results --level 4`,
	Args: cobra.NoArgs,
	RunE: runResults,
}

func init() {
	resultsCmd.Flags().IntVar(&flagResultsLevel, "level", 0, "Only show races on this level (0 = all)")
	resultsCmd.Flags().IntVar(&flagResultsLimit, "limit", 10, "Number of races to show")
}

func runResults(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening progress database: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	p, err := store.PlayerData(ctx)
	if err != nil {
		return err
	}
	races, err := store.TopResults(ctx, flagResultsLevel, flagResultsLimit)
	if err != nil {
		return err
	}

	fmt.Printf("Coins: %d  Highest level: %d  Outfit: %s\n\n", p.Coins, p.HighestLevelUnlocked, p.CurrentOutfit)

	title := "Recent races"
	if flagResultsLevel > 0 {
		title = fmt.Sprintf("Best races - level %d", flagResultsLevel)
	}
	fmt.Println(title)
	if len(races) == 0 {
		fmt.Println("  No races recorded yet.")
		fmt.Println()
		fmt.Println("Run 'parkour play' to race!")
		return nil
	}
	fmt.Printf("  %-5s  %-4s  %-9s  %-5s  %-8s  %s\n", "Level", "Pos", "Time", "Coins", "Outfit", "Date")
	fmt.Printf("  %-5s  %-4s  %-9s  %-5s  %-8s  %s\n", "-----", "---", "----", "-----", "------", "----")
	for _, r := range races {
		fmt.Printf("  %-5d  %-4s  %-9s  %-5d  %-8s  %s\n",
			r.LevelNumber, ordinal(r.Position), fmt.Sprintf("%.2fs", r.Time), r.Coins, r.Outfit,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}

	if flagResultsLevel > 0 {
		return nil
	}
	progress, err := store.AllLevelProgress(ctx)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println("Progress")
	fmt.Printf("  %-5s  %-5s  %-9s  %-4s  %s\n", "Level", "Stars", "Best", "Pos", "Attempts")
	fmt.Printf("  %-5s  %-5s  %-9s  %-4s  %s\n", "-----", "-----", "----", "---", "--------")
	for _, lp := range progress {
		best, pos := "-", "-"
		if lp.BestTime != nil {
			best = fmt.Sprintf("%.2fs", *lp.BestTime)
		}
		if lp.BestPosition != nil {
			pos = ordinal(*lp.BestPosition)
		}
		fmt.Printf("  %-5d  %-5d  %-9s  %-4s  %d\n", lp.LevelNumber, lp.Stars, best, pos, lp.Attempts)
	}
	return nil
}
