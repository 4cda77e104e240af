package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-parkour/internal/race"
)

var (
	flagRuns    int
	flagSimJSON bool
	flagLimit   float64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <n>",
	Short: "Run headless autopilot races",
	Long: `Race level n without a terminal, with the autopilot driving the player.
Run k uses seed+k, so a fixed --seed repeats the same races.

Examples:
  parkour simulate 1
  parkour simulate 10 --runs 50 --seed 42
  parkour simulate 30 --difficulty hard --json`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagRuns, "runs", 10, "Number of races")
	simulateCmd.Flags().BoolVar(&flagSimJSON, "json", false, "Print results and summary as JSON")
	simulateCmd.Flags().Float64Var(&flagLimit, "limit", race.DefaultRaceTimeLimit, "Race clock limit in seconds")
}

func runSimulate(_ *cobra.Command, args []string) error {
	n, err := parseLevel(args[0])
	if err != nil {
		return err
	}
	if flagRuns < 1 {
		return fmt.Errorf("--runs must be at least 1")
	}
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	results := make([]race.Result, 0, flagRuns)
	for i := 0; i < flagRuns; i++ {
		res, ok, err := race.Simulate(n, settings, seed+int64(i), flagLimit, logger)
		if err != nil {
			return err
		}
		if !ok {
			logger.Warn("race did not finish", "run", i+1, "limit", flagLimit)
			continue
		}
		results = append(results, res)
	}
	summary := race.Summarize(flagRuns, results)

	if flagSimJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Level   int           `json:"level"`
			Seed    int64         `json:"seed"`
			Results []race.Result `json:"results"`
			Summary race.Summary  `json:"summary"`
		}{n, seed, results, summary})
	}

	fmt.Printf("Level %d - %d runs (seed %d)\n\n", n, flagRuns, seed)
	fmt.Printf("  %-4s  %-8s  %-9s  %s\n", "Run", "Position", "Time", "Coins")
	fmt.Printf("  %-4s  %-8s  %-9s  %s\n", "---", "--------", "----", "-----")
	for i, r := range results {
		fmt.Printf("  %-4d  %-8s  %-9s  %d\n", i+1, ordinal(r.Position), fmt.Sprintf("%.2fs", r.CompletionTime), r.CoinsEarned)
	}
	fmt.Println()
	fmt.Printf("Finished: %d/%d  Wins: %d  Avg position: %.2f  Avg time: %.2fs  Best: %.2fs  Coins: %d\n",
		summary.Finished, summary.Runs, summary.Wins, summary.AvgPosition, summary.AvgTime, summary.BestTime, summary.TotalCoins)
	return nil
}
