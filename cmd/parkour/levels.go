package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-parkour/internal/level"
)

var flagLevelsJSON bool

var levelsCmd = &cobra.Command{
	Use:   "levels <n>",
	Short: "Describe a generated level",
	Long: `Print the layout of level n: seed, difficulty, length, segments and
obstacle counts. The fingerprint changes whenever the layout does.

Examples:
  parkour levels 1
  parkour levels 25 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runLevels,
}

func init() {
	levelsCmd.Flags().BoolVar(&flagLevelsJSON, "json", false, "Print the full level as JSON")
}

func parseLevel(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid level %q: must be a number of at least 1", arg)
	}
	return n, nil
}

func runLevels(_ *cobra.Command, args []string) error {
	n, err := parseLevel(args[0])
	if err != nil {
		return err
	}
	lvl := level.NewGenerator(settings.Level).Generate(n)

	if flagLevelsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(lvl)
	}

	fmt.Printf("Level %d\n\n", lvl.Number)
	fmt.Printf("  Seed:        %d\n", lvl.Seed)
	fmt.Printf("  Difficulty:  %.2f\n", lvl.Difficulty)
	fmt.Printf("  Length:      %.0f\n", lvl.Length)
	fmt.Printf("  Fingerprint: %016x\n", lvl.Fingerprint())
	fmt.Println()

	fmt.Printf("  %-4s  %-16s  %8s  %6s  %s\n", "#", "Segment", "X", "Width", "Obstacles")
	fmt.Printf("  %-4s  %-16s  %8s  %6s  %s\n", "--", "-------", "-", "-----", "---------")
	for i, seg := range lvl.Segments {
		fmt.Printf("  %-4d  %-16s  %8.0f  %6.0f  %d\n", i+1, seg.Type, seg.X, seg.W, len(seg.Obstacles))
	}
	fmt.Println()

	counts := lvl.Counts()
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, string(t))
	}
	sort.Strings(types)
	fmt.Println("  Obstacles:")
	for _, t := range types {
		fmt.Printf("    %-16s %d\n", t, counts[level.ObstacleType(t)])
	}
	return nil
}
