// parkour is a terminal endless-runner race against AI bots.
//
// Usage:
//
//	parkour play              - Pick a level and race
//	parkour levels <n>        - Describe a generated level
//	parkour simulate <n>      - Run headless autopilot races
//	parkour results           - Show recent results and progress
//	parkour outfits           - List, buy and equip outfits
//	parkour serve             - Start SSH server for remote play
//	parkour api               - Start the HTTP API
//
// Global flags:
//
//	--config <path>       - Race config YAML
//	--db <path>           - Progress database (default: ~/.parkour/parkour.db)
//	--difficulty <preset> - Bot difficulty: easy, normal, hard
//	--seed <value>        - RNG seed for reproducible bots
//	--moving-platforms    - Add moving platforms above straight runs
//
// A .env file in the working directory may set PARKOUR_DB, PARKOUR_CONFIG
// and PARKOUR_SEED. Flags given on the command line win.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-parkour/internal/config"
	"github.com/vovakirdan/tui-parkour/internal/race"
)

var (
	// Global flags
	flagConfig     string
	flagDBPath     string
	flagDifficulty string
	flagSeed       int64
	flagVerbose    bool
	flagMoving     bool

	// Loaded once flags and environment are known.
	runnerCfg config.Runner
	settings  race.Settings
	logger    *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "parkour",
	Short: "TUI Parkour - race AI bots across generated rooftops",
	Long: `TUI Parkour is a side-scrolling race in your terminal. Every level is
generated from its number, so level 12 is the same course for everyone.
Beat five bots to the finish line to earn coins and unlock the next level.

Available commands:
  play      - Pick a level and race
  levels    - Describe a generated level
  simulate  - Run headless autopilot races
  results   - Show recent results and progress
  outfits   - List, buy and equip outfits
  serve     - Start SSH server for remote play
  api       - Start the HTTP API

Examples:
  parkour play
  parkour play --level 5 --outfit ninja
  parkour outfits buy ninja
  parkour levels 12
  parkour simulate 10 --runs 20
  parkour serve --ssh :2222
  parkour api --addr :8080`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to race config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.parkour/parkour.db", "Path to progress database")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Bot difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed for bots (0 = random based on time)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagMoving, "moving-platforms", false, "Add moving platforms above straight runs")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(outfitsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(apiCmd)
}

// setup loads .env, applies environment defaults and builds the settings
// shared by every command.
func setup(cmd *cobra.Command, _ []string) error {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "parkour",
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("could not read .env", "error", err)
	}
	if err := applyEnv(cmd); err != nil {
		return err
	}

	cfg, err := config.LoadRunner(flagConfig)
	if err != nil {
		return err
	}
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return err
	}
	config.ApplyRunnerPreset(&cfg, preset)
	if cmd.Flags().Changed("moving-platforms") {
		cfg.Level.MovingPlatforms = flagMoving
	}

	runnerCfg = cfg
	settings = race.SettingsFrom(cfg)
	logger.Debug("settings loaded", "config", flagConfig, "difficulty", preset, "bots", settings.Bots)
	return nil
}

// applyEnv fills flags that were not set on the command line from the
// environment.
func applyEnv(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if v := os.Getenv("PARKOUR_DB"); v != "" && !flags.Changed("db") {
		flagDBPath = v
	}
	if v := os.Getenv("PARKOUR_CONFIG"); v != "" && !flags.Changed("config") {
		flagConfig = v
	}
	if v := os.Getenv("PARKOUR_SEED"); v != "" && !flags.Changed("seed") {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid PARKOUR_SEED %q: %w", v, err)
		}
		flagSeed = seed
	}
	return nil
}
