package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-parkour/internal/platform/tui"
	"github.com/vovakirdan/tui-parkour/internal/registry"
	"github.com/vovakirdan/tui-parkour/internal/storage"
)

var (
	flagLevel  int
	flagOutfit string
	flagFPS    int
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Race in the terminal",
	Long: `Start a race. Without --level a picker lists your unlocked levels.

Controls:
  Space/Up/W      - Jump
  Down/S          - Slide
  C/E/Shift+Up    - Climb (next to a wall)
  P/Esc           - Pause
  R               - Restart (after the race)
  B               - Back to the picker (paused or finished)
  Q/Ctrl+C        - Quit

Examples:
  parkour play
  parkour play --level 3
  parkour play --level 3 --outfit ninja --difficulty hard`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "Level to race (0 = pick interactively)")
	playCmd.Flags().StringVar(&flagOutfit, "outfit", "", "Outfit to wear (default: your equipped outfit)")
	playCmd.Flags().IntVar(&flagFPS, "fps", 0, "Frames per second (default: from config)")
}

func runPlay(_ *cobra.Command, _ []string) error {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}

	fps := flagFPS
	if fps <= 0 {
		fps = runnerCfg.Render.TickRate
	}

	// The game still works without storage; progress is just not kept.
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open progress database, progress will not be saved", "error", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	outfit, err := resolveOutfit(context.Background(), store, flagOutfit)
	if err != nil {
		return err
	}

	if flagLevel <= 0 {
		return tui.RunSession(store, tui.SessionConfig{
			Settings:   settings,
			FPS:        fps,
			CellWidth:  runnerCfg.Render.CellWidth,
			CellHeight: runnerCfg.Render.CellHeight,
			Width:      width,
			Height:     height,
			Seed:       flagSeed,
		}, logger)
	}

	if store != nil {
		p, err := store.PlayerData(context.Background())
		if err != nil {
			return err
		}
		if flagLevel > p.HighestLevelUnlocked {
			return fmt.Errorf("level %d is locked (highest unlocked: %d)", flagLevel, p.HighestLevelUnlocked)
		}
	}

	model, err := tui.RunRace(tui.RaceOptions{
		Level:      flagLevel,
		Outfit:     outfit,
		Settings:   settings,
		FPS:        fps,
		CellWidth:  runnerCfg.Render.CellWidth,
		CellHeight: runnerCfg.Render.CellHeight,
		Width:      width,
		Height:     height,
		Seed:       flagSeed,
		Store:      store,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	if res, ok := model.Result(); ok {
		fmt.Printf("Level %d: finished %s in %.2fs, earned %d coins\n",
			res.LevelNumber, ordinal(res.Position), res.CompletionTime, res.CoinsEarned)
	}
	return nil
}

// resolveOutfit picks the outfit to race in. An empty request means the
// equipped outfit. A requested outfit must be owned and becomes the
// equipped one. Without a store only the default outfit is available.
func resolveOutfit(ctx context.Context, store *storage.Store, requested string) (string, error) {
	if requested != "" && !registry.Exists(requested) {
		return "", fmt.Errorf("unknown outfit %q", requested)
	}
	if store == nil {
		if requested != "" && requested != registry.DefaultOutfit {
			return "", fmt.Errorf("outfit %q needs saved progress to unlock", requested)
		}
		return registry.DefaultOutfit, nil
	}

	if requested == "" {
		p, err := store.PlayerData(ctx)
		if err != nil {
			return "", err
		}
		return p.CurrentOutfit, nil
	}
	if err := store.EquipOutfit(ctx, requested); err != nil {
		if errors.Is(err, storage.ErrOutfitLocked) {
			o, _ := registry.Get(requested)
			return "", fmt.Errorf("outfit %q is locked, buy it for %d coins with 'parkour outfits buy %s'", requested, o.Cost, requested)
		}
		return "", err
	}
	return requested, nil
}

func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
