package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-parkour/internal/registry"
	"github.com/vovakirdan/tui-parkour/internal/storage"
)

var outfitsCmd = &cobra.Command{
	Use:   "outfits",
	Short: "List, buy and equip outfits",
	Long: `Without a subcommand, list every outfit with its price and whether
you own it. Coins are earned by finishing races.

Examples:
  parkour outfits
  parkour outfits buy ninja
  parkour outfits equip default`,
	Args: cobra.NoArgs,
	RunE: runOutfitsList,
}

var outfitsBuyCmd = &cobra.Command{
	Use:   "buy <outfit>",
	Short: "Spend coins on an outfit and wear it",
	Args:  cobra.ExactArgs(1),
	RunE:  runOutfitsBuy,
}

var outfitsEquipCmd = &cobra.Command{
	Use:   "equip <outfit>",
	Short: "Wear an outfit you own",
	Args:  cobra.ExactArgs(1),
	RunE:  runOutfitsEquip,
}

func init() {
	outfitsCmd.AddCommand(outfitsBuyCmd)
	outfitsCmd.AddCommand(outfitsEquipCmd)
}

func runOutfitsList(cmd *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening progress database: %w", err)
	}
	defer store.Close()

	p, err := store.PlayerData(context.Background())
	if err != nil {
		return err
	}
	owned := make(map[string]bool, len(p.UnlockedOutfits))
	for _, id := range p.UnlockedOutfits {
		owned[id] = true
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Coins: %d\n\n", p.Coins)
	fmt.Fprintf(out, "  %-8s  %-16s  %-5s  %s\n", "ID", "Name", "Cost", "")
	for _, o := range registry.List() {
		state := ""
		switch {
		case o.ID == p.CurrentOutfit:
			state = "equipped"
		case owned[o.ID]:
			state = "owned"
		}
		fmt.Fprintf(out, "  %-8s  %-16s  %-5d  %s\n", o.ID, o.Name, o.Cost, state)
	}
	return nil
}

func runOutfitsBuy(cmd *cobra.Command, args []string) error {
	id := args[0]
	outfit, err := registry.Get(id)
	if err != nil {
		return fmt.Errorf("unknown outfit %q", id)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening progress database: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	bought, err := store.PurchaseOutfit(ctx, id)
	if err != nil {
		return err
	}
	if !bought {
		p, err := store.PlayerData(ctx)
		if err != nil {
			return err
		}
		for _, owned := range p.UnlockedOutfits {
			if owned == id {
				return fmt.Errorf("you already own %s", outfit.Name)
			}
		}
		return fmt.Errorf("%s costs %d coins, you have %d", outfit.Name, outfit.Cost, p.Coins)
	}
	if err := store.EquipOutfit(ctx, id); err != nil {
		return err
	}
	logger.Debug("outfit bought", "outfit", id, "cost", outfit.Cost)
	fmt.Fprintf(cmd.OutOrStdout(), "Bought and equipped %s\n", outfit.Name)
	return nil
}

func runOutfitsEquip(cmd *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening progress database: %w", err)
	}
	defer store.Close()

	id, err := resolveOutfit(context.Background(), store, args[0])
	if err != nil {
		return err
	}
	outfit, _ := registry.Get(id)
	fmt.Fprintf(cmd.OutOrStdout(), "Equipped %s\n", outfit.Name)
	return nil
}
