package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"penpals/internal/story"
)

func queryRegionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "region <id>",
		Short: "Show a published region with its letters and context cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryRegion(story.RegionID(args[0]))
		},
	}
}

func runQueryRegion(id story.RegionID) error {
	ctx := context.Background()

	cfg, _, err := loadProject()
	if err != nil {
		return err
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	cat, err := db.LoadCatalog(ctx)
	if err != nil {
		return err
	}
	region, err := cat.Region(id)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%s (%s)\n", region.Name, region.ID)
	fmt.Fprintf(os.Stdout, "  Budget: $%d\n", region.Budget)
	fmt.Fprintf(os.Stdout, "  Map:    top %s, left %s\n", region.Coordinates.Top, region.Coordinates.Left)

	fmt.Fprintf(os.Stdout, "\nLetters (%d):\n", len(region.Letters))
	for _, letter := range region.Letters {
		wallet := ""
		if letter.Wallet != nil {
			wallet = fmt.Sprintf(", wallet with %d options", len(letter.Wallet.Options))
		}
		fmt.Fprintf(os.Stdout, "  - %s: %s, from %s, %d choices%s\n", letter.ID, letter.Day, letter.Sender, len(letter.Choices), wallet)
	}

	if len(region.ContextCards) > 0 {
		fmt.Fprintf(os.Stdout, "\nContext cards (%d):\n", len(region.ContextCards))
		for _, card := range region.ContextCards {
			fmt.Fprintf(os.Stdout, "  - %s (%s)\n", card.Title, card.Source)
		}
	}
	return nil
}
