package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"penpals/internal/story"
)

func queryLetterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "letter <region> <letter>",
		Short: "Show a published letter with its choices and wallet event",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryLetter(story.RegionID(args[0]), args[1])
		},
	}
}

func runQueryLetter(regionID story.RegionID, letterID string) error {
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
	region, err := cat.Region(regionID)
	if err != nil {
		return err
	}
	letter, err := region.Letter(letterID)
	if err != nil {
		return err
	}

	printLetter(os.Stdout, regionID, letter)
	return nil
}

func printLetter(out io.Writer, regionID story.RegionID, letter *story.Letter) {
	fmt.Fprintf(out, "%s/%s  %s\n", regionID, letter.ID, letter.Day)
	fmt.Fprintf(out, "From: %s\n\n", letter.Sender)
	fmt.Fprintln(out, letter.Content)
	fmt.Fprintln(out, "\nChoices:")
	for _, choice := range letter.Choices {
		next := choice.NextID
		if next == "" {
			next = "(end)"
		}
		fmt.Fprintf(out, "  - %s: %s -> %s %s\n", choice.ID, choice.Text, next, formatImpact(choice.Impact))
	}
	if letter.Wallet != nil {
		fmt.Fprintf(out, "\nWallet: %s\n", letter.Wallet.Prompt)
		for _, option := range letter.Wallet.Options {
			fmt.Fprintf(out, "  - %s: %s [%s] %s\n", option.ID, option.Label, option.CostLabel, formatImpact(option.Impact))
		}
	}
}

func formatImpact(impact story.Impact) string {
	return fmt.Sprintf("(warmth %+d, reliability %+d, affordability %+d, agency %+d)",
		impact.Warmth, impact.Reliability, impact.Affordability, impact.Agency)
}
