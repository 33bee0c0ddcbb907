package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func queryRegionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List published regions with their budgets",
		Args:  cobra.NoArgs,
		RunE:  runQueryRegions,
	}
}

func runQueryRegions(cmd *cobra.Command, args []string) error {
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

	regions, err := db.ListRegions(ctx)
	if err != nil {
		return err
	}
	if len(regions) == 0 {
		fmt.Fprintln(os.Stdout, "No regions published.")
		return nil
	}

	for _, region := range regions {
		fmt.Fprintf(os.Stdout, "%s (%s) budget=%d letters=%d choices=%d\n",
			region.ID, region.Name, region.Budget, region.Letters, region.Choices)
	}
	return nil
}
