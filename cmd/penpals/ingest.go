package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"penpals/internal/ingest"
)

var ingestFull bool

func ingestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Validate the content tree and publish it to the database",
		Args:  cobra.NoArgs,
		RunE:  runIngest,
	}
	cmd.Flags().BoolVar(&ingestFull, "full", false, "Republish even when the content is unchanged")
	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, logger, err := loadProject()
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	result, err := ingest.Run(ctx, cfg, nil, db, ingest.Options{Full: ingestFull, Logger: logger})
	if err != nil {
		return err
	}

	if result.Skipped {
		fmt.Fprintf(os.Stdout, "Content unchanged (%s), nothing published.\n", shortHash(result.Hash))
		return nil
	}

	fmt.Fprintln(os.Stdout, "Ingestion complete.")
	fmt.Fprintf(os.Stdout, "  Regions:        %d\n", result.Counts.Regions)
	fmt.Fprintf(os.Stdout, "  Letters:        %d\n", result.Counts.Letters)
	fmt.Fprintf(os.Stdout, "  Choices:        %d\n", result.Counts.Choices)
	fmt.Fprintf(os.Stdout, "  Wallet options: %d\n", result.Counts.WalletOptions)
	fmt.Fprintf(os.Stdout, "  Content hash:   %s\n", shortHash(result.Hash))

	if len(result.Warnings) > 0 {
		fmt.Fprintf(os.Stdout, "\nWarnings (%d):\n", len(result.Warnings))
		printIssues(os.Stdout, result.Warnings)
	}
	return nil
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
