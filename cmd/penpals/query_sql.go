package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func querySQLCmd() *cobra.Command {
	var positional []string
	cmd := &cobra.Command{
		Use:   "sql <query>",
		Short: "Run a read query against the published content tables",
		Long: "Run a read query against the published content tables.\n" +
			"Placeholders are bound in order from --arg ($1, $2 on postgres; ? on sqlite).",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSQL(strings.Join(args, " "), bindArgs(positional))
		},
	}
	cmd.Flags().StringArrayVar(&positional, "arg", nil, "Placeholder value, bound in order (repeatable)")
	return cmd
}

func runSQL(query string, params map[string]any) error {
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

	rows, err := db.RunSQL(ctx, query, params)
	if err != nil {
		return err
	}

	payload, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(payload))
	return nil
}

// bindArgs keys values "1", "2", ... in flag order. Integer-looking values
// are bound as integers so they compare against numeric columns.
func bindArgs(values []string) map[string]any {
	params := make(map[string]any, len(values))
	for i, raw := range values {
		var val any = raw
		if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			val = n
		}
		params[strconv.Itoa(i+1)] = val
	}
	return params
}
