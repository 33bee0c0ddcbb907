package main

import "github.com/spf13/cobra"

func queryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query the published content from the CLI",
	}
	cmd.AddCommand(queryRegionsCmd())
	cmd.AddCommand(queryRegionCmd())
	cmd.AddCommand(queryLetterCmd())
	cmd.AddCommand(querySQLCmd())
	return cmd
}
