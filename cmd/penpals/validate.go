package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"penpals/internal/story"
	"penpals/internal/validate"
)

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the content tree for broken references and authoring mistakes",
		Args:  cobra.NoArgs,
		RunE:  runValidate,
	}
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadProject()
	if err != nil {
		return err
	}

	cat, err := story.Load(cfg.Content.FS())
	if err != nil {
		return err
	}

	report := validate.Run(cat)
	if len(report.Issues) == 0 {
		fmt.Fprintf(os.Stdout, "No issues found in %s (%d regions).\n", describeSource(cfg), cat.Len())
		return nil
	}

	printReport(os.Stdout, report)
	if report.HasErrors() {
		return fmt.Errorf("validation found errors")
	}
	return nil
}

func printReport(out io.Writer, report *validate.Report) {
	errorIssues := report.Errors()
	warnIssues := report.Warnings()

	if len(errorIssues) > 0 {
		fmt.Fprintf(out, "Errors (%d):\n", len(errorIssues))
		printIssues(out, errorIssues)
	}
	if len(warnIssues) > 0 {
		if len(errorIssues) > 0 {
			fmt.Fprintln(out, "")
		}
		fmt.Fprintf(out, "Warnings (%d):\n", len(warnIssues))
		printIssues(out, warnIssues)
	}
}

func printIssues(out io.Writer, issues []validate.Issue) {
	for _, issue := range issues {
		location := string(issue.Region)
		if issue.Letter != "" {
			location = fmt.Sprintf("%s/%s", location, issue.Letter)
		}
		if issue.Ref != "" {
			location = fmt.Sprintf("%s (%s)", location, issue.Ref)
		}
		if location == "" {
			location = "catalog"
		}
		fmt.Fprintf(out, "  - %s: %s (%s)\n", location, issue.Message, issue.Code)
	}
}
