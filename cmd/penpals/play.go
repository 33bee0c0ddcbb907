package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"penpals/internal/engine"
	"penpals/internal/session"
	"penpals/internal/story"
	"penpals/internal/summary"
)

func playCmd() *cobra.Command {
	var fromDB bool
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play through the letters in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlayCommand(fromDB)
		},
	}
	cmd.Flags().BoolVar(&fromDB, "from-db", false, "Play the release published to the database")
	return cmd
}

func runPlayCommand(fromDB bool) error {
	cfg, logger, err := loadProject()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cat, err := loadCatalog(context.Background(), cfg, fromDB, logger)
	if err != nil {
		return err
	}
	sessions := session.NewManager(cat, logger)
	p := sessions.Create()
	defer sessions.Delete(p.ID)

	return runPlay(os.Stdin, os.Stdout, p, logger)
}

// runPlay drives one playthrough from line-oriented input until every region
// is complete, the input ends, or the player types "quit".
func runPlay(in io.Reader, out io.Writer, p *session.Playthrough, logger *zap.Logger) error {
	scanner := bufio.NewScanner(in)
	view := p.View()
	for {
		render(out, view)
		if view.Finished && view.Phase == "" {
			return nil
		}

		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(line) {
		case "q", "quit":
			return nil
		case "restart":
			view = p.Restart()
			continue
		}

		next, err := step(p, view, line)
		if err != nil {
			logger.Debug("input rejected", zap.String("input", line), zap.Error(err))
			fmt.Fprintf(out, "! %v\n", err)
		}
		view = next
	}
}

func step(p *session.Playthrough, view session.View, line string) (session.View, error) {
	switch view.Phase {
	case engine.PhaseReading:
		idx, err := pick(line, len(view.Letter.Choices))
		if err != nil {
			return view, err
		}
		return p.SubmitChoice(view.Letter.Choices[idx].ID)
	case engine.PhaseAwaitingWallet:
		idx, err := pick(line, len(view.Wallet.Options))
		if err != nil {
			return view, err
		}
		return p.SubmitWalletOption(view.Wallet.Options[idx].ID)
	case engine.PhaseBeatComplete:
		return p.Continue()
	default:
		id := story.RegionID(line)
		if idx, err := pick(line, len(view.Map)); err == nil {
			id = view.Map[idx].ID
		}
		return p.SelectRegion(id)
	}
}

// pick parses a 1-based menu number.
func pick(line string, n int) (int, error) {
	idx, err := strconv.Atoi(line)
	if err != nil || idx < 1 || idx > n {
		return 0, fmt.Errorf("enter a number from 1 to %d", n)
	}
	return idx - 1, nil
}

func render(out io.Writer, view session.View) {
	switch view.Phase {
	case engine.PhaseReading, engine.PhaseAwaitingWallet, engine.PhaseBeatComplete:
		renderLetter(out, view)
	default:
		if view.Finished {
			renderSummary(out, view.Summary)
			return
		}
		renderMap(out, view)
	}
}

func renderMap(out io.Writer, view session.View) {
	fmt.Fprintf(out, "\n== Map (%d/%d explored) ==\n", len(view.Completed), len(view.Map))
	for i, region := range view.Map {
		mark := " "
		if region.Completed {
			mark = "x"
		}
		fmt.Fprintf(out, "  %d. [%s] %s (%s) budget $%d\n", i+1, mark, region.Name, region.ID, region.Budget)
	}
	fmt.Fprintf(out, "Impact %s\n", formatImpact(view.Impact))
	fmt.Fprintln(out, "Pick a region, or type restart or quit.")
}

func renderLetter(out io.Writer, view session.View) {
	letter := view.Letter
	fmt.Fprintf(out, "\n== %s  budget $%d of $%d ==\n", view.Region.Name, view.Region.Budget, view.Region.StartingBudget)

	switch view.Phase {
	case engine.PhaseReading:
		fmt.Fprintf(out, "%s\nFrom: %s\n\n%s\n\n", letter.Day, letter.Sender, letter.Content)
		for i, choice := range letter.Choices {
			note := ""
			if !choice.Selectable {
				note = " (can't afford)"
			}
			fmt.Fprintf(out, "  %d. %s%s\n", i+1, choice.Text, note)
		}
	case engine.PhaseAwaitingWallet:
		fmt.Fprintf(out, "Wallet: %s\n", view.Wallet.Prompt)
		for i, option := range view.Wallet.Options {
			note := ""
			if !option.Selectable {
				note = " (can't afford)"
			}
			fmt.Fprintf(out, "  %d. %s [%s]%s\n", i+1, option.Label, option.CostLabel, note)
		}
	case engine.PhaseBeatComplete:
		fmt.Fprintf(out, "Reply sent to %s. Impact %s\n", letter.Sender, formatImpact(view.Impact))
		fmt.Fprintln(out, "Press enter to continue.")
	}
}

func renderSummary(out io.Writer, s *summary.Summary) {
	if s == nil {
		return
	}
	fmt.Fprintf(out, "\n== Journey complete: %d/%d regions ==\n", s.Explored, s.Total)
	for _, meter := range s.Meters {
		fmt.Fprintf(out, "  %-14s %+3d  %5.1f%%\n", meter.Axis, meter.Value, meter.Percent)
	}
	if s.Dominant != "" {
		fmt.Fprintf(out, "Your replies leaned toward %s.\n", s.Dominant)
	}

	fmt.Fprintln(out, "\nPassport:")
	for _, stamp := range s.Passport {
		fmt.Fprintf(out, "  [%s] %s\n", stamp.Code, stamp.Name)
	}

	for _, region := range s.Regions {
		fmt.Fprintf(out, "\n%s:\n", region.Name)
		for _, takeaway := range region.Takeaways {
			fmt.Fprintf(out, "  - %s\n", takeaway)
		}
	}

	if len(s.Sources) > 0 {
		fmt.Fprintln(out, "\nSources:")
		for _, source := range s.Sources {
			fmt.Fprintf(out, "  - %s %s\n", source.Label, source.URL)
		}
	}
}
