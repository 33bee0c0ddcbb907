package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"penpals/internal/story"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeEmptyCatalog          = "empty_catalog"
	codeEmptyRegion           = "empty_region"
	codeInvalidRegionID       = "invalid_region_id"
	codeDuplicateRegion       = "duplicate_region"
	codeDuplicateLetter       = "duplicate_letter"
	codeEmptyChoices          = "empty_choices"
	codeDuplicateChoice       = "duplicate_choice"
	codeDanglingNext          = "dangling_next"
	codeEmptyWallet           = "empty_wallet"
	codeDuplicateWalletOption = "duplicate_wallet_option"
	codeNegativeCost          = "negative_cost"
	codeNegativeBudget        = "negative_budget"
	codeCycle                 = "cycle"
	codeNoTerminal            = "no_terminal"
	codeUnreachableLetter     = "unreachable_letter"
	codeUnaffordableChoice    = "unaffordable_choice"
	codeMissingSender         = "missing_sender"
)

var regionIDPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

type Issue struct {
	Severity Severity
	Code     string
	Message  string
	Region   story.RegionID
	Letter   string
	Ref      string
}

func (i Issue) String() string {
	location := string(i.Region)
	if i.Letter != "" {
		location += "/" + i.Letter
	}
	if i.Ref != "" {
		location += "#" + i.Ref
	}
	if location == "" {
		return fmt.Sprintf("[%s] %s: %s", i.Severity, i.Code, i.Message)
	}
	return fmt.Sprintf("[%s] %s %s: %s", i.Severity, i.Code, location, i.Message)
}

type Report struct {
	Issues []Issue
}

func (r *Report) HasErrors() bool {
	return r.count(SeverityError) > 0
}

func (r *Report) Errors() []Issue  { return r.filter(SeverityError) }
func (r *Report) Warnings() []Issue { return r.filter(SeverityWarn) }

// Err returns nil when the report has no error-severity issues, otherwise a
// single error naming every offending item.
func (r *Report) Err() error {
	issues := r.Errors()
	if len(issues) == 0 {
		return nil
	}
	lines := make([]string, 0, len(issues))
	for _, issue := range issues {
		lines = append(lines, issue.String())
	}
	return fmt.Errorf("%w: %d issue(s)\n%s", ErrInvalidContent, len(issues), strings.Join(lines, "\n"))
}

var ErrInvalidContent = errors.New("content failed validation")

func (r *Report) count(severity Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			n++
		}
	}
	return n
}

func (r *Report) filter(severity Severity) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			out = append(out, issue)
		}
	}
	return out
}

// Run checks the whole catalog and returns every issue found. It never stops
// at the first problem.
func Run(cat *story.Catalog) *Report {
	report := &Report{}
	if cat == nil || len(cat.Regions()) == 0 {
		report.Issues = append(report.Issues, Issue{
			Severity: SeverityError,
			Code:     codeEmptyCatalog,
			Message:  "catalog declares no regions",
		})
		return report
	}

	seen := make(map[story.RegionID]struct{})
	for _, region := range cat.Regions() {
		if _, dup := seen[region.ID]; dup {
			report.Issues = append(report.Issues, Issue{
				Severity: SeverityError,
				Code:     codeDuplicateRegion,
				Message:  "region id declared more than once",
				Region:   region.ID,
			})
			continue
		}
		seen[region.ID] = struct{}{}
		report.Issues = append(report.Issues, validateRegion(region)...)
	}

	return report
}

func validateRegion(region *story.Region) []Issue {
	var issues []Issue
	if !regionIDPattern.MatchString(string(region.ID)) {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     codeInvalidRegionID,
			Message:  fmt.Sprintf("region id %q must match %s", region.ID, regionIDPattern),
			Region:   region.ID,
		})
	}
	if region.Budget < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     codeNegativeBudget,
			Message:  fmt.Sprintf("starting budget %d is negative", region.Budget),
			Region:   region.ID,
		})
	}
	if len(region.Letters) == 0 {
		return append(issues, Issue{
			Severity: SeverityError,
			Code:     codeEmptyRegion,
			Message:  "region has no letters",
			Region:   region.ID,
		})
	}

	letters := make(map[string]struct{}, len(region.Letters))
	for i := range region.Letters {
		letter := &region.Letters[i]
		if _, dup := letters[letter.ID]; dup {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Code:     codeDuplicateLetter,
				Message:  "letter id declared more than once",
				Region:   region.ID,
				Letter:   letter.ID,
			})
			continue
		}
		letters[letter.ID] = struct{}{}
		issues = append(issues, validateLetter(region, letter)...)
	}

	issues = append(issues, validateGraph(region)...)
	return issues
}

func validateLetter(region *story.Region, letter *story.Letter) []Issue {
	var issues []Issue
	issue := func(severity Severity, code, ref, message string) {
		issues = append(issues, Issue{
			Severity: severity,
			Code:     code,
			Message:  message,
			Region:   region.ID,
			Letter:   letter.ID,
			Ref:      ref,
		})
	}

	if strings.TrimSpace(letter.Sender) == "" {
		issue(SeverityWarn, codeMissingSender, "", "letter has no sender")
	}
	if len(letter.Choices) == 0 {
		issue(SeverityError, codeEmptyChoices, "", "letter offers no choices")
	}

	choices := make(map[string]struct{}, len(letter.Choices))
	for _, choice := range letter.Choices {
		if _, dup := choices[choice.ID]; dup {
			issue(SeverityError, codeDuplicateChoice, choice.ID, "choice id declared more than once")
		}
		choices[choice.ID] = struct{}{}

		if choice.Cost < 0 {
			issue(SeverityError, codeNegativeCost, choice.ID, fmt.Sprintf("cost %d is negative", choice.Cost))
		} else if choice.Cost > region.Budget {
			issue(SeverityWarn, codeUnaffordableChoice, choice.ID,
				fmt.Sprintf("cost %d exceeds starting budget %d", choice.Cost, region.Budget))
		}
		if choice.NextID != "" && !region.HasLetter(choice.NextID) {
			issue(SeverityError, codeDanglingNext, choice.ID,
				fmt.Sprintf("next letter %q does not exist in region", choice.NextID))
		}
	}

	if letter.Wallet == nil {
		return issues
	}
	if len(letter.Wallet.Options) == 0 {
		issue(SeverityError, codeEmptyWallet, "", "wallet event has no options")
	}
	options := make(map[string]struct{}, len(letter.Wallet.Options))
	for _, option := range letter.Wallet.Options {
		if _, dup := options[option.ID]; dup {
			issue(SeverityError, codeDuplicateWalletOption, option.ID, "wallet option id declared more than once")
		}
		options[option.ID] = struct{}{}
		if option.Cost < 0 {
			issue(SeverityError, codeNegativeCost, option.ID, fmt.Sprintf("cost %d is negative", option.Cost))
		}
	}

	return issues
}
