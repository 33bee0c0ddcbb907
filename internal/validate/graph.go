package validate

import (
	"fmt"
	"strings"

	"penpals/internal/story"
)

type visitState int

const (
	unvisited visitState = iota
	visiting
	visited
)

// validateGraph walks the next-letter edges of one region from its entry
// letter. Every walk has to end on a choice without a next letter within a
// bounded number of steps, so any cycle is an error.
func validateGraph(region *story.Region) []Issue {
	entry := region.EntryLetter()
	if entry == nil {
		return nil
	}

	var issues []Issue
	states := make(map[string]visitState, len(region.Letters))
	reported := make(map[string]struct{})
	var stack []string

	var walk func(id string)
	walk = func(id string) {
		states[id] = visiting
		stack = append(stack, id)

		letter, err := region.Letter(id)
		if err == nil {
			for _, next := range successors(region, letter) {
				switch states[next] {
				case unvisited:
					walk(next)
				case visiting:
					cycle := cyclePath(stack, next)
					key := strings.Join(cycle, ">")
					if _, dup := reported[key]; dup {
						continue
					}
					reported[key] = struct{}{}
					issues = append(issues, Issue{
						Severity: SeverityError,
						Code:     codeCycle,
						Message:  fmt.Sprintf("letters form a cycle: %s", strings.Join(cycle, " -> ")),
						Region:   region.ID,
						Letter:   next,
					})
				}
			}
		}

		stack = stack[:len(stack)-1]
		states[id] = visited
	}
	walk(entry.ID)

	if !reachesTerminal(region, entry.ID) {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     codeNoTerminal,
			Message:  "no path from the entry letter ends the region",
			Region:   region.ID,
			Letter:   entry.ID,
		})
	}

	for _, letter := range region.Letters {
		if states[letter.ID] == unvisited {
			issues = append(issues, Issue{
				Severity: SeverityWarn,
				Code:     codeUnreachableLetter,
				Message:  "letter cannot be reached from the entry letter",
				Region:   region.ID,
				Letter:   letter.ID,
			})
			states[letter.ID] = visited
		}
	}

	return issues
}

// successors returns the distinct resolvable next letters of a letter in
// choice order. Dangling references are reported elsewhere.
func successors(region *story.Region, letter *story.Letter) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, choice := range letter.Choices {
		if choice.NextID == "" || !region.HasLetter(choice.NextID) {
			continue
		}
		if _, dup := seen[choice.NextID]; dup {
			continue
		}
		seen[choice.NextID] = struct{}{}
		out = append(out, choice.NextID)
	}
	return out
}

func isTerminal(letter *story.Letter) bool {
	for _, choice := range letter.Choices {
		if choice.NextID == "" {
			return true
		}
	}
	return false
}

func reachesTerminal(region *story.Region, entry string) bool {
	seen := map[string]struct{}{entry: {}}
	queue := []string{entry}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		letter, err := region.Letter(id)
		if err != nil {
			continue
		}
		if isTerminal(letter) {
			return true
		}
		for _, next := range successors(region, letter) {
			if _, ok := seen[next]; ok {
				continue
			}
			seen[next] = struct{}{}
			queue = append(queue, next)
		}
	}
	return false
}

func cyclePath(stack []string, start string) []string {
	for i, id := range stack {
		if id == start {
			path := append([]string{}, stack[i:]...)
			return append(path, start)
		}
	}
	return []string{start}
}
