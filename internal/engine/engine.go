package engine

import (
	"errors"
	"fmt"

	"penpals/internal/story"
)

var (
	ErrInsufficientBudget = errors.New("insufficient budget")
	ErrDanglingReference  = errors.New("next letter does not exist")
	ErrWrongPhase         = errors.New("action not allowed in current phase")
	ErrNoWalletEvent      = errors.New("letter has no wallet event")
	ErrNotCurrent         = errors.New("not the current region or letter")
	ErrEmptyRegion        = errors.New("region has no letters")
)

// New returns a fresh state: every region at its starting budget, zero
// impact, nothing completed and no region selected.
func New(cat *story.Catalog) State {
	budgets := make(map[story.RegionID]int, cat.Len())
	for _, region := range cat.Regions() {
		if _, ok := budgets[region.ID]; !ok {
			budgets[region.ID] = region.Budget
		}
	}
	return State{
		Budgets:   budgets,
		Completed: []story.RegionID{},
	}
}

// Reset discards all progress. It is New under the name the restart intent
// uses.
func Reset(cat *story.Catalog) State {
	return New(cat)
}

// SelectRegion enters a region at its first letter. Completed regions may be
// entered again; their completion is kept.
func SelectRegion(state State, region *story.Region) (State, Beat, error) {
	entry := region.EntryLetter()
	if entry == nil {
		return state, Beat{}, fmt.Errorf("%w: %s", ErrEmptyRegion, region.ID)
	}

	next := state.Clone()
	next.Region = region.ID
	next.Letter = entry.ID
	if _, ok := next.Budgets[region.ID]; !ok {
		next.Budgets[region.ID] = region.Budget
	}
	return next, Beat{Phase: PhaseReading, Letter: entry.ID}, nil
}

// ApplyChoice spends the choice's cost from the region budget and adds its
// impact. The beat moves to AwaitingWallet when the letter has a wallet event
// and to BeatComplete otherwise.
func ApplyChoice(state State, region *story.Region, letter *story.Letter, beat Beat, choice *story.Choice) (State, Beat, error) {
	if err := checkCurrent(state, region, letter, beat); err != nil {
		return state, beat, err
	}
	if beat.Phase != PhaseReading {
		return state, beat, fmt.Errorf("%w: choice submitted while %s", ErrWrongPhase, beat.Phase)
	}
	if _, err := letter.Choice(choice.ID); err != nil {
		return state, beat, err
	}

	next, err := spend(state, region.ID, choice.Cost, choice.Impact)
	if err != nil {
		return state, beat, err
	}

	nextBeat := Beat{
		Phase:  PhaseBeatComplete,
		Letter: letter.ID,
		Choice: choice.ID,
		Next:   choice.NextID,
	}
	if letter.Wallet != nil {
		nextBeat.Phase = PhaseAwaitingWallet
	}
	return next, nextBeat, nil
}

// ApplyWalletOption resolves the wallet event of the current letter. The
// next letter stays the one captured from the choice.
func ApplyWalletOption(state State, region *story.Region, letter *story.Letter, beat Beat, option *story.WalletOption) (State, Beat, error) {
	if err := checkCurrent(state, region, letter, beat); err != nil {
		return state, beat, err
	}
	if letter.Wallet == nil {
		return state, beat, fmt.Errorf("%w: %s/%s", ErrNoWalletEvent, region.ID, letter.ID)
	}
	if beat.Phase != PhaseAwaitingWallet {
		return state, beat, fmt.Errorf("%w: wallet option submitted while %s", ErrWrongPhase, beat.Phase)
	}
	if _, err := letter.Wallet.Option(option.ID); err != nil {
		return state, beat, err
	}

	next, err := spend(state, region.ID, option.Cost, option.Impact)
	if err != nil {
		return state, beat, err
	}

	nextBeat := beat
	nextBeat.Phase = PhaseBeatComplete
	return next, nextBeat, nil
}

// Advance leaves a completed beat. With a next letter the region continues
// there; without one the region is marked completed and the selection is
// cleared.
func Advance(state State, region *story.Region, beat Beat) (State, Beat, error) {
	if state.Region != region.ID || state.Letter != beat.Letter {
		return state, beat, fmt.Errorf("%w: %s/%s", ErrNotCurrent, region.ID, beat.Letter)
	}
	if beat.Phase != PhaseBeatComplete {
		return state, beat, fmt.Errorf("%w: advance while %s", ErrWrongPhase, beat.Phase)
	}

	if beat.Next != "" {
		if !region.HasLetter(beat.Next) {
			return state, beat, fmt.Errorf("%w: %s/%s", ErrDanglingReference, region.ID, beat.Next)
		}
		next := state.Clone()
		next.Letter = beat.Next
		return next, Beat{Phase: PhaseReading, Letter: beat.Next}, nil
	}

	next := state.Clone().withCompleted(region.ID)
	next.Region = ""
	next.Letter = ""
	return next, Beat{}, nil
}

// Finished reports whether every region of the catalog is completed.
func Finished(state State, cat *story.Catalog) bool {
	done := 0
	for _, id := range cat.RegionIDs() {
		if state.IsCompleted(id) {
			done++
		}
	}
	return cat.Len() > 0 && done >= cat.Len()
}

// Affordable reports whether cost fits in the region's remaining budget.
func Affordable(state State, region story.RegionID, cost int) bool {
	return cost <= state.Budget(region)
}

func checkCurrent(state State, region *story.Region, letter *story.Letter, beat Beat) error {
	if state.Region != region.ID || state.Letter != letter.ID || beat.Letter != letter.ID {
		return fmt.Errorf("%w: %s/%s", ErrNotCurrent, region.ID, letter.ID)
	}
	return nil
}

func spend(state State, region story.RegionID, cost int, impact story.Impact) (State, error) {
	budget := state.Budget(region)
	if cost > budget {
		return state, fmt.Errorf("%w: cost %d, remaining %d", ErrInsufficientBudget, cost, budget)
	}

	next := state.Clone()
	next.Budgets[region] = max(0, budget-cost)
	next.Impact = next.Impact.Add(impact)
	return next, nil
}
