package engine

import (
	"slices"

	"penpals/internal/story"
)

// State is one playthrough's session state. Values are never mutated in
// place by the engine: every transition returns a new State.
type State struct {
	Region    story.RegionID         `json:"region,omitempty"`
	Letter    string                 `json:"letter,omitempty"`
	Budgets   map[story.RegionID]int `json:"budgets"`
	Impact    story.Impact           `json:"impact"`
	Completed []story.RegionID       `json:"completed"`
}

func (s State) CurrentRegion() story.RegionID { return s.Region }
func (s State) CurrentLetter() string         { return s.Letter }

func (s State) Budget(id story.RegionID) int {
	return s.Budgets[id]
}

func (s State) IsCompleted(id story.RegionID) bool {
	return slices.Contains(s.Completed, id)
}

func (s State) CompletedRegions() []story.RegionID {
	return slices.Clone(s.Completed)
}

func (s State) Clone() State {
	out := s
	out.Budgets = make(map[story.RegionID]int, len(s.Budgets))
	for id, budget := range s.Budgets {
		out.Budgets[id] = budget
	}
	out.Completed = slices.Clone(s.Completed)
	return out
}

func (s State) withCompleted(id story.RegionID) State {
	if s.IsCompleted(id) {
		return s
	}
	s.Completed = append(s.Completed, id)
	return s
}

type Phase string

const (
	PhaseReading        Phase = "reading"
	PhaseAwaitingWallet Phase = "awaiting_wallet"
	PhaseBeatComplete   Phase = "beat_complete"
)

// Beat tracks the decision progress on the current letter. Next is captured
// from the submitted choice and stays fixed for the rest of the beat.
type Beat struct {
	Phase  Phase  `json:"phase"`
	Letter string `json:"letter"`
	Choice string `json:"choice,omitempty"`
	Next   string `json:"next,omitempty"`
}

// Ends reports whether advancing the beat completes the region.
func (b Beat) Ends() bool {
	return b.Phase == PhaseBeatComplete && b.Next == ""
}
