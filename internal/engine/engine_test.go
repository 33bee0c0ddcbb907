package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"penpals/content"
	"penpals/internal/story"
)

func loadCatalog(t *testing.T) *story.Catalog {
	t.Helper()
	cat, err := story.Load(content.FS)
	require.NoError(t, err)
	return cat
}

func region(t *testing.T, cat *story.Catalog, id story.RegionID) *story.Region {
	t.Helper()
	r, err := cat.Region(id)
	require.NoError(t, err)
	return r
}

func letter(t *testing.T, r *story.Region, id string) *story.Letter {
	t.Helper()
	l, err := r.Letter(id)
	require.NoError(t, err)
	return l
}

func choice(t *testing.T, l *story.Letter, id string) *story.Choice {
	t.Helper()
	c, err := l.Choice(id)
	require.NoError(t, err)
	return c
}

func option(t *testing.T, l *story.Letter, id string) *story.WalletOption {
	t.Helper()
	require.NotNil(t, l.Wallet)
	o, err := l.Wallet.Option(id)
	require.NoError(t, err)
	return o
}

// tinyCatalog has one region whose only choice costs more than its budget and
// one region with a dangling next reference.
func tinyCatalog() *story.Catalog {
	return story.NewCatalog(1, nil, []story.Region{
		{
			ID:     "north",
			Budget: 40,
			Letters: []story.Letter{{
				ID: "n1",
				Choices: []story.Choice{
					{ID: "pricey", Cost: 100, Impact: story.Impact{Warmth: 5}},
					{ID: "exact", Cost: 40, Impact: story.Impact{Agency: 1}},
				},
			}},
		},
		{
			ID:     "rural",
			Budget: 10,
			Letters: []story.Letter{{
				ID:      "r1",
				Choices: []story.Choice{{ID: "c1", NextID: "r9"}},
			}},
		},
	})
}

func TestNew(t *testing.T) {
	cat := loadCatalog(t)
	state := New(cat)

	assert.Equal(t, story.RegionID(""), state.CurrentRegion())
	assert.Equal(t, "", state.CurrentLetter())
	assert.True(t, state.Impact.IsZero())
	assert.Empty(t, state.CompletedRegions())
	assert.Equal(t, map[story.RegionID]int{"north": 500, "rural": 900, "city": 1300, "medical": 600}, state.Budgets)
	assert.False(t, Finished(state, cat))
}

func TestNorthChoiceThenWallet(t *testing.T) {
	cat := loadCatalog(t)
	north := region(t, cat, "north")
	n1 := letter(t, north, "n1")

	state, beat, err := SelectRegion(New(cat), north)
	require.NoError(t, err)
	assert.Equal(t, Beat{Phase: PhaseReading, Letter: "n1"}, beat)
	assert.Equal(t, story.RegionID("north"), state.CurrentRegion())
	assert.Equal(t, "n1", state.CurrentLetter())

	state, beat, err = ApplyChoice(state, north, n1, beat, choice(t, n1, "c1"))
	require.NoError(t, err)
	assert.Equal(t, PhaseAwaitingWallet, beat.Phase)
	assert.Equal(t, "n2", beat.Next)
	assert.Equal(t, 500, state.Budget("north"))

	state, beat, err = ApplyWalletOption(state, north, n1, beat, option(t, n1, "split-fuel"))
	require.NoError(t, err)
	assert.Equal(t, PhaseBeatComplete, beat.Phase)
	assert.Equal(t, "n2", beat.Next, "wallet option must not change the next letter")
	assert.Equal(t, 450, state.Budget("north"))
	assert.Equal(t, story.Impact{Warmth: 2, Reliability: 2, Affordability: -1, Agency: -1}, state.Impact)

	state, beat, err = Advance(state, north, beat)
	require.NoError(t, err)
	assert.Equal(t, Beat{Phase: PhaseReading, Letter: "n2"}, beat)
	assert.Equal(t, "n2", state.CurrentLetter())
	assert.False(t, state.IsCompleted("north"))
}

func TestTerminalChoiceCompletesRegion(t *testing.T) {
	cat := loadCatalog(t)
	north := region(t, cat, "north")
	n3 := letter(t, north, "n3")

	state, _, err := SelectRegion(New(cat), north)
	require.NoError(t, err)
	state.Letter = "n3"
	beat := Beat{Phase: PhaseReading, Letter: "n3"}

	state, beat, err = ApplyChoice(state, north, n3, beat, choice(t, n3, "c2"))
	require.NoError(t, err)
	assert.True(t, beat.Ends())

	state, beat, err = Advance(state, north, beat)
	require.NoError(t, err)
	assert.Equal(t, Beat{}, beat)
	assert.True(t, state.IsCompleted("north"))
	assert.Equal(t, story.RegionID(""), state.CurrentRegion())
	assert.Equal(t, "", state.CurrentLetter())
	assert.Equal(t, story.Impact{Affordability: 1, Agency: 1}, state.Impact)
}

func TestInsufficientBudgetLeavesStateUnchanged(t *testing.T) {
	cat := tinyCatalog()
	north := region(t, cat, "north")
	n1 := letter(t, north, "n1")

	state, beat, err := SelectRegion(New(cat), north)
	require.NoError(t, err)

	after, afterBeat, err := ApplyChoice(state, north, n1, beat, choice(t, n1, "pricey"))
	require.ErrorIs(t, err, ErrInsufficientBudget)
	assert.Equal(t, state, after)
	assert.Equal(t, beat, afterBeat)
	assert.False(t, Affordable(state, "north", 100))
	assert.True(t, Affordable(state, "north", 40))
}

func TestBudgetFloorsAtZero(t *testing.T) {
	cat := tinyCatalog()
	north := region(t, cat, "north")
	n1 := letter(t, north, "n1")

	state, beat, err := SelectRegion(New(cat), north)
	require.NoError(t, err)

	state, _, err = ApplyChoice(state, north, n1, beat, choice(t, n1, "exact"))
	require.NoError(t, err)
	assert.Equal(t, 0, state.Budget("north"))
	assert.True(t, Affordable(state, "north", 0))
	assert.False(t, Affordable(state, "north", 1))
}

func TestTransitionsDoNotMutateInput(t *testing.T) {
	cat := loadCatalog(t)
	north := region(t, cat, "north")
	n1 := letter(t, north, "n1")

	start, beat, err := SelectRegion(New(cat), north)
	require.NoError(t, err)
	state, beat, err := ApplyChoice(start, north, n1, beat, choice(t, n1, "c1"))
	require.NoError(t, err)

	before := state.Clone()
	_, _, err = ApplyWalletOption(state, north, n1, beat, option(t, n1, "split-fuel"))
	require.NoError(t, err)
	assert.Equal(t, before, state)
	assert.Equal(t, 500, start.Budget("north"))
}

func TestPhaseErrors(t *testing.T) {
	cat := loadCatalog(t)
	north := region(t, cat, "north")
	n1 := letter(t, north, "n1")
	n3 := letter(t, north, "n3")

	state, beat, err := SelectRegion(New(cat), north)
	require.NoError(t, err)

	t.Run("wallet before choice", func(t *testing.T) {
		_, _, err := ApplyWalletOption(state, north, n1, beat, option(t, n1, "fridge"))
		assert.ErrorIs(t, err, ErrWrongPhase)
	})

	t.Run("advance while reading", func(t *testing.T) {
		_, _, err := Advance(state, north, beat)
		assert.ErrorIs(t, err, ErrWrongPhase)
	})

	t.Run("second choice", func(t *testing.T) {
		s, b, err := ApplyChoice(state, north, n1, beat, choice(t, n1, "c1"))
		require.NoError(t, err)
		_, _, err = ApplyChoice(s, north, n1, b, choice(t, n1, "c2"))
		assert.ErrorIs(t, err, ErrWrongPhase)
	})

	t.Run("advance awaiting wallet", func(t *testing.T) {
		s, b, err := ApplyChoice(state, north, n1, beat, choice(t, n1, "c1"))
		require.NoError(t, err)
		_, _, err = Advance(s, north, b)
		assert.ErrorIs(t, err, ErrWrongPhase)
	})

	t.Run("wallet on letter without event", func(t *testing.T) {
		s := state.Clone()
		s.Letter = "n3"
		b := Beat{Phase: PhaseAwaitingWallet, Letter: "n3"}
		_, _, err := ApplyWalletOption(s, north, n3, b, &story.WalletOption{ID: "x"})
		assert.ErrorIs(t, err, ErrNoWalletEvent)
	})

	t.Run("unknown option", func(t *testing.T) {
		s, b, err := ApplyChoice(state, north, n1, beat, choice(t, n1, "c1"))
		require.NoError(t, err)
		_, _, err = ApplyWalletOption(s, north, n1, b, &story.WalletOption{ID: "nope"})
		assert.ErrorIs(t, err, story.ErrOptionNotFound)
	})

	t.Run("choice from another letter", func(t *testing.T) {
		_, _, err := ApplyChoice(state, north, n3, beat, choice(t, n3, "c1"))
		assert.ErrorIs(t, err, ErrNotCurrent)
	})
}

func TestAdvanceDanglingReference(t *testing.T) {
	cat := tinyCatalog()
	rural := region(t, cat, "rural")
	r1 := letter(t, rural, "r1")

	state, beat, err := SelectRegion(New(cat), rural)
	require.NoError(t, err)
	state, beat, err = ApplyChoice(state, rural, r1, beat, choice(t, r1, "c1"))
	require.NoError(t, err)

	after, _, err := Advance(state, rural, beat)
	require.ErrorIs(t, err, ErrDanglingReference)
	assert.Equal(t, state, after)
}

func TestSelectEmptyRegion(t *testing.T) {
	cat := story.NewCatalog(1, nil, []story.Region{{ID: "north"}})
	north := region(t, cat, "north")
	_, _, err := SelectRegion(New(cat), north)
	assert.ErrorIs(t, err, ErrEmptyRegion)
}

// playRegion follows the first choice and first wallet option on every
// letter until the region completes.
func playRegion(t *testing.T, state State, r *story.Region) State {
	t.Helper()
	state, beat, err := SelectRegion(state, r)
	require.NoError(t, err)
	for step := 0; step <= len(r.Letters); step++ {
		l := letter(t, r, beat.Letter)
		state, beat, err = ApplyChoice(state, r, l, beat, &l.Choices[0])
		require.NoError(t, err)
		if beat.Phase == PhaseAwaitingWallet {
			state, beat, err = ApplyWalletOption(state, r, l, beat, &l.Wallet.Options[0])
			require.NoError(t, err)
		}
		state, beat, err = Advance(state, r, beat)
		require.NoError(t, err)
		if beat.Phase == "" {
			return state
		}
	}
	t.Fatalf("region %s did not complete", r.ID)
	return state
}

func TestCompletionIsIdempotent(t *testing.T) {
	cat := loadCatalog(t)
	north := region(t, cat, "north")

	state := playRegion(t, New(cat), north)
	impactAfterFirst := state.Impact
	state = playRegion(t, state, north)

	assert.Equal(t, []story.RegionID{"north"}, state.CompletedRegions())
	assert.NotEqual(t, impactAfterFirst, state.Impact, "impact keeps accumulating on replay")
}

func TestFinished(t *testing.T) {
	cat := loadCatalog(t)
	state := New(cat)
	assert.False(t, Finished(state, cat))

	for i, id := range cat.RegionIDs() {
		state = playRegion(t, state, region(t, cat, id))
		if i < cat.Len()-1 {
			assert.False(t, Finished(state, cat), "finished after %d regions", i+1)
		}
	}
	assert.True(t, Finished(state, cat))
	assert.Len(t, state.CompletedRegions(), 4)

	assert.False(t, Finished(Reset(cat), cat))
}

func TestEveryPathTerminates(t *testing.T) {
	cat := loadCatalog(t)
	for _, r := range cat.Regions() {
		t.Run(string(r.ID), func(t *testing.T) {
			state, beat, err := SelectRegion(New(cat), r)
			require.NoError(t, err)
			completions := walk(t, r, state, beat, 0)
			assert.Positive(t, completions)
		})
	}
}

// walk explores every choice and wallet option from the given beat and
// returns the number of paths that complete the region.
func walk(t *testing.T, r *story.Region, state State, beat Beat, depth int) int {
	t.Helper()
	require.LessOrEqual(t, depth, len(r.Letters), "path in %s exceeds letter count", r.ID)

	l := letter(t, r, beat.Letter)
	completions := 0
	for i := range l.Choices {
		s, b, err := ApplyChoice(state, r, l, beat, &l.Choices[i])
		if err != nil {
			require.ErrorIs(t, err, ErrInsufficientBudget)
			continue
		}
		outcomes := []struct {
			state State
			beat  Beat
		}{{s, b}}
		if b.Phase == PhaseAwaitingWallet {
			outcomes = outcomes[:0]
			for j := range l.Wallet.Options {
				ws, wb, err := ApplyWalletOption(s, r, l, b, &l.Wallet.Options[j])
				if err != nil {
					require.ErrorIs(t, err, ErrInsufficientBudget)
					continue
				}
				outcomes = append(outcomes, struct {
					state State
					beat  Beat
				}{ws, wb})
			}
		}
		for _, o := range outcomes {
			ns, nb, err := Advance(o.state, r, o.beat)
			require.NoError(t, err)
			if nb.Phase == "" {
				assert.True(t, ns.IsCompleted(r.ID))
				assert.GreaterOrEqual(t, ns.Budget(r.ID), 0)
				completions++
				continue
			}
			assert.LessOrEqual(t, ns.Budget(r.ID), state.Budget(r.ID))
			completions += walk(t, r, ns, nb, depth+1)
		}
	}
	return completions
}
