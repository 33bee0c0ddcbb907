package session

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"penpals/content"
	"penpals/internal/engine"
	"penpals/internal/story"
)

func newCatalog(t *testing.T) *story.Catalog {
	t.Helper()
	cat, err := story.Load(content.FS)
	require.NoError(t, err)
	return cat
}

func finishRegion(t *testing.T, p *Playthrough, id story.RegionID) View {
	t.Helper()
	view, err := p.SelectRegion(id)
	require.NoError(t, err)
	for view.Letter != nil {
		view, err = p.SubmitChoice(view.Letter.Choices[0].ID)
		require.NoError(t, err)
		if view.Wallet != nil {
			view, err = p.SubmitWalletOption(view.Wallet.Options[0].ID)
			require.NoError(t, err)
		}
		view, err = p.Continue()
		require.NoError(t, err)
	}
	return view
}

func TestPlaythroughFlow(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	p := NewPlaythrough("p1", newCatalog(t), zap.New(core))

	view := p.View()
	assert.Equal(t, engine.Phase(""), view.Phase)
	assert.Nil(t, view.Letter)
	assert.Len(t, view.Map, 4)
	assert.False(t, view.Finished)

	view, err := p.SelectRegion("north")
	require.NoError(t, err)
	assert.Equal(t, engine.PhaseReading, view.Phase)
	require.NotNil(t, view.Region)
	assert.Equal(t, 500, view.Region.Budget)
	require.NotNil(t, view.Letter)
	assert.Equal(t, "n1", view.Letter.ID)
	assert.Len(t, view.Letter.Choices, 3)
	for _, c := range view.Letter.Choices {
		assert.True(t, c.Selectable)
	}
	assert.Nil(t, view.Wallet)

	view, err = p.SubmitChoice("c1")
	require.NoError(t, err)
	assert.Equal(t, engine.PhaseAwaitingWallet, view.Phase)
	assert.Equal(t, "c1", view.Letter.Chosen)
	for _, c := range view.Letter.Choices {
		assert.False(t, c.Selectable, "choices are closed after a choice")
	}
	require.NotNil(t, view.Wallet)
	assert.Len(t, view.Wallet.Options, 3)

	view, err = p.SubmitWalletOption("split-fuel")
	require.NoError(t, err)
	assert.Equal(t, engine.PhaseBeatComplete, view.Phase)
	assert.Equal(t, 450, view.Region.Budget)
	assert.Equal(t, story.Impact{Warmth: 2, Reliability: 2, Affordability: -1, Agency: -1}, view.Impact)

	view, err = p.Continue()
	require.NoError(t, err)
	assert.Equal(t, "n2", view.Letter.ID)
	assert.Equal(t, engine.PhaseReading, view.Phase)

	assert.NotZero(t, logs.FilterMessage("choice applied").Len())
	assert.NotZero(t, logs.FilterMessage("wallet option applied").Len())
}

func TestPlaythroughErrors(t *testing.T) {
	p := NewPlaythrough("p1", newCatalog(t), nil)

	_, err := p.SubmitChoice("c1")
	assert.ErrorIs(t, err, ErrNoActiveRegion)
	_, err = p.Continue()
	assert.ErrorIs(t, err, ErrNoActiveRegion)

	_, err = p.SelectRegion("atlantis")
	assert.ErrorIs(t, err, story.ErrRegionNotFound)

	_, err = p.SelectRegion("north")
	require.NoError(t, err)

	_, err = p.SelectRegion("rural")
	assert.ErrorIs(t, err, ErrRegionInProgress)

	view, err := p.SelectRegion("north")
	require.NoError(t, err, "reselecting the active region is a no-op")
	assert.Equal(t, "n1", view.Letter.ID)

	_, err = p.SubmitChoice("c9")
	assert.ErrorIs(t, err, story.ErrChoiceNotFound)

	_, err = p.SubmitWalletOption("fridge")
	assert.ErrorIs(t, err, engine.ErrWrongPhase)

	_, err = p.Continue()
	assert.ErrorIs(t, err, engine.ErrWrongPhase)

	_, err = p.SubmitChoice("c1")
	require.NoError(t, err)
	_, err = p.SubmitWalletOption("nope")
	assert.ErrorIs(t, err, story.ErrOptionNotFound)
}

func TestPlaythroughWalletWithoutEvent(t *testing.T) {
	cat := story.NewCatalog(1, nil, []story.Region{{
		ID:      "north",
		Budget:  10,
		Letters: []story.Letter{{ID: "n1", Choices: []story.Choice{{ID: "c1"}}}},
	}})
	p := NewPlaythrough("p1", cat, nil)

	_, err := p.SelectRegion("north")
	require.NoError(t, err)
	_, err = p.SubmitWalletOption("x")
	assert.ErrorIs(t, err, engine.ErrNoWalletEvent)
}

func TestPlaythroughCompleteAndRestart(t *testing.T) {
	cat := newCatalog(t)
	p := NewPlaythrough("p1", cat, nil)

	view := finishRegion(t, p, "north")
	assert.Equal(t, []story.RegionID{"north"}, view.Completed)
	assert.Nil(t, view.Region)
	assert.Nil(t, view.Summary)

	for _, id := range []story.RegionID{"rural", "city", "medical"} {
		view = finishRegion(t, p, id)
	}
	assert.True(t, view.Finished)
	require.NotNil(t, view.Summary)
	assert.Equal(t, 4, view.Summary.Explored)

	view = p.Restart()
	assert.False(t, view.Finished)
	assert.Empty(t, view.Completed)
	assert.True(t, view.Impact.IsZero())
	assert.Equal(t, 500, p.State().Budget("north"))
}

func TestPlaythroughUnaffordableOptions(t *testing.T) {
	cat := story.NewCatalog(1, nil, []story.Region{{
		ID:     "north",
		Budget: 30,
		Letters: []story.Letter{{
			ID:      "n1",
			Choices: []story.Choice{{ID: "cheap"}, {ID: "dear", Cost: 31}},
			Wallet: &story.WalletEvent{Options: []story.WalletOption{
				{ID: "free"},
				{ID: "paid", Cost: 50},
			}},
		}},
	}})
	p := NewPlaythrough("p1", cat, nil)

	view, err := p.SelectRegion("north")
	require.NoError(t, err)
	assert.True(t, view.Letter.Choices[0].Selectable)
	assert.False(t, view.Letter.Choices[1].Selectable)

	_, err = p.SubmitChoice("dear")
	assert.ErrorIs(t, err, engine.ErrInsufficientBudget)

	view, err = p.SubmitChoice("cheap")
	require.NoError(t, err)
	assert.True(t, view.Wallet.Options[0].Selectable)
	assert.False(t, view.Wallet.Options[1].Selectable)

	_, err = p.SubmitWalletOption("paid")
	assert.ErrorIs(t, err, engine.ErrInsufficientBudget)
}

func TestManager(t *testing.T) {
	m := NewManager(newCatalog(t), nil)

	a := m.Create()
	b := m.Create()
	_, err := uuid.Parse(a.ID)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, m.Len())
	assert.ElementsMatch(t, []string{a.ID, b.ID}, m.IDs())

	got, err := m.Get(a.ID)
	require.NoError(t, err)
	assert.Same(t, a, got)

	require.NoError(t, m.Delete(a.ID))
	_, err = m.Get(a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.Delete(a.ID), ErrNotFound)
	assert.Equal(t, []string{b.ID}, m.IDs())
}

func TestManagerConcurrentUse(t *testing.T) {
	m := NewManager(newCatalog(t), nil)
	p := m.Create()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Create()
			got, err := m.Get(p.ID)
			if err == nil {
				got.View()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 17, m.Len())
}
