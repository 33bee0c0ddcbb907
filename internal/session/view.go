package session

import (
	"penpals/internal/engine"
	"penpals/internal/story"
	"penpals/internal/summary"
)

// View is everything a presentation needs to render the playthrough after
// an intent. Phase is empty while the user is on the map.
type View struct {
	ID        string           `json:"id"`
	Phase     engine.Phase     `json:"phase,omitempty"`
	Region    *RegionView      `json:"region,omitempty"`
	Letter    *LetterView      `json:"letter,omitempty"`
	Wallet    *WalletView      `json:"wallet,omitempty"`
	Map       []MapRegion      `json:"map"`
	Impact    story.Impact     `json:"impact"`
	Completed []story.RegionID `json:"completed"`
	Finished  bool             `json:"finished"`
	Summary   *summary.Summary `json:"summary,omitempty"`
}

type RegionView struct {
	ID             story.RegionID      `json:"id"`
	Name           string              `json:"name"`
	ThemeColor     string              `json:"theme_color"`
	Budget         int                 `json:"budget"`
	StartingBudget int                 `json:"starting_budget"`
	ContextCards   []story.ContextCard `json:"context_cards"`
}

type LetterView struct {
	ID      string       `json:"id"`
	Day     string       `json:"day"`
	Sender  string       `json:"sender"`
	Content string       `json:"content"`
	Choices []ChoiceView `json:"choices"`
	// Chosen is set once a choice has been applied on this letter.
	Chosen string `json:"chosen,omitempty"`
}

type ChoiceView struct {
	ID         string           `json:"id"`
	Text       string           `json:"text"`
	Type       story.ChoiceType `json:"type"`
	Cost       int              `json:"cost"`
	Impact     story.Impact     `json:"impact"`
	Next       string           `json:"next,omitempty"`
	Selectable bool             `json:"selectable"`
}

type WalletView struct {
	Prompt  string       `json:"prompt"`
	Options []OptionView `json:"options"`
}

type OptionView struct {
	ID         string       `json:"id"`
	Label      string       `json:"label"`
	CostLabel  string       `json:"cost_label"`
	Cost       int          `json:"cost"`
	Impact     story.Impact `json:"impact"`
	Selectable bool         `json:"selectable"`
}

type MapRegion struct {
	ID          story.RegionID    `json:"id"`
	Name        string            `json:"name"`
	Coordinates story.Coordinates `json:"coordinates"`
	Budget      int               `json:"budget"`
	Completed   bool              `json:"completed"`
}

func (p *Playthrough) view() View {
	v := View{
		ID:        p.ID,
		Phase:     p.beat.Phase,
		Impact:    p.state.Impact,
		Completed: p.state.CompletedRegions(),
		Finished:  engine.Finished(p.state, p.cat),
	}

	for _, region := range p.cat.Regions() {
		v.Map = append(v.Map, MapRegion{
			ID:          region.ID,
			Name:        region.Name,
			Coordinates: region.Coordinates,
			Budget:      p.state.Budget(region.ID),
			Completed:   p.state.IsCompleted(region.ID),
		})
	}

	if v.Finished {
		s := summary.Build(p.cat, p.state)
		v.Summary = &s
	}

	region, letter, err := p.current()
	if err != nil {
		return v
	}

	budget := p.state.Budget(region.ID)
	v.Region = &RegionView{
		ID:             region.ID,
		Name:           region.Name,
		ThemeColor:     region.ThemeColor,
		Budget:         budget,
		StartingBudget: region.Budget,
		ContextCards:   region.ContextCards,
	}

	lv := &LetterView{
		ID:      letter.ID,
		Day:     letter.Day,
		Sender:  letter.Sender,
		Content: letter.Content,
		Chosen:  p.beat.Choice,
	}
	reading := p.beat.Phase == engine.PhaseReading
	for _, choice := range letter.Choices {
		lv.Choices = append(lv.Choices, ChoiceView{
			ID:         choice.ID,
			Text:       choice.Text,
			Type:       choice.Type,
			Cost:       choice.Cost,
			Impact:     choice.Impact,
			Next:       choice.NextID,
			Selectable: reading && engine.Affordable(p.state, region.ID, choice.Cost),
		})
	}
	v.Letter = lv

	if p.beat.Phase == engine.PhaseAwaitingWallet && letter.Wallet != nil {
		wv := &WalletView{Prompt: letter.Wallet.Prompt}
		for _, option := range letter.Wallet.Options {
			wv.Options = append(wv.Options, OptionView{
				ID:         option.ID,
				Label:      option.Label,
				CostLabel:  option.CostLabel,
				Cost:       option.Cost,
				Impact:     option.Impact,
				Selectable: engine.Affordable(p.state, region.ID, option.Cost),
			})
		}
		v.Wallet = wv
	}

	return v
}
