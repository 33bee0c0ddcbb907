package store

import "penpals/internal/story"

type Counts struct {
	Regions       int `json:"regions"`
	Letters       int `json:"letters"`
	Choices       int `json:"choices"`
	WalletOptions int `json:"wallet_options"`
}

type RegionSummary struct {
	ID       story.RegionID `json:"id"`
	Name     string         `json:"name"`
	Position int            `json:"position"`
	Budget   int            `json:"budget"`
	Letters  int            `json:"letters"`
	Choices  int            `json:"choices"`
}

// The row types mirror the content tables one to one. Nested lists without
// their own identity (context cards, takeaways, sources) travel as JSON text.

type CatalogRow struct {
	Version int
	Sources string
	// Hash fingerprints every other row of the snapshot.
	Hash string
}

type RegionRow struct {
	ID           story.RegionID
	Position     int
	Name         string
	ThemeColor   string
	CoordTop     string
	CoordLeft    string
	Budget       int
	ContextCards string
	Takeaways    string
}

type LetterRow struct {
	RegionID     story.RegionID
	ID           string
	Position     int
	Day          string
	Sender       string
	Content      string
	HasWallet    bool
	WalletPrompt string
}

type ChoiceRow struct {
	RegionID story.RegionID
	LetterID string
	ID       string
	Position int
	Text     string
	Type     string
	Cost     int
	Impact   story.Impact
	NextID   string
}

type WalletOptionRow struct {
	RegionID  story.RegionID
	LetterID  string
	ID        string
	Position  int
	Label     string
	CostLabel string
	Cost      int
	Impact    story.Impact
}

type Snapshot struct {
	Catalog       CatalogRow
	Regions       []RegionRow
	Letters       []LetterRow
	Choices       []ChoiceRow
	WalletOptions []WalletOptionRow
}

func (s *Snapshot) Counts() Counts {
	return Counts{
		Regions:       len(s.Regions),
		Letters:       len(s.Letters),
		Choices:       len(s.Choices),
		WalletOptions: len(s.WalletOptions),
	}
}
