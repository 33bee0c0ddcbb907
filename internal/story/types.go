package story

// RegionID names one storyline on the map.
type RegionID string

// ChoiceType is descriptive only; the engine never branches on it.
type ChoiceType string

const (
	ChoiceTone   ChoiceType = "tone"
	ChoiceAction ChoiceType = "action"
	ChoiceWallet ChoiceType = "wallet"
)

// Impact is the four-axis score. Fields missing from authored content decode
// to zero, so a partial impact is always a complete delta.
type Impact struct {
	Warmth        int `yaml:"warmth" json:"warmth"`
	Reliability   int `yaml:"reliability" json:"reliability"`
	Affordability int `yaml:"affordability" json:"affordability"`
	Agency        int `yaml:"agency" json:"agency"`
}

func (i Impact) Add(delta Impact) Impact {
	return Impact{
		Warmth:        i.Warmth + delta.Warmth,
		Reliability:   i.Reliability + delta.Reliability,
		Affordability: i.Affordability + delta.Affordability,
		Agency:        i.Agency + delta.Agency,
	}
}

func (i Impact) IsZero() bool {
	return i == Impact{}
}

type Choice struct {
	ID     string     `yaml:"id" json:"id"`
	Text   string     `yaml:"text" json:"text"`
	Type   ChoiceType `yaml:"type" json:"type"`
	Cost   int        `yaml:"cost" json:"cost"`
	Impact Impact     `yaml:"impact" json:"impact"`
	// NextID is empty when the region ends after this beat.
	NextID string `yaml:"next" json:"next,omitempty"`
}

type WalletOption struct {
	ID        string `yaml:"id" json:"id"`
	Label     string `yaml:"label" json:"label"`
	CostLabel string `yaml:"cost_label" json:"cost_label"`
	Cost      int    `yaml:"cost" json:"cost"`
	Impact    Impact `yaml:"impact" json:"impact"`
}

type WalletEvent struct {
	Prompt  string         `yaml:"prompt" json:"prompt"`
	Options []WalletOption `yaml:"options" json:"options"`
}

type Letter struct {
	ID      string       `yaml:"id" json:"id"`
	Day     string       `yaml:"day" json:"day"`
	Sender  string       `yaml:"sender" json:"sender"`
	Content string       `yaml:"-" json:"content"`
	Choices []Choice     `yaml:"choices" json:"choices"`
	Wallet  *WalletEvent `yaml:"wallet" json:"wallet,omitempty"`
}

type Coordinates struct {
	Top  string `yaml:"top" json:"top"`
	Left string `yaml:"left" json:"left"`
}

type ContextCard struct {
	Title     string `yaml:"title" json:"title"`
	Text      string `yaml:"text" json:"text"`
	Source    string `yaml:"source" json:"source"`
	SourceURL string `yaml:"source_url" json:"source_url"`
}

type Source struct {
	Label string `yaml:"label" json:"label"`
	URL   string `yaml:"url" json:"url"`
}

type Region struct {
	ID           RegionID      `yaml:"id" json:"id"`
	Name         string        `yaml:"name" json:"name"`
	ThemeColor   string        `yaml:"theme_color" json:"theme_color"`
	Coordinates  Coordinates   `yaml:"coordinates" json:"coordinates"`
	Budget       int           `yaml:"budget" json:"budget"`
	ContextCards []ContextCard `yaml:"context_cards" json:"context_cards"`
	Takeaways    []string      `yaml:"takeaways" json:"takeaways"`
	// Letters is the region's arena. The first letter is the entry point and
	// Choice.NextID refers to other letters by id.
	Letters []Letter `yaml:"-" json:"letters"`

	letterIndex map[string]int
}
