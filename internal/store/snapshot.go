package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"penpals/internal/story"
)

// Flatten turns a catalog into table rows. Positions keep the authored order
// of regions, letters, choices and wallet options.
func Flatten(cat *story.Catalog) (*Snapshot, error) {
	sources, err := marshalJSON(cat.Sources)
	if err != nil {
		return nil, fmt.Errorf("encoding sources: %w", err)
	}
	snap := &Snapshot{Catalog: CatalogRow{Version: cat.Version, Sources: sources}}

	for pos, region := range cat.Regions() {
		cards, err := marshalJSON(region.ContextCards)
		if err != nil {
			return nil, fmt.Errorf("encoding context cards for %s: %w", region.ID, err)
		}
		takeaways, err := marshalJSON(region.Takeaways)
		if err != nil {
			return nil, fmt.Errorf("encoding takeaways for %s: %w", region.ID, err)
		}
		snap.Regions = append(snap.Regions, RegionRow{
			ID:           region.ID,
			Position:     pos,
			Name:         region.Name,
			ThemeColor:   region.ThemeColor,
			CoordTop:     region.Coordinates.Top,
			CoordLeft:    region.Coordinates.Left,
			Budget:       region.Budget,
			ContextCards: cards,
			Takeaways:    takeaways,
		})

		for lpos, letter := range region.Letters {
			row := LetterRow{
				RegionID: region.ID,
				ID:       letter.ID,
				Position: lpos,
				Day:      letter.Day,
				Sender:   letter.Sender,
				Content:  letter.Content,
			}
			if letter.Wallet != nil {
				row.HasWallet = true
				row.WalletPrompt = letter.Wallet.Prompt
				for opos, option := range letter.Wallet.Options {
					snap.WalletOptions = append(snap.WalletOptions, WalletOptionRow{
						RegionID:  region.ID,
						LetterID:  letter.ID,
						ID:        option.ID,
						Position:  opos,
						Label:     option.Label,
						CostLabel: option.CostLabel,
						Cost:      option.Cost,
						Impact:    option.Impact,
					})
				}
			}
			snap.Letters = append(snap.Letters, row)

			for cpos, choice := range letter.Choices {
				snap.Choices = append(snap.Choices, ChoiceRow{
					RegionID: region.ID,
					LetterID: letter.ID,
					ID:       choice.ID,
					Position: cpos,
					Text:     choice.Text,
					Type:     string(choice.Type),
					Cost:     choice.Cost,
					Impact:   choice.Impact,
					NextID:   choice.NextID,
				})
			}
		}
	}

	hash, err := fingerprint(snap)
	if err != nil {
		return nil, fmt.Errorf("hashing catalog: %w", err)
	}
	snap.Catalog.Hash = hash
	return snap, nil
}

// Fingerprint returns the content hash Flatten would record for cat.
func Fingerprint(cat *story.Catalog) (string, error) {
	snap, err := Flatten(cat)
	if err != nil {
		return "", err
	}
	return snap.Catalog.Hash, nil
}

func fingerprint(snap *Snapshot) (string, error) {
	data, err := json.Marshal(struct {
		Version       int
		Sources       string
		Regions       []RegionRow
		Letters       []LetterRow
		Choices       []ChoiceRow
		WalletOptions []WalletOptionRow
	}{snap.Catalog.Version, snap.Catalog.Sources, snap.Regions, snap.Letters, snap.Choices, snap.WalletOptions})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Assemble rebuilds a catalog from table rows in any order.
func Assemble(snap *Snapshot) (*story.Catalog, error) {
	var sources []story.Source
	if err := unmarshalJSON(snap.Catalog.Sources, &sources); err != nil {
		return nil, fmt.Errorf("decoding sources: %w", err)
	}

	regionRows := append([]RegionRow(nil), snap.Regions...)
	sort.SliceStable(regionRows, func(i, j int) bool { return regionRows[i].Position < regionRows[j].Position })

	letterRows := append([]LetterRow(nil), snap.Letters...)
	sort.SliceStable(letterRows, func(i, j int) bool { return letterRows[i].Position < letterRows[j].Position })

	choiceRows := append([]ChoiceRow(nil), snap.Choices...)
	sort.SliceStable(choiceRows, func(i, j int) bool { return choiceRows[i].Position < choiceRows[j].Position })

	optionRows := append([]WalletOptionRow(nil), snap.WalletOptions...)
	sort.SliceStable(optionRows, func(i, j int) bool { return optionRows[i].Position < optionRows[j].Position })

	type letterKey struct {
		region story.RegionID
		letter string
	}
	choices := make(map[letterKey][]story.Choice)
	for _, row := range choiceRows {
		key := letterKey{row.RegionID, row.LetterID}
		choices[key] = append(choices[key], story.Choice{
			ID:     row.ID,
			Text:   row.Text,
			Type:   story.ChoiceType(row.Type),
			Cost:   row.Cost,
			Impact: row.Impact,
			NextID: row.NextID,
		})
	}
	options := make(map[letterKey][]story.WalletOption)
	for _, row := range optionRows {
		key := letterKey{row.RegionID, row.LetterID}
		options[key] = append(options[key], story.WalletOption{
			ID:        row.ID,
			Label:     row.Label,
			CostLabel: row.CostLabel,
			Cost:      row.Cost,
			Impact:    row.Impact,
		})
	}
	letters := make(map[story.RegionID][]story.Letter)
	for _, row := range letterRows {
		key := letterKey{row.RegionID, row.ID}
		letter := story.Letter{
			ID:      row.ID,
			Day:     row.Day,
			Sender:  row.Sender,
			Content: row.Content,
			Choices: choices[key],
		}
		if row.HasWallet {
			letter.Wallet = &story.WalletEvent{Prompt: row.WalletPrompt, Options: options[key]}
		}
		letters[row.RegionID] = append(letters[row.RegionID], letter)
	}

	regions := make([]story.Region, 0, len(regionRows))
	for _, row := range regionRows {
		region := story.Region{
			ID:          row.ID,
			Name:        row.Name,
			ThemeColor:  row.ThemeColor,
			Coordinates: story.Coordinates{Top: row.CoordTop, Left: row.CoordLeft},
			Budget:      row.Budget,
			Letters:     letters[row.ID],
		}
		if err := unmarshalJSON(row.ContextCards, &region.ContextCards); err != nil {
			return nil, fmt.Errorf("decoding context cards for %s: %w", row.ID, err)
		}
		if err := unmarshalJSON(row.Takeaways, &region.Takeaways); err != nil {
			return nil, fmt.Errorf("decoding takeaways for %s: %w", row.ID, err)
		}
		regions = append(regions, region)
	}

	return story.NewCatalog(snap.Catalog.Version, sources, regions), nil
}

func marshalJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalJSON(data string, v any) error {
	if data == "" || data == "null" {
		return nil
	}
	return json.Unmarshal([]byte(data), v)
}
