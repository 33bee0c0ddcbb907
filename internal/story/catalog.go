package story

import (
	"errors"
	"fmt"
)

var (
	ErrRegionNotFound = errors.New("region not found")
	ErrLetterNotFound = errors.New("letter not found")
	ErrChoiceNotFound = errors.New("choice not found")
	ErrOptionNotFound = errors.New("wallet option not found")
)

// Catalog is the immutable Region -> Letter -> Choice/WalletEvent graph for
// one content release, addressable by identifier.
type Catalog struct {
	Version int
	Sources []Source

	regions     []*Region
	regionIndex map[RegionID]*Region
}

// NewCatalog indexes regions in the given order. Duplicate ids are kept in the
// ordered list so validation can report them; lookups resolve to the first.
func NewCatalog(version int, sources []Source, regions []Region) *Catalog {
	c := &Catalog{
		Version:     version,
		Sources:     sources,
		regionIndex: make(map[RegionID]*Region, len(regions)),
	}
	for i := range regions {
		region := regions[i]
		region.reindex()
		c.regions = append(c.regions, &region)
		if _, exists := c.regionIndex[region.ID]; !exists {
			c.regionIndex[region.ID] = &region
		}
	}
	return c
}

func (c *Catalog) Regions() []*Region {
	out := make([]*Region, len(c.regions))
	copy(out, c.regions)
	return out
}

func (c *Catalog) RegionIDs() []RegionID {
	ids := make([]RegionID, 0, len(c.regions))
	for _, region := range c.regions {
		ids = append(ids, region.ID)
	}
	return ids
}

func (c *Catalog) Len() int {
	return len(c.regionIndex)
}

func (c *Catalog) Region(id RegionID) (*Region, error) {
	region, ok := c.regionIndex[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRegionNotFound, id)
	}
	return region, nil
}

func (r *Region) reindex() {
	r.letterIndex = make(map[string]int, len(r.Letters))
	for i, letter := range r.Letters {
		if _, exists := r.letterIndex[letter.ID]; !exists {
			r.letterIndex[letter.ID] = i
		}
	}
}

func (r *Region) Letter(id string) (*Letter, error) {
	if r.letterIndex == nil {
		r.reindex()
	}
	i, ok := r.letterIndex[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrLetterNotFound, r.ID, id)
	}
	return &r.Letters[i], nil
}

func (r *Region) HasLetter(id string) bool {
	_, err := r.Letter(id)
	return err == nil
}

// EntryLetter returns the first declared letter, or nil for a region that has
// none. Validated catalogs never contain such a region.
func (r *Region) EntryLetter() *Letter {
	if len(r.Letters) == 0 {
		return nil
	}
	return &r.Letters[0]
}

func (l *Letter) Choice(id string) (*Choice, error) {
	for i := range l.Choices {
		if l.Choices[i].ID == id {
			return &l.Choices[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s/%s", ErrChoiceNotFound, l.ID, id)
}

func (w *WalletEvent) Option(id string) (*WalletOption, error) {
	for i := range w.Options {
		if w.Options[i].ID == id {
			return &w.Options[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrOptionNotFound, id)
}
