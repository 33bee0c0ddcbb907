package summary

import (
	"strings"
	"unicode/utf8"

	"penpals/internal/engine"
	"penpals/internal/story"
)

// Meters map an impact value in [-MeterRange, MeterRange] onto 0..100.
const MeterRange = 5

type Axis string

const (
	AxisWarmth        Axis = "warmth"
	AxisReliability   Axis = "reliability"
	AxisAffordability Axis = "affordability"
	AxisAgency        Axis = "agency"
)

type Meter struct {
	Axis    Axis    `json:"axis"`
	Value   int     `json:"value"`
	Percent float64 `json:"percent"`
}

type Stamp struct {
	Region    story.RegionID `json:"region"`
	Name      string         `json:"name"`
	Code      string         `json:"code"`
	Completed bool           `json:"completed"`
}

type RegionTakeaways struct {
	Region    story.RegionID `json:"region"`
	Name      string         `json:"name"`
	Takeaways []string       `json:"takeaways"`
	Sources   []story.Source `json:"sources"`
}

type Summary struct {
	Impact   story.Impact      `json:"impact"`
	Meters   []Meter           `json:"meters"`
	Dominant Axis              `json:"dominant,omitempty"`
	Passport []Stamp           `json:"passport"`
	Explored int               `json:"explored"`
	Total    int               `json:"total"`
	Finished bool              `json:"finished"`
	Regions  []RegionTakeaways `json:"regions"`
	Sources  []story.Source    `json:"sources"`
}

func Build(cat *story.Catalog, state engine.State) Summary {
	s := Summary{
		Impact:   state.Impact,
		Meters:   Meters(state.Impact),
		Dominant: Dominant(state.Impact),
		Total:    cat.Len(),
		Finished: engine.Finished(state, cat),
		Sources:  cat.Sources,
	}

	for _, region := range cat.Regions() {
		completed := state.IsCompleted(region.ID)
		s.Passport = append(s.Passport, Stamp{
			Region:    region.ID,
			Name:      region.Name,
			Code:      StampCode(region.Name),
			Completed: completed,
		})
		if !completed {
			continue
		}
		s.Explored++

		sources := make([]story.Source, 0, len(region.ContextCards))
		for _, card := range region.ContextCards {
			sources = append(sources, story.Source{Label: card.Source, URL: card.SourceURL})
		}
		s.Regions = append(s.Regions, RegionTakeaways{
			Region:    region.ID,
			Name:      region.Name,
			Takeaways: region.Takeaways,
			Sources:   sources,
		})
	}

	return s
}

func Meters(impact story.Impact) []Meter {
	values := axisValues(impact)
	meters := make([]Meter, 0, len(values))
	for _, v := range values {
		meters = append(meters, Meter{Axis: v.axis, Value: v.value, Percent: Percent(v.value)})
	}
	return meters
}

// Percent normalises a value from [-MeterRange, MeterRange] to 0..100,
// clamping values outside the range.
func Percent(value int) float64 {
	p := float64(value+MeterRange) * 100 / float64(2*MeterRange)
	return min(100, max(0, p))
}

// Dominant returns the highest positive axis. Ties go to the axis listed
// first. It returns "" when no axis is positive.
func Dominant(impact story.Impact) Axis {
	var best Axis
	bestValue := 0
	for _, v := range axisValues(impact) {
		if v.value > bestValue {
			best = v.axis
			bestValue = v.value
		}
	}
	return best
}

// StampCode is the upper-cased first three letters of a region name.
func StampCode(name string) string {
	name = strings.TrimSpace(name)
	end := 0
	for i := 0; i < 3 && end < len(name); i++ {
		_, size := utf8.DecodeRuneInString(name[end:])
		end += size
	}
	return strings.ToUpper(name[:end])
}

type axisValue struct {
	axis  Axis
	value int
}

func axisValues(impact story.Impact) []axisValue {
	return []axisValue{
		{AxisWarmth, impact.Warmth},
		{AxisReliability, impact.Reliability},
		{AxisAffordability, impact.Affordability},
		{AxisAgency, impact.Agency},
	}
}
