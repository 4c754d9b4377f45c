package models

import "time"

// Sign is one of the twelve tropical zodiac signs, ordered from Aries = 0.
type Sign int

const (
	NoSign Sign = iota - 1
	Aries
	Taurus
	Gemini
	Cancer
	Leo
	Virgo
	Libra
	Scorpio
	Sagittarius
	Capricorn
	Aquarius
	Pisces
)

var signNames = [...]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// AllSigns lists the signs in ecliptic order.
func AllSigns() []Sign {
	signs := make([]Sign, len(signNames))
	for i := range signNames {
		signs[i] = Sign(i)
	}
	return signs
}

func (s Sign) String() string {
	if s < Aries || s > Pisces {
		return ""
	}
	return signNames[s]
}

func (s Sign) Valid() bool {
	return s >= Aries && s <= Pisces
}

// Body is a celestial body an ephemeris can be queried for.
type Body string

const (
	Sun  Body = "sun"
	Moon Body = "moon"
)

// LocalTime is a wall-clock time of day without a zone.
type LocalTime struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// Position is a resolved ecliptic position and whether a precise ephemeris produced it.
type Position struct {
	Body      Body    `json:"body"`
	Sign      Sign    `json:"sign"`
	Longitude float64 `json:"longitude"`
	UsedExact bool    `json:"used_exact"`
}

// SignAttributes is one row of the Data sheet. Absent values are empty strings.
type SignAttributes struct {
	Sign                string            `json:"sign"`
	Element             string            `json:"element"`
	Shape               string            `json:"shape"`
	Colour              string            `json:"colour"`
	Foods               string            `json:"foods"`
	PrimaryCrystals     string            `json:"primary_crystals"`
	AlternativeCrystals string            `json:"alternative_crystals"`
	FavorableActivities string            `json:"favorable_activities"`
	HouseholdItems      string            `json:"household_items"`
	Extra               map[string]string `json:"extra,omitempty"`
}

// Field returns an attribute by its workbook column header.
func (a SignAttributes) Field(column string) string {
	switch column {
	case "Element":
		return a.Element
	case "Shape":
		return a.Shape
	case "Colour":
		return a.Colour
	case "Foods":
		return a.Foods
	case "Primary Crystals":
		return a.PrimaryCrystals
	case "Alternative Crystals / Gemstones":
		return a.AlternativeCrystals
	case "Favorable Activities":
		return a.FavorableActivities
	case "Household Items":
		return a.HouseholdItems
	}
	return a.Extra[column]
}

// AvoidLists holds the raw comma-separated terms per severity.
type AvoidLists struct {
	Strong []string `json:"strong"`
	Mild   []string `json:"mild"`
}

// Level is the severity of a rule match.
type Level int

const (
	OK Level = iota
	Mild
	Strong
)

func (l Level) String() string {
	switch l {
	case Strong:
		return "STRONG"
	case Mild:
		return "MILD"
	}
	return "OK"
}

// TokenVerdict is the outcome of matching one normalized user token.
type TokenVerdict struct {
	Token string `json:"token"`
	Level Level  `json:"level"`
	Term  string `json:"term,omitempty"`
}

// CategoryResult aggregates all token verdicts of one audit category.
type CategoryResult struct {
	Category     string         `json:"category"`
	Input        string         `json:"input"`
	Verdicts     []TokenVerdict `json:"verdicts"`
	StrongHits   int            `json:"strong_hits"`
	MildHits     int            `json:"mild_hits"`
	Level        Level          `json:"level"`
	Why          string         `json:"why,omitempty"`
	Remedies     []string       `json:"remedies,omitempty"`
	Alternatives string         `json:"alternatives,omitempty"`
	RulesFound   bool           `json:"rules_found"`
}

// ElementItem is one row of Element_Items.
type ElementItem struct {
	Name     string `json:"name"`
	Element  string `json:"element"`
	Category string `json:"category"`
}

// HouseZone is one row of House_Zones.
type HouseZone struct {
	Zone           string `json:"zone"`
	PrimaryElement string `json:"primary_element"`
}

// ShapeElement is one row of Shape_Elements.
type ShapeElement struct {
	Shape   string `json:"shape"`
	Element string `json:"element"`
}

// Correspondence is one row of the master correspondence sheet.
type Correspondence struct {
	Sign    string `json:"sign"`
	Element string `json:"element"`
	Shape   string `json:"shape"`
}

// ActivityTimingRule is one row of Activity_Day_Guide.
type ActivityTimingRule struct {
	Activity    string   `json:"activity"`
	GoodDays    []string `json:"good_days"`
	AvoidDays   []string `json:"avoid_days"`
	GoodNumbers []int    `json:"good_numbers"`
	AvoidNums   []int    `json:"avoid_numbers"`
	Notes       string   `json:"notes"`
}

// Fit is a yes/no/maybe answer for one timing dimension.
type Fit string

const (
	FitYes   Fit = "Yes"
	FitNo    Fit = "No"
	FitMaybe Fit = "Maybe"
)

// TimingVerdict is the result of checking a planned date for an activity.
type TimingVerdict struct {
	Activity      string    `json:"activity"`
	Date          time.Time `json:"date"`
	Weekday       string    `json:"weekday"`
	UniversalDay  int       `json:"universal_day"`
	AstrologyFit  Fit       `json:"astrology_fit"`
	NumerologyFit Fit       `json:"numerology_fit"`
	Verdict       string    `json:"verdict"`
	Notes         string    `json:"notes,omitempty"`
}

// ZoneCheck is the result of placing an item (and optional shape) in a house zone.
type ZoneCheck struct {
	Item              string   `json:"item"`
	Zone              string   `json:"zone"`
	ItemElement       string   `json:"item_element"`
	ZonePrimary       string   `json:"zone_primary"`
	Verdict           string   `json:"verdict"`
	Remedy            string   `json:"remedy"`
	Shape             string   `json:"shape,omitempty"`
	ShapeElement      string   `json:"shape_element,omitempty"`
	ShapeVerdict      string   `json:"shape_verdict,omitempty"`
	RecommendedShapes []string `json:"recommended_shapes,omitempty"`
}

// Context is the resolved sign and its correspondences, passed explicitly to every panel.
type Context struct {
	Sign       Sign           `json:"sign"`
	Position   *Position      `json:"position,omitempty"`
	Element    string         `json:"element"`
	Shape      string         `json:"shape"`
	BestZones  string         `json:"best_zones"`
	Attributes SignAttributes `json:"attributes"`
}
