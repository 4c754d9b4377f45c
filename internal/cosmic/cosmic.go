// Package cosmic resolves a user's inputs into the sign context every panel
// reads from.
package cosmic

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/thomaskoefod/cosmicgen/internal/ephemeris"
	"github.com/thomaskoefod/cosmicgen/internal/workbook"
	"github.com/thomaskoefod/cosmicgen/internal/zodiac"
	"github.com/thomaskoefod/cosmicgen/pkg/models"
)

// SignSource selects how the sign is derived.
type SignSource int

const (
	SourceSun SignSource = iota
	SourceMoon
	SourceManual
)

func (s SignSource) String() string {
	switch s {
	case SourceMoon:
		return "Moon"
	case SourceManual:
		return "Manual"
	}
	return "Sun"
}

// ParseSignSource accepts "sun", "moon" or "manual" in any case.
func ParseSignSource(s string) (SignSource, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sun", "":
		return SourceSun, nil
	case "moon":
		return SourceMoon, nil
	case "manual":
		return SourceManual, nil
	}
	return SourceSun, fmt.Errorf("unknown sign source %q (want sun, moon or manual)", s)
}

// Inputs is everything the user typed on the Inputs panel.
type Inputs struct {
	BirthDate  time.Time
	Time       models.LocalTime
	TZOffset   float64
	Source     SignSource
	ManualSign string
}

// DateLayout is the date format accepted from users.
const DateLayout = "2006-01-02"

// ParseDate reads a YYYY-MM-DD calendar date at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return d, nil
}

// ParseLocalTime reads an HH:MM wall-clock time. Blank input is midnight.
func ParseLocalTime(s string) (models.LocalTime, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.LocalTime{}, nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return models.LocalTime{}, fmt.Errorf("invalid time %q (want HH:MM)", s)
	}
	return models.LocalTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// ParseOffset reads a UTC offset in hours, such as "5.5" or "-3". Blank input is zero.
func ParseOffset(s string) (float64, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "+")
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || v < -14 || v > 14 {
		return 0, fmt.Errorf("invalid UTC offset %q (want hours between -14 and 14)", s)
	}
	return v, nil
}

// Canonical trims and title-cases a workbook or user value: " fire " becomes "Fire".
func Canonical(s string) string {
	// a Caser keeps state, so each call gets its own
	return cases.Title(language.English).String(strings.Join(strings.Fields(s), " "))
}

// Resolve derives the sign from in and gathers its correspondences from
// tables. It never fails: an unresolvable sign yields models.NoSign and
// empty fields.
func Resolve(ctx context.Context, in Inputs, tables *workbook.Tables, resolver *ephemeris.Resolver) models.Context {
	if tables == nil {
		tables = workbook.Empty()
	}

	out := models.Context{Sign: models.NoSign}
	switch in.Source {
	case SourceMoon:
		if resolver == nil {
			resolver = ephemeris.NewResolver(nil, nil)
		}
		pos := resolver.MoonSignExact(ctx, in.BirthDate, in.Time, in.TZOffset)
		out.Sign = pos.Sign
		out.Position = &pos
	case SourceManual:
		if sign, ok := zodiac.ParseSign(in.ManualSign); ok {
			out.Sign = sign
		}
	default:
		out.Sign = zodiac.SunSignFromDate(in.BirthDate)
	}

	if !out.Sign.Valid() {
		return out
	}

	name := out.Sign.String()
	attrs, _ := tables.Attributes(name)
	out.Attributes = attrs

	corr, _ := tables.Correspondence(name)
	out.Element = Canonical(firstNonEmpty(corr.Element, attrs.Element))
	out.Shape = Canonical(firstNonEmpty(corr.Shape, attrs.Shape))
	if out.Element != "" {
		out.BestZones = tables.BestZones(out.Element)
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Markdown renders the context as a short markdown document.
func Markdown(c models.Context) string {
	if !c.Sign.Valid() {
		return "_No sign selected._\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", c.Sign)
	if c.Position != nil {
		precision := "estimated"
		if c.Position.UsedExact {
			precision = "ephemeris"
		}
		fmt.Fprintf(&b, "%s at %.2f° (%s)\n\n", Canonical(string(c.Position.Body)), c.Position.Longitude, precision)
	}

	rows := []struct{ label, value string }{
		{"Element", c.Element},
		{"Shape", c.Shape},
		{"Best zones", c.BestZones},
		{"Colour", c.Attributes.Colour},
		{"Foods", c.Attributes.Foods},
		{"Primary crystals", c.Attributes.PrimaryCrystals},
		{"Alternative crystals", c.Attributes.AlternativeCrystals},
		{"Favorable activities", c.Attributes.FavorableActivities},
		{"Household items", c.Attributes.HouseholdItems},
	}
	for _, r := range rows {
		if r.value == "" {
			continue
		}
		fmt.Fprintf(&b, "- **%s:** %s\n", r.label, r.value)
	}
	return b.String()
}
