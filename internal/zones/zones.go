// Package zones relates an item's element to the element of a house zone.
package zones

import (
	"fmt"
	"strings"

	"github.com/thomaskoefod/cosmicgen/internal/workbook"
	"github.com/thomaskoefod/cosmicgen/pkg/models"
)

const (
	// Neutral is the relation of any pair the relation table does not list.
	Neutral = "Neutral"
	// MildAvoid is the relation that asks for balancing instead of moving.
	MildAvoid = "Mild Avoid"
	// SpaceElement may sit in the central zone.
	SpaceElement = "Space"

	maxRecommendedShapes = 10
)

// Remedy texts.
const (
	RemedyKeepCentreOpen = "Keep centre open—relocate item to its best zones"
	RemedyBalance        = "Balance with supportive colours/crystals of the zone element or relocate later"
	RemedyKeep           = "OK / Supportive — keep as is"
)

// PrimaryElement returns the first element of a compound zone element such as "Fire+Earth".
func PrimaryElement(zoneElement string) string {
	first, _, _ := strings.Cut(zoneElement, "+")
	return strings.TrimSpace(first)
}

// IsCentre reports whether zone is the central zone.
func IsCentre(zone string) bool {
	z := strings.TrimSpace(zone)
	return strings.EqualFold(z, "Centre") || strings.EqualFold(z, "Center")
}

// Relation looks up how element from relates to element to, defaulting to Neutral.
func Relation(tables *workbook.Tables, from, to string) string {
	if tables == nil {
		return Neutral
	}
	if rel, ok := tables.Relations().Lookup(from, to); ok {
		return rel
	}
	return Neutral
}

// Remedy derives the remedy text from the verdict. The centre rule overrides
// the verdict for every element except Space.
func Remedy(zone, itemElement, verdict, bestZones string) string {
	switch {
	case IsCentre(zone) && !strings.EqualFold(strings.TrimSpace(itemElement), SpaceElement):
		return RemedyKeepCentreOpen
	case strings.HasPrefix(verdict, "Avoid"):
		return fmt.Sprintf("Move to: %s", bestZones)
	case verdict == MildAvoid:
		return RemedyBalance
	}
	return RemedyKeep
}

// Check evaluates placing item in zone, with an optional shape.
func Check(tables *workbook.Tables, item, zone, shape string) models.ZoneCheck {
	if tables == nil {
		tables = workbook.Empty()
	}
	res := models.ZoneCheck{Item: item, Zone: zone, Shape: shape}

	if it, ok := tables.Item(item); ok {
		res.ItemElement = it.Element
	}
	if z, ok := tables.Zone(zone); ok {
		res.ZonePrimary = PrimaryElement(z.PrimaryElement)
	}

	res.Verdict = Relation(tables, res.ItemElement, res.ZonePrimary)
	res.Remedy = Remedy(zone, res.ItemElement, res.Verdict, tables.BestZones(res.ItemElement))

	if shape != "" {
		if s, ok := tables.Shape(shape); ok {
			res.ShapeElement = s.Element
			// an unknown shape pairing stays blank rather than Neutral
			res.ShapeVerdict, _ = tables.Relations().Lookup(s.Element, res.ZonePrimary)
		}
	}

	rec := tables.ShapesFor(res.ZonePrimary)
	if len(rec) > maxRecommendedShapes {
		rec = rec[:maxRecommendedShapes]
	}
	res.RecommendedShapes = rec
	return res
}
