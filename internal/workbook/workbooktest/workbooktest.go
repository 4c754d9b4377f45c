// Package workbooktest builds in-memory rules workbooks for tests.
package workbooktest

import (
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/thomaskoefod/cosmicgen/internal/workbook"
)

// Sheet is one worksheet: the first row is the header.
type Sheet struct {
	Name string
	Rows [][]any
}

// Build writes sheets into a fresh workbook and returns its bytes.
func Build(t testing.TB, sheets ...Sheet) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for _, s := range sheets {
		if _, err := f.NewSheet(s.Name); err != nil {
			t.Fatalf("creating sheet %s: %v", s.Name, err)
		}
		for i, row := range s.Rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			row := row
			if err := f.SetSheetRow(s.Name, cell, &row); err != nil {
				t.Fatalf("writing %s row %d: %v", s.Name, i+1, err)
			}
		}
	}
	if len(sheets) > 0 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			t.Fatalf("deleting default sheet: %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("writing workbook: %v", err)
	}
	return buf.Bytes()
}

// Tables parses sheets into a table set.
func Tables(t testing.TB, sheets ...Sheet) *workbook.Tables {
	t.Helper()
	tables, err := workbook.Parse(Build(t, sheets...))
	if err != nil {
		t.Fatalf("parsing workbook: %v", err)
	}
	return tables
}

// Standard returns the sheets of a small but complete rules workbook.
func Standard() []Sheet {
	return []Sheet{
		{Name: workbook.SheetData, Rows: [][]any{
			{"Astrological Sign", "Element", "Shape", "Colour", "Foods", "Primary Crystals",
				"Alternative Crystals / Gemstones", "Favorable Activities", "Household Items", "Lucky Number"},
			{"Aries", "Fire", "Triangle", "Red", "Spicy food, Peppers", "Carnelian",
				"Red Jasper, Garnet", "Sports, Leadership", "Candles, Red cushions", 9},
			{"Taurus", "Earth", "Square", "Green", "Root vegetables, Bread", "Emerald",
				"Rose Quartz", "Gardening", "Plants, Wooden furniture", 6},
			{},
			{"Capricorn", "Earth", "Square", "Brown, Black", "Grains", "Garnet",
				"Onyx", "Planning", "Stone sculptures", 8},
			{"Pisces", "Water", "Wave", "Sea green", "Fish, Seaweed", "Amethyst",
				"Aquamarine", "Swimming, Music", "Aquarium, Blue curtains", 7},
		}},
		{Name: workbook.SheetAudit, Rows: [][]any{
			{"Astrological Sign",
				"Avoid Household (strong)", "Avoid Household (mild)",
				"Avoid Foods (strong)", "Avoid Foods (mild)",
				"Avoid Crystals (strong)", "Avoid Crystals (mild)",
				"Avoid Activities (strong)", "Avoid Activities (mild)",
				"Avoid Elements (strong)", "Avoid Elements (mild)",
				"Enemy Signs (strong)", "Enemy Signs (mild)"},
			{"Aries",
				"Blue", "Marble",
				"Ice cream, Cold drinks", "Banana",
				"Moonstone", "Pearl",
				"Swimming", "Meditation retreats",
				"Water", "Earth",
				"Cancer", "Capricorn"},
			{"Taurus",
				"Sofa, Clutter", "Bins",
				"Fast food", "Chillies"},
		}},
		{Name: workbook.SheetElementItems, Rows: [][]any{
			{"Item Name", "Element", "Category"},
			{"Candle", "Fire", "Decor"},
			{"Aquarium", "Water", "Decor"},
			{"Plant", "Wood", "Decor"},
			{"Mirror", "Metal", "Decor"},
			{"Clay pot", "Earth", "Kitchen"},
			{"Stove", "Fire", "Kitchen"},
			{"Open floor", "Space", "Layout"},
		}},
		{Name: workbook.SheetHouseZones, Rows: [][]any{
			{"Zone", "Primary Element"},
			{"North", "Water"},
			{"South", "Fire"},
			{"East", "Wood"},
			{"South-West", "Earth+Fire"},
			{"Centre", "Space + Earth"},
			{"West", "Metal"},
		}},
		{Name: workbook.SheetRelations, Rows: [][]any{
			{"Element", "Water", "Fire", "Wood", "Earth", "Metal", "Space"},
			{"Water", "Supportive", "Avoid (Conflict)", "Supportive", "Mild Avoid", "Neutral", "Neutral"},
			{"Fire", "Avoid (Conflict)", "Supportive", "Supportive", "Supportive", "Mild Avoid", "Neutral"},
			{"Wood", "Supportive", "Supportive", "Neutral", "Mild Avoid", "Avoid", "Neutral"},
			{"Earth", "Mild Avoid", "Supportive", "Avoid", "Supportive", "Supportive", "Neutral"},
			{"Metal", "Supportive", "Avoid", "Avoid", "Supportive", "Neutral"},
		}},
		{Name: workbook.SheetPreferences, Rows: [][]any{
			{"Element", "Best Zones"},
			{"Water", "North, North-East"},
			{"Fire", "South, South-East"},
			{"Wood", "East"},
			{"Earth", "South-West, Centre"},
			{"Metal", "West, North-West"},
			{"Space", "Centre"},
		}},
		{Name: workbook.SheetShapes, Rows: [][]any{
			{"Shape", "Element"},
			{"Triangle", "Fire"},
			{"Square", "Earth"},
			{"Wave", "Water"},
			{"Circle", "Metal"},
			{"Rectangle", "Wood"},
			{"Pyramid", "Fire"},
		}},
		{Name: workbook.SheetActivityGuide, Rows: [][]any{
			{"Activity", "Good Days (Astrology)", "Avoid Days (Astrology)",
				"Good Numbers (Numerology)", "Avoid Numbers (Numerology)", "Synergy Notes"},
			{"Signing contracts", "Wednesday, Thursday", "Saturday", "1, 3, 5", "4, 8", "Sign with a <b>green</b> pen."},
			{"Travel", "Mon, Fri", "Tuesday", "5, 9, 11", "7", "Carry moonstone."},
			{"Starting a business", "Sunday", "Saturday", "1, 8, 22", "4"},
		}},
		{Name: "Master Correspondence v2", Rows: [][]any{
			{"Astrological Sign", "Element", "Shape"},
			{"Aries", "Fire", "Triangle"},
			{"Taurus", "Earth", "Square"},
			{"Pisces", "Water", "Wave"},
		}},
	}
}

// StandardTables parses the Standard workbook.
func StandardTables(t testing.TB) *workbook.Tables {
	t.Helper()
	return Tables(t, Standard()...)
}
