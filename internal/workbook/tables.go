package workbook

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/thomaskoefod/cosmicgen/pkg/models"
)

// Sheet names of the rules workbook.
const (
	SheetData          = "Data"
	SheetAudit         = "AuditData"
	SheetElementItems  = "Element_Items"
	SheetHouseZones    = "House_Zones"
	SheetRelations     = "Element_Relations"
	SheetPreferences   = "Element_Preferences"
	SheetShapes        = "Shape_Elements"
	SheetActivityGuide = "Activity_Day_Guide"
)

// Column headers shared by several sheets.
const (
	ColSign     = "Astrological Sign"
	ColElement  = "Element"
	ColShape    = "Shape"
	ColCategory = "Category"
)

// AuditRow is one row of AuditData: the raw avoid-list cells keyed by column header.
type AuditRow struct {
	Sign    string
	columns map[string]string
}

// Column returns the raw cell of an avoid-list column, or "".
func (r AuditRow) Column(header string) string {
	return r.columns[header]
}

// RelationMatrix maps a source element and a target element to a relation verdict.
type RelationMatrix struct {
	cells map[string]map[string]string
}

// Lookup returns the relation of from towards to, if the matrix has one.
func (m RelationMatrix) Lookup(from, to string) (string, bool) {
	row, ok := m.cells[key(from)]
	if !ok {
		return "", false
	}
	v, ok := row[key(to)]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Tables is the full parsed lookup-table set of one workbook. A Tables value
// is never modified after parsing.
type Tables struct {
	sheets          []string
	signs           map[string]models.SignAttributes
	audit           map[string]AuditRow
	items           []models.ElementItem
	zones           []models.HouseZone
	relations       RelationMatrix
	bestZones       map[string]string
	shapes          []models.ShapeElement
	activities      []models.ActivityTimingRule
	correspondences map[string]models.Correspondence
}

// Empty returns a table set with no data; every lookup on it yields "unknown".
func Empty() *Tables {
	return &Tables{
		signs:           map[string]models.SignAttributes{},
		audit:           map[string]AuditRow{},
		bestZones:       map[string]string{},
		correspondences: map[string]models.Correspondence{},
		relations:       RelationMatrix{cells: map[string]map[string]string{}},
	}
}

// build maps every known sheet to typed records. sheets is keyed by sheet name.
func build(order []string, sheets map[string]*sheet) *Tables {
	t := Empty()
	t.sheets = order

	data := sheets[SheetData]
	data.each(func(row []string) {
		sign := data.cell(row, ColSign)
		if sign == "" {
			return
		}
		attrs := models.SignAttributes{
			Sign:                sign,
			Element:             data.cell(row, "Element"),
			Shape:               data.cell(row, "Shape"),
			Colour:              data.cell(row, "Colour"),
			Foods:               data.cell(row, "Foods"),
			PrimaryCrystals:     data.cell(row, "Primary Crystals"),
			AlternativeCrystals: data.cell(row, "Alternative Crystals / Gemstones"),
			FavorableActivities: data.cell(row, "Favorable Activities"),
			HouseholdItems:      data.cell(row, "Household Items"),
			Extra:               map[string]string{},
		}
		for i, h := range data.headers {
			if h == "" || h == ColSign || attrs.Field(h) != "" {
				continue
			}
			if v := cellAt(row, i); v != "" {
				attrs.Extra[h] = v
			}
		}
		if _, seen := t.signs[key(sign)]; !seen {
			t.signs[key(sign)] = attrs
		}
	})

	audit := sheets[SheetAudit]
	audit.each(func(row []string) {
		sign := audit.cell(row, ColSign)
		if sign == "" {
			return
		}
		r := AuditRow{Sign: sign, columns: map[string]string{}}
		for i, h := range audit.headers {
			if h != "" && h != ColSign {
				r.columns[h] = cellAt(row, i)
			}
		}
		if _, seen := t.audit[key(sign)]; !seen {
			t.audit[key(sign)] = r
		}
	})

	items := sheets[SheetElementItems]
	items.each(func(row []string) {
		name := items.cell(row, "Item Name")
		if name == "" {
			return
		}
		t.items = append(t.items, models.ElementItem{
			Name:     name,
			Element:  items.cell(row, ColElement),
			Category: items.cell(row, ColCategory),
		})
	})

	zones := sheets[SheetHouseZones]
	zones.each(func(row []string) {
		zone := zones.cell(row, "Zone")
		if zone == "" {
			return
		}
		t.zones = append(t.zones, models.HouseZone{
			Zone:           zone,
			PrimaryElement: zones.cell(row, "Primary Element"),
		})
	})

	// Element_Relations is addressed by position: column 0 is the source
	// element, every other header names a target element.
	rel := sheets[SheetRelations]
	rel.each(func(row []string) {
		from := cellAt(row, 0)
		if from == "" {
			return
		}
		cells := map[string]string{}
		for i, h := range rel.headers {
			if i == 0 || h == "" {
				continue
			}
			cells[key(h)] = cellAt(row, i)
		}
		if _, seen := t.relations.cells[key(from)]; !seen {
			t.relations.cells[key(from)] = cells
		}
	})

	pref := sheets[SheetPreferences]
	pref.each(func(row []string) {
		elem := pref.cell(row, ColElement)
		if elem == "" {
			return
		}
		if _, seen := t.bestZones[key(elem)]; !seen {
			t.bestZones[key(elem)] = pref.cell(row, "Best Zones")
		}
	})

	shapes := sheets[SheetShapes]
	shapes.each(func(row []string) {
		shape := shapes.cell(row, ColShape)
		if shape == "" {
			return
		}
		t.shapes = append(t.shapes, models.ShapeElement{
			Shape:   shape,
			Element: shapes.cell(row, ColElement),
		})
	})

	guide := sheets[SheetActivityGuide]
	guide.each(func(row []string) {
		activity := guide.cell(row, "Activity")
		if activity == "" {
			return
		}
		t.activities = append(t.activities, models.ActivityTimingRule{
			Activity:    activity,
			GoodDays:    splitSet(guide.cell(row, "Good Days (Astrology)")),
			AvoidDays:   splitSet(guide.cell(row, "Avoid Days (Astrology)")),
			GoodNumbers: splitNumbers(guide.cell(row, "Good Numbers (Numerology)")),
			AvoidNums:   splitNumbers(guide.cell(row, "Avoid Numbers (Numerology)")),
			Notes:       guide.cell(row, "Synergy Notes"),
		})
	})

	if name := masterSheetName(order); name != "" {
		master := sheets[name]
		master.each(func(row []string) {
			sign := master.cell(row, ColSign)
			if sign == "" {
				return
			}
			if _, seen := t.correspondences[key(sign)]; !seen {
				t.correspondences[key(sign)] = models.Correspondence{
					Sign:    sign,
					Element: master.cell(row, ColElement),
					Shape:   master.cell(row, ColShape),
				}
			}
		})
	}

	return t
}

// masterSheetName finds the optional master correspondence sheet by the
// words in its name.
func masterSheetName(names []string) string {
	for _, name := range names {
		lower := strings.ToLower(name)
		if strings.Contains(lower, "master") && strings.Contains(lower, "correspondence") {
			return name
		}
	}
	return ""
}

func splitSet(v string) []string {
	return strings.FieldsFunc(v, func(r rune) bool {
		return r == ',' || r == ';' || r == '/' || r == '|' || unicode.IsSpace(r)
	})
}

func splitNumbers(v string) []int {
	var out []int
	for _, f := range splitSet(v) {
		if n, err := strconv.Atoi(f); err == nil {
			out = append(out, n)
		}
	}
	return out
}

// Sheets lists the worksheet names in workbook order.
func (t *Tables) Sheets() []string {
	return t.sheets
}

// Attributes returns the Data row of sign. ok is false when the sign has no row.
func (t *Tables) Attributes(sign string) (models.SignAttributes, bool) {
	a, ok := t.signs[key(sign)]
	return a, ok
}

// Correspondence returns the master correspondence row of sign.
func (t *Tables) Correspondence(sign string) (models.Correspondence, bool) {
	c, ok := t.correspondences[key(sign)]
	return c, ok
}

// HasCorrespondences reports whether the workbook carries a master correspondence sheet.
func (t *Tables) HasCorrespondences() bool {
	return len(t.correspondences) > 0
}

// Avoid returns the terms of one AuditData column for sign, or nil.
func (t *Tables) Avoid(sign, column string) []string {
	row, ok := t.audit[key(sign)]
	if !ok {
		return nil
	}
	return splitList(row.Column(column))
}

// AvoidRaw returns the unsplit AuditData cell.
func (t *Tables) AvoidRaw(sign, column string) string {
	return t.audit[key(sign)].Column(column)
}

// HasAuditRow reports whether AuditData has a row for sign.
func (t *Tables) HasAuditRow(sign string) bool {
	_, ok := t.audit[key(sign)]
	return ok
}

// BestZones returns the Element_Preferences text for element.
func (t *Tables) BestZones(element string) string {
	return t.bestZones[key(element)]
}

// Relations returns the element relation matrix.
func (t *Tables) Relations() RelationMatrix {
	return t.relations
}

// SignNames lists the distinct signs of the Data sheet, sorted.
func (t *Tables) SignNames() []string {
	names := make([]string, 0, len(t.signs))
	for _, a := range t.signs {
		names = append(names, a.Sign)
	}
	sort.Strings(names)
	return names
}

// Activities lists the distinct activity names, sorted.
func (t *Tables) Activities() []string {
	var names []string
	for _, a := range t.activities {
		names = append(names, a.Activity)
	}
	return sortedUnique(names)
}

// Activity returns the first rule for the named activity, ignoring case.
func (t *Tables) Activity(name string) (models.ActivityTimingRule, bool) {
	for _, a := range t.activities {
		if key(a.Activity) == key(name) {
			return a, true
		}
	}
	return models.ActivityTimingRule{}, false
}

// Item returns the first Element_Items row with the given name, ignoring case.
func (t *Tables) Item(name string) (models.ElementItem, bool) {
	for _, it := range t.items {
		if key(it.Name) == key(name) {
			return it, true
		}
	}
	return models.ElementItem{}, false
}

// ItemNames lists the distinct item names, sorted.
func (t *Tables) ItemNames() []string {
	var names []string
	for _, it := range t.items {
		names = append(names, it.Name)
	}
	return sortedUnique(names)
}

// ItemElements lists the distinct item elements, sorted.
func (t *Tables) ItemElements() []string {
	var out []string
	for _, it := range t.items {
		if it.Element != "" {
			out = append(out, it.Element)
		}
	}
	return sortedUnique(out)
}

// ItemCategories lists the distinct item categories, sorted.
func (t *Tables) ItemCategories() []string {
	var out []string
	for _, it := range t.items {
		if it.Category != "" {
			out = append(out, it.Category)
		}
	}
	return sortedUnique(out)
}

// AllFilter matches every value in an ItemFilter field.
const AllFilter = "All"

// ItemFilter narrows Items by element and category. Empty or AllFilter matches everything.
type ItemFilter struct {
	Element  string
	Category string
}

// Items returns the Element_Items rows matching filter, in workbook order.
func (t *Tables) Items(filter ItemFilter) []models.ElementItem {
	var out []models.ElementItem
	for _, it := range t.items {
		if filter.Element != "" && filter.Element != AllFilter && it.Element != filter.Element {
			continue
		}
		if filter.Category != "" && filter.Category != AllFilter && it.Category != filter.Category {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Zone returns the House_Zones row with the given name.
func (t *Tables) Zone(name string) (models.HouseZone, bool) {
	for _, z := range t.zones {
		if key(z.Zone) == key(name) {
			return z, true
		}
	}
	return models.HouseZone{}, false
}

// Zones lists the zone names in workbook order.
func (t *Tables) Zones() []string {
	var out []string
	for _, z := range t.zones {
		out = append(out, z.Zone)
	}
	return out
}

// Shape returns the Shape_Elements row with the given name.
func (t *Tables) Shape(name string) (models.ShapeElement, bool) {
	for _, s := range t.shapes {
		if key(s.Shape) == key(name) {
			return s, true
		}
	}
	return models.ShapeElement{}, false
}

// Shapes lists the shape names in workbook order.
func (t *Tables) Shapes() []string {
	var out []string
	for _, s := range t.shapes {
		out = append(out, s.Shape)
	}
	return out
}

// ShapesFor lists the shapes whose element is element, in workbook order.
func (t *Tables) ShapesFor(element string) []string {
	var out []string
	for _, s := range t.shapes {
		if key(s.Element) == key(element) {
			out = append(out, s.Shape)
		}
	}
	return out
}

func sortedUnique(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
