package audit_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomaskoefod/cosmicgen/internal/audit"
	"github.com/thomaskoefod/cosmicgen/internal/workbook"
	"github.com/thomaskoefod/cosmicgen/internal/workbook/workbooktest"
	"github.com/thomaskoefod/cosmicgen/pkg/models"
)

func TestEvaluateBlueRoseGold(t *testing.T) {
	cat, ok := audit.CategoryByName(audit.Colours)
	require.True(t, ok)

	res := audit.Evaluate(cat, "Blue, Rose Gold", audit.NewRules([]string{"blue"}, []string{"marble"}), models.SignAttributes{})

	want := []models.TokenVerdict{
		{Token: "blue", Level: models.Strong, Term: "blue"},
		{Token: "gold", Level: models.OK},
		{Token: "rose", Level: models.OK},
		{Token: "gold", Level: models.OK},
	}
	if diff := cmp.Diff(want, res.Verdicts); diff != "" {
		t.Fatalf("verdicts mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, res.StrongHits)
	assert.Equal(t, 0, res.MildHits)
	assert.Equal(t, models.Strong, res.Level)
	assert.Equal(t, "blue", res.Why)
	assert.Len(t, res.Remedies, 3)
	assert.True(t, res.RulesFound)
}

func TestEvaluateEmptyInput(t *testing.T) {
	cat, _ := audit.CategoryByName(audit.Foods)
	res := audit.Evaluate(cat, "   ", audit.NewRules([]string{"Banana"}, nil), models.SignAttributes{})

	assert.Empty(t, res.Verdicts)
	assert.Equal(t, models.OK, res.Level)
	assert.Empty(t, res.Remedies)
}

func TestRemediesCappedAtThree(t *testing.T) {
	for _, cat := range audit.Categories() {
		assert.LessOrEqual(t, len(audit.Remedies(cat.Name, models.Strong)), 3, cat.Name)
		assert.NotEmpty(t, audit.Remedies(cat.Name, models.Strong), cat.Name)
		assert.NotEmpty(t, audit.Remedies(cat.Name, models.Mild), cat.Name)
		assert.Empty(t, audit.Remedies(cat.Name, models.OK), cat.Name)
	}
}

func TestRunAgainstWorkbook(t *testing.T) {
	tables := workbooktest.StandardTables(t)

	results := audit.Run(tables, "Aries", map[string]string{
		audit.Colours:  "blue rug, marble table",
		audit.Foods:    "bananas\nrice",
		audit.Crystals: "amethyst",
		audit.People:   "Capricorn partner",
	})
	require.Len(t, results, 6)

	byName := map[string]models.CategoryResult{}
	for _, r := range results {
		byName[r.Category] = r
	}

	colours := byName[audit.Colours]
	assert.Equal(t, models.Strong, colours.Level)
	assert.Equal(t, 2, colours.StrongHits, "'blue rug' and 'blue'")
	assert.Equal(t, 2, colours.MildHits, "'marble table' and 'marble'")
	assert.Equal(t, "Red, Candles, Red cushions", colours.Alternatives)

	foods := byName[audit.Foods]
	assert.Equal(t, models.Mild, foods.Level)
	assert.Equal(t, "Banana", foods.Why)
	assert.Equal(t, "Spicy food, Peppers", foods.Alternatives, "duplicate remedy column is not repeated")

	assert.Equal(t, models.OK, byName[audit.Crystals].Level)
	assert.Equal(t, models.Mild, byName[audit.People].Level)
	assert.Empty(t, byName[audit.People].Alternatives)

	activities := byName[audit.Activities]
	assert.Equal(t, models.OK, activities.Level)
	assert.True(t, activities.RulesFound)
}

func TestRunDegradesWithoutRules(t *testing.T) {
	inputs := map[string]string{audit.Foods: "ice cream"}

	for name, tables := range map[string]*workbook.Tables{
		"nil tables":   nil,
		"empty tables": workbook.Empty(),
	} {
		t.Run(name, func(t *testing.T) {
			results := audit.Run(tables, "Aries", inputs)
			require.Len(t, results, 6)
			for _, r := range results {
				assert.Equal(t, models.OK, r.Level)
				assert.False(t, r.RulesFound)
			}
		})
	}

	results := audit.Run(workbooktest.StandardTables(t), "Leo", inputs)
	for _, r := range results {
		assert.Equal(t, models.OK, r.Level, "sign without an AuditData row")
	}
}

func TestRunIsIdempotent(t *testing.T) {
	tables := workbooktest.StandardTables(t)
	inputs := map[string]string{audit.Colours: "Blue, Rose Gold", audit.Foods: "cold drinks, banana bread"}

	first := audit.Run(tables, "Aries", inputs)
	second := audit.Run(tables, "Aries", inputs)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("second run differs (-first +second):\n%s", diff)
	}
}
