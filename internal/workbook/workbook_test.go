package workbook_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomaskoefod/cosmicgen/internal/workbook"
	"github.com/thomaskoefod/cosmicgen/internal/workbook/workbooktest"
)

func TestParseStandardWorkbook(t *testing.T) {
	tables := workbooktest.StandardTables(t)

	assert.Equal(t, []string{"Aries", "Capricorn", "Pisces", "Taurus"}, tables.SignNames())

	aries, ok := tables.Attributes("aries")
	require.True(t, ok)
	assert.Equal(t, "Fire", aries.Element)
	assert.Equal(t, "Red", aries.Colour)
	assert.Equal(t, "Red Jasper, Garnet", aries.AlternativeCrystals)
	assert.Equal(t, "9", aries.Extra["Lucky Number"])
	assert.Equal(t, "9", aries.Field("Lucky Number"))

	assert.Equal(t, []string{"Ice cream", "Cold drinks"}, tables.Avoid("Aries", "Avoid Foods (strong)"))
	assert.Equal(t, "Ice cream, Cold drinks", tables.AvoidRaw("Aries", "Avoid Foods (strong)"))
	assert.Nil(t, tables.Avoid("Taurus", "Enemy Signs (strong)"))
	assert.True(t, tables.HasAuditRow("Taurus"))
	assert.False(t, tables.HasAuditRow("Leo"))

	assert.Equal(t, "North, North-East", tables.BestZones("Water"))
	assert.Equal(t, []string{"North", "South", "East", "South-West", "Centre", "West"}, tables.Zones())
	assert.Equal(t, []string{"Triangle", "Pyramid"}, tables.ShapesFor("Fire"))

	rel, ok := tables.Relations().Lookup("Fire", "Water")
	require.True(t, ok)
	assert.Equal(t, "Avoid (Conflict)", rel)
	_, ok = tables.Relations().Lookup("Metal", "Space")
	assert.False(t, ok, "short row leaves the Space column empty")
	_, ok = tables.Relations().Lookup("Space", "Fire")
	assert.False(t, ok)

	c, ok := tables.Correspondence("Pisces")
	require.True(t, ok)
	assert.Equal(t, "Wave", c.Shape)
	assert.True(t, tables.HasCorrespondences())
}

func TestParseActivityRules(t *testing.T) {
	tables := workbooktest.StandardTables(t)

	assert.Equal(t, []string{"Signing contracts", "Starting a business", "Travel"}, tables.Activities())

	travel, ok := tables.Activity("Travel")
	require.True(t, ok)
	assert.Equal(t, []string{"Mon", "Fri"}, travel.GoodDays)
	assert.Equal(t, []int{5, 9, 11}, travel.GoodNumbers)
	assert.Equal(t, []int{7}, travel.AvoidNums)
	assert.Equal(t, "Carry moonstone.", travel.Notes)

	business, ok := tables.Activity("Starting a business")
	require.True(t, ok)
	assert.Empty(t, business.Notes)
}

func TestItemsFilter(t *testing.T) {
	tables := workbooktest.StandardTables(t)

	assert.Len(t, tables.Items(workbook.ItemFilter{}), 7)
	assert.Len(t, tables.Items(workbook.ItemFilter{Element: workbook.AllFilter, Category: workbook.AllFilter}), 7)

	fire := tables.Items(workbook.ItemFilter{Element: "Fire"})
	require.Len(t, fire, 2)
	assert.Equal(t, "Candle", fire[0].Name)

	kitchenFire := tables.Items(workbook.ItemFilter{Element: "Fire", Category: "Kitchen"})
	require.Len(t, kitchenFire, 1)
	assert.Equal(t, "Stove", kitchenFire[0].Name)

	assert.Equal(t, []string{"Earth", "Fire", "Metal", "Space", "Water", "Wood"}, tables.ItemElements())
	assert.Equal(t, []string{"Decor", "Kitchen", "Layout"}, tables.ItemCategories())
}

func TestParseMissingSheetsDegradeToEmpty(t *testing.T) {
	tables := workbooktest.Tables(t, workbooktest.Sheet{
		Name: "Data",
		Rows: [][]any{{"Astrological Sign", "Colour"}, {"Leo", "Gold"}},
	})

	leo, ok := tables.Attributes("Leo")
	require.True(t, ok)
	assert.Equal(t, "Gold", leo.Colour)
	assert.Empty(t, leo.Element, "absent column reads as empty")

	assert.Empty(t, tables.Activities())
	assert.Empty(t, tables.Zones())
	assert.Empty(t, tables.BestZones("Fire"))
	assert.Nil(t, tables.Avoid("Leo", "Avoid Foods (strong)"))
	assert.False(t, tables.HasCorrespondences())

	_, ok = tables.Attributes("Virgo")
	assert.False(t, ok)
}

func TestParseRejectsNonWorkbook(t *testing.T) {
	_, err := workbook.Parse([]byte("Astrological Sign,Element\nAries,Fire\n"))
	assert.ErrorIs(t, err, workbook.ErrNotWorkbook)
}

func TestLoaderMemoizesByContent(t *testing.T) {
	b := workbooktest.Build(t, workbooktest.Standard()...)
	loader := workbook.NewLoader(nil)

	first, err := loader.Load(b)
	require.NoError(t, err)
	second, err := loader.Load(append([]byte(nil), b...))
	require.NoError(t, err)
	assert.Same(t, first, second)

	other, err := loader.Load(workbooktest.Build(t, workbooktest.Standard()[:1]...))
	require.NoError(t, err)
	assert.NotSame(t, first, other)
}

func TestLoaderKeepsOnlyLatestWorkbook(t *testing.T) {
	standard := workbooktest.Build(t, workbooktest.Standard()...)
	small := workbooktest.Build(t, workbooktest.Standard()[:1]...)
	loader := workbook.NewLoader(nil)

	first, err := loader.Load(standard)
	require.NoError(t, err)
	_, err = loader.Load(small)
	require.NoError(t, err)

	again, err := loader.Load(standard)
	require.NoError(t, err)
	assert.NotSame(t, first, again, "switching workbooks evicts the previous parse")

	cached, err := loader.Load(standard)
	require.NoError(t, err)
	assert.Same(t, again, cached)
}

func TestStoreReplacesWholeSet(t *testing.T) {
	store := workbook.NewStore(nil, "")
	assert.Empty(t, store.Tables().SignNames())

	tables := workbooktest.StandardTables(t)
	store.Replace(tables, "upload.xlsx")
	assert.Same(t, tables, store.Tables())
	assert.Equal(t, "upload.xlsx", store.Source())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				got := store.Tables()
				if got != tables && len(got.SignNames()) != 0 {
					t.Error("observed a partially replaced table set")
				}
			}
		}()
	}
	store.Replace(workbook.Empty(), "empty")
	wg.Wait()
}

func TestLookupsIgnoreCase(t *testing.T) {
	tables := workbooktest.StandardTables(t)

	it, ok := tables.Item("  candle ")
	require.True(t, ok)
	assert.Equal(t, "Fire", it.Element)

	z, ok := tables.Zone("south-west")
	require.True(t, ok)
	assert.Equal(t, "Earth+Fire", z.PrimaryElement)

	s, ok := tables.Shape("WAVE")
	require.True(t, ok)
	assert.Equal(t, "Water", s.Element)

	_, ok = tables.Activity("travel")
	assert.True(t, ok)
}
