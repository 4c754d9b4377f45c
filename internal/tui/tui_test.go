package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomaskoefod/cosmicgen/internal/audit"
	"github.com/thomaskoefod/cosmicgen/internal/config"
	"github.com/thomaskoefod/cosmicgen/internal/timing"
	"github.com/thomaskoefod/cosmicgen/internal/workbook"
	"github.com/thomaskoefod/cosmicgen/internal/workbook/workbooktest"
	"github.com/thomaskoefod/cosmicgen/internal/zones"
	"github.com/thomaskoefod/cosmicgen/pkg/models"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	store := workbook.NewStore(workbooktest.StandardTables(t), "standard.xlsx")
	return New(Deps{Config: config.Default(), Store: store})
}

// send delivers msg and then every message its commands produce.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, cmd := m.Update(msg)
	m = updated.(Model)
	return drain(t, m, cmd)
}

func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case nil:
		return m
	case tea.BatchMsg:
		for _, c := range msg {
			m = drain(t, m, c)
		}
		return m
	case contextResolvedMsg, workbookLoadedMsg, errorMsg, statusMsg:
		updated, next := m.Update(msg)
		return drain(t, updated.(Model), next)
	default:
		// cursor blinks and similar housekeeping
		return m
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "f1":
		return tea.KeyMsg{Type: tea.KeyF1}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func resolveManual(t *testing.T, m Model, sign string) Model {
	t.Helper()
	m.tab = TabInputs
	m.inputs.form.setValue(inSource, "manual")
	m.inputs.form.setValue(inManual, sign)
	return send(t, m, key("enter"))
}

func TestParseTab(t *testing.T) {
	assert.Equal(t, TabInputs, ParseTab(""))
	assert.Equal(t, TabAudit, ParseTab("Audit"))
	assert.Equal(t, TabTiming, ParseTab("timing"))
	assert.Equal(t, TabZones, ParseTab(" zones "))
	assert.Equal(t, TabItems, ParseTab("items"))
}

func TestTabCycling(t *testing.T) {
	m := newTestModel(t)
	require.Equal(t, TabInputs, m.tab)

	m = send(t, m, key("shift+tab"))
	assert.Equal(t, TabItems, m.tab)

	m = send(t, m, key("tab"))
	m = send(t, m, key("tab"))
	assert.Equal(t, TabAudit, m.tab)
	assert.Contains(t, m.View(), "No sign yet")
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, key("f1"))
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "close help")

	m = send(t, m, key("esc"))
	assert.False(t, m.showHelp)
}

func TestInputsResolveSign(t *testing.T) {
	m := resolveManual(t, newTestModel(t), "aries")

	require.NoError(t, m.err)
	assert.Equal(t, models.Aries, m.ctx.Sign)
	assert.Equal(t, "Fire", m.ctx.Element)
	assert.Equal(t, "Sign: Aries (Manual)", m.statusMsg)
	require.NotNil(t, m.lastInput)
}

func TestInputsStatusSettlesOnResolvedSign(t *testing.T) {
	m := newTestModel(t)
	m.tab = TabInputs
	m.inputs.form.setValue(inSource, "manual")
	m.inputs.form.setValue(inManual, "leo")

	updated, cmd := m.Update(key("enter"))
	m = updated.(Model)
	assert.Equal(t, "Resolving sign...", m.statusMsg)
	require.NotNil(t, cmd)

	msg := cmd()
	_, ok := msg.(contextResolvedMsg)
	require.True(t, ok, "resolve should produce a single contextResolvedMsg, got %T", msg)

	updated, _ = m.Update(msg)
	m = updated.(Model)
	assert.Equal(t, "Sign: Leo (Manual)", m.statusMsg)
}

func TestInputsRejectBadDate(t *testing.T) {
	m := newTestModel(t)
	m.inputs.form.setValue(inDate, "yesterday")

	m = send(t, m, key("enter"))

	require.Error(t, m.err)
	assert.Equal(t, models.NoSign, m.ctx.Sign)
}

func TestInputsSunSign(t *testing.T) {
	m := newTestModel(t)
	m.inputs.form.setValue(inDate, "1990-07-04")
	m.inputs.form.setValue(inTime, "08:30")

	m = send(t, m, key("enter"))

	require.NoError(t, m.err)
	assert.Equal(t, models.Cancer, m.ctx.Sign)
}

func TestAuditNeedsSign(t *testing.T) {
	m := newTestModel(t)
	m.tab = TabAudit

	m = send(t, m, key("enter"))

	assert.ErrorIs(t, m.err, errNoSign)
}

func TestAuditPanel(t *testing.T) {
	m := resolveManual(t, newTestModel(t), "Aries")
	m.tab = TabAudit
	m.audit.form.setValue(0, "Blue, marble")

	m = send(t, m, key("enter"))

	require.NoError(t, m.err)
	require.Len(t, m.audit.results, len(audit.Categories()))
	colours := m.audit.results[0]
	assert.Equal(t, audit.Colours, colours.Category)
	assert.Equal(t, models.Strong, colours.Level)
	assert.Equal(t, 1, colours.StrongHits)
	assert.Equal(t, 1, colours.MildHits)
	assert.Contains(t, m.View(), "STRONG")
}

func TestTimingPanel(t *testing.T) {
	m := newTestModel(t)
	m.tab = TabTiming
	m.timing.date.SetValue("2024-01-03")

	// activities are listed alphabetically: Signing contracts comes first
	m = send(t, m, key("enter"))

	require.NoError(t, m.err)
	require.NotNil(t, m.timing.verdict)
	assert.Equal(t, "Signing contracts", m.timing.verdict.Activity)
	assert.Equal(t, "Wednesday", m.timing.verdict.Weekday)
	assert.Equal(t, timing.VerdictStrong, m.timing.verdict.Verdict)

	m = send(t, m, key("down"))
	m = send(t, m, key("down"))
	m = send(t, m, key("enter"))
	assert.Equal(t, "Travel", m.timing.verdict.Activity)
}

func TestZonePanel(t *testing.T) {
	m := newTestModel(t)
	m.tab = TabZones
	m.zones.form.setValue(zoneItem, "candle")
	m.zones.form.setValue(zoneName, "North")
	m.zones.form.setValue(zoneShape, "Wave")

	m = send(t, m, key("enter"))

	require.NoError(t, m.err)
	require.NotNil(t, m.zones.check)
	assert.Equal(t, "Fire", m.zones.check.ItemElement)
	assert.Equal(t, "Water", m.zones.check.ZonePrimary)
	assert.Equal(t, "Move to: South, South-East", m.zones.check.Remedy)
	assert.Equal(t, []string{"Wave"}, m.zones.check.RecommendedShapes)
	assert.NotEqual(t, zones.RemedyKeep, m.zones.check.Remedy)
}

func TestZonePanelNeedsItemAndZone(t *testing.T) {
	m := newTestModel(t)
	m.tab = TabZones
	m = send(t, m, key("enter"))
	assert.Error(t, m.err)
	assert.Nil(t, m.zones.check)
}

func TestItemsFilterCycling(t *testing.T) {
	m := newTestModel(t)
	m.tab = TabItems
	all := len(m.items.table.Rows())
	require.Equal(t, 7, all)

	m = send(t, m, key("e"))
	f := m.items.filter()
	assert.NotEqual(t, workbook.AllFilter, f.Element)
	assert.Less(t, len(m.items.table.Rows()), all)

	m = send(t, m, key("c"))
	assert.NotEqual(t, workbook.AllFilter, m.items.filter().Category)

	for range m.items.elements {
		m = send(t, m, key("e"))
	}
	assert.Equal(t, workbook.AllFilter, m.items.filter().Element)
}

func TestWorkbookReplaceReresolves(t *testing.T) {
	m := resolveManual(t, newTestModel(t), "Taurus")
	require.Equal(t, "Earth", m.ctx.Element)

	other := workbooktest.Build(t,
		workbooktest.Sheet{Name: workbook.SheetData, Rows: [][]any{
			{"Astrological Sign", "Element", "Shape"},
			{"Taurus", "Wood", "Rectangle"},
		}},
	)
	path := filepath.Join(t.TempDir(), "other.xlsx")
	require.NoError(t, os.WriteFile(path, other, 0644))

	m = drain(t, m, loadWorkbook(m.deps.Loader, path))

	require.NoError(t, m.err)
	assert.Equal(t, path, m.deps.Store.Source())
	assert.Equal(t, "Wood", m.ctx.Element)
	assert.Empty(t, m.items.table.Rows())
	assert.Empty(t, m.timing.list.Items())
}

func TestWorkbookLoadError(t *testing.T) {
	m := newTestModel(t)
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0644))

	m = drain(t, m, loadWorkbook(m.deps.Loader, path))

	assert.ErrorIs(t, m.err, workbook.ErrNotWorkbook)
	assert.Equal(t, "standard.xlsx", m.deps.Store.Source())
}

func TestNotesFromHTML(t *testing.T) {
	r := newRenderer(80)
	assert.Equal(t, "Sign with a **green** pen.", strings.TrimSpace(r.notes("Sign with a <b>green</b> pen.")))
	assert.Equal(t, "Carry moonstone.", r.notes("Carry moonstone."))
}
