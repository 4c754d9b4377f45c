package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/thomaskoefod/cosmicgen/internal/audit"
	"github.com/thomaskoefod/cosmicgen/internal/cosmic"
	"github.com/thomaskoefod/cosmicgen/internal/timing"
	"github.com/thomaskoefod/cosmicgen/internal/workbook"
	"github.com/thomaskoefod/cosmicgen/internal/zones"
	"github.com/thomaskoefod/cosmicgen/pkg/models"
)

// session is the state every panel reads: the resolved sign context and the
// active tables.
type session struct {
	ctx        models.Context
	tables     *workbook.Tables
	keepMaster bool
	render     *renderer
}

var errNoSign = errors.New("resolve a sign on the Inputs panel first")

// Inputs

const (
	inDate = iota
	inTime
	inOffset
	inSource
	inManual
)

type inputsPanel struct {
	form form
}

func newInputsPanel(tzOffset float64) inputsPanel {
	f := newForm(
		[]string{"Birth date", "Local time", "UTC offset", "Sign source", "Manual sign"},
		[]string{cosmic.DateLayout, "HH:MM", "hours, e.g. 5.5", "sun | moon | manual", "e.g. Leo"},
	)
	f.setValue(inOffset, strconv.FormatFloat(tzOffset, 'f', -1, 64))
	f.setValue(inSource, "sun")
	return inputsPanel{form: f}
}

// inputs parses the form.
func (p inputsPanel) inputs() (cosmic.Inputs, error) {
	source, err := cosmic.ParseSignSource(p.form.value(inSource))
	if err != nil {
		return cosmic.Inputs{}, err
	}
	in := cosmic.Inputs{Source: source, ManualSign: p.form.value(inManual)}
	if source == cosmic.SourceManual {
		return in, nil
	}

	if in.BirthDate, err = cosmic.ParseDate(p.form.value(inDate)); err != nil {
		return cosmic.Inputs{}, err
	}
	if in.Time, err = cosmic.ParseLocalTime(p.form.value(inTime)); err != nil {
		return cosmic.Inputs{}, err
	}
	if in.TZOffset, err = cosmic.ParseOffset(p.form.value(inOffset)); err != nil {
		return cosmic.Inputs{}, err
	}
	return in, nil
}

func (p inputsPanel) update(msg tea.Msg) (inputsPanel, tea.Cmd) {
	var cmd tea.Cmd
	p.form, cmd = p.form.update(msg)
	return p, cmd
}

func (p inputsPanel) view(s session) string {
	var b strings.Builder
	b.WriteString(p.form.view())
	b.WriteString("\n")
	b.WriteString(s.render.markdown(cosmic.Markdown(s.ctx)))
	return b.String()
}

// Life Audit

type auditPanel struct {
	form    form
	results []models.CategoryResult
}

func newAuditPanel() auditPanel {
	var labels, placeholders []string
	for _, c := range audit.Categories() {
		labels = append(labels, c.Name)
		placeholders = append(placeholders, "comma separated")
	}
	return auditPanel{form: newForm(labels, placeholders)}
}

func (p auditPanel) run(s session) (auditPanel, error) {
	if !s.ctx.Sign.Valid() {
		return p, errNoSign
	}
	inputs := map[string]string{}
	for i, c := range audit.Categories() {
		inputs[c.Name] = p.form.value(i)
	}
	p.results = audit.Run(s.tables, s.ctx.Sign.String(), inputs)
	return p, nil
}

func (p auditPanel) update(msg tea.Msg) (auditPanel, tea.Cmd) {
	var cmd tea.Cmd
	p.form, cmd = p.form.update(msg)
	return p, cmd
}

func (p auditPanel) view(s session) string {
	var b strings.Builder
	b.WriteString(p.form.view())
	if len(p.results) == 0 {
		return b.String()
	}

	t := ltable.New().
		Border(lipgloss.RoundedBorder()).
		Headers("Category", "Verdict", "Strong", "Mild", "Matched").
		StyleFunc(func(row, col int) lipgloss.Style {
			st := lipgloss.NewStyle().Padding(0, 1)
			if row == ltable.HeaderRow {
				return st.Bold(true)
			}
			if col == 1 && row >= 0 && row < len(p.results) {
				return levelStyle(p.results[row].Level).Padding(0, 1)
			}
			return st
		})
	for _, r := range p.results {
		verdict := r.Level.String()
		if !r.RulesFound {
			verdict = "no rules"
		}
		t.Row(r.Category, verdict, strconv.Itoa(r.StrongHits), strconv.Itoa(r.MildHits), r.Why)
	}
	b.WriteString("\n")
	b.WriteString(t.String())
	b.WriteString("\n")

	for _, r := range p.results {
		if r.Level == models.OK {
			continue
		}
		b.WriteString("\n")
		b.WriteString(levelStyle(r.Level).Render(r.Category))
		b.WriteString("\n")
		for _, rem := range r.Remedies {
			b.WriteString("  • " + rem + "\n")
		}
		if r.Alternatives != "" {
			b.WriteString(helpStyle.Render("  try instead: "+r.Alternatives) + "\n")
		}
	}
	return b.String()
}

// Activity Timing

type timingPanel struct {
	list    list.Model
	date    textinput.Model
	verdict *models.TimingVerdict
}

func newTimingPanel() timingPanel {
	l := list.New(nil, list.NewDefaultDelegate(), 60, 14)
	l.Title = "Activities"
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle

	date := textinput.New()
	date.Placeholder = cosmic.DateLayout
	date.CharLimit = 10
	date.Width = 12
	date.SetValue(today())
	date.Focus()

	return timingPanel{list: l, date: date}
}

func (p timingPanel) setRules(rules []models.ActivityTimingRule) (timingPanel, tea.Cmd) {
	items := make([]list.Item, len(rules))
	for i, r := range rules {
		items[i] = activityItem{r}
	}
	p.verdict = nil
	return p, p.list.SetItems(items)
}

func (p timingPanel) run(s session) (timingPanel, error) {
	item, ok := p.list.SelectedItem().(activityItem)
	if !ok {
		return p, fmt.Errorf("the workbook lists no activities")
	}
	date, err := cosmic.ParseDate(p.date.Value())
	if err != nil {
		return p, err
	}
	v := timing.Evaluate(item.rule, date, s.keepMaster)
	p.verdict = &v
	return p, nil
}

func (p timingPanel) update(msg tea.Msg) (timingPanel, tea.Cmd) {
	var cmd tea.Cmd
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "up", "down", "pgup", "pgdown":
			p.list, cmd = p.list.Update(msg)
			return p, cmd
		}
	}
	p.date, cmd = p.date.Update(msg)
	return p, cmd
}

func (p timingPanel) view(s session) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Planned date") + "  " + p.date.View() + "\n\n")
	b.WriteString(p.list.View())
	b.WriteString("\n")

	if v := p.verdict; v != nil {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(v.Activity) + "\n")
		fmt.Fprintf(&b, "  %s, universal day %d\n", v.Weekday, v.UniversalDay)
		fmt.Fprintf(&b, "  astrology: %s   numerology: %s\n", v.AstrologyFit, v.NumerologyFit)
		b.WriteString("  " + titleStyle.UnsetMarginBottom().Render(v.Verdict) + "\n")
		if v.Notes != "" {
			b.WriteString(s.render.markdown(s.render.notes(v.Notes)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// House Zones

const (
	zoneItem = iota
	zoneName
	zoneShape
)

type zonePanel struct {
	form  form
	check *models.ZoneCheck
}

func newZonePanel() zonePanel {
	return zonePanel{form: newForm(
		[]string{"Item", "Zone", "Shape"},
		[]string{"e.g. Candle", "e.g. North", "optional"},
	)}
}

func (p zonePanel) run(s session) (zonePanel, error) {
	item, zone := p.form.value(zoneItem), p.form.value(zoneName)
	if item == "" || zone == "" {
		return p, fmt.Errorf("enter an item and a zone")
	}
	c := zones.Check(s.tables, item, zone, p.form.value(zoneShape))
	p.check = &c
	return p, nil
}

func (p zonePanel) update(msg tea.Msg) (zonePanel, tea.Cmd) {
	var cmd tea.Cmd
	p.form, cmd = p.form.update(msg)
	return p, cmd
}

func (p zonePanel) view(s session) string {
	var b strings.Builder
	b.WriteString(p.form.view())
	if known := s.tables.Zones(); len(known) > 0 {
		b.WriteString(helpStyle.Render("zones: "+strings.Join(known, ", ")) + "\n")
	}

	c := p.check
	if c == nil {
		return b.String()
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s (%s) in %s (%s)\n", c.Item, orUnknown(c.ItemElement), c.Zone, orUnknown(c.ZonePrimary))
	b.WriteString(labelStyle.Render("Verdict") + "  " + c.Verdict + "\n")
	b.WriteString(labelStyle.Render("Remedy ") + "  " + c.Remedy + "\n")
	if c.Shape != "" {
		fmt.Fprintf(&b, "%s  %s (%s): %s\n", labelStyle.Render("Shape  "), c.Shape, orUnknown(c.ShapeElement), c.ShapeVerdict)
	}
	if len(c.RecommendedShapes) > 0 {
		b.WriteString(helpStyle.Render("recommended shapes: "+strings.Join(c.RecommendedShapes, ", ")) + "\n")
	}
	if s.ctx.Sign.Valid() && s.ctx.BestZones != "" {
		b.WriteString(helpStyle.Render(fmt.Sprintf("best zones for %s (%s): %s", s.ctx.Sign, s.ctx.Element, s.ctx.BestZones)) + "\n")
	}
	return b.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// Items Browser

type itemsPanel struct {
	table    table.Model
	elements []string
	cats     []string
	element  int
	category int
}

func newItemsPanel() itemsPanel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Item", Width: 28},
			{Title: "Element", Width: 12},
			{Title: "Category", Width: 16},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	return itemsPanel{table: t}
}

func (p itemsPanel) filter() workbook.ItemFilter {
	f := workbook.ItemFilter{Element: workbook.AllFilter, Category: workbook.AllFilter}
	if p.element > 0 && p.element <= len(p.elements) {
		f.Element = p.elements[p.element-1]
	}
	if p.category > 0 && p.category <= len(p.cats) {
		f.Category = p.cats[p.category-1]
	}
	return f
}

// refresh reloads the filter choices and rows from tables.
func (p itemsPanel) refresh(tables *workbook.Tables) itemsPanel {
	p.elements = tables.ItemElements()
	p.cats = tables.ItemCategories()
	if p.element > len(p.elements) {
		p.element = 0
	}
	if p.category > len(p.cats) {
		p.category = 0
	}

	var rows []table.Row
	for _, it := range tables.Items(p.filter()) {
		rows = append(rows, table.Row{it.Name, it.Element, it.Category})
	}
	p.table.SetRows(rows)
	p.table.SetCursor(0)
	return p
}

func (p itemsPanel) update(msg tea.Msg, s session) (itemsPanel, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "e":
			p.element = (p.element + 1) % (len(p.elements) + 1)
			return p.refresh(s.tables), nil
		case "c":
			p.category = (p.category + 1) % (len(p.cats) + 1)
			return p.refresh(s.tables), nil
		}
	}
	var cmd tea.Cmd
	p.table, cmd = p.table.Update(msg)
	return p, cmd
}

func (p itemsPanel) view() string {
	f := p.filter()
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s   %s %s\n\n",
		labelStyle.Render("Element:"), f.Element,
		labelStyle.Render("Category:"), f.Category)
	b.WriteString(p.table.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("%d items • e: element • c: category", len(p.table.Rows()))))
	return b.String()
}

// today is the default planned date for the timing panel.
func today() string {
	return time.Now().Format(cosmic.DateLayout)
}
