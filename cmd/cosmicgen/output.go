package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/thomaskoefod/cosmicgen/pkg/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func renderMarkdown(src string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return src
	}
	out, err := r.Render(src)
	if err != nil {
		return src
	}
	return strings.TrimRight(out, "\n")
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func renderAudit(ctx models.Context, results []models.CategoryResult) string {
	t := newTable("Category", "Verdict", "Strong", "Mild", "Matched")
	for _, r := range results {
		verdict := r.Level.String()
		if !r.RulesFound {
			verdict = "no rules"
		}
		t.Row(r.Category, verdict, strconv.Itoa(r.StrongHits), strconv.Itoa(r.MildHits), r.Why)
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render(fmt.Sprintf("Life audit for %s", ctx.Sign)))
	b.WriteString("\n")
	b.WriteString(t.String())
	for _, r := range results {
		if r.Level == models.OK {
			continue
		}
		fmt.Fprintf(&b, "\n\n%s (%s)", labelStyle.Render(r.Category), r.Level)
		for _, rem := range r.Remedies {
			b.WriteString("\n  - " + rem)
		}
		if r.Alternatives != "" {
			b.WriteString("\n" + dimStyle.Render("  try instead: "+r.Alternatives))
		}
	}
	return b.String()
}

func renderTiming(v models.TimingVerdict) string {
	t := newTable("Activity", "Date", "Weekday", "Universal day", "Astrology", "Numerology")
	t.Row(v.Activity, v.Date.Format("2006-01-02"), v.Weekday, strconv.Itoa(v.UniversalDay),
		string(v.AstrologyFit), string(v.NumerologyFit))

	out := t.String() + "\n" + labelStyle.Render(v.Verdict)
	if v.Notes != "" {
		out += "\n" + dimStyle.Render(v.Notes)
	}
	return out
}

func renderZone(c models.ZoneCheck) string {
	t := newTable("Item", "Element", "Zone", "Zone element", "Verdict")
	t.Row(c.Item, unknown(c.ItemElement), c.Zone, unknown(c.ZonePrimary), c.Verdict)

	var b strings.Builder
	b.WriteString(t.String())
	b.WriteString("\n" + labelStyle.Render("Remedy: ") + c.Remedy)
	if c.Shape != "" {
		verdict := c.ShapeVerdict
		if verdict == "" {
			verdict = "no relation"
		}
		fmt.Fprintf(&b, "\n%s%s (%s): %s", labelStyle.Render("Shape: "), c.Shape, unknown(c.ShapeElement), verdict)
	}
	if len(c.RecommendedShapes) > 0 {
		b.WriteString("\n" + dimStyle.Render("Recommended shapes: "+strings.Join(c.RecommendedShapes, ", ")))
	}
	return b.String()
}

func renderItems(items []models.ElementItem) string {
	if len(items) == 0 {
		return dimStyle.Render("no items match")
	}
	t := newTable("Item", "Element", "Category")
	for _, it := range items {
		t.Row(it.Name, it.Element, it.Category)
	}
	return t.String()
}

func unknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
