package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/thomaskoefod/cosmicgen/internal/config"
	"github.com/thomaskoefod/cosmicgen/internal/cosmic"
	"github.com/thomaskoefod/cosmicgen/internal/ephemeris"
	"github.com/thomaskoefod/cosmicgen/internal/logging"
	"github.com/thomaskoefod/cosmicgen/internal/workbook"
	"github.com/thomaskoefod/cosmicgen/pkg/models"
)

type Tab int

const (
	TabInputs Tab = iota
	TabAudit
	TabTiming
	TabZones
	TabItems
)

var tabNames = []string{"Inputs", "Life Audit", "Activity Timing", "House Zones", "Items"}

func (t Tab) String() string {
	return tabNames[t]
}

// ParseTab maps a config value such as "audit" or "items" to a tab.
func ParseTab(s string) Tab {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "audit", "life audit":
		return TabAudit
	case "timing", "activity timing":
		return TabTiming
	case "zones", "zone", "house zones":
		return TabZones
	case "items", "browser":
		return TabItems
	}
	return TabInputs
}

// Deps are the services the TUI drives.
type Deps struct {
	Config   *config.Config
	Store    *workbook.Store
	Loader   *workbook.Loader
	Resolver *ephemeris.Resolver
	Logger   *zap.Logger
}

type Model struct {
	deps      Deps
	tab       Tab
	showHelp  bool
	picking   bool
	picker    filepicker.Model
	ctx       models.Context
	lastInput *cosmic.Inputs
	render    *renderer
	inputs    inputsPanel
	audit     auditPanel
	timing    timingPanel
	zones     zonePanel
	items     itemsPanel
	width     int
	height    int
	err       error
	statusMsg string
}

type contextResolvedMsg struct {
	inputs cosmic.Inputs
	ctx    models.Context
}

type workbookLoadedMsg struct {
	tables *workbook.Tables
	path   string
}

type errorMsg struct {
	err error
}

type statusMsg string

func New(deps Deps) Model {
	if deps.Config == nil {
		deps.Config = config.Default()
	}
	if deps.Store == nil {
		deps.Store = workbook.NewStore(nil, "")
	}
	if deps.Loader == nil {
		deps.Loader = workbook.NewLoader(deps.Logger)
	}
	if deps.Resolver == nil {
		deps.Resolver = ephemeris.NewResolver(nil, deps.Logger)
	}
	deps.Logger = logging.OrNop(deps.Logger)

	m := Model{
		deps:   deps,
		tab:    ParseTab(deps.Config.UI.DefaultTab),
		ctx:    models.Context{Sign: models.NoSign},
		render: newRenderer(80),
		inputs: newInputsPanel(deps.Config.Inputs.TZOffset),
		audit:  newAuditPanel(),
		timing: newTimingPanel(),
		zones:  newZonePanel(),
		items:  newItemsPanel(),
	}
	m.timing, _ = m.timing.setRules(m.rules())
	m.items = m.items.refresh(m.tables())
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.EnterAltScreen
}

func (m Model) tables() *workbook.Tables {
	return m.deps.Store.Tables()
}

func (m Model) rules() []models.ActivityTimingRule {
	t := m.tables()
	var rules []models.ActivityTimingRule
	for _, name := range t.Activities() {
		if r, ok := t.Activity(name); ok {
			rules = append(rules, r)
		}
	}
	return rules
}

func (m Model) session() session {
	return session{
		ctx:        m.ctx,
		tables:     m.tables(),
		keepMaster: m.deps.Config.Numerology.KeepMaster,
		render:     m.render,
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.picking {
		return m.updatePicker(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.render = newRenderer(msg.Width - 4)
		m.timing.list.SetSize(msg.Width, max(msg.Height-16, 5))
		m.items.table.SetHeight(max(msg.Height-10, 5))
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case contextResolvedMsg:
		in := msg.inputs
		m.lastInput = &in
		m.ctx = msg.ctx
		m.err = nil
		if m.ctx.Sign.Valid() {
			m.statusMsg = fmt.Sprintf("Sign: %s (%s)", m.ctx.Sign, in.Source)
		} else {
			m.statusMsg = "No sign resolved"
		}
		return m, nil

	case workbookLoadedMsg:
		m.deps.Store.Replace(msg.tables, msg.path)
		m.deps.Logger.Info("workbook replaced", zap.String("path", msg.path))
		var cmd tea.Cmd
		m.timing, cmd = m.timing.setRules(m.rules())
		m.items = m.items.refresh(m.tables())
		m.audit.results = nil
		m.zones.check = nil
		m.err = nil
		m.statusMsg = "Loaded " + filepath.Base(msg.path)
		if m.lastInput != nil {
			return m, tea.Batch(cmd, m.resolve(*m.lastInput))
		}
		return m, cmd

	case errorMsg:
		m.err = msg.err
		return m, nil

	case statusMsg:
		m.statusMsg = string(msg)
		return m, nil
	}

	return m.updateActive(msg)
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc", "f1", "q":
			m.showHelp = false
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "tab":
		m.tab = (m.tab + 1) % Tab(len(tabNames))
		return m, nil

	case "shift+tab":
		m.tab = (m.tab + Tab(len(tabNames)) - 1) % Tab(len(tabNames))
		return m, nil

	case "f1":
		m.showHelp = true
		return m, nil

	case "ctrl+o":
		return m.openPicker()

	case "enter":
		return m.submit()
	}

	return m.updateActive(msg)
}

// submit runs the action of the active panel.
func (m Model) submit() (tea.Model, tea.Cmd) {
	var err error
	s := m.session()
	switch m.tab {
	case TabInputs:
		in, perr := m.inputs.inputs()
		if perr != nil {
			m.err = perr
			return m, nil
		}
		m.err = nil
		m.statusMsg = "Resolving sign..."
		return m, m.resolve(in)
	case TabAudit:
		m.audit, err = m.audit.run(s)
	case TabTiming:
		m.timing, err = m.timing.run(s)
	case TabZones:
		m.zones, err = m.zones.run(s)
	}
	m.err = err
	return m, nil
}

func (m Model) resolve(in cosmic.Inputs) tea.Cmd {
	tables, resolver := m.tables(), m.deps.Resolver
	return func() tea.Msg {
		return contextResolvedMsg{inputs: in, ctx: cosmic.Resolve(context.Background(), in, tables, resolver)}
	}
}

func (m Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.tab {
	case TabInputs:
		m.inputs, cmd = m.inputs.update(msg)
	case TabAudit:
		m.audit, cmd = m.audit.update(msg)
	case TabTiming:
		m.timing, cmd = m.timing.update(msg)
	case TabZones:
		m.zones, cmd = m.zones.update(msg)
	case TabItems:
		m.items, cmd = m.items.update(msg, m.session())
	}
	return m, cmd
}

func (m Model) openPicker() (tea.Model, tea.Cmd) {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".xlsx"}
	fp.CurrentDirectory = pickerDir(m.deps.Config.Workbook.Path)
	if m.height > 0 {
		fp.Height = max(m.height-8, 5)
	}
	m.picker = fp
	m.picking = true
	return m, m.picker.Init()
}

func pickerDir(workbookPath string) string {
	if dir := filepath.Dir(workbookPath); workbookPath != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

func (m Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc", "q":
			m.picking = false
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if didSelect, path := m.picker.DidSelectFile(msg); didSelect {
		m.picking = false
		return m, tea.Batch(cmd, loadWorkbook(m.deps.Loader, path))
	}
	if didSelect, path := m.picker.DidSelectDisabledFile(msg); didSelect {
		m.err = fmt.Errorf("%s is not an .xlsx workbook", filepath.Base(path))
	}
	return m, cmd
}

func loadWorkbook(loader *workbook.Loader, path string) tea.Cmd {
	return func() tea.Msg {
		tables, err := loader.LoadFile(path)
		if err != nil {
			return errorMsg{fmt.Errorf("loading %s: %w", filepath.Base(path), err)}
		}
		return workbookLoadedMsg{tables: tables, path: path}
	}
}

func (m Model) View() string {
	if m.showHelp {
		return m.renderHelp()
	}
	if m.picking {
		return titleStyle.Render("Choose a workbook") + "\n" +
			m.picker.View() + "\n" +
			helpStyle.Render("enter: select • esc: cancel")
	}

	var s strings.Builder
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	sess := m.session()
	switch m.tab {
	case TabInputs:
		s.WriteString(m.inputs.view(sess))
	case TabAudit:
		s.WriteString(m.signLine())
		s.WriteString(m.audit.view(sess))
	case TabTiming:
		s.WriteString(m.timing.view(sess))
	case TabZones:
		s.WriteString(m.signLine())
		s.WriteString(m.zones.view(sess))
	case TabItems:
		s.WriteString(m.items.view())
	}
	s.WriteString("\n")

	// Status bar
	if m.err != nil {
		s.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	} else if m.statusMsg != "" {
		s.WriteString(statusStyle.Render(m.statusMsg))
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("tab: panel • ↑/↓: field • enter: run • ctrl+o: workbook • f1: help • ctrl+c: quit"))

	return s.String()
}

func (m Model) renderTabs() string {
	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		if Tab(i) == m.tab {
			tabs[i] = activeTabStyle.Render(name)
		} else {
			tabs[i] = tabStyle.Render(name)
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if src := m.deps.Store.Source(); src != "" {
		row += helpStyle.Render("  " + filepath.Base(src))
	}
	return row
}

func (m Model) signLine() string {
	if !m.ctx.Sign.Valid() {
		return helpStyle.Render("No sign yet: resolve one on the Inputs panel.") + "\n\n"
	}
	return labelStyle.Render(fmt.Sprintf("%s • %s • %s", m.ctx.Sign, orUnknown(m.ctx.Element), orUnknown(m.ctx.Shape))) + "\n\n"
}

func (m Model) renderHelp() string {
	return m.render.markdown(helpMarkdown) + "\n" + helpStyle.Render("Press f1 or esc to close help")
}
