package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// field is one labelled text input.
type field struct {
	label string
	input textinput.Model
}

// form is a vertical stack of fields with a single focused input.
type form struct {
	fields []field
	focus  int
}

func newForm(labels []string, placeholders []string) form {
	f := form{}
	for i, label := range labels {
		ti := textinput.New()
		ti.CharLimit = 200
		ti.Width = 48
		if i < len(placeholders) {
			ti.Placeholder = placeholders[i]
		}
		f.fields = append(f.fields, field{label: label, input: ti})
	}
	if len(f.fields) > 0 {
		f.fields[0].input.Focus()
	}
	return f
}

func (f form) value(i int) string {
	return strings.TrimSpace(f.fields[i].input.Value())
}

func (f *form) setValue(i int, v string) {
	f.fields[i].input.SetValue(v)
}

func (f *form) move(delta int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	f.fields[f.focus].input.Blur()
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	return f.fields[f.focus].input.Focus()
}

func (f form) update(msg tea.Msg) (form, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "down":
			cmd := f.move(1)
			return f, cmd
		case "up":
			cmd := f.move(-1)
			return f, cmd
		}
	}
	if len(f.fields) == 0 {
		return f, nil
	}
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return f, cmd
}

func (f form) view() string {
	width := 0
	for _, fl := range f.fields {
		if len(fl.label) > width {
			width = len(fl.label)
		}
	}

	var s strings.Builder
	for _, fl := range f.fields {
		s.WriteString(labelStyle.Render(fl.label + strings.Repeat(" ", width-len(fl.label))))
		s.WriteString("  ")
		s.WriteString(fl.input.View())
		s.WriteString("\n")
	}
	return s.String()
}
