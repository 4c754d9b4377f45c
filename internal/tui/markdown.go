package tui

import (
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/charmbracelet/glamour"
)

// renderer turns markdown, and HTML notes from the workbook, into terminal text.
type renderer struct {
	term *glamour.TermRenderer
	conv *md.Converter
}

func newRenderer(width int) *renderer {
	if width <= 0 {
		width = 80
	}
	term, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		term = nil
	}
	return &renderer{term: term, conv: md.NewConverter("", true, nil)}
}

// markdown renders src, or returns it unchanged when rendering fails.
func (r *renderer) markdown(src string) string {
	if r == nil || r.term == nil {
		return src
	}
	out, err := r.term.Render(src)
	if err != nil {
		return src
	}
	return strings.Trim(out, "\n")
}

// notes converts HTML-formatted workbook notes to markdown. Plain text
// passes through.
func (r *renderer) notes(s string) string {
	if r == nil || !strings.Contains(s, "<") || !strings.Contains(s, ">") {
		return s
	}
	out, err := r.conv.ConvertString(s)
	if err != nil {
		return s
	}
	return out
}

const helpMarkdown = `# cosmicgen

## Panels

| Key | Action |
|-----|--------|
| tab / shift+tab | Next / previous panel |
| up / down | Move between fields |
| enter | Resolve, audit, check timing or check zone |
| ctrl+o | Load a different workbook |
| f1 | Show or hide this help |
| ctrl+c | Quit |

## Inputs

Enter a birth date (YYYY-MM-DD), a local time (HH:MM) and the UTC offset in
hours. The sign source is *sun*, *moon* or *manual*. With *manual*, the sign
field is used as typed.

Moon signs come from the local ephemeris table when it covers the date, and
from the built-in lunar estimate otherwise. Near a sign boundary the
estimate can be a day off.

## Items

Press **e** to cycle the element filter and **c** to cycle the category filter.
`
