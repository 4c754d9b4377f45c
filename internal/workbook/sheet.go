package workbook

import (
	"strings"
)

// sheet is a header-addressed view of one worksheet. Cell lookups for a
// column the sheet does not have return "".
type sheet struct {
	name    string
	headers []string
	index   map[string]int
	rows    [][]string
}

func newSheet(name string, raw [][]string) *sheet {
	s := &sheet{name: name, index: map[string]int{}}
	if len(raw) == 0 {
		return s
	}
	for i, h := range raw[0] {
		h = strings.TrimSpace(h)
		s.headers = append(s.headers, h)
		if _, dup := s.index[h]; h != "" && !dup {
			s.index[h] = i
		}
	}
	for _, row := range raw[1:] {
		if blankRow(row) {
			continue
		}
		s.rows = append(s.rows, row)
	}
	return s
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func (s *sheet) has(column string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[column]
	return ok
}

// cell returns the trimmed value of column in row.
func (s *sheet) cell(row []string, column string) string {
	i, ok := s.index[column]
	if !ok {
		return ""
	}
	return cellAt(row, i)
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// each calls fn for every data row; a nil sheet has no rows.
func (s *sheet) each(fn func(row []string)) {
	if s == nil {
		return
	}
	for _, row := range s.rows {
		fn(row)
	}
}

// splitList splits a comma separated workbook cell into trimmed, non-empty terms.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
