// internal/expand/expand.go
// Package expand turns delimiter-separated list cells into one row per list
// element. Columns in one group split as paired lists sharing an element
// index; separate groups expand one after another, so independently split
// columns multiply against each other per original row.
package expand

import (
	"strings"

	"genetab/internal/table"
)

// DefaultSep is the list separator used by the annotation parsers.
const DefaultSep = "|"

// Group names columns whose cells must split together, aligned by index.
// A single-column Group expands independently.
type Group struct {
	Columns []string
}

// Expand applies every group in order to t. Zero rows or zero groups is a
// pass-through. Elements are stripped of surrounding whitespace; a cell
// without the separator yields its row unchanged for that group; when paired
// columns disagree on element count the shorter list pads with nulls.
func Expand(t table.Table, groups []Group, sep string) table.Table {
	if sep == "" {
		sep = DefaultSep
	}
	out := t
	for _, g := range groups {
		out = expandGroup(out, g, sep)
	}
	return out
}

func expandGroup(t table.Table, g Group, sep string) table.Table {
	var idx []int
	for _, name := range g.Columns {
		if i := t.Index(name); i >= 0 {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 || len(t.Rows) == 0 {
		return t
	}

	out := table.Table{Columns: t.Columns}
	for _, row := range t.Rows {
		parts := make([][]string, len(idx))
		width := 1
		for j, i := range idx {
			parts[j] = splitCell(row[i], sep)
			if len(parts[j]) > width {
				width = len(parts[j])
			}
		}
		for e := 0; e < width; e++ {
			dup := append([]string(nil), row...)
			for j, i := range idx {
				if e < len(parts[j]) {
					dup[i] = parts[j][e]
				} else {
					dup[i] = ""
				}
			}
			out.Rows = append(out.Rows, dup)
		}
	}
	return out
}

func splitCell(cell, sep string) []string {
	if table.IsNull(cell) {
		return []string{""}
	}
	elems := strings.Split(cell, sep)
	for i := range elems {
		elems[i] = strings.TrimSpace(elems[i])
	}
	return elems
}
