// internal/table/table.go
// Package table is the in-memory model shared by every pipeline stage: an
// ordered header plus string-cell rows. A missing value is the empty string
// in memory and is rendered as the explicit Null marker on output.
package table

import (
	"strings"

	"github.com/pkg/errors"
)

// Null is the explicit marker for missing values in written output. Readers
// normalize it back to the empty string.
const Null = "NA"

// Table is a delimited table held fully in memory. Every row has exactly
// len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// IsNull reports whether a cell holds no value.
func IsNull(cell string) bool { return cell == "" }

// Index returns the position of column name, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the table defines column name.
func (t *Table) HasColumn(name string) bool { return t.Index(name) >= 0 }

// Select returns a new table restricted to the named columns, in the given
// order. Rows are copied so the receiver stays untouched.
func (t *Table) Select(names []string) (Table, error) {
	idx := make([]int, len(names))
	for i, n := range names {
		j := t.Index(n)
		if j < 0 {
			return Table{}, errors.Errorf("column %q not present", n)
		}
		idx[i] = j
	}
	out := Table{Columns: append([]string(nil), names...)}
	out.Rows = make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		sel := make([]string, len(idx))
		for i, j := range idx {
			sel[i] = row[j]
		}
		out.Rows[r] = sel
	}
	return out, nil
}

// AppendColumn adds a column with one value per row.
func (t *Table) AppendColumn(name string, values []string) error {
	if len(values) != len(t.Rows) {
		return errors.Errorf("column %q has %d values for %d rows", name, len(values), len(t.Rows))
	}
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], values[i])
	}
	return nil
}

// RenameColumn renames the column at position i.
func (t *Table) RenameColumn(i int, name string) {
	t.Columns[i] = name
}

// NonNullCount returns how many cells of row carry a value.
func NonNullCount(row []string) int {
	n := 0
	for _, c := range row {
		if !IsNull(c) {
			n++
		}
	}
	return n
}

// RequireColumns verifies every name in required is present, returning an
// error that lists exactly the missing ones. The source name is included so
// the diagnostic points at the offending file.
func RequireColumns(t *Table, required []string, source string) error {
	var missing []string
	for _, c := range required {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return errors.Errorf("%s missing required columns: %s", source, strings.Join(missing, ", "))
	}
	return nil
}
