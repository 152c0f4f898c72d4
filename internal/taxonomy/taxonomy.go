// internal/taxonomy/taxonomy.go
// Package taxonomy derives lineage-prefix columns from full taxonomy strings.
package taxonomy

import (
	"strings"

	"github.com/pkg/errors"

	"genetab/internal/schema"
	"genetab/internal/table"
)

// Column is the source lineage column; derived columns are named
// Column + "_" + rank.
const Column = "taxonomy"

// ColumnName returns the derived column name for rank.
func ColumnName(rank string) string { return Column + "_" + rank }

// Truncate adds a derived column holding the comma-joined lineage prefix up
// to and including rank. Rank lookup is case-insensitive against the fixed
// rank vocabulary; an unknown rank is an error the caller may treat as a
// per-rank skip. The call is idempotent: an existing derived column is left
// alone. Null lineages stay null.
func Truncate(t *table.Table, rank string) (string, error) {
	rank = strings.ToLower(rank)
	depth, ok := schema.RankIndex(rank)
	if !ok {
		return "", errors.Errorf("unknown taxonomy level %q", rank)
	}
	name := ColumnName(rank)
	if t.HasColumn(name) {
		return name, nil
	}
	src := t.Index(Column)
	if src < 0 {
		return "", errors.Errorf("column %q not present", Column)
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = Prefix(row[src], depth)
	}
	if err := t.AppendColumn(name, values); err != nil {
		return "", err
	}
	return name, nil
}

// Prefix returns the first depth comma-separated elements of lineage,
// re-joined. A null lineage passes through unchanged, as does one with fewer
// elements than depth.
func Prefix(lineage string, depth int) string {
	if table.IsNull(lineage) {
		return lineage
	}
	parts := strings.Split(lineage, ",")
	if len(parts) > depth {
		parts = parts[:depth]
	}
	return strings.Join(parts, ",")
}
