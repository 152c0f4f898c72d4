// internal/merge/merge.go
// Package merge joins annotation and count tables. Outer joins key on the
// composite (contig, orf) pair; when both sides contribute a non-key column
// with the same name the columns are kept and disambiguated with _x/_y
// suffixes rather than silently overwritten.
package merge

import (
	"sort"

	"github.com/pkg/errors"

	"genetab/internal/table"
)

type compositeKey struct {
	a, b string
}

// Merge outer-joins tables in order on the two key columns. Every key present
// in any input appears exactly once in the result; cells for columns the
// key's source table does not define are null. The key columns lead the
// output header and keys are emitted in sorted order. A single input table
// passes through unchanged apart from column reordering.
func Merge(tables []table.Table, key [2]string) (table.Table, error) {
	if len(tables) == 0 {
		return table.Table{}, errors.New("no tables to merge")
	}
	acc, err := split(tables[0], key)
	if err != nil {
		return table.Table{}, err
	}
	for _, t := range tables[1:] {
		next, err := split(t, key)
		if err != nil {
			return table.Table{}, err
		}
		acc = outerJoin(acc, next)
	}
	return acc.assemble(key), nil
}

// keyed is a table decomposed into key order + per-key non-key cells.
type keyed struct {
	columns []string
	order   []compositeKey
	rows    map[compositeKey][]string
}

// split separates the key columns out of t. Duplicate keys within one table
// violate the source-table invariant; the last occurrence wins.
func split(t table.Table, key [2]string) (keyed, error) {
	ka, kb := t.Index(key[0]), t.Index(key[1])
	if ka < 0 || kb < 0 {
		return keyed{}, errors.Errorf("key columns (%s, %s) not present", key[0], key[1])
	}
	k := keyed{rows: make(map[compositeKey][]string, len(t.Rows))}
	for i, c := range t.Columns {
		if i == ka || i == kb {
			continue
		}
		k.columns = append(k.columns, c)
	}
	for _, row := range t.Rows {
		ck := compositeKey{row[ka], row[kb]}
		cells := make([]string, 0, len(k.columns))
		for i, c := range row {
			if i == ka || i == kb {
				continue
			}
			cells = append(cells, c)
		}
		if _, dup := k.rows[ck]; !dup {
			k.order = append(k.order, ck)
		}
		k.rows[ck] = cells
	}
	return k, nil
}

func outerJoin(left, right keyed) keyed {
	lcols, rcols := disambiguate(left.columns, right.columns)

	out := keyed{
		columns: append(append([]string(nil), lcols...), rcols...),
		rows:    make(map[compositeKey][]string, len(left.rows)+len(right.rows)),
	}
	for _, ck := range left.order {
		out.order = append(out.order, ck)
	}
	for _, ck := range right.order {
		if _, seen := left.rows[ck]; !seen {
			out.order = append(out.order, ck)
		}
	}
	sort.Slice(out.order, func(i, j int) bool {
		if out.order[i].a != out.order[j].a {
			return out.order[i].a < out.order[j].a
		}
		return out.order[i].b < out.order[j].b
	})

	for _, ck := range out.order {
		cells := make([]string, 0, len(lcols)+len(rcols))
		if l, ok := left.rows[ck]; ok {
			cells = append(cells, l...)
		} else {
			cells = append(cells, nulls(len(lcols))...)
		}
		if r, ok := right.rows[ck]; ok {
			cells = append(cells, r...)
		} else {
			cells = append(cells, nulls(len(rcols))...)
		}
		out.rows[ck] = cells
	}
	return out
}

// disambiguate suffixes colliding non-key column names _x (left) / _y (right).
func disambiguate(left, right []string) ([]string, []string) {
	rset := make(map[string]struct{}, len(right))
	for _, c := range right {
		rset[c] = struct{}{}
	}
	lout := append([]string(nil), left...)
	rout := append([]string(nil), right...)
	for i, c := range lout {
		if _, clash := rset[c]; clash {
			lout[i] = c + "_x"
		}
	}
	lset := make(map[string]struct{}, len(left))
	for _, c := range left {
		lset[c] = struct{}{}
	}
	for i, c := range rout {
		if _, clash := lset[c]; clash {
			rout[i] = c + "_y"
		}
	}
	return lout, rout
}

func (k keyed) assemble(key [2]string) table.Table {
	out := table.Table{Columns: append([]string{key[0], key[1]}, k.columns...)}
	out.Rows = make([][]string, 0, len(k.order))
	for _, ck := range k.order {
		row := make([]string, 0, len(out.Columns))
		row = append(row, ck.a, ck.b)
		row = append(row, k.rows[ck]...)
		out.Rows = append(out.Rows, row)
	}
	return out
}

func nulls(n int) []string { return make([]string, n) }

// LeftJoin joins right onto left matching left[leftOn] == right[rightOn],
// keeping every left row. Rows without a match carry nulls for the right
// columns; a left row matching several right rows is repeated per match.
// Colliding column names are suffixed the same way Merge does.
func LeftJoin(left, right table.Table, leftOn, rightOn string) (table.Table, error) {
	li := left.Index(leftOn)
	if li < 0 {
		return table.Table{}, errors.Errorf("left join column %q not present", leftOn)
	}
	ri := right.Index(rightOn)
	if ri < 0 {
		return table.Table{}, errors.Errorf("right join column %q not present", rightOn)
	}

	lcols, rcols := disambiguate(left.Columns, right.Columns)
	out := table.Table{Columns: append(append([]string(nil), lcols...), rcols...)}

	byKey := make(map[string][][]string, len(right.Rows))
	for _, row := range right.Rows {
		byKey[row[ri]] = append(byKey[row[ri]], row)
	}

	for _, lrow := range left.Rows {
		matches := byKey[lrow[li]]
		if len(matches) == 0 {
			row := append(append([]string(nil), lrow...), nulls(len(rcols))...)
			out.Rows = append(out.Rows, row)
			continue
		}
		for _, rrow := range matches {
			row := append(append([]string(nil), lrow...), rrow...)
			out.Rows = append(out.Rows, row)
		}
	}
	return out, nil
}
