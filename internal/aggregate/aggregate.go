// internal/aggregate/aggregate.go
// Package aggregate runs combination requests against the annotated count
// table: resolve columns, drop uninformative rows, expand one-to-many
// fields, group, sum, write. Requests are independent and fan out
// concurrently over the read-only input.
package aggregate

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"genetab/internal/combine"
	"genetab/internal/expand"
	"genetab/internal/schema"
	"genetab/internal/table"
	"genetab/internal/taxonomy"
)

// Options name the output files: every written table is Prefix_name,Suffix.
type Options struct {
	Prefix string
	Suffix string
	Sep    string // one-to-many separator, DefaultSep when empty
}

// Run executes every request in spec against the annotated table and returns
// the written file paths. Per-item problems (unknown columns, unknown ranks)
// are logged and skipped; anything else aborts the run.
func Run(ctx context.Context, log *zap.Logger, annotated *table.Table, spec combine.Spec, opt Options) ([]string, error) {
	if opt.Suffix == "" {
		opt.Suffix = ".tsv"
	}
	if opt.Sep == "" {
		opt.Sep = expand.DefaultSep
	}

	written := make([][]string, len(spec.Requests))
	g, ctx := errgroup.WithContext(ctx)
	for i, req := range spec.Requests {
		i, req := i, req
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var err error
			switch r := req.(type) {
			case combine.Simple:
				written[i], err = runSimple(log, annotated, r, opt)
			case combine.Taxonomy:
				written[i], err = runTaxonomy(log, annotated, r, opt)
			default:
				err = errors.Errorf("unhandled request type %T", req)
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var all []string
	for _, w := range written {
		all = append(all, w...)
	}
	return all, nil
}

func runSimple(log *zap.Logger, annotated *table.Table, req combine.Simple, opt Options) ([]string, error) {
	cols := resolve(log, req.Name, req.Columns)
	if len(cols) == 0 {
		log.Warn("skipping combination with no usable columns", zap.String("combination", req.Name))
		return nil, nil
	}
	path, err := writeGrouped(log, annotated, cols, req.Name, opt)
	if err != nil {
		return nil, err
	}
	return []string{path}, nil
}

func runTaxonomy(log *zap.Logger, annotated *table.Table, req combine.Taxonomy, opt Options) ([]string, error) {
	// Private copy: derived rank columns must not leak into sibling requests.
	local := deepCopy(annotated)

	var written []string
	for _, level := range req.Levels {
		level = strings.ToLower(level)
		taxCol, err := taxonomy.Truncate(&local, level)
		if err != nil {
			log.Warn("skipping taxonomy level", zap.String("level", level), zap.Error(err))
			continue
		}

		path, err := writeGrouped(log, &local, []string{taxCol}, req.Name+"_"+level, opt)
		if err != nil {
			return nil, err
		}
		written = append(written, path)

		for _, sub := range req.Subs {
			cols := resolve(log, sub.Name, sub.Columns)
			path, err := writeGrouped(log, &local, append(cols, taxCol), sub.Name+"_"+taxCol, opt)
			if err != nil {
				return nil, err
			}
			written = append(written, path)
		}
	}
	return written, nil
}

// resolve intersects requested columns with the annotation schema, keeping
// first-seen order, warning about names it drops.
func resolve(log *zap.Logger, name string, requested []string) []string {
	known, unknown := schema.ResolveColumns(requested)
	for _, c := range unknown {
		log.Warn("dropping unknown column", zap.String("combination", name), zap.String("column", c))
	}
	return known
}

// writeGrouped selects groupCols plus count, applies the drop rule and
// one-to-many expansion, sums counts per group, and writes the result to
// Prefix_name,Suffix (header-only when no group survives).
func writeGrouped(log *zap.Logger, t *table.Table, groupCols []string, name string, opt Options) (string, error) {
	grouped, err := Grouped(t, groupCols, opt.Sep)
	if err != nil {
		return "", errors.Wrapf(err, "combination %q", name)
	}
	path := opt.Prefix + "_" + name + opt.Suffix
	log.Info("writing table",
		zap.String("combination", name),
		zap.String("path", path),
		zap.Int("groups", len(grouped.Rows)))
	if err := table.WriteFile(path, &grouped); err != nil {
		return "", errors.Wrapf(err, "combination %q", name)
	}
	return path, nil
}

// Grouped produces the aggregated table for one combination: groupCols plus
// a summed count column.
func Grouped(t *table.Table, groupCols []string, sep string) (table.Table, error) {
	selected := append(append([]string(nil), groupCols...), schema.CountColumn)
	sub, err := t.Select(selected)
	if err != nil {
		return table.Table{}, err
	}
	dropSparse(&sub)
	sub = expand.Expand(sub, splitGroupsFor(groupCols), sep)
	return groupSum(sub), nil
}

// dropSparse applies the informativeness rule: a row needs at least two
// non-null cells among the selected-plus-count columns, i.e. a count alone is
// not worth aggregating.
func dropSparse(t *table.Table) {
	kept := t.Rows[:0]
	for _, row := range t.Rows {
		if table.NonNullCount(row) >= 2 {
			kept = append(kept, row)
		}
	}
	t.Rows = kept
}

// splitGroupsFor maps the declarative split classification onto the grouped
// columns. Key columns in the grouping disable expansion: with contig or orf
// present the rows are per-gene, not per-annotation-value.
func splitGroupsFor(groupCols []string) []expand.Group {
	for _, c := range groupCols {
		if c == schema.KeyColumns[0] || c == schema.KeyColumns[1] {
			return nil
		}
	}
	byID := map[string]int{}
	var groups []expand.Group
	for _, c := range groupCols {
		id, ok := schema.SplitGroups[c]
		if !ok {
			continue
		}
		if i, seen := byID[id]; seen {
			groups[i].Columns = append(groups[i].Columns, c)
			continue
		}
		byID[id] = len(groups)
		groups = append(groups, expand.Group{Columns: []string{c}})
	}
	return groups
}

// groupSum groups by every column except the trailing count and sums counts,
// emitting groups in sorted key order. The input layout is fixed: count last.
func groupSum(t table.Table) table.Table {
	nKey := len(t.Columns) - 1
	sums := make(map[string]int64)
	keyRows := make(map[string][]string)
	for _, row := range t.Rows {
		k := strings.Join(row[:nKey], "\x1f")
		if _, seen := sums[k]; !seen {
			keyRows[k] = row[:nKey]
		}
		sums[k] += parseCount(row[nKey])
	}

	keys := make([]string, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := table.Table{Columns: append([]string(nil), t.Columns...)}
	for _, k := range keys {
		row := append(append([]string(nil), keyRows[k]...), strconv.FormatInt(sums[k], 10))
		out.Rows = append(out.Rows, row)
	}
	return out
}

// parseCount reads a count cell; null or malformed cells contribute nothing.
func parseCount(cell string) int64 {
	if table.IsNull(cell) {
		return 0
	}
	n, err := strconv.ParseInt(strings.TrimSpace(cell), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func deepCopy(t *table.Table) table.Table {
	out := table.Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}
