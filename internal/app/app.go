// internal/app/app.go
// Package app wires the two pipeline entry points: merging annotation tables
// and aggregating counts per combination. Schema problems and an unparseable
// combination spec are fatal here; per-item skips are handled (and logged)
// further down in the aggregator.
package app

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"genetab/internal/aggregate"
	"genetab/internal/cliutil"
	"genetab/internal/combine"
	"genetab/internal/merge"
	"genetab/internal/schema"
	"genetab/internal/table"
)

// MergeOptions configure merge-tables.
type MergeOptions struct {
	Inputs []string // annotation tables, glob patterns allowed
	Output string   // "-" for stdout
}

// MergeTables outer-joins the input annotation tables on (contig, orf) and
// writes one unified table with explicit NA nulls. Any input missing the key
// columns aborts; a partial merge is never written.
func MergeTables(log *zap.Logger, opt MergeOptions) error {
	paths, err := cliutil.ExpandPaths(opt.Inputs)
	if err != nil {
		return err
	}

	tables := make([]table.Table, 0, len(paths))
	for _, p := range paths {
		t, err := table.ReadFile(p, table.ReadOptions{Sep: '\t'})
		if err != nil {
			return err
		}
		if err := table.RequireColumns(&t, schema.KeyColumns[:], p); err != nil {
			return err
		}
		log.Info("lines read", zap.Int("lines", len(t.Rows)), zap.String("file", p))
		tables = append(tables, t)
	}

	merged, err := merge.Merge(tables, schema.KeyColumns)
	if err != nil {
		return err
	}
	log.Info("total lines after merging all tables", zap.Int("lines", len(merged.Rows)))
	return errors.Wrap(table.WriteFile(opt.Output, &merged), "writing merged table")
}

// CountOptions configure count-tables.
type CountOptions struct {
	Merged       string
	Counts       string
	Combinations string // inline JSON/YAML or @file
	Prefix       string
	Suffix       string
}

// CountTables left-joins the count table onto the merged annotations and
// runs every requested combination, writing one output table per request.
func CountTables(ctx context.Context, log *zap.Logger, opt CountOptions) error {
	spec, err := combine.Load(opt.Combinations)
	if err != nil {
		return err
	}

	counts, err := loadCounts(log, opt.Counts)
	if err != nil {
		return err
	}

	merged, err := table.ReadFile(opt.Merged, table.ReadOptions{Sep: '\t'})
	if err != nil {
		return err
	}
	if err := table.RequireColumns(&merged, schema.MergedHeader, opt.Merged); err != nil {
		return err
	}
	log.Info("lines read", zap.Int("lines", len(merged.Rows)), zap.String("file", opt.Merged))

	annotated, err := merge.LeftJoin(counts, merged, schema.CountsHeader[0], schema.KeyColumns[1])
	if err != nil {
		return err
	}

	_, err = aggregate.Run(ctx, log, &annotated, spec, aggregate.Options{
		Prefix: opt.Prefix,
		Suffix: opt.Suffix,
	})
	return err
}

// loadCounts reads a count table (tab or comma delimited, '#' comments) and
// renames its single trailing measurement column to the canonical count name.
func loadCounts(log *zap.Logger, path string) (table.Table, error) {
	counts, err := table.ReadFile(path, table.ReadOptions{Comment: '#'})
	if err != nil {
		return table.Table{}, err
	}
	if err := table.RequireColumns(&counts, schema.CountsHeader, path); err != nil {
		return table.Table{}, err
	}
	if len(counts.Columns) != len(schema.CountsHeader)+1 {
		return table.Table{}, errors.Errorf("%s must have exactly one measurement column after %v, got %d columns",
			path, schema.CountsHeader, len(counts.Columns))
	}
	counts.RenameColumn(len(counts.Columns)-1, schema.CountColumn)
	log.Info("lines read", zap.Int("lines", len(counts.Rows)), zap.String("file", path))
	return counts, nil
}
