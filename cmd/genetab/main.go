// cmd/genetab/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"genetab/internal/app"
	"genetab/internal/version"
)

var (
	verbose bool
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:     "genetab",
	Short:   "Integrate gene annotation and read-count tables into grouped summaries",
	Version: version.Version,
	Long: `genetab merges per-tool gene annotation tables into one unified table and
aggregates per-gene read counts into summary tables grouped by arbitrary
combinations of annotation fields (KO terms, enzyme classes, taxonomy, ...).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func addCommands(root *cobra.Command) {
	var mergeOut string
	mergeCmd := &cobra.Command{
		Use:   "merge-tables TABLE...",
		Short: "Outer-join annotation tables on (contig, orf) into one table",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.MergeTables(logger, app.MergeOptions{Inputs: args, Output: mergeOut})
		},
	}
	mergeCmd.Flags().StringVarP(&mergeOut, "output", "o", "-", "merged table output path ('-' for stdout)")
	root.AddCommand(mergeCmd)

	var countOpt app.CountOptions
	countCmd := &cobra.Command{
		Use:   "count-tables",
		Short: "Aggregate read counts per requested annotation combination",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.CountTables(cmd.Context(), logger, countOpt)
		},
	}
	countCmd.Flags().StringVar(&countOpt.Merged, "merged", "", "merged annotation table (from merge-tables)")
	countCmd.Flags().StringVar(&countOpt.Counts, "counts", "", "featureCounts-style count table")
	countCmd.Flags().StringVar(&countOpt.Combinations, "combinations", "", "combination spec: inline JSON/YAML or @file")
	countCmd.Flags().StringVar(&countOpt.Prefix, "prefix", "", "output file prefix")
	countCmd.Flags().StringVar(&countOpt.Suffix, "suffix", ".tsv", "output file suffix")
	for _, f := range []string{"merged", "counts", "combinations", "prefix"} {
		_ = countCmd.MarkFlagRequired(f)
	}
	root.AddCommand(countCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	addCommands(rootCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
