package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vsbuffalo/slper/internal/duckdb"
	"github.com/vsbuffalo/slper/internal/slim"
)

func newExportCmd() *cobra.Command {
	var (
		ragged bool
		dbPath string
		stats  bool
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "export [options] <input-file>",
		Short: "Export parsed results to a DuckDB database",
		Long: `Export parameters and frequencies (or a statistics table with --stats) to
DuckDB tables for ad hoc SQL queries. Re-exporting a file replaces its rows;
a file whose size and modification time match the last export is skipped
unless --force is given.

Tables:
  sources      input path, size and modification time
  params       one row per header parameter
  frequencies  generation, locus_id, position, freq (zero and missing cells omitted)
  stats        row_index, column_name, value`,
		Example: `  slper export --db results.duckdb sim.txt
  slper export --db results.duckdb --ragged muts.txt
  slper export --db results.duckdb --stats sim-stats.txt`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args[0], dbPath, ragged, stats, force)
		},
	}

	addReadFlags(cmd, &ragged)
	cmd.Flags().StringVar(&dbPath, "db", "", "Output DuckDB file path")
	cmd.Flags().BoolVar(&stats, "stats", false, "Input is a statistics table")
	cmd.Flags().BoolVar(&force, "force", false, "Export even if the input is unchanged since the last export")

	return cmd
}

func runExport(cmd *cobra.Command, input, dbPath string, ragged, stats, force bool) error {
	if dbPath == "" {
		return &usageError{fmt.Errorf("--db is required")}
	}

	fp, err := duckdb.StatFile(input)
	if err != nil {
		return fmt.Errorf("stat input: %w", err)
	}

	store, err := duckdb.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if !force {
		same, err := store.Unchanged(fp)
		if err != nil {
			return err
		}
		if same {
			logger.Info("input unchanged since last export, skipping",
				zap.String("input", input), zap.String("db", dbPath))
			return nil
		}
	}

	// Parse before touching the store so a bad input keeps earlier rows.
	var write func() error
	if stats {
		opts, err := readOptions()
		if err != nil {
			return err
		}
		st, err := slim.ParseStats(input, opts)
		if err != nil {
			return err
		}
		write = func() error {
			if err := store.WriteStats(input, st); err != nil {
				return err
			}
			logger.Info("exported stats", zap.String("db", dbPath), zap.Int("rows", len(st.Stats.Rows)))
			return nil
		}
	} else {
		f, err := loadFreqs(cmd, input, ragged)
		if err != nil {
			return err
		}
		write = func() error {
			if err := store.WriteParams(input, f.Params); err != nil {
				return err
			}
			if err := store.WriteFreqs(input, f); err != nil {
				return err
			}
			n, err := store.FrequencyCount(input)
			if err != nil {
				return err
			}
			logger.Info("exported frequencies", zap.String("db", dbPath), zap.Int64("cells", n))
			return nil
		}
	}

	if err := store.Clear(input); err != nil {
		return err
	}
	if err := write(); err != nil {
		return err
	}
	return store.WriteSource(fp)
}
