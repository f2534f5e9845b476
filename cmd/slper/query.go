package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vsbuffalo/slper/internal/duckdb"
)

func newQueryCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query results exported with 'slper export'",
		Example: `  slper query --db results.duckdb trajectory muts.txt 42
  slper query --db results.duckdb param sim.txt N_e`,
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "DuckDB file written by export")

	cmd.AddCommand(&cobra.Command{
		Use:   "trajectory <source> <locus-id>",
		Short: "Print the frequency of a locus at each exported generation",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return &usageError{fmt.Errorf("invalid locus id %q", args[1])}
			}
			return withStore(dbPath, func(s *duckdb.Store) error {
				points, err := s.LocusTrajectory(args[0], id)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "generation\tfreq")
				for _, p := range points {
					fmt.Fprintf(out, "%d\t%s\n", p.Generation, strconv.FormatFloat(p.Freq, 'g', -1, 64))
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "param <source> <key>",
		Short: "Print one exported header parameter",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(dbPath, func(s *duckdb.Store) error {
				v, err := s.Param(args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			})
		},
	})

	return cmd
}

// withStore opens an existing export database for fn.
func withStore(dbPath string, fn func(*duckdb.Store) error) error {
	if dbPath == "" {
		return &usageError{fmt.Errorf("--db is required")}
	}
	s, err := duckdb.Open(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}
