package main

import (
	"fmt"
	"math"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/vsbuffalo/slper/internal/slim"
)

func newStatsCmd() *cobra.Command {
	var columns []string

	cmd := &cobra.Command{
		Use:   "stats <input-file>",
		Short: "Summarize a population statistics table",
		Long: `Read a SLiM statistics table (a #-prefixed parameter line followed by a
delimited table with a header row) and print, per column, the number of
observed values and their mean and standard deviation.`,
		Example: `  slper stats sim-stats.txt
  slper stats --columns pi,nmuts sim-stats.txt`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, args[0], columns)
		},
	}
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "Summarize only these columns (default: all)")

	return cmd
}

func runStats(cmd *cobra.Command, input string, columns []string) error {
	opts, err := readOptions()
	if err != nil {
		return err
	}
	st, err := slim.ParseStats(input, opts)
	if err != nil {
		return err
	}

	if len(columns) == 0 {
		columns = st.Stats.Columns
	}
	for _, name := range columns {
		if _, ok := st.Stats.ColumnIndex(name); !ok {
			return &usageError{fmt.Errorf("unknown stats column %q", name)}
		}
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "column\tn\tmean\tsd\n")
	for _, name := range columns {
		values, err := st.Stats.Column(name)
		if err != nil {
			fmt.Fprintf(tw, "%s\t%d\t-\t-\n", name, len(st.Stats.Rows))
			continue
		}
		values = observed(values)
		if len(values) == 0 {
			fmt.Fprintf(tw, "%s\t0\t-\t-\n", name)
			continue
		}
		mean, sd := stat.MeanStdDev(values, nil)
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", name, len(values), formatStat(mean), formatStat(sd))
	}
	return tw.Flush()
}

// observed returns values with NaNs removed.
func observed(values []float64) []float64 {
	out := values[:0]
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}
