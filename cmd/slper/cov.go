package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vsbuffalo/slper/internal/output"
	"github.com/vsbuffalo/slper/internal/tempcov"
)

func newCovCmd() *cobra.Command {
	var (
		ragged     bool
		outputPath string
		wide       bool
	)

	cmd := &cobra.Command{
		Use:   "cov [options] <input-file>",
		Short: "Write temporal covariances of allele frequency change",
		Long: `Compute the covariance between allele frequency changes of every pair of
generation intervals, taken across loci observed at every generation.`,
		Example: `  slper cov sim.txt            # writes sim-cov.tsv in long format
  slper cov --wide sim.txt     # full matrix
  slper cov --ragged muts.txt`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCov(cmd, args[0], ragged, outputPath, wide)
		},
	}

	addReadFlags(cmd, &ragged)
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default: <input>-cov.tsv, '-' for stdout)")
	cmd.Flags().BoolVar(&wide, "wide", false, "Write the full covariance matrix instead of long format")

	return cmd
}

func runCov(cmd *cobra.Command, input string, ragged bool, outputPath string, wide bool) error {
	f, err := loadFreqs(cmd, input, ragged)
	if err != nil {
		return err
	}

	logger.Info("calculating covariances...")
	tc := tempcov.New(f)
	cov, err := tc.Covariances()
	if err != nil {
		return err
	}

	if outputPath == "" {
		outputPath = output.OutputFilename(input, "cov", "")
	}
	w, closeFn, err := createOutput(cmd, outputPath)
	if err != nil {
		return err
	}

	logger.Info("writing covariances...",
		zap.String("output", outputPath),
		zap.Int("intervals", cov.SymmetricDim()),
		zap.Int("loci", len(tc.CompleteLoci())))
	cw := output.NewCovWriter(w, !wide)
	err = cw.Write(cov, tc.Intervals())
	if err == nil {
		err = cw.Flush()
	}
	if cerr := closeFn(); err == nil && cerr != nil {
		err = fmt.Errorf("close output: %w", cerr)
	}
	return err
}
