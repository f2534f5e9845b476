package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vsbuffalo/slper/internal/output"
)

func newFreqCmd() *cobra.Command {
	var (
		ragged     bool
		outputPath string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "freq [options] <input-file>",
		Short: "Write the generation×locus frequency table",
		Example: `  slper freq sim.txt                    # writes sim-freq.tsv
  slper freq --ragged muts.txt.gz -o -  # ragged input to stdout
  slper freq --format arrow sim.txt     # writes sim-freq.arrow`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFreq(cmd, args[0], ragged, outputPath, format)
		},
	}

	addReadFlags(cmd, &ragged)
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default: <input>-freq.tsv, '-' for stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "tsv", "Output format: tsv, arrow")

	return cmd
}

func runFreq(cmd *cobra.Command, input string, ragged bool, outputPath, format string) error {
	var ext string
	switch format {
	case "tsv":
		ext = output.DefaultExt
	case "arrow":
		ext = ".arrow"
	default:
		return &usageError{fmt.Errorf("unknown output format %q", format)}
	}

	f, err := loadFreqs(cmd, input, ragged)
	if err != nil {
		return err
	}

	if outputPath == "" {
		outputPath = output.OutputFilename(input, "freq", ext)
	}
	w, closeFn, err := createOutput(cmd, outputPath)
	if err != nil {
		return err
	}

	logger.Info("writing frequencies", zap.String("output", outputPath), zap.String("format", format))
	if format == "arrow" {
		err = output.WriteArrow(w, f)
	} else {
		err = output.WriteFreqs(w, f)
	}
	if cerr := closeFn(); err == nil && cerr != nil {
		err = fmt.Errorf("close output: %w", cerr)
	}
	return err
}
