package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/vsbuffalo/slper/internal/slim"
)

// readOptions builds parser options from the merged configuration.
func readOptions() (slim.Options, error) {
	opts := slim.DefaultOptions()
	opts.Delimiter = viper.GetString("delimiter")
	opts.MinPropSamples = viper.GetFloat64("min_prop_samples")
	opts.Logger = logger

	missing, err := parseMissing(viper.GetString("missing"))
	if err != nil {
		return slim.Options{}, &usageError{err}
	}
	opts.MissingValue = slim.Missing(missing)
	return opts, nil
}

func parseMissing(s string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nan", "na":
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid missing value %q: %w", s, err)
	}
	return v, nil
}

// addReadFlags registers the flags shared by commands that read frequencies.
func addReadFlags(cmd *cobra.Command, ragged *bool) {
	cmd.Flags().BoolVar(ragged, "ragged", false, "Input is a ragged gen<delim>id;pos;freq mutation log")
	cmd.Flags().Float64("min-prop-samples", 0, "Dense input: drop loci observed in no more than this proportion of rows")
	cmd.Flags().String("missing", "nan", "Dense input: value substituted for -1 entries")
}

// bindReadFlags binds the shared flags of the running command. Binding at run
// time keeps commands from overwriting each other's bindings.
func bindReadFlags(cmd *cobra.Command) {
	viper.BindPFlag("min_prop_samples", cmd.Flags().Lookup("min-prop-samples")) //nolint:errcheck
	viper.BindPFlag("missing", cmd.Flags().Lookup("missing"))                   //nolint:errcheck
}

// loadFreqs parses path as ragged or dense frequency output.
func loadFreqs(cmd *cobra.Command, path string, ragged bool) (*slim.SlimFreqs, error) {
	bindReadFlags(cmd)
	opts, err := readOptions()
	if err != nil {
		return nil, err
	}

	var f *slim.SlimFreqs
	if ragged {
		f, err = slim.ParseRaggedFreqs(path, opts)
	} else {
		f, err = slim.ParseFreqs(path, opts)
	}
	if err != nil {
		return nil, err
	}

	rows, cols := f.Freqs.Dims()
	logger.Info("loaded frequencies",
		zap.String("path", path),
		zap.Bool("ragged", ragged),
		zap.Int("generations", rows),
		zap.Int("loci", cols))
	return f, nil
}

// createOutput opens path for writing; "-" means the command's stdout.
func createOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	out, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return out, out.Close, nil
}
