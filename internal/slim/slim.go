// Package slim reads SLiM simulation output: ragged per-generation mutation
// logs, dense preallocated frequency matrices, and population statistics
// tables.
package slim

import (
	"math"

	"go.uber.org/zap"

	"github.com/vsbuffalo/slper/internal/params"
)

// Chrom is the name of the single implicit chromosome. SLiM output carries
// no contig names.
const Chrom = ""

// SlimFreqs holds a generation×locus frequency matrix and its indices.
type SlimFreqs struct {
	Params    params.Params
	Positions []int64 // genomic position per column
	IDs       []int64 // source mutation (or locus) id per column
	Samples   []int64 // generation number of each data row, as read
	Freqs     *Matrix

	// Timepoints maps generations to matrix rows. It is nil for dense
	// input, whose rows are already aligned with Samples.
	Timepoints *Timepoints
}

// Loci returns the locus index: column positions keyed by chromosome.
func (f *SlimFreqs) Loci() map[string][]int64 {
	return map[string][]int64{Chrom: append([]int64(nil), f.Positions...)}
}

// RowLabels returns the generation labelling each matrix row.
func (f *SlimFreqs) RowLabels() []int64 {
	if f.Timepoints != nil {
		return f.Timepoints.Generations()
	}
	return append([]int64(nil), f.Samples...)
}

// SlimStats holds a parameter set and a population statistics table.
type SlimStats struct {
	Params params.Params
	Stats  *Table
}

// Options configures the readers.
type Options struct {
	// Delimiter separates fields within a line.
	Delimiter string
	// MinPropSamples is the proportion of rows a dense-format locus must be
	// observed in (strictly more than floor(MinPropSamples*rows)) to be kept.
	MinPropSamples float64
	// MissingValue replaces negative sentinel entries in dense input.
	// Nil means NaN.
	MissingValue *float64
	Logger       *zap.Logger
}

// DefaultOptions returns tab-delimited options with NaN for missing data.
func DefaultOptions() Options {
	return Options{
		Delimiter: "\t",
		Logger:    zap.NewNop(),
	}
}

func (o Options) withDefaults() Options {
	if o.Delimiter == "" {
		o.Delimiter = "\t"
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Missing returns a MissingValue option holding v.
func Missing(v float64) *float64 { return &v }

func (o Options) missingValue() float64 {
	if o.MissingValue == nil {
		return math.NaN()
	}
	return *o.MissingValue
}
