// Package tempcov computes temporal covariances of allele frequency change
// from a generation×locus frequency matrix.
package tempcov

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/vsbuffalo/slper/internal/slim"
)

var (
	// ErrTooFewTimepoints is returned when fewer than three timepoints are
	// available, leaving fewer than two frequency changes.
	ErrTooFewTimepoints = errors.New("tempcov: need at least three timepoints")
	// ErrTooFewLoci is returned when fewer than two loci are complete.
	ErrTooFewLoci = errors.New("tempcov: need at least two loci observed at every timepoint")
)

// Interval is the pair of generations bounding one frequency change.
type Interval struct {
	Start, End int64
}

// Temporal wraps frequency data for covariance calculations.
type Temporal struct {
	freqs  *slim.Matrix
	labels []int64
}

// New returns a Temporal over the rows of f in matrix order.
func New(f *slim.SlimFreqs) *Temporal {
	return &Temporal{freqs: f.Freqs, labels: f.RowLabels()}
}

// Intervals returns the generation interval for each row of Deltas.
func (t *Temporal) Intervals() []Interval {
	if len(t.labels) < 2 {
		return nil
	}
	out := make([]Interval, len(t.labels)-1)
	for i := range out {
		out[i] = Interval{Start: t.labels[i], End: t.labels[i+1]}
	}
	return out
}

// CompleteLoci returns the columns with no missing value in any row.
func (t *Temporal) CompleteLoci() []int {
	rows, cols := t.freqs.Dims()
	var keep []int
	for j := 0; j < cols; j++ {
		ok := true
		for i := 0; i < rows && ok; i++ {
			ok = !math.IsNaN(t.freqs.At(i, j))
		}
		if ok {
			keep = append(keep, j)
		}
	}
	return keep
}

// Deltas returns the (T-1)×L matrix of frequency changes between
// consecutive rows, restricted to complete loci.
func (t *Temporal) Deltas() (*mat.Dense, error) {
	rows, _ := t.freqs.Dims()
	if rows < 3 {
		return nil, ErrTooFewTimepoints
	}
	loci := t.CompleteLoci()
	if len(loci) < 2 {
		return nil, ErrTooFewLoci
	}

	d := mat.NewDense(rows-1, len(loci), nil)
	for i := 0; i < rows-1; i++ {
		for k, j := range loci {
			d.Set(i, k, t.freqs.At(i+1, j)-t.freqs.At(i, j))
		}
	}
	return d, nil
}

// Covariances returns the covariance between frequency changes of every pair
// of intervals, taken across loci.
func (t *Temporal) Covariances() (*mat.SymDense, error) {
	d, err := t.Deltas()
	if err != nil {
		return nil, err
	}
	var cov mat.SymDense
	// Loci are observations, so rows of the transpose.
	stat.CovarianceMatrix(&cov, d.T(), nil)
	return &cov, nil
}
