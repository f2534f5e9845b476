package output

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/vsbuffalo/slper/internal/tempcov"
)

// CovWriter writes temporal covariance matrices.
type CovWriter struct {
	w    *bufio.Writer
	long bool
}

// NewCovWriter creates a covariance writer. In long format each line holds
// one (interval, interval) pair from the upper triangle; otherwise the
// full matrix is written with interval labels.
func NewCovWriter(w io.Writer, long bool) *CovWriter {
	return &CovWriter{w: bufio.NewWriter(w), long: long}
}

// Write writes cov, whose rows and columns correspond to intervals.
func (cw *CovWriter) Write(cov mat.Symmetric, intervals []tempcov.Interval) error {
	if n := cov.SymmetricDim(); len(intervals) < n {
		return fmt.Errorf("covariance has %d intervals, %d labels given", n, len(intervals))
	}
	if cw.long {
		return cw.writeLong(cov, intervals)
	}
	return cw.writeWide(cov, intervals)
}

func (cw *CovWriter) writeLong(cov mat.Symmetric, intervals []tempcov.Interval) error {
	if _, err := cw.w.WriteString("start_i\tend_i\tstart_j\tend_j\tcov\n"); err != nil {
		return err
	}
	n := cov.SymmetricDim()
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			values := []string{
				strconv.FormatInt(intervals[i].Start, 10),
				strconv.FormatInt(intervals[i].End, 10),
				strconv.FormatInt(intervals[j].Start, 10),
				strconv.FormatInt(intervals[j].End, 10),
				formatFloat(cov.At(i, j)),
			}
			if _, err := cw.w.WriteString(strings.Join(values, "\t") + "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

func (cw *CovWriter) writeWide(cov mat.Symmetric, intervals []tempcov.Interval) error {
	n := cov.SymmetricDim()
	labels := make([]string, n+1)
	labels[0] = "interval"
	for i, iv := range intervals[:n] {
		labels[i+1] = intervalLabel(iv)
	}
	if _, err := cw.w.WriteString(strings.Join(labels, "\t") + "\n"); err != nil {
		return err
	}

	values := make([]string, n+1)
	for i := 0; i < n; i++ {
		values[0] = labels[i+1]
		for j := 0; j < n; j++ {
			values[j+1] = formatFloat(cov.At(i, j))
		}
		if _, err := cw.w.WriteString(strings.Join(values, "\t") + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered data to the underlying writer.
func (cw *CovWriter) Flush() error {
	return cw.w.Flush()
}

func intervalLabel(iv tempcov.Interval) string {
	return strconv.FormatInt(iv.Start, 10) + "-" + strconv.FormatInt(iv.End, 10)
}
