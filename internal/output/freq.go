package output

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/vsbuffalo/slper/internal/slim"
)

// MissingText is written for missing (NaN) frequencies.
const MissingText = "NA"

// FreqWriter writes a frequency matrix in tab-delimited format, one row per
// generation and one column per locus position.
type FreqWriter struct {
	w *bufio.Writer
}

// NewFreqWriter creates a new tab-delimited frequency writer.
func NewFreqWriter(w io.Writer) *FreqWriter {
	return &FreqWriter{w: bufio.NewWriter(w)}
}

// WriteHeader writes the header line.
func (fw *FreqWriter) WriteHeader(f *slim.SlimFreqs) error {
	cols := make([]string, 0, len(f.Positions)+1)
	cols = append(cols, "generation")
	for _, p := range f.Positions {
		cols = append(cols, strconv.FormatInt(p, 10))
	}
	_, err := fw.w.WriteString(strings.Join(cols, "\t") + "\n")
	return err
}

// Write writes every matrix row labelled by its generation.
func (fw *FreqWriter) Write(f *slim.SlimFreqs) error {
	labels := f.RowLabels()
	rows, cols := f.Freqs.Dims()
	values := make([]string, cols+1)
	for i := 0; i < rows; i++ {
		values[0] = strconv.FormatInt(labels[i], 10)
		for j := 0; j < cols; j++ {
			values[j+1] = formatFloat(f.Freqs.At(i, j))
		}
		if _, err := fw.w.WriteString(strings.Join(values, "\t") + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered data to the underlying writer.
func (fw *FreqWriter) Flush() error {
	return fw.w.Flush()
}

// WriteFreqs writes header and rows of f to w.
func WriteFreqs(w io.Writer, f *slim.SlimFreqs) error {
	fw := NewFreqWriter(w)
	if err := fw.WriteHeader(f); err != nil {
		return err
	}
	if err := fw.Write(f); err != nil {
		return err
	}
	return fw.Flush()
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return MissingText
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
