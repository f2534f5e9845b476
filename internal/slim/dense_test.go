package slim

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFreqs_Example(t *testing.T) {
	f, err := ParseFreqs(findTestFile(t, "example_dense.tsv"), DefaultOptions())
	require.NoError(t, err)

	assert.Nil(t, f.Timepoints)
	assert.Equal(t, []int64{1, 2, 3}, f.Samples)
	assert.Equal(t, []int64{1, 2, 3}, f.RowLabels())
	// Every locus is observed at least once, so none are pruned at threshold 0.
	assert.Equal(t, []int64{101, 102, 103}, f.Positions)

	rows, cols := f.Freqs.Dims()
	require.Equal(t, 3, rows)
	require.Equal(t, 3, cols)
	assert.Equal(t, 0.1, f.Freqs.At(0, 0))
	assert.True(t, math.IsNaN(f.Freqs.At(0, 1)))
	assert.True(t, math.IsNaN(f.Freqs.At(1, 2)))
	assert.Equal(t, 0.05, f.Freqs.At(2, 1))

	n, ok := f.Params.Number("rbp1")
	require.True(t, ok)
	assert.Equal(t, 1e-08, n)
}

func TestReadFreqs_MissingValueOverride(t *testing.T) {
	opts := DefaultOptions()
	opts.MissingValue = Missing(0)
	content := "#a=b\ngen\t1\t2\n1\t-1\t0.5\n2\t0.25\t-1\n"

	f, err := ReadFreqs(strings.NewReader(content), opts)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5}, f.Freqs.Row(0))
	assert.Equal(t, []float64{0.25, 0}, f.Freqs.Row(1))
}

func TestReadFreqs_ZeroOptionsMissingIsNaN(t *testing.T) {
	content := "#a=b\ngen\t1\t2\n1\t-1\t0.5\n2\t0.25\t-1\n"

	f, err := ReadFreqs(strings.NewReader(content), Options{})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(f.Freqs.At(0, 0)))
	assert.True(t, math.IsNaN(f.Freqs.At(1, 1)))
	assert.Equal(t, []int{1, 1}, f.Freqs.CountValid())
}

func TestReadFreqs_Pruning(t *testing.T) {
	// Column 7 is observed in 3 of 10 rows; column 8 in 6; column 9 never.
	var b strings.Builder
	b.WriteString("#a=b\ngen\t7\t8\t9\n")
	for i := 0; i < 10; i++ {
		a, c := "-1", "-1"
		if i < 3 {
			a = "0.1"
		}
		if i < 6 {
			c = "0.2"
		}
		fmt.Fprintf(&b, "%d\t%s\t%s\t-1\n", i, a, c)
	}

	tests := []struct {
		prop float64
		want []int64
	}{
		{0, []int64{7, 8}},
		{0.2, []int64{7, 8}},
		{0.3, []int64{8}},
		{0.5, []int64{8}},
		{0.6, nil},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("prop=%g", tt.prop), func(t *testing.T) {
			opts := DefaultOptions()
			opts.MinPropSamples = tt.prop
			f, err := ReadFreqs(strings.NewReader(b.String()), opts)
			require.NoError(t, err)

			if tt.want == nil {
				assert.Empty(t, f.Positions)
			} else {
				assert.Equal(t, tt.want, f.Positions)
			}
			rows, cols := f.Freqs.Dims()
			assert.Equal(t, 10, rows)
			assert.Equal(t, len(f.Positions), cols)
		})
	}
}

func TestReadFreqs_PruningCountsSentinelNotValue(t *testing.T) {
	opts := DefaultOptions()
	opts.MissingValue = Missing(0)
	content := "#a=b\ngen\t1\t2\n1\t-1\t0.5\n2\t-1\t0.5\n"

	f, err := ReadFreqs(strings.NewReader(content), opts)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, f.Positions)
}

func TestReadFreqs_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		line    int
		kind    ErrorKind
	}{
		{"missing marker", "a=b\ngen\t1\n1\t0.1\n", 1, KindFormat},
		{"missing header row", "#a=b\n", 2, KindFormat},
		{"bad locus id", "#a=b\ngen\tx\n1\t0.1\n", 2, KindType},
		{"negative locus id", "#a=b\ngen\t-3\n1\t0.1\n", 2, KindType},
		{"ragged row", "#a=b\ngen\t1\t2\n1\t0.1\t0.2\n2\t0.1\n", 4, KindShape},
		{"bad value", "#a=b\ngen\t1\n1\tzz\n", 3, KindType},
		{"bad sample", "#a=b\ngen\t1\nq\t0.1\n", 3, KindType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFreqs(strings.NewReader(tt.content), DefaultOptions())
			require.Error(t, err)

			var pe *ParseError
			require.True(t, errors.As(err, &pe), "got %T: %v", err, err)
			assert.Equal(t, tt.line, pe.Line)
			assert.Equal(t, tt.kind, pe.Kind)
		})
	}
}

func TestReadFreqs_HeaderRowOnly(t *testing.T) {
	f, err := ReadFreqs(strings.NewReader("#a=b\ngen\t1\t2\n"), DefaultOptions())
	require.NoError(t, err)

	rows, cols := f.Freqs.Dims()
	assert.Equal(t, 0, rows)
	assert.Equal(t, 0, cols)
}

func TestParseError_Message(t *testing.T) {
	err := &ParseError{Line: 42, Kind: KindShape, Message: "expected 3 columns, found 2"}
	assert.Equal(t, "slim shape error at line 42: expected 3 columns, found 2", err.Error())
}

// findTestFile locates a test file in the testdata directory.
func findTestFile(t *testing.T, name string) string {
	t.Helper()

	paths := []string{
		filepath.Join("testdata", name),
		filepath.Join("..", "..", "testdata", name),
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	t.Fatalf("Test file not found: %s", name)
	return ""
}
