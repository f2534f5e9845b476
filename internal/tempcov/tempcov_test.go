package tempcov

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsbuffalo/slper/internal/slim"
)

func parse(t *testing.T, content string) *slim.SlimFreqs {
	t.Helper()
	f, err := slim.ReadRaggedFreqs(strings.NewReader(content), slim.DefaultOptions())
	require.NoError(t, err)
	return f
}

func TestCovariances(t *testing.T) {
	// Deltas per locus: interval0 = (0.1, 0.3), interval1 = (0.2, -0.2).
	f := parse(t, "#a=b\n"+
		"1\t1;10;0.1\t2;20;0.2\n"+
		"2\t1;10;0.2\t2;20;0.5\n"+
		"3\t1;10;0.4\t2;20;0.3\n")
	tc := New(f)

	assert.Equal(t, []Interval{{1, 2}, {2, 3}}, tc.Intervals())

	cov, err := tc.Covariances()
	require.NoError(t, err)
	require.Equal(t, 2, cov.SymmetricDim())

	// var(0.1, 0.3) = 0.02; var(0.2, -0.2) = 0.08; cov = (-0.1*0.2 + 0.1*-0.2) = -0.04
	assert.InDelta(t, 0.02, cov.At(0, 0), 1e-12)
	assert.InDelta(t, 0.08, cov.At(1, 1), 1e-12)
	assert.InDelta(t, -0.04, cov.At(0, 1), 1e-12)
	assert.InDelta(t, -0.04, cov.At(1, 0), 1e-12)
}

func TestCovariances_TooFew(t *testing.T) {
	f := parse(t, "#a=b\n1\t1;10;0.1\t2;20;0.2\n2\t1;10;0.2\t2;20;0.5\n")
	_, err := New(f).Covariances()
	assert.ErrorIs(t, err, ErrTooFewTimepoints)

	f = parse(t, "#a=b\n1\t1;10;0.1\n2\t1;10;0.2\n3\t1;10;0.3\n")
	_, err = New(f).Covariances()
	assert.ErrorIs(t, err, ErrTooFewLoci)
}

func TestCompleteLoci_SkipsMissing(t *testing.T) {
	content := "#a=b\ngen\t1\t2\t3\n1\t0.1\t-1\t0.3\n2\t0.2\t0.4\t0.1\n3\t0.3\t0.5\t0.2\n"
	f, err := slim.ReadFreqs(strings.NewReader(content), slim.DefaultOptions())
	require.NoError(t, err)

	tc := New(f)
	assert.Equal(t, []int{0, 2}, tc.CompleteLoci())

	d, err := tc.Deltas()
	require.NoError(t, err)
	r, c := d.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
	assert.InDelta(t, -0.2, d.At(0, 1), 1e-12)
	assert.False(t, math.IsNaN(d.At(1, 0)))
}
