package slim

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// ParseFreqs parses a dense SLiM frequency matrix from path.
// See ReadFreqs for the format.
func ParseFreqs(path string, opts Options) (*SlimFreqs, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return ReadFreqs(rc, opts)
}

// ReadFreqs parses a preallocated generations×loci frequency matrix:
//
//	#key=val;key=val
//	gen<delim>locus1<delim>locus2...
//	1<delim>0.1<delim>-1...
//
// Negative entries mark loci that are not polymorphic at that row and are
// replaced with opts.MissingValue (NaN when unset). Loci observed in no more than
// floor(opts.MinPropSamples*rows) rows are dropped.
func ReadFreqs(r io.Reader, opts Options) (*SlimFreqs, error) {
	opts = opts.withDefaults()
	lr := newLineReader(r)

	ps, err := readParams(lr)
	if err != nil {
		return nil, err
	}

	header, ok, err := lr.next()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &ParseError{Line: lr.lineNumber + 1, Kind: KindFormat, Message: "missing locus header row"}
	}
	labels := strings.Split(strings.TrimSpace(header), opts.Delimiter)
	loci := make([]int64, 0, len(labels))
	for _, l := range labels[1:] {
		id, err := strconv.ParseUint(l, 10, 32)
		if err != nil {
			return nil, &ParseError{
				Line:    lr.lineNumber,
				Kind:    KindType,
				Message: fmt.Sprintf("invalid locus id: %q", l),
				Err:     err,
			}
		}
		loci = append(loci, int64(id))
	}

	width := len(loci)
	missingValue := opts.missingValue()
	var (
		samples []int64
		data    []float64
		missing []bool
	)
	for {
		line, ok, err := lr.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := strings.Split(strings.TrimSpace(line), opts.Delimiter)
		if len(fields) != width+1 {
			return nil, &ParseError{
				Line:    lr.lineNumber,
				Kind:    KindShape,
				Message: fmt.Sprintf("expected %d columns, found %d", width+1, len(fields)),
			}
		}

		sample, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, &ParseError{
				Line:    lr.lineNumber,
				Kind:    KindType,
				Message: fmt.Sprintf("invalid sample index: %q", fields[0]),
				Err:     err,
			}
		}
		samples = append(samples, int64(sample))

		for _, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, &ParseError{
					Line:    lr.lineNumber,
					Kind:    KindType,
					Message: fmt.Sprintf("invalid frequency: %q", f),
					Err:     err,
				}
			}
			isMissing := v < 0
			if isMissing {
				v = missingValue
			}
			data = append(data, v)
			missing = append(missing, isMissing)
		}
	}

	rows := len(samples)
	minSamples := int(opts.MinPropSamples * float64(rows))
	observed := make([]int, width)
	for i, m := range missing {
		if !m {
			observed[i%width]++
		}
	}
	keep := make([]int, 0, width)
	for j, n := range observed {
		if n > minSamples {
			keep = append(keep, j)
		}
	}
	opts.Logger.Debug("pruning frequency matrix",
		zap.Int("from", width),
		zap.Int("to", len(keep)),
		zap.Int("threshold", minSamples))

	full := NewMatrix(rows, width, data)
	kept := make([]int64, len(keep))
	for k, j := range keep {
		kept[k] = loci[j]
	}

	return &SlimFreqs{
		Params:    ps,
		Positions: kept,
		IDs:       append([]int64(nil), kept...),
		Samples:   samples,
		Freqs:     full.SelectCols(keep),
	}, nil
}
