package slim

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// ParseRaggedFreqs parses a ragged SLiM mutation log from path.
// See ReadRaggedFreqs for the format.
func ParseRaggedFreqs(path string, opts Options) (*SlimFreqs, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return ReadRaggedFreqs(rc, opts)
}

// ReadRaggedFreqs parses a ragged array of polymorphic mutations, one line per
// generation:
//
//	#key=val;key=val
//	gen<delim>id;pos;freq<delim>id;pos;freq...
//
// Generations and mutation ids are assigned matrix rows and columns in the
// order they are first seen. A generation repeated on several lines shares
// one row, and repeated (generation, id) pairs sum. The position recorded for
// an id is the one from its first occurrence.
func ReadRaggedFreqs(r io.Reader, opts Options) (*SlimFreqs, error) {
	opts = opts.withDefaults()
	lr := newLineReader(r)

	ps, err := readParams(lr)
	if err != nil {
		return nil, err
	}

	var (
		timepoints = newTimepoints()
		ids        = newOrderedIndex[int64]()
		positions  []int64
		samples    []int64
		cells      coo
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
		gen, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, &ParseError{
				Line:    lr.lineNumber,
				Kind:    KindType,
				Message: fmt.Sprintf("invalid generation: %q", fields[0]),
				Err:     err,
			}
		}
		samples = append(samples, gen)
		row, _ := timepoints.idx.add(gen)

		for _, field := range fields[1:] {
			m, err := parseMutation(field)
			if err != nil {
				err.Line = lr.lineNumber
				return nil, err
			}
			col, isNew := ids.add(m.id)
			if isNew {
				positions = append(positions, m.pos)
			}
			cells.add(row, col, m.freq)
		}
	}

	freqs := cells.dense(timepoints.Len(), ids.len())
	opts.Logger.Debug("parsed ragged frequencies",
		zap.Int("lines", len(samples)),
		zap.Int("generations", timepoints.Len()),
		zap.Int("loci", ids.len()),
		zap.Int("entries", len(cells.entries)))

	return &SlimFreqs{
		Params:     ps,
		Positions:  positions,
		IDs:        append([]int64(nil), ids.keys...),
		Samples:    samples,
		Freqs:      freqs,
		Timepoints: timepoints,
	}, nil
}

// mutation is a single id;pos;freq record from a ragged row.
type mutation struct {
	id   int64
	pos  int64
	freq float64
}

func parseMutation(field string) (mutation, *ParseError) {
	parts := strings.Split(field, ";")
	if len(parts) != 3 {
		return mutation{}, &ParseError{
			Kind:    KindFormat,
			Message: fmt.Sprintf("expected id;pos;freq, found %d fields in %q", len(parts), field),
		}
	}

	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return mutation{}, &ParseError{Kind: KindType, Message: fmt.Sprintf("invalid mutation id: %q", parts[0]), Err: err}
	}
	pos, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return mutation{}, &ParseError{Kind: KindType, Message: fmt.Sprintf("invalid position: %q", parts[1]), Err: err}
	}
	freq, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return mutation{}, &ParseError{Kind: KindType, Message: fmt.Sprintf("invalid frequency: %q", parts[2]), Err: err}
	}
	return mutation{id: id, pos: pos, freq: freq}, nil
}
