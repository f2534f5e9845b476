package slim

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vsbuffalo/slper/internal/params"
)

// lineReader yields trimmed lines with 1-based line numbers.
type lineReader struct {
	scanner    *bufio.Scanner
	lineNumber int
}

func newLineReader(r io.Reader) *lineReader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 1<<30)
	return &lineReader{scanner: s}
}

// next returns the next line with trailing line endings removed.
// ok is false at end of input.
func (lr *lineReader) next() (line string, ok bool, err error) {
	if !lr.scanner.Scan() {
		if err := lr.scanner.Err(); err != nil {
			return "", false, fmt.Errorf("read line %d: %w", lr.lineNumber+1, err)
		}
		return "", false, nil
	}
	lr.lineNumber++
	return strings.TrimRight(lr.scanner.Text(), "\r\n"), true, nil
}

// readParams reads and parses the '#'-prefixed parameter header line.
func readParams(lr *lineReader) (params.Params, error) {
	line, ok, err := lr.next()
	if err != nil {
		return params.Params{}, err
	}
	if !ok {
		return params.Params{}, &ParseError{
			Line:    1,
			Kind:    KindFormat,
			Message: "empty file, expected #-prefixed parameter header",
		}
	}
	if !strings.HasPrefix(line, params.Marker) {
		return params.Params{}, &ParseError{
			Line:    lr.lineNumber,
			Kind:    KindFormat,
			Message: "SLiM results file does not begin with #-prefixed string containing parameters",
		}
	}

	p, err := params.Parse(line)
	if err != nil {
		kind := KindFormat
		if errors.Is(err, params.ErrInvalidNumber) {
			kind = KindType
		}
		return params.Params{}, &ParseError{
			Line:    lr.lineNumber,
			Kind:    kind,
			Message: "invalid parameter header",
			Err:     err,
		}
	}
	return p, nil
}

// ReadParams reads only the parameter header line from r.
func ReadParams(r io.Reader) (params.Params, error) {
	return readParams(newLineReader(r))
}
