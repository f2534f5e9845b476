package slim

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Table is a rectangular table of population statistics with named columns.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, c := range t.Columns {
		if c == name {
			return i, true
		}
	}
	return -1, false
}

// Column returns the named column parsed as floats. Empty cells and "NA"
// become NaN.
func (t *Table) Column(name string) ([]float64, error) {
	j, ok := t.ColumnIndex(name)
	if !ok {
		return nil, fmt.Errorf("unknown stats column %q", name)
	}
	out := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		v, err := parseCell(row[j])
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %w", name, i, err)
		}
		out[i] = v
	}
	return out, nil
}

func parseCell(s string) (float64, error) {
	switch s {
	case "", "NA", "NaN", "nan":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

// ParseStats parses a SLiM population statistics table from path.
func ParseStats(path string, opts Options) (*SlimStats, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return ReadStats(rc, opts)
}

// ReadStats parses a '#'-prefixed parameter line followed by a delimited
// table whose first non-comment line names the columns. Lines beginning
// with '#' are skipped.
func ReadStats(r io.Reader, opts Options) (*SlimStats, error) {
	opts = opts.withDefaults()
	delim, size := utf8.DecodeRuneInString(opts.Delimiter)
	if size != len(opts.Delimiter) {
		return nil, fmt.Errorf("stats delimiter must be a single character, got %q", opts.Delimiter)
	}

	br := bufio.NewReader(r)
	first, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read stats header: %w", err)
	}
	ps, err := ReadParams(strings.NewReader(first))
	if err != nil {
		return nil, err
	}

	c := csv.NewReader(br)
	c.Comma = delim
	c.Comment = '#'

	columns, err := c.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &SlimStats{Params: ps, Stats: &Table{}}, nil
		}
		return nil, statsError(err)
	}

	table := &Table{Columns: columns}
	for {
		rec, err := c.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, statsError(err)
		}
		table.Rows = append(table.Rows, rec)
	}
	return &SlimStats{Params: ps, Stats: table}, nil
}

// statsError converts a csv error to a ParseError counted from the top of
// the file, including the parameter line.
func statsError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		kind := KindFormat
		if errors.Is(pe.Err, csv.ErrFieldCount) {
			kind = KindShape
		}
		return &ParseError{Line: pe.Line + 1, Kind: kind, Message: "invalid stats table", Err: pe.Err}
	}
	return fmt.Errorf("read stats table: %w", err)
}
