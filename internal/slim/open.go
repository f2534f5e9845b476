package slim

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// input is a decompressing reader over an open file.
type input struct {
	io.Reader
	closers []func() error
}

func (in *input) Close() error {
	var first error
	for i := len(in.closers) - 1; i >= 0; i-- {
		if err := in.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Open opens path for reading, transparently decompressing gzip, zstd and
// lz4 frame input. Use "-" for stdin.
func Open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return NewReader(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open slim file: %w", err)
	}

	rc, err := newInput(file, file.Close)
	if err != nil {
		file.Close()
		return nil, err
	}
	return rc, nil
}

// NewReader wraps r with the decompressor matching its leading bytes.
// Closing the result does not close r.
func NewReader(r io.Reader) (io.ReadCloser, error) {
	in, err := newInput(r, nil)
	if err != nil {
		return nil, err
	}
	return in, nil
}

func newInput(r io.Reader, closeFn func() error) (*input, error) {
	in := &input{}
	if closeFn != nil {
		in.closers = append(in.closers, closeFn)
	}

	br := bufio.NewReader(r)
	// Peek returns fewer bytes (and an error) for short inputs; plain text then.
	head, _ := br.Peek(4)

	switch {
	case bytes.HasPrefix(head, gzipMagic):
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		in.Reader = gz
		in.closers = append(in.closers, gz.Close)
	case bytes.HasPrefix(head, zstdMagic):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("create zstd reader: %w", err)
		}
		in.Reader = zr
		in.closers = append(in.closers, func() error { zr.Close(); return nil })
	case bytes.HasPrefix(head, lz4Magic):
		in.Reader = lz4.NewReader(br)
	default:
		in.Reader = br
	}
	return in, nil
}
