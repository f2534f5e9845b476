package output

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/vsbuffalo/slper/internal/slim"
)

// ArrowSchema returns the schema used by WriteArrow: an int64 generation
// column followed by one nullable float64 column per locus, named
// "<id>:<position>".
func ArrowSchema(f *slim.SlimFreqs) *arrow.Schema {
	fields := make([]arrow.Field, 0, len(f.IDs)+1)
	fields = append(fields, arrow.Field{Name: "generation", Type: arrow.PrimitiveTypes.Int64})
	for j, id := range f.IDs {
		fields = append(fields, arrow.Field{
			Name:     strconv.FormatInt(id, 10) + ":" + strconv.FormatInt(f.Positions[j], 10),
			Type:     arrow.PrimitiveTypes.Float64,
			Nullable: true,
		})
	}
	return arrow.NewSchema(fields, nil)
}

// WriteArrow writes the frequency matrix as a single-record Arrow IPC file.
// Missing (NaN) frequencies are written as nulls.
func WriteArrow(w io.Writer, f *slim.SlimFreqs) error {
	pool := memory.NewGoAllocator()
	schema := ArrowSchema(f)

	b := array.NewRecordBuilder(pool, schema)
	defer b.Release()

	labels := f.RowLabels()
	rows, cols := f.Freqs.Dims()
	gen := b.Field(0).(*array.Int64Builder)
	gen.AppendValues(labels[:rows], nil)
	for j := 0; j < cols; j++ {
		fb := b.Field(j + 1).(*array.Float64Builder)
		fb.Reserve(rows)
		for i := 0; i < rows; i++ {
			v := f.Freqs.At(i, j)
			if math.IsNaN(v) {
				fb.AppendNull()
				continue
			}
			fb.Append(v)
		}
	}

	rec := b.NewRecord()
	defer rec.Release()

	fw, err := ipc.NewFileWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(pool))
	if err != nil {
		return fmt.Errorf("create arrow writer: %w", err)
	}
	if err := fw.Write(rec); err != nil {
		fw.Close()
		return fmt.Errorf("write arrow record: %w", err)
	}
	if err := fw.Close(); err != nil {
		return fmt.Errorf("close arrow writer: %w", err)
	}
	return nil
}
