package slim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a dense row-major frequency matrix. Unlike mat.Dense it may have
// zero rows or columns; it satisfies mat.Matrix for use with gonum.
type Matrix struct {
	rows, cols int
	data       []float64
}

var _ mat.Matrix = (*Matrix)(nil)

// NewMatrix returns a zero-filled rows×cols matrix. If data is non-nil it is
// used as backing storage and must have length rows*cols.
func NewMatrix(rows, cols int, data []float64) *Matrix {
	if rows < 0 || cols < 0 {
		panic("slim: negative matrix dimension")
	}
	if data == nil {
		data = make([]float64, rows*cols)
	} else if len(data) != rows*cols {
		panic(fmt.Sprintf("slim: data length %d does not match %d×%d", len(data), rows, cols))
	}
	return &Matrix{rows: rows, cols: cols, data: data}
}

// Dims returns the matrix shape.
func (m *Matrix) Dims() (r, c int) { return m.rows, m.cols }

// At returns the element at row i, column j.
func (m *Matrix) At(i, j int) float64 {
	m.check(i, j)
	return m.data[i*m.cols+j]
}

// T returns the transpose view.
func (m *Matrix) T() mat.Matrix { return mat.Transpose{Matrix: m} }

// Row returns a copy of row i.
func (m *Matrix) Row(i int) []float64 {
	if i < 0 || i >= m.rows {
		panic(mat.ErrRowAccess)
	}
	return append([]float64(nil), m.data[i*m.cols:(i+1)*m.cols]...)
}

// Dense copies m into a gonum matrix. It returns nil for an empty matrix,
// which gonum cannot represent.
func (m *Matrix) Dense() *mat.Dense {
	if m.rows == 0 || m.cols == 0 {
		return nil
	}
	return mat.NewDense(m.rows, m.cols, append([]float64(nil), m.data...))
}

// SelectCols returns a new matrix holding the given columns in order.
func (m *Matrix) SelectCols(cols []int) *Matrix {
	out := NewMatrix(m.rows, len(cols), nil)
	for i := 0; i < m.rows; i++ {
		for k, j := range cols {
			out.data[i*out.cols+k] = m.data[i*m.cols+j]
		}
	}
	return out
}

// CountValid returns, per column, the number of entries that are not NaN.
func (m *Matrix) CountValid() []int {
	counts := make([]int, m.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			if !math.IsNaN(m.data[i*m.cols+j]) {
				counts[j]++
			}
		}
	}
	return counts
}

func (m *Matrix) check(i, j int) {
	if i < 0 || i >= m.rows {
		panic(mat.ErrRowAccess)
	}
	if j < 0 || j >= m.cols {
		panic(mat.ErrColAccess)
	}
}

// cooEntry is one sparse (row, col, value) contribution.
type cooEntry struct {
	row, col int
	val      float64
}

// coo accumulates sparse coordinates before the final shape is known.
type coo struct {
	entries []cooEntry
}

func (c *coo) add(row, col int, val float64) {
	c.entries = append(c.entries, cooEntry{row: row, col: col, val: val})
}

// dense materializes the coordinates into a rows×cols matrix. Entries that
// land on the same cell are summed.
func (c *coo) dense(rows, cols int) *Matrix {
	m := NewMatrix(rows, cols, nil)
	for _, e := range c.entries {
		m.data[e.row*cols+e.col] += e.val
	}
	return m
}
