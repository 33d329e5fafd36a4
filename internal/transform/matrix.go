package transform

import "fmt"

// Matrix is a row-major view over a flat buffer. It never copies the buffer.
type Matrix struct {
	data []float32
	rows int
	cols int
}

// NewMatrix views data as rows x cols.
func NewMatrix(data []float32, rows, cols int) (Matrix, error) {
	if rows < 0 || cols < 0 {
		return Matrix{}, fmt.Errorf("negative shape %dx%d", rows, cols)
	}
	if len(data) != rows*cols {
		return Matrix{}, fmt.Errorf("buffer length %d does not fit shape %dx%d", len(data), rows, cols)
	}
	return Matrix{data: data, rows: rows, cols: cols}, nil
}

// Rows returns the event count.
func (m Matrix) Rows() int { return m.rows }

// Cols returns the channel count.
func (m Matrix) Cols() int { return m.cols }

// Row returns event i without copying.
func (m Matrix) Row(i int) []float32 {
	return m.data[i*m.cols : (i+1)*m.cols]
}

// SelectColumns returns a new matrix holding only the given columns, in the
// given order, with row order preserved.
func (m Matrix) SelectColumns(cols []int) Matrix {
	out := make([]float32, m.rows*len(cols))
	for r := 0; r < m.rows; r++ {
		src := m.Row(r)
		dst := out[r*len(cols) : (r+1)*len(cols)]
		for j, c := range cols {
			dst[j] = src[c]
		}
	}
	return Matrix{data: out, rows: m.rows, cols: len(cols)}
}

// Flatten returns the row-major backing buffer.
func (m Matrix) Flatten() []float32 { return m.data }
