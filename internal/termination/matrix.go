package termination

import (
	"hash/fnv"
	"strings"

	"github.com/sable-lang/sable/internal/diag"
)

// Matrix is a call matrix: one row per callee argument, one column per
// caller pattern. Entry (r, c) answers "how does argument r of the
// call relate to pattern c of the caller?". Matrices are value-typed
// and never mutated after construction.
type Matrix struct {
	rows, cols int
	cells      []Order
}

// NewMatrix builds a rows×cols matrix from an entry function.
func NewMatrix(rows, cols int, fn func(r, c int) Order) Matrix {
	cells := make([]Order, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cells[r*cols+c] = fn(r, c)
		}
	}
	return Matrix{rows: rows, cols: cols, cells: cells}
}

// MatrixOf builds a matrix from row-major literal rows, used by tests
// and fixtures.
func MatrixOf(rows [][]Order) Matrix {
	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	return NewMatrix(len(rows), cols, func(r, c int) Order { return rows[r][c] })
}

// Rows returns the row count.
func (m Matrix) Rows() int { return m.rows }

// Cols returns the column count.
func (m Matrix) Cols() int { return m.cols }

// At returns the entry at row r, column c.
func (m Matrix) At(r, c int) Order { return m.cells[r*m.cols+c] }

// Mul is the matrix product over the order semiring: Compose for
// product, MinOrder for sum. The inner dimensions must agree.
func (m Matrix) Mul(n Matrix) (Matrix, error) {
	if m.cols != n.rows {
		return Matrix{}, impossiblef(diag.CodeImpossibleShape,
			"cannot compose %dx%d with %dx%d", m.rows, m.cols, n.rows, n.cols)
	}
	return NewMatrix(m.rows, n.cols, func(r, c int) Order {
		acc := Unknown
		for k := 0; k < m.cols; k++ {
			acc = MinOrder(acc, Compose(m.At(r, k), n.At(k, c)))
		}
		return acc
	}), nil
}

// Equal reports whether two matrices have the same shape and entries.
func (m Matrix) Equal(n Matrix) bool {
	if m.rows != n.rows || m.cols != n.cols {
		return false
	}
	for i, cell := range m.cells {
		if cell != n.cells[i] {
			return false
		}
	}
	return true
}

// Diagonal returns the entries (i, i) of a square matrix.
func (m Matrix) Diagonal() ([]Order, error) {
	if m.rows != m.cols {
		return nil, impossiblef(diag.CodeImpossibleShape,
			"diagonal of non-square %dx%d matrix", m.rows, m.cols)
	}
	diagOrders := make([]Order, m.rows)
	for i := range diagOrders {
		diagOrders[i] = m.At(i, i)
	}
	return diagOrders, nil
}

// Hash returns a shape- and entry-sensitive hash. The call graph
// deduplicates on String(), not on this hash.
func (m Matrix) Hash() uint64 {
	h := fnv.New64a()
	buf := make([]byte, 0, len(m.cells)+4)
	buf = append(buf, byte(m.rows), byte(m.rows>>8), byte(m.cols), byte(m.cols>>8))
	for _, cell := range m.cells {
		buf = append(buf, byte(cell))
	}
	h.Write(buf)
	return h.Sum64()
}

func (m Matrix) String() string {
	var sb strings.Builder
	for r := 0; r < m.rows; r++ {
		if r > 0 {
			sb.WriteByte(';')
		}
		for c := 0; c < m.cols; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(m.At(r, c).String())
		}
	}
	return "[" + sb.String() + "]"
}
