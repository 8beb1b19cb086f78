package utils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a row-major dense table of per-topology weights (shape
// functions, derivatives). SetReadOnly names a table once it is complete and
// shared by every master element of its topology.
type Matrix struct {
	M        *mat.Dense
	readOnly bool
	name     string
}

func NewMatrix(nr, nc int, dataO ...[]float64) (R Matrix) {
	var m *mat.Dense
	if len(dataO) != 0 {
		if len(dataO[0]) != nr*nc {
			err := fmt.Errorf("mismatch in allocation: NewMatrix nr,nc = %v,%v, len(data[0]) = %v", nr, nc, len(dataO[0]))
			panic(err)
		}
		m = mat.NewDense(nr, nc, dataO[0])
	} else {
		m = mat.NewDense(nr, nc, make([]float64, nr*nc))
	}
	R = Matrix{
		m,
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m Matrix) Dims() (r, c int)    { return m.M.Dims() }
func (m Matrix) At(i, j int) float64 { return m.M.At(i, j) }
func (m Matrix) T() mat.Matrix       { return m.M.T() }
func (m Matrix) Data() []float64     { return m.M.RawMatrix().Data }
func (m Matrix) Name() string        { return m.name }
func (m Matrix) IsReadOnly() bool    { return m.readOnly }

func (m *Matrix) SetReadOnly(name ...string) Matrix {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

// Row returns a view of row i, valid as long as the matrix is.
func (m Matrix) Row(i int) []float64 {
	var (
		raw = m.M.RawMatrix()
	)
	return raw.Data[i*raw.Stride : i*raw.Stride+raw.Cols]
}

// RowSums returns the sum of each row, the partition-of-unity check for
// shape function tables.
func (m Matrix) RowSums() (sums []float64) {
	var (
		nr, _ = m.Dims()
	)
	sums = make([]float64, nr)
	for i := 0; i < nr; i++ {
		for _, val := range m.Row(i) {
			sums[i] += val
		}
	}
	return
}
