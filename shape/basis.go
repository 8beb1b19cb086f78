package shape

import (
	"fmt"

	"github.com/notargets/gocvfem/quadrature"
	"github.com/notargets/gocvfem/utils"
)

// Basis is the tensor product of 1-D Lagrange bases over a line, quad or hex
// reference element. The same evaluation is used at fixed quadrature points
// and at arbitrary parametric points.
type Basis struct {
	Dim      int
	Order    int
	Nodes1D  int
	NumNodes int
	Map      *quadrature.NodeMap
}

func NewBasis(dim, order int) (b *Basis) {
	nm := quadrature.NewNodeMap(dim, order)
	b = &Basis{
		Dim:      dim,
		Order:    order,
		Nodes1D:  order + 1,
		NumNodes: nm.NumNodes(),
		Map:      nm,
	}
	return
}

func (b *Basis) eval1D(par []float64, l, dl *[3][3]float64) {
	if len(par) < b.Dim {
		panic(fmt.Errorf("parametric point has %d components, basis needs %d", len(par), b.Dim))
	}
	for d := 0; d < b.Dim; d++ {
		Lagrange1D(b.Order, par[d], l[d][:], dl[d][:])
	}
}

// ValuesAt writes the weight of every node at par into out[node]
func (b *Basis) ValuesAt(par, out []float64) {
	var (
		l, dl [3][3]float64
	)
	b.eval1D(par, &l, &dl)
	for n := 0; n < b.NumNodes; n++ {
		t := b.Map.Tensor(n)
		val := 1.
		for d := 0; d < b.Dim; d++ {
			val *= l[d][t[d]]
		}
		out[n] = val
	}
}

// DerivativesAt writes the parametric derivatives into out[node*Dim+dir]
func (b *Basis) DerivativesAt(par, out []float64) {
	var (
		l, dl [3][3]float64
	)
	b.eval1D(par, &l, &dl)
	for n := 0; n < b.NumNodes; n++ {
		t := b.Map.Tensor(n)
		for dir := 0; dir < b.Dim; dir++ {
			val := 1.
			for d := 0; d < b.Dim; d++ {
				if d == dir {
					val *= dl[d][t[d]]
				} else {
					val *= l[d][t[d]]
				}
			}
			out[n*b.Dim+dir] = val
		}
	}
}

// Values evaluates npts points stored [pt][Dim] into out[pt][node]
func (b *Basis) Values(npts int, par, out []float64) {
	for ip := 0; ip < npts; ip++ {
		b.ValuesAt(par[ip*b.Dim:(ip+1)*b.Dim], out[ip*b.NumNodes:(ip+1)*b.NumNodes])
	}
}

// Derivatives evaluates npts points into out[pt][node][Dim]
func (b *Basis) Derivatives(npts int, par, out []float64) {
	var (
		stride = b.NumNodes * b.Dim
	)
	for ip := 0; ip < npts; ip++ {
		b.DerivativesAt(par[ip*b.Dim:(ip+1)*b.Dim], out[ip*stride:(ip+1)*stride])
	}
}

// ValueMatrix returns the [npts x NumNodes] interpolation table
func (b *Basis) ValueMatrix(par []float64) (R utils.Matrix) {
	var (
		npts = len(par) / b.Dim
	)
	R = NewTable(npts, b.NumNodes)
	b.Values(npts, par, R.Data())
	return
}

// DerivativeMatrix returns the [npts x NumNodes*Dim] derivative table
func (b *Basis) DerivativeMatrix(par []float64) (R utils.Matrix) {
	var (
		npts = len(par) / b.Dim
	)
	R = NewTable(npts, b.NumNodes*b.Dim)
	b.Derivatives(npts, par, R.Data())
	return
}

func NewTable(nr, nc int) utils.Matrix {
	if nr == 0 || nc == 0 {
		panic(fmt.Errorf("empty weight table %d x %d", nr, nc))
	}
	return utils.NewMatrix(nr, nc)
}
