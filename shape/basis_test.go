package shape

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/notargets/gocvfem/quadrature"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
)

func TestLagrange1D(t *testing.T) {
	vals, derivs := make([]float64, 3), make([]float64, 3)
	Lagrange1D(2, 0.3, vals, derivs)
	assert.InDelta(t, 1., floats.Sum(vals), 1.e-15)
	assert.InDelta(t, 0., floats.Sum(derivs), 1.e-15)
	Lagrange1D(1, -1, vals, derivs)
	assert.Equal(t, []float64{1, 0}, vals[:2])
	assert.Panics(t, func() { Lagrange1D(3, 0, vals, derivs) })
}

func TestBasis(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for dim := 1; dim <= 3; dim++ {
		for order := 1; order <= 2; order++ {
			b := NewBasis(dim, order)
			r := quadrature.NewRule(order)
			t.Run(fmt.Sprintf("Kronecker_Dim%d_Order%d", dim, order), func(t *testing.T) {
				vals := make([]float64, b.NumNodes)
				for n := 0; n < b.NumNodes; n++ {
					tn := b.Map.Tensor(n)
					par := make([]float64, dim)
					for d := 0; d < dim; d++ {
						par[d] = r.NodeLocations[tn[d]]
					}
					b.ValuesAt(par, vals)
					for m := range vals {
						expected := 0.
						if m == n {
							expected = 1
						}
						assert.InDeltaf(t, expected, vals[m], 1.e-15, "node %d at node %d", m, n)
					}
				}
			})
			t.Run(fmt.Sprintf("Unity_Dim%d_Order%d", dim, order), func(t *testing.T) {
				npts := 20
				par := make([]float64, npts*dim)
				for i := range par {
					par[i] = 2*rng.Float64() - 1
				}
				V := b.ValueMatrix(par)
				for _, sum := range V.RowSums() {
					assert.InDelta(t, 1., sum, 1.e-14)
				}
				D := b.DerivativeMatrix(par)
				for ip := 0; ip < npts; ip++ {
					row := D.Row(ip)
					for dir := 0; dir < dim; dir++ {
						var sum float64
						for n := 0; n < b.NumNodes; n++ {
							sum += row[n*dim+dir]
						}
						assert.InDelta(t, 0., sum, 1.e-13)
					}
				}
			})
			t.Run(fmt.Sprintf("FiniteDifference_Dim%d_Order%d", dim, order), func(t *testing.T) {
				var (
					par    = make([]float64, dim)
					vals   = make([]float64, b.NumNodes)
					derivs = make([]float64, b.NumNodes*dim)
				)
				for d := range par {
					par[d] = 2*rng.Float64() - 1
				}
				b.DerivativesAt(par, derivs)
				for n := 0; n < b.NumNodes; n++ {
					for dir := 0; dir < dim; dir++ {
						f := func(x float64) float64 {
							p := append([]float64{}, par...)
							p[dir] = x
							b.ValuesAt(p, vals)
							return vals[n]
						}
						approx := fd.Derivative(f, par[dir], &fd.Settings{
							Formula: fd.Central,
							Step:    1.e-5,
						})
						assert.InDeltaf(t, derivs[n*dim+dir], approx, 1.e-8, "node %d dir %d", n, dir)
					}
				}
			})
		}
	}
	assert.Panics(t, func() { NewBasis(2, 1).ValuesAt([]float64{0}, make([]float64, 4)) })
}
