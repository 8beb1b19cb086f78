package quadrature

import (
	"fmt"
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate/quad"
)

func TestGaussLegendre(t *testing.T) {
	for n := 1; n < 8; n++ {
		t.Run(fmt.Sprintf("N_%d", n), func(t *testing.T) {
			X, W := GaussLegendre(n)
			x, w := make([]float64, n), make([]float64, n)
			quad.Legendre{}.FixedLocations(x, w, -1, 1)
			// The weights are symmetric, only the abscissae order matters
			sort.Float64s(x)
			assert.InDeltaSlice(t, x, X, 1.e-13)
			assert.InDeltaSlice(t, w, W, 1.e-13)
			assert.InDelta(t, 2., floats.Sum(W), 1.e-14)
			// Exact for polynomials up to degree 2n-1
			for p := 0; p < 2*n; p++ {
				var sum float64
				for i := range X {
					sum += W[i] * math.Pow(X[i], float64(p))
				}
				exact := 0.
				if p%2 == 0 {
					exact = 2 / float64(p+1)
				}
				assert.InDeltaf(t, exact, sum, 1.e-13, "degree %d", p)
			}
		})
	}
	assert.Panics(t, func() { GaussLegendre(0) })
}

func TestRule(t *testing.T) {
	scsDist := math.Sqrt(3) / 3
	t.Run("Linear", func(t *testing.T) {
		r := NewRule(1)
		assert.Equal(t, 2, r.Nodes1D)
		assert.Equal(t, 1, r.NumQuad)
		assert.Equal(t, []float64{-1, 0, 1}, r.ScsEndLoc)
		assert.InDelta(t, -0.5, r.GaussPointLocation(0, 0), 1.e-15)
		assert.InDelta(t, 0.5, r.GaussPointLocation(1, 0), 1.e-15)
		assert.Equal(t, 1., r.SegmentWeight(0, 0))
	})
	t.Run("Quadratic", func(t *testing.T) {
		r := NewRule(2)
		assert.InDeltaSlice(t, []float64{-1, -scsDist, scsDist, 1}, r.ScsEndLoc, 1.e-15)
		assert.InDeltaSlice(t, []float64{-scsDist, scsDist}, r.GaussAbscissae, 1.e-15)
		assert.InDeltaSlice(t, []float64{0.5, 0.5}, r.GaussWeights, 1.e-15)
		a, b := -1., -scsDist
		assert.InDelta(t, 0.5*(a+b)-0.5*(b-a)*scsDist, r.GaussPointLocation(0, 0), 1.e-15)
		for n := 0; n < r.Nodes1D; n++ {
			for gp := 0; gp < r.NumQuad; gp++ {
				assert.Equal(t, r.NodeLocations[n], r.ShiftedGaussPointLocation(n, gp))
			}
		}
		assert.Panics(t, func() { r.TensorProductWeight([]int{0, 1}, []int{0}) })
	})
	for _, order := range []int{1, 2} {
		t.Run(fmt.Sprintf("WeightsSum_%d", order), func(t *testing.T) {
			r := NewRule(order)
			var sum1, sum2 float64
			for n := 0; n < r.Nodes1D; n++ {
				for gp := 0; gp < r.NumQuad; gp++ {
					sum1 += r.SegmentWeight(n, gp)
					for m := 0; m < r.Nodes1D; m++ {
						for gq := 0; gq < r.NumQuad; gq++ {
							sum2 += r.TensorProductWeight([]int{n, m}, []int{gp, gq})
						}
					}
				}
			}
			assert.InDelta(t, 2., sum1, 1.e-14)
			assert.InDelta(t, 4., sum2, 1.e-14)
		})
	}
	assert.Panics(t, func() { NewRule(3) })
}

func TestNodeMap(t *testing.T) {
	for dim := 1; dim <= 3; dim++ {
		for order := 1; order <= 2; order++ {
			t.Run(fmt.Sprintf("Dim%d_Order%d", dim, order), func(t *testing.T) {
				nm := NewNodeMap(dim, order)
				n := order + 1
				numNodes := int(math.Pow(float64(n), float64(dim)))
				assert.Equal(t, numNodes, nm.NumNodes())
				seen := make(map[int]bool)
				for ord := 0; ord < numNodes; ord++ {
					ijk := nm.Tensor(ord)
					assert.Equal(t, ord, nm.Ordinal(ijk[:dim]...))
					seen[ord] = true
				}
				assert.Equal(t, numNodes, len(seen))
				// The tensor origin is node zero
				corner := nm.Ordinal(make([]int, dim)...)
				assert.Equal(t, 0, corner)
			})
		}
	}
	nm := NewNodeMap(3, 2)
	assert.Equal(t, 20, nm.Ordinal(1, 1, 1))
	assert.Equal(t, [3]int{2, 2, 2}, nm.Tensor(6))
	assert.Equal(t, 8, NewNodeMap(2, 2).Ordinal(1, 1))
	assert.Panics(t, func() { nm.Ordinal(1, 1) })
	assert.Panics(t, func() { NewNodeMap(4, 1) })
}
