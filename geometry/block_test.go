package geometry

import (
	"testing"

	"github.com/notargets/gocvfem/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBlock(t *testing.T) {
	b, err := NewBlock(topology.Quad2D9, [3]int{3, 2}, [3]float64{3, 1})
	require.NoError(t, err)
	assert.Equal(t, 6, b.K)
	assert.Equal(t, [3]int{7, 5, 1}, b.Lattice)
	assert.Equal(t, 35, b.NumNodes())
	assert.Equal(t, 3., b.Volume())
	// neighbors share their common side
	left, right := b.Conn[0], b.Conn[1]
	assert.Equal(t, left[1], right[0])
	assert.Equal(t, left[2], right[3])
	assert.Equal(t, left[5], right[7])
	x := b.ElementCoords(4, nil)
	assert.Equal(t, []float64{1, 0.5}, x[0:2])
	assert.Equal(t, []float64{2, 1}, x[4:6])
	assert.Len(t, b.Boundary(), 2*3+2*2)

	_, err = NewBlock(topology.Quad3D4, [3]int{1, 1, 1}, [3]float64{1, 1, 1})
	assert.Error(t, err)
	_, err = NewBlock(topology.Hex8, [3]int{1, 0, 1}, [3]float64{1, 1, 1})
	assert.Error(t, err)
}

func TestPerturb(t *testing.T) {
	b, err := NewBlock(topology.Hex8, [3]int{3, 3, 3}, [3]float64{1, 2, 3})
	require.NoError(t, err)
	orig := append([]float64{}, b.X...)
	b.Perturb(0.1, 5)
	moved := 0
	for g := 0; g < b.NumNodes(); g++ {
		same := true
		for i := 0; i < 3; i++ {
			d := b.X[3*g+i] - orig[3*g+i]
			h := b.L[i] / 3
			assert.LessOrEqual(t, d, 0.1*h)
			assert.GreaterOrEqual(t, d, -0.1*h)
			same = same && d == 0
		}
		if b.IsBoundaryNode(g) {
			assert.True(t, same, "boundary node %d moved", g)
		} else if !same {
			moved++
		}
	}
	assert.Equal(t, 8, moved)

	bt := b.Batch()
	assert.Equal(t, b.K, bt.K)
	assert.Equal(t, b.ElementCoords(13, nil), bt.Element(13))

	field := b.Evaluate(2, func(x, u []float64) { u[0], u[1] = x[0], x[1]+x[2] })
	g := b.Gather(13, 2, field, nil)
	x := bt.Element(13)
	assert.Equal(t, x[3*6], g[2*6])
	assert.Equal(t, x[3*6+1]+x[3*6+2], g[2*6+1])
}

func TestFaceBatch(t *testing.T) {
	b, err := NewBlock(topology.Quad2D4, [3]int{2, 1}, [3]float64{2, 1})
	require.NoError(t, err)
	sides := b.Boundary()
	require.Len(t, sides, 6)
	fb := b.FaceBatch(sides)
	assert.Equal(t, 6, fb.K)
	assert.Equal(t, 2, fb.Nodes)
	onEdge := func(a, c float64, ends ...float64) bool {
		for _, e := range ends {
			if a == e && c == e {
				return true
			}
		}
		return false
	}
	for f := 0; f < fb.K; f++ {
		x := fb.Element(f)
		assert.True(t, onEdge(x[0], x[2], 0, 2) || onEdge(x[1], x[3], 0, 1), "face %d: %v", f, x)
	}
}
