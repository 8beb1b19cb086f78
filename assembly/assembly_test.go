package assembly

import (
	"errors"
	"testing"

	"github.com/notargets/gocvfem/execution"
	"github.com/notargets/gocvfem/geometry"
	"github.com/notargets/gocvfem/master"
	"github.com/notargets/gocvfem/metrics"
	"github.com/notargets/gocvfem/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestDiffusion(t *testing.T) {
	for _, k := range topology.VolumeKinds() {
		t.Run(k.String(), func(t *testing.T) {
			b, err := geometry.NewBlock(k, [3]int{3, 2, 2}, [3]float64{1.5, 1, 0.5})
			require.NoError(t, err)
			b.Perturb(0.1, 1)
			for _, ex := range []execution.Executor{execution.NewSequential(), execution.NewTeams(4)} {
				A, err := Diffusion(b, master.NewSurface(k), ex)
				require.NoError(t, err)
				nr, nc := A.Dims()
				assert.Equal(t, b.NumNodes(), nr)
				assert.Equal(t, b.NumNodes(), nc)
				assert.Less(t, RowSumDefect(A), 1.e-12*A.MaxAbs())
				// a linear field carries no net flux out of an interior
				// control volume
				phi := b.Evaluate(1, func(x, u []float64) {
					u[0] = 0.5
					for i := range x {
						u[0] += float64(i+1) * x[i]
					}
				})
				y := Apply(A, phi)
				for g, v := range y {
					if !b.IsBoundaryNode(g) {
						assert.InDeltaf(t, 0., v, 1.e-11, "node %d", g)
					}
				}
				// the operator is positive on its diagonal
				for g := 0; g < nr; g++ {
					assert.Greater(t, A.At(g, g), 0.)
				}
			}
		})
	}
}

func TestLumped(t *testing.T) {
	for _, k := range topology.VolumeKinds() {
		t.Run(k.String(), func(t *testing.T) {
			b, err := geometry.NewBlock(k, [3]int{2, 3, 2}, [3]float64{2, 3, 1})
			require.NoError(t, err)
			vol, err := Lumped(b, master.NewVolume(k), execution.NewLanes[float64]())
			require.NoError(t, err)
			assert.InEpsilon(t, b.Volume(), floats.Sum(vol), 1.e-12)
			for _, v := range vol {
				assert.Greater(t, v, 0.)
			}
			_, err = Lumped(b, master.NewSurface(k), execution.NewSequential())
			assert.Error(t, err)
		})
	}
	// interior perturbation keeps the area of a 2D block
	b, err := geometry.NewBlock(topology.Quad2D9, [3]int{4, 4}, [3]float64{1, 1})
	require.NoError(t, err)
	b.Perturb(0.15, 9)
	vol, err := Lumped(b, master.NewVolume(topology.Quad2D9), execution.NewTeams(2))
	require.NoError(t, err)
	assert.InEpsilon(t, 1., floats.Sum(vol), 1.e-12)
}

func TestInvertedBlock(t *testing.T) {
	b, err := geometry.NewBlock(topology.Quad2D4, [3]int{2, 2}, [3]float64{1, 1})
	require.NoError(t, err)
	// push the center node past its neighbors
	center := 4
	b.X[2*center] = 2
	_, err = Diffusion(b, master.NewSurface(topology.Quad2D4), execution.NewSequential())
	require.Error(t, err)
	var gerr *metrics.GeometryError
	assert.True(t, errors.As(err, &gerr))
}
