package cmd

import (
	"os"
	"strings"
	"testing"

	"github.com/notargets/gocvfem/InputParameters"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCheck(t *testing.T) {
	rows, err := RunCheck(3, false)
	require.NoError(t, err)
	assert.Len(t, rows, 12)
	for _, r := range rows {
		assert.True(t, r.Pass(), "%v %s: %+v", r.Kind, r.Role, r)
	}
}

func TestRunMetrics(t *testing.T) {
	fileInput := []byte(`
Title: Test Case
Topology: Quad2D9
Execution: teams
Teams: 3
Block:
  NX: 4
  NY: 3
  Lx: 2.
  Perturbation: 0.15
  Seed: 3
`)
	var ip InputParameters.CVFEMParameters
	if err := ip.Parse(fileInput); err != nil {
		panic(err)
	}
	ip.Print()
	for _, mode := range []string{"sequential", "lanes", "teams"} {
		ip.Execution = mode
		r, err := RunMetrics(&ip, false)
		require.NoError(t, err)
		assert.Equal(t, 12, r.Elements)
		assert.Equal(t, 9*7, r.Nodes)
		assert.InDelta(t, 2., r.Volume, 1.e-12)
		assert.Equal(t, 2., r.BlockVolume)
		assert.Greater(t, r.MinScv, 0.)
		assert.Less(t, r.NetBoundaryArea, 1.e-12)
		assert.Less(t, r.RowSumDefect, 1.e-11)
		assert.Greater(t, r.NNZ, r.Nodes)
	}
}

func TestRunProbes(t *testing.T) {
	fileInput := []byte(`
Topology: Hex8
Field: linear
Block:
  NX: 2
  NY: 2
  NZ: 2
Probes:
  - Name: diagonal
    Tail: [0., 0., 0.]
    Tip: [1., 1., 1.]
    NPoints: 11
  - Name: outside
    Tail: [2., 0., 0.]
    Tip: [3., 0., 0.]
    NPoints: 2
`)
	var ip InputParameters.CVFEMParameters
	require.NoError(t, ip.Parse(fileInput))
	dir := t.TempDir()
	paths, err := RunProbes(&ip, dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 12)
	assert.Equal(t, "t,x,y,z,u,v,w", lines[0])

	ip.Probes = nil
	_, err = RunProbes(&ip, dir)
	assert.Error(t, err)
}
