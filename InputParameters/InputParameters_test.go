package InputParameters

import (
	"testing"

	"github.com/notargets/gocvfem/execution"
	"github.com/notargets/gocvfem/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var input = []byte(`
Title: "Perturbed Hex27 block"
Topology: hex27
Execution: Teams
Teams: 4
Block:
  NX: 3
  NY: 2
  NZ: 2
  Lx: 3.0
  Perturbation: 0.1
  Seed: 7
Field: quadratic
Probes:
  - Name: diagonal
    Tail: [0.1, 0.1, 0.1]
    Tip: [2.9, 0.9, 0.9]
    NPoints: 20
    Frequency: 5
`)

func TestParse(t *testing.T) {
	var ip CVFEMParameters
	require.NoError(t, ip.Parse(input))
	assert.Equal(t, topology.Hex27, ip.Kind())
	assert.Equal(t, execution.TeamsMode, ip.Mode())
	assert.Equal(t, 4, ip.Teams)
	assert.Equal(t, BlockParameters{NX: 3, NY: 2, NZ: 2, Lx: 3, Ly: 1, Lz: 1, Perturbation: 0.1, Seed: 7}, ip.Block)
	require.Len(t, ip.Probes, 1)
	assert.Equal(t, "diagonal", ip.Probes[0].Name)
	assert.Equal(t, [3]float64{2.9, 0.9, 0.9}, ip.Probes[0].Tip)
	assert.Equal(t, 20, ip.Probes[0].NPoints)
	assert.Equal(t, `{"mode": "Serial"}`, ip.DeviceMode)

	b, err := ip.NewBlock()
	require.NoError(t, err)
	assert.Equal(t, 12, b.K)
	assert.Equal(t, [3]int{7, 5, 5}, b.Lattice)
}

func TestValidate(t *testing.T) {
	var tests = []struct {
		name, yaml string
	}{
		{"face topology", "Topology: Quad3D4"},
		{"unknown topology", "Topology: Tet4"},
		{"execution", "Topology: Quad2D4\nExecution: gpu"},
		{"field", "Topology: Quad2D4\nField: cubic"},
		{"perturbation", "Topology: Quad2D4\nBlock:\n  Perturbation: 0.6"},
		{"elements", "Topology: Quad2D4\nBlock:\n  NX: -2"},
		{"probe", "Topology: Quad2D4\nProbes:\n  - Name: empty\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ip CVFEMParameters
			assert.Error(t, ip.Parse([]byte(tt.yaml)))
		})
	}
	var ip CVFEMParameters
	require.NoError(t, ip.Parse([]byte("Topology: Quad2D9")))
	assert.Equal(t, execution.SequentialMode, ip.Mode())
	assert.Equal(t, "linear", ip.Field)
}
