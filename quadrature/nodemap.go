package quadrature

import (
	"fmt"
)

// NodeMap converts tensor-product node indices into the element node
// ordinals of the mesh numbering (corner nodes first, then edge, face and
// volume nodes).
type NodeMap struct {
	Dim     int
	Nodes1D int
	ordinal []int // indexed i + n*(j + n*k)
	tensor  [][3]int
}

var (
	lineMaps = map[int][]int{
		1: {0, 1},
		2: {0, 2, 1},
	}
	quadMaps = map[int][]int{ // stored [j][i]
		1: {
			0, 1,
			3, 2,
		},
		2: {
			0, 4, 1, // bottom row of nodes
			7, 8, 5, // middle row of nodes
			3, 6, 2, // top row of nodes
		},
	}
	hexMaps = map[int][]int{ // stored [k][j][i]
		1: {
			0, 1,
			3, 2,

			4, 5,
			7, 6,
		},
		2: {
			0, 8, 1,
			11, 21, 9,
			3, 10, 2,

			12, 25, 13,
			23, 20, 24,
			15, 26, 14,

			4, 16, 5,
			19, 22, 17,
			7, 18, 6,
		},
	}
)

func NewNodeMap(dim, order int) (nm *NodeMap) {
	var (
		table []int
		ok    bool
	)
	switch dim {
	case 1:
		table, ok = lineMaps[order]
	case 2:
		table, ok = quadMaps[order]
	case 3:
		table, ok = hexMaps[order]
	}
	if !ok {
		panic(fmt.Errorf("no tensor node map for dimension %d, order %d", dim, order))
	}
	nm = &NodeMap{
		Dim:     dim,
		Nodes1D: order + 1,
		ordinal: table,
		tensor:  make([][3]int, len(table)),
	}
	n := nm.Nodes1D
	for ind, ord := range table {
		i := ind % n
		j := (ind / n) % n
		k := ind / (n * n)
		nm.tensor[ord] = [3]int{i, j, k}
	}
	return
}

func (nm *NodeMap) NumNodes() int { return len(nm.ordinal) }

// Ordinal takes as many tensor indices as the map has dimensions
func (nm *NodeMap) Ordinal(ijk ...int) int {
	var (
		ind, stride = 0, 1
	)
	if len(ijk) != nm.Dim {
		panic(fmt.Errorf("node map of dimension %d indexed with %d indices", nm.Dim, len(ijk)))
	}
	for _, i := range ijk {
		ind += i * stride
		stride *= nm.Nodes1D
	}
	return nm.ordinal[ind]
}

// Tensor inverts Ordinal, unused trailing indices are zero
func (nm *NodeMap) Tensor(ordinal int) [3]int { return nm.tensor[ordinal] }
