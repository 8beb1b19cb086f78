package geometry

import (
	"fmt"
	"math/rand"

	"github.com/notargets/gocvfem/execution"
	"github.com/notargets/gocvfem/topology"
)

// Block is a structured NX x NY (x NZ) block of tensor product elements of
// one volume topology over [0,Lx] x [0,Ly] (x [0,Lz]). Nodes are shared
// between neighboring elements on a lattice of Order*N+1 points per
// direction.
type Block struct {
	Kind    topology.Kind
	Desc    *topology.Descriptor
	Dim     int
	N       [3]int     // elements per direction
	L       [3]float64 // block lengths
	Lattice [3]int     // lattice nodes per direction
	K       int        // number of elements
	X       []float64  // [node][Dim] global coordinates
	Conn    [][]int    // [k][element node] global node
}

func NewBlock(kind topology.Kind, n [3]int, l [3]float64) (b *Block, err error) {
	if kind >= topology.NumKinds {
		err = fmt.Errorf("unknown topology %v", kind)
		return
	}
	d := topology.Get(kind)
	if !d.IsVolume() {
		err = fmt.Errorf("a block needs a volume topology, %v is a face topology", kind)
		return
	}
	b = &Block{
		Kind: kind,
		Desc: d,
		Dim:  d.SpatialDim,
		N:    [3]int{1, 1, 1},
		L:    [3]float64{1, 1, 1},
		K:    1,
	}
	for i := 0; i < b.Dim; i++ {
		if n[i] < 1 || !(l[i] > 0) {
			err = fmt.Errorf("direction %d: need at least one element and a positive length, have %d and %g", i, n[i], l[i])
			return nil, err
		}
		b.N[i], b.L[i] = n[i], l[i]
		b.K *= n[i]
	}
	for i := 0; i < 3; i++ {
		b.Lattice[i] = 1
		if i < b.Dim {
			b.Lattice[i] = d.Order*b.N[i] + 1
		}
	}
	b.X = make([]float64, b.NumNodes()*b.Dim)
	for g := 0; g < b.NumNodes(); g++ {
		ijk := b.latticeIndex(g)
		for i := 0; i < b.Dim; i++ {
			b.X[g*b.Dim+i] = b.L[i] * float64(ijk[i]) / float64(b.Lattice[i]-1)
		}
	}
	b.Conn = make([][]int, b.K)
	for k := 0; k < b.K; k++ {
		e := b.elementIndex(k)
		b.Conn[k] = make([]int, d.NodesPerElement)
		for n := range b.Conn[k] {
			t := d.Map.Tensor(n)
			var ijk [3]int
			for i := 0; i < b.Dim; i++ {
				ijk[i] = d.Order*e[i] + t[i]
			}
			b.Conn[k][n] = b.globalNode(ijk)
		}
	}
	return
}

func (b *Block) NumNodes() int { return b.Lattice[0] * b.Lattice[1] * b.Lattice[2] }

// Volume is the measure of the undisturbed block
func (b *Block) Volume() (v float64) {
	v = 1
	for i := 0; i < b.Dim; i++ {
		v *= b.L[i]
	}
	return
}

func (b *Block) globalNode(ijk [3]int) int {
	return ijk[0] + b.Lattice[0]*(ijk[1]+b.Lattice[1]*ijk[2])
}

func (b *Block) latticeIndex(g int) (ijk [3]int) {
	ijk[0] = g % b.Lattice[0]
	g /= b.Lattice[0]
	ijk[1] = g % b.Lattice[1]
	ijk[2] = g / b.Lattice[1]
	return
}

// elementIndex returns the element's position in the block, x fastest
func (b *Block) elementIndex(k int) (e [3]int) {
	e[0] = k % b.N[0]
	k /= b.N[0]
	e[1] = k % b.N[1]
	e[2] = k / b.N[1]
	return
}

// IsBoundaryNode reports whether a global node lies on the block boundary
func (b *Block) IsBoundaryNode(g int) bool {
	ijk := b.latticeIndex(g)
	for i := 0; i < b.Dim; i++ {
		if ijk[i] == 0 || ijk[i] == b.Lattice[i]-1 {
			return true
		}
	}
	return false
}

// Perturb moves every interior node by up to amplitude times the lattice
// spacing in each direction. Boundary nodes stay put.
func (b *Block) Perturb(amplitude float64, seed int64) {
	if amplitude == 0 {
		return
	}
	rnd := rand.New(rand.NewSource(seed))
	for g := 0; g < b.NumNodes(); g++ {
		if b.IsBoundaryNode(g) {
			continue
		}
		for i := 0; i < b.Dim; i++ {
			h := b.L[i] / float64(b.Lattice[i]-1)
			b.X[g*b.Dim+i] += amplitude * h * (2*rnd.Float64() - 1)
		}
	}
}

// ElementCoords gathers the nodal coordinates of element k into dst,
// allocating when dst is too short
func (b *Block) ElementCoords(k int, dst []float64) []float64 {
	n := b.Desc.NodesPerElement * b.Dim
	if len(dst) < n {
		dst = make([]float64, n)
	}
	for j, g := range b.Conn[k] {
		copy(dst[j*b.Dim:(j+1)*b.Dim], b.X[g*b.Dim:(g+1)*b.Dim])
	}
	return dst[:n]
}

// Gather copies a nodal field [globalNode][nComp] into element order
func (b *Block) Gather(k, nComp int, field, dst []float64) []float64 {
	n := b.Desc.NodesPerElement * nComp
	if len(dst) < n {
		dst = make([]float64, n)
	}
	for j, g := range b.Conn[k] {
		copy(dst[j*nComp:(j+1)*nComp], field[g*nComp:(g+1)*nComp])
	}
	return dst[:n]
}

// Batch gathers the coordinates of every element
func (b *Block) Batch() (bt execution.Batch) {
	bt = execution.NewBatch(b.K, b.Desc.NodesPerElement, b.Dim)
	for k := 0; k < b.K; k++ {
		b.ElementCoords(k, bt.Element(k))
	}
	return
}

// Side is one element side
type Side struct {
	Element, Side int
}

// Boundary lists the element sides lying on the block boundary
func (b *Block) Boundary() (sides []Side) {
	d := b.Desc
	for k := 0; k < b.K; k++ {
		e := b.elementIndex(k)
		for side := 0; side < d.NumSides(); side++ {
			axis := d.FaceAxis[side]
			if (d.FaceSign[side] < 0 && e[axis] == 0) || (d.FaceSign[side] > 0 && e[axis] == b.N[axis]-1) {
				sides = append(sides, Side{Element: k, Side: side})
			}
		}
	}
	return
}

// FaceBatch gathers the coordinates of the given sides into a batch of the
// face topology
func (b *Block) FaceBatch(sides []Side) (bt execution.Batch) {
	var (
		d     = b.Desc
		nodes = len(d.Sides[0])
	)
	bt = execution.NewBatch(len(sides), nodes, b.Dim)
	for f, s := range sides {
		dst := bt.Element(f)
		for j, n := range d.Sides[s.Side] {
			g := b.Conn[s.Element][n]
			copy(dst[j*b.Dim:(j+1)*b.Dim], b.X[g*b.Dim:(g+1)*b.Dim])
		}
	}
	return
}

// Evaluate samples fn at every node into a field [node][nComp]
func (b *Block) Evaluate(nComp int, fn func(x, u []float64)) (field []float64) {
	field = make([]float64, b.NumNodes()*nComp)
	for g := 0; g < b.NumNodes(); g++ {
		fn(b.X[g*b.Dim:(g+1)*b.Dim], field[g*nComp:(g+1)*nComp])
	}
	return
}
