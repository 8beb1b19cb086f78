package topology

import (
	"fmt"
	"sync"

	"github.com/notargets/gocvfem/quadrature"
)

// TensorIp locates an integration point owned by a single node: the node's
// tensor indices and the Gauss point index within each of its sub-segments.
// Directions fixed by a face are carried in Tensor with Gp unused.
type TensorIp struct {
	Node   int
	Tensor [3]int
	Gp     [3]int
}

// ScsIp is an integration point on an interior sub-control surface. The
// surface is normal to parametric Direction and separates tensor index
// Surface from Surface+1 along it. The area vector points Left to Right.
type ScsIp struct {
	Direction   int
	Surface     int
	Tensor      [3]int // node indices of Left, Tensor[Direction] == Surface
	Gp          [3]int
	Left, Right int
}

type Descriptor struct {
	Kind            Kind
	SpatialDim      int
	ParametricDim   int
	Order           int
	Nodes1D         int
	NodesPerElement int
	FaceKind        Kind // NumKinds when the topology is itself a face
	Rule            *quadrature.Rule
	Map             *quadrature.NodeMap
	RefLocations    []float64 // [node][ParametricDim]

	// Ips integrate over the parametric space: sub-control volumes of volume
	// kinds, face integration of face kinds
	Ips []TensorIp

	// Volume kinds only
	Scs      []ScsIp
	Lrscv    []int // [2*ip], left then right
	Sides    [][]int
	FaceAxis []int
	FaceSign []int
	FaceIps  [][]TensorIp // [side][faceIp]
	OppNode  [][]int      // [side][faceIp]
	OppFace  [][]int      // [side][faceIp] scs ip ordinal
}

var (
	descriptors [NumKinds]*Descriptor
	onces       [NumKinds]sync.Once
)

// Get returns the shared, read-only descriptor of a topology
func Get(k Kind) *Descriptor {
	if k >= NumKinds {
		panic(fmt.Errorf("topology %v is not implemented", k))
	}
	onces[k].Do(func() {
		descriptors[k] = newDescriptor(k)
	})
	return descriptors[k]
}

func (d *Descriptor) IsVolume() bool { return d.ParametricDim == d.SpatialDim }

func (d *Descriptor) NumScvIp() int { return len(d.Ips) }

func (d *Descriptor) NumScsIp() int { return len(d.Scs) }

func (d *Descriptor) NumSides() int { return len(d.Sides) }

func (d *Descriptor) IpsPerFace() int {
	if len(d.FaceIps) == 0 {
		return 0
	}
	return len(d.FaceIps[0])
}

func newDescriptor(k Kind) (d *Descriptor) {
	var (
		tr = kindTraits[k]
	)
	d = &Descriptor{
		Kind:          k,
		SpatialDim:    tr.spatialDim,
		ParametricDim: tr.parametricDim,
		Order:         tr.order,
		Nodes1D:       tr.order + 1,
		FaceKind:      tr.faceKind,
		Rule:          quadrature.NewRule(tr.order),
		Map:           quadrature.NewNodeMap(tr.parametricDim, tr.order),
	}
	d.NodesPerElement = d.Map.NumNodes()
	d.RefLocations = make([]float64, d.NodesPerElement*d.ParametricDim)
	for n := 0; n < d.NodesPerElement; n++ {
		t := d.Map.Tensor(n)
		for dir := 0; dir < d.ParametricDim; dir++ {
			d.RefLocations[n*d.ParametricDim+dir] = d.Rule.NodeLocations[t[dir]]
		}
	}
	d.Ips = d.tensorIps(-1, 0)
	if !d.IsVolume() {
		return
	}
	d.setInteriorInfo()
	d.setBoundaryInfo()
	return
}

// transverse returns the parametric directions other than dir, ascending
func (d *Descriptor) transverse(dir int) (dirs []int) {
	for i := 0; i < d.ParametricDim; i++ {
		if i != dir {
			dirs = append(dirs, i)
		}
	}
	return
}

// tensorIps enumerates node owned points over the free directions, slowest
// direction outermost, nodes before Gauss points. A fixed direction (>=0)
// is pinned to tensor index fixedIndex.
func (d *Descriptor) tensorIps(fixed, fixedIndex int) (ips []TensorIp) {
	var (
		free = d.transverse(fixed)
		nf   = len(free)
		n, q = d.Nodes1D, d.Rule.NumQuad
	)
	nodeCount, gpCount := 1, 1
	for i := 0; i < nf; i++ {
		nodeCount *= n
		gpCount *= q
	}
	for nn := 0; nn < nodeCount; nn++ {
		for gg := 0; gg < gpCount; gg++ {
			var ip TensorIp
			if fixed >= 0 {
				ip.Tensor[fixed] = fixedIndex
			}
			nr, gr := nn, gg
			for i := 0; i < nf; i++ {
				ip.Tensor[free[i]] = nr % n
				ip.Gp[free[i]] = gr % q
				nr /= n
				gr /= q
			}
			ip.Node = d.Map.Ordinal(ip.Tensor[:d.ParametricDim]...)
			ips = append(ips, ip)
		}
	}
	return
}

func (d *Descriptor) setInteriorInfo() {
	for dir := 0; dir < d.ParametricDim; dir++ {
		for m := 0; m < d.Rule.NumScs(); m++ {
			for _, tip := range d.tensorIps(dir, m) {
				ip := ScsIp{
					Direction: dir,
					Surface:   m,
					Tensor:    tip.Tensor,
					Gp:        tip.Gp,
					Left:      tip.Node,
				}
				right := tip.Tensor
				right[dir] = m + 1
				ip.Right = d.Map.Ordinal(right[:d.ParametricDim]...)
				d.Scs = append(d.Scs, ip)
				d.Lrscv = append(d.Lrscv, ip.Left, ip.Right)
			}
		}
	}
}

type scsKey struct {
	dir, m int
	tensor [3]int
	gp     [3]int
}

func (d *Descriptor) setBoundaryInfo() {
	var (
		lookup = make(map[scsKey]int, len(d.Scs))
		p      = d.Order
	)
	for i, ip := range d.Scs {
		key := scsKey{ip.Direction, ip.Surface, ip.Tensor, ip.Gp}
		key.tensor[ip.Direction] = 0
		lookup[key] = i
	}
	switch d.Kind {
	case Quad2D4:
		d.Sides, d.FaceAxis, d.FaceSign = quad4Sides, quadFaceAxis, quadFaceSign
	case Quad2D9:
		d.Sides, d.FaceAxis, d.FaceSign = quad9Sides, quadFaceAxis, quadFaceSign
	case Hex8:
		d.Sides, d.FaceAxis, d.FaceSign = hex8Sides, hexFaceAxis, hexFaceSign
	case Hex27:
		d.Sides, d.FaceAxis, d.FaceSign = hex27Sides, hexFaceAxis, hexFaceSign
	}
	nSides := len(d.Sides)
	d.FaceIps = make([][]TensorIp, nSides)
	d.OppNode = make([][]int, nSides)
	d.OppFace = make([][]int, nSides)
	for side := 0; side < nSides; side++ {
		var (
			axis          = d.FaceAxis[side]
			boundary, inw = 0, 1
			m             = 0
		)
		if d.FaceSign[side] > 0 {
			boundary, inw, m = p, p-1, p-1
		}
		d.FaceIps[side] = d.tensorIps(axis, boundary)
		for _, fip := range d.FaceIps[side] {
			opp := fip.Tensor
			opp[axis] = inw
			d.OppNode[side] = append(d.OppNode[side], d.Map.Ordinal(opp[:d.ParametricDim]...))
			key := scsKey{axis, m, fip.Tensor, fip.Gp}
			key.tensor[axis] = 0
			ord, ok := lookup[key]
			if !ok {
				panic(fmt.Errorf("%v side %d: no sub-control surface opposes face ip %v", d.Kind, side, fip))
			}
			d.OppFace[side] = append(d.OppFace[side], ord)
		}
	}
}
