package quadrature

import (
	"fmt"
)

// Rule is the one dimensional CVFEM quadrature for a polynomial order p.
// The reference segment [-1,1] carries p+1 nodes. The sub-control surfaces
// sit at the p Gauss-Legendre points, splitting the segment into p+1
// sub-segments, one per node, each integrated with NumQuad Gauss points.
type Rule struct {
	Order          int
	Nodes1D        int
	NumQuad        int
	NodeLocations  []float64
	ScsEndLoc      []float64 // len Nodes1D+1, sub-segment boundaries
	GaussAbscissae []float64 // on [-1,1]
	GaussWeights   []float64 // sum to one over a sub-segment
}

func NewRule(order int) (r *Rule) {
	var (
		nodeLocs []float64
	)
	switch order {
	case 1:
		nodeLocs = []float64{-1, 1}
	case 2:
		nodeLocs = []float64{-1, 0, 1}
	default:
		panic(fmt.Errorf("polynomial order %d is not implemented, supported orders are 1 and 2", order))
	}
	r = &Rule{
		Order:         order,
		Nodes1D:       order + 1,
		NumQuad:       order,
		NodeLocations: nodeLocs,
	}
	scs, _ := GaussLegendre(order)
	r.ScsEndLoc = make([]float64, 0, order+2)
	r.ScsEndLoc = append(r.ScsEndLoc, -1)
	r.ScsEndLoc = append(r.ScsEndLoc, scs...)
	r.ScsEndLoc = append(r.ScsEndLoc, 1)
	var w []float64
	r.GaussAbscissae, w = GaussLegendre(r.NumQuad)
	r.GaussWeights = make([]float64, r.NumQuad)
	for i := range w {
		r.GaussWeights[i] = 0.5 * w[i]
	}
	return
}

// NumScs is the number of interior sub-control surfaces along one direction
func (r *Rule) NumScs() int { return r.Nodes1D - 1 }

// ScsLocation is the parametric location of interior surface m, which
// separates node m from node m+1.
func (r *Rule) ScsLocation(m int) float64 { return r.ScsEndLoc[m+1] }

func (r *Rule) GaussPointLocation(nodeOrdinal, gaussPointOrdinal int) float64 {
	var (
		a, b = r.ScsEndLoc[nodeOrdinal], r.ScsEndLoc[nodeOrdinal+1]
	)
	return 0.5*(b+a) + 0.5*(b-a)*r.GaussAbscissae[gaussPointOrdinal]
}

// ShiftedGaussPointLocation moves every Gauss point of a sub-segment onto
// the node that owns it.
func (r *Rule) ShiftedGaussPointLocation(nodeOrdinal, gaussPointOrdinal int) float64 {
	return r.NodeLocations[nodeOrdinal]
}

// SegmentWeight is the isoparametric length of a sub-segment times the
// Gauss weight of one of its points.
func (r *Rule) SegmentWeight(nodeOrdinal, gaussPointOrdinal int) float64 {
	return (r.ScsEndLoc[nodeOrdinal+1] - r.ScsEndLoc[nodeOrdinal]) * r.GaussWeights[gaussPointOrdinal]
}

func (r *Rule) TensorProductWeight(nodes, gps []int) (w float64) {
	if len(nodes) != len(gps) {
		panic(fmt.Errorf("tensor product weight: %d nodes but %d gauss points", len(nodes), len(gps)))
	}
	w = 1
	for i := range nodes {
		w *= r.SegmentWeight(nodes[i], gps[i])
	}
	return
}
