package master

import (
	"math"

	"github.com/notargets/gocvfem/topology"
)

// UnityDefect is the largest partition of unity defect over the standard
// and shifted shape function tables
func UnityDefect(me MasterElement) (defect float64) {
	for _, shp := range []interface{ RowSums() []float64 }{me.ShapeFcn(), me.ShiftedShapeFcn()} {
		for _, s := range shp.RowSums() {
			defect = math.Max(defect, math.Abs(s-1))
		}
	}
	return
}

// ClosureDefect sums the outward area vectors bounding each sub-control
// volume of a volume element, interior surfaces plus boundary faces, and
// returns the largest component. It vanishes for closed control volumes.
func ClosureDefect(k topology.Kind, coords []float64) (defect float64, err error) {
	var (
		scs  = NewSurface(k)
		d    = scs.Descriptor()
		sd   = d.SpatialDim
		av   = make([]float64, scs.NumIntPoints()*sd)
		sums = make([]float64, d.NodesPerElement*sd)
	)
	if err = scs.Determinant(coords, av); err != nil {
		return
	}
	for ip := 0; ip < scs.NumIntPoints(); ip++ {
		lr := scs.IpNodeMap(ip)
		for i := 0; i < sd; i++ {
			sums[lr[0]*sd+i] += av[ip*sd+i]
			sums[lr[1]*sd+i] -= av[ip*sd+i]
		}
	}
	var (
		face   = NewSurface(d.FaceKind)
		faceAv = make([]float64, face.NumIntPoints()*sd)
		fc     = make([]float64, face.NodesPerElement()*sd)
	)
	for side := 0; side < d.NumSides(); side++ {
		nodes := scs.SideNodeOrdinals(side)
		for j, n := range nodes {
			copy(fc[j*sd:(j+1)*sd], coords[n*sd:(n+1)*sd])
		}
		if err = face.Determinant(fc, faceAv); err != nil {
			return
		}
		for ip := 0; ip < face.NumIntPoints(); ip++ {
			n := nodes[face.IpNodeMap(ip)[0]]
			for i := 0; i < sd; i++ {
				sums[n*sd+i] += faceAv[ip*sd+i]
			}
		}
	}
	for _, s := range sums {
		defect = math.Max(defect, math.Abs(s))
	}
	return
}
