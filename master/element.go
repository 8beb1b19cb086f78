package master

import (
	"fmt"
	"math"

	"github.com/notargets/gocvfem/metrics"
	"github.com/notargets/gocvfem/shape"
	"github.com/notargets/gocvfem/topology"
	"github.com/notargets/gocvfem/utils"
)

type role uint8

const (
	scvRole  role = iota // sub-control volumes of a volume topology
	scsRole              // sub-control surfaces of a volume topology
	faceRole             // integration over a face topology
)

type element struct {
	role  role
	desc  *topology.Descriptor
	basis *shape.Basis

	nIps                int
	locs, shiftLocs     []float64
	weights             []float64
	direction           []int
	ipNodes             [][]int
	shp, shiftShp       utils.Matrix
	derivs, shiftDerivs utils.Matrix
	kernel, shiftKernel *metrics.Kernel
	faceKernels         []*metrics.Kernel
	faceNodes           [][]int
	sideBasis           *shape.Basis
}

func newElement(d *topology.Descriptor, r role) (el *element) {
	var (
		pd = d.ParametricDim
		rl = d.Rule
	)
	el = &element{
		role:  r,
		desc:  d,
		basis: shape.NewBasis(pd, d.Order),
	}
	switch r {
	case scvRole, faceRole:
		el.nIps = len(d.Ips)
		el.locs = make([]float64, el.nIps*pd)
		el.shiftLocs = make([]float64, el.nIps*pd)
		el.weights = make([]float64, el.nIps)
		for ip, tip := range d.Ips {
			nodes, gps := tip.Tensor[:pd], tip.Gp[:pd]
			for dir := 0; dir < pd; dir++ {
				el.locs[ip*pd+dir] = rl.GaussPointLocation(nodes[dir], gps[dir])
				el.shiftLocs[ip*pd+dir] = rl.ShiftedGaussPointLocation(nodes[dir], gps[dir])
			}
			el.weights[ip] = rl.TensorProductWeight(nodes, gps)
			el.ipNodes = append(el.ipNodes, []int{tip.Node})
		}
	case scsRole:
		el.nIps = len(d.Scs)
		el.locs = make([]float64, el.nIps*pd)
		el.shiftLocs = make([]float64, el.nIps*pd)
		el.weights = make([]float64, el.nIps)
		el.direction = make([]int, el.nIps)
		for ip, sip := range d.Scs {
			w := 1.
			for dir := 0; dir < pd; dir++ {
				if dir == sip.Direction {
					el.locs[ip*pd+dir] = rl.ScsLocation(sip.Surface)
					el.shiftLocs[ip*pd+dir] = rl.ScsLocation(sip.Surface)
					continue
				}
				el.locs[ip*pd+dir] = rl.GaussPointLocation(sip.Tensor[dir], sip.Gp[dir])
				el.shiftLocs[ip*pd+dir] = rl.ShiftedGaussPointLocation(sip.Tensor[dir], sip.Gp[dir])
				w *= rl.SegmentWeight(sip.Tensor[dir], sip.Gp[dir])
			}
			el.weights[ip] = w
			el.direction[ip] = sip.Direction
			el.ipNodes = append(el.ipNodes, []int{sip.Left, sip.Right})
		}
		el.buildFaces()
	}
	el.shp = el.table(el.locs, "shape functions")
	el.shiftShp = el.table(el.shiftLocs, "shifted shape functions")
	el.derivs = el.basis.DerivativeMatrix(el.locs)
	el.derivs.SetReadOnly(fmt.Sprintf("%v shape derivatives", d.Kind))
	el.shiftDerivs = el.basis.DerivativeMatrix(el.shiftLocs)
	el.shiftDerivs.SetReadOnly(fmt.Sprintf("%v shifted shape derivatives", d.Kind))
	el.kernel = metrics.NewKernel(d.NodesPerElement, d.SpatialDim, el.derivs, el.weights, el.direction)
	el.shiftKernel = metrics.NewKernel(d.NodesPerElement, d.SpatialDim, el.shiftDerivs, el.weights, el.direction)
	if pd > 1 {
		el.sideBasis = shape.NewBasis(pd-1, 1)
	}
	return
}

// table evaluates the shape functions at locs and validates the partition
// of unity
func (el *element) table(locs []float64, name string) (R utils.Matrix) {
	R = el.basis.ValueMatrix(locs)
	for ip, sum := range R.RowSums() {
		if math.Abs(sum-1) > utils.UnityTol {
			panic(fmt.Errorf("%v %s at ip %d sum to %.16f", el.desc.Kind, name, ip, sum))
		}
	}
	R.SetReadOnly(fmt.Sprintf("%v %s", el.desc.Kind, name))
	return
}

// buildFaces sets up the gradient kernels at the boundary face points of
// every side: the volume basis evaluated on the side, transverse
// directions at their Gauss points.
func (el *element) buildFaces() {
	var (
		d  = el.desc
		pd = d.ParametricDim
		rl = d.Rule
	)
	el.faceKernels = make([]*metrics.Kernel, d.NumSides())
	el.faceNodes = make([][]int, d.NumSides())
	for side, fips := range d.FaceIps {
		var (
			axis = d.FaceAxis[side]
			locs = make([]float64, len(fips)*pd)
			ones = make([]float64, len(fips))
		)
		for i, fip := range fips {
			for dir := 0; dir < pd; dir++ {
				if dir == axis {
					locs[i*pd+dir] = rl.NodeLocations[fip.Tensor[dir]]
				} else {
					locs[i*pd+dir] = rl.GaussPointLocation(fip.Tensor[dir], fip.Gp[dir])
				}
			}
			ones[i] = 1
			el.faceNodes[side] = append(el.faceNodes[side], fip.Node)
		}
		D := el.basis.DerivativeMatrix(locs)
		D.SetReadOnly(fmt.Sprintf("%v side %d shape derivatives", d.Kind, side))
		el.faceKernels[side] = metrics.NewKernel(d.NodesPerElement, d.SpatialDim, D, ones, nil)
	}
}

func (el *element) Kind() topology.Kind                 { return el.desc.Kind }
func (el *element) Descriptor() *topology.Descriptor    { return el.desc }
func (el *element) NodesPerElement() int                { return el.desc.NodesPerElement }
func (el *element) SpatialDim() int                     { return el.desc.SpatialDim }
func (el *element) NumIntPoints() int                   { return el.nIps }
func (el *element) IntegrationLocations() []float64     { return el.locs }
func (el *element) IntegrationLocationShift() []float64 { return el.shiftLocs }
func (el *element) IpNodeMap(ordinal int) []int         { return el.ipNodes[ordinal] }
func (el *element) ShapeFcn() utils.Matrix              { return el.shp }
func (el *element) ShiftedShapeFcn() utils.Matrix       { return el.shiftShp }
func (el *element) ShapeDerivs() utils.Matrix           { return el.derivs }
func (el *element) ShiftedShapeDerivs() utils.Matrix    { return el.shiftDerivs }
func (el *element) Kernel() *metrics.Kernel             { return el.kernel }
func (el *element) ShiftedKernel() *metrics.Kernel      { return el.shiftKernel }

func (el *element) Determinant(coords, out []float64) error {
	if el.role == scvRole {
		return el.kernel.ScvVolumes(0, coords, out)
	}
	el.kernel.AreaVectors(coords, out)
	return nil
}

func (el *element) requireVolumeKind(op string) {
	if el.role == faceRole {
		unsupported(el.desc.Kind, op)
	}
}

func (el *element) requireRole(r role, op string) {
	if el.role != r {
		unsupported(el.desc.Kind, op)
	}
}

func (el *element) GradOp(coords, gradop, deriv []float64) error {
	el.requireVolumeKind("GradOp")
	return el.kernel.GradOp(0, coords, gradop, deriv)
}

func (el *element) ShiftedGradOp(coords, gradop, deriv []float64) error {
	el.requireVolumeKind("ShiftedGradOp")
	return el.shiftKernel.GradOp(0, coords, gradop, deriv)
}

// FaceGradOp writes gradop[faceIp][node][dim] at the boundary points of
// one side
func (el *element) FaceGradOp(face int, coords, gradop, deriv []float64) error {
	el.requireRole(scsRole, "FaceGradOp")
	return el.faceKernels[face].GradOp(0, coords, gradop, deriv)
}

func (el *element) Gij(coords, gupper, glower []float64) error {
	el.requireRole(scsRole, "Gij")
	return el.kernel.Gij(0, coords, gupper, glower)
}

func (el *element) Mij(coords, metric, deriv []float64) {
	el.requireVolumeKind("Mij")
	el.kernel.Mij(coords, metric, deriv)
}

func (el *element) InterpolatePoint(nComp int, par, field, result []float64) {
	weights := make([]float64, el.desc.NodesPerElement)
	el.basis.ValuesAt(par, weights)
	metrics.Interpolate(nComp, weights, field, result)
}

func (el *element) Locate(coords, point []float64) metrics.Location {
	return el.kernel.Locate(el.basis, coords, point)
}

func (el *element) IsInElement(coords, point, par []float64) float64 {
	loc := el.Locate(coords, point)
	copy(par, loc.Par)
	return loc.Distance
}

// GeneralShapeFcn evaluates npts arbitrary points par[pt][ParametricDim]
// into out[pt][node]
func (el *element) GeneralShapeFcn(npts int, par, out []float64) {
	el.basis.Values(npts, par, out)
}

func (el *element) GeneralShapeDerivs(npts int, par, out []float64) {
	el.basis.Derivatives(npts, par, out)
}

// GeneralNormal writes the unit normal of a face at a parametric point
func (el *element) GeneralNormal(par, coords, normal []float64) {
	var (
		d      = el.desc
		jac    [3][3]float64
		derivs = make([]float64, d.NodesPerElement*d.ParametricDim)
	)
	el.requireRole(faceRole, "GeneralNormal")
	el.basis.DerivativesAt(par, derivs)
	metrics.JacobianAt(derivs, d.NodesPerElement, d.ParametricDim, d.SpatialDim, coords, &jac)
	metrics.UnitNormal(&jac, d.SpatialDim, normal)
}

func (el *element) SideNodeOrdinals(side int) []int {
	el.requireVolumeKind("SideNodeOrdinals")
	return el.desc.Sides[side]
}

// FaceIpNodeMap lists the owning node of every boundary point of a side
func (el *element) FaceIpNodeMap(face int) []int {
	el.requireRole(scsRole, "FaceIpNodeMap")
	return el.faceNodes[face]
}

// OpposingNodes is the node one step inward from the owner of face
// point node on side ordinal
func (el *element) OpposingNodes(ordinal, node int) int {
	el.requireRole(scsRole, "OpposingNodes")
	return el.desc.OppNode[ordinal][node]
}

// OpposingFace is the sub-control surface point facing face point node on
// side ordinal across its control volume
func (el *element) OpposingFace(ordinal, node int) int {
	el.requireRole(scsRole, "OpposingFace")
	return el.desc.OppFace[ordinal][node]
}

// AdjacentNodes lists left and right node pairs of all surface points
func (el *element) AdjacentNodes() []int {
	el.requireRole(scsRole, "AdjacentNodes")
	return el.desc.Lrscv
}

// SidePcoordsToElemPcoords maps npts side parametric points [pt][pd-1] to
// element parametric points [pt][pd] through the side's corners
func (el *element) SidePcoordsToElemPcoords(side, npts int, sidePar, elemPar []float64) {
	el.requireVolumeKind("SidePcoordsToElemPcoords")
	var (
		d       = el.desc
		pd      = d.ParametricDim
		corners = el.desc.Sides[side][:el.sideBasis.NumNodes]
		w       = make([]float64, len(corners))
	)
	for pt := 0; pt < npts; pt++ {
		el.sideBasis.ValuesAt(sidePar[pt*(pd-1):(pt+1)*(pd-1)], w)
		out := elemPar[pt*pd : (pt+1)*pd]
		for dir := range out {
			out[dir] = 0
		}
		for c, n := range corners {
			for dir := 0; dir < pd; dir++ {
				out[dir] += w[c] * d.RefLocations[n*pd+dir]
			}
		}
	}
}

// NodalVolumeMetric writes the Jacobian determinant of the element's
// multilinear corner map at every node
func (el *element) NodalVolumeMetric(coords, out []float64) {
	el.requireVolumeKind("NodalVolumeMetric")
	metrics.LinearVolumeMetric(el.desc.ParametricDim, el.desc.RefLocations, coords, out)
}
