package master

import (
	"sync"

	"github.com/notargets/gocvfem/metrics"
	"github.com/notargets/gocvfem/topology"
	"github.com/notargets/gocvfem/utils"
)

// MasterElement is the uniform front end of one topology and one
// integration rule. Coordinates are [node][SpatialDim], fields
// [node][component], and every output slice is caller owned.
type MasterElement interface {
	Kind() topology.Kind
	Descriptor() *topology.Descriptor
	NodesPerElement() int
	SpatialDim() int
	NumIntPoints() int
	// IntegrationLocations and IntegrationLocationShift are [ip][ParametricDim]
	IntegrationLocations() []float64
	IntegrationLocationShift() []float64
	// IpNodeMap lists the nodes adjacent to integration point ordinal: the
	// owning node of a volume or face point, the left and right nodes
	// straddling a sub-control surface point.
	IpNodeMap(ordinal int) []int
	ShapeFcn() utils.Matrix
	ShiftedShapeFcn() utils.Matrix
	ShapeDerivs() utils.Matrix
	ShiftedShapeDerivs() utils.Matrix
	Kernel() *metrics.Kernel
	ShiftedKernel() *metrics.Kernel

	// Determinant writes sub-control volumes [ip] for volume rules and area
	// vectors [ip][SpatialDim] for surface and face rules.
	//
	// Determinant, GradOp, ShiftedGradOp, FaceGradOp and Gij see a single
	// element and report a *metrics.GeometryError with Element 0. Callers
	// iterating elements relabel it with metrics.AtElement; DeterminantBatch
	// reports the batch index itself.
	Determinant(coords, out []float64) error
	GradOp(coords, gradop, deriv []float64) error
	ShiftedGradOp(coords, gradop, deriv []float64) error
	FaceGradOp(face int, coords, gradop, deriv []float64) error
	Gij(coords, gupper, glower []float64) error
	Mij(coords, metric, deriv []float64)

	InterpolatePoint(nComp int, par, field, result []float64)
	// IsInElement writes the parametric coordinates of point into par and
	// returns their max-norm, at most one for points inside the element.
	IsInElement(coords, point, par []float64) float64
	Locate(coords, point []float64) metrics.Location
	GeneralShapeFcn(npts int, par, out []float64)
	GeneralShapeDerivs(npts int, par, out []float64)
	GeneralNormal(par, coords, normal []float64)

	SideNodeOrdinals(side int) []int
	FaceIpNodeMap(face int) []int
	OpposingNodes(ordinal, node int) int
	OpposingFace(ordinal, node int) int
	AdjacentNodes() []int
	SidePcoordsToElemPcoords(side, npts int, sidePar, elemPar []float64)
	NodalVolumeMetric(coords, out []float64)
}

var (
	volumes, surfaces         [topology.NumKinds]*element
	volumeOnces, surfaceOnces [topology.NumKinds]sync.Once
)

// NewVolume returns the shared sub-control volume master element of a
// volume topology
func NewVolume(k topology.Kind) MasterElement {
	d := topology.Get(k)
	if !d.IsVolume() {
		unsupported(k, "sub-control volume integration")
	}
	volumeOnces[k].Do(func() {
		volumes[k] = newElement(d, scvRole)
	})
	return volumes[k]
}

// NewSurface returns the shared sub-control surface master element of a
// volume topology, or the face integration master element of a face
// topology
func NewSurface(k topology.Kind) MasterElement {
	d := topology.Get(k)
	surfaceOnces[k].Do(func() {
		role := scsRole
		if !d.IsVolume() {
			role = faceRole
		}
		surfaces[k] = newElement(d, role)
	})
	return surfaces[k]
}
