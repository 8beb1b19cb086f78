package metrics

import (
	"fmt"
	"math"

	"github.com/notargets/gocvfem/utils"
)

// Kernel holds the constant tables of one integration rule of one topology,
// everything a metric evaluation needs besides the nodal coordinates.
type Kernel struct {
	Nodes         int
	SpatialDim    int
	ParametricDim int
	NumIps        int
	Deriv         []float64 // [ip][node][ParametricDim]
	Weights       []float64 // [ip]
	// Direction is the normal parametric direction of each interior
	// sub-control surface point, nil for volume and face rules
	Direction []int
}

func NewKernel(nodes, spatialDim int, deriv utils.Matrix, weights []float64, direction []int) (k *Kernel) {
	var (
		nr, nc = deriv.Dims()
	)
	if nc%nodes != 0 {
		panic(fmt.Errorf("derivative table has %d columns, not a multiple of %d nodes", nc, nodes))
	}
	k = &Kernel{
		Nodes:         nodes,
		SpatialDim:    spatialDim,
		ParametricDim: nc / nodes,
		NumIps:        nr,
		Deriv:         deriv.Data(),
		Weights:       weights,
		Direction:     direction,
	}
	if len(weights) != nr || (direction != nil && len(direction) != nr) {
		panic(fmt.Errorf("kernel tables disagree: %d ips, %d weights, %d directions", nr, len(weights), len(direction)))
	}
	return
}

// CoordStride is the number of coordinates of one element
func (k *Kernel) CoordStride() int { return k.Nodes * k.SpatialDim }

func (k *Kernel) checkCoords(coords []float64) {
	if len(coords) < k.CoordStride() {
		panic(fmt.Errorf("element coordinates have %d values, need %d", len(coords), k.CoordStride()))
	}
}

// Jacobian fills jac[i][j] = dx_i/dxi_j at integration point ip
func (k *Kernel) Jacobian(ip int, coords []float64, jac *[3][3]float64) {
	JacobianAt(k.Deriv[ip*k.Nodes*k.ParametricDim:(ip+1)*k.Nodes*k.ParametricDim],
		k.Nodes, k.ParametricDim, k.SpatialDim, coords, jac)
}

// JacobianAt contracts one point's derivative weights [node][pdim] with
// the nodal coordinates [node][sdim]
func JacobianAt(deriv []float64, nodes, pdim, sdim int, coords []float64, jac *[3][3]float64) {
	*jac = [3][3]float64{}
	for n := 0; n < nodes; n++ {
		for i := 0; i < sdim; i++ {
			x := coords[n*sdim+i]
			for j := 0; j < pdim; j++ {
				jac[i][j] += x * deriv[n*pdim+j]
			}
		}
	}
}

func Determinant(jac *[3][3]float64, dim int) float64 {
	switch dim {
	case 1:
		return jac[0][0]
	case 2:
		return jac[0][0]*jac[1][1] - jac[0][1]*jac[1][0]
	default:
		return jac[0][0]*(jac[1][1]*jac[2][2]-jac[1][2]*jac[2][1]) -
			jac[0][1]*(jac[1][0]*jac[2][2]-jac[1][2]*jac[2][0]) +
			jac[0][2]*(jac[1][0]*jac[2][1]-jac[1][1]*jac[2][0])
	}
}

// ElementScale is the diagonal of the nodal coordinate bounding box
func ElementScale(coords []float64, nodes, dim int) float64 {
	var (
		lo, hi = [3]float64{}, [3]float64{}
		sum    float64
	)
	for i := 0; i < dim; i++ {
		lo[i], hi[i] = math.Inf(1), math.Inf(-1)
	}
	for n := 0; n < nodes; n++ {
		for i := 0; i < dim; i++ {
			x := coords[n*dim+i]
			lo[i] = math.Min(lo[i], x)
			hi[i] = math.Max(hi[i], x)
		}
	}
	for i := 0; i < dim; i++ {
		sum += (hi[i] - lo[i]) * (hi[i] - lo[i])
	}
	return math.Sqrt(sum)
}

// DetTolerance is the smallest acceptable determinant for an element of the
// given length scale
func DetTolerance(scale float64, dim int) float64 {
	return utils.JacobianTol * math.Pow(scale, float64(dim))
}

// CheckDeterminant returns a GeometryError unless det exceeds tol
func CheckDeterminant(elem, ip int, det, tol float64) error {
	if !(det > tol) {
		return &GeometryError{Element: elem, Ip: ip, Det: det, Tol: tol}
	}
	return nil
}
