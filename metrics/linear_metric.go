package metrics

import (
	"github.com/notargets/gocvfem/shape"
)

// LinearVolumeMetric evaluates, at every node of a tensor product element,
// the Jacobian determinant of the multilinear map through the element's
// corner nodes only. Corners are the first 2^dim nodes in both linear and
// quadratic numberings. refLocations is [node][dim].
func LinearVolumeMetric(dim int, refLocations, coords, out []float64) {
	var (
		linear  = shape.NewBasis(dim, 1)
		corners = linear.NumNodes
		derivs  = make([]float64, corners*dim)
		jac     [3][3]float64
		nodes   = len(refLocations) / dim
	)
	for n := 0; n < nodes; n++ {
		linear.DerivativesAt(refLocations[n*dim:(n+1)*dim], derivs)
		JacobianAt(derivs, corners, dim, dim, coords, &jac)
		out[n] = Determinant(&jac, dim)
	}
}
