package metrics

import (
	"fmt"
)

// Invert inverts a square Jacobian of dimension dim, returning its
// determinant. inv is left untouched when det is zero.
func Invert(jac *[3][3]float64, dim int, inv *[3][3]float64) (det float64) {
	det = Determinant(jac, dim)
	if det == 0 {
		return
	}
	switch dim {
	case 1:
		inv[0][0] = 1 / det
	case 2:
		inv[0][0] = jac[1][1] / det
		inv[0][1] = -jac[0][1] / det
		inv[1][0] = -jac[1][0] / det
		inv[1][1] = jac[0][0] / det
	case 3:
		inv[0][0] = (jac[1][1]*jac[2][2] - jac[1][2]*jac[2][1]) / det
		inv[0][1] = (jac[0][2]*jac[2][1] - jac[0][1]*jac[2][2]) / det
		inv[0][2] = (jac[0][1]*jac[1][2] - jac[0][2]*jac[1][1]) / det
		inv[1][0] = (jac[1][2]*jac[2][0] - jac[1][0]*jac[2][2]) / det
		inv[1][1] = (jac[0][0]*jac[2][2] - jac[0][2]*jac[2][0]) / det
		inv[1][2] = (jac[0][2]*jac[1][0] - jac[0][0]*jac[1][2]) / det
		inv[2][0] = (jac[1][0]*jac[2][1] - jac[1][1]*jac[2][0]) / det
		inv[2][1] = (jac[0][1]*jac[2][0] - jac[0][0]*jac[2][1]) / det
		inv[2][2] = (jac[0][0]*jac[1][1] - jac[0][1]*jac[1][0]) / det
	}
	return
}

// GradOp writes the physical shape function gradients gradop[ip][node][dim]
// and copies the parametric derivatives into deriv[ip][node][dim].
func (k *Kernel) GradOp(elem int, coords, gradop, deriv []float64) (err error) {
	var (
		jac, inv [3][3]float64
		dim      = k.SpatialDim
		stride   = k.Nodes * dim
		tol      float64
	)
	if k.ParametricDim != k.SpatialDim {
		panic(fmt.Errorf("gradient operator needs a volume rule, have %dD in %dD", k.ParametricDim, k.SpatialDim))
	}
	k.checkCoords(coords)
	tol = DetTolerance(ElementScale(coords, k.Nodes, dim), dim)
	copy(deriv[:k.NumIps*stride], k.Deriv)
	for ip := 0; ip < k.NumIps; ip++ {
		k.Jacobian(ip, coords, &jac)
		det := Invert(&jac, dim, &inv)
		if err = CheckDeterminant(elem, ip, det, tol); err != nil {
			return
		}
		dN := k.Deriv[ip*stride : (ip+1)*stride]
		g := gradop[ip*stride : (ip+1)*stride]
		for n := 0; n < k.Nodes; n++ {
			for i := 0; i < dim; i++ {
				var sum float64
				for j := 0; j < dim; j++ {
					sum += inv[j][i] * dN[n*dim+j]
				}
				g[n*dim+i] = sum
			}
		}
	}
	return
}
