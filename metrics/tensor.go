package metrics

import (
	"fmt"
)

// Gij writes the contravariant metric gUpper = J J^T and its inverse, the
// covariant gLower, [ip][dim][dim] at every point.
func (k *Kernel) Gij(elem int, coords, gupper, glower []float64) (err error) {
	var (
		jac, g, inv [3][3]float64
		dim         = k.SpatialDim
		dd          = dim * dim
		tol         float64
	)
	if k.ParametricDim != k.SpatialDim {
		panic(fmt.Errorf("metric tensor needs a volume rule, have %dD in %dD", k.ParametricDim, k.SpatialDim))
	}
	k.checkCoords(coords)
	tol = DetTolerance(ElementScale(coords, k.Nodes, dim), 2*dim)
	for ip := 0; ip < k.NumIps; ip++ {
		k.Jacobian(ip, coords, &jac)
		jjt(&jac, dim, &g)
		det := Invert(&g, dim, &inv)
		if err = CheckDeterminant(elem, ip, det, tol); err != nil {
			return
		}
		for i := 0; i < dim; i++ {
			for j := 0; j < dim; j++ {
				gupper[ip*dd+i*dim+j] = g[i][j]
				glower[ip*dd+i*dim+j] = inv[i][j]
			}
		}
	}
	return
}

// Mij writes the mesh metric tensor J J^T [ip][dim][dim] and copies the
// parametric derivatives into deriv.
func (k *Kernel) Mij(coords, metric, deriv []float64) {
	var (
		jac, g [3][3]float64
		dim    = k.SpatialDim
		dd     = dim * dim
	)
	if k.ParametricDim != k.SpatialDim {
		panic(fmt.Errorf("metric tensor needs a volume rule, have %dD in %dD", k.ParametricDim, k.SpatialDim))
	}
	k.checkCoords(coords)
	if deriv != nil {
		copy(deriv[:len(k.Deriv)], k.Deriv)
	}
	for ip := 0; ip < k.NumIps; ip++ {
		k.Jacobian(ip, coords, &jac)
		jjt(&jac, dim, &g)
		for i := 0; i < dim; i++ {
			for j := 0; j < dim; j++ {
				metric[ip*dd+i*dim+j] = g[i][j]
			}
		}
	}
}

func jjt(jac *[3][3]float64, dim int, g *[3][3]float64) {
	*g = [3][3]float64{}
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			for kk := 0; kk < dim; kk++ {
				g[i][j] += jac[i][kk] * jac[j][kk]
			}
		}
	}
}
