package metrics

import (
	"math"

	"github.com/notargets/gocvfem/utils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// Interpolant evaluates shape functions and parametric derivatives at an
// arbitrary parametric point.
type Interpolant interface {
	ValuesAt(par, out []float64)
	DerivativesAt(par, out []float64)
}

// Location is the result of inverting the isoparametric map for a point.
type Location struct {
	Par []float64
	// Distance is the max-norm of Par, at most one inside the element. When
	// the point could not be located it is at least one plus the residual
	// scaled by the element size.
	Distance   float64
	Converged  bool
	Iterations int
	// Gap is the physical distance between the point and its image, non
	// zero for points off a face embedded in a higher dimension
	Gap float64
}

// ParametricDistance is the max-norm of a parametric coordinate
func ParametricDistance(par []float64) (d float64) {
	for _, x := range par {
		d = math.Max(d, math.Abs(x))
	}
	return
}

type locator struct {
	b            Interpolant
	nodes        int
	pdim, sdim   int
	coords       []float64
	point        []float64
	vals, derivs []float64
}

// residual writes point - x(par) into r and returns its norm
func (lc *locator) residual(par, r []float64) (norm float64) {
	lc.b.ValuesAt(par, lc.vals)
	for i := 0; i < lc.sdim; i++ {
		x := 0.
		for n := 0; n < lc.nodes; n++ {
			x += lc.vals[n] * lc.coords[n*lc.sdim+i]
		}
		r[i] = lc.point[i] - x
		norm += r[i] * r[i]
	}
	return math.Sqrt(norm)
}

// Locate inverts the map from the element's parametric space to the point
// with Newton's method started at the centroid. Face elements embedded in a
// higher dimension use the Gauss-Newton least squares step. A failed Newton
// solve is polished with Nelder-Mead on the squared residual; the point is
// then reported as not located unless the residual vanishes. A point further
// than FaceThicknessTol element sizes off a face element is outside it.
func (k *Kernel) Locate(b Interpolant, coords, point []float64) (loc Location) {
	var (
		jac   [3][3]float64
		lc    = &locator{b: b, nodes: k.Nodes, pdim: k.ParametricDim, sdim: k.SpatialDim, coords: coords, point: point}
		r     = make([]float64, k.SpatialDim)
		scale = ElementScale(coords, k.Nodes, k.SpatialDim)
		best  = math.Inf(1)
		par   = make([]float64, k.ParametricDim)
		bestP = make([]float64, k.ParametricDim)
	)
	k.checkCoords(coords)
	lc.vals = make([]float64, k.Nodes)
	lc.derivs = make([]float64, k.Nodes*k.ParametricDim)
	J := mat.NewDense(k.SpatialDim, k.ParametricDim, nil)
	rv := mat.NewVecDense(k.SpatialDim, r)
	var delta mat.VecDense
	for loc.Iterations = 1; loc.Iterations <= utils.InvMapNit; loc.Iterations++ {
		norm := lc.residual(par, r)
		if norm < best {
			best = norm
			copy(bestP, par)
		}
		b.DerivativesAt(par, lc.derivs)
		JacobianAt(lc.derivs, k.Nodes, k.ParametricDim, k.SpatialDim, coords, &jac)
		for i := 0; i < k.SpatialDim; i++ {
			for j := 0; j < k.ParametricDim; j++ {
				J.Set(i, j, jac[i][j])
			}
		}
		if err := delta.SolveVec(J, rv); err != nil {
			break
		}
		var step float64
		for j := 0; j < k.ParametricDim; j++ {
			par[j] += delta.AtVec(j)
			step = math.Max(step, math.Abs(delta.AtVec(j)))
		}
		if math.IsNaN(step) || math.IsInf(step, 0) {
			break
		}
		if step < utils.InvMapTol {
			loc.Converged = true
			break
		}
	}
	if loc.Converged {
		loc.Par = par
		loc.Gap = lc.residual(par, r)
		loc.Distance = ParametricDistance(par)
		if k.ParametricDim < k.SpatialDim {
			// off the surface of a face element
			if g := loc.Gap / math.Max(scale, math.SmallestNonzeroFloat64); g > utils.FaceThicknessTol {
				loc.Distance = math.Max(loc.Distance, 1+g)
			}
		}
		return
	}
	loc.Iterations = utils.InvMapNit
	loc.Par, best = k.polish(lc, bestP, r)
	loc.Gap = best
	loc.Distance = ParametricDistance(loc.Par)
	if k.ParametricDim == k.SpatialDim && best <= utils.InvMapTol*math.Max(scale, 1) {
		loc.Converged = true
		return
	}
	loc.Distance = math.Max(loc.Distance, 1) + best/math.Max(scale, math.SmallestNonzeroFloat64)
	return
}

func (k *Kernel) polish(lc *locator, start, r []float64) (par []float64, norm float64) {
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			n := lc.residual(x, r)
			return n * n
		},
	}
	settings := &optimize.Settings{
		MajorIterations: 200 * k.ParametricDim,
	}
	result, err := optimize.Minimize(problem, start, settings, &optimize.NelderMead{})
	if err != nil || result == nil {
		par = start
		norm = lc.residual(par, r)
		return
	}
	par = result.X
	norm = math.Sqrt(result.F)
	if startNorm := lc.residual(start, r); startNorm < norm {
		par, norm = start, startNorm
	}
	return
}
