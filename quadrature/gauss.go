package quadrature

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// GaussLegendre returns the n point Gauss-Legendre rule on [-1,1], abscissae
// ascending. The nodes are the eigenvalues of the symmetric Jacobi matrix of
// the Legendre recurrence and the weights come from the first component of
// each eigenvector (Golub-Welsch).
func GaussLegendre(n int) (X, W []float64) {
	var (
		es   mat.EigenSym
		evec mat.Dense
	)
	if n < 1 {
		panic(fmt.Errorf("gauss-legendre rule needs at least one point, have %d", n))
	}
	if n == 1 {
		return []float64{0}, []float64{2}
	}
	JJ := mat.NewSymDense(n, nil)
	for i := 0; i < n-1; i++ {
		ip1 := float64(i + 1)
		beta := ip1 / math.Sqrt(4*ip1*ip1-1)
		JJ.SetSym(i, i+1, beta)
	}
	if ok := es.Factorize(JJ, true); !ok {
		panic(fmt.Errorf("eigenvalue decomposition of the %d point Jacobi matrix failed", n))
	}
	es.VectorsTo(&evec)
	vals := es.Values(nil)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return vals[order[a]] < vals[order[b]] })
	X, W = make([]float64, n), make([]float64, n)
	for i, j := range order {
		X[i] = vals[j]
		v0 := evec.At(0, j)
		W[i] = 2 * v0 * v0
	}
	// The rule is symmetric, remove round-off asymmetry and the middle point
	for i := 0; i < n/2; i++ {
		x := 0.5 * (X[n-1-i] - X[i])
		w := 0.5 * (W[n-1-i] + W[i])
		X[i], X[n-1-i] = -x, x
		W[i], W[n-1-i] = w, w
	}
	if n%2 == 1 {
		X[n/2] = 0
	}
	return
}
