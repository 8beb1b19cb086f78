package shape

import (
	"fmt"
)

// Lagrange1D evaluates the nodal basis of the given order and its derivative
// at x. Nodes are ordered by location: -1, (0,) +1.
func Lagrange1D(order int, x float64, vals, derivs []float64) {
	switch order {
	case 1:
		vals[0] = 0.5 * (1 - x)
		vals[1] = 0.5 * (1 + x)
		derivs[0] = -0.5
		derivs[1] = 0.5
	case 2:
		vals[0] = 0.5 * x * (x - 1)
		vals[1] = 1 - x*x
		vals[2] = 0.5 * x * (x + 1)
		derivs[0] = x - 0.5
		derivs[1] = -2 * x
		derivs[2] = x + 0.5
	default:
		panic(fmt.Errorf("no closed form lagrange basis for order %d", order))
	}
}
