package probe

import "fmt"

// Field returns an analytic three component field by name. The linear field
// is reproduced exactly by every kind, the quadratic one by second order kinds.
func Field(name string) (fn func(x, u []float64), err error) {
	switch name {
	case "linear", "":
		fn = func(x, u []float64) {
			var p [3]float64
			copy(p[:], x)
			u[0] = 1 + 2*p[0] - p[1] + 0.5*p[2]
			u[1] = p[0] + p[1] + p[2]
			u[2] = -3 * p[1]
		}
	case "quadratic":
		fn = func(x, u []float64) {
			var p [3]float64
			copy(p[:], x)
			u[0] = p[0]*p[0] - p[1]*p[2]
			u[1] = p[0]*p[1] + p[2]
			u[2] = 1 - p[1]*p[1]
		}
	default:
		err = fmt.Errorf("unknown analytic field %q, choose linear or quadratic", name)
	}
	return
}
