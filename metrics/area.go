package metrics

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// AreaVectors writes one weighted area vector [ip][SpatialDim] per point.
// Interior surfaces point along their positive parametric direction, from
// the left node to the right node. Face rules point along the face normal
// given by the face's node ordering, outward for exodus ordered sides.
func (k *Kernel) AreaVectors(coords, area []float64) {
	var (
		jac [3][3]float64
		sd  = k.SpatialDim
	)
	k.checkCoords(coords)
	for ip := 0; ip < k.NumIps; ip++ {
		k.Jacobian(ip, coords, &jac)
		dir := -1
		if k.Direction != nil {
			dir = k.Direction[ip]
		}
		AreaVector(&jac, sd, dir, k.Weights[ip], area[ip*sd:(ip+1)*sd])
	}
}

// AreaVector forms the weighted normal from a Jacobian. dir < 0 selects the
// face form: the Jacobian columns are the face tangents.
func AreaVector(jac *[3][3]float64, sd, dir int, w float64, av []float64) {
	col := func(j int) r3.Vec { return r3.Vec{X: jac[0][j], Y: jac[1][j], Z: jac[2][j]} }
	switch sd {
	case 2:
		var (
			tx, ty, sign float64
		)
		switch dir {
		case -1, 0: // tangent along xi_1 for interior, along s for an edge
			c := 1
			if dir < 0 {
				c = 0
			}
			tx, ty, sign = jac[0][c], jac[1][c], 1
		case 1:
			tx, ty, sign = jac[0][0], jac[1][0], -1
		default:
			panic(fmt.Errorf("2D surface direction %d", dir))
		}
		av[0] = sign * ty * w
		av[1] = -sign * tx * w
	case 3:
		var n r3.Vec
		switch dir {
		case -1, 2:
			n = r3.Cross(col(0), col(1))
		case 0:
			n = r3.Cross(col(1), col(2))
		case 1:
			n = r3.Cross(col(2), col(0))
		default:
			panic(fmt.Errorf("3D surface direction %d", dir))
		}
		n = r3.Scale(w, n)
		av[0], av[1], av[2] = n.X, n.Y, n.Z
	default:
		panic(fmt.Errorf("area vectors need a 2D or 3D embedding, have %dD", sd))
	}
}

// UnitNormal is the normalized face normal at a point with face Jacobian jac
func UnitNormal(jac *[3][3]float64, sd int, normal []float64) {
	var (
		av [3]float64
	)
	AreaVector(jac, sd, -1, 1, av[:sd])
	u := r3.Unit(r3.Vec{X: av[0], Y: av[1], Z: av[2]})
	normal[0], normal[1] = u.X, u.Y
	if sd == 3 {
		normal[2] = u.Z
	}
}
