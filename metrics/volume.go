package metrics

// ScvVolumes writes det(J) times the ip weight for every sub-control volume
// of one element. elem only labels a GeometryError.
func (k *Kernel) ScvVolumes(elem int, coords, vol []float64) (err error) {
	var (
		jac [3][3]float64
		tol float64
	)
	k.checkCoords(coords)
	tol = DetTolerance(ElementScale(coords, k.Nodes, k.SpatialDim), k.ParametricDim)
	for ip := 0; ip < k.NumIps; ip++ {
		k.Jacobian(ip, coords, &jac)
		det := Determinant(&jac, k.ParametricDim)
		if err = CheckDeterminant(elem, ip, det, tol); err != nil {
			return
		}
		vol[ip] = det * k.Weights[ip]
	}
	return
}
