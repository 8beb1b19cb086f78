package metrics

// Interpolate forms result[c] = sum_n weights[n]*field[n*nComp+c]
func Interpolate(nComp int, weights, field, result []float64) {
	for c := 0; c < nComp; c++ {
		result[c] = 0
	}
	for n, w := range weights {
		for c := 0; c < nComp; c++ {
			result[c] += w * field[n*nComp+c]
		}
	}
}
