package recommend

import "math"

// pearson computes the Pearson correlation coefficient between paired
// samples. Returns NaN for fewer than two pairs or when either sample has
// zero variance.
func pearson(x, y []float64) float64 {
	n := len(x)
	if n != len(y) || n < 2 {
		return math.NaN()
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += x[i]
		sumY += y[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return math.NaN()
	}
	return cov / math.Sqrt(varX*varY)
}

// pairedColumns extracts the values both columns share a user for,
// mirroring pairwise-complete correlation over a sparse rating matrix.
func pairedColumns(a, b map[int]float64) (x, y []float64) {
	for user, va := range a {
		if vb, ok := b[user]; ok {
			x = append(x, va)
			y = append(y, vb)
		}
	}
	return x, y
}

// round2 rounds to two decimal places.
func round2(f float64) float64 {
	if math.IsNaN(f) {
		return f
	}
	return math.Round(f*100) / 100
}
