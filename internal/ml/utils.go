package ml

// Argmax returns the index of the largest value, the lowest index on ties.
func Argmax(values []float64) int {
	var best = 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}
