package analyzer

// NGrams builds a sliding-window byte n-gram frequency map over data:
// windows of length n advanced by step. Inputs shorter than n yield an
// empty map.
func NGrams(data []byte, n, step int) map[string]int {
	out := make(map[string]int)
	if n <= 0 || step <= 0 {
		return out
	}
	for i := 0; i+n <= len(data); i += step {
		out[string(data[i:i+n])]++
	}
	return out
}

// Jaccard computes the Jaccard similarity of the key sets of two n-gram
// maps: |intersection| / |union|. Two empty sets are defined to have
// similarity 0.
func Jaccard(a, b map[string]int) float64 {
	union := len(a)
	inter := 0
	for k := range b {
		if _, ok := a[k]; ok {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
