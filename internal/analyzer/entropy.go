package analyzer

import "math"

// Entropy computes the Shannon entropy, in bits per byte, of the byte-value
// distribution described by hist over total bytes. Returns 0 for an empty
// input. The maximum is 8.0, reached by a uniform distribution over all
// 256 byte values.
func Entropy(hist *[256]int, total int) float64 {
	if total == 0 {
		return 0
	}

	var ent float64
	for _, c := range hist {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(total)
		ent -= p * math.Log2(p)
	}
	return ent
}
