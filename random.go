package dominant

import "math/rand/v2"

// Source yields uniform values in [0,1). *rand.Rand from math/rand and math/rand/v2 both satisfy it.
type Source interface {
	Float64() float64
}

// NewSource returns a deterministic PCG-backed Source.
func NewSource(seed int64) Source {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// RandomSource returns a Source seeded from the runtime's entropy.
func RandomSource() Source {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// uniformIndex maps a draw to [0,n).
func uniformIndex(rng Source, n int) int {
	i := int(rng.Float64() * float64(n))
	return min(i, n-1)
}
