package fieldgen

import (
	"math/rand/v2"
	"strings"
)

// Source supplies the random draws behind every generated value.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	// IntN returns a value in [0, n). n must be positive.
	IntN(n int) int
}

// NewSource returns a PCG-backed source. A zero seed draws the seed from
// the runtime's entropy, so successive runs differ.
func NewSource(seed int64) Source {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}

// randomString draws n characters from alphabet with replacement.
// A non-positive n yields the empty string.
func randomString(src Source, alphabet string, n int) string {
	if n <= 0 || alphabet == "" {
		return ""
	}
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		sb.WriteByte(alphabet[src.IntN(len(alphabet))])
	}
	return sb.String()
}
