// Package rng provides the deterministic pseudo-random stream behind daily
// puzzle generation. Same seed = same sequence on every platform and every
// run; that property is what makes "same date = same puzzle globally" hold,
// so the constants below are wire format, not implementation detail.
package rng

// FNV-1a 32-bit parameters. Stable across runs and implementations.
const (
	fnvOffset uint32 = 2166136261
	fnvPrime  uint32 = 16777619
)

// Mulberry32 increment.
const mulberryStep uint32 = 0x6D2B79F5

// Seed hashes "salt:date" with FNV-1a into a generator seed.
func Seed(salt, date string) uint32 {
	return Hash(salt + ":" + date)
}

// Hash is FNV-1a over the bytes of s: XOR each byte into a 32-bit
// accumulator, then multiply by the prime.
func Hash(s string) uint32 {
	h := fnvOffset
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime
	}
	return h
}

// Next advances a mulberry32 state and returns a float in [0,1). Pure
// function of the state. The uint32→float64 conversion and the division by
// 2^32 are both exact in IEEE 754, so the output never depends on platform
// rounding.
func Next(state uint32) (float64, uint32) {
	state += mulberryStep
	z := state
	z = (z ^ (z >> 15)) * (z | 1)
	z ^= z + (z^(z>>7))*(z|61)
	z ^= z >> 14
	return float64(z) / (1 << 32), state
}

// Stream is a convenience wrapper carrying the generator state.
type Stream struct {
	state uint32
}

// New returns a stream seeded with the given state.
func New(seed uint32) *Stream {
	return &Stream{state: seed}
}

// Float returns the next float in [0,1).
func (s *Stream) Float() float64 {
	f, next := Next(s.state)
	s.state = next
	return f
}

// IntN returns a uniform int in [0,n). Panics if n <= 0.
func (s *Stream) IntN(n int) int {
	if n <= 0 {
		panic("rng: IntN with non-positive n")
	}
	return int(s.Float() * float64(n))
}

// State exposes the current state so a caller can continue a stream
// elsewhere (selection order vs presentation order use one stream).
func (s *Stream) State() uint32 {
	return s.state
}

// Shuffle permutes xs in place with Fisher–Yates driven by the stream.
func Shuffle[T any](s *Stream, xs []T) {
	for i := len(xs) - 1; i > 0; i-- {
		j := s.IntN(i + 1)
		xs[i], xs[j] = xs[j], xs[i]
	}
}
