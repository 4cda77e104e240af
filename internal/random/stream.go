// Package random provides the two randomness sources used by a race: a
// seeded, reproducible stream for course generation and an ambient source
// for per-race flavor noise (AI mistakes, jump jitter, personalities).
package random

// defaultState replaces a zero seed, which would lock xorshift at zero.
const defaultState uint64 = 88172645463325252

// Generator is the seeded contract consumed by the level generator.
type Generator interface {
	// Next returns a float in [0, 1).
	Next() float64
	// NextInt returns an integer in [min, max], both inclusive.
	NextInt(min, max int) int
}

// Stream is a deterministic xorshift64 generator. All arithmetic happens on
// uint64, so the sequence for a seed is identical on every platform.
type Stream struct {
	state uint64
}

// NewStream creates a stream keyed by seed.
func NewStream(seed int64) *Stream {
	s := &Stream{}
	s.Seed(seed)
	return s
}

// Seed resets the stream to the start of the sequence for seed.
func (s *Stream) Seed(seed int64) {
	s.state = uint64(seed)
	if s.state == 0 {
		s.state = defaultState
	}
}

// Uint64 advances the state and returns it.
func (s *Stream) Uint64() uint64 {
	s.state ^= s.state << 13
	s.state ^= s.state >> 7
	s.state ^= s.state << 17
	return s.state
}

// Next returns a float in [0, 1) built from the top 53 bits of the state.
func (s *Stream) Next() float64 {
	return float64(s.Uint64()>>11) / (1 << 53)
}

// NextInt returns an integer in [min, max]. Swapped bounds are reordered.
func (s *Stream) NextInt(min, max int) int {
	if max < min {
		min, max = max, min
	}
	return min + int(s.Next()*float64(max-min+1))
}

// Choice returns a uniformly chosen element of items using g.
// It returns the zero value for an empty slice.
func Choice[T any](g Generator, items []T) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	return items[g.NextInt(0, len(items)-1)]
}
