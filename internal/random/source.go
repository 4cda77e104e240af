package random

import (
	"math/rand"
	"time"
)

// Source is the ambient, non-reproducible randomness used for gameplay
// flavor. Tests inject fixed sources.
type Source interface {
	Float64() float64
}

// NewSource returns a math/rand backed Source. A zero seed uses the
// current time.
func NewSource(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Fixed is a Source that always returns the same value.
type Fixed float64

// Float64 implements Source.
func (f Fixed) Float64() float64 {
	return float64(f)
}

// Sequence is a Source that replays values in order and then repeats the
// last one. An empty sequence always returns 0.
type Sequence struct {
	Values []float64
	pos    int
}

// Float64 implements Source.
func (s *Sequence) Float64() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	if s.pos >= len(s.Values) {
		return s.Values[len(s.Values)-1]
	}
	v := s.Values[s.pos]
	s.pos++
	return v
}
