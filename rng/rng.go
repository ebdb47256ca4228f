// Package rng provides the uniform and Poisson random primitives the
// engine draws on. Each replicate worker owns its own Stream; Streams are
// never shared across goroutines.
package rng

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// Stream is a single worker's random number source. Not safe for
// concurrent use from multiple goroutines.
type Stream struct {
	src *rand.Rand
}

// New creates a Stream seeded deterministically from seed. Two Streams
// created with the same seed produce identical draw sequences.
func New(seed int64) *Stream {
	return &Stream{src: rand.New(rand.NewSource(seed))}
}

// Derive creates a child Stream for replicate index i, deterministic given
// the parent seed so a fixed (seed, replicate-count) pair always produces
// the same per-replicate streams regardless of how many workers run them.
func (s *Stream) Derive(i int) *Stream {
	return New(s.src.Int63() ^ int64(i)<<32 ^ int64(i))
}

// Uniform draws a sample on (0,1).
func (s *Stream) Uniform() float64 {
	return distuv.Uniform{Min: 0, Max: 1, Src: s.src}.Rand()
}

// Poisson draws a Poisson-distributed sample with mean lambda. lambda must
// be non-negative; a negative mean reaching here is a defect in the
// caller, not a recoverable runtime condition.
func (s *Stream) Poisson(lambda float64) float64 {
	if lambda < 0 {
		panic("rng: negative Poisson mean")
	}
	if lambda == 0 {
		return 0
	}
	return distuv.Poisson{Lambda: lambda, Src: s.src}.Rand()
}

// PoissonPMF evaluates P(Poi(lambda) = k). Used to build the mutation
// factor table; does not consume the stream.
func PoissonPMF(lambda float64, k int) float64 {
	if lambda == 0 {
		if k == 0 {
			return 1
		}
		return 0
	}
	return distuv.Poisson{Lambda: lambda}.Prob(float64(k))
}
