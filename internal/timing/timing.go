// Package timing allocates staggered reveal schedules across the strokes of a
// character.
package timing

import (
	gomath "math"
	"math/rand/v2"
)

const (
	// Overlap is the fraction of a stroke's duration that passes before the
	// next stroke starts.
	Overlap = 0.7
	// JitterMin and JitterSpan bound the per-stroke duration multiplier to
	// [JitterMin, JitterMin+JitterSpan).
	JitterMin  = 0.8
	JitterSpan = 0.4
)

// Rand is the random source used for duration jitter. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// StrokeTiming is one stroke's slot in the schedule, in milliseconds.
type StrokeTiming struct {
	Duration float64
	Delay    float64
}

// End returns when the stroke finishes, relative to the schedule start.
func (s StrokeTiming) End() float64 {
	return s.Delay + s.Duration
}

// Allocate splits a total budget of total ms across n strokes.
//
// The budget is raised to n*minDur when it would starve a stroke. Each stroke
// gets the per-stroke share scaled by an independent jitter draw, floored at
// minDur. Stroke i+1 starts once stroke i is Overlap of the way through.
// n <= 0 returns an empty slice.
func Allocate(n int, total, minDur float64, rng Rand) []StrokeTiming {
	if n <= 0 {
		return []StrokeTiming{}
	}

	effective := gomath.Max(total, float64(n)*minDur)
	base := gomath.Max(effective/float64(n), minDur)

	out := make([]StrokeTiming, n)
	delay := 0.0
	for i := range out {
		jitter := JitterMin + rng.Float64()*JitterSpan
		d := gomath.Max(base*jitter, minDur)
		out[i] = StrokeTiming{Duration: d, Delay: delay}
		delay += d * Overlap
	}
	return out
}

// Total returns the end time of the last stroke to finish.
func Total(timings []StrokeTiming) float64 {
	end := 0.0
	for _, t := range timings {
		end = gomath.Max(end, t.End())
	}
	return end
}

// NewRand returns a deterministic source for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewEntropyRand returns a source seeded from the runtime's entropy.
func NewEntropyRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
