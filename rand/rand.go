// Package rand provides a deterministic PCG32-based random source, used to
// inject reproducible randomness into the pilot manager's destroyed-state
// bias computation.
package rand

// This is based on mtj's pcg32 implementation, the same construction the
// wider example pack uses as a drop-in replacement for the subset of
// math/rand it needs, updated with exported state so it can be seeded and
// serialized deterministically.

const (
	pcg32State      = 0x853c49e6748fea9b
	pcg32Increment  = 0xda3e39cb94b95bdb
	pcg32Multiplier = 0x5851f42d4c957f2d
)

type PCG32 struct {
	State     uint64
	Increment uint64
}

func NewPCG32() PCG32 {
	return PCG32{pcg32State, pcg32Increment}
}

func (p *PCG32) Seed(state, sequence uint64) {
	p.Increment = (sequence << 1) | 1
	p.State = (state+p.Increment)*pcg32Multiplier + p.Increment
}

func (p *PCG32) Random() uint32 {
	oldState := p.State
	p.State = oldState*pcg32Multiplier + p.Increment

	xorShifted := uint32(((oldState >> 18) ^ oldState) >> 27)
	rot := uint32(oldState >> 59)
	return (xorShifted >> rot) | (xorShifted << ((-rot) & 31))
}

func (p *PCG32) Bounded(bound uint32) uint32 {
	if bound == 0 {
		return 0
	}
	threshold := -bound % bound
	for {
		r := p.Random()
		if r >= threshold {
			return r % bound
		}
	}
}

// Rand is a small, explicitly-instantiable random source: every pilot
// manager is constructed with its own Rand rather than reaching for a
// package-level global, so destroyed-state bias computation (spec.md §8 S4,
// §9's "inject a deterministic RNG") is reproducible under test.
type Rand struct {
	PCG32
}

// New returns a Rand seeded from the fixed default state. Callers that need
// reproducibility across runs should call Seed explicitly.
func New() Rand {
	return Rand{PCG32: NewPCG32()}
}

func (r *Rand) Seed(s uint64) {
	r.PCG32.Seed(s, pcg32Increment)
}

// Float64InRange returns a uniform random float64 in [lo, hi].
func (r *Rand) Float64InRange(lo, hi float64) float64 {
	f := float64(r.Random()) / float64(1<<32-1)
	return lo + f*(hi-lo)
}

// Signed returns a uniform random float64 in [-1, 1].
func (r *Rand) Signed() float64 {
	return r.Float64InRange(-1, 1)
}
