// Package randsrc implements the seeded, replayable random bit source
// ApproxMC and UniGen2 draw hash coefficients and enumeration shuffles
// from. Seeding mixes several nondeterministic 32-bit words, the same
// approach the reference implementation's SeedEngine takes with
// std::random_device feeding a std::seed_seq, adapted to math/rand.Rand
// the way gini's gen package seeds its own package-level generator.
package randsrc

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"
)

// Source is a deterministic, loggable source of random bits. Given the
// same seed, it produces the same sequence of Bits/IntN calls, so a run
// can be replayed exactly by logging and reusing Seed.
type Source struct {
	seed int64
	r    *mrand.Rand
}

// NewSeeded builds a Source from an explicit seed, for deterministic
// replay of a previous run.
func NewSeeded(seed int64) *Source {
	return &Source{seed: seed, r: mrand.New(mrand.NewSource(seed))}
}

// NewEntropy builds a Source seeded from OS entropy, mixing several
// 32-bit words the way the reference tool's SeedEngine mixes ten
// std::random_device outputs into a std::seed_seq.
func NewEntropy() *Source {
	const words = 10
	var buf [words * 4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand failing is a fatal environment problem; there is no
		// sane fallback that preserves the unpredictability guarantee.
		panic("randsrc: crypto/rand unavailable: " + err.Error())
	}

	var seed int64
	for i := 0; i < words; i++ {
		w := binary.LittleEndian.Uint32(buf[i*4 : i*4+4])
		// A simple multiplicative mix, order-sensitive so all ten words
		// contribute to every bit of the final seed.
		seed = seed*6364136223846793005 + int64(w) + 1
	}
	return NewSeeded(seed)
}

// Seed returns the seed this Source was constructed from, for logging.
func (s *Source) Seed() int64 { return s.seed }

// Bits fills out with n independent random bits (0/1), one per byte of
// out, matching the reference tool's GenerateRandomBits shape used to
// build XOR-clause coefficients.
func (s *Source) Bits(out []byte) {
	for i := range out {
		if s.r.Intn(2) == 1 {
			out[i] = 1
		} else {
			out[i] = 0
		}
	}
}

// IntN returns a pseudo-random integer in [0, n).
func (s *Source) IntN(n int) int {
	return s.r.Intn(n)
}

// Shuffle permutes n items in place using swap(i, j), matching
// math/rand.Shuffle's contract; used by BoundedEnumerator to draw a
// uniform sample of found models without replacement.
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	s.r.Shuffle(n, swap)
}
