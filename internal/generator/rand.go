package generator

import (
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// seededEpoch is the reference time for seeded runs that do not pin Now,
// so "recent" and "past" dates stay reproducible across days.
var seededEpoch = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// Rand is the randomness handle threaded through a single generation run.
// It is owned by one Build call and is not safe for concurrent use.
type Rand struct {
	src   *rand.PCG
	rng   *rand.Rand
	faker *gofakeit.Faker
	now   time.Time
}

// NewRand returns a handle whose whole output is determined by seed and now.
func NewRand(seed int64, now time.Time) *Rand {
	s := uint64(seed)
	return newRand(rand.NewPCG(s, s^0x9e3779b97f4a7c15), now)
}

// NewEntropyRand returns a handle seeded from the runtime's random source.
func NewEntropyRand(now time.Time) *Rand {
	return newRand(rand.NewPCG(rand.Uint64(), rand.Uint64()), now)
}

func newRand(src *rand.PCG, now time.Time) *Rand {
	return &Rand{
		src:   src,
		rng:   rand.New(src),
		faker: gofakeit.NewFaker(src, false),
		now:   now,
	}
}

// Now is the reference time for relative dates.
func (r *Rand) Now() time.Time { return r.now }

// Faker exposes the seeded gofakeit instance sharing this handle's source.
func (r *Rand) Faker() *gofakeit.Faker { return r.faker }

// IntN returns a uniform int in [0, n). n must be > 0.
func (r *Rand) IntN(n int) int { return r.rng.IntN(n) }

// Int64Range returns a uniform int64 in [lo, hi]. lo must be <= hi.
func (r *Rand) Int64Range(lo, hi int64) int64 {
	span := uint64(hi - lo)
	if span == math.MaxUint64 {
		return int64(r.rng.Uint64())
	}
	return lo + int64(r.rng.Uint64N(span+1))
}

// IntRange returns a uniform int in [lo, hi]. lo must be <= hi.
func (r *Rand) IntRange(lo, hi int) int {
	return int(r.Int64Range(int64(lo), int64(hi)))
}

// Float64 returns a uniform float in [0, 1).
func (r *Rand) Float64() float64 { return r.rng.Float64() }

// Bool returns true or false with equal probability.
func (r *Rand) Bool() bool { return r.rng.IntN(2) == 1 }

// Alphanumeric returns n characters drawn from [A-Za-z0-9].
func (r *Rand) Alphanumeric(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(alphanumeric[r.rng.IntN(len(alphanumeric))])
	}
	return b.String()
}

// Pick returns one element of options chosen uniformly.
func Pick[T any](r *Rand, options []T) T {
	return options[r.rng.IntN(len(options))]
}

// Read fills p with random bytes. It lets seeded runs drive io.Reader
// consumers such as uuid.NewRandomFromReader.
func (r *Rand) Read(p []byte) (int, error) {
	for i := 0; i < len(p); i += 8 {
		v := r.rng.Uint64()
		for j := 0; j < 8 && i+j < len(p); j++ {
			p[i+j] = byte(v >> (8 * j))
		}
	}
	return len(p), nil
}

// Between returns a uniform instant in [from, to]. from must not be after to.
func (r *Rand) Between(from, to time.Time) time.Time {
	span := to.UnixMilli() - from.UnixMilli()
	if span <= 0 {
		return from.UTC()
	}
	return time.UnixMilli(from.UnixMilli() + r.Int64Range(0, span)).UTC()
}
