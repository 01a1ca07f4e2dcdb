package roster

import "math/rand"

// DefaultTieTolerance treats candidates within this score delta of the best
// as equally good.
const DefaultTieTolerance = 1.0

// TieBreaker picks an index in [0, n). The engine calls it only with the
// near-tie set, so implementations control the non-determinism without
// touching the tolerance semantics.
type TieBreaker interface {
	Pick(n int) int
}

// RandTieBreaker selects uniformly at random among near-ties so the engine
// does not always favour the same slightly-ahead candidate. A fixed seed
// makes generation reproducible.
type RandTieBreaker struct {
	rng *rand.Rand
}

// NewRandTieBreaker returns a tie breaker seeded with the given value.
func NewRandTieBreaker(seed int64) *RandTieBreaker {
	return &RandTieBreaker{rng: rand.New(rand.NewSource(seed))}
}

func (t *RandTieBreaker) Pick(n int) int {
	if n <= 1 {
		return 0
	}
	return t.rng.Intn(n)
}

// FirstTieBreaker always picks the first candidate. Tests use it to make
// assignment fully deterministic.
type FirstTieBreaker struct{}

func (FirstTieBreaker) Pick(int) int { return 0 }
