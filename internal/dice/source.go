package dice

import (
	crand "crypto/rand"
	"math/big"
	"math/rand/v2"
)

// Source is the randomness provider for dice evaluation.
type Source interface {
	// Intn returns a uniformly distributed int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// defaultSource backs the Roll entry points on Dice, DiceSet and Roll.
var defaultSource Source = NewCryptoSource()

// cryptoSource implements Source using crypto/rand. It holds no state and is
// safe for concurrent use.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
func NewCryptoSource() Source {
	return cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Panics with "dice: Intn called with n <= 0" if n <= 0, and with
// "dice: crypto/rand failure: <err>" if crypto/rand fails.
func (cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := crand.Int(crand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// seededSource is a deterministic PCG-backed Source.
type seededSource struct {
	rng *rand.Rand
}

// NewSeededSource returns a deterministic Source: two sources built from the
// same seed produce the same sequence.
//
// The returned Source is NOT safe for concurrent use. Give every concurrent
// evaluation its own source, or serialize access (see Roller).
func NewSeededSource(seed uint64) Source {
	return &seededSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Intn returns a pseudo-random int in [0, n).
//
// Panics with "dice: Intn called with n <= 0" if n <= 0.
func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	return s.rng.IntN(n)
}
