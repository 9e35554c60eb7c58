package mines

import (
	"hash/fnv"
	"hash/maphash"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// MineCount is the number of mines hidden in a grid of the given size:
// round(sqrt(rows*cols)).
func MineCount(d Dims) int {
	return int(math.Round(math.Sqrt(float64(d.Size()))))
}

// GenerateMines picks MineCount(d) distinct positions uniformly at random.
func GenerateMines(d Dims, r *rand.Rand) []Position {
	n := MineCount(d)

	/*
	 * Write down the list of possible mine locations.
	 */
	candidates := make([]int, d.Size())
	for i := range candidates {
		candidates[i] = i
	}

	/*
	 * Now pick n off the list at random, moving the last candidate into
	 * the hole left by each pick (partial Fisher-Yates).
	 */
	mines := make([]Position, 0, n)
	k := len(candidates)
	for range n {
		i := r.IntN(k)
		mines = append(mines, d.position(candidates[i]))
		k--
		candidates[i] = candidates[k]
	}

	Log.WithFields(logrus.Fields{
		"dims":  d.String(),
		"mines": n,
	}).Debug("generated mine layout")

	return mines
}

// NewRand returns a generator seeded from the runtime's random hash seed.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

// RandFromSeed returns a generator that yields the same layouts for the
// same seed string.
func RandFromSeed(seed string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(seed))
	s := h.Sum64()
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}

const seedSyllables = 5

var (
	seedCons = []string{"b", "c", "d", "f", "g", "j", "k", "l", "m", "n", "p", "q", "s", "t", "v", "x", "z", "h", "r", "w", "y"}
	seedVow  = []string{"a", "e", "i", "o", "u"}
)

// NewSeed makes a pronounceable seed such as "kotamiburo".
func NewSeed(r *rand.Rand) string {
	var sb strings.Builder
	for range seedSyllables {
		sb.WriteString(seedCons[r.IntN(len(seedCons))])
		sb.WriteString(seedVow[r.IntN(len(seedVow))])
	}
	return sb.String()
}
