// Package nickname generates display names for accounts registered
// without one. Generation is a pure function of its random source and has
// no side effects.
package nickname

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var adjectives = []string{
	"clever", "brave", "calm", "eager", "gentle",
	"jolly", "keen", "lively", "mighty", "noble",
	"quick", "quiet", "sharp", "swift", "witty",
}

var animals = []string{
	"badger", "falcon", "heron", "lynx", "marmot",
	"otter", "panther", "raven", "seal", "tiger",
	"walrus", "wolf", "wombat", "yak", "zebra",
}

// Generate returns a nickname of the form "adjective_animal_NNN".
// Uniqueness is not guaranteed here; the users table enforces it and the
// caller retries on conflict.
func Generate() string {
	adj := adjectives[randomIndex(len(adjectives))]
	animal := animals[randomIndex(len(animals))]
	return fmt.Sprintf("%s_%s_%d", adj, animal, randomIndex(1000))
}

func randomIndex(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken;
		// a fixed index keeps registration working.
		return 0
	}
	return int(v.Int64())
}
