package service

import (
	"fmt"
	"math/rand"
	"sync"
)

// anonAnimals is the fixed set of animals used in generated pseudonyms
var anonAnimals = []string{"Fox", "Owl", "Bear", "Deer", "Sparrow", "Hawk", "Rabbit", "Cat", "Dog"}

// AnonNamer generates pseudonyms of the form "Neighbor {N} ({Animal})" for
// posts with anonymous visibility. The counter is process-wide and never
// resets, so the numeric part is unique within a process lifetime. The same
// number/animal pair could recur across restarts; the pseudonym is cosmetic,
// not a security property.
type AnonNamer struct {
	mu      sync.Mutex
	counter int64
	rng     *rand.Rand
}

// NewAnonNamer creates an AnonNamer drawing animals from rng. Tests pass a
// fixed-seed source to get deterministic output.
func NewAnonNamer(rng *rand.Rand) *AnonNamer {
	return &AnonNamer{rng: rng}
}

// Next returns the next pseudonym
func (a *AnonNamer) Next() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.counter++
	animal := anonAnimals[a.rng.Intn(len(anonAnimals))]
	return fmt.Sprintf("Neighbor %d (%s)", a.counter, animal)
}
