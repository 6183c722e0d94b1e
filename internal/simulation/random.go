package simulation

import (
	"math/rand"
	"sync"
	"time"
)

// RandomSource isolates randomness so tests can drive the simulation deterministically.
type RandomSource interface {
	// Intn returns a uniformly distributed integer in [0, n).
	Intn(n int) int
}

// NewSeededSource returns a reproducible source. It is not safe for concurrent use.
func NewSeededSource(seed int64) RandomSource {
	return rand.New(rand.NewSource(seed))
}

func newTimeSeededSource(offset int64) RandomSource {
	return rand.New(rand.NewSource(time.Now().UnixNano() + offset))
}

// lockedSource serializes access to a source shared between team workers.
type lockedSource struct {
	mu  sync.Mutex
	src RandomSource
}

func (l *lockedSource) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Intn(n)
}

// SampleThroughput draws the count of a uniformly random historical day.
func SampleThroughput(t Throughput, rng RandomSource) (int, error) {
	if t.History() == 0 {
		return 0, t.Validate()
	}
	return t.OnDay(rng.Intn(t.History()))
}
