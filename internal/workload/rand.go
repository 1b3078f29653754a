package workload

import (
	"math/rand/v2"
	"sync"
)

// RNG is the source of randomness consumed by the sampler, injector and budgeter.
// Implementations must be safe for concurrent use.
type RNG interface {
	// Float64 returns a value in [0,1).
	Float64() float64
	// IntN returns a value in [0,n).
	IntN(n int) int
}

type systemRand struct{}

func (systemRand) Float64() float64 { return rand.Float64() }
func (systemRand) IntN(n int) int   { return rand.IntN(n) }

// SystemRand draws from the runtime's goroutine-safe generator.
var SystemRand RNG = systemRand{}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeededRand returns a reproducible RNG guarded by a mutex.
func NewSeededRand(seed int64) RNG {
	s := uint64(seed)
	return &lockedRand{r: rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))}
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}
