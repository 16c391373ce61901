package transport

import (
	"sync"
	"time"

	xrand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Jitter draws per-message delivery delays from a uniform distribution.
// A fixed seed reproduces the same delay sequence run after run.
type Jitter struct {
	mu   sync.Mutex
	dist distuv.Uniform
}

func NewJitter(min time.Duration, max time.Duration, seed uint64) *Jitter {
	j := new(Jitter)
	j.dist = distuv.Uniform{
		Min: float64(min),
		Max: float64(max),
		Src: xrand.NewSource(seed),
	}
	return j
}

// Delay returns the next delivery delay.
func (j *Jitter) Delay() time.Duration {
	j.mu.Lock()
	defer j.mu.Unlock()
	return time.Duration(j.dist.Rand())
}
