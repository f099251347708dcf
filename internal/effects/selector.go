package effects

import (
	"math/rand"
	"sync"
	"time"
)

// Selector picks an effect kind for each transition cycle, uniformly at
// random over its registered kind set. Consecutive repeats are allowed.
type Selector struct {
	mu    sync.Mutex
	rng   *rand.Rand
	kinds []Kind
}

// NewSelector returns a selector over the given kinds; with no kinds it
// covers the full registered set. rng may be nil for a time-seeded source.
func NewSelector(kinds []Kind, rng *rand.Rand) *Selector {
	if len(kinds) == 0 {
		kinds = Registered()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{rng: rng, kinds: kinds}
}

// Choose returns a uniformly random kind from the registered set.
func (s *Selector) Choose() Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kinds[s.rng.Intn(len(s.kinds))]
}

// Kinds returns the selector's registered kind set.
func (s *Selector) Kinds() []Kind {
	out := make([]Kind, len(s.kinds))
	copy(out, s.kinds)
	return out
}
