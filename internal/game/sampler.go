package game

import (
	"math/rand/v2"
)

// Sampler hands out the ids of one round in uniformly random order,
// each exactly once. Every call to Next draws from the ids still in the
// pool and removes the one it returns.
type Sampler struct {
	pool []uint
	rng  *rand.Rand
}

// NewSampler copies ids into a fresh pool. An empty pool is rejected.
func NewSampler(ids []uint, rng *rand.Rand) (*Sampler, error) {
	if len(ids) == 0 {
		return nil, ErrEmptyCatalog
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	pool := make([]uint, len(ids))
	copy(pool, ids)

	return &Sampler{pool: pool, rng: rng}, nil
}

// Next returns an id not returned before, or false once the pool is exhausted.
func (s *Sampler) Next() (uint, bool) {
	n := len(s.pool)
	if n == 0 {
		return 0, false
	}

	i := 0
	if n > 1 {
		i = s.rng.IntN(n)
	}
	id := s.pool[i]

	// swap-remove; pool order carries no meaning
	s.pool[i] = s.pool[n-1]
	s.pool = s.pool[:n-1]

	return id, true
}

// Remaining is the number of ids Next has yet to return.
func (s *Sampler) Remaining() int {
	return len(s.pool)
}
