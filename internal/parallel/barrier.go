package parallel

import "sync"

// Barrier is a reusable rendezvous point for a fixed number of goroutines.
//
// Wait blocks until all parties have called it, then releases them together
// and resets for the next phase. Writes made before Wait by any party are
// visible to every party after Wait returns.
type Barrier struct {
	mu         sync.Mutex
	cond       *sync.Cond
	parties    int
	waiting    int
	generation uint64
}

// NewBarrier creates a barrier for the given number of parties.
// A non-positive count is treated as 1.
func NewBarrier(parties int) *Barrier {
	b := &Barrier{parties: max(parties, 1)}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Parties returns the number of goroutines the barrier waits for.
func (b *Barrier) Parties() int {
	return b.parties
}

// Wait blocks until all parties of the current phase have arrived.
func (b *Barrier) Wait() {
	b.mu.Lock()
	gen := b.generation
	b.waiting++
	if b.waiting == b.parties {
		b.waiting = 0
		b.generation++
		b.mu.Unlock()
		b.cond.Broadcast()
		return
	}
	for gen == b.generation {
		b.cond.Wait()
	}
	b.mu.Unlock()
}

// RunTeam runs fn on size cooperating goroutines that share one Barrier and
// returns when all of them have finished. rank is in [0, size).
// A team of one runs on the calling goroutine.
func RunTeam(size int, fn func(rank int, b *Barrier)) {
	size = max(size, 1)
	b := NewBarrier(size)
	if size == 1 {
		fn(0, b)
		return
	}

	var wg sync.WaitGroup
	wg.Add(size)
	for rank := range size {
		go func() {
			defer wg.Done()
			fn(rank, b)
		}()
	}
	wg.Wait()
}
