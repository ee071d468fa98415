package parallel

import "sync"

// StagePool provides reuse of tile staging buffers via sync.Pool.
//
// Staging buffers hold one channel of a tile plus its halo. Full tiles all
// request the same size, so buffers are pooled per length.
//
// Thread safety: StagePool is safe for concurrent use.
type StagePool struct {
	// pools holds separate sync.Pool instances for each buffer length.
	pools sync.Map
}

// NewStagePool creates a new staging buffer pool.
func NewStagePool() *StagePool {
	return &StagePool{}
}

// Get returns a zeroed buffer of exactly n bytes.
// Returns nil if n is not positive.
func (p *StagePool) Get(n int) []byte {
	if n <= 0 {
		return nil
	}
	buf := *p.poolFor(n).Get().(*[]byte)
	clear(buf)
	return buf
}

// Put returns a buffer obtained from Get to the pool.
// If buf is empty, this is a no-op.
func (p *StagePool) Put(buf []byte) {
	if len(buf) == 0 {
		return
	}
	if pool, ok := p.pools.Load(len(buf)); ok {
		pool.(*sync.Pool).Put(&buf)
	}
	// If pool doesn't exist, let GC reclaim the buffer
}

// poolFor gets or creates the sync.Pool for buffers of length n.
func (p *StagePool) poolFor(n int) *sync.Pool {
	if pool, ok := p.pools.Load(n); ok {
		return pool.(*sync.Pool)
	}

	newPool := &sync.Pool{
		New: func() any {
			buf := make([]byte, n)
			return &buf
		},
	}

	// Try to store; if another goroutine beat us, use theirs
	actual, _ := p.pools.LoadOrStore(n, newPool)
	return actual.(*sync.Pool)
}
