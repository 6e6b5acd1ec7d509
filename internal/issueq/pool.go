package issueq

import "sync"

// Pool is the free list entries return to after dispatch or abort cleanup.
// It is shared by every worker servicing a queue and locks internally, unlike
// Queue.
type Pool struct {
	mu   sync.Mutex
	free []*Entry
}

// NewPool pre-allocates size free entries.
func NewPool(size int) *Pool {
	p := &Pool{free: make([]*Entry, 0, size)}
	for i := 0; i < size; i++ {
		p.free = append(p.free, &Entry{})
	}
	return p
}

// Get returns a reset entry, allocating when the free list is empty so the
// issue stage never stalls on pool exhaustion.
func (p *Pool) Get() *Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.free)
	if n == 0 {
		return &Entry{}
	}
	e := p.free[n-1]
	p.free[n-1] = nil
	p.free = p.free[:n-1]
	return e
}

// Put returns e to the free list. e must already be unlinked from its queue
// with the claim flag cleared; a linked or claimed entry indicates a caller
// bug and is dropped rather than recycled.
func (p *Pool) Put(e *Entry) {
	if e == nil || e.linked() || e.Claimed() {
		return
	}
	e.reset()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.free = append(p.free, e)
}

// Size reports the current free-list depth.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}
