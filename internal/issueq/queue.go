package issueq

import (
	"sync/atomic"

	"github.com/danmuck/coresim/internal/arch"
)

// Entry links one queued instruction into an issue queue. It is owned by the
// issue stage while linked; a worker that sets the claim flag owns it for the
// duration of the claim; after unlinking it returns to the pool.
type Entry struct {
	Ins   *arch.Instruction
	Class arch.Class

	// claimed is set only while the queue mutex is held, but cleared by the
	// claiming worker after it has released the mutex, so it must be atomic.
	claimed atomic.Bool

	prev, next *Entry
}

// Claimed reports whether some worker currently owns the entry.
func (e *Entry) Claimed() bool {
	return e.claimed.Load()
}

// Claim marks the entry owned. Callers hold the queue mutex.
func (e *Entry) Claim() {
	e.claimed.Store(true)
}

// Unclaim releases ownership, leaving the entry eligible for any worker's
// next scan (when still linked) or for recycling (when unlinked).
func (e *Entry) Unclaim() {
	e.claimed.Store(false)
}

func (e *Entry) linked() bool {
	return e.next != nil
}

func (e *Entry) reset() {
	e.Ins = nil
	e.Class = arch.ClassNone
	e.claimed.Store(false)
	e.prev = nil
	e.next = nil
}

// Queue is a FIFO of queue entries over a sentinel-terminated doubly-linked
// ring. It carries no lock of its own: every operation, and every scan built
// from Head/Next, runs under the mutex of the channel that owns the queue.
type Queue struct {
	sentinel Entry
	length   int
}

func NewQueue() *Queue {
	q := &Queue{}
	q.sentinel.prev = &q.sentinel
	q.sentinel.next = &q.sentinel
	return q
}

// Push links e at the tail, preserving enqueue order for scans.
func (q *Queue) Push(e *Entry) {
	tail := q.sentinel.prev
	e.prev = tail
	e.next = &q.sentinel
	tail.next = e
	q.sentinel.prev = e
	q.length++
}

// Head returns the oldest entry, or nil when the queue is empty.
func (q *Queue) Head() *Entry {
	if q.sentinel.next == &q.sentinel {
		return nil
	}
	return q.sentinel.next
}

// Next returns the entry after e in FIFO order, or nil at the sentinel.
func (q *Queue) Next(e *Entry) *Entry {
	if e.next == &q.sentinel {
		return nil
	}
	return e.next
}

// Remove unlinks e in O(1). e must currently be linked in q.
func (q *Queue) Remove(e *Entry) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.prev = nil
	e.next = nil
	q.length--
}

func (q *Queue) Empty() bool {
	return q.length == 0
}

func (q *Queue) Len() int {
	return q.length
}
