package dispatch

import (
	"sync"
	"sync/atomic"

	"github.com/danmuck/coresim/internal/arch"
	"github.com/danmuck/coresim/internal/cregs"
	"github.com/danmuck/coresim/internal/issueq"
	"github.com/danmuck/coresim/internal/rob"
)

// RunState is the shared run flag. Reads are lock-free; the only transition
// is Running -> ShuttingDown and workers observe it cooperatively at their
// next wake, never preemptively.
type RunState struct {
	v atomic.Uint32
}

const (
	running uint32 = iota
	shuttingDown
)

func (r *RunState) ShuttingDown() bool {
	return r.v.Load() == shuttingDown
}

func (r *RunState) Shutdown() {
	r.v.Store(shuttingDown)
}

// Channel bundles one issue queue with the mutex/condition pair that
// synchronizes it. Several workers may service one channel; the issue and
// retire stages wake them through Signal and Broadcast.
type Channel struct {
	Mu    sync.Mutex
	Queue *issueq.Queue

	cond *sync.Cond
}

func NewChannel() *Channel {
	c := &Channel{Queue: issueq.NewQueue()}
	c.cond = sync.NewCond(&c.Mu)
	return c
}

// Signal wakes one worker blocked on the channel.
func (c *Channel) Signal() {
	c.cond.Signal()
}

// Broadcast wakes every worker blocked on the channel. Used for shutdown and
// for readiness changes that may unblock more than one deferred worker.
func (c *Channel) Broadcast() {
	c.cond.Broadcast()
}

// Shared is the context handle the surrounding simulator lends to each
// worker: the run flag, the two global stores, and the affinity matrix.
// Workers borrow it for their running lifetime and never own any of it.
type Shared struct {
	Run    *RunState
	States rob.Store
	CRegs  cregs.File
	Matrix *arch.AffinityMatrix
}

// NewShared assembles a context handle over caller-owned stores.
func NewShared(states rob.Store, cr cregs.File, matrix *arch.AffinityMatrix) *Shared {
	return &Shared{
		Run:    &RunState{},
		States: states,
		CRegs:  cr,
		Matrix: matrix,
	}
}
