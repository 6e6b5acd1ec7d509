// Package rob owns instruction lifecycle state.
//
// Ownership boundary:
// - the single global lock serializing every state transition
// - the narrow read/write surface the dispatch loop depends on
//
// The store is intentionally coarse: one mutex covers all instructions,
// trading throughput for strict serialization of transitions and abort
// checks. The Store interface keeps the dispatch loop ignorant of that
// choice so a sharded owner can replace it later.
package rob

import (
	"sync"

	"github.com/danmuck/coresim/internal/arch"
)

// Store is the instruction-state authority consumed by the dispatch loop and
// the retire stage.
type Store interface {
	// State reads ins's current lifecycle state under the store lock.
	State(ins *arch.Instruction) arch.InstState

	// SetState transitions ins under the store lock.
	SetState(ins *arch.Instruction, state arch.InstState)

	// Fault records mask and moves ins to WaitingRetirement in one critical
	// section, so retirement never observes the fault without the state.
	Fault(ins *arch.Instruction, mask arch.FaultMask)
}

// MutexStore is the coarse single-lock Store.
type MutexStore struct {
	mu sync.Mutex
}

func NewMutexStore() *MutexStore {
	return &MutexStore{}
}

func (s *MutexStore) State(ins *arch.Instruction) arch.InstState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ins.State
}

func (s *MutexStore) SetState(ins *arch.Instruction, state arch.InstState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ins.State = state
}

func (s *MutexStore) Fault(ins *arch.Instruction, mask arch.FaultMask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ins.Fault = mask
	ins.State = arch.StateWaitingRetirement
}

// Abort flushes ins if it is still waiting in a queue. Returns whether the
// transition happened; instructions already executing or beyond are left to
// the normal retirement path.
func (s *MutexStore) Abort(ins *arch.Instruction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ins.State != arch.StateQueued {
		return false
	}
	ins.State = arch.StateAborted
	return true
}
