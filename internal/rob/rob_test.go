package rob

import (
	"testing"

	"github.com/danmuck/coresim/internal/arch"
)

func TestStateTransitions(t *testing.T) {
	s := NewMutexStore()
	ins := &arch.Instruction{Serial: 1, State: arch.StateQueued}

	if got := s.State(ins); got != arch.StateQueued {
		t.Fatalf("state = %s, want queued", got)
	}

	s.SetState(ins, arch.StateExecuting)
	if got := s.State(ins); got != arch.StateExecuting {
		t.Fatalf("state = %s, want executing", got)
	}
}

func TestFaultSetsMaskAndStateTogether(t *testing.T) {
	s := NewMutexStore()
	ins := &arch.Instruction{Serial: 1, State: arch.StateExecuting}

	s.Fault(ins, arch.FaultFloatingDisabled)
	if got := s.State(ins); got != arch.StateWaitingRetirement {
		t.Fatalf("state = %s, want waiting_retirement", got)
	}
	if ins.Fault != arch.FaultFloatingDisabled {
		t.Fatalf("fault mask = %v, want floating-disabled", ins.Fault)
	}
}

func TestAbortOnlyFlushesQueuedInstructions(t *testing.T) {
	s := NewMutexStore()

	queued := &arch.Instruction{Serial: 1, State: arch.StateQueued}
	if !s.Abort(queued) {
		t.Fatalf("abort should flush a queued instruction")
	}
	if got := s.State(queued); got != arch.StateAborted {
		t.Fatalf("state = %s, want aborted", got)
	}

	executing := &arch.Instruction{Serial: 2, State: arch.StateExecuting}
	if s.Abort(executing) {
		t.Fatalf("abort must not flush an executing instruction")
	}
	if got := s.State(executing); got != arch.StateExecuting {
		t.Fatalf("state = %s, want executing", got)
	}
}
