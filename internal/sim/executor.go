package sim

import (
	"github.com/danmuck/coresim/internal/arch"
	"github.com/danmuck/coresim/internal/issueq"
	"github.com/danmuck/coresim/internal/rob"
)

// unitExecutor is the capability surface lent to each worker: scoreboard
// readiness, synchronous execution handoff, and pool recycling. One instance
// is shared by all workers; it carries no per-worker state.
type unitExecutor struct {
	board     *Scoreboard
	states    rob.Store
	pool      *issueq.Pool
	completed chan<- *arch.Instruction
}

func (x *unitExecutor) OperandsReady(entry *issueq.Entry) bool {
	return x.board.OperandsReady(entry.Ins.Src1, entry.Ins.Src2)
}

// Execute models the execution pipe: results are out of scope, so the
// instruction moves straight to WaitingRetirement and onto the retire
// stream. The state transition happens before Execute returns, as the
// worker loop requires.
func (x *unitExecutor) Execute(ins *arch.Instruction) {
	x.states.SetState(ins, arch.StateWaitingRetirement)
	x.completed <- ins
}

func (x *unitExecutor) Recycle(entry *issueq.Entry) {
	x.pool.Put(entry)
}
