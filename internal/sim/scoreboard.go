package sim

import "sync"

// Scoreboard tracks operand readiness per architectural register. It is the
// external operand-status state behind the readiness predicate: workers read
// it outside every scheduler lock, under the scoreboard's own mutex.
type Scoreboard struct {
	mu    sync.Mutex
	ready []bool
}

// NewScoreboard starts with every register ready.
func NewScoreboard(registers int) *Scoreboard {
	b := &Scoreboard{ready: make([]bool, registers)}
	for i := range b.ready {
		b.ready[i] = true
	}
	return b
}

// OperandsReady reports whether both sources hold valid data.
func (b *Scoreboard) OperandsReady(src1, src2 int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ready[src1] && b.ready[src2]
}

// SetPending marks reg as being produced by an in-flight instruction.
func (b *Scoreboard) SetPending(reg int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ready[reg] = false
}

// SetReady marks reg valid again, at retirement or flush rollback.
func (b *Scoreboard) SetReady(reg int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ready[reg] = true
}

func (b *Scoreboard) Registers() int {
	return len(b.ready)
}
