package arch

// InstState is an instruction's position in its lifecycle. Transitions are
// serialized by the instruction-state store; nothing mutates State directly.
type InstState int

const (
	StateQueued InstState = iota
	StateExecuting
	StateWaitingRetirement
	StateAborted
	StateRetired
)

var instStateNames = [...]string{
	"queued",
	"executing",
	"waiting_retirement",
	"aborted",
	"retired",
}

func (s InstState) String() string {
	if s < StateQueued || s > StateRetired {
		return "state.invalid"
	}
	return instStateNames[s]
}

// FaultMask carries the architectural fault, if any, delivered at retirement.
type FaultMask uint16

const (
	FaultNone FaultMask = 0

	// FaultFloatingDisabled is synthesized when a floating-style unit claims
	// an instruction while the floating enable bit is clear. It retires as a
	// fault through the normal path, never as a scheduler error.
	FaultFloatingDisabled FaultMask = 1 << 0
)

// Instruction is one in-flight operation. The record is owned by the
// instruction-state store: State and Fault are read and written only under
// that store's lock. The remaining fields are immutable after issue.
type Instruction struct {
	Serial uint64
	PC     uint64
	Opcode uint16
	Dest   int
	Src1   int
	Src2   int

	State InstState
	Fault FaultMask
}
