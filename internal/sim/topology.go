package sim

import (
	"github.com/danmuck/coresim/internal/arch"
	"github.com/danmuck/coresim/internal/dispatch"
)

// Topology maps units and request classes onto shared issue channels. The
// simulator owns the channels; workers only borrow them.
type Topology struct {
	Channels []*dispatch.Channel
	ByUnit   map[arch.Unit]*dispatch.Channel
	ByClass  map[arch.Class]*dispatch.Channel
}

// NewReferenceTopology builds the reference fan-out: the four ALUs share one
// queue, the two address units share a second, and the two floating units
// share a third.
func NewReferenceTopology() *Topology {
	alu := dispatch.NewChannel()
	addr := dispatch.NewChannel()
	fp := dispatch.NewChannel()

	return &Topology{
		Channels: []*dispatch.Channel{alu, addr, fp},
		ByUnit: map[arch.Unit]*dispatch.Channel{
			arch.IntU0:   alu,
			arch.IntU1:   alu,
			arch.IntL0:   alu,
			arch.IntL1:   alu,
			arch.IntA0:   addr,
			arch.IntA1:   addr,
			arch.FpMul:   fp,
			arch.FpOther: fp,
		},
		ByClass: map[arch.Class]*dispatch.Channel{
			arch.ClassU0:      alu,
			arch.ClassU1:      alu,
			arch.ClassU0U1:    alu,
			arch.ClassL0:      alu,
			arch.ClassL1:      alu,
			arch.ClassL0L1:    alu,
			arch.ClassAnyALU:  alu,
			arch.ClassA0:      addr,
			arch.ClassA1:      addr,
			arch.ClassA0A1:    addr,
			arch.ClassFpMul:   fp,
			arch.ClassFpOther: fp,
		},
	}
}

// Broadcast wakes every worker on every channel. Used after retirement frees
// registers and at shutdown.
func (t *Topology) Broadcast() {
	for _, c := range t.Channels {
		c.Broadcast()
	}
}
