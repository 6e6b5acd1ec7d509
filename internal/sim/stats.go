package sim

import "sync/atomic"

// Stats accumulates run counters across workers and stages. All fields are
// updated lock-free; Snapshot is safe to call mid-run.
type Stats struct {
	issued         atomic.Uint64
	dispatched     atomic.Uint64
	discarded      atomic.Uint64
	notReady       atomic.Uint64
	floatingFaults atomic.Uint64
	retired        atomic.Uint64
}

// Snapshot is a point-in-time copy, also the /status wire shape.
type Snapshot struct {
	Issued         uint64 `json:"issued"`
	Dispatched     uint64 `json:"dispatched"`
	Discarded      uint64 `json:"discarded"`
	NotReady       uint64 `json:"not_ready"`
	FloatingFaults uint64 `json:"floating_faults"`
	Retired        uint64 `json:"retired"`
}

func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Issued:         s.issued.Load(),
		Dispatched:     s.dispatched.Load(),
		Discarded:      s.discarded.Load(),
		NotReady:       s.notReady.Load(),
		FloatingFaults: s.floatingFaults.Load(),
		Retired:        s.retired.Load(),
	}
}
