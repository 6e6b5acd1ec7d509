package sim

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danmuck/coresim/internal/arch"
	"github.com/danmuck/coresim/internal/dispatch"
	"github.com/danmuck/coresim/internal/testutil/testlog"
)

func testConfig(t *testing.T) Config {
	cfg := DefaultConfig()
	cfg.Logger = testlog.Start(t)
	cfg.Workload.Instructions = 800
	cfg.Workload.Seed = 7
	cfg.Workload.Registers = 32
	return cfg
}

func TestNewValidatesConfig(t *testing.T) {
	logger := testlog.Start(t)

	cases := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"no instructions", func(c *Config) { c.Workload.Instructions = 0 }, ErrNoInstructions},
		{"too few registers", func(c *Config) { c.Workload.Registers = 4 }, ErrTooFewRegisters},
		{"abort percent high", func(c *Config) { c.Workload.AbortPercent = 101 }, ErrBadAbortPercent},
		{"abort percent negative", func(c *Config) { c.Workload.AbortPercent = -1 }, ErrBadAbortPercent},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		cfg.Logger = logger
		tc.mutate(&cfg)
		if _, err := New(cfg); !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestRunDrainsWorkload(t *testing.T) {
	cfg := testConfig(t)
	cfg.Workload.AbortPercent = 10

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("build simulator: %v", err)
	}

	snap, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if snap.Issued != uint64(cfg.Workload.Instructions) {
		t.Fatalf("issued %d, want %d", snap.Issued, cfg.Workload.Instructions)
	}
	if snap.Retired+snap.Discarded != snap.Issued {
		t.Fatalf("retired %d + discarded %d != issued %d",
			snap.Retired, snap.Discarded, snap.Issued)
	}
	if snap.FloatingFaults != 0 {
		t.Fatalf("floating faults with execution enabled: %d", snap.FloatingFaults)
	}
	if snap.Dispatched != snap.Retired {
		t.Fatalf("dispatched %d != retired %d", snap.Dispatched, snap.Retired)
	}
}

func TestRunWithFloatingDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Workload.AbortPercent = 0
	cfg.FloatingEnabled = false

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("build simulator: %v", err)
	}

	snap, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if snap.Retired != snap.Issued {
		t.Fatalf("retired %d, want %d", snap.Retired, snap.Issued)
	}
	if snap.FloatingFaults == 0 {
		t.Fatalf("mixed workload should synthesize floating-disabled faults")
	}
	if snap.Dispatched+snap.FloatingFaults != snap.Retired {
		t.Fatalf("dispatched %d + faulted %d != retired %d",
			snap.Dispatched, snap.FloatingFaults, snap.Retired)
	}
}

func TestRunObserverAndRetireHooks(t *testing.T) {
	cfg := testConfig(t)
	cfg.Workload.Instructions = 200

	var observed, retired atomic.Uint64
	cfg.Observe = func(_ arch.Unit, _ dispatch.Outcome, _ *arch.Instruction) {
		observed.Add(1)
	}
	cfg.OnRetire = func(ins *arch.Instruction) {
		if ins.Fault != arch.FaultNone {
			t.Errorf("unexpected fault on retired instruction %d", ins.Serial)
		}
		retired.Add(1)
	}
	cfg.Workload.AbortPercent = 0

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("build simulator: %v", err)
	}
	snap, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if observed.Load() == 0 {
		t.Fatalf("observer hook never fired")
	}
	if retired.Load() != snap.Retired {
		t.Fatalf("retire hook fired %d times, want %d", retired.Load(), snap.Retired)
	}
}

func TestRunStopsOnCanceledContext(t *testing.T) {
	cfg := testConfig(t)
	cfg.Workload.Instructions = 200000

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("build simulator: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	done := make(chan Snapshot, 1)
	go func() {
		snap, _ := s.Run(ctx)
		done <- snap
	}()

	select {
	case snap := <-done:
		if snap.Retired+snap.Discarded > snap.Issued {
			t.Fatalf("accounting overflow: %+v", snap)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("run did not stop after cancel")
	}
}

func TestScoreboardReadiness(t *testing.T) {
	b := NewScoreboard(8)
	if !b.OperandsReady(0, 7) {
		t.Fatalf("registers should start ready")
	}

	b.SetPending(3)
	if b.OperandsReady(3, 4) || b.OperandsReady(4, 3) {
		t.Fatalf("pending register reported ready")
	}
	if !b.OperandsReady(4, 5) {
		t.Fatalf("unrelated registers should stay ready")
	}

	b.SetReady(3)
	if !b.OperandsReady(3, 3) {
		t.Fatalf("released register still pending")
	}
	if b.Registers() != 8 {
		t.Fatalf("register count = %d, want 8", b.Registers())
	}
}

func TestReferenceTopologyFanOut(t *testing.T) {
	topo := NewReferenceTopology()
	if len(topo.Channels) != 3 {
		t.Fatalf("reference topology has %d channels, want 3", len(topo.Channels))
	}

	alu := topo.ByUnit[arch.IntU0]
	for _, unit := range []arch.Unit{arch.IntU1, arch.IntL0, arch.IntL1} {
		if topo.ByUnit[unit] != alu {
			t.Fatalf("unit %s should share the ALU channel", unit)
		}
	}
	if topo.ByUnit[arch.IntA0] == alu || topo.ByUnit[arch.FpMul] == alu {
		t.Fatalf("address and floating units must not share the ALU channel")
	}
	if topo.ByUnit[arch.IntA0] != topo.ByUnit[arch.IntA1] {
		t.Fatalf("address units should share one channel")
	}
	if topo.ByUnit[arch.FpMul] != topo.ByUnit[arch.FpOther] {
		t.Fatalf("floating units should share one channel")
	}

	for _, class := range workloadClasses {
		ch, ok := topo.ByClass[class]
		if !ok || ch == nil {
			t.Fatalf("class %s has no owning channel", class)
		}
	}
}
