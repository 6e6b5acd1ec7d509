package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/danmuck/coresim/internal/arch"
	"github.com/danmuck/coresim/internal/cregs"
	"github.com/danmuck/coresim/internal/dispatch"
	"github.com/danmuck/coresim/internal/issueq"
	"github.com/danmuck/coresim/internal/rob"
)

var (
	ErrNoInstructions  = errors.New("sim: workload must issue at least one instruction")
	ErrTooFewRegisters = errors.New("sim: workload needs at least eight registers")
	ErrBadAbortPercent = errors.New("sim: abort percent out of range")
)

// WorkloadConfig shapes the synthetic front-end.
type WorkloadConfig struct {
	Instructions int
	Seed         int64
	AbortPercent int
	Registers    int
}

// Config assembles one simulator run.
type Config struct {
	Workload        WorkloadConfig
	FloatingEnabled bool
	Matrix          *arch.AffinityMatrix
	Logger          zerolog.Logger
	Observe         dispatch.ObserveFunc
	OnRetire        func(ins *arch.Instruction)
}

// Simulator run defaults: a mid-sized mixed workload with light flushing.
func DefaultConfig() Config {
	return Config{
		Workload: WorkloadConfig{
			Instructions: 5000,
			Seed:         1,
			AbortPercent: 5,
			Registers:    64,
		},
		FloatingEnabled: true,
	}
}

// workloadClasses is the request-class mix the issue stage draws from. Every
// class is serviceable by some reference unit, so the earliest unfinished
// instruction always has a worker.
var workloadClasses = []arch.Class{
	arch.ClassU0,
	arch.ClassU1,
	arch.ClassU0U1,
	arch.ClassL0,
	arch.ClassL1,
	arch.ClassL0L1,
	arch.ClassAnyALU,
	arch.ClassA0,
	arch.ClassA1,
	arch.ClassA0A1,
	arch.ClassFpMul,
	arch.ClassFpOther,
}

// Simulator owns every piece of shared state and lends it to the workers.
type Simulator struct {
	cfg Config
	log zerolog.Logger

	states *rob.MutexStore
	cr     *cregs.MutexFile
	board  *Scoreboard
	pool   *issueq.Pool
	topo   *Topology
	shared *dispatch.Shared
	stats  Stats

	workers   []*dispatch.Scheduler
	completed chan *arch.Instruction
	done      chan struct{}
	remaining atomic.Int64
}

func New(cfg Config) (*Simulator, error) {
	if cfg.Workload.Instructions <= 0 {
		return nil, ErrNoInstructions
	}
	if cfg.Workload.Registers < 8 {
		return nil, ErrTooFewRegisters
	}
	if cfg.Workload.AbortPercent < 0 || cfg.Workload.AbortPercent > 100 {
		return nil, fmt.Errorf("%w: %d", ErrBadAbortPercent, cfg.Workload.AbortPercent)
	}
	if cfg.Matrix == nil {
		cfg.Matrix = arch.NewReferenceMatrix()
	}

	s := &Simulator{
		cfg:       cfg,
		log:       cfg.Logger.With().Str("component", "sim").Logger(),
		states:    rob.NewMutexStore(),
		cr:        cregs.NewMutexFile(),
		board:     NewScoreboard(cfg.Workload.Registers),
		pool:      issueq.NewPool(256),
		topo:      NewReferenceTopology(),
		completed: make(chan *arch.Instruction, cfg.Workload.Instructions),
		done:      make(chan struct{}),
	}
	s.cr.SetFloatingEnabled(cfg.FloatingEnabled)
	s.shared = dispatch.NewShared(s.states, s.cr, cfg.Matrix)

	exec := &unitExecutor{
		board:     s.board,
		states:    s.states,
		pool:      s.pool,
		completed: s.completed,
	}
	for _, unit := range arch.Units() {
		worker, err := dispatch.New(dispatch.Config{
			Unit:    unit,
			Shared:  s.shared,
			Channel: s.topo.ByUnit[unit],
			Exec:    exec,
			Logger:  cfg.Logger,
			Observe: s.observe,
		})
		if err != nil {
			return nil, fmt.Errorf("sim: build worker %s: %w", unit, err)
		}
		s.workers = append(s.workers, worker)
	}
	return s, nil
}

// Run drives one full workload: spawn workers, issue, drain, shut down.
// A canceled context abandons the remaining workload and shuts down cleanly.
func (s *Simulator) Run(ctx context.Context) (Snapshot, error) {
	s.remaining.Store(int64(s.cfg.Workload.Instructions))

	var workers sync.WaitGroup
	for _, w := range s.workers {
		workers.Add(1)
		go func(w *dispatch.Scheduler) {
			defer workers.Done()
			w.Run()
		}(w)
	}

	var retirer sync.WaitGroup
	retirer.Add(1)
	go s.retire(&retirer)

	// Enqueue signals can land in the narrow window between a worker's empty
	// scan and its wait; workers never rescan on their own after deferring.
	// A periodic broadcast keeps the run from stalling on that window.
	stopNudge := make(chan struct{})
	var nudger sync.WaitGroup
	nudger.Add(1)
	go func() {
		defer nudger.Done()
		tick := time.NewTicker(5 * time.Millisecond)
		defer tick.Stop()
		for {
			select {
			case <-stopNudge:
				return
			case <-tick.C:
				s.topo.Broadcast()
			}
		}
	}()

	s.issue(ctx)

	interrupted := false
	select {
	case <-s.done:
	case <-ctx.Done():
		interrupted = true
	}

	close(stopNudge)
	nudger.Wait()

	s.shared.Run.Shutdown()
	s.topo.Broadcast()
	workers.Wait()
	close(s.completed)
	retirer.Wait()

	snap := s.stats.Snapshot()
	evt := s.log.Info().
		Uint64("issued", snap.Issued).
		Uint64("dispatched", snap.Dispatched).
		Uint64("discarded", snap.Discarded).
		Uint64("floating_faults", snap.FloatingFaults).
		Uint64("retired", snap.Retired)
	if interrupted {
		evt.Msg("run interrupted")
	} else {
		evt.Msg("run complete")
	}
	return snap, nil
}

// Stats exposes the live counters for the admin surface.
func (s *Simulator) Stats() Snapshot {
	return s.stats.Snapshot()
}

// issue is the synthetic front-end: allocate an entry, tag it, mark the dest
// register pending, link it, and wake one worker on the owning channel. A
// slice of the stream is flushed right after issue to exercise abort cleanup.
func (s *Simulator) issue(ctx context.Context) {
	wl := s.cfg.Workload
	rng := rand.New(rand.NewSource(wl.Seed))

	for i := 0; i < wl.Instructions; i++ {
		if ctx.Err() != nil {
			// Abandoned slots still count toward completion accounting.
			for n := i; n < wl.Instructions; n++ {
				s.noteDone()
			}
			return
		}

		class := workloadClasses[rng.Intn(len(workloadClasses))]
		dest := rng.Intn(wl.Registers)
		ins := &arch.Instruction{
			Serial: uint64(i),
			PC:     0x1000 + uint64(i)*4,
			Opcode: uint16(rng.Intn(0x40)),
			Dest:   dest,
			Src1:   otherRegister(rng, wl.Registers, dest),
			Src2:   otherRegister(rng, wl.Registers, dest),
			State:  arch.StateQueued,
		}
		s.board.SetPending(dest)

		entry := s.pool.Get()
		entry.Ins = ins
		entry.Class = class

		ch := s.topo.ByClass[class]
		ch.Mu.Lock()
		ch.Queue.Push(entry)
		ch.Mu.Unlock()
		s.stats.issued.Add(1)

		if wl.AbortPercent > 0 && rng.Intn(100) < wl.AbortPercent {
			// Flush injection: roll the rename back so no consumer waits on
			// a dest that will never be produced.
			if s.states.Abort(ins) {
				s.board.SetReady(dest)
			}
		}

		ch.Signal()
	}
}

// retire drains completed instructions, frees their dest registers, and
// re-signals every channel so deferred workers rescan for newly ready work.
func (s *Simulator) retire(wg *sync.WaitGroup) {
	defer wg.Done()
	for ins := range s.completed {
		s.states.SetState(ins, arch.StateRetired)
		s.board.SetReady(ins.Dest)
		s.topo.Broadcast()
		s.stats.retired.Add(1)
		if s.cfg.OnRetire != nil {
			s.cfg.OnRetire(ins)
		}
		s.noteDone()
	}
}

// observe is the worker trace hook: accounting, fault routing, and the
// optional caller hook. Runs on worker goroutines with no locks held.
func (s *Simulator) observe(unit arch.Unit, outcome dispatch.Outcome, ins *arch.Instruction) {
	switch outcome {
	case dispatch.OutcomeDispatched:
		s.stats.dispatched.Add(1)
	case dispatch.OutcomeAborted:
		s.stats.discarded.Add(1)
		s.noteDone()
	case dispatch.OutcomeNotReady:
		s.stats.notReady.Add(1)
	case dispatch.OutcomeFloatingDisabled:
		// Faulted instructions still retire; route them onto the stream the
		// dispatcher never saw them on.
		s.stats.floatingFaults.Add(1)
		s.completed <- ins
	}
	if s.cfg.Observe != nil {
		s.cfg.Observe(unit, outcome, ins)
	}
}

func (s *Simulator) noteDone() {
	if s.remaining.Add(-1) == 0 {
		close(s.done)
	}
}

// otherRegister picks a register different from dest so an instruction never
// waits on its own result.
func otherRegister(rng *rand.Rand, registers, dest int) int {
	r := rng.Intn(registers - 1)
	if r >= dest {
		r++
	}
	return r
}
