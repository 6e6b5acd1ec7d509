package dispatch

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/danmuck/coresim/internal/arch"
	"github.com/danmuck/coresim/internal/issueq"
)

var (
	ErrInvalidUnit = errors.New("dispatch: invalid unit identity")
	ErrNilShared   = errors.New("dispatch: shared context is incomplete")
	ErrNilChannel  = errors.New("dispatch: nil channel")
	ErrNilExecutor = errors.New("dispatch: nil executor")
)

// Executor is the per-unit-kind capability surface the worker loop hands off
// to. One generic loop serves both halves of the core; the executor carries
// the differences.
type Executor interface {
	// OperandsReady reports whether entry's instruction can execute now. It
	// is called with no scheduler lock held and may take its own locks.
	OperandsReady(entry *issueq.Entry) bool

	// Execute runs the instruction synchronously and must leave it in a
	// state other than Executing before returning.
	Execute(ins *arch.Instruction)

	// Recycle returns entry to the free pool. The entry is already unlinked
	// with its claim flag cleared; Recycle must not re-link it anywhere.
	Recycle(entry *issueq.Entry)
}

// Outcome classifies one pass through the worker loop. None of these are
// errors; aborted and not-ready instructions are ordinary scheduling results
// handled locally.
type Outcome int

const (
	OutcomeDispatched Outcome = iota
	OutcomeAborted
	OutcomeNotReady
	OutcomeFloatingDisabled
	OutcomeIdle
)

var outcomeNames = [...]string{
	"dispatched",
	"aborted",
	"not_ready",
	"floating_disabled",
	"idle",
}

func (o Outcome) String() string {
	if o < OutcomeDispatched || o > OutcomeIdle {
		return "outcome.invalid"
	}
	return outcomeNames[o]
}

// ObserveFunc receives one event per loop outcome, outside every scheduler
// lock. ins is nil for OutcomeIdle. Optional.
type ObserveFunc func(unit arch.Unit, outcome Outcome, ins *arch.Instruction)

// suspendMode is the worker's two-valued suspension state. deferWait records
// that the last scan found nothing eligible, so the worker parks until some
// enqueue or requeue event signals the channel rather than rescanning on its
// own.
type suspendMode int

const (
	readyToScan suspendMode = iota
	deferWait
)

// Config assembles one worker.
type Config struct {
	Unit    arch.Unit
	Shared  *Shared
	Channel *Channel
	Exec    Executor
	Logger  zerolog.Logger
	Observe ObserveFunc
}

// Scheduler is one execution-unit worker. Run is its only entry point; the
// rest of the struct is loop-private.
type Scheduler struct {
	unit    arch.Unit
	shared  *Shared
	channel *Channel
	exec    Executor
	log     zerolog.Logger
	observe ObserveFunc

	mode suspendMode
}

func New(cfg Config) (*Scheduler, error) {
	if !cfg.Unit.Valid() {
		return nil, ErrInvalidUnit
	}
	if cfg.Shared == nil || cfg.Shared.Run == nil || cfg.Shared.States == nil ||
		cfg.Shared.CRegs == nil || cfg.Shared.Matrix == nil {
		return nil, ErrNilShared
	}
	if cfg.Channel == nil {
		return nil, ErrNilChannel
	}
	if cfg.Exec == nil {
		return nil, ErrNilExecutor
	}
	return &Scheduler{
		unit:    cfg.Unit,
		shared:  cfg.Shared,
		channel: cfg.Channel,
		exec:    cfg.Exec,
		log:     cfg.Logger.With().Stringer("unit", cfg.Unit).Logger(),
		observe: cfg.Observe,
	}, nil
}

// Run executes the worker loop until the shared run flag turns to shutdown.
// The caller supplies the goroutine.
func (s *Scheduler) Run() {
	s.log.Debug().Msg("worker started")
	for !s.shared.Run.ShuttingDown() {
		c := s.channel

		c.Mu.Lock()
		for (c.Queue.Empty() && !s.shared.Run.ShuttingDown()) || s.mode == deferWait {
			c.cond.Wait()
			// Every wake re-arms scanning, whatever parked us.
			s.mode = readyToScan
		}
		s.mode = readyToScan

		if s.shared.Run.ShuttingDown() {
			c.Mu.Unlock()
			break
		}

		entry, depth := s.scanLocked()
		if entry == nil {
			// Nothing eligible. Park until the next signal instead of
			// spinning on repeated empty scans.
			s.mode = deferWait
			c.Mu.Unlock()
			s.trace(OutcomeIdle, depth, nil)
			continue
		}
		c.Mu.Unlock()

		// Entry is claimed but still linked. Check for a flush that raced
		// ahead of us before spending anything else on it.
		if s.shared.States.State(entry.Ins) == arch.StateAborted {
			c.Mu.Lock()
			c.Queue.Remove(entry)
			c.Mu.Unlock()
			ins := entry.Ins
			entry.Unclaim()
			s.exec.Recycle(entry)
			s.trace(OutcomeAborted, depth, ins)
			continue
		}

		if !s.exec.OperandsReady(entry) {
			// Leave the entry linked and unclaimed. The immediate rescan may
			// pick the same entry again ahead of younger eligible work; see
			// DESIGN.md before changing the scan order.
			ins := entry.Ins
			entry.Unclaim()
			s.trace(OutcomeNotReady, depth, ins)
			continue
		}

		c.Mu.Lock()
		c.Queue.Remove(entry)
		c.Mu.Unlock()

		s.shared.States.SetState(entry.Ins, arch.StateExecuting)

		enabled := true
		if s.unit.Kind() == arch.KindFloating {
			enabled = s.shared.CRegs.FloatingEnabled()
		}

		ins := entry.Ins
		outcome := OutcomeDispatched
		if enabled {
			s.exec.Execute(ins)
		} else {
			// Disabled floating execution retires as an architectural fault
			// through the normal path; the dispatcher is never involved.
			s.shared.States.Fault(ins, arch.FaultFloatingDisabled)
			outcome = OutcomeFloatingDisabled
		}

		entry.Unclaim()
		s.exec.Recycle(entry)
		s.trace(outcome, depth, ins)
	}
	s.log.Debug().Msg("worker stopped")
}

// scanLocked walks the queue head-to-sentinel and claims the first
// affinity-eligible unclaimed entry. Caller holds the channel mutex.
func (s *Scheduler) scanLocked() (*issueq.Entry, int) {
	depth := 0
	for e := s.channel.Queue.Head(); e != nil; e = s.channel.Queue.Next(e) {
		depth++
		if !s.shared.Matrix.Accepts(s.unit, e.Class) {
			continue
		}
		if e.Claimed() {
			continue
		}
		e.Claim()
		return e, depth
	}
	return nil, depth
}

// trace emits the per-outcome diagnostic event and observer callback. Never
// called while a scheduler lock is held.
func (s *Scheduler) trace(outcome Outcome, depth int, ins *arch.Instruction) {
	if s.observe != nil {
		s.observe(s.unit, outcome, ins)
	}
	evt := s.log.Trace().Stringer("outcome", outcome).Int("scan_depth", depth)
	if ins != nil {
		evt = evt.
			Uint64("serial", ins.Serial).
			Uint64("pc", ins.PC).
			Uint16("opcode", ins.Opcode)
	}
	evt.Msg("dispatch")
}
