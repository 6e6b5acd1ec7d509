// Package dispatch owns the execution-unit worker loop.
//
// Ownership boundary:
// - per-worker scan/claim/handoff state machine
// - claim-flag discipline on queue entries
// - the shared-context handle borrowed by every worker
//
// Lock order on the hot path: queue mutex, then the instruction-state lock,
// then the control-register lock. No two are ever held together, and no
// collaborator callback runs under any of them.
//
// dispatch does not own the queues, the stores, or the workload; the
// surrounding simulator builds those and lends them to each worker through
// Shared.
package dispatch
