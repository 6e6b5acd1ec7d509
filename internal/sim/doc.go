// Package sim owns the surrounding simulator.
//
// Ownership boundary:
// - queue topology, stores, pools, scoreboard (lent to workers via Shared)
// - synthetic issue stage and abort injection
// - retire stage and run accounting
//
// Lifecycle order:
// - build -> spawn workers -> issue -> drain/retire -> shutdown
//
// sim does not own the worker state machine; that lives in dispatch.
package sim
