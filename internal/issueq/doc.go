// Package issueq owns the shared out-of-order issue queue primitives.
//
// Ownership boundary:
// - queue entry shape and claim flag
// - sentinel-terminated doubly-linked FIFO
// - free pool for recycled entries
//
// The queue is deliberately not self-synchronizing: callers hold the queue's
// mutex across any scan-and-claim or scan-and-remove sequence. The pool has
// its own internal lock.
package issueq
