// Package arch owns the static machine description.
//
// Ownership boundary:
// - execution-unit identities and kinds
// - request classes and cluster membership
// - the unit/class affinity matrix
// - instruction record shape, lifecycle states, fault masks
//
// arch does not own any runtime state; stores and queues live elsewhere.
package arch
