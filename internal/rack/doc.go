// Package rack owns the in-memory model of the storage rack: the fixed set
// of positions, their occupancy state, and the audit trail of mutations.
//
// The invariant maintained after every operation: a position has a non-empty
// ProductID exactly when its State is StateOccupied.
package rack
