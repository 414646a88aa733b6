// Package queue serializes physical rack operations through a single FIFO.
// At most one task is in flight at any time; submission is validated against
// the position store, and terminal tasks are retained in bounded history
// rings.
package queue
