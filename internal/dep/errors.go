package dep

import "errors"

// ErrCorrupt reports an unreadable dependency db. Fatal for the
// invocation: no task status can be computed from a corrupt store.
var ErrCorrupt = errors.New("dependency db corrupt")

// ErrLocked reports that another process holds the store lock.
var ErrLocked = errors.New("dependency db locked by another process")

// ErrClosed reports use of a store after Close.
var ErrClosed = errors.New("dependency db already closed")

// ErrCycle reports a cycle in task dependencies found while computing
// status. The selector normally rejects cycles before any status query.
var ErrCycle = errors.New("cyclic task dependency")
