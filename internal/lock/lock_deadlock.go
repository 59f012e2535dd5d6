//go:build gcplan_deadlock

package lock

import deadlock "github.com/sasha-s/go-deadlock"

// Mutex is the mutex type used throughout the toolkit. Under the
// gcplan_deadlock build tag it is go-deadlock's detecting mutex, the same
// drop-in used for GC-adjacent locking in the retrieved bsc-erigon and
// moby dependency manifests.
type Mutex = deadlock.Mutex

// RWMutex is the read-write mutex type used throughout the toolkit.
type RWMutex = deadlock.RWMutex
