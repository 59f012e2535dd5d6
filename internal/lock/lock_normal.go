//go:build !gcplan_deadlock

// Package lock re-exports the mutex type the rest of the toolkit embeds
// for its protected lists and tables. By default it is plain sync.Mutex;
// building with -tags gcplan_deadlock swaps in a deadlock-detecting
// drop-in so CI can catch lock-ordering mistakes around BlockList and
// the side-metadata tables without paying the detector's overhead in
// production.
package lock

import "sync"

// Mutex is the mutex type used throughout the toolkit.
type Mutex = sync.Mutex

// RWMutex is the read-write mutex type used throughout the toolkit.
type RWMutex = sync.RWMutex
