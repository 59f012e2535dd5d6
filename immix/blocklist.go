package immix

import "github.com/elise-palethorpe/gcplan/internal/lock"

// BlockList is a mutex-protected LIFO queue of blocks. Sweepers push
// newly-reusable blocks during sweep; allocators pop from the same list
// during subsequent mutator allocation. Push and Pop are mutually
// exclusive with each other and with Snapshot/Len.
type BlockList struct {
	mu     lock.Mutex
	blocks []Block
}

// Push adds a block to the list.
func (l *BlockList) Push(b Block) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.blocks = append(l.blocks, b)
}

// Pop removes and returns the most recently pushed block. ok is false if
// the list was empty.
func (l *BlockList) Pop() (b Block, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := len(l.blocks)
	if n == 0 {
		return Block{}, false
	}
	b = l.blocks[n-1]
	l.blocks[n-1] = Block{}
	l.blocks = l.blocks[:n-1]
	return b, true
}

// Len returns the number of blocks currently in the list.
func (l *BlockList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.blocks)
}

// Reset empties the list.
func (l *BlockList) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.blocks = nil
}

// Snapshot returns a copy of every block currently in the list, in push
// order. Unlike a borrowed view under the lock, this is safe to retain
// after the call returns at the cost of a copy.
func (l *BlockList) Snapshot() []Block {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Block, len(l.blocks))
	copy(out, l.blocks)
	return out
}
