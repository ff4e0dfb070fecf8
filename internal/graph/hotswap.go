package graph

import (
	"sync"
)

// HotSwap holds the currently loaded Store and lets a host replace it when a
// new document is opened. The previous store is dropped entirely.
type HotSwap struct {
	mu      sync.RWMutex
	current *Store
}

func NewHotSwap(initial *Store) *HotSwap {
	return &HotSwap{current: initial}
}

// Swap replaces the current store.
func (h *HotSwap) Swap(next *Store) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = next
}

// Current returns the loaded store, or nil before the first load.
func (h *HotSwap) Current() *Store {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Loaded reports whether a store is present.
func (h *HotSwap) Loaded() bool {
	return h.Current() != nil
}
