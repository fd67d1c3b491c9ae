package logs

import (
	"sync"

	"github.com/charliek/logview/internal/domain"
)

// RingBuffer is a fixed-size circular buffer for log entries
type RingBuffer struct {
	mu       sync.RWMutex
	entries  []domain.LogEntry
	head     int // next write position
	count    int // current number of entries
	capacity int // max entries
}

// NewRingBuffer creates a new ring buffer with the given capacity
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = 1000
	}
	return &RingBuffer{
		entries:  make([]domain.LogEntry, capacity),
		capacity: capacity,
	}
}

// Write adds a new entry, overwriting the oldest one when full
func (b *RingBuffer) Write(entry domain.LogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries[b.head] = entry
	b.head = (b.head + 1) % b.capacity

	if b.count < b.capacity {
		b.count++
	}
}

// Newest returns a copy of all entries, most recently written first
func (b *RingBuffer) Newest() []domain.LogEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	result := make([]domain.LogEntry, b.count)
	for i := 0; i < b.count; i++ {
		// head-1 is the last write
		idx := (b.head - 1 - i + b.capacity) % b.capacity
		result[i] = b.entries[idx]
	}
	return result
}

// Count returns the current number of entries in the buffer
func (b *RingBuffer) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count
}
