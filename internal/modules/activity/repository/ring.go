package repository

import (
	"sync"

	"telewatch/internal/modules/activity/domain"
)

// Ring keeps the most recent records in a fixed-capacity in-memory buffer.
// Oldest records are overwritten once the buffer is full.
type Ring struct {
	mu      sync.RWMutex
	records []*domain.Record
	next    int
	full    bool
}

// NewRing creates a ring buffer with the given capacity.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = 256
	}
	return &Ring{records: make([]*domain.Record, capacity)}
}

func (r *Ring) Append(record *domain.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[r.next] = record
	r.next = (r.next + 1) % len(r.records)
	if r.next == 0 {
		r.full = true
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (r *Ring) Recent(limit int) ([]*domain.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	size := r.next
	if r.full {
		size = len(r.records)
	}
	if limit <= 0 || limit > size {
		limit = size
	}

	out := make([]*domain.Record, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (r.next - i + len(r.records)) % len(r.records)
		out = append(out, r.records[idx])
	}
	return out, nil
}
