package service

import (
	"sync"

	"fieldservice_backend/platform/apperr"

	"github.com/google/uuid"
)

// inflightTracker serializes mutations per work order. A drop, assign, or
// update that arrives while another mutation for the same order is still
// running gets rejected with a conflict instead of queuing, so two rapid
// drags of the same card cannot interleave their read-modify-write cycles.
type inflightTracker struct {
	mu     sync.Mutex
	active map[uuid.UUID]struct{}
}

func newInflightTracker() *inflightTracker {
	return &inflightTracker{active: make(map[uuid.UUID]struct{})}
}

// begin marks the order as having a mutation in flight. It returns a release
// function on success and a conflict error when a mutation is already running.
func (t *inflightTracker) begin(id uuid.UUID) (func(), error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, busy := t.active[id]; busy {
		return nil, apperr.Conflict("another change to this work order is in progress")
	}

	t.active[id] = struct{}{}
	return func() {
		t.mu.Lock()
		delete(t.active, id)
		t.mu.Unlock()
	}, nil
}
