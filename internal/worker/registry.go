package worker

import (
	"sync"

	"github.com/smazurov/camrelay/internal/logging"
)

// Registry tracks the live worker per feed id. At most one handle is
// associated with a feed at any instant; removal releases the handle's log
// resource exactly once.
//
// All mutation happens under a mutex, so the single-writer discipline holds
// even if callers parallelize validation and launch.
type Registry struct {
	mu      sync.Mutex
	workers map[string]Handle
	logger  logging.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger logging.Logger) *Registry {
	return &Registry{
		workers: make(map[string]Handle),
		logger:  logger,
	}
}

// Put records handle as the live worker for a feed. The caller removes the
// prior handle before relaunching; if one is somehow still present it is
// terminated and released first so the one-live-handle invariant holds.
func (r *Registry) Put(id string, h Handle) {
	r.mu.Lock()
	old, exists := r.workers[id]
	r.workers[id] = h
	r.mu.Unlock()

	if exists {
		r.logger.Warn("Replacing unreleased worker handle", "feed_id", id)
		old.Terminate()
		_ = old.Close()
	}
}

// Get returns the live handle for a feed, if any.
func (r *Registry) Get(id string) (Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.workers[id]
	return h, ok
}

// Len returns the number of tracked workers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workers)
}

// Remove drops the feed's entry and releases its log file. Idempotent: a
// missing id is a no-op, and the log is released at most once.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	h, exists := r.workers[id]
	delete(r.workers, id)
	r.mu.Unlock()

	if !exists {
		return
	}
	if err := h.Close(); err != nil {
		r.logger.Warn("Failed to close worker log", "feed_id", id, "error", err)
	}
}

// ForEach calls fn for every tracked feed. Ids are snapshotted before
// iterating, so fn may remove entries (including its own) during the walk.
func (r *Registry) ForEach(fn func(id string, h Handle)) {
	r.mu.Lock()
	ids := make([]string, 0, len(r.workers))
	for id := range r.workers {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	for _, id := range ids {
		r.mu.Lock()
		h, exists := r.workers[id]
		r.mu.Unlock()
		if exists {
			fn(id, h)
		}
	}
}

// DrainAll terminates and removes every entry. A failure on one entry never
// stops the rest, and draining an already-empty registry is a no-op.
func (r *Registry) DrainAll() {
	r.ForEach(func(id string, h Handle) {
		h.Terminate()
		r.Remove(id)
		r.logger.Info("Worker drained", "feed_id", id)
	})
}
