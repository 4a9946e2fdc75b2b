package trains

import (
	"sort"
	"sync"

	"railwatch/server/internal/host"
)

// Registry maps train id to the live train handle. It is owned by the
// Tracker that created it; the reconciler and Rebuild are the only writers.
// The mutex exists for the server goroutines that read it concurrently.
type Registry struct {
	mu     sync.RWMutex
	trains map[int]host.Train
}

func NewRegistry() *Registry {
	return &Registry{trains: make(map[int]host.Train)}
}

// Rebuild repopulates the mapping from scratch by locating every train in
// the world. Idempotent: calling it twice against unchanged host state
// yields the same mapping.
func (r *Registry) Rebuild(world host.World) int {
	next := make(map[int]host.Train)
	for _, f := range Find(world, Criteria{}) {
		next[f.ID] = f.Train
	}
	r.mu.Lock()
	r.trains = next
	r.mu.Unlock()
	return len(next)
}

// Lookup resolves an id to the handle it maps to.
func (r *Registry) Lookup(id int) (host.Train, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	train, ok := r.trains[id]
	return train, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.trains)
}

// IDs returns the tracked ids in ascending order.
func (r *Registry) IDs() []int {
	r.mu.RLock()
	ids := make([]int, 0, len(r.trains))
	for id := range r.trains {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Ints(ids)
	return ids
}

func (r *Registry) register(id int, train host.Train) {
	r.mu.Lock()
	r.trains[id] = train
	r.mu.Unlock()
}

// remove deletes an id and reports whether it was present.
func (r *Registry) remove(id int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, present := r.trains[id]
	delete(r.trains, id)
	return present
}
