package game

import (
	"fmt"
	"sort"
	"sync"

	"github.com/turnforge/atlascore/internal/errs"
)

// Registry holds every Game Instance hosted by this process, the
// "one process hosts many concurrent Game Instances" model of
// spec.md §2.
type Registry struct {
	mu        sync.RWMutex
	instances map[string]*Instance
}

func NewRegistry() *Registry {
	return &Registry{instances: map[string]*Instance{}}
}

func (r *Registry) Add(g *Instance) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instances[g.ID] = g
}

func (r *Registry) Get(id string) (*Instance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.instances[id]
	if !ok {
		return nil, errs.New(errs.UnknownId, fmt.Sprintf("unknown game %q", id))
	}
	return g, nil
}

// Delete removes a game, modeling the "game-delete cancels any
// in-flight resolution" contract of spec.md §5: callers must hold the
// instance lock (or confirm no resolution is in flight) before calling
// this so no half-resolved state is persisted afterward.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.instances, id)
}

// List returns every game in stable id order, for the game-listing
// endpoint of spec.md §6.1.
func (r *Registry) List() []*Instance {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Instance, 0, len(r.instances))
	for _, g := range r.instances {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
