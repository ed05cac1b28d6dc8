package registry

import (
	"sync"

	"github.com/rpggio/feedback-widget/internal/widget"
)

// Registry maps each host element to the single instance mounted on it.
type Registry struct {
	mu      sync.Mutex
	entries map[*widget.Element]*widget.Instance
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[*widget.Element]*widget.Instance)}
}

// MountIfAbsent returns the instance registered for el, or calls build and
// registers its result. build runs under the registry lock, so concurrent
// callers for the same element never build twice.
func (r *Registry) MountIfAbsent(el *widget.Element, build func() (*widget.Instance, error)) (*widget.Instance, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if inst, ok := r.entries[el]; ok {
		return inst, false, nil
	}
	inst, err := build()
	if err != nil {
		return nil, false, err
	}
	r.entries[el] = inst
	return inst, true, nil
}

// Lookup returns the instance registered for el.
func (r *Registry) Lookup(el *widget.Element) (*widget.Instance, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.entries[el]
	return inst, ok
}

// Remove unregisters el and returns its instance.
func (r *Registry) Remove(el *widget.Element) (*widget.Instance, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.entries[el]
	if ok {
		delete(r.entries, el)
	}
	return inst, ok
}

// Len returns the number of registered elements.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
