package player

import "sync"

// Registry is the process-wide map from window label to live instance.
// At most one instance exists per label.
type Registry struct {
	mu        sync.RWMutex
	instances map[string]*Instance
}

func NewRegistry() *Registry {
	return &Registry{instances: make(map[string]*Instance)}
}

// InsertIfAbsent atomically checks membership and, if the label is free,
// runs ctor and inserts its result. It reports whether a new instance was
// created. ctor must not touch the registry.
func (r *Registry) InsertIfAbsent(label string, ctor func() (*Instance, error)) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.instances[label]; ok {
		return false, nil
	}
	inst, err := ctor()
	if err != nil {
		return false, err
	}
	r.instances[label] = inst
	return true, nil
}

// WithInstance runs op against the live instance for label under shared
// access.
func (r *Registry) WithInstance(label string, op func(*Instance) error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inst, ok := r.instances[label]
	if !ok {
		return newError(KindInstanceNotFound, nil, "%s", label)
	}
	return op(inst)
}

// Remove detaches the instance for label; the caller becomes responsible
// for its destruction.
func (r *Registry) Remove(label string) (*Instance, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.instances[label]
	if ok {
		delete(r.instances, label)
	}
	return inst, ok
}

// Has reports whether a live instance exists for label.
func (r *Registry) Has(label string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.instances[label]
	return ok
}

// Len returns the number of live instances.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.instances)
}
