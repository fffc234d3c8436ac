package imports

import "sync"

// Registry tracks which (file, import line) pairs have already been
// applied within one resolution call. Revisiting an identical pair is a
// silent no-op, which is what makes circular imports terminate.
type Registry struct {
	mu      sync.Mutex
	applied map[string][]RawModule
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{applied: make(map[string][]RawModule)}
}

// Apply marks the pair as applied and reports whether it was new. The
// check and the mark happen under one lock so concurrent resolution of the
// same file cannot apply a pair twice.
func (r *Registry) Apply(path string, m RawModule) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.applied == nil {
		r.applied = make(map[string][]RawModule)
	}
	for _, seen := range r.applied[path] {
		if seen.Equal(m) {
			return false
		}
	}
	r.applied[path] = append(r.applied[path], m)
	return true
}

// Seed pre-marks pairs as applied, letting callers exclude files from
// resolution.
func (r *Registry) Seed(path string, modules ...RawModule) {
	for _, m := range modules {
		r.Apply(path, m)
	}
}
