package source

// PointerOptions are per-pointer overrides. Zero fields inherit the global
// options.
type PointerOptions struct {
	// Loader names a custom loader registered in Options.CustomLoaders.
	Loader string
	// LoaderFn is a custom loader given directly. It takes precedence over
	// Loader.
	LoaderFn CustomLoader
}

// merge overlays over onto o, later non-zero fields winning.
func (o PointerOptions) merge(over PointerOptions) PointerOptions {
	if over.Loader != "" {
		o.Loader = over.Loader
	}
	if over.LoaderFn != nil {
		o.LoaderFn = over.LoaderFn
	}
	return o
}

// PointerMap is an insertion-ordered pointer → options mapping. Adding a
// pointer twice collapses the entries, shallow-merging the options with
// later fields winning.
type PointerMap struct {
	order []string
	opts  map[string]PointerOptions
}

// NewPointerMap builds a map from bare pointers with no per-pointer
// options.
func NewPointerMap(pointers ...string) *PointerMap {
	m := &PointerMap{}
	for _, p := range pointers {
		m.Add(p, PointerOptions{})
	}
	return m
}

// Add appends a pointer, or merges options into an existing entry.
func (m *PointerMap) Add(pointer string, opts PointerOptions) {
	if m.opts == nil {
		m.opts = make(map[string]PointerOptions)
	}
	if existing, ok := m.opts[pointer]; ok {
		m.opts[pointer] = existing.merge(opts)
		return
	}
	m.order = append(m.order, pointer)
	m.opts[pointer] = opts
}

// Pointers returns the pointers in insertion order.
func (m *PointerMap) Pointers() []string {
	return m.order
}

// Options returns the options recorded for a pointer.
func (m *PointerMap) Options(pointer string) PointerOptions {
	return m.opts[pointer]
}

// Len returns the number of distinct pointers.
func (m *PointerMap) Len() int {
	return len(m.order)
}
