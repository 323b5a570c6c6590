package naming

// Registry records the enum names already committed during one generation
// run. It belongs to whoever assembles the client; it is not safe for
// concurrent use and must not be shared between runs.
type Registry struct {
	names []string
	index map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]struct{})}
}

// Add commits name. It returns false, leaving the registry unchanged, when
// the name is already present.
func (r *Registry) Add(name string) bool {
	if r.index == nil {
		r.index = make(map[string]struct{})
	}
	if _, ok := r.index[name]; ok {
		return false
	}
	r.index[name] = struct{}{}
	r.names = append(r.names, name)
	return true
}

// Names returns the committed names in commit order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Len returns the number of committed names.
func (r *Registry) Len() int { return len(r.names) }
