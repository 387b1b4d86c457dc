package codegen

// ScopeRegistry records image-scope variable names in declaration order,
// deduplicated. It feeds accessor synthesis and nothing else. One
// registry exists per compile call.
type ScopeRegistry struct {
	names []string
	seen  map[string]bool
}

func NewScopeRegistry() *ScopeRegistry {
	return &ScopeRegistry{seen: make(map[string]bool)}
}

// Declare adds a name and reports whether it was newly added.
// Re-declaring an existing name is a no-op.
func (r *ScopeRegistry) Declare(name string) bool {
	if r.seen[name] {
		return false
	}
	r.seen[name] = true
	r.names = append(r.names, name)
	return true
}

func (r *ScopeRegistry) Empty() bool { return len(r.names) == 0 }

// Names returns the registered names in declaration order.
func (r *ScopeRegistry) Names() []string { return r.names }
