package movement

// Resolver looks up live entities by identifier.
type Resolver interface {
	Lookup(id string) (Target, bool)
}

// ResolverFunc adapts a function into a Resolver.
type ResolverFunc func(id string) (Target, bool)

// Lookup implements Resolver.
func (f ResolverFunc) Lookup(id string) (Target, bool) {
	if f == nil {
		return nil, false
	}
	return f(id)
}

// Handle references a pursued entity by identifier. The entity is looked up
// and validated on every access; no reference survives across calls.
type Handle struct {
	ID       string
	resolver Resolver
}

// NewHandle binds an identifier to the resolver used to look it up.
func NewHandle(id string, resolver Resolver) Handle {
	return Handle{ID: id, resolver: resolver}
}

// Resolve returns the target when it still exists and is in the world.
func (h Handle) Resolve() (Target, bool) {
	if h.ID == "" || h.resolver == nil {
		return nil, false
	}
	target, ok := h.resolver.Lookup(h.ID)
	if !ok || target == nil || !target.InWorld() {
		return nil, false
	}
	return target, true
}

// Valid reports whether Resolve would succeed right now.
func (h Handle) Valid() bool {
	_, ok := h.Resolve()
	return ok
}
