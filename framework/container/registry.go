package container

import (
	"fmt"

	"github.com/km-arc/chefling/framework/store"
)

// Loader resolves a dependency name to a Type. It is consulted for Named
// descriptors during reflective construction.
type Loader func(name string) (*Type, error)

// TypeRegistry maps display names to Types. Its Load method is a ready made
// Loader:
//
//	reg := container.NewTypeRegistry()
//	reg.Register(ovenType, pantryType)
//	c.SetLoader(reg.Load)
type TypeRegistry struct {
	types *store.Map[string, *Type]
}

// NewTypeRegistry creates an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{types: store.New[string, *Type]()}
}

// Register adds types under their display names. It fails on a nil Type or
// when a different Type already uses the same name; registering the same
// Type twice is a no-op.
func (r *TypeRegistry) Register(types ...*Type) error {
	for _, t := range types {
		if t == nil {
			return fmt.Errorf("registry: cannot register a nil type")
		}
		if existing, ok := r.types.Get(t.name); ok {
			if existing == t {
				continue
			}
			return fmt.Errorf("registry: name %q is already registered", t.name)
		}
		r.types.Set(t.name, t)
	}
	return nil
}

// MustRegister is like Register but panics on error.
func (r *TypeRegistry) MustRegister(types ...*Type) *TypeRegistry {
	if err := r.Register(types...); err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the Type registered under name.
func (r *TypeRegistry) Lookup(name string) (*Type, bool) {
	return r.types.Get(name)
}

// Load implements Loader.
func (r *TypeRegistry) Load(name string) (*Type, error) {
	t, ok := r.types.Get(name)
	if !ok {
		return nil, fmt.Errorf("registry: no type named %q", name)
	}
	return t, nil
}

// Types returns the registered Types in registration order.
func (r *TypeRegistry) Types() []*Type {
	return r.types.Values()
}
