package container

// Inspector reports the ordered dependencies of a Type's constructor. It must
// be deterministic for a given Type.
type Inspector interface {
	Dependencies(t *Type) []Descriptor
}

// InspectorFunc adapts a function to the Inspector interface.
type InspectorFunc func(t *Type) []Descriptor

func (f InspectorFunc) Dependencies(t *Type) []Descriptor { return f(t) }

// DeclaredDependencies is the default Inspector. It returns the descriptors
// passed to Needs when the Type was defined.
var DeclaredDependencies Inspector = InspectorFunc(func(t *Type) []Descriptor {
	return t.Dependencies()
})

// ParameterInspector derives dependencies from constructor parameter types
// for Types defined without Needs.
//
// A parameter whose Go type is produced by exactly one Type in reg becomes a
// Ref to that Type; any other parameter becomes Named with the Go type's
// string form (for example "*kitchen.Oven"), left to the Loader. Types with
// declared dependencies are returned unchanged.
func ParameterInspector(reg *TypeRegistry) Inspector {
	return InspectorFunc(func(t *Type) []Descriptor {
		if len(t.deps) > 0 || !t.constructible() {
			return t.Dependencies()
		}

		ft := t.ctor.Type()
		deps := make([]Descriptor, ft.NumIn())
		for i := range deps {
			pt := ft.In(i)
			var match *Type
			count := 0
			for _, candidate := range reg.Types() {
				if candidate.out == pt {
					match = candidate
					count++
				}
			}
			if count == 1 {
				deps[i] = Ref(match)
			} else {
				deps[i] = Named(pt.String())
			}
		}
		return deps
	})
}
