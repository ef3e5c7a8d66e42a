package container

// Factory builds a value for a mapped Type. It receives the container so it
// can resolve its own dependencies.
//
//	c.MapFactory(cache, func(c *container.Container) (any, error) {
//	    cfg, err := container.Resolve[*Config](c, configType)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return NewRedisCache(cfg), nil
//	})
type Factory func(c *Container) (any, error)

// MappingKind tags the variant of a Mapping.
type MappingKind int

const (
	InstanceKind MappingKind = iota + 1
	FactoryKind
	SubTypeKind
)

func (k MappingKind) String() string {
	switch k {
	case InstanceKind:
		return "instance"
	case FactoryKind:
		return "factory"
	case SubTypeKind:
		return "subtype"
	default:
		return "unknown"
	}
}

// Mapping tells the container how to produce a Type. It is one of
// InstanceMapping, FactoryMapping or SubTypeMapping.
type Mapping interface {
	Kind() MappingKind
}

// InstanceMapping resolves a Type to a pre-built value.
type InstanceMapping struct{ Instance any }

// FactoryMapping resolves a Type by calling a Factory.
type FactoryMapping struct{ Factory Factory }

// SubTypeMapping redirects resolution of a Type to one of its subtypes.
type SubTypeMapping struct{ SubType *Type }

func (InstanceMapping) Kind() MappingKind { return InstanceKind }
func (FactoryMapping) Kind() MappingKind  { return FactoryKind }
func (SubTypeMapping) Kind() MappingKind  { return SubTypeKind }
