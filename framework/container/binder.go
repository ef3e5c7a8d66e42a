package container

// Binder implements the fluent mapping API.
//
//	c.Bind(storage).ToType(diskStorage)
//	c.Bind(clock).ToFactory(func(c *container.Container) (any, error) { return realClock{}, nil })
//	c.Bind(configType).ToInstance(cfg)
type Binder struct {
	container *Container
	typ       *Type
}

// Bind starts a mapping chain for t.
func (c *Container) Bind(t *Type) *Binder {
	return &Binder{container: c, typ: t}
}

// ToInstance is MapInstance for the bound Type.
func (b *Binder) ToInstance(instance any) error {
	return b.container.MapInstance(b.typ, instance)
}

// ToFactory is MapFactory for the bound Type.
func (b *Binder) ToFactory(f Factory) error {
	return b.container.MapFactory(b.typ, f)
}

// ToType is MapType for the bound Type.
func (b *Binder) ToType(subType *Type) error {
	return b.container.MapType(b.typ, subType)
}

// ToValue is a shorthand for ToFactory when the value needs no container
// access but must be rebuilt by every Create.
//
//	c.Bind(greeting).ToValue(func() any { return &Greeting{Text: "hi"} })
func (b *Binder) ToValue(build func() any) error {
	if build == nil {
		return b.container.MapFactory(b.typ, nil)
	}
	return b.container.MapFactory(b.typ, func(_ *Container) (any, error) {
		return build(), nil
	})
}
