// Package container provides a dependency resolution engine that builds
// object graphs from Types and mapping rules.
//
// # Overview
//
// A Type pairs a Go constructor with the ordered list of its dependencies.
// Get resolves a Type by first resolving every dependency, caches the result
// and hands out the same instance on every later call. Create always builds a
// fresh value. Circular dependencies are detected while walking the graph and
// reported as ErrCircularDependency.
//
// # Types
//
//	oven   := container.MustDefine("Oven", NewOven)
//	pantry := container.MustDefine("Pantry", NewPantry)
//	chef   := container.MustDefine("Chef", NewChef,
//	    container.Needs(container.Ref(oven), container.Ref(pantry)))
//
// Subtypes are declared with Extends; the constructor's result must be
// assignable to the base's result:
//
//	kitchen    := container.MustDefine("Kitchen", NewKitchen)          // returns Kitchen (interface)
//	restaurant := container.MustDefine("Restaurant", NewRestaurant,    // returns *Restaurant
//	    container.Needs(container.Ref(chef)), container.Extends(kitchen))
//
// # Resolving
//
//	c := container.New()
//
//	// Untyped
//	v, err := c.Get(chef)
//
//	// Generic
//	cook, err := container.Resolve[*Chef](c, chef)
//
// # Mappings
//
//	// Pre-built value
//	c.MapInstance(pantry, &Pantry{Stock: 12})
//
//	// Factory, called with the container
//	c.MapFactory(oven, func(c *container.Container) (any, error) {
//	    return NewOven(), nil
//	})
//
//	// Subtype redirect: Get(kitchen) and Get(restaurant) share one instance
//	c.MapType(kitchen, restaurant)
//
// A Type has at most one mapping. Remove(t) evicts its instance and mapping
// and recursively removes every Type mapped onto t with MapType.
//
// # Named dependencies
//
// Needs(container.Named("Menu")) defers the lookup to a Loader:
//
//	reg := container.NewTypeRegistry()
//	reg.MustRegister(menu)
//	c.SetLoader(reg.Load)
//
// # Lifecycle
//
// Values implementing Creatable get OnCreate after the container produced
// them. Values implementing Destroyable get OnDestroy when Remove or Reset
// evicts them.
//
// # Service Providers
//
//	type KitchenProvider struct{ container.BaseProvider }
//
//	func (p *KitchenProvider) Register(app *container.Container) error {
//	    return app.MapType(kitchen, restaurant)
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&KitchenProvider{})
//	registry.Boot()
//
// # Deferred Providers
//
//	type HeavyProvider struct{ container.BaseProvider }
//
//	func (p *HeavyProvider) IsDeferred() bool             { return true }
//	func (p *HeavyProvider) Provides() []*container.Type { return []*container.Type{heavy} }
//	func (p *HeavyProvider) Register(app *container.Container) error {
//	    return app.MapFactory(heavy, func(c *container.Container) (any, error) {
//	        return heavySetup() // only called on first c.Get(heavy)
//	    })
//	}
package container
