package container

import "fmt"

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups the mappings of one subsystem.
//
// Register() maps Types into the container. Boot() is called after ALL
// providers have been registered, making it safe to resolve other Types
// inside Boot().
//
//	type StorageProvider struct{ container.BaseProvider }
//
//	func (p *StorageProvider) Register(app *container.Container) error {
//	    return app.MapType(storageType, diskStorageType)
//	}
//
//	func (p *StorageProvider) Boot(app *container.Container) error {
//	    _, err := app.Get(storageType)
//	    return err
//	}
type ServiceProvider interface {
	// Register maps Types into the container.
	// Do NOT resolve other Types here; use Boot() for that.
	Register(app *Container) error

	// Boot is called after all providers are registered.
	// Safe to resolve and use any Type here.
	Boot(app *Container) error

	// Provides returns the Types this provider maps.
	// Used for deferred (lazy) provider loading.
	// Return nil / empty slice if the provider is always eager.
	Provides() []*Type

	// IsDeferred returns true if this provider should be loaded lazily,
	// only when one of its Provides() Types is first resolved.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct that provides no-op implementations
// of Boot(), Provides(), and IsDeferred().
// Embed it in your provider and only override what you need.
//
//	type MyProvider struct{ container.BaseProvider }
//	func (p *MyProvider) Register(app *container.Container) error { ... }
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }
func (p *BaseProvider) Provides() []*Type       { return nil }
func (p *BaseProvider) IsDeferred() bool        { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry manages registration and booting of ServiceProviders,
// including deferred (lazy) providers.
type ProviderRegistry struct {
	app        *Container
	eager      []ServiceProvider
	deferred   map[*Type]ServiceProvider // type → provider
	booted     bool
	registered map[ServiceProvider]bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		deferred:   make(map[*Type]ServiceProvider),
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider and calls its Register() method (unless deferred).
// Registering the same provider value twice is a no-op.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	if r.registered[provider] {
		return nil
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		return r.interceptDeferred(provider)
	}

	if err := provider.Register(r.app); err != nil {
		return fmt.Errorf("register %T: %w", provider, err)
	}
	r.eager = append(r.eager, provider)

	// If already booted, boot this provider immediately
	if r.booted {
		if err := provider.Boot(r.app); err != nil {
			return fmt.Errorf("boot %T: %w", provider, err)
		}
	}
	return nil
}

// interceptDeferred maps a placeholder factory for each deferred Type.
// The first resolution triggers real registration + boot.
func (r *ProviderRegistry) interceptDeferred(provider ServiceProvider) error {
	for _, t := range provider.Provides() {
		r.deferred[t] = provider
		if err := r.app.MapFactory(t, r.placeholder(provider)); err != nil {
			return fmt.Errorf("defer %T: %w", provider, err)
		}
	}
	return nil
}

// placeholder loads provider and hands resolution back to the container,
// which then follows whatever mapping the provider installed.
func (r *ProviderRegistry) placeholder(provider ServiceProvider) Factory {
	return func(*Container) (any, error) {
		if err := r.loadDeferred(provider); err != nil {
			return nil, err
		}
		return nil, errRemapped
	}
}

// loadDeferred drops the placeholders of provider and registers it for real.
// If Register fails the placeholders are put back, so the next resolution
// tries again.
func (r *ProviderRegistry) loadDeferred(provider ServiceProvider) error {
	var types []*Type
	for t, p := range r.deferred {
		if p != provider {
			continue
		}
		types = append(types, t)
		delete(r.deferred, t)
		// placeholders are dropped directly: Remove would cascade into
		// Types mapped onto t
		r.app.mappings.Remove(t)
	}

	if err := provider.Register(r.app); err != nil {
		for _, t := range types {
			r.deferred[t] = provider
			r.app.mappings.Set(t, FactoryMapping{Factory: r.placeholder(provider)})
		}
		return fmt.Errorf("register %T: %w", provider, err)
	}
	r.eager = append(r.eager, provider)
	if r.booted {
		if err := provider.Boot(r.app); err != nil {
			return fmt.Errorf("boot %T: %w", provider, err)
		}
	}
	return nil
}

// Boot calls Boot() on all eager providers, stopping at the first error.
// Must be called after ALL providers have been registered.
func (r *ProviderRegistry) Boot() error {
	if r.booted {
		return nil
	}
	r.booted = true
	for _, provider := range r.eager {
		if err := provider.Boot(r.app); err != nil {
			return fmt.Errorf("boot %T: %w", provider, err)
		}
	}
	return nil
}

// Booted returns true if Boot() has been called.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns the providers whose Register has run: every eager
// provider plus the deferred ones loaded so far.
func (r *ProviderRegistry) Providers() []ServiceProvider { return r.eager }

// Pending returns the Types whose deferred provider has not been loaded yet.
func (r *ProviderRegistry) Pending() []*Type {
	out := make([]*Type, 0, len(r.deferred))
	for _, t := range r.app.mappings.Keys() {
		if _, ok := r.deferred[t]; ok {
			out = append(out, t)
		}
	}
	return out
}
