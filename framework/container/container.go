package container

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/km-arc/chefling/framework/store"
)

// ── Lifecycle hooks ───────────────────────────────────────────────────────────

// Creatable is implemented by values that want a callback once the container
// has produced them.
type Creatable interface {
	OnCreate()
}

// Destroyable is implemented by values that want a callback when the
// container evicts them through Remove or Reset.
type Destroyable interface {
	OnDestroy()
}

func destroy(instance any) {
	if d, ok := instance.(Destroyable); ok {
		d.OnDestroy()
	}
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container resolves Types into fully constructed object graphs.
//
// It supports:
//   - Get (cached, one instance per Type) and Create (always a new value)
//   - MapInstance / MapFactory / MapType
//   - Remove (cascading through subtype mappings) and Reset
//   - Named dependencies resolved through a pluggable Loader
//   - OnCreate / OnDestroy lifecycle hooks
//
// A Container is not safe for concurrent use.
type Container struct {
	// type → resolved instance
	instances *store.Map[*Type, any]

	// type → mapping
	mappings *store.Map[*Type, Mapping]

	// types currently being resolved on the call stack (cycle guard)
	resolving *store.Map[*Type, bool]

	inspector Inspector
	loader    Loader
	logger    *log.Logger
}

// Option configures a Container in New.
type Option func(*Container)

// WithLogger sets the logger used for debug tracing of resolutions.
func WithLogger(l *log.Logger) Option {
	return func(c *Container) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithInspector replaces DeclaredDependencies as the source of constructor
// dependencies.
func WithInspector(i Inspector) Option {
	return func(c *Container) {
		if i != nil {
			c.inspector = i
		}
	}
}

// WithLoader sets the Loader used for Named dependencies.
func WithLoader(l Loader) Option {
	return func(c *Container) {
		if l != nil {
			c.loader = l
		}
	}
}

// New creates an empty container that already resolves ContainerType to
// itself.
func New(opts ...Option) *Container {
	c := &Container{
		inspector: DeclaredDependencies,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.initialize()
	return c
}

func (c *Container) initialize() {
	c.instances = store.New[*Type, any]()
	c.mappings = store.New[*Type, Mapping]()
	c.resolving = store.New[*Type, bool]()

	// Bind the container to itself
	c.instances.Set(ContainerType, c)
}

var (
	defaultOnce      sync.Once
	defaultContainer *Container
)

// Default returns the process-wide container, creating it on first use.
// Creation is guarded by sync.Once so exactly one caller initialises it; the
// container itself is not safe for concurrent use afterwards.
func Default() *Container {
	defaultOnce.Do(func() {
		defaultContainer = New()
	})
	return defaultContainer
}

// ── Registration ──────────────────────────────────────────────────────────────

// MapFactory makes t resolve through f.
//
//	c.MapFactory(clock, func(c *container.Container) (any, error) {
//	    return &FixedClock{Now: time.Unix(0, 0)}, nil
//	})
func (c *Container) MapFactory(t *Type, f Factory) error {
	if err := validate(t); err != nil {
		return err
	}
	if f == nil {
		return newError(ErrInvalidFactoryMapping, t.name, "factory for %s is not a function", t.name)
	}
	return c.addMapping(t, FactoryMapping{Factory: f})
}

// MapInstance makes t resolve to instance, which must be an instance of t.
//
//	c.MapInstance(configType, cfg)
func (c *Container) MapInstance(t *Type, instance any) error {
	if err := validate(t); err != nil {
		return err
	}
	if isNil(instance) {
		return newError(ErrInvalidInstanceMapping, t.name, "instance for %s is empty", t.name)
	}
	if !t.IsInstance(instance) {
		return newError(ErrInvalidInstanceMapping, t.name,
			"value of type %T is not an instance of %s", instance, t.name)
	}
	return c.addMapping(t, InstanceMapping{Instance: instance})
}

// MapType redirects t to subType, which must extend t. Get on t and on
// subType then share one instance.
//
//	c.MapType(storage, diskStorage)
func (c *Container) MapType(t, subType *Type) error {
	if err := validate(t); err != nil {
		return err
	}
	if err := validate(subType); err != nil {
		return wrapError(ErrInvalidSubTypeMapping, t.name, err, "subtype for %s is invalid", t.name)
	}
	if subType == t {
		return newError(ErrInvalidSubTypeMapping, t.name, "%s can not be mapped to itself", t.name)
	}
	if !subType.IsSubtypeOf(t) {
		return newError(ErrInvalidSubTypeMapping, t.name, "%s does not extend %s", subType.name, t.name)
	}
	return c.addMapping(t, SubTypeMapping{SubType: subType})
}

func (c *Container) addMapping(t *Type, m Mapping) error {
	if c.Has(t) {
		return newError(ErrDuplicateMapping, t.name, "a mapping for %s already exists", t.name)
	}
	c.mappings.Set(t, m)
	c.logger.Debug("mapped", "type", t.name, "kind", m.Kind())
	return nil
}

// SetLogger replaces the logger used for debug tracing. A nil logger is
// ignored.
func (c *Container) SetLogger(l *log.Logger) {
	if l != nil {
		c.logger = l
	}
}

// SetLoader sets the Loader used for Named dependencies, replacing any
// previous one.
func (c *Container) SetLoader(l Loader) error {
	if l == nil {
		return newError(ErrInvalidLoader, "", "loader is not a function")
	}
	c.loader = l
	return nil
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Get returns the shared instance of t, building and caching it on first
// use. Dependencies are resolved recursively; a Type that depends on itself,
// directly or through other Types, fails with ErrCircularDependency.
func (c *Container) Get(t *Type) (any, error) {
	if instance, ok := c.instances.Get(t); ok {
		c.logger.Debug("cache hit", "type", t.Name())
		return instance, nil
	}

	if err := validate(t); err != nil {
		return nil, err
	}

	if m, ok := c.mappings.Get(t); ok {
		if sub, ok := m.(SubTypeMapping); ok {
			return c.Get(sub.SubType)
		}
	}

	if c.resolving.Has(t) {
		return nil, newError(ErrCircularDependency, t.name, "circular dependency detected: %s", t.name)
	}
	c.resolving.Set(t, true)
	defer c.resolving.Remove(t)

	c.logger.Debug("resolving", "type", t.name)
	instance, err := c.build(t)
	if errors.Is(err, errRemapped) {
		// the mapping of t changed underneath; start over with the new one
		c.resolving.Remove(t)
		return c.Get(t)
	}
	if err != nil {
		return nil, err
	}

	c.instances.Set(t, instance)
	return instance, nil
}

// Create builds a new value for t without caching it. The dependencies of a
// reflectively constructed value still come from Get.
func (c *Container) Create(t *Type) (any, error) {
	if err := validate(t); err != nil {
		return nil, err
	}

	instance, err := c.build(t)
	if errors.Is(err, errRemapped) {
		return c.Create(t)
	}
	return instance, err
}

// build produces a value for t and runs its creation hook.
func (c *Container) build(t *Type) (any, error) {
	instance, err := c.produce(t)
	if err != nil {
		return nil, err
	}
	if isNil(instance) {
		return nil, newError(ErrCreationFailure, t.name, "could not create an instance for type %s", t.name)
	}

	if h, ok := instance.(Creatable); ok {
		h.OnCreate()
	}
	return instance, nil
}

// produce dispatches on the mapping for t. The hooks of t itself run in build.
func (c *Container) produce(t *Type) (any, error) {
	m, ok := c.mappings.Get(t)
	if !ok {
		return c.construct(t)
	}

	switch m := m.(type) {
	case InstanceMapping:
		if t.IsInstance(m.Instance) {
			return m.Instance, nil
		}
	case SubTypeMapping:
		return c.Create(m.SubType)
	case FactoryMapping:
		return c.runFactory(t, m.Factory)
	}
	return nil, nil
}

func (c *Container) runFactory(t *Type, f Factory) (instance any, err error) {
	defer func() {
		if r := recover(); r != nil {
			instance = nil
			if e, ok := r.(error); ok && isContainerError(e) {
				err = e
				return
			}
			err = wrapError(ErrFactoryFailure, t.name, panicError(r), "factory for %s panicked", t.name)
		}
	}()

	c.logger.Debug("running factory", "type", t.name)
	instance, err = f(c)
	if err != nil {
		// resolution errors raised inside the factory keep their reason
		if isContainerError(err) || errors.Is(err, errRemapped) {
			return nil, err
		}
		return nil, wrapError(ErrFactoryFailure, t.name, err, "factory for %s failed", t.name)
	}
	if isNil(instance) {
		return nil, newError(ErrFactoryFailure, t.name, "factory for %s returned an empty value", t.name)
	}
	if !t.IsInstance(instance) {
		return nil, newError(ErrFactoryFailure, t.name,
			"factory for %s returned an unexpected value of type %T", t.name, instance)
	}
	return instance, nil
}

// construct builds t by resolving each constructor dependency through Get and
// calling the constructor with the results in order.
func (c *Container) construct(t *Type) (any, error) {
	c.logger.Debug("constructing", "type", t.name)

	descriptors := c.inspector.Dependencies(t)
	if params := t.ctor.Type().NumIn(); len(descriptors) != params {
		return nil, newError(ErrCreationFailure, t.name,
			"%s has %d dependencies but its constructor takes %d", t.name, len(descriptors), params)
	}

	args := make([]any, len(descriptors))
	for i, d := range descriptors {
		dep, err := c.resolveDescriptor(t, d)
		if err != nil {
			return nil, err
		}
		if args[i], err = c.Get(dep); err != nil {
			return nil, err
		}
	}

	instance, err := t.construct(args)
	if err != nil {
		return nil, wrapError(ErrCreationFailure, t.name, err, "could not construct %s", t.name)
	}
	return instance, nil
}

func (c *Container) resolveDescriptor(owner *Type, d Descriptor) (*Type, error) {
	if d.typ != nil {
		return d.typ, nil
	}
	if c.loader == nil {
		return nil, newError(ErrUnresolvableDependency, owner.name,
			"dependency %q of %s can not be resolved without a loader", d.name, owner.name)
	}

	dep, err := c.loader(d.name)
	if err != nil {
		return nil, wrapError(ErrUnresolvableDependency, owner.name, err,
			"dependency %q of %s can not be resolved", d.name, owner.name)
	}
	if dep == nil {
		return nil, newError(ErrUnresolvableDependency, owner.name,
			"loader returned no type for dependency %q of %s", d.name, owner.name)
	}
	return dep, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Has reports whether t has a cached instance or a mapping.
func (c *Container) Has(t *Type) bool {
	return c.instances.Has(t) || c.mappings.Has(t)
}

// Mapping returns the mapping registered for t.
func (c *Container) Mapping(t *Type) (Mapping, bool) {
	return c.mappings.Get(t)
}

// Types returns every Type with a cached instance or a mapping (for
// debugging). Cached Types come first, in resolution order.
func (c *Container) Types() []*Type {
	out := c.instances.Keys()
	for _, t := range c.mappings.Keys() {
		if !c.instances.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

// Remove evicts the instance and mapping of t, calling OnDestroy on the
// evicted instance. Every Type mapped to t through MapType is removed as
// well, recursively.
func (c *Container) Remove(t *Type) error {
	if t == ContainerType {
		return newError(ErrContainerProtected, t.name, "the container instance can not be removed")
	}
	if err := validate(t); err != nil {
		return err
	}

	if instance, ok := c.instances.Get(t); ok {
		destroy(instance)
	}
	c.instances.Remove(t)
	c.mappings.Remove(t)
	c.logger.Debug("removed", "type", t.name)

	for _, dependent := range c.mappings.KeysFor(SubTypeMapping{SubType: t}) {
		if err := c.Remove(dependent); err != nil {
			return err
		}
	}
	return nil
}

// Reset calls OnDestroy once on every cached instance, then drops all
// instances and mappings. The container resolves itself again afterwards.
func (c *Container) Reset() {
	var destroyed []any
	for _, instance := range c.instances.Values() {
		if seen(destroyed, instance) {
			continue
		}
		destroyed = append(destroyed, instance)
		destroy(instance)
	}

	c.initialize()
	c.logger.Debug("reset", "destroyed", len(destroyed))
}

func seen(values []any, v any) bool {
	for _, s := range values {
		if store.Same(s, v) {
			return true
		}
	}
	return false
}

// errRemapped is returned by a factory that replaced the mapping of its own
// Type. Get and Create retry against the new mapping.
var errRemapped = errors.New("container: mapping replaced during resolution")

func isContainerError(err error) bool {
	var ce *Error
	return errors.As(err, &ce)
}

// validate rejects Types that can not be injected.
func validate(t *Type) error {
	var why string
	switch {
	case t == nil:
		why = "empty"
	case t == ContainerType || t.IsSubtypeOf(ContainerType) || t.out == ContainerType.out:
		why = "a Container type"
	case t == ErrorType || t.IsSubtypeOf(ErrorType) || (t.out != nil && t.out.Implements(errorInterface)):
		why = "an error type"
	case t.out != nil && t.out.Kind() == reflect.Interface && t.out.NumMethod() == 0:
		why = "the base any type"
	case !t.constructible():
		why = "not a constructor"
	}
	if why == "" {
		return nil
	}
	return newError(ErrInvalidType, t.Name(), "type [%s] is invalid, because it is %s", t.Name(), why)
}

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolve is a generic helper that calls Get and type-asserts the result.
//
//	// Instead of: v, err := c.Get(ovenType); oven := v.(*Oven)
//	// Write:      oven, err := container.Resolve[*Oven](c, ovenType)
func Resolve[T any](c *Container, t *Type) (T, error) {
	instance, err := c.Get(t)
	if err != nil {
		var zero T
		return zero, err
	}
	return assertAs[T](t, instance)
}

// MustResolve is like Resolve but panics on error.
func MustResolve[T any](c *Container, t *Type) T {
	v, err := Resolve[T](c, t)
	if err != nil {
		panic(err)
	}
	return v
}

// Make is the transient counterpart of Resolve: it calls Create.
func Make[T any](c *Container, t *Type) (T, error) {
	instance, err := c.Create(t)
	if err != nil {
		var zero T
		return zero, err
	}
	return assertAs[T](t, instance)
}

func assertAs[T any](t *Type, instance any) (T, error) {
	typed, ok := instance.(T)
	if !ok {
		return typed, fmt.Errorf("container: [%s] resolved to %T, not %s",
			t.Name(), instance, reflect.TypeFor[T]())
	}
	return typed, nil
}
