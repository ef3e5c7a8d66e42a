package container

import (
	"fmt"
	"reflect"
)

var errorInterface = reflect.TypeFor[error]()

// ContainerType is the Type of the container itself. Every container caches
// itself under this Type; it cannot be mapped, created or removed.
var ContainerType = &Type{name: "Container", out: reflect.TypeFor[*Container]()}

// ErrorType is the Type of the container's own error. Neither it nor any Type
// producing an error value is injectable.
var ErrorType = &Type{name: "Error", out: reflect.TypeFor[*Error]()}

// Descriptor names one constructor dependency. It either references a Type
// directly or carries a name that the container's Loader turns into a Type.
type Descriptor struct {
	typ  *Type
	name string
}

// Ref describes a dependency on t.
func Ref(t *Type) Descriptor { return Descriptor{typ: t} }

// Named describes a dependency that is resolved by name through a Loader.
func Named(name string) Descriptor { return Descriptor{name: name} }

// Type returns the referenced Type, or nil for a named descriptor.
func (d Descriptor) Type() *Type { return d.typ }

// Name returns the dependency name. For a Ref it is the Type's display name.
func (d Descriptor) Name() string {
	if d.typ != nil {
		return d.typ.Name()
	}
	return d.name
}

func (d Descriptor) String() string { return d.Name() }

// Type is an identity-comparable reference to a constructible entity.
//
// Two Types are the same only if they are the same pointer, even when they
// share a display name. A Type pairs a Go constructor function with the
// ordered list of its dependencies and the Types it extends.
type Type struct {
	name  string
	ctor  reflect.Value
	out   reflect.Type
	deps  []Descriptor
	bases []*Type
}

// TypeOption configures a Type in Define.
type TypeOption func(*Type)

// Needs declares the constructor dependencies, one descriptor per parameter,
// in parameter order.
func Needs(deps ...Descriptor) TypeOption {
	return func(t *Type) { t.deps = append(t.deps, deps...) }
}

// Extends declares the Types this Type is a subtype of.
func Extends(bases ...*Type) TypeOption {
	return func(t *Type) { t.bases = append(t.bases, bases...) }
}

// Define creates a new Type.
//
// ctor must be a non-variadic function returning either a single value or a
// value and an error. When dependencies are declared with Needs there must be
// exactly one per parameter; without Needs the container's Inspector supplies
// them. An empty name defaults to the Go type ctor returns.
//
//	oven := container.MustDefine("Oven", NewOven)
//	chef := container.MustDefine("Chef", NewChef, container.Needs(container.Ref(oven)))
func Define(name string, ctor any, opts ...TypeOption) (*Type, error) {
	fn := reflect.ValueOf(ctor)
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return nil, newError(ErrInvalidType, name, "constructor for [%s] is not a function", name)
	}

	ft := fn.Type()
	if ft.IsVariadic() {
		return nil, newError(ErrInvalidType, name, "constructor for [%s] is variadic", name)
	}
	switch {
	case ft.NumOut() == 1:
	case ft.NumOut() == 2 && ft.Out(1) == errorInterface:
	default:
		return nil, newError(ErrInvalidType, name,
			"constructor for [%s] must return a value or a value and an error", name)
	}

	if name == "" {
		name = ft.Out(0).String()
	}
	t := &Type{name: name, ctor: fn, out: ft.Out(0)}
	for _, opt := range opts {
		opt(t)
	}

	// no declared dependencies leaves the parameters to the Inspector
	if len(t.deps) > 0 && len(t.deps) != ft.NumIn() {
		return nil, newError(ErrInvalidType, name,
			"type [%s] declares %d dependencies but its constructor takes %d",
			name, len(t.deps), ft.NumIn())
	}
	for i, d := range t.deps {
		if d.typ == nil && d.name == "" {
			return nil, newError(ErrInvalidType, name, "dependency %d of [%s] is empty", i, name)
		}
	}
	for _, base := range t.bases {
		if base == nil || base.out == nil {
			return nil, newError(ErrInvalidType, name, "type [%s] extends an empty type", name)
		}
		if !t.out.AssignableTo(base.out) {
			return nil, newError(ErrInvalidType, name,
				"type [%s] produces %s which does not satisfy %s of [%s]",
				name, t.out, base.out, base.name)
		}
	}
	return t, nil
}

// MustDefine is like Define but panics on error. It is meant for package
// level Type declarations.
func MustDefine(name string, ctor any, opts ...TypeOption) *Type {
	t, err := Define(name, ctor, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the display name used in diagnostics.
func (t *Type) Name() string {
	if t == nil {
		return "<nil>"
	}
	return t.name
}

func (t *Type) String() string { return t.Name() }

// Dependencies returns a copy of the declared dependency descriptors.
func (t *Type) Dependencies() []Descriptor {
	if t == nil {
		return nil
	}
	return append([]Descriptor(nil), t.deps...)
}

// Bases returns the Types t directly extends.
func (t *Type) Bases() []*Type {
	if t == nil {
		return nil
	}
	return append([]*Type(nil), t.bases...)
}

// Produces returns the Go type of the values t constructs.
func (t *Type) Produces() reflect.Type {
	if t == nil {
		return nil
	}
	return t.out
}

// IsSubtypeOf reports whether t extends other directly or transitively.
// A Type is never a subtype of itself.
func (t *Type) IsSubtypeOf(other *Type) bool {
	if t == nil || other == nil || t == other {
		return false
	}
	for _, base := range t.bases {
		if base == other || base.IsSubtypeOf(other) {
			return true
		}
	}
	return false
}

// IsInstance reports whether v is a non-nil value assignable to the Go type t
// produces.
func (t *Type) IsInstance(v any) bool {
	if t == nil || t.out == nil || isNil(v) {
		return false
	}
	return reflect.TypeOf(v).AssignableTo(t.out)
}

func (t *Type) constructible() bool { return t.ctor.IsValid() }

// construct calls the constructor with args, one per parameter.
func (t *Type) construct(args []any) (v any, err error) {
	ft := t.ctor.Type()
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		pt := ft.In(i)
		if arg == nil {
			in[i] = reflect.Zero(pt)
			continue
		}
		av := reflect.ValueOf(arg)
		if !av.Type().AssignableTo(pt) {
			return nil, fmt.Errorf("argument %d (%s) is not assignable to %s", i, av.Type(), pt)
		}
		in[i] = av
	}

	defer func() {
		if r := recover(); r != nil {
			err = panicError(r)
		}
	}()

	out := t.ctor.Call(in)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", r)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map,
		reflect.Pointer, reflect.Slice, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}
