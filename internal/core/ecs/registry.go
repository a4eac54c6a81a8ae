package ecs

import (
	"fmt"
	"reflect"
)

// Registry assigns dense IDs to component types and resolves them by name
// for the serialization boundary. One registry is shared by every context
// of a game; it is built once at boot and passed explicitly, never held in
// package state. Registration is not safe for concurrent use.
type Registry struct {
	types  []*ComponentType
	byName map[string]*ComponentType
	byType map[reflect.Type]*ComponentType
}

func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*ComponentType),
		byType: make(map[reflect.Type]*ComponentType),
	}
}

// TypeOption configures a component type at registration.
type TypeOption func(*ComponentType)

// Mutable marks the type as mutable: instances are stored by pointer and
// fields may be mutated in place without Replace. Serialized mutable state
// is captured as-is at snapshot time.
func Mutable() TypeOption {
	return func(t *ComponentType) { t.mutable = true }
}

// WithValidation attaches a domain invariant check run on every
// constructed or attached instance. A non-nil result surfaces as
// ErrComponentConstruction.
func WithValidation(fn func(Component) error) TypeOption {
	return func(t *ComponentType) { t.validate = fn }
}

// Register adds the struct type T to the registry and returns its
// descriptor. The stable name is the struct type name.
func Register[T any](r *Registry, opts ...TypeOption) (*ComponentType, error) {
	rtype := reflect.TypeOf((*T)(nil)).Elem()
	if rtype.Kind() != reflect.Struct {
		return nil, fmt.Errorf("register %s: component types must be structs", rtype)
	}
	if rtype.Name() == "" {
		return nil, fmt.Errorf("register %s: anonymous struct types cannot be registered", rtype)
	}
	for i := 0; i < rtype.NumField(); i++ {
		if !rtype.Field(i).IsExported() {
			return nil, fmt.Errorf("register %s: field %s is unexported", rtype.Name(), rtype.Field(i).Name)
		}
	}
	if len(r.types) >= MaxComponentTypes {
		return nil, fmt.Errorf("register %s: registry is full (%d types)", rtype.Name(), MaxComponentTypes)
	}
	if _, ok := r.byName[rtype.Name()]; ok {
		return nil, fmt.Errorf("register %s: type name already registered", rtype.Name())
	}
	if _, ok := r.byType[rtype]; ok {
		return nil, fmt.Errorf("register %s: type already registered", rtype.Name())
	}

	t := &ComponentType{
		id:    ComponentID(len(r.types)),
		name:  rtype.Name(),
		rtype: rtype,
	}
	for _, opt := range opts {
		opt(t)
	}
	r.types = append(r.types, t)
	r.byName[t.name] = t
	r.byType[rtype] = t
	return t, nil
}

// MustRegister is Register for boot-time wiring where a failure is a
// programming error.
func MustRegister[T any](r *Registry, opts ...TypeOption) *ComponentType {
	t, err := Register[T](r, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// ByName resolves a registered type by its stable name.
func (r *Registry) ByName(name string) (*ComponentType, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// TypeOf resolves the registered type of a component instance, accepting
// both the value and pointer stored forms.
func (r *Registry) TypeOf(c Component) (*ComponentType, bool) {
	rt := reflect.TypeOf(c)
	if rt == nil {
		return nil, false
	}
	if rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	t, ok := r.byType[rt]
	return t, ok
}

// Types returns all registered types in ID order. The returned slice is
// shared; callers must not modify it.
func (r *Registry) Types() []*ComponentType { return r.types }

// Len returns the number of registered types.
func (r *Registry) Len() int { return len(r.types) }
