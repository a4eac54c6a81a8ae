package ecs

import (
	"fmt"

	"go.uber.org/zap"
)

// Entity is a bag of at most one component per registered type, with an
// enabled flag and three change-notification channels. Entities are
// created and destroyed only through a Context; the same object is reused
// across logical lifetimes via the context free-list, with a fresh
// creation index each activation.
type Entity struct {
	OnComponentAdded    Event[EntityChanged]
	OnComponentRemoved  Event[EntityChanged]
	OnComponentReplaced Event[ComponentReplaced]

	reg           *Registry
	log           *zap.Logger
	creationIndex int
	enabled       bool
	name          string
	components    []Component
	mask          Bitmask
}

func newEntity(reg *Registry, log *zap.Logger) *Entity {
	return &Entity{
		reg:        reg,
		log:        log,
		components: make([]Component, reg.Len()),
	}
}

// CreationIndex returns the index assigned at the last activation.
// Indices increase strictly monotonically per context and are never
// reused, so a larger index always means a later lifetime.
func (e *Entity) CreationIndex() int { return e.creationIndex }

// Enabled reports whether the entity accepts mutating operations.
func (e *Entity) Enabled() bool { return e.enabled }

// Name returns the optional display name. Uniqueness is the concern of
// the layer that assigns names, not of the core.
func (e *Entity) Name() string { return e.name }

func (e *Entity) SetName(name string) { e.name = name }

func (e *Entity) String() string {
	if e.name != "" {
		return fmt.Sprintf("Entity_%d(%s)", e.creationIndex, e.name)
	}
	return fmt.Sprintf("Entity_%d", e.creationIndex)
}

// Add constructs a component of type t from positional values and
// attaches it, firing component-added.
func (e *Entity) Add(t *ComponentType, values ...any) error {
	e.checkType(t)
	if !e.enabled {
		return fmt.Errorf("add %s to %s: %w", t.name, e, ErrEntityNotEnabled)
	}
	if e.mask.Has(t.id) {
		return fmt.Errorf("add %s to %s: %w", t.name, e, ErrDuplicateComponent)
	}
	c, err := t.New(values...)
	if err != nil {
		return err
	}
	e.attach(t, c)
	return nil
}

// Set attaches a pre-built instance, with the same failure modes as Add.
// The instance must have the stored form of the type: a value for
// immutable types, a pointer for mutable ones.
func (e *Entity) Set(t *ComponentType, c Component) error {
	e.checkType(t)
	if !e.enabled {
		return fmt.Errorf("set %s on %s: %w", t.name, e, ErrEntityNotEnabled)
	}
	if e.mask.Has(t.id) {
		return fmt.Errorf("set %s on %s: %w", t.name, e, ErrDuplicateComponent)
	}
	if err := t.check(c); err != nil {
		return err
	}
	e.attach(t, c)
	return nil
}

// Replace swaps an existing component of type t for a newly constructed
// one, firing component-replaced with the previous and new instance. If t
// is absent it behaves exactly like Add.
func (e *Entity) Replace(t *ComponentType, values ...any) error {
	e.checkType(t)
	if !e.enabled {
		return fmt.Errorf("replace %s on %s: %w", t.name, e, ErrEntityNotEnabled)
	}
	c, err := t.New(values...)
	if err != nil {
		return err
	}
	if !e.mask.Has(t.id) {
		e.attach(t, c)
		return nil
	}
	prev := e.components[t.id]
	e.components[t.id] = c
	e.OnComponentReplaced.publish(e.log, func(l ComponentReplaced) {
		l.ComponentReplaced(e, t, prev, c)
	})
	return nil
}

// Remove detaches the component of type t, firing component-removed.
func (e *Entity) Remove(t *ComponentType) error {
	e.checkType(t)
	if !e.enabled {
		return fmt.Errorf("remove %s from %s: %w", t.name, e, ErrEntityNotEnabled)
	}
	if !e.mask.Has(t.id) {
		return fmt.Errorf("remove %s from %s: %w", t.name, e, ErrMissingComponent)
	}
	e.detach(t)
	return nil
}

// Get returns the component of type t. Reads are not gated on the
// enabled flag.
func (e *Entity) Get(t *ComponentType) (Component, error) {
	e.checkType(t)
	if !e.mask.Has(t.id) {
		return nil, fmt.Errorf("get %s from %s: %w", t.name, e, ErrMissingComponent)
	}
	return e.components[t.id], nil
}

// Has reports whether every given type is present. A single-type call is
// one mask test with no allocation.
func (e *Entity) Has(types ...*ComponentType) bool {
	for _, t := range types {
		if !e.mask.Has(t.id) {
			return false
		}
	}
	return true
}

// HasAny reports whether at least one given type is present.
func (e *Entity) HasAny(types ...*ComponentType) bool {
	for _, t := range types {
		if e.mask.Has(t.id) {
			return true
		}
	}
	return false
}

// ComponentTypes returns the present types in ID order.
func (e *Entity) ComponentTypes() []*ComponentType {
	present := make([]*ComponentType, 0, e.mask.Count())
	for _, t := range e.reg.types {
		if e.mask.Has(t.id) {
			present = append(present, t)
		}
	}
	return present
}

// RemoveAll detaches every component, firing one component-removed per
// component in ID order.
func (e *Entity) RemoveAll() error {
	if !e.enabled {
		return fmt.Errorf("remove all from %s: %w", e, ErrEntityNotEnabled)
	}
	e.removeAll()
	return nil
}

// Get returns the component of type t as a T. The concrete type must
// match the registered stored form; a mismatch is a programming error and
// panics via the type assertion.
func Get[T any](e *Entity, t *ComponentType) (T, error) {
	c, err := e.Get(t)
	if err != nil {
		var zero T
		return zero, err
	}
	return c.(T), nil
}

// MustGet is Get for call sites where a group or a prior Has already
// guarantees presence.
func MustGet[T any](e *Entity, t *ComponentType) T {
	c, err := e.Get(t)
	if err != nil {
		panic(err)
	}
	return c.(T)
}

// activate transitions the entity to enabled under a fresh creation
// index. Called by the owning context on create and on free-list reuse.
func (e *Entity) activate(index int) {
	e.creationIndex = index
	e.enabled = true
}

// destroy disables the entity first, then detaches all components through
// the internal path. Removal events still fire so groups drop the entity,
// but listeners cannot mutate it mid-teardown.
func (e *Entity) destroy() {
	e.enabled = false
	e.removeAll()
	e.name = ""
}

func (e *Entity) attach(t *ComponentType, c Component) {
	if int(t.id) >= len(e.components) {
		grown := make([]Component, e.reg.Len())
		copy(grown, e.components)
		e.components = grown
	}
	e.components[t.id] = c
	e.mask.Set(t.id)
	e.OnComponentAdded.publish(e.log, func(l EntityChanged) {
		l.EntityChanged(e, t, c)
	})
}

func (e *Entity) detach(t *ComponentType) {
	c := e.components[t.id]
	e.components[t.id] = nil
	e.mask.Clear(t.id)
	e.OnComponentRemoved.publish(e.log, func(l EntityChanged) {
		l.EntityChanged(e, t, c)
	})
}

func (e *Entity) removeAll() {
	for _, t := range e.ComponentTypes() {
		e.detach(t)
	}
}

// checkType guards against a descriptor from a different registry, which
// would silently read or write the wrong slot.
func (e *Entity) checkType(t *ComponentType) {
	if int(t.id) >= e.reg.Len() || e.reg.types[t.id] != t {
		panic(fmt.Sprintf("ecs: component type %s is not registered in this entity's registry", t.name))
	}
}
