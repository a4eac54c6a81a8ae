package ecs

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Component is pure data attached to an entity, at most one value per
// registered type. Concrete components are plain structs with exported
// fields and no behavior. Immutable components (the default) are stored
// and returned by value, so a stored component can only change through
// Replace. Mutable components are stored and returned as pointers.
type Component any

// ComponentID is the dense per-registry index of a component type. It is
// the entity slot index and the bit position in presence masks.
type ComponentID uint8

// ComponentType describes one registered component type: its identity
// within a registry, its stable name (used by the serialization boundary),
// and how instances are constructed.
type ComponentType struct {
	id       ComponentID
	name     string
	rtype    reflect.Type
	mutable  bool
	validate func(Component) error
}

// ID returns the dense registry index of the type.
func (t *ComponentType) ID() ComponentID { return t.id }

// Name returns the stable type name, taken from the struct type name.
func (t *ComponentType) Name() string { return t.name }

// Mutable reports whether instances are stored by pointer and may be
// mutated in place.
func (t *ComponentType) Mutable() bool { return t.mutable }

func (t *ComponentType) String() string { return t.name }

// New constructs a component instance from positional field values. No
// values yields the zero component (marker types). Otherwise the value
// count must equal the struct's field count and each value must be
// assignable, or numerically convertible, to its field.
func (t *ComponentType) New(values ...any) (Component, error) {
	rv := reflect.New(t.rtype)
	elem := rv.Elem()

	if len(values) > 0 {
		if len(values) != elem.NumField() {
			return nil, fmt.Errorf("%s: want %d values, got %d: %w",
				t.name, elem.NumField(), len(values), ErrComponentConstruction)
		}
		for i, value := range values {
			field := elem.Field(i)
			if value == nil {
				switch field.Kind() {
				case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface, reflect.Chan, reflect.Func:
					continue
				default:
					return nil, fmt.Errorf("%s.%s: nil for %s: %w",
						t.name, t.rtype.Field(i).Name, field.Type(), ErrComponentConstruction)
				}
			}
			v := reflect.ValueOf(value)
			switch {
			case v.Type().AssignableTo(field.Type()):
				field.Set(v)
			case numericKind(v.Kind()) && numericKind(field.Kind()):
				field.Set(v.Convert(field.Type()))
			default:
				return nil, fmt.Errorf("%s.%s: cannot use %s as %s: %w",
					t.name, t.rtype.Field(i).Name, v.Type(), field.Type(), ErrComponentConstruction)
			}
		}
	}
	return t.finish(rv)
}

// NewFromJSON constructs a component instance from a serialized payload.
func (t *ComponentType) NewFromJSON(data []byte) (Component, error) {
	rv := reflect.New(t.rtype)
	if err := json.Unmarshal(data, rv.Interface()); err != nil {
		return nil, fmt.Errorf("%s: decode payload: %v: %w", t.name, err, ErrComponentConstruction)
	}
	return t.finish(rv)
}

// finish validates a freshly built *T and unwraps it to the stored form,
// a pointer for mutable types and a value otherwise.
func (t *ComponentType) finish(rv reflect.Value) (Component, error) {
	var c Component
	if t.mutable {
		c = rv.Interface()
	} else {
		c = rv.Elem().Interface()
	}
	if t.validate != nil {
		if err := t.validate(c); err != nil {
			return nil, fmt.Errorf("%s: %v: %w", t.name, err, ErrComponentConstruction)
		}
	}
	return c, nil
}

// check verifies that a pre-built instance has the stored form of the
// type: *T for mutable types, T for immutable ones. Rejecting pointers to
// immutable components keeps callers from retaining a handle that could
// mutate stored state.
func (t *ComponentType) check(c Component) error {
	rt := reflect.TypeOf(c)
	if t.mutable {
		if rt != reflect.PointerTo(t.rtype) {
			return fmt.Errorf("%s is mutable, want *%s, got %T: %w", t.name, t.rtype, c, ErrComponentConstruction)
		}
	} else if rt != t.rtype {
		return fmt.Errorf("%s: want %s, got %T: %w", t.name, t.rtype, c, ErrComponentConstruction)
	}
	if t.validate != nil {
		if err := t.validate(c); err != nil {
			return fmt.Errorf("%s: %v: %w", t.name, err, ErrComponentConstruction)
		}
	}
	return nil
}

func numericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
