package ecs_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fablemud/engine/internal/core/ecs"
)

// Common test component types.
type Position struct {
	X, Y int
}

type Velocity struct {
	DX, DY int
}

type Health struct {
	Current int
	Max     int
}

type Dead struct{}

type Label struct {
	Value string
}

type Energy struct {
	Value int
}

type Bounded struct {
	Value int
}

// testTypes carries the descriptors handed out by newTestRegistry so
// tests do not repeat ByName lookups.
type testTypes struct {
	Position *ecs.ComponentType
	Velocity *ecs.ComponentType
	Health   *ecs.ComponentType
	Dead     *ecs.ComponentType
	Label    *ecs.ComponentType
	Energy   *ecs.ComponentType
	Bounded  *ecs.ComponentType
}

func newTestRegistry(t *testing.T) (*ecs.Registry, testTypes) {
	t.Helper()
	reg := ecs.NewRegistry()
	tt := testTypes{
		Position: ecs.MustRegister[Position](reg),
		Velocity: ecs.MustRegister[Velocity](reg),
		Health:   ecs.MustRegister[Health](reg),
		Dead:     ecs.MustRegister[Dead](reg),
		Label:    ecs.MustRegister[Label](reg),
		Energy:   ecs.MustRegister[Energy](reg, ecs.Mutable()),
		Bounded: ecs.MustRegister[Bounded](reg, ecs.WithValidation(func(c ecs.Component) error {
			b := c.(Bounded)
			if b.Value < 0 || b.Value > 100 {
				return fmt.Errorf("value %d out of range [0, 100]", b.Value)
			}
			return nil
		})),
	}
	return reg, tt
}

func newTestContext(t *testing.T) (*ecs.Context, testTypes) {
	t.Helper()
	reg, tt := newTestRegistry(t)
	return ecs.NewContext(reg, nil), tt
}

func TestComponentConstruction(t *testing.T) {
	_, tt := newTestRegistry(t)

	c, err := tt.Position.New(10, 20)
	require.NoError(t, err)
	assert.Equal(t, Position{X: 10, Y: 20}, c)

	// No values yields the zero component.
	c, err = tt.Position.New()
	require.NoError(t, err)
	assert.Equal(t, Position{}, c)
}

func TestComponentConstructionErrors(t *testing.T) {
	_, tt := newTestRegistry(t)

	// Wrong arity.
	_, err := tt.Position.New(10)
	assert.ErrorIs(t, err, ecs.ErrComponentConstruction)

	_, err = tt.Position.New(10, 20, 30)
	assert.ErrorIs(t, err, ecs.ErrComponentConstruction)

	// Wrong value type.
	_, err = tt.Position.New("ten", "twenty")
	assert.ErrorIs(t, err, ecs.ErrComponentConstruction)

	// nil for a non-nilable field.
	_, err = tt.Label.New(nil)
	assert.ErrorIs(t, err, ecs.ErrComponentConstruction)
}

func TestComponentNumericConversion(t *testing.T) {
	_, tt := newTestRegistry(t)

	c, err := tt.Health.New(int64(75), float64(100))
	require.NoError(t, err)
	assert.Equal(t, Health{Current: 75, Max: 100}, c)
}

func TestComponentValidation(t *testing.T) {
	_, tt := newTestRegistry(t)

	c, err := tt.Bounded.New(55)
	require.NoError(t, err)
	assert.Equal(t, Bounded{Value: 55}, c)

	_, err = tt.Bounded.New(101)
	assert.ErrorIs(t, err, ecs.ErrComponentConstruction)

	_, err = tt.Bounded.New(-1)
	assert.ErrorIs(t, err, ecs.ErrComponentConstruction)
}

func TestComponentMutableStoredAsPointer(t *testing.T) {
	_, tt := newTestRegistry(t)

	assert.True(t, tt.Energy.Mutable())
	assert.False(t, tt.Position.Mutable())

	c, err := tt.Energy.New(5)
	require.NoError(t, err)
	e, ok := c.(*Energy)
	require.True(t, ok, "mutable component should be stored as a pointer, got %T", c)
	assert.Equal(t, 5, e.Value)
}

func TestComponentFromJSON(t *testing.T) {
	_, tt := newTestRegistry(t)

	c, err := tt.Health.NewFromJSON([]byte(`{"Current": 30, "Max": 50}`))
	require.NoError(t, err)
	assert.Equal(t, Health{Current: 30, Max: 50}, c)

	_, err = tt.Health.NewFromJSON([]byte(`{"Current": "broken"`))
	assert.ErrorIs(t, err, ecs.ErrComponentConstruction)

	// Validation applies to decoded payloads too.
	_, err = tt.Bounded.NewFromJSON([]byte(`{"Value": 200}`))
	assert.ErrorIs(t, err, ecs.ErrComponentConstruction)
}

func TestRegistryLookups(t *testing.T) {
	reg, tt := newTestRegistry(t)

	assert.Equal(t, 7, reg.Len())

	got, ok := reg.ByName("Position")
	require.True(t, ok)
	assert.Same(t, tt.Position, got)

	_, ok = reg.ByName("Nope")
	assert.False(t, ok)

	// TypeOf resolves instances in stored form, pointer or value.
	got, ok = reg.TypeOf(Position{X: 1, Y: 2})
	require.True(t, ok)
	assert.Same(t, tt.Position, got)

	got, ok = reg.TypeOf(&Energy{Value: 3})
	require.True(t, ok)
	assert.Same(t, tt.Energy, got)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	reg, _ := newTestRegistry(t)

	_, err := ecs.Register[Position](reg)
	assert.Error(t, err)
}

func TestRegistryRejectsNonStruct(t *testing.T) {
	reg := ecs.NewRegistry()

	_, err := ecs.Register[int](reg)
	assert.Error(t, err)
}

func TestRegistryIDsAreDense(t *testing.T) {
	reg, _ := newTestRegistry(t)

	for i, ct := range reg.Types() {
		assert.Equal(t, ecs.ComponentID(i), ct.ID())
	}
}

func TestComponentTypeString(t *testing.T) {
	_, tt := newTestRegistry(t)
	assert.Equal(t, "Position", tt.Position.String())
	assert.Equal(t, "Position", tt.Position.Name())
}

func TestConstructionErrorCarriesContext(t *testing.T) {
	_, tt := newTestRegistry(t)

	_, err := tt.Position.New(1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Position")
	assert.True(t, errors.Is(err, ecs.ErrComponentConstruction))
}
