package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fablemud/engine/internal/core/ecs"
)

func TestCollectorCollectsAdded(t *testing.T) {
	c, tt := newTestContext(t)
	g := c.Group(ecs.AllOf(tt.Position))

	col := ecs.NewCollector()
	col.Add(g, ecs.Added)
	col.Activate()

	e1 := c.CreateEntity()
	require.NoError(t, e1.Add(tt.Position, 0, 0))
	e2 := c.CreateEntity()
	require.NoError(t, e2.Add(tt.Position, 1, 1))

	assert.True(t, col.Collected())
	assert.Equal(t, []*ecs.Entity{e1, e2}, col.Entities())

	// Leaving the group is not an added transition.
	require.NoError(t, e1.Remove(tt.Position))
	assert.Len(t, col.Entities(), 2)
}

func TestCollectorCollectsRemoved(t *testing.T) {
	c, tt := newTestContext(t)
	g := c.Group(ecs.AllOf(tt.Position))

	e := c.CreateEntity()
	require.NoError(t, e.Add(tt.Position, 0, 0))

	col := ecs.NewCollector()
	col.Add(g, ecs.Removed)
	col.Activate()

	require.NoError(t, e.Remove(tt.Position))
	assert.Equal(t, []*ecs.Entity{e}, col.Entities())
}

func TestCollectorCollectsBothDirections(t *testing.T) {
	c, tt := newTestContext(t)
	g := c.Group(ecs.AllOf(tt.Position))

	col := ecs.NewCollector()
	col.Add(g, ecs.AddedOrRemoved)
	col.Activate()

	e := c.CreateEntity()
	require.NoError(t, e.Add(tt.Position, 0, 0))
	require.NoError(t, e.Remove(tt.Position))

	// Both transitions fired, but the entity is pending once.
	assert.Equal(t, []*ecs.Entity{e}, col.Entities())
}

func TestCollectorActivationIsIdempotent(t *testing.T) {
	c, tt := newTestContext(t)
	g := c.Group(ecs.AllOf(tt.Position))

	col := ecs.NewCollector()
	col.Add(g, ecs.Added)
	col.Activate()
	col.Activate()

	assert.Equal(t, 1, g.OnEntityAdded.Len())

	e := c.CreateEntity()
	require.NoError(t, e.Add(tt.Position, 0, 0))
	assert.Len(t, col.Entities(), 1)
}

func TestCollectorObservesMultipleGroups(t *testing.T) {
	c, tt := newTestContext(t)
	gPos := c.Group(ecs.AllOf(tt.Position))
	gHealth := c.Group(ecs.AllOf(tt.Health))

	col := ecs.NewCollector()
	col.Add(gPos, ecs.Added)
	col.Add(gHealth, ecs.Removed)
	col.Activate()

	e1 := c.CreateEntity()
	require.NoError(t, e1.Add(tt.Position, 0, 0))

	e2 := c.CreateEntity()
	require.NoError(t, e2.Add(tt.Health, 10, 10))
	assert.Len(t, col.Entities(), 1, "health added should not collect")

	require.NoError(t, e2.Remove(tt.Health))
	assert.Equal(t, []*ecs.Entity{e1, e2}, col.Entities())
}

func TestCollectorDeactivateStopsAndClears(t *testing.T) {
	c, tt := newTestContext(t)
	g := c.Group(ecs.AllOf(tt.Position))

	col := ecs.NewCollector()
	col.Add(g, ecs.Added)
	col.Activate()

	e := c.CreateEntity()
	require.NoError(t, e.Add(tt.Position, 0, 0))
	require.True(t, col.Collected())

	col.Deactivate()
	assert.False(t, col.Collected())
	assert.Equal(t, 0, g.OnEntityAdded.Len())

	e2 := c.CreateEntity()
	require.NoError(t, e2.Add(tt.Position, 1, 1))
	assert.False(t, col.Collected())
}

func TestCollectorClearKeepsSubscription(t *testing.T) {
	c, tt := newTestContext(t)
	g := c.Group(ecs.AllOf(tt.Position))

	col := ecs.NewCollector()
	col.Add(g, ecs.Added)
	col.Activate()

	e := c.CreateEntity()
	require.NoError(t, e.Add(tt.Position, 0, 0))
	col.ClearCollectedEntities()
	assert.False(t, col.Collected())

	e2 := c.CreateEntity()
	require.NoError(t, e2.Add(tt.Position, 1, 1))
	assert.Equal(t, []*ecs.Entity{e2}, col.Entities())
}

func TestCollectorReAddOverridesEventKind(t *testing.T) {
	c, tt := newTestContext(t)
	g := c.Group(ecs.AllOf(tt.Position))

	col := ecs.NewCollector()
	col.Add(g, ecs.Added)
	col.Add(g, ecs.Removed)
	col.Activate()

	e := c.CreateEntity()
	require.NoError(t, e.Add(tt.Position, 0, 0))
	assert.False(t, col.Collected())

	require.NoError(t, e.Remove(tt.Position))
	assert.Equal(t, []*ecs.Entity{e}, col.Entities())
}
