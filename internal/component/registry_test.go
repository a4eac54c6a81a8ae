package component_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fablemud/engine/internal/component"
	"github.com/fablemud/engine/internal/core/ecs"
)

func TestRegisterAll(t *testing.T) {
	reg := ecs.NewRegistry()
	types := component.RegisterAll(reg)

	assert.Equal(t, 29, reg.Len())

	// Names follow the struct names, so snapshots and lookups agree.
	ct, ok := reg.ByName("NightKillTarget")
	require.True(t, ok)
	assert.Same(t, types.NightKillTarget, ct)

	// The two in-place components are mutable, everything else is not.
	assert.True(t, types.WitchPowers.Mutable())
	assert.True(t, types.Knowledge.Mutable())
	assert.False(t, types.Dead.Mutable())
	assert.False(t, types.VoteAction.Mutable())
}

func TestActionSetCoversAllActionComponents(t *testing.T) {
	reg := ecs.NewRegistry()
	types := component.RegisterAll(reg)

	actions := types.Actions()
	assert.Len(t, actions, 6)
	assert.Contains(t, actions, types.AnnounceAction)
	assert.Contains(t, actions, types.VoteAction)
	assert.NotContains(t, actions, types.NightKillTarget)
}

func TestPhaseMarkerSets(t *testing.T) {
	reg := ecs.NewRegistry()
	types := component.RegisterAll(reg)

	assert.Equal(t, []*ecs.ComponentType{
		types.NightActionReady, types.NightActionDone, types.NightKillTarget,
	}, types.NightMarkers())
	assert.Equal(t, []*ecs.ComponentType{
		types.DayDiscussed, types.DayVoted,
	}, types.DayMarkers())
}

func TestRoleSets(t *testing.T) {
	reg := ecs.NewRegistry()
	types := component.RegisterAll(reg)

	assert.Len(t, types.ActorRoles(), 4)
	assert.Len(t, types.TownRoles(), 3)
	assert.NotContains(t, types.TownRoles(), types.Werewolf)
	assert.NotContains(t, types.ActorRoles(), types.Moderator)
}

func TestWitchPowersStoredByPointer(t *testing.T) {
	reg := ecs.NewRegistry()
	types := component.RegisterAll(reg)
	world := ecs.NewContext(reg, nil)

	witch := world.CreateEntity()
	require.NoError(t, witch.Add(types.Witch))
	require.NoError(t, witch.Add(types.WitchPowers, false, false))

	powers := ecs.MustGet[*component.WitchPowers](witch, types.WitchPowers)
	powers.CureUsed = true

	assert.True(t, ecs.MustGet[*component.WitchPowers](witch, types.WitchPowers).CureUsed)
}
