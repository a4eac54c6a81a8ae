package snapshot_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fablemud/engine/internal/component"
	"github.com/fablemud/engine/internal/core/ecs"
	"github.com/fablemud/engine/internal/snapshot"
)

func newTestContext(t *testing.T) (*ecs.Context, *component.Types) {
	t.Helper()
	reg := ecs.NewRegistry()
	types := component.RegisterAll(reg)
	return ecs.NewContext(reg, nil), types
}

func spawn(t *testing.T, c *ecs.Context, types *component.Types, name string, index int) *ecs.Entity {
	t.Helper()
	e := c.CreateEntity()
	require.NoError(t, e.Set(types.Runtime, component.Runtime{Name: name, Index: index, UUID: name + "-id"}))
	e.SetName(name)
	return e
}

func TestEncodeOrdersByRuntimeIndex(t *testing.T) {
	c, types := newTestContext(t)
	spawn(t, c, types, "carol", 2)
	spawn(t, c, types, "alice", 0)
	spawn(t, c, types, "bram", 1)

	rec, err := snapshot.Encode("millbrook", types, c.Entities())
	require.NoError(t, err)

	assert.Equal(t, "millbrook", rec.Name)
	assert.False(t, rec.SavedAt.IsZero())
	names := make([]string, 0, len(rec.Entities))
	for _, er := range rec.Entities {
		names = append(names, er.Name)
	}
	assert.Equal(t, []string{"alice", "bram", "carol"}, names)
}

func TestEncodeRequiresRuntimeIdentity(t *testing.T) {
	c, types := newTestContext(t)
	c.CreateEntity()

	_, err := snapshot.Encode("millbrook", types, c.Entities())
	require.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	c, types := newTestContext(t)

	greta := spawn(t, c, types, "greta", 0)
	require.NoError(t, greta.Set(types.Witch, component.Witch{}))
	require.NoError(t, greta.Set(types.WitchPowers, &component.WitchPowers{CureUsed: true}))
	require.NoError(t, greta.Set(types.Knowledge, &component.Knowledge{Facts: []string{"rolf smelled of blood"}}))

	rolf := spawn(t, c, types, "rolf", 1)
	require.NoError(t, rolf.Set(types.Werewolf, component.Werewolf{}))
	require.NoError(t, rolf.Set(types.Appearance, component.Appearance{Description: "a broad-shouldered woodsman"}))

	rec, err := snapshot.Encode("millbrook", types, c.Entities())
	require.NoError(t, err)

	raw, err := json.Marshal(rec)
	require.NoError(t, err)
	var wire snapshot.GameRecord
	require.NoError(t, json.Unmarshal(raw, &wire))

	fresh, freshTypes := newTestContext(t)
	entities, err := snapshot.Decode(&wire, fresh.Registry(), fresh)
	require.NoError(t, err)
	require.Len(t, entities, 2)

	outGreta, outRolf := entities[0], entities[1]
	assert.Equal(t, "greta", outGreta.Name())
	assert.Equal(t, "rolf", outRolf.Name())

	assert.True(t, outGreta.Has(freshTypes.Witch))
	assert.False(t, outGreta.Has(freshTypes.Werewolf))
	powers := ecs.MustGet[*component.WitchPowers](outGreta, freshTypes.WitchPowers)
	assert.True(t, powers.CureUsed)
	assert.False(t, powers.PoisonUsed)
	know := ecs.MustGet[*component.Knowledge](outGreta, freshTypes.Knowledge)
	assert.Equal(t, []string{"rolf smelled of blood"}, know.Facts)

	assert.True(t, outRolf.Has(freshTypes.Werewolf))
	look := ecs.MustGet[component.Appearance](outRolf, freshTypes.Appearance)
	assert.Equal(t, "a broad-shouldered woodsman", look.Description)
}

func TestDecodeUnknownComponentFails(t *testing.T) {
	c, _ := newTestContext(t)
	rec := &snapshot.GameRecord{
		Name: "millbrook",
		Entities: []snapshot.EntityRecord{{
			Name: "alice",
			Components: []snapshot.ComponentRecord{
				{Name: "Runtime", Data: []byte(`{"Name":"alice","Index":0,"UUID":"alice-id"}`)},
				{Name: "Poltergeist", Data: []byte(`{}`)},
			},
		}},
	}

	_, err := snapshot.Decode(rec, c.Registry(), c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Poltergeist")
	assert.Zero(t, c.Count(), "failed decode must not leave entities behind")
}

func TestDecodeCorruptPayloadFails(t *testing.T) {
	c, _ := newTestContext(t)
	rec := &snapshot.GameRecord{
		Name: "millbrook",
		Entities: []snapshot.EntityRecord{{
			Name: "alice",
			Components: []snapshot.ComponentRecord{
				{Name: "Runtime", Data: []byte(`[1,2,3]`)},
			},
		}},
	}

	_, err := snapshot.Decode(rec, c.Registry(), c)
	require.Error(t, err)
	assert.Zero(t, c.Count())
}
