package system

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/fablemud/engine/internal/agent"
	"github.com/fablemud/engine/internal/component"
	"github.com/fablemud/engine/internal/core/ecs"
	"github.com/fablemud/engine/internal/core/event"
	"github.com/fablemud/engine/internal/persist"
	"github.com/fablemud/engine/internal/world"
)

// Deps holds shared dependencies injected into all match systems.
type Deps struct {
	Manager *world.Manager
	Types   *component.Types
	Match   *Match
	Planner agent.Planner
	Bus     *event.Bus
	Store   persist.SaveStore
	Log     *zap.Logger
	Rng     *rand.Rand
}

// RoleName maps an entity's role marker to its planner-visible role
// name, or "" for unmarked entities.
func RoleName(types *component.Types, e *ecs.Entity) string {
	switch {
	case e.Has(types.Moderator):
		return agent.RoleModerator
	case e.Has(types.Werewolf):
		return agent.RoleWerewolf
	case e.Has(types.Seer):
		return agent.RoleSeer
	case e.Has(types.Witch):
		return agent.RoleWitch
	case e.Has(types.Villager):
		return agent.RoleVillager
	default:
		return ""
	}
}

func (d *Deps) roleOf(e *ecs.Entity) string {
	return RoleName(d.Types, e)
}

func (d *Deps) nameOf(e *ecs.Entity) string {
	if rt, err := ecs.Get[component.Runtime](e, d.Types.Runtime); err == nil {
		return rt.Name
	}
	return e.Name()
}

func (d *Deps) namesOf(entities []*ecs.Entity) []string {
	names := make([]string, 0, len(entities))
	for _, e := range entities {
		names = append(names, d.nameOf(e))
	}
	return names
}

// appendFact adds one line to an entity's private memory, attaching the
// memory component on first use.
func (d *Deps) appendFact(e *ecs.Entity, fact string) error {
	if e.Has(d.Types.Knowledge) {
		know, err := ecs.Get[*component.Knowledge](e, d.Types.Knowledge)
		if err != nil {
			return err
		}
		know.Facts = append(know.Facts, fact)
		return nil
	}
	return e.Set(d.Types.Knowledge, &component.Knowledge{Facts: []string{fact}})
}

// memoryOf returns a copy of an entity's accumulated memory.
func (d *Deps) memoryOf(e *ecs.Entity) []string {
	know, err := ecs.Get[*component.Knowledge](e, d.Types.Knowledge)
	if err != nil {
		return nil
	}
	out := make([]string, len(know.Facts))
	copy(out, know.Facts)
	return out
}

// announce stages a moderator line on the world entity. The announce
// system broadcasts it when its drain point in the pipeline is reached.
func (d *Deps) announce(text string) error {
	w, err := d.Manager.WorldEntity()
	if err != nil {
		return err
	}
	if w == nil {
		return fmt.Errorf("announce: no world entity")
	}
	return w.Replace(d.Types.AnnounceAction, text)
}

// stageOf returns the stage name an actor stands on, or "".
func (d *Deps) stageOf(e *ecs.Entity) string {
	a, err := ecs.Get[component.Actor](e, d.Types.Actor)
	if err != nil {
		return ""
	}
	return a.Stage
}

// othersAlive lists every living actor except self, by name.
func (d *Deps) othersAlive(self *ecs.Entity) []string {
	var names []string
	for _, e := range d.Manager.AliveActors() {
		if e != self {
			names = append(names, d.nameOf(e))
		}
	}
	return names
}
