package system

import (
	"context"
	"fmt"
	"strings"

	"github.com/fablemud/engine/internal/component"
	"github.com/fablemud/engine/internal/core/ecs"
	"github.com/fablemud/engine/internal/core/event"
)

// NightResolveSystem opens a day: every surviving NightKillTarget dies,
// night markers are stripped, and dawn is announced with the toll. Once
// the markers are gone further runs are no-ops, so the day pipeline can
// loop and a restored mid-day match does not dawn twice.
type NightResolveSystem struct {
	deps   *Deps
	doomed *ecs.Group
	marked *ecs.Group
}

func NewNightResolveSystem(deps *Deps) *NightResolveSystem {
	return &NightResolveSystem{
		deps:   deps,
		doomed: deps.Manager.Context().Group(ecs.AllOf(deps.Types.NightKillTarget)),
		marked: deps.Manager.Context().Group(ecs.AnyOf(
			deps.Types.NightActionReady,
			deps.Types.NightActionDone,
			deps.Types.NightKillTarget,
		)),
	}
}

func (s *NightResolveSystem) Execute(_ context.Context) error {
	if s.deps.Match.Over() {
		return nil
	}
	if s.marked.Count() == 0 {
		return nil
	}

	round := s.deps.Match.Round()
	event.Emit(s.deps.Bus, event.PhaseChanged{Round: round, Phase: PhaseDay})

	var toll []string
	for _, victim := range s.doomed.Entities() {
		kill, err := ecs.Get[component.NightKillTarget](victim, s.deps.Types.NightKillTarget)
		if err != nil {
			return err
		}
		if err := victim.Replace(s.deps.Types.Dead); err != nil {
			return err
		}
		name := s.deps.nameOf(victim)
		toll = append(toll, fmt.Sprintf("%s (%s)", name, kill.Cause))
		event.Emit(s.deps.Bus, event.ActorDied{Round: kill.Round, Name: name, Cause: kill.Cause})
	}

	for _, e := range s.deps.Manager.Actors() {
		for _, t := range s.deps.Types.NightMarkers() {
			if e.Has(t) {
				if err := e.Remove(t); err != nil {
					return err
				}
			}
		}
	}

	if len(toll) == 0 {
		return s.deps.announce(fmt.Sprintf("Day %d dawns. Everyone wakes unharmed.", round))
	}
	return s.deps.announce(fmt.Sprintf("Day %d dawns. The night has taken %s.", round, strings.Join(toll, ", ")))
}
