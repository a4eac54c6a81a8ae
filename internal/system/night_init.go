package system

import (
	"context"
	"fmt"

	"github.com/fablemud/engine/internal/core/ecs"
	"github.com/fablemud/engine/internal/core/event"
)

// NightInitSystem opens a night: it strips the previous day's markers,
// arms every living night role with NightActionReady, and announces
// nightfall. Re-running while a night is underway is a no-op.
type NightInitSystem struct {
	deps  *Deps
	ready *ecs.Group
	toArm *ecs.Group
}

func NewNightInitSystem(deps *Deps) *NightInitSystem {
	ctx := deps.Manager.Context()
	return &NightInitSystem{
		deps:  deps,
		ready: ctx.Group(ecs.AllOf(deps.Types.NightActionReady)),
		toArm: ctx.Group(
			ecs.AnyOf(deps.Types.Werewolf, deps.Types.Seer, deps.Types.Witch).
				NoneOf(deps.Types.Dead, deps.Types.NightActionDone),
		),
	}
}

func (s *NightInitSystem) Execute(_ context.Context) error {
	if s.deps.Match.Over() {
		return nil
	}
	if s.ready.Count() > 0 {
		return nil
	}

	for _, e := range s.deps.Manager.Actors() {
		for _, t := range s.deps.Types.DayMarkers() {
			if e.Has(t) {
				if err := e.Remove(t); err != nil {
					return err
				}
			}
		}
	}

	for _, e := range s.toArm.Entities() {
		if err := e.Replace(s.deps.Types.NightActionReady); err != nil {
			return err
		}
	}

	round := s.deps.Match.Round()
	event.Emit(s.deps.Bus, event.PhaseChanged{Round: round, Phase: PhaseNight})
	return s.deps.announce(fmt.Sprintf("Night %d falls over %s. The village sleeps.", round, s.deps.Match.Game))
}
