package system

import (
	"context"
	"fmt"

	"github.com/fablemud/engine/internal/agent"
	"github.com/fablemud/engine/internal/component"
	"github.com/fablemud/engine/internal/core/ecs"
)

// NightWitchSystem shows each ready witch tonight's victims and her
// remaining potions, then stages the chosen cure or poison on its
// target.
type NightWitchSystem struct {
	deps    *Deps
	witches *ecs.Group
	doomed  *ecs.Group
}

func NewNightWitchSystem(deps *Deps) *NightWitchSystem {
	ctx := deps.Manager.Context()
	return &NightWitchSystem{
		deps: deps,
		witches: ctx.Group(
			ecs.AllOf(deps.Types.Witch, deps.Types.NightActionReady).
				NoneOf(deps.Types.NightActionDone, deps.Types.Dead),
		),
		doomed: ctx.Group(ecs.AllOf(deps.Types.NightKillTarget)),
	}
}

func (s *NightWitchSystem) Execute(ctx context.Context) error {
	if s.deps.Match.Over() {
		return nil
	}
	for _, witch := range s.witches.Entities() {
		powers, err := ecs.Get[*component.WitchPowers](witch, s.deps.Types.WitchPowers)
		if err != nil {
			return fmt.Errorf("witch %s: %w", s.deps.nameOf(witch), err)
		}

		victims := s.deps.namesOf(s.doomed.Entities())
		candidates := s.deps.othersAlive(witch)
		legal := make(map[string]bool, len(candidates))
		for _, n := range candidates {
			legal[n] = true
		}
		inVictims := make(map[string]bool, len(victims))
		for _, n := range victims {
			inVictims[n] = true
		}

		dec, err := s.deps.Planner.PlanNightAction(ctx, agent.NightActionRequest{
			Game:       s.deps.Match.Game,
			Round:      s.deps.Match.Round(),
			Role:       agent.RoleWitch,
			Self:       s.deps.nameOf(witch),
			Alive:      s.deps.namesOf(s.deps.Manager.AliveActors()),
			Candidates: candidates,
			Victims:    victims,
			CureUsed:   powers.CureUsed,
			PoisonUsed: powers.PoisonUsed,
			Memory:     s.deps.memoryOf(witch),
		})
		if err != nil {
			return fmt.Errorf("witch %s: %w", s.deps.nameOf(witch), err)
		}

		switch {
		case dec.Action == agent.ActionCure && !powers.CureUsed && inVictims[dec.Target]:
			target := s.deps.Manager.EntityByName(dec.Target)
			if target == nil {
				return fmt.Errorf("cure target %q not found", dec.Target)
			}
			if err := target.Replace(s.deps.Types.WitchCureAction, s.deps.nameOf(witch)); err != nil {
				return err
			}
		case dec.Action == agent.ActionPoison && !powers.PoisonUsed && legal[dec.Target]:
			target := s.deps.Manager.EntityByName(dec.Target)
			if target == nil {
				return fmt.Errorf("poison target %q not found", dec.Target)
			}
			if err := target.Replace(s.deps.Types.WitchPoisonAction, s.deps.nameOf(witch)); err != nil {
				return err
			}
		}

		if err := witch.Replace(s.deps.Types.NightActionDone); err != nil {
			return err
		}
	}
	return nil
}
