package system

import (
	"context"
	"fmt"

	"github.com/fablemud/engine/internal/agent"
	"github.com/fablemud/engine/internal/core/ecs"
)

// NightSeerSystem asks each ready seer who to inspect and stages a
// SeerCheckAction on the chosen target.
type NightSeerSystem struct {
	deps  *Deps
	seers *ecs.Group
}

func NewNightSeerSystem(deps *Deps) *NightSeerSystem {
	return &NightSeerSystem{
		deps: deps,
		seers: deps.Manager.Context().Group(
			ecs.AllOf(deps.Types.Seer, deps.Types.NightActionReady).
				NoneOf(deps.Types.NightActionDone, deps.Types.Dead),
		),
	}
}

func (s *NightSeerSystem) Execute(ctx context.Context) error {
	if s.deps.Match.Over() {
		return nil
	}
	for _, seer := range s.seers.Entities() {
		candidates := s.deps.othersAlive(seer)
		legal := make(map[string]bool, len(candidates))
		for _, n := range candidates {
			legal[n] = true
		}

		dec, err := s.deps.Planner.PlanNightAction(ctx, agent.NightActionRequest{
			Game:       s.deps.Match.Game,
			Round:      s.deps.Match.Round(),
			Role:       agent.RoleSeer,
			Self:       s.deps.nameOf(seer),
			Alive:      s.deps.namesOf(s.deps.Manager.AliveActors()),
			Candidates: candidates,
			Memory:     s.deps.memoryOf(seer),
		})
		if err != nil {
			return fmt.Errorf("seer %s: %w", s.deps.nameOf(seer), err)
		}

		if dec.Action == agent.ActionInspect && legal[dec.Target] {
			target := s.deps.Manager.EntityByName(dec.Target)
			if target == nil {
				return fmt.Errorf("inspect target %q not found", dec.Target)
			}
			if err := target.Replace(s.deps.Types.SeerCheckAction, s.deps.nameOf(seer)); err != nil {
				return err
			}
		}
		if err := seer.Replace(s.deps.Types.NightActionDone); err != nil {
			return err
		}
	}
	return nil
}
