package system

import (
	"context"
	"fmt"

	"github.com/fablemud/engine/internal/agent"
	"github.com/fablemud/engine/internal/core/ecs"
)

// NightWolfSystem gathers each wolf's kill preference and lets one
// randomly chosen valid preference stand for the whole pack. The victim
// is marked with NightKillTarget; dawn makes it final unless the witch
// intervenes.
type NightWolfSystem struct {
	deps   *Deps
	wolves *ecs.Group
	prey   *ecs.Group
}

func NewNightWolfSystem(deps *Deps) *NightWolfSystem {
	ctx := deps.Manager.Context()
	return &NightWolfSystem{
		deps: deps,
		wolves: ctx.Group(
			ecs.AllOf(deps.Types.Werewolf, deps.Types.NightActionReady).
				NoneOf(deps.Types.NightActionDone, deps.Types.Dead),
		),
		prey: ctx.Group(
			ecs.AnyOf(deps.Types.Seer, deps.Types.Witch, deps.Types.Villager).
				NoneOf(deps.Types.Dead),
		),
	}
}

func (s *NightWolfSystem) Execute(ctx context.Context) error {
	if s.deps.Match.Over() {
		return nil
	}
	wolves := s.wolves.Entities()
	if len(wolves) == 0 {
		return nil
	}

	preyNames := s.deps.namesOf(s.prey.Entities())
	legal := make(map[string]bool, len(preyNames))
	for _, n := range preyNames {
		legal[n] = true
	}
	alive := s.deps.namesOf(s.deps.Manager.AliveActors())

	var choices []agent.NightActionDecision
	for _, wolf := range wolves {
		if len(preyNames) == 0 {
			break
		}
		dec, err := s.deps.Planner.PlanNightAction(ctx, agent.NightActionRequest{
			Game:       s.deps.Match.Game,
			Round:      s.deps.Match.Round(),
			Role:       agent.RoleWerewolf,
			Self:       s.deps.nameOf(wolf),
			Alive:      alive,
			Candidates: preyNames,
			Memory:     s.deps.memoryOf(wolf),
		})
		if err != nil {
			return fmt.Errorf("wolf %s: %w", s.deps.nameOf(wolf), err)
		}
		if dec.Action == agent.ActionKill && legal[dec.Target] {
			choices = append(choices, dec)
		}
	}

	hunted := ""
	if len(choices) > 0 {
		hunted = choices[s.deps.Rng.Intn(len(choices))].Target
		victim := s.deps.Manager.EntityByName(hunted)
		if victim == nil {
			return fmt.Errorf("kill target %q not found", hunted)
		}
		if err := victim.Replace(s.deps.Types.NightKillTarget, s.deps.Match.Round(), "mauled"); err != nil {
			return err
		}
	}

	for _, wolf := range wolves {
		if err := wolf.Replace(s.deps.Types.NightActionDone); err != nil {
			return err
		}
		fact := "The pack stayed its claws tonight."
		if hunted != "" {
			fact = fmt.Sprintf("The pack has chosen to kill %s.", hunted)
		}
		if err := s.deps.appendFact(wolf, fact); err != nil {
			return err
		}
	}
	return nil
}
