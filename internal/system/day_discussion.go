package system

import (
	"context"
	"fmt"

	"github.com/fablemud/engine/internal/agent"
	"github.com/fablemud/engine/internal/component"
	"github.com/fablemud/engine/internal/core/ecs"
)

// DayDiscussionSystem gives the floor to one actor per run, picked at
// random among the living who have not yet spoken today. The day
// pipeline loops this system until everyone has had a turn.
type DayDiscussionSystem struct {
	deps    *Deps
	waiting *ecs.Group
}

func NewDayDiscussionSystem(deps *Deps) *DayDiscussionSystem {
	return &DayDiscussionSystem{
		deps: deps,
		waiting: deps.Manager.Context().Group(
			ecs.AllOf(deps.Types.Actor).NoneOf(deps.Types.Dead, deps.Types.DayDiscussed),
		),
	}
}

// Pending reports how many living actors still owe today's statement.
func (s *DayDiscussionSystem) Pending() int { return s.waiting.Count() }

func (s *DayDiscussionSystem) Execute(ctx context.Context) error {
	if s.deps.Match.Over() {
		return nil
	}
	waiting := s.waiting.Entities()
	if len(waiting) == 0 {
		return nil
	}

	speaker := waiting[s.deps.Rng.Intn(len(waiting))]
	dec, err := s.deps.Planner.PlanDiscussion(ctx, agent.DiscussionRequest{
		Game:   s.deps.Match.Game,
		Round:  s.deps.Match.Round(),
		Role:   s.deps.roleOf(speaker),
		Self:   s.deps.nameOf(speaker),
		Stage:  s.deps.stageOf(speaker),
		Alive:  s.deps.namesOf(s.deps.Manager.AliveActors()),
		Memory: s.deps.memoryOf(speaker),
	})
	if err != nil {
		return fmt.Errorf("discussion %s: %w", s.deps.nameOf(speaker), err)
	}

	if err := speaker.Set(s.deps.Types.DayDiscussed, component.DayDiscussed{Message: dec.Message}); err != nil {
		return err
	}
	return speaker.Replace(s.deps.Types.DiscussionAction, dec.Message)
}
