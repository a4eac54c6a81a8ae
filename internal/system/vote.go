package system

import (
	"context"
	"fmt"

	"github.com/fablemud/engine/internal/component"
	"github.com/fablemud/engine/internal/core/ecs"
	"github.com/fablemud/engine/internal/core/event"
)

// VoteSystem tallies staged ballots and lynches the actor with the most
// votes. Ballots against the dead, the missing, or the voter themselves
// are discarded. A tied vote falls on the earliest-spawned of the
// leaders, so reruns of the same match stay reproducible.
type VoteSystem struct {
	*ecs.ReactiveProcessor
	deps *Deps
}

func NewVoteSystem(deps *Deps) *VoteSystem {
	s := &VoteSystem{deps: deps}
	s.ReactiveProcessor = ecs.NewReactiveProcessor(deps.Manager.Context(), s)
	return s
}

func (s *VoteSystem) Triggers() []ecs.Trigger {
	return []ecs.Trigger{{Matcher: ecs.AllOf(s.deps.Types.VoteAction), Event: ecs.Added}}
}

func (s *VoteSystem) Filter(e *ecs.Entity) bool {
	return e.Has(s.deps.Types.VoteAction)
}

func (s *VoteSystem) React(_ context.Context, entities []*ecs.Entity) error {
	round := s.deps.Match.Round()
	tally := make(map[string]int)
	for _, voter := range entities {
		act, err := ecs.Get[component.VoteAction](voter, s.deps.Types.VoteAction)
		if err != nil {
			return err
		}
		target := s.deps.Manager.EntityByName(act.Target)
		if target == nil || target == voter || !target.Has(s.deps.Types.Actor) || target.Has(s.deps.Types.Dead) {
			continue
		}
		voterName := s.deps.nameOf(voter)
		targetName := s.deps.nameOf(target)
		tally[targetName]++
		event.Emit(s.deps.Bus, event.VoteCast{Round: round, Voter: voterName, Target: targetName})
		line := fmt.Sprintf("%s votes against %s.", voterName, targetName)
		for _, e := range s.deps.Manager.AliveActors() {
			if err := s.deps.appendFact(e, line); err != nil {
				return err
			}
		}
	}
	if len(tally) == 0 {
		return s.deps.announce("The vote is inconclusive. No one is lynched.")
	}

	best := 0
	for _, n := range tally {
		if n > best {
			best = n
		}
	}
	var lynched *ecs.Entity
	lowest := 0
	for name, n := range tally {
		if n != best {
			continue
		}
		e := s.deps.Manager.EntityByName(name)
		if e == nil {
			continue
		}
		rt, err := ecs.Get[component.Runtime](e, s.deps.Types.Runtime)
		if err != nil {
			return err
		}
		if lynched == nil || rt.Index < lowest {
			lynched, lowest = e, rt.Index
		}
	}
	if lynched == nil {
		return s.deps.announce("The vote is inconclusive. No one is lynched.")
	}

	if err := lynched.Replace(s.deps.Types.Dead); err != nil {
		return err
	}
	name := s.deps.nameOf(lynched)
	event.Emit(s.deps.Bus, event.ActorDied{Round: round, Name: name, Cause: "lynched"})
	votes := fmt.Sprintf("%d votes", best)
	if best == 1 {
		votes = "1 vote"
	}
	return s.deps.announce(fmt.Sprintf("The village has spoken. %s is lynched with %s.", name, votes))
}
