package system

import (
	"context"
	"fmt"

	"github.com/fablemud/engine/internal/agent"
	"github.com/fablemud/engine/internal/component"
	"github.com/fablemud/engine/internal/core/ecs"
)

// DayVoteSystem collects one vote from every living actor who has not
// voted today. Ballots go on the voters as VoteAction components; the
// tally system resolves them. A voter may also stage a statement
// explaining the ballot.
type DayVoteSystem struct {
	deps   *Deps
	voters *ecs.Group
}

func NewDayVoteSystem(deps *Deps) *DayVoteSystem {
	return &DayVoteSystem{
		deps: deps,
		voters: deps.Manager.Context().Group(
			ecs.AllOf(deps.Types.Actor).NoneOf(deps.Types.Dead, deps.Types.DayVoted),
		),
	}
}

func (s *DayVoteSystem) Execute(ctx context.Context) error {
	if s.deps.Match.Over() {
		return nil
	}
	for _, voter := range s.voters.Entities() {
		candidates := s.deps.othersAlive(voter)
		if err := voter.Set(s.deps.Types.DayVoted, component.DayVoted{}); err != nil {
			return err
		}
		if len(candidates) == 0 {
			continue
		}
		dec, err := s.deps.Planner.PlanVote(ctx, agent.VoteRequest{
			Game:       s.deps.Match.Game,
			Round:      s.deps.Match.Round(),
			Role:       s.deps.roleOf(voter),
			Self:       s.deps.nameOf(voter),
			Candidates: candidates,
			Memory:     s.deps.memoryOf(voter),
		})
		if err != nil {
			return fmt.Errorf("vote %s: %w", s.deps.nameOf(voter), err)
		}
		if dec.Target == "" {
			continue
		}
		if err := voter.Replace(s.deps.Types.VoteAction, dec.Target); err != nil {
			return err
		}
		if dec.Reason != "" {
			if err := voter.Replace(s.deps.Types.DiscussionAction, dec.Reason); err != nil {
				return err
			}
		}
	}
	return nil
}
