package script

import (
	"context"

	"go.uber.org/zap"

	"github.com/fablemud/engine/internal/agent"
)

// Planner adapts the Lua engine to the agent.Planner interface. Script
// calls never block, so the contexts go unused.
type Planner struct {
	engine *Engine
}

var _ agent.Planner = (*Planner)(nil)

func NewPlanner(scriptsDir string, seed int64, log *zap.Logger) (*Planner, error) {
	e, err := NewEngine(scriptsDir, seed, log)
	if err != nil {
		return nil, err
	}
	return &Planner{engine: e}, nil
}

func (p *Planner) PlanDiscussion(_ context.Context, req agent.DiscussionRequest) (agent.DiscussionDecision, error) {
	return p.engine.PlanDiscussion(req), nil
}

func (p *Planner) PlanNightAction(_ context.Context, req agent.NightActionRequest) (agent.NightActionDecision, error) {
	return p.engine.PlanNightAction(req), nil
}

func (p *Planner) PlanVote(_ context.Context, req agent.VoteRequest) (agent.VoteDecision, error) {
	return p.engine.PlanVote(req), nil
}

func (p *Planner) Close() error {
	p.engine.Close()
	return nil
}
