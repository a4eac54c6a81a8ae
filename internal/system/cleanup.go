package system

import (
	"go.uber.org/zap"

	"github.com/fablemud/engine/internal/core/ecs"
)

// ActionCleanupSystem strips every action component at the end of a
// pipeline run. Actions are requests for the run that staged them; none
// may leak into the next run.
type ActionCleanupSystem struct {
	deps   *Deps
	types  []*ecs.ComponentType
	groups []*ecs.Group
}

func NewActionCleanupSystem(deps *Deps) *ActionCleanupSystem {
	s := &ActionCleanupSystem{deps: deps}
	ctx := deps.Manager.Context()
	for _, t := range deps.Types.Actions() {
		s.types = append(s.types, t)
		s.groups = append(s.groups, ctx.Group(ecs.AllOf(t)))
	}
	return s
}

func (s *ActionCleanupSystem) Cleanup() {
	for i, g := range s.groups {
		t := s.types[i]
		for _, e := range g.Entities() {
			if err := e.Remove(t); err != nil {
				s.deps.Log.Warn("action cleanup failed",
					zap.String("component", t.Name()),
					zap.Error(err),
				)
			}
		}
	}
}
