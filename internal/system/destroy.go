package system

import (
	"context"

	"github.com/fablemud/engine/internal/core/ecs"
)

// DestroySystem despawns every entity flagged with PendingDestroy.
type DestroySystem struct {
	deps   *Deps
	doomed *ecs.Group
}

func NewDestroySystem(deps *Deps) *DestroySystem {
	return &DestroySystem{
		deps:   deps,
		doomed: deps.Manager.Context().Group(ecs.AllOf(deps.Types.PendingDestroy)),
	}
}

func (s *DestroySystem) Execute(_ context.Context) error {
	for _, e := range s.doomed.Entities() {
		if err := s.deps.Manager.Despawn(e); err != nil {
			return err
		}
	}
	return nil
}
