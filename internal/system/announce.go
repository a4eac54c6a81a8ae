package system

import (
	"context"

	"github.com/fablemud/engine/internal/component"
	"github.com/fablemud/engine/internal/core/ecs"
	"github.com/fablemud/engine/internal/core/event"
)

// AnnounceSystem delivers staged moderator lines to every living actor
// and posts them on the feed. At most one announcement is staged per
// pipeline run; action cleanup strips it before the next run, so the
// Replace in announce always lands as a fresh add.
type AnnounceSystem struct {
	*ecs.ReactiveProcessor
	deps *Deps
}

func NewAnnounceSystem(deps *Deps) *AnnounceSystem {
	s := &AnnounceSystem{deps: deps}
	s.ReactiveProcessor = ecs.NewReactiveProcessor(deps.Manager.Context(), s)
	return s
}

func (s *AnnounceSystem) Triggers() []ecs.Trigger {
	return []ecs.Trigger{{Matcher: ecs.AllOf(s.deps.Types.AnnounceAction), Event: ecs.Added}}
}

func (s *AnnounceSystem) Filter(e *ecs.Entity) bool {
	return e.Has(s.deps.Types.AnnounceAction)
}

func (s *AnnounceSystem) React(_ context.Context, entities []*ecs.Entity) error {
	for _, holder := range entities {
		act, err := ecs.Get[component.AnnounceAction](holder, s.deps.Types.AnnounceAction)
		if err != nil {
			return err
		}
		for _, e := range s.deps.Manager.AliveActors() {
			if err := s.deps.appendFact(e, act.Message); err != nil {
				return err
			}
		}
		event.Emit(s.deps.Bus, event.NarrationPosted{
			Round:   s.deps.Match.Round(),
			Phase:   s.deps.Match.Phase(),
			Speaker: s.deps.nameOf(holder),
			Text:    act.Message,
		})
	}
	return nil
}
