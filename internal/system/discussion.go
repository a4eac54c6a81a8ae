package system

import (
	"context"
	"fmt"

	"github.com/fablemud/engine/internal/component"
	"github.com/fablemud/engine/internal/core/ecs"
	"github.com/fablemud/engine/internal/core/event"
)

// DiscussionSystem broadcasts staged statements: every living actor,
// the speaker included, remembers the line, and it goes out on the feed.
type DiscussionSystem struct {
	*ecs.ReactiveProcessor
	deps *Deps
}

func NewDiscussionSystem(deps *Deps) *DiscussionSystem {
	s := &DiscussionSystem{deps: deps}
	s.ReactiveProcessor = ecs.NewReactiveProcessor(deps.Manager.Context(), s)
	return s
}

func (s *DiscussionSystem) Triggers() []ecs.Trigger {
	return []ecs.Trigger{{Matcher: ecs.AllOf(s.deps.Types.DiscussionAction), Event: ecs.Added}}
}

func (s *DiscussionSystem) Filter(e *ecs.Entity) bool {
	return e.Has(s.deps.Types.DiscussionAction)
}

func (s *DiscussionSystem) React(_ context.Context, entities []*ecs.Entity) error {
	for _, speaker := range entities {
		act, err := ecs.Get[component.DiscussionAction](speaker, s.deps.Types.DiscussionAction)
		if err != nil {
			return err
		}
		name := s.deps.nameOf(speaker)
		line := fmt.Sprintf("%s says: %s", name, act.Message)
		for _, e := range s.deps.Manager.AliveActors() {
			if err := s.deps.appendFact(e, line); err != nil {
				return err
			}
		}
		event.Emit(s.deps.Bus, event.NarrationPosted{
			Round:   s.deps.Match.Round(),
			Phase:   s.deps.Match.Phase(),
			Speaker: name,
			Text:    act.Message,
		})
	}
	return nil
}
