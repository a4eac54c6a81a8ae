package system

import (
	"context"
	"fmt"

	"github.com/fablemud/engine/internal/component"
	"github.com/fablemud/engine/internal/core/ecs"
)

// SeerCheckSystem resolves staged inspections: the seer privately
// learns whether the target is a werewolf.
type SeerCheckSystem struct {
	*ecs.ReactiveProcessor
	deps *Deps
}

func NewSeerCheckSystem(deps *Deps) *SeerCheckSystem {
	s := &SeerCheckSystem{deps: deps}
	s.ReactiveProcessor = ecs.NewReactiveProcessor(deps.Manager.Context(), s)
	return s
}

func (s *SeerCheckSystem) Triggers() []ecs.Trigger {
	return []ecs.Trigger{{Matcher: ecs.AllOf(s.deps.Types.SeerCheckAction), Event: ecs.Added}}
}

func (s *SeerCheckSystem) Filter(e *ecs.Entity) bool {
	return e.Has(s.deps.Types.SeerCheckAction)
}

func (s *SeerCheckSystem) React(_ context.Context, entities []*ecs.Entity) error {
	for _, target := range entities {
		act, err := ecs.Get[component.SeerCheckAction](target, s.deps.Types.SeerCheckAction)
		if err != nil {
			return err
		}
		seer := s.deps.Manager.EntityByName(act.Seer)
		if seer == nil {
			continue
		}
		verdict := fmt.Sprintf("Your sight reveals that %s is not a werewolf.", s.deps.nameOf(target))
		if target.Has(s.deps.Types.Werewolf) {
			verdict = fmt.Sprintf("Your sight reveals that %s is a werewolf.", s.deps.nameOf(target))
		}
		if err := s.deps.appendFact(seer, verdict); err != nil {
			return err
		}
	}
	return nil
}
