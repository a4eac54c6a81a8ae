package system

import (
	"context"
	"fmt"

	"github.com/fablemud/engine/internal/component"
	"github.com/fablemud/engine/internal/core/ecs"
)

// WitchCureSystem applies a staged cure: the target's kill mark is
// lifted and the witch's cure is spent.
type WitchCureSystem struct {
	*ecs.ReactiveProcessor
	deps *Deps
}

func NewWitchCureSystem(deps *Deps) *WitchCureSystem {
	s := &WitchCureSystem{deps: deps}
	s.ReactiveProcessor = ecs.NewReactiveProcessor(deps.Manager.Context(), s)
	return s
}

func (s *WitchCureSystem) Triggers() []ecs.Trigger {
	return []ecs.Trigger{{Matcher: ecs.AllOf(s.deps.Types.WitchCureAction), Event: ecs.Added}}
}

func (s *WitchCureSystem) Filter(e *ecs.Entity) bool {
	return e.Has(s.deps.Types.WitchCureAction)
}

func (s *WitchCureSystem) React(_ context.Context, entities []*ecs.Entity) error {
	for _, target := range entities {
		act, err := ecs.Get[component.WitchCureAction](target, s.deps.Types.WitchCureAction)
		if err != nil {
			return err
		}
		witch := s.deps.Manager.EntityByName(act.Witch)
		if witch == nil {
			continue
		}
		powers, err := ecs.Get[*component.WitchPowers](witch, s.deps.Types.WitchPowers)
		if err != nil {
			return err
		}
		powers.CureUsed = true

		if target.Has(s.deps.Types.NightKillTarget) {
			if err := target.Remove(s.deps.Types.NightKillTarget); err != nil {
				return err
			}
		}
		fact := fmt.Sprintf("You spent your cure on %s; they will wake at dawn.", s.deps.nameOf(target))
		if err := s.deps.appendFact(witch, fact); err != nil {
			return err
		}
	}
	return nil
}
