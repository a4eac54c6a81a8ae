package system

import (
	"context"
	"fmt"

	"github.com/fablemud/engine/internal/component"
	"github.com/fablemud/engine/internal/core/ecs"
)

// WitchPoisonSystem applies a staged poison: the target is marked to
// die at dawn and the witch's poison is spent.
type WitchPoisonSystem struct {
	*ecs.ReactiveProcessor
	deps *Deps
}

func NewWitchPoisonSystem(deps *Deps) *WitchPoisonSystem {
	s := &WitchPoisonSystem{deps: deps}
	s.ReactiveProcessor = ecs.NewReactiveProcessor(deps.Manager.Context(), s)
	return s
}

func (s *WitchPoisonSystem) Triggers() []ecs.Trigger {
	return []ecs.Trigger{{Matcher: ecs.AllOf(s.deps.Types.WitchPoisonAction), Event: ecs.Added}}
}

func (s *WitchPoisonSystem) Filter(e *ecs.Entity) bool {
	return e.Has(s.deps.Types.WitchPoisonAction)
}

func (s *WitchPoisonSystem) React(_ context.Context, entities []*ecs.Entity) error {
	for _, target := range entities {
		act, err := ecs.Get[component.WitchPoisonAction](target, s.deps.Types.WitchPoisonAction)
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
		powers.PoisonUsed = true

		if err := target.Replace(s.deps.Types.NightKillTarget, s.deps.Match.Round(), "poisoned"); err != nil {
			return err
		}
		fact := fmt.Sprintf("You slipped your poison to %s.", s.deps.nameOf(target))
		if err := s.deps.appendFact(witch, fact); err != nil {
			return err
		}
	}
	return nil
}
