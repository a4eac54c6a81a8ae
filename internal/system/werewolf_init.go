package system

import (
	"context"
	"fmt"
	"strings"

	"github.com/fablemud/engine/internal/agent"
	"github.com/fablemud/engine/internal/core/ecs"
)

// WerewolfInitSystem seeds role awareness at match start: every actor
// learns its own role and the wolves learn their packmates.
type WerewolfInitSystem struct {
	deps   *Deps
	wolves *ecs.Group
}

func NewWerewolfInitSystem(deps *Deps) *WerewolfInitSystem {
	return &WerewolfInitSystem{
		deps: deps,
		wolves: deps.Manager.Context().Group(
			ecs.AllOf(deps.Types.Werewolf).NoneOf(deps.Types.Dead),
		),
	}
}

func (s *WerewolfInitSystem) Initialize(_ context.Context) error {
	for _, e := range s.deps.Manager.AliveActors() {
		role := s.deps.roleOf(e)
		brief := fmt.Sprintf("You are %s. Your role: %s.", s.deps.nameOf(e), role)
		switch role {
		case agent.RoleWerewolf:
			if pack := s.packmates(e); len(pack) > 0 {
				brief += fmt.Sprintf(" Your packmates: %s.", strings.Join(pack, ", "))
			} else {
				brief += " You hunt alone."
			}
		case agent.RoleSeer:
			brief += " Each night your sight reveals whether one player is a werewolf."
		case agent.RoleWitch:
			brief += " You hold one cure and one poison; each works once."
		}
		if err := s.deps.appendFact(e, brief); err != nil {
			return err
		}
	}
	return nil
}

func (s *WerewolfInitSystem) packmates(self *ecs.Entity) []string {
	var names []string
	for _, w := range s.wolves.Entities() {
		if w != self {
			names = append(names, s.deps.nameOf(w))
		}
	}
	return names
}
