package system

import (
	"context"

	"github.com/fablemud/engine/internal/component"
	"github.com/fablemud/engine/internal/core/ecs"
)

// KickOffSystem delivers each pending kickoff briefing into the
// holder's memory and marks it done. The world's briefing doubles as
// the moderator's opening announcement.
type KickOffSystem struct {
	deps    *Deps
	pending *ecs.Group
}

func NewKickOffSystem(deps *Deps) *KickOffSystem {
	return &KickOffSystem{
		deps: deps,
		pending: deps.Manager.Context().Group(
			ecs.AllOf(deps.Types.KickOffMessage).NoneOf(deps.Types.KickOffDone),
		),
	}
}

func (s *KickOffSystem) Execute(_ context.Context) error {
	for _, e := range s.pending.Entities() {
		msg, err := ecs.Get[component.KickOffMessage](e, s.deps.Types.KickOffMessage)
		if err != nil {
			return err
		}
		if err := s.deps.appendFact(e, msg.Content); err != nil {
			return err
		}
		if err := e.Remove(s.deps.Types.KickOffMessage); err != nil {
			return err
		}
		if err := e.Set(s.deps.Types.KickOffDone, component.KickOffDone{Content: msg.Content}); err != nil {
			return err
		}
		if e.Has(s.deps.Types.WorldTag) {
			if err := s.deps.announce(msg.Content); err != nil {
				return err
			}
		}
	}
	return nil
}
