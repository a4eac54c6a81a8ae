package system

import (
	"context"

	"go.uber.org/zap"

	"github.com/fablemud/engine/internal/core/ecs"
	"github.com/fablemud/engine/internal/core/event"
)

// WinCheckSystem settles the match: the village wins when no wolf is
// left standing, the wolves win when they match or outnumber the
// living town. Once a winner is set every system stands down.
type WinCheckSystem struct {
	deps   *Deps
	wolves *ecs.Group
	town   *ecs.Group
}

func NewWinCheckSystem(deps *Deps) *WinCheckSystem {
	ctx := deps.Manager.Context()
	return &WinCheckSystem{
		deps:   deps,
		wolves: ctx.Group(ecs.AllOf(deps.Types.Werewolf).NoneOf(deps.Types.Dead)),
		town: ctx.Group(
			ecs.AnyOf(deps.Types.Seer, deps.Types.Witch, deps.Types.Villager).
				NoneOf(deps.Types.Dead),
		),
	}
}

func (s *WinCheckSystem) Execute(_ context.Context) error {
	if s.deps.Match.Over() {
		return nil
	}
	wolves, town := s.wolves.Count(), s.town.Count()
	var winner string
	switch {
	case wolves == 0 && town > 0:
		winner = WinnerVillagers
	case wolves > 0 && wolves >= town:
		winner = WinnerWerewolves
	default:
		return nil
	}
	s.deps.Match.Winner = winner
	event.Emit(s.deps.Bus, event.MatchEnded{Rounds: s.deps.Match.Round(), Winner: winner})
	s.deps.Log.Info("match decided",
		zap.String("game", s.deps.Match.Game),
		zap.Int("round", s.deps.Match.Round()),
		zap.String("winner", winner),
	)
	return nil
}
