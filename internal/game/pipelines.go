package game

import (
	"github.com/fablemud/engine/internal/core/ecs"
	"github.com/fablemud/engine/internal/system"
)

// pipelines are the four phase containers of a match. Systems that
// appear in more than one container are single shared instances, so a
// reactive collector or a once-guard is never duplicated. Within a
// container the Add order is the execution order.
type pipelines struct {
	kickoff *ecs.Processors
	night   *ecs.Processors
	day     *ecs.Processors
	vote    *ecs.Processors

	// discussion drives the day loop: the loop steps the day container
	// until no speaker is pending.
	discussion *system.DayDiscussionSystem
}

func newPipelines(deps *system.Deps) *pipelines {
	var (
		roleInit     = system.NewWerewolfInitSystem(deps)
		kickOff      = system.NewKickOffSystem(deps)
		nightInit    = system.NewNightInitSystem(deps)
		nightWolf    = system.NewNightWolfSystem(deps)
		nightSeer    = system.NewNightSeerSystem(deps)
		nightWitch   = system.NewNightWitchSystem(deps)
		seerCheck    = system.NewSeerCheckSystem(deps)
		witchCure    = system.NewWitchCureSystem(deps)
		witchPoison  = system.NewWitchPoisonSystem(deps)
		nightResolve = system.NewNightResolveSystem(deps)
		dayTalk      = system.NewDayDiscussionSystem(deps)
		discussion   = system.NewDiscussionSystem(deps)
		dayVote      = system.NewDayVoteSystem(deps)
		vote         = system.NewVoteSystem(deps)
		winCheck     = system.NewWinCheckSystem(deps)
		announce     = system.NewAnnounceSystem(deps)
		cleanup      = system.NewActionCleanupSystem(deps)
		destroy      = system.NewDestroySystem(deps)
		save         = system.NewSaveSystem(deps)
		shutdown     = system.NewShutdownSystem(deps)
	)

	kickoff := ecs.NewProcessors("kickoff").
		Add(roleInit).
		Add(kickOff).
		Add(announce).
		Add(destroy).
		Add(save).
		Add(cleanup).
		Add(shutdown)

	night := ecs.NewProcessors("night").
		Add(nightInit).
		Add(announce).
		Add(nightWolf).
		Add(nightSeer).
		Add(nightWitch).
		Add(seerCheck).
		Add(witchCure).
		Add(witchPoison).
		Add(destroy).
		Add(save).
		Add(cleanup).
		Add(shutdown)

	day := ecs.NewProcessors("day").
		Add(nightResolve).
		Add(announce).
		Add(winCheck).
		Add(dayTalk).
		Add(discussion).
		Add(destroy).
		Add(save).
		Add(cleanup).
		Add(shutdown)

	votePhase := ecs.NewProcessors("vote").
		Add(dayVote).
		Add(discussion).
		Add(vote).
		Add(announce).
		Add(winCheck).
		Add(destroy).
		Add(save).
		Add(cleanup).
		Add(shutdown)

	return &pipelines{
		kickoff:    kickoff,
		night:      night,
		day:        day,
		vote:       votePhase,
		discussion: dayTalk,
	}
}

// all lists the containers in phase order.
func (p *pipelines) all() []*ecs.Processors {
	return []*ecs.Processors{p.kickoff, p.night, p.day, p.vote}
}
