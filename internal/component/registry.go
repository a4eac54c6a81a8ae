package component

import "github.com/fablemud/engine/internal/core/ecs"

// Types holds the registered descriptor for every component in the game
// vocabulary. Built once per registry at startup; systems and matchers
// reach components through these fields instead of name lookups.
type Types struct {
	Runtime        *ecs.ComponentType
	WorldTag       *ecs.ComponentType
	StageTag       *ecs.ComponentType
	Actor          *ecs.ComponentType
	Player         *ecs.ComponentType
	Environment    *ecs.ComponentType
	Appearance     *ecs.ComponentType
	KickOffMessage *ecs.ComponentType
	KickOffDone    *ecs.ComponentType
	Dead           *ecs.ComponentType
	PendingDestroy *ecs.ComponentType

	Moderator   *ecs.ComponentType
	Werewolf    *ecs.ComponentType
	Seer        *ecs.ComponentType
	Witch       *ecs.ComponentType
	Villager    *ecs.ComponentType
	WitchPowers *ecs.ComponentType
	Knowledge   *ecs.ComponentType

	NightActionReady *ecs.ComponentType
	NightActionDone  *ecs.ComponentType
	NightKillTarget  *ecs.ComponentType
	DayDiscussed     *ecs.ComponentType
	DayVoted         *ecs.ComponentType

	AnnounceAction    *ecs.ComponentType
	DiscussionAction  *ecs.ComponentType
	SeerCheckAction   *ecs.ComponentType
	WitchCureAction   *ecs.ComponentType
	WitchPoisonAction *ecs.ComponentType
	VoteAction        *ecs.ComponentType
}

// RegisterAll registers the full vocabulary on reg. Registering twice on
// the same registry panics; the vocabulary is fixed at startup.
func RegisterAll(reg *ecs.Registry) *Types {
	return &Types{
		Runtime:        ecs.MustRegister[Runtime](reg),
		WorldTag:       ecs.MustRegister[WorldTag](reg),
		StageTag:       ecs.MustRegister[StageTag](reg),
		Actor:          ecs.MustRegister[Actor](reg),
		Player:         ecs.MustRegister[Player](reg),
		Environment:    ecs.MustRegister[Environment](reg),
		Appearance:     ecs.MustRegister[Appearance](reg),
		KickOffMessage: ecs.MustRegister[KickOffMessage](reg),
		KickOffDone:    ecs.MustRegister[KickOffDone](reg),
		Dead:           ecs.MustRegister[Dead](reg),
		PendingDestroy: ecs.MustRegister[PendingDestroy](reg),

		Moderator:   ecs.MustRegister[Moderator](reg),
		Werewolf:    ecs.MustRegister[Werewolf](reg),
		Seer:        ecs.MustRegister[Seer](reg),
		Witch:       ecs.MustRegister[Witch](reg),
		Villager:    ecs.MustRegister[Villager](reg),
		WitchPowers: ecs.MustRegister[WitchPowers](reg, ecs.Mutable()),
		Knowledge:   ecs.MustRegister[Knowledge](reg, ecs.Mutable()),

		NightActionReady: ecs.MustRegister[NightActionReady](reg),
		NightActionDone:  ecs.MustRegister[NightActionDone](reg),
		NightKillTarget:  ecs.MustRegister[NightKillTarget](reg),
		DayDiscussed:     ecs.MustRegister[DayDiscussed](reg),
		DayVoted:         ecs.MustRegister[DayVoted](reg),

		AnnounceAction:    ecs.MustRegister[AnnounceAction](reg),
		DiscussionAction:  ecs.MustRegister[DiscussionAction](reg),
		SeerCheckAction:   ecs.MustRegister[SeerCheckAction](reg),
		WitchCureAction:   ecs.MustRegister[WitchCureAction](reg),
		WitchPoisonAction: ecs.MustRegister[WitchPoisonAction](reg),
		VoteAction:        ecs.MustRegister[VoteAction](reg),
	}
}

// Actions lists every action component, in registration order. Action
// cleanup strips exactly this set.
func (t *Types) Actions() []*ecs.ComponentType {
	return []*ecs.ComponentType{
		t.AnnounceAction,
		t.DiscussionAction,
		t.SeerCheckAction,
		t.WitchCureAction,
		t.WitchPoisonAction,
		t.VoteAction,
	}
}

// NightMarkers lists the phase markers stripped at dawn.
func (t *Types) NightMarkers() []*ecs.ComponentType {
	return []*ecs.ComponentType{t.NightActionReady, t.NightActionDone, t.NightKillTarget}
}

// DayMarkers lists the phase markers stripped at dusk.
func (t *Types) DayMarkers() []*ecs.ComponentType {
	return []*ecs.ComponentType{t.DayDiscussed, t.DayVoted}
}

// ActorRoles lists the playable roles, wolf and town.
func (t *Types) ActorRoles() []*ecs.ComponentType {
	return []*ecs.ComponentType{t.Werewolf, t.Seer, t.Witch, t.Villager}
}

// TownRoles lists the roles on the village side.
func (t *Types) TownRoles() []*ecs.ComponentType {
	return []*ecs.ComponentType{t.Seer, t.Witch, t.Villager}
}
