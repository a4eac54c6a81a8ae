package component

// Role markers. Exactly one is attached per actor at match setup.

// Moderator marks the narrator entity that runs the match.
type Moderator struct{}

// Werewolf marks a wolf-team actor.
type Werewolf struct{}

// Seer marks the villager who may inspect one actor per night.
type Seer struct{}

// Witch marks the villager holding one cure and one poison.
type Witch struct{}

// Villager marks a plain villager.
type Villager struct{}

// WitchPowers tracks potion usage across the match. Mutable: the cure
// and poison systems flip the flags in place when a potion is spent.
type WitchPowers struct {
	CureUsed   bool
	PoisonUsed bool
}

// Phase markers. The match loop strips these when the matching phase
// ends.

// NightActionReady marks an actor eligible to act in the current night.
type NightActionReady struct{}

// NightActionDone marks an actor whose night action has resolved.
type NightActionDone struct{}

// NightKillTarget marks an actor chosen to die tonight. Cause is the
// display string dawn narrates with. The witch's cure removes the
// component before dawn makes it final.
type NightKillTarget struct {
	Round int
	Cause string
}

// DayDiscussed marks an actor who has spoken in the current day.
type DayDiscussed struct {
	Message string
}

// DayVoted marks an actor who has cast a vote in the current day.
type DayVoted struct{}

// Knowledge accumulates what an actor has privately learned, one fact
// per line, fed back into its planner prompts. Mutable: systems append
// in place.
type Knowledge struct {
	Facts []string
}
