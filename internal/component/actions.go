package component

// Action components are requests placed on entities during a pipeline
// and consumed by reactive systems in the same pipeline. ActionCleanup
// strips any that remain, so no action survives into the next pipeline.

// AnnounceAction asks the moderator voice to broadcast a message to
// every living actor.
type AnnounceAction struct {
	Message string
}

// DiscussionAction carries one actor's daytime statement. Placed on the
// speaker.
type DiscussionAction struct {
	Message string
}

// SeerCheckAction is placed on the actor being inspected and names the
// seer who asked.
type SeerCheckAction struct {
	Seer string
}

// WitchCureAction is placed on tonight's kill target when the witch
// spends the cure.
type WitchCureAction struct {
	Witch string
}

// WitchPoisonAction is placed on the actor the witch poisons.
type WitchPoisonAction struct {
	Witch string
}

// VoteAction is placed on the voter and names who they voted against.
type VoteAction struct {
	Target string
}
