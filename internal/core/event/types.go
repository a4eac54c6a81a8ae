package event

// Feed event types carried by the bus. These are display records for the
// match transcript and room broadcast, not entity state; systems keep
// authoritative state in components and emit these as narration.

// PhaseChanged marks a pipeline transition in the match loop.
type PhaseChanged struct {
	Round int
	Phase string
}

// NarrationPosted is a line of dialogue or description produced by an
// actor or the moderator.
type NarrationPosted struct {
	Round   int
	Phase   string
	Speaker string
	Text    string
}

// ActorDied reports an actor leaving play, with the means of death as a
// display string ("mauled", "poisoned", "lynched").
type ActorDied struct {
	Round int
	Name  string
	Cause string
}

// VoteCast reports one tallied daytime vote.
type VoteCast struct {
	Round  int
	Voter  string
	Target string
}

// MatchEnded reports the final outcome.
type MatchEnded struct {
	Rounds int
	Winner string
}
