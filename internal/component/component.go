package component

// Components are plain data. Systems perform all mutations; nothing in
// this package has behavior beyond field storage.

// Runtime carries the stable identity of a spawned entity: the name it
// is addressed by, the spawn order index used to keep snapshots in a
// reproducible order, and a UUID that survives save and restore.
type Runtime struct {
	Name  string
	Index int
	UUID  string
}

// WorldTag marks the single world entity of a match.
type WorldTag struct{}

// StageTag marks a stage entity, a place actors occupy.
type StageTag struct{}

// Actor marks an actor entity and records the stage it currently
// occupies, by stage name.
type Actor struct {
	Stage string
}

// Player marks an actor puppeted by a human instead of a planner.
type Player struct {
	PlayerName string
}

// Environment is the current description of a stage.
type Environment struct {
	Description string
}

// Appearance is the outward description other actors perceive.
type Appearance struct {
	Description string
}

// KickOffMessage holds the briefing given to an entity at match start.
// Removed once the briefing is delivered.
type KickOffMessage struct {
	Content string
}

// KickOffDone records that the kickoff briefing was delivered, and what
// it said.
type KickOffDone struct {
	Content string
}

// Dead marks an actor that has left play. The entity stays in the
// context so roles can still be revealed at match end.
type Dead struct{}

// PendingDestroy marks an entity for removal at the end of the current
// pipeline.
type PendingDestroy struct{}
