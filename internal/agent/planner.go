package agent

import "context"

// Role names as planners see them.
const (
	RoleModerator = "moderator"
	RoleWerewolf  = "werewolf"
	RoleSeer      = "seer"
	RoleWitch     = "witch"
	RoleVillager  = "villager"
)

// Night action verbs.
const (
	ActionKill    = "kill"
	ActionInspect = "inspect"
	ActionCure    = "cure"
	ActionPoison  = "poison"
	ActionPass    = "pass"
)

// DiscussionRequest asks an actor for a daytime statement.
type DiscussionRequest struct {
	Game   string
	Round  int
	Role   string
	Self   string
	Stage  string
	Alive  []string
	Memory []string
}

type DiscussionDecision struct {
	Message string
}

// NightActionRequest asks a night role for its move. Candidates are the
// legal targets for the role; Victims and the power flags are filled
// for the witch only.
type NightActionRequest struct {
	Game       string
	Round      int
	Role       string
	Self       string
	Alive      []string
	Candidates []string
	Victims    []string
	CureUsed   bool
	PoisonUsed bool
	Memory     []string
}

// NightActionDecision names the chosen move: kill, inspect, cure,
// poison, or pass. Target is empty for pass.
type NightActionDecision struct {
	Action string
	Target string
}

// VoteRequest asks an actor who to lynch.
type VoteRequest struct {
	Game       string
	Round      int
	Role       string
	Self       string
	Candidates []string
	Memory     []string
}

type VoteDecision struct {
	Target string
	Reason string
}

// Planner decides for one actor. Implementations may consult a script,
// a language model, or a human; the game treats them all alike and
// validates every decision against the rules before applying it.
type Planner interface {
	PlanDiscussion(ctx context.Context, req DiscussionRequest) (DiscussionDecision, error)
	PlanNightAction(ctx context.Context, req NightActionRequest) (NightActionDecision, error)
	PlanVote(ctx context.Context, req VoteRequest) (VoteDecision, error)
	Close() error
}
