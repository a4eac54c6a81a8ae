package game_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fablemud/engine/internal/agent"
	"github.com/fablemud/engine/internal/data"
	"github.com/fablemud/engine/internal/game"
	"github.com/fablemud/engine/internal/persist"
)

// scriptedPlanner plays a fixed script keyed on role and round, which
// makes whole matches reproducible without a Lua engine.
type scriptedPlanner struct {
	discuss func(agent.DiscussionRequest) (agent.DiscussionDecision, error)
	night   func(agent.NightActionRequest) (agent.NightActionDecision, error)
	vote    func(agent.VoteRequest) (agent.VoteDecision, error)
	closes  int
}

func (p *scriptedPlanner) PlanDiscussion(_ context.Context, req agent.DiscussionRequest) (agent.DiscussionDecision, error) {
	if p.discuss == nil {
		return agent.DiscussionDecision{Message: "I have nothing to add."}, nil
	}
	return p.discuss(req)
}

func (p *scriptedPlanner) PlanNightAction(_ context.Context, req agent.NightActionRequest) (agent.NightActionDecision, error) {
	if p.night == nil {
		return agent.NightActionDecision{Action: agent.ActionPass}, nil
	}
	return p.night(req)
}

func (p *scriptedPlanner) PlanVote(_ context.Context, req agent.VoteRequest) (agent.VoteDecision, error) {
	if p.vote == nil {
		return agent.VoteDecision{}, nil
	}
	return p.vote(req)
}

func (p *scriptedPlanner) Close() error {
	p.closes++
	return nil
}

func millbrook() *data.WorldDefinition {
	return &data.WorldDefinition{
		Name:     "Millbrook",
		Briefing: "Welcome to Millbrook. Wolves walk among you.",
		Stages: []data.StageDefinition{
			{Name: "Village Square", Environment: "A well under an old oak."},
		},
		Actors: []data.ActorDefinition{
			{Name: "Rolf", Role: agent.RoleWerewolf},
			{Name: "Greta", Role: agent.RoleWitch},
			{Name: "Selma", Role: agent.RoleSeer},
			{Name: "Bram", Role: agent.RoleVillager},
			{Name: "Alice", Role: agent.RoleVillager, Intro: "You slept badly."},
		},
	}
}

// millbrookScript drives a two round match: night one takes Alice and
// every day one ballot is a discarded self vote, night two is cured by
// the witch, and the second vote lynches the wolf.
func millbrookScript() *scriptedPlanner {
	return &scriptedPlanner{
		night: func(req agent.NightActionRequest) (agent.NightActionDecision, error) {
			switch req.Role {
			case agent.RoleWerewolf:
				if req.Round == 1 {
					return agent.NightActionDecision{Action: agent.ActionKill, Target: "Alice"}, nil
				}
				return agent.NightActionDecision{Action: agent.ActionKill, Target: "Bram"}, nil
			case agent.RoleSeer:
				return agent.NightActionDecision{Action: agent.ActionInspect, Target: "Rolf"}, nil
			case agent.RoleWitch:
				if req.Round >= 2 && len(req.Victims) > 0 && !req.CureUsed {
					return agent.NightActionDecision{Action: agent.ActionCure, Target: req.Victims[0]}, nil
				}
				return agent.NightActionDecision{Action: agent.ActionPass}, nil
			default:
				return agent.NightActionDecision{Action: agent.ActionPass}, nil
			}
		},
		vote: func(req agent.VoteRequest) (agent.VoteDecision, error) {
			if req.Round == 1 {
				return agent.VoteDecision{Target: req.Self}, nil
			}
			return agent.VoteDecision{Target: "Rolf"}, nil
		},
	}
}

func transcript(g *game.Game) string {
	return strings.Join(g.Transcript(), "\n")
}

func TestRunMatchVillagersWin(t *testing.T) {
	planner := millbrookScript()
	// Lynch the wolf on day one instead of splitting the vote.
	planner.vote = func(agent.VoteRequest) (agent.VoteDecision, error) {
		return agent.VoteDecision{Target: "Rolf"}, nil
	}
	store := persist.NewMemoryStore()
	g, err := game.New(game.Options{
		Definition: millbrook(),
		Planner:    planner,
		Store:      store,
		Seed:       7,
		MaxRounds:  5,
	})
	require.NoError(t, err)
	defer g.Close()

	require.NoError(t, g.RunMatch(context.Background()))

	assert.Equal(t, "villagers", g.Winner())
	assert.Equal(t, 1, g.Round())

	feed := transcript(g)
	assert.Contains(t, feed, "Millbrook: Welcome to Millbrook. Wolves walk among you.")
	assert.Contains(t, feed, "--- round 1, night ---")
	assert.Contains(t, feed, "Night 1 falls over Millbrook.")
	assert.Contains(t, feed, "--- round 1, day ---")
	assert.Contains(t, feed, "* Alice dies (mauled)")
	assert.Contains(t, feed, "* Greta votes against Rolf")
	assert.Contains(t, feed, "* Rolf dies (lynched)")
	assert.Contains(t, feed, "=== villagers win")
	assert.Contains(t, feed, "* Rolf was a werewolf and died")
	assert.Contains(t, feed, "* Selma was a seer and survived")

	rec, err := store.LoadGame(context.Background(), "Millbrook")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 2, rec.Turn)
	assert.Equal(t, "villagers", rec.Winner)
}

func TestRunMatchResumesFromSave(t *testing.T) {
	store := persist.NewMemoryStore()

	first, err := game.New(game.Options{
		Definition: millbrook(),
		Planner:    millbrookScript(),
		Store:      store,
		Seed:       7,
		MaxRounds:  1,
	})
	require.NoError(t, err)
	require.NoError(t, first.RunMatch(context.Background()))
	first.Close()

	assert.Empty(t, first.Winner(), "round limit stops an undecided match")
	assert.Contains(t, transcript(first), "The vote is inconclusive.")

	rec, err := store.LoadGame(context.Background(), "Millbrook")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 2, rec.Turn)
	assert.Empty(t, rec.Winner)

	second, err := game.New(game.Options{
		Record:    rec,
		Planner:   millbrookScript(),
		Store:     store,
		Seed:      11,
		MaxRounds: 4,
	})
	require.NoError(t, err)
	defer second.Close()
	require.NoError(t, second.RunMatch(context.Background()))

	assert.Equal(t, "villagers", second.Winner())
	assert.Equal(t, 2, second.Round())

	feed := transcript(second)
	assert.NotContains(t, feed, "--- round 1", "the feed starts where the save left off")
	assert.Contains(t, feed, "--- round 2, night ---")
	assert.Contains(t, feed, "Everyone wakes unharmed.", "the witch cures the second kill")
	assert.NotContains(t, feed, "* Bram dies")
	assert.Contains(t, feed, "* Rolf dies (lynched)")

	final, err := store.LoadGame(context.Background(), "Millbrook")
	require.NoError(t, err)
	assert.Equal(t, 4, final.Turn)
	assert.Equal(t, "villagers", final.Winner)
}

func TestRunMatchFinishedSaveIsANoOp(t *testing.T) {
	store := persist.NewMemoryStore()
	planner := millbrookScript()
	planner.vote = func(agent.VoteRequest) (agent.VoteDecision, error) {
		return agent.VoteDecision{Target: "Rolf"}, nil
	}
	g, err := game.New(game.Options{Definition: millbrook(), Planner: planner, Store: store, Seed: 7})
	require.NoError(t, err)
	require.NoError(t, g.RunMatch(context.Background()))
	g.Close()

	rec, err := store.LoadGame(context.Background(), "Millbrook")
	require.NoError(t, err)

	done, err := game.New(game.Options{Record: rec, Planner: millbrookScript(), Store: store})
	require.NoError(t, err)
	defer done.Close()
	require.NoError(t, done.RunMatch(context.Background()))
	assert.Equal(t, "villagers", done.Winner())
	assert.Empty(t, done.Transcript())
}

func TestRunMatchRoundLimit(t *testing.T) {
	// Nobody acts and nobody votes, so nothing can ever decide the
	// match.
	planner := &scriptedPlanner{}
	g, err := game.New(game.Options{
		Definition: millbrook(),
		Planner:    planner,
		Store:      persist.NewMemoryStore(),
		Seed:       1,
		MaxRounds:  2,
	})
	require.NoError(t, err)
	defer g.Close()

	require.NoError(t, g.RunMatch(context.Background()))
	assert.Empty(t, g.Winner())
	assert.Equal(t, 2, g.Round())
	assert.NotContains(t, transcript(g), "===")
}

func TestRunMatchHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g, err := game.New(game.Options{
		Definition: millbrook(),
		Planner:    &scriptedPlanner{},
		Store:      persist.NewMemoryStore(),
	})
	require.NoError(t, err)
	defer g.Close()

	assert.ErrorIs(t, g.RunMatch(ctx), context.Canceled)
}

func TestNewValidatesOptions(t *testing.T) {
	store := persist.NewMemoryStore()
	planner := &scriptedPlanner{}

	_, err := game.New(game.Options{Definition: millbrook(), Store: store})
	assert.ErrorContains(t, err, "planner is required")

	_, err = game.New(game.Options{Definition: millbrook(), Planner: planner})
	assert.ErrorContains(t, err, "store is required")

	_, err = game.New(game.Options{Planner: planner, Store: store})
	assert.ErrorContains(t, err, "definition or record is required")

	broken := millbrook()
	broken.Actors[0].Role = "bard"
	_, err = game.New(game.Options{Definition: broken, Planner: planner, Store: store})
	assert.ErrorContains(t, err, "unknown role")
}

func TestServerRunsFleet(t *testing.T) {
	store := persist.NewMemoryStore()

	ashford := &data.WorldDefinition{
		Name:     "Ashford",
		Briefing: "Ashford huddles against the moor.",
		Stages:   []data.StageDefinition{{Name: "Green"}},
		Actors: []data.ActorDefinition{
			{Name: "Wulf", Role: agent.RoleWerewolf},
			{Name: "Tilda", Role: agent.RoleVillager},
			{Name: "Osric", Role: agent.RoleVillager},
		},
	}
	lynchWolf := func(name string) *scriptedPlanner {
		return &scriptedPlanner{
			vote: func(agent.VoteRequest) (agent.VoteDecision, error) {
				return agent.VoteDecision{Target: name}, nil
			},
		}
	}

	plannerA := millbrookScript()
	plannerA.vote = func(agent.VoteRequest) (agent.VoteDecision, error) {
		return agent.VoteDecision{Target: "Rolf"}, nil
	}
	a, err := game.New(game.Options{Definition: millbrook(), Planner: plannerA, Store: store, Seed: 7})
	require.NoError(t, err)
	plannerB := lynchWolf("Wulf")
	b, err := game.New(game.Options{Definition: ashford, Planner: plannerB, Store: store, Seed: 9})
	require.NoError(t, err)

	srv := game.NewServer(nil)
	srv.Add(a)
	srv.Add(b)
	require.NoError(t, srv.Run(context.Background()))

	assert.Equal(t, "villagers", a.Winner())
	assert.Equal(t, "villagers", b.Winner())
	assert.Equal(t, 1, plannerA.closes, "each game closes its own planner")
	assert.Equal(t, 1, plannerB.closes)

	names, err := store.ListGames(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Ashford", "Millbrook"}, names)
}
