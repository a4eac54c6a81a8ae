package script_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fablemud/engine/internal/agent"
	"github.com/fablemud/engine/internal/agent/script"
)

const plannerScript = `
function plan_discussion(req)
    return { message = req.self .. " the " .. req.role .. " eyes " .. req.alive[1] }
end

function plan_night_action(req)
    if req.role == "witch" then
        if #req.victims > 0 and not req.cure_used then
            return { action = "cure", target = req.victims[1] }
        end
        return { action = "pass" }
    end
    if req.role == "seer" then
        return { action = "inspect", target = req.candidates[1] }
    end
    return { action = "kill", target = req.candidates[#req.candidates] }
end

function plan_vote(req)
    return { target = req.candidates[1], reason = "suspicious" }
end
`

func writeScript(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "planner.lua"), []byte(body), 0o644))
	return dir
}

func TestEnginePlansFromScript(t *testing.T) {
	e, err := script.NewEngine(writeScript(t, plannerScript), 1, zap.NewNop())
	require.NoError(t, err)
	defer e.Close()

	say := e.PlanDiscussion(agent.DiscussionRequest{
		Role:  agent.RoleVillager,
		Self:  "Alice",
		Alive: []string{"Bram", "Carol"},
	})
	assert.Equal(t, "Alice the villager eyes Bram", say.Message)

	kill := e.PlanNightAction(agent.NightActionRequest{
		Role:       agent.RoleWerewolf,
		Self:       "Rolf",
		Candidates: []string{"Alice", "Bram", "Carol"},
	})
	assert.Equal(t, agent.ActionKill, kill.Action)
	assert.Equal(t, "Carol", kill.Target)

	cure := e.PlanNightAction(agent.NightActionRequest{
		Role:    agent.RoleWitch,
		Self:    "Greta",
		Victims: []string{"Alice"},
	})
	assert.Equal(t, agent.ActionCure, cure.Action)
	assert.Equal(t, "Alice", cure.Target)

	spent := e.PlanNightAction(agent.NightActionRequest{
		Role:     agent.RoleWitch,
		Self:     "Greta",
		Victims:  []string{"Alice"},
		CureUsed: true,
	})
	assert.Equal(t, agent.ActionPass, spent.Action)

	vote := e.PlanVote(agent.VoteRequest{
		Self:       "Alice",
		Candidates: []string{"Bram", "Carol"},
	})
	assert.Equal(t, "Bram", vote.Target)
	assert.Equal(t, "suspicious", vote.Reason)
}

func TestEngineFallsBackWithoutScripts(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-dir")
	e, err := script.NewEngine(missing, 7, zap.NewNop())
	require.NoError(t, err, "a missing script directory is not fatal")
	defer e.Close()

	say := e.PlanDiscussion(agent.DiscussionRequest{Role: agent.RoleVillager, Self: "Alice"})
	assert.Equal(t, "I have nothing to add.", say.Message)

	kill := e.PlanNightAction(agent.NightActionRequest{
		Role:       agent.RoleWerewolf,
		Candidates: []string{"Alice", "Bram"},
	})
	assert.Equal(t, agent.ActionKill, kill.Action)
	assert.Contains(t, []string{"Alice", "Bram"}, kill.Target)

	look := e.PlanNightAction(agent.NightActionRequest{
		Role:       agent.RoleSeer,
		Candidates: []string{"Alice"},
	})
	assert.Equal(t, agent.ActionInspect, look.Action)
	assert.Equal(t, "Alice", look.Target)

	brew := e.PlanNightAction(agent.NightActionRequest{
		Role:       agent.RoleWitch,
		Candidates: []string{"Alice"},
	})
	assert.Equal(t, agent.ActionPass, brew.Action)

	vote := e.PlanVote(agent.VoteRequest{Candidates: []string{"Alice", "Bram"}})
	assert.Contains(t, []string{"Alice", "Bram"}, vote.Target)

	abstain := e.PlanVote(agent.VoteRequest{})
	assert.Empty(t, abstain.Target)
}

func TestEngineScriptErrorFallsBack(t *testing.T) {
	dir := writeScript(t, `function plan_vote(req) error("boom") end`)
	e, err := script.NewEngine(dir, 3, zap.NewNop())
	require.NoError(t, err)
	defer e.Close()

	vote := e.PlanVote(agent.VoteRequest{Candidates: []string{"Alice", "Bram"}})
	assert.Contains(t, []string{"Alice", "Bram"}, vote.Target, "a crashing script falls back, not up")
}

func TestEngineRejectsBrokenScript(t *testing.T) {
	dir := writeScript(t, `function plan_vote(req`)
	_, err := script.NewEngine(dir, 3, zap.NewNop())
	require.Error(t, err)
}

func TestEngineFallbacksAreSeedStable(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-dir")
	req := agent.VoteRequest{Candidates: []string{"Alice", "Bram", "Carol", "Dara"}}

	run := func() []string {
		e, err := script.NewEngine(missing, 42, zap.NewNop())
		require.NoError(t, err)
		defer e.Close()
		var picks []string
		for i := 0; i < 8; i++ {
			picks = append(picks, e.PlanVote(req).Target)
		}
		return picks
	}

	assert.Equal(t, run(), run(), "same seed, same fallback sequence")
}

func TestPlannerAdaptsEngine(t *testing.T) {
	p, err := script.NewPlanner(writeScript(t, plannerScript), 1, zap.NewNop())
	require.NoError(t, err)

	var planner agent.Planner = p
	vote, err := planner.PlanVote(context.Background(), agent.VoteRequest{Candidates: []string{"Bram"}})
	require.NoError(t, err)
	assert.Equal(t, "Bram", vote.Target)
	require.NoError(t, planner.Close())
}
