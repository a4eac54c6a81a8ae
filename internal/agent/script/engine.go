package script

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/fablemud/engine/internal/agent"
)

// Engine wraps a single gopher-lua VM for planner decisions.
// Single-goroutine access only (one engine per match goroutine).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
	rng *rand.Rand
}

// NewEngine creates a Lua engine, seeds its math.random, and loads all
// scripts from the given directory. A missing directory is not an
// error; every plan call then takes its fallback path.
func NewEngine(scriptsDir string, seed int64, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	if err := vm.DoString(fmt.Sprintf("math.randomseed(%d)", seed)); err != nil {
		vm.Close()
		return nil, fmt.Errorf("seed lua rng: %w", err)
	}

	e := &Engine{vm: vm, log: log, rng: rand.New(rand.NewSource(seed))}
	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, err
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// PlanDiscussion calls the Lua plan_discussion function.
func (e *Engine) PlanDiscussion(req agent.DiscussionRequest) agent.DiscussionDecision {
	fallback := agent.DiscussionDecision{Message: "I have nothing to add."}

	fn := e.vm.GetGlobal("plan_discussion")
	if fn == lua.LNil {
		e.log.Warn("lua function plan_discussion not found")
		return fallback
	}

	t := e.vm.NewTable()
	t.RawSetString("game", lua.LString(req.Game))
	t.RawSetString("round", lua.LNumber(req.Round))
	t.RawSetString("role", lua.LString(req.Role))
	t.RawSetString("self", lua.LString(req.Self))
	t.RawSetString("stage", lua.LString(req.Stage))
	t.RawSetString("alive", e.strings(req.Alive))
	t.RawSetString("memory", e.strings(req.Memory))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua plan_discussion error", zap.Error(err))
		return fallback
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua plan_discussion returned non-table")
		return fallback
	}
	msg := lStr(rt, "message")
	if msg == "" {
		return fallback
	}
	return agent.DiscussionDecision{Message: msg}
}

// PlanNightAction calls the Lua plan_night_action function.
func (e *Engine) PlanNightAction(req agent.NightActionRequest) agent.NightActionDecision {
	fallback := e.nightFallback(req)

	fn := e.vm.GetGlobal("plan_night_action")
	if fn == lua.LNil {
		e.log.Warn("lua function plan_night_action not found")
		return fallback
	}

	t := e.vm.NewTable()
	t.RawSetString("game", lua.LString(req.Game))
	t.RawSetString("round", lua.LNumber(req.Round))
	t.RawSetString("role", lua.LString(req.Role))
	t.RawSetString("self", lua.LString(req.Self))
	t.RawSetString("alive", e.strings(req.Alive))
	t.RawSetString("candidates", e.strings(req.Candidates))
	t.RawSetString("victims", e.strings(req.Victims))
	if req.CureUsed {
		t.RawSetString("cure_used", lua.LTrue)
	} else {
		t.RawSetString("cure_used", lua.LFalse)
	}
	if req.PoisonUsed {
		t.RawSetString("poison_used", lua.LTrue)
	} else {
		t.RawSetString("poison_used", lua.LFalse)
	}
	t.RawSetString("memory", e.strings(req.Memory))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua plan_night_action error", zap.Error(err))
		return fallback
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua plan_night_action returned non-table")
		return fallback
	}
	dec := agent.NightActionDecision{
		Action: lStr(rt, "action"),
		Target: lStr(rt, "target"),
	}
	if dec.Action == "" {
		return fallback
	}
	return dec
}

// nightFallback is the move used when the script cannot decide: wolves
// and seers pick a random candidate, everyone else passes.
func (e *Engine) nightFallback(req agent.NightActionRequest) agent.NightActionDecision {
	if len(req.Candidates) == 0 {
		return agent.NightActionDecision{Action: agent.ActionPass}
	}
	target := req.Candidates[e.rng.Intn(len(req.Candidates))]
	switch req.Role {
	case agent.RoleWerewolf:
		return agent.NightActionDecision{Action: agent.ActionKill, Target: target}
	case agent.RoleSeer:
		return agent.NightActionDecision{Action: agent.ActionInspect, Target: target}
	default:
		return agent.NightActionDecision{Action: agent.ActionPass}
	}
}

// PlanVote calls the Lua plan_vote function.
func (e *Engine) PlanVote(req agent.VoteRequest) agent.VoteDecision {
	var fallback agent.VoteDecision
	if len(req.Candidates) > 0 {
		fallback.Target = req.Candidates[e.rng.Intn(len(req.Candidates))]
	}

	fn := e.vm.GetGlobal("plan_vote")
	if fn == lua.LNil {
		e.log.Warn("lua function plan_vote not found")
		return fallback
	}

	t := e.vm.NewTable()
	t.RawSetString("game", lua.LString(req.Game))
	t.RawSetString("round", lua.LNumber(req.Round))
	t.RawSetString("role", lua.LString(req.Role))
	t.RawSetString("self", lua.LString(req.Self))
	t.RawSetString("candidates", e.strings(req.Candidates))
	t.RawSetString("memory", e.strings(req.Memory))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua plan_vote error", zap.Error(err))
		return fallback
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		e.log.Error("lua plan_vote returned non-table")
		return fallback
	}
	dec := agent.VoteDecision{
		Target: lStr(rt, "target"),
		Reason: lStr(rt, "reason"),
	}
	if dec.Target == "" {
		return fallback
	}
	return dec
}

// strings builds a Lua array table from a string slice.
func (e *Engine) strings(values []string) *lua.LTable {
	t := e.vm.NewTable()
	for i, v := range values {
		t.RawSetInt(i+1, lua.LString(v))
	}
	return t
}

// lStr reads a string field from a Lua table.
func lStr(t *lua.LTable, key string) string {
	return lua.LVAsString(t.RawGetString(key))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
