package game

import (
	"context"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/fablemud/engine/internal/agent"
	"github.com/fablemud/engine/internal/component"
	"github.com/fablemud/engine/internal/core/ecs"
	"github.com/fablemud/engine/internal/core/event"
	"github.com/fablemud/engine/internal/data"
	"github.com/fablemud/engine/internal/persist"
	"github.com/fablemud/engine/internal/snapshot"
	"github.com/fablemud/engine/internal/system"
	"github.com/fablemud/engine/internal/world"
)

// Options configure one match.
type Options struct {
	// Definition is the cast sheet for a fresh match. Ignored when
	// Record is set.
	Definition *data.WorldDefinition

	// Record resumes a saved match instead of starting fresh.
	Record *snapshot.GameRecord

	Planner agent.Planner
	Store   persist.SaveStore
	Log     *zap.Logger

	// Seed drives speaker order and any planner randomness routed
	// through the match rng. The same seed with the same planner
	// replays the same match.
	Seed int64

	// MaxRounds stops an undecided match after that many full
	// night/day rounds. Zero means no limit.
	MaxRounds int
}

// Game is one running match: a world of entities, the four phase
// pipelines over it, and the feed transcript. All methods must be
// called from the goroutine that runs the match; the transcript may be
// read freely once RunMatch has returned.
type Game struct {
	name      string
	fresh     bool
	maxRounds int

	deps  *system.Deps
	pipes *pipelines
	bus   *event.Bus
	log   *zap.Logger

	transcript []string
}

// New builds a match from a definition or a save. Restoring rebuilds
// every entity before the pipelines exist, so nothing from the save is
// collected as a fresh transition.
func New(opts Options) (*Game, error) {
	if opts.Planner == nil {
		return nil, fmt.Errorf("game: planner is required")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("game: store is required")
	}
	if opts.Record == nil && opts.Definition == nil {
		return nil, fmt.Errorf("game: definition or record is required")
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	manager := world.NewManager(log)
	match := &system.Match{}
	fresh := opts.Record == nil
	if fresh {
		if err := opts.Definition.Validate(); err != nil {
			return nil, err
		}
		if err := boot(manager, opts.Definition); err != nil {
			return nil, err
		}
		match.Game = world.CanonicalName(opts.Definition.Name)
	} else {
		if err := manager.Restore(opts.Record); err != nil {
			return nil, err
		}
		match.Game = opts.Record.Name
		match.Turn = opts.Record.Turn
		match.Winner = opts.Record.Winner
	}

	bus := event.NewBus()
	deps := &system.Deps{
		Manager: manager,
		Types:   manager.Types(),
		Match:   match,
		Planner: opts.Planner,
		Bus:     bus,
		Store:   opts.Store,
		Log:     log.With(zap.String("game", match.Game)),
		Rng:     rand.New(rand.NewSource(opts.Seed)),
	}

	g := &Game{
		name:      match.Game,
		fresh:     fresh,
		maxRounds: opts.MaxRounds,
		deps:      deps,
		pipes:     newPipelines(deps),
		bus:       bus,
		log:       deps.Log,
	}
	g.subscribe()
	return g, nil
}

// boot spawns the world, its stages, and the cast. The world entity
// carries the moderator voice and the shared briefing; actors carry
// their role marker and any private intro.
func boot(m *world.Manager, def *data.WorldDefinition) error {
	w, err := m.SpawnWorld(def.Name, component.Moderator{})
	if err != nil {
		return err
	}
	if def.Briefing != "" {
		if err := w.Set(m.Types().KickOffMessage, component.KickOffMessage{Content: def.Briefing}); err != nil {
			return err
		}
	}

	for _, s := range def.Stages {
		if _, err := m.SpawnStage(s.Name, s.Environment); err != nil {
			return err
		}
	}

	for _, a := range def.Actors {
		comps, err := roleComponents(a)
		if err != nil {
			return err
		}
		if _, err := m.SpawnActor(a.Name, def.StageFor(a), comps...); err != nil {
			return err
		}
	}
	return nil
}

// roleComponents translates one cast entry into the components its
// entity spawns with.
func roleComponents(a data.ActorDefinition) ([]ecs.Component, error) {
	var comps []ecs.Component
	switch a.Role {
	case agent.RoleWerewolf:
		comps = append(comps, component.Werewolf{})
	case agent.RoleSeer:
		comps = append(comps, component.Seer{})
	case agent.RoleWitch:
		comps = append(comps, component.Witch{}, &component.WitchPowers{})
	case agent.RoleVillager:
		comps = append(comps, component.Villager{})
	default:
		return nil, fmt.Errorf("actor %q: unknown role %q", a.Name, a.Role)
	}
	if a.Appearance != "" {
		comps = append(comps, component.Appearance{Description: a.Appearance})
	}
	if a.Intro != "" {
		comps = append(comps, component.KickOffMessage{Content: a.Intro})
	}
	return comps, nil
}

// RunMatch plays the match to its end: a win, the round limit, or a
// context cancellation. A fresh match opens with the kickoff pipeline;
// a restored one re-enters the loop on the phase the save was taken in.
func (g *Game) RunMatch(ctx context.Context) error {
	m := g.deps.Match
	if m.Over() {
		return nil
	}

	if g.fresh {
		for _, p := range g.pipes.all() {
			if err := p.Initialize(ctx); err != nil {
				return err
			}
		}
		if err := g.step(ctx, g.pipes.kickoff); err != nil {
			return err
		}
	} else if m.Turn > 0 && m.Turn%2 == 0 {
		// The save was taken mid-day; finish the day first.
		if err := g.runDay(ctx); err != nil {
			return err
		}
	}

	for !m.Over() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if m.Turn%2 == 0 && g.maxRounds > 0 && m.Round() >= g.maxRounds {
			g.log.Info("match stopped at round limit", zap.Int("rounds", m.Round()))
			return nil
		}
		m.Turn++
		if m.Turn%2 == 1 {
			if err := g.step(ctx, g.pipes.night); err != nil {
				return err
			}
		} else {
			if err := g.runDay(ctx); err != nil {
				return err
			}
		}
	}

	g.reveal()
	g.log.Info("match over",
		zap.String("winner", m.Winner),
		zap.Int("rounds", m.Round()),
	)
	return nil
}

// runDay steps the day pipeline until every living actor has spoken,
// then holds the vote. The first step resolves the night; later steps
// are pure discussion.
func (g *Game) runDay(ctx context.Context) error {
	m := g.deps.Match
	for !m.Over() && g.pipes.discussion.Pending() > 0 {
		if err := g.step(ctx, g.pipes.day); err != nil {
			return err
		}
	}
	if m.Over() {
		return nil
	}
	return g.step(ctx, g.pipes.vote)
}

// step runs one container pass and flushes the feed: execute, cleanup,
// then swap and dispatch the events the pass emitted.
func (g *Game) step(ctx context.Context, p *ecs.Processors) error {
	if err := p.Execute(ctx); err != nil {
		return err
	}
	p.Cleanup()
	g.bus.SwapBuffers()
	g.bus.DispatchAll()
	return nil
}

// reveal appends the cast sheet to the transcript once the match is
// decided.
func (g *Game) reveal() {
	for _, e := range g.deps.Manager.Actors() {
		role := system.RoleName(g.deps.Types, e)
		fate := "survived"
		if e.Has(g.deps.Types.Dead) {
			fate = "died"
		}
		name := e.Name()
		if rt, err := ecs.Get[component.Runtime](e, g.deps.Types.Runtime); err == nil {
			name = rt.Name
		}
		g.record(fmt.Sprintf("* %s was a %s and %s", name, role, fate))
	}
}

// Close deactivates the reactive systems and tears the pipelines down.
// The planner is closed exactly once.
func (g *Game) Close() {
	for _, p := range g.pipes.all() {
		p.DeactivateReactiveProcessors()
	}
	for _, p := range g.pipes.all() {
		p.TearDown()
	}
}

func (g *Game) subscribe() {
	event.Subscribe(g.bus, func(ev event.PhaseChanged) {
		g.record(fmt.Sprintf("--- round %d, %s ---", ev.Round, ev.Phase))
	})
	event.Subscribe(g.bus, func(ev event.NarrationPosted) {
		g.record(fmt.Sprintf("%s: %s", ev.Speaker, ev.Text))
	})
	event.Subscribe(g.bus, func(ev event.ActorDied) {
		g.record(fmt.Sprintf("* %s dies (%s)", ev.Name, ev.Cause))
	})
	event.Subscribe(g.bus, func(ev event.VoteCast) {
		g.record(fmt.Sprintf("* %s votes against %s", ev.Voter, ev.Target))
	})
	event.Subscribe(g.bus, func(ev event.MatchEnded) {
		g.record(fmt.Sprintf("=== %s win after %d rounds ===", ev.Winner, ev.Rounds))
	})
}

func (g *Game) record(line string) {
	g.transcript = append(g.transcript, line)
}

// Name returns the canonical game name.
func (g *Game) Name() string { return g.name }

// Winner returns the decided winner, or "" while the match runs.
func (g *Game) Winner() string { return g.deps.Match.Winner }

// Round returns the current round number.
func (g *Game) Round() int { return g.deps.Match.Round() }

// Transcript returns a copy of the feed lines recorded so far.
func (g *Game) Transcript() []string {
	out := make([]string, len(g.transcript))
	copy(out, g.transcript)
	return out
}
