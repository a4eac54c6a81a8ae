package world

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/fablemud/engine/internal/component"
	"github.com/fablemud/engine/internal/core/ecs"
	"github.com/fablemud/engine/internal/snapshot"
)

var ErrDuplicateName = errors.New("name already in use")

// Manager owns the component registry, the context, and the name index
// for one match. Entities enter play through the Spawn methods, which
// stamp them with a Runtime identity and register their name; names are
// unique per manager after Unicode normalization.
//
// A Manager is confined to the goroutine running its match. No locks.
type Manager struct {
	reg   *ecs.Registry
	types *component.Types
	ctx   *ecs.Context
	log   *zap.Logger

	names     map[string]*ecs.Entity
	nextIndex int

	worlds *ecs.Group
	stages *ecs.Group
	actors *ecs.Group
	alive  *ecs.Group
}

func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	reg := ecs.NewRegistry()
	types := component.RegisterAll(reg)
	ctx := ecs.NewContext(reg, log)
	return &Manager{
		reg:    reg,
		types:  types,
		ctx:    ctx,
		log:    log,
		names:  make(map[string]*ecs.Entity),
		worlds: ctx.Group(ecs.AllOf(types.WorldTag)),
		stages: ctx.Group(ecs.AllOf(types.StageTag)),
		actors: ctx.Group(ecs.AllOf(types.Actor)),
		alive:  ctx.Group(ecs.AllOf(types.Actor).NoneOf(types.Dead)),
	}
}

func (m *Manager) Registry() *ecs.Registry { return m.reg }
func (m *Manager) Types() *component.Types { return m.types }
func (m *Manager) Context() *ecs.Context   { return m.ctx }

// CanonicalName returns name as the index stores it: trimmed and NFC
// normalized, so composed and decomposed spellings address the same
// entity.
func CanonicalName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// SpawnWorld creates the world entity. A match has exactly one.
func (m *Manager) SpawnWorld(name string, extra ...ecs.Component) (*ecs.Entity, error) {
	if m.worlds.Count() > 0 {
		return nil, fmt.Errorf("spawn world %q: world already exists", name)
	}
	e, key, err := m.newEntity(name)
	if err != nil {
		return nil, err
	}
	if err := e.Set(m.types.WorldTag, component.WorldTag{}); err != nil {
		m.discard(e, key)
		return nil, err
	}
	if err := m.attachExtra(e, extra); err != nil {
		m.discard(e, key)
		return nil, err
	}
	m.log.Debug("world spawned", zap.String("name", key))
	return e, nil
}

// SpawnStage creates a stage entity with its environment narrative.
func (m *Manager) SpawnStage(name, environment string, extra ...ecs.Component) (*ecs.Entity, error) {
	e, key, err := m.newEntity(name)
	if err != nil {
		return nil, err
	}
	if err := e.Set(m.types.StageTag, component.StageTag{}); err != nil {
		m.discard(e, key)
		return nil, err
	}
	if err := e.Set(m.types.Environment, component.Environment{Description: environment}); err != nil {
		m.discard(e, key)
		return nil, err
	}
	if err := m.attachExtra(e, extra); err != nil {
		m.discard(e, key)
		return nil, err
	}
	m.log.Debug("stage spawned", zap.String("name", key))
	return e, nil
}

// SpawnActor creates an actor entity on an existing stage.
func (m *Manager) SpawnActor(name, stage string, extra ...ecs.Component) (*ecs.Entity, error) {
	stageKey := CanonicalName(stage)
	if s := m.names[stageKey]; s == nil || !s.Has(m.types.StageTag) {
		return nil, fmt.Errorf("spawn actor %q: unknown stage %q", name, stage)
	}
	e, key, err := m.newEntity(name)
	if err != nil {
		return nil, err
	}
	if err := e.Set(m.types.Actor, component.Actor{Stage: stageKey}); err != nil {
		m.discard(e, key)
		return nil, err
	}
	if err := m.attachExtra(e, extra); err != nil {
		m.discard(e, key)
		return nil, err
	}
	m.log.Debug("actor spawned", zap.String("name", key), zap.String("stage", stageKey))
	return e, nil
}

func (m *Manager) newEntity(name string) (*ecs.Entity, string, error) {
	key := CanonicalName(name)
	if key == "" {
		return nil, "", fmt.Errorf("spawn: empty name")
	}
	if _, taken := m.names[key]; taken {
		return nil, "", fmt.Errorf("spawn %q: %w", key, ErrDuplicateName)
	}
	e := m.ctx.CreateEntity()
	e.SetName(key)
	rt := component.Runtime{Name: key, Index: m.nextIndex, UUID: uuid.NewString()}
	if err := e.Set(m.types.Runtime, rt); err != nil {
		_ = m.ctx.DestroyEntity(e)
		return nil, "", err
	}
	m.nextIndex++
	m.names[key] = e
	return e, key, nil
}

func (m *Manager) attachExtra(e *ecs.Entity, extra []ecs.Component) error {
	for _, c := range extra {
		t, ok := m.reg.TypeOf(c)
		if !ok {
			return fmt.Errorf("attach %T to %s: unregistered component", c, e)
		}
		if err := e.Set(t, c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) discard(e *ecs.Entity, key string) {
	delete(m.names, key)
	_ = m.ctx.DestroyEntity(e)
}

// EntityByName returns the entity registered under name, or nil.
func (m *Manager) EntityByName(name string) *ecs.Entity {
	return m.names[CanonicalName(name)]
}

// Kind reports what a managed entity is, by marker component.
func (m *Manager) Kind(e *ecs.Entity) EntityKind {
	switch {
	case e.Has(m.types.WorldTag):
		return KindWorld
	case e.Has(m.types.StageTag):
		return KindStage
	case e.Has(m.types.Actor):
		return KindActor
	default:
		return KindUnknown
	}
}

// WorldEntity returns the world entity, or nil before SpawnWorld.
func (m *Manager) WorldEntity() (*ecs.Entity, error) {
	return m.worlds.Single()
}

func (m *Manager) Stages() []*ecs.Entity { return m.stages.Entities() }

func (m *Manager) Actors() []*ecs.Entity { return m.actors.Entities() }

// AliveActors returns every actor still in play, in spawn order.
func (m *Manager) AliveActors() []*ecs.Entity { return m.alive.Entities() }

// ActorsOnStage returns every actor placed on the named stage.
func (m *Manager) ActorsOnStage(stage string) []*ecs.Entity {
	return m.onStage(m.actors, stage)
}

// AliveActorsOnStage is ActorsOnStage minus the dead.
func (m *Manager) AliveActorsOnStage(stage string) []*ecs.Entity {
	return m.onStage(m.alive, stage)
}

func (m *Manager) onStage(g *ecs.Group, stage string) []*ecs.Entity {
	key := CanonicalName(stage)
	var out []*ecs.Entity
	for _, e := range g.Entities() {
		a, err := ecs.Get[component.Actor](e, m.types.Actor)
		if err != nil {
			continue
		}
		if a.Stage == key {
			out = append(out, e)
		}
	}
	return out
}

// Despawn removes an entity from the name index and destroys it.
func (m *Manager) Despawn(e *ecs.Entity) error {
	if rt, err := ecs.Get[component.Runtime](e, m.types.Runtime); err == nil {
		if m.names[rt.Name] == e {
			delete(m.names, rt.Name)
		}
	}
	return m.ctx.DestroyEntity(e)
}

// Snapshot serializes every live entity into a GameRecord.
func (m *Manager) Snapshot(game string) (*snapshot.GameRecord, error) {
	return snapshot.Encode(game, m.types, m.ctx.Entities())
}

// Restore rebuilds a saved game into an empty manager: entities, name
// index, and the spawn index counter. Restoring over live entities is
// an error.
func (m *Manager) Restore(rec *snapshot.GameRecord) error {
	if m.ctx.Count() > 0 {
		return fmt.Errorf("restore %q: manager not empty", rec.Name)
	}
	entities, err := snapshot.Decode(rec, m.reg, m.ctx)
	if err != nil {
		return err
	}
	rollback := func(err error) error {
		for _, e := range entities {
			_ = m.ctx.DestroyEntity(e)
		}
		return err
	}

	seen := make(map[string]*ecs.Entity, len(entities))
	maxIndex := -1
	for _, e := range entities {
		rt, err := ecs.Get[component.Runtime](e, m.types.Runtime)
		if err != nil {
			return rollback(fmt.Errorf("restore %q: %s: %w", rec.Name, e, err))
		}
		key := CanonicalName(rt.Name)
		if _, dup := seen[key]; dup {
			return rollback(fmt.Errorf("restore %q: %w: %q", rec.Name, ErrDuplicateName, rt.Name))
		}
		seen[key] = e
		if rt.Index > maxIndex {
			maxIndex = rt.Index
		}
	}

	for key, e := range seen {
		m.names[key] = e
		e.SetName(key)
	}
	m.nextIndex = maxIndex + 1
	m.log.Info("game restored",
		zap.String("game", rec.Name),
		zap.Int("entities", len(entities)),
	)
	return nil
}
