package ecs

import (
	"fmt"

	"go.uber.org/zap"
)

// Context owns the active entity set, the free-list of destroyed entities
// awaiting reuse, and the matcher-to-group cache. Every component
// mutation on an owned entity is dispatched synchronously to every cached
// group, so group membership is consistent with live component state the
// moment a mutating call returns. A context and everything it owns is
// single-threaded; callers serialize access per tick.
type Context struct {
	reg               *Registry
	log               *zap.Logger
	entities          []*Entity
	index             map[*Entity]int
	freeList          []*Entity
	nextCreationIndex int
	groups            []*Group
	groupBuckets      map[uint64][]*Group
}

// NewContext creates an empty context over the given registry. A nil
// logger is replaced with a no-op logger.
func NewContext(reg *Registry, log *zap.Logger) *Context {
	if log == nil {
		log = zap.NewNop()
	}
	return &Context{
		reg:          reg,
		log:          log,
		index:        make(map[*Entity]int),
		groupBuckets: make(map[uint64][]*Group),
	}
}

// Registry returns the component registry this context was built over.
func (c *Context) Registry() *Registry { return c.reg }

// CreateEntity returns an enabled, empty entity with the next creation
// index, reusing a destroyed entity object when one is available.
func (c *Context) CreateEntity() *Entity {
	var e *Entity
	if n := len(c.freeList); n > 0 {
		e = c.freeList[n-1]
		c.freeList = c.freeList[:n-1]
	} else {
		e = newEntity(c.reg, c.log)
	}
	e.activate(c.nextCreationIndex)
	c.nextCreationIndex++

	e.OnComponentAdded.AddListener(c)
	e.OnComponentRemoved.AddListener(c)
	e.OnComponentReplaced.AddListener(c)

	c.index[e] = len(c.entities)
	c.entities = append(c.entities, e)

	// A fresh entity can already satisfy a matcher with no positive
	// clauses. It enters such groups silently; evented transitions are
	// reserved for component mutations.
	for _, g := range c.groups {
		g.handleEntitySilently(e)
	}
	return e
}

// DestroyEntity disables e, strips its components (firing the usual
// removal events through every group), detaches it from all groups and
// the active set, and parks the object on the free-list.
func (c *Context) DestroyEntity(e *Entity) error {
	i, ok := c.index[e]
	if !ok {
		return fmt.Errorf("destroy %s: %w", e, ErrMissingEntity)
	}
	e.destroy()

	// Component removal already evicted e from every group keyed on what
	// it carried. The sweep covers matchers the empty entity still
	// satisfies.
	for _, g := range c.groups {
		g.remove(e)
	}

	delete(c.index, e)
	c.entities = append(c.entities[:i], c.entities[i+1:]...)
	for j := i; j < len(c.entities); j++ {
		c.index[c.entities[j]] = j
	}
	c.freeList = append(c.freeList, e)
	return nil
}

// Group returns the cached group for m, creating and backfilling it from
// the active entities on first request. Matchers are compared
// structurally, so construction order of their clauses does not split the
// cache.
func (c *Context) Group(m Matcher) *Group {
	h := m.Hash()
	for _, g := range c.groupBuckets[h] {
		if g.matcher.Equal(m) {
			return g
		}
	}
	g := newGroup(m, c.log)
	for _, e := range c.entities {
		g.handleEntitySilently(e)
	}
	c.groupBuckets[h] = append(c.groupBuckets[h], g)
	c.groups = append(c.groups, g)
	c.log.Debug("group created",
		zap.String("matcher", m.String()),
		zap.Int("backfilled", g.Count()),
	)
	return g
}

// Entities returns the active entities in creation order.
func (c *Context) Entities() []*Entity {
	out := make([]*Entity, len(c.entities))
	copy(out, c.entities)
	return out
}

func (c *Context) Count() int { return len(c.entities) }

// HasEntity reports whether e is currently active in this context.
func (c *Context) HasEntity(e *Entity) bool {
	_, ok := c.index[e]
	return ok
}

func (c *Context) String() string {
	return fmt.Sprintf("Context(%d entities, %d groups)", len(c.entities), len(c.groups))
}

// EntityChanged routes a component add or remove into every cached group.
func (c *Context) EntityChanged(e *Entity, t *ComponentType, comp Component) {
	for _, g := range c.groups {
		g.handleEntity(e, t, comp)
	}
}

// ComponentReplaced routes a component swap into every cached group.
func (c *Context) ComponentReplaced(e *Entity, t *ComponentType, prev, next Component) {
	for _, g := range c.groups {
		g.updateEntity(e, t, prev, next)
	}
}
