package ecs

import (
	"fmt"

	"go.uber.org/zap"
)

// GroupEvent selects which membership transitions a collector observes.
type GroupEvent int

const (
	Added GroupEvent = iota
	Removed
	AddedOrRemoved
)

func (ev GroupEvent) String() string {
	switch ev {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case AddedOrRemoved:
		return "added-or-removed"
	default:
		return fmt.Sprintf("GroupEvent(%d)", int(ev))
	}
}

// Group is a live view of the entities satisfying one matcher. Membership
// is maintained incrementally by the owning context, which feeds every
// component mutation through handleEntity or updateEntity; the group is
// never rebuilt by scanning. Iteration order is insertion order and is
// stable until membership changes.
type Group struct {
	OnEntityAdded   Event[GroupChanged]
	OnEntityRemoved Event[GroupChanged]
	OnEntityUpdated Event[GroupUpdated]

	matcher  Matcher
	log      *zap.Logger
	entities []*Entity
	index    map[*Entity]int
}

func newGroup(m Matcher, log *zap.Logger) *Group {
	return &Group{
		matcher: m,
		log:     log,
		index:   make(map[*Entity]int),
	}
}

// Matcher returns the predicate this group materializes.
func (g *Group) Matcher() Matcher { return g.matcher }

func (g *Group) Count() int { return len(g.entities) }

func (g *Group) Contains(e *Entity) bool {
	_, ok := g.index[e]
	return ok
}

// Entities returns the members in insertion order. The slice is a copy;
// callers may destroy entities while ranging over it.
func (g *Group) Entities() []*Entity {
	out := make([]*Entity, len(g.entities))
	copy(out, g.entities)
	return out
}

// Single returns the sole member, nil if the group is empty, or
// ErrGroupSingleEntity if there is more than one.
func (g *Group) Single() (*Entity, error) {
	switch len(g.entities) {
	case 0:
		return nil, nil
	case 1:
		return g.entities[0], nil
	default:
		return nil, fmt.Errorf("%s has %d entities: %w", g, len(g.entities), ErrGroupSingleEntity)
	}
}

func (g *Group) String() string {
	return fmt.Sprintf("Group(%s)", g.matcher)
}

// handleEntitySilently re-evaluates membership without firing events.
// Used only for backfill when a group is created over existing entities.
func (g *Group) handleEntitySilently(e *Entity) {
	if g.matcher.Matches(e) {
		g.add(e)
	} else {
		g.remove(e)
	}
}

// handleEntity re-evaluates membership after a component add or remove
// and fires entity-added or entity-removed on a transition.
func (g *Group) handleEntity(e *Entity, t *ComponentType, c Component) {
	if g.matcher.Matches(e) {
		if g.add(e) {
			g.OnEntityAdded.publish(g.log, func(l GroupChanged) {
				l.GroupChanged(g, e, t, c)
			})
		}
	} else {
		if g.remove(e) {
			g.OnEntityRemoved.publish(g.log, func(l GroupChanged) {
				l.GroupChanged(g, e, t, c)
			})
		}
	}
}

// updateEntity handles a component swap. A member that stays matching
// gets entity-updated with the old and new instance. Membership is still
// re-evaluated, so a swap that flips matching fires the same added or
// removed transition a separate remove and add would have.
func (g *Group) updateEntity(e *Entity, t *ComponentType, prev, next Component) {
	if g.matcher.Matches(e) {
		if g.add(e) {
			g.OnEntityAdded.publish(g.log, func(l GroupChanged) {
				l.GroupChanged(g, e, t, next)
			})
			return
		}
		g.OnEntityUpdated.publish(g.log, func(l GroupUpdated) {
			l.GroupUpdated(g, e, t, prev, next)
		})
	} else {
		if g.remove(e) {
			g.OnEntityRemoved.publish(g.log, func(l GroupChanged) {
				l.GroupChanged(g, e, t, prev)
			})
		}
	}
}

// add appends e if absent and reports whether membership changed.
func (g *Group) add(e *Entity) bool {
	if _, ok := g.index[e]; ok {
		return false
	}
	g.index[e] = len(g.entities)
	g.entities = append(g.entities, e)
	return true
}

// remove splices e out if present, keeping the order of the remaining
// members, and reports whether membership changed.
func (g *Group) remove(e *Entity) bool {
	i, ok := g.index[e]
	if !ok {
		return false
	}
	delete(g.index, e)
	g.entities = append(g.entities[:i], g.entities[i+1:]...)
	for j := i; j < len(g.entities); j++ {
		g.index[g.entities[j]] = j
	}
	return true
}
