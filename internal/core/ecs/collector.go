package ecs

import "fmt"

type collectorEntry struct {
	group *Group
	event GroupEvent
}

// Collector accumulates entities that triggered subscribed group events
// since the last drain. One collector may observe several groups, each
// with its own event kind; an entity appears in the pending set at most
// once no matter how many events it fired.
type Collector struct {
	entries    []collectorEntry
	pending    []*Entity
	pendingSet map[*Entity]struct{}
}

func NewCollector() *Collector {
	return &Collector{pendingSet: make(map[*Entity]struct{})}
}

// Add registers interest in one group's transitions. Adding the same
// group again overwrites the event kind. Call before Activate.
func (c *Collector) Add(g *Group, ev GroupEvent) {
	for i, entry := range c.entries {
		if entry.group == g {
			c.entries[i].event = ev
			return
		}
	}
	c.entries = append(c.entries, collectorEntry{group: g, event: ev})
}

// Activate subscribes to the registered groups. Activating an already
// active collector is a no-op; listener registration deduplicates.
func (c *Collector) Activate() {
	for _, entry := range c.entries {
		switch entry.event {
		case Added:
			entry.group.OnEntityAdded.AddListener(c)
		case Removed:
			entry.group.OnEntityRemoved.AddListener(c)
		case AddedOrRemoved:
			entry.group.OnEntityAdded.AddListener(c)
			entry.group.OnEntityRemoved.AddListener(c)
		}
	}
}

// Deactivate unsubscribes from all groups and clears the pending set.
func (c *Collector) Deactivate() {
	for _, entry := range c.entries {
		entry.group.OnEntityAdded.RemoveListener(c)
		entry.group.OnEntityRemoved.RemoveListener(c)
	}
	c.ClearCollectedEntities()
}

// Entities returns the pending entities in the order first collected.
func (c *Collector) Entities() []*Entity {
	out := make([]*Entity, len(c.pending))
	copy(out, c.pending)
	return out
}

// Collected reports whether anything is pending.
func (c *Collector) Collected() bool { return len(c.pending) > 0 }

// ClearCollectedEntities empties the pending set without unsubscribing.
func (c *Collector) ClearCollectedEntities() {
	c.pending = c.pending[:0]
	clear(c.pendingSet)
}

func (c *Collector) String() string {
	return fmt.Sprintf("Collector(%d groups, %d pending)", len(c.entries), len(c.pending))
}

// GroupChanged records the entity that fired a subscribed transition. The
// component payload is irrelevant here; consumers only need to know which
// entities changed.
func (c *Collector) GroupChanged(_ *Group, e *Entity, _ *ComponentType, _ Component) {
	if _, ok := c.pendingSet[e]; ok {
		return
	}
	c.pendingSet[e] = struct{}{}
	c.pending = append(c.pending, e)
}
