package ecs

import "go.uber.org/zap"

// Listener interfaces for the entity and group notification channels.
// Listeners are registered by identity, so they are normally pointers to
// the observing object. One object may listen on several channels.

// EntityChanged receives component-added and component-removed
// notifications.
type EntityChanged interface {
	EntityChanged(e *Entity, t *ComponentType, c Component)
}

// ComponentReplaced receives component-replaced notifications with the
// previous and the new instance.
type ComponentReplaced interface {
	ComponentReplaced(e *Entity, t *ComponentType, prev, next Component)
}

// GroupChanged receives entity-added and entity-removed notifications
// from a group. The component that caused the membership change is passed
// through.
type GroupChanged interface {
	GroupChanged(g *Group, e *Entity, t *ComponentType, c Component)
}

// GroupUpdated receives entity-updated notifications for a replace that
// kept the entity in the group.
type GroupUpdated interface {
	GroupUpdated(g *Group, e *Entity, t *ComponentType, prev, next Component)
}

// Event is an ordered listener list. Adding a listener that is already
// registered is a no-op, as is removing one that is not. A panicking
// listener is recovered and logged so that the remaining listeners still
// run. The zero value is ready to use.
type Event[L comparable] struct {
	listeners []L
}

// AddListener appends l unless it is already registered.
func (ev *Event[L]) AddListener(l L) {
	for _, cur := range ev.listeners {
		if cur == l {
			return
		}
	}
	ev.listeners = append(ev.listeners, l)
}

// RemoveListener removes l if it is registered.
func (ev *Event[L]) RemoveListener(l L) {
	for i, cur := range ev.listeners {
		if cur == l {
			ev.listeners = append(ev.listeners[:i], ev.listeners[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered listeners.
func (ev *Event[L]) Len() int { return len(ev.listeners) }

// publish calls fire for every listener registered at the time of the
// call. Listeners that register or unregister during dispatch take effect
// from the next publish.
func (ev *Event[L]) publish(log *zap.Logger, fire func(L)) {
	if len(ev.listeners) == 0 {
		return
	}
	snapshot := make([]L, len(ev.listeners))
	copy(snapshot, ev.listeners)
	for _, l := range snapshot {
		safeFire(log, l, fire)
	}
}

func safeFire[L comparable](log *zap.Logger, l L, fire func(L)) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("event listener panicked",
				zap.Any("listener", l),
				zap.Any("panic", r))
		}
	}()
	fire(l)
}
