package event

import (
	"reflect"
	"sync"
)

// Bus is the double-buffered feed bus between game systems and the match
// transcript. Systems emit feed events while a pipeline runs; the match
// loop rotates the buffers between pipeline steps and dispatches the
// previous step's events to subscribers. Events emitted during step N are
// therefore delivered at the start of step N+1, after the entity state
// they describe has settled. Delivery preserves emission order across
// event types.
type Bus struct {
	mu       sync.Mutex // protects handler registration only
	front    []any
	back     []any
	handlers map[reflect.Type][]any
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[reflect.Type][]any)}
}

// Emit queues a feed event into the back buffer. Emission happens on the
// match goroutine; it is not safe for concurrent use.
func Emit[T any](b *Bus, ev T) {
	b.back = append(b.back, ev)
}

// Subscribe registers a typed handler for events of type T. Handlers run
// on the match goroutine during DispatchAll, in subscription order.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.handlers[t] = append(b.handlers[t], fn)
}

// SwapBuffers rotates back to front and clears the new back buffer.
// Called once per pipeline step before DispatchAll.
func (b *Bus) SwapBuffers() {
	b.front, b.back = b.back, b.front[:0]
}

// DispatchAll delivers every front-buffer event to its subscribed
// handlers, in emission order.
func (b *Bus) DispatchAll() {
	for _, ev := range b.front {
		for _, h := range b.handlers[reflect.TypeOf(ev)] {
			// Subscribe and Emit key on the same type, so the assertion
			// inside the call cannot fail.
			callHandler(h, ev)
		}
	}
}

func callHandler(handler any, ev any) {
	reflect.ValueOf(handler).Call([]reflect.Value{reflect.ValueOf(ev)})
}
