// Package selection holds the single "currently selected earthquake" shared by
// the map, list and detail views.
package selection

import "sync"

// Event is delivered to observers on every selection change.
// An empty ID with Cleared set means nothing is selected.
type Event struct {
	ID      string
	Cleared bool
	Repeat  bool // the id was already selected; views should re-focus
}

// Observer receives selection events. It is called synchronously and must not
// call back into the Coordinator.
type Observer func(Event)

// Coordinator tracks the selected earthquake id. Safe for concurrent use.
type Coordinator struct {
	mu        sync.Mutex
	current   string
	selected  bool
	nextID    int
	observers map[int]Observer
}

// New creates a Coordinator with nothing selected
func New() *Coordinator {
	return &Coordinator{observers: make(map[int]Observer)}
}

// Select makes id current and notifies every observer, even when id is
// already selected.
func (c *Coordinator) Select(id string) Event {
	c.mu.Lock()
	ev := Event{ID: id, Repeat: c.selected && c.current == id}
	c.current = id
	c.selected = true
	observers := c.snapshot()
	c.mu.Unlock()

	notify(observers, ev)
	return ev
}

// Clear drops the selection. Observers are notified only if something was selected.
func (c *Coordinator) Clear() {
	c.mu.Lock()
	if !c.selected {
		c.mu.Unlock()
		return
	}
	c.current = ""
	c.selected = false
	observers := c.snapshot()
	c.mu.Unlock()

	notify(observers, Event{Cleared: true})
}

// Current returns the selected id, if any
func (c *Coordinator) Current() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, c.selected
}

// Subscribe registers an observer and returns a function that removes it
func (c *Coordinator) Subscribe(o Observer) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.observers[id] = o

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.observers, id)
			c.mu.Unlock()
		})
	}
}

// Channel subscribes an observer that forwards events to a buffered channel.
// Events are dropped when the buffer is full. The returned function
// unsubscribes; the channel is never closed.
func (c *Coordinator) Channel(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)
	unsubscribe := c.Subscribe(func(ev Event) {
		select {
		case ch <- ev:
		default:
		}
	})
	return ch, unsubscribe
}

// snapshot copies the observer set; caller holds mu
func (c *Coordinator) snapshot() []Observer {
	out := make([]Observer, 0, len(c.observers))
	for i := 0; i < c.nextID; i++ {
		if o, ok := c.observers[i]; ok {
			out = append(out, o)
		}
	}
	return out
}

func notify(observers []Observer, ev Event) {
	for _, o := range observers {
		o(ev)
	}
}
