package curator

import (
	"github.com/GriffinCanCode/appcurator/internal/shared/id"
)

// EventType names a curator notification
type EventType string

const (
	EventViewsUpdated   EventType = "views_updated"
	EventCatalogEmpty   EventType = "catalog_empty"
	EventCurationFailed EventType = "curation_failed"
)

// Event is a one-way notification sent to subscribers after a pass
type Event struct {
	Type          EventType
	PassID        id.PassID
	Views         *ViewSet // set for EventViewsUpdated
	HostRefreshed bool     // set for EventCatalogEmpty
	Err           error    // set for EventCurationFailed
}

// Subscribe registers fn for every subsequent event and returns a function
// that removes it. Events arrive in pass order. fn must not start a pass
// synchronously.
func (c *Curator) Subscribe(fn func(Event)) (unsubscribe func()) {
	c.subMu.Lock()
	key := c.nextSub
	c.nextSub++
	c.subscribers[key] = fn
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		delete(c.subscribers, key)
		c.subMu.Unlock()
	}
}

// publish must be called with c.mu held. It releases c.mu and delivers ev
// while holding notifyMu, so the next pass can run but its events queue
// behind this one.
func (c *Curator) publish(ev Event) {
	c.notifyMu.Lock()
	c.mu.Unlock()
	defer c.notifyMu.Unlock()

	c.subMu.RLock()
	subs := make([]func(Event), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	c.subMu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}
}
