package events

import "context"

// PublishFunc hands a batch of events to a transport.
type PublishFunc func(ctx context.Context, evts ...DomainEvent) error

// Collector buffers the events an aggregate raises until its use case has
// persisted it. The zero value is ready to use.
type Collector struct {
	pending []DomainEvent
}

// Record buffers one or more events in the order given.
func (c *Collector) Record(evts ...DomainEvent) {
	c.pending = append(c.pending, evts...)
}

// Len reports how many events are buffered.
func (c *Collector) Len() int {
	return len(c.pending)
}

// Drain returns the buffered events and empties the collector.
func (c *Collector) Drain() []DomainEvent {
	out := c.pending
	c.pending = nil
	return out
}

// Flush drains the collector into publish. An empty collector makes no call.
// The batch is dropped whether or not publish succeeds.
func (c *Collector) Flush(ctx context.Context, publish PublishFunc) error {
	evts := c.Drain()
	if len(evts) == 0 {
		return nil
	}
	return publish(ctx, evts...)
}
