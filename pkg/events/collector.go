package events

// Collector accumulates domain events while an operation runs so they can be
// published together once it finishes.
type Collector struct {
	events []DomainEvent
}

// Record appends a domain event to the collector.
func (c *Collector) Record(event DomainEvent) {
	c.events = append(c.events, event)
}

// Events returns the collected domain events without clearing them.
func (c *Collector) Events() []DomainEvent {
	return c.events
}

// Drain returns the collected domain events and clears the collector.
func (c *Collector) Drain() []DomainEvent {
	collected := c.events
	c.events = nil
	return collected
}
