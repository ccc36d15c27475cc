package compiler

import "sync/atomic"

// Publisher holds the current snapshot and swaps it atomically on rebuild.
// Readers that loaded the previous generation keep resolving against it
// unharmed; there is no locking on the read path.
type Publisher struct {
	current atomic.Pointer[Snapshot]
}

// NewPublisher creates a publisher, optionally seeded with a first snapshot.
func NewPublisher(initial *Snapshot) *Publisher {
	p := &Publisher{}
	if initial != nil {
		p.current.Store(initial)
	}
	return p
}

// Publish installs a new snapshot as the current generation.
func (p *Publisher) Publish(s *Snapshot) {
	p.current.Store(s)
}

// Current returns the current snapshot, or nil before the first publish.
func (p *Publisher) Current() *Snapshot {
	return p.current.Load()
}
