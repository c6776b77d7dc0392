package animation

import "sync/atomic"

// TriggerCounter is the replay control. Bump may be called from any goroutine
// (an input handler, an HTTP hook); the orchestrator polls Value once per frame.
type TriggerCounter struct {
	n atomic.Uint64
}

// Bump requests a replay and returns the new value.
func (c *TriggerCounter) Bump() uint64 {
	return c.n.Add(1)
}

// Value returns the current count. It never decreases.
func (c *TriggerCounter) Value() uint64 {
	return c.n.Load()
}
