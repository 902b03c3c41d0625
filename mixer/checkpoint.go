package mixer

import "sync"

// CheckpointStore tracks the highest ingest offset the mixer has durably
// committed, i.e. the highest offset covered by a dead drop that has been
// successfully published (§4.4 "Checkpoint advancement"). A production
// deployment backs this with Kinesis shard checkpoints; this in-memory
// implementation carries the advancement rule itself, which is core.
type CheckpointStore struct {
	mu       sync.Mutex
	advanced int64
	hasValue bool
}

// NewCheckpointStore returns an empty store (no checkpoint committed yet).
func NewCheckpointStore() *CheckpointStore {
	return &CheckpointStore{}
}

// Advance commits offset as the new checkpoint if it is higher than the
// current one. Advancing backwards is a no-op: checkpoints only move
// forward.
func (c *CheckpointStore) Advance(offset int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasValue || offset > c.advanced {
		c.advanced = offset
		c.hasValue = true
	}
}

// Value returns the current checkpoint and whether one has ever been set.
func (c *CheckpointStore) Value() (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.advanced, c.hasValue
}
