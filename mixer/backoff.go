package mixer

import "time"

const (
	backoffBase = 1 * time.Second
	backoffCap  = 60 * time.Second
)

// Backoff is the publisher's retry schedule: exponential growth from a 1s
// base to a 60s cap, generalising the teacher's async.RetrievalScheduler
// interval-growth shape (consecutive-failure multiplier, clamped) to the
// publish-retry loop (§4.4 "Publishing continues with exponential
// back-off... until the upstream accepts").
type Backoff struct {
	attempt int
}

// NewBackoff returns a Backoff at its first attempt.
func NewBackoff() *Backoff {
	return &Backoff{}
}

// Next returns the delay to wait before the next attempt and advances the
// internal attempt counter. The first call returns backoffBase.
func (b *Backoff) Next() time.Duration {
	shift := b.attempt
	if shift > 6 { // backoffBase<<6 already exceeds backoffCap
		shift = 6
	}
	delay := backoffBase << shift
	if delay > backoffCap {
		delay = backoffCap
	}
	b.attempt++
	return delay
}

// Reset returns the schedule to its initial state, called after a
// successful publish.
func (b *Backoff) Reset() {
	b.attempt = 0
}
