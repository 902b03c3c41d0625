package mixer

import (
	"context"
	"errors"
	"sync"
)

// SerializedDeadDrop is the wire-ready bytes of a signed dead drop, ready
// for the (out-of-scope) HTTP/Kinesis publish call.
type SerializedDeadDrop struct {
	Direction string
	Bytes     []byte
}

// DeadDropPublisher is the mixer's upstream: posting a dead drop to the
// central API. The concrete HTTP/Kinesis client is out of scope (§1); this
// interface is what the publish-retry loop depends on.
type DeadDropPublisher interface {
	PostDeadDrop(ctx context.Context, drop SerializedDeadDrop) error
}

// FakePublisher is an in-memory DeadDropPublisher for tests: it can be
// configured to fail a fixed number of times before succeeding, so tests
// can exercise the back-off and checkpoint-safety behaviour (§8 testable
// property 11, scenario E5) without a real upstream.
type FakePublisher struct {
	mu           sync.Mutex
	failuresLeft int
	posted       []SerializedDeadDrop
}

// NewFakePublisher returns a publisher that fails the first failures calls
// to PostDeadDrop before accepting every call after that.
func NewFakePublisher(failures int) *FakePublisher {
	return &FakePublisher{failuresLeft: failures}
}

// ErrFakePublishFailure is returned by FakePublisher while it is configured
// to fail.
var ErrFakePublishFailure = errors.New("mixer: simulated publish failure")

// PostDeadDrop implements DeadDropPublisher.
func (f *FakePublisher) PostDeadDrop(_ context.Context, drop SerializedDeadDrop) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failuresLeft > 0 {
		f.failuresLeft--
		return ErrFakePublishFailure
	}
	f.posted = append(f.posted, drop)
	return nil
}

// Posted returns every dead drop PostDeadDrop has accepted, in order.
func (f *FakePublisher) Posted() []SerializedDeadDrop {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]SerializedDeadDrop(nil), f.posted...)
}
