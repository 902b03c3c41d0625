package mixer

import (
	"context"
	"sync"
	"time"

	"github.com/guardian/coverdrop-core/clock"
	"github.com/guardian/coverdrop-core/deaddrop"
	"github.com/guardian/coverdrop-core/keys"
	"github.com/guardian/coverdrop-core/protocol"
)

// UserToJournalistPipeline is the U2J/U2C/C2J half of the mixing engine
// (§4.4): decrypts inbound U2C messages addressed to this CoverNode,
// resolves the recipient tag to a journalist messaging key, re-encrypts as
// C2J, buffers under the threshold-or-timeout discipline, and publishes
// signed dead drops.
type UserToJournalistPipeline struct {
	mu         sync.Mutex
	buffer     *Buffer[protocol.EncryptedCoverNodeToJournalistMessage]
	checkpoint *CheckpointStore
	publisher  DeadDropPublisher
	clock      clock.Clock
	backoff    *Backoff
	nextID     int64
}

// NewUserToJournalistPipeline constructs an empty pipeline.
func NewUserToJournalistPipeline(thresholds Thresholds, c clock.Clock, checkpoint *CheckpointStore, publisher DeadDropPublisher) *UserToJournalistPipeline {
	return &UserToJournalistPipeline{
		buffer:     NewBuffer[protocol.EncryptedCoverNodeToJournalistMessage](thresholds, c),
		checkpoint: checkpoint,
		publisher:  publisher,
		clock:      c,
		backoff:    NewBackoff(),
	}
}

// Ingest decrypts one inbound U2C message against own's messaging secret
// keys and, if it carries a routable real recipient tag, re-encrypts it for
// that journalist and buffers it at offset. A message that fails to
// decrypt, or decrypts to the cover sentinel tag, or to an unroutable tag,
// is silently dropped — exactly as indistinguishable from cover as the
// protocol requires (§4.3, §7).
func (p *UserToJournalistPipeline) Ingest(msg protocol.EncryptedUserToCoverNodeMessage, offset int64, own OwnKeys, hierarchy *keys.Hierarchy) error {
	logger := pkgLogger("UserToJournalistPipeline.Ingest")

	decrypted, rank, err := protocol.DecryptUserToCoverNode(msg, own.MessagingSecretKeys)
	if err != nil {
		logger.Debug("U2C message not addressed to this CoverNode")
		return nil
	}
	if decrypted.Tag.IsCover() {
		return nil
	}

	journalistMsgPK, ok := ResolveRecipientTag(hierarchy, decrypted.Tag)
	if !ok {
		logger.Debug("U2C message carried an unroutable recipient tag")
		return nil
	}

	c2j, err := protocol.EncryptCoverNodeToJournalist(own.MessagingSecretKeys[rank], journalistMsgPK, decrypted.Inner)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.buffer.Push(c2j, offset)
	p.mu.Unlock()
	return nil
}

// Tick fires the buffer if ready, signs and publishes the resulting dead
// drop (blocking with exponential back-off until the upstream accepts,
// §4.4), and advances the checkpoint only after a successful publish
// (§4.4 "Checkpoint advancement"). It reports whether a dead drop was
// published this tick.
func (p *UserToJournalistPipeline) Tick(ctx context.Context, now time.Time, own OwnKeys, maxEpoch uint64) (bool, error) {
	p.mu.Lock()
	if !p.buffer.ReadyToFire() {
		p.mu.Unlock()
		return false, nil
	}

	coverSK := own.MessagingSecretKeys[0]
	outputs, maxOffset, err := p.buffer.Fire(func() (protocol.EncryptedCoverNodeToJournalistMessage, error) {
		return protocol.NewRandomEncryptedCoverNodeToJournalistMessage(coverSK)
	})
	p.mu.Unlock()
	if err != nil {
		if err == ErrNoMessagesBuffered {
			return false, nil
		}
		return false, err
	}

	identity, ok := own.LatestValidIdentityKeyPair(now)
	if !ok {
		panic(ErrNoValidIdentityKey)
	}

	messages := make([][]byte, len(outputs))
	for i, o := range outputs {
		messages[i] = o.Bytes()
	}

	id := p.nextID
	p.nextID++

	effectiveMaxEpoch := maxEpoch
	if identity.Epoch > effectiveMaxEpoch {
		effectiveMaxEpoch = identity.Epoch
	}

	drop := deaddrop.SignUserToJournalistDeadDrop(identity.KeyPair.Private, id, now, messages, effectiveMaxEpoch)

	if err := p.publish(ctx, "u2j", drop.ID, drop.Bytes()); err != nil {
		return false, err
	}

	p.checkpoint.Advance(maxOffset)
	return true, nil
}

// publish retries PostDeadDrop with exponential back-off until it succeeds
// or the context is cancelled, never dropping an attempted dead drop
// (§4.4).
func (p *UserToJournalistPipeline) publish(ctx context.Context, direction string, dropID int64, blob []byte) error {
	logger := pkgLogger("UserToJournalistPipeline.publish")

	for {
		err := p.publisher.PostDeadDrop(ctx, SerializedDeadDrop{Direction: direction, Bytes: blob})
		if err == nil {
			p.backoff.Reset()
			return nil
		}
		logger.WithError(err).WithField("dead_drop_id", dropID).Warn("dead drop publish failed, retrying")

		select {
		case <-p.clock.After(p.backoff.Next()):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// JournalistToUserPipeline is the J2U/J2C half of the mixing engine: J2C
// inner ciphertexts are already addressed to a specific user, so the
// CoverNode relays them unmodified into the dead drop rather than
// re-encrypting (§4.3 "Outbound journalist → CoverNode").
type JournalistToUserPipeline struct {
	mu         sync.Mutex
	buffer     *Buffer[protocol.EncryptedJournalistToUserMessage]
	checkpoint *CheckpointStore
	publisher  DeadDropPublisher
	clock      clock.Clock
	backoff    *Backoff
	nextID     int64
}

// NewJournalistToUserPipeline constructs an empty pipeline.
func NewJournalistToUserPipeline(thresholds Thresholds, c clock.Clock, checkpoint *CheckpointStore, publisher DeadDropPublisher) *JournalistToUserPipeline {
	return &JournalistToUserPipeline{
		buffer:     NewBuffer[protocol.EncryptedJournalistToUserMessage](thresholds, c),
		checkpoint: checkpoint,
		publisher:  publisher,
		clock:      c,
		backoff:    NewBackoff(),
	}
}

// Ingest decrypts one inbound J2C message against own's messaging secret
// keys and, if real, buffers its inner J2U ciphertext at offset.
func (p *JournalistToUserPipeline) Ingest(msg protocol.EncryptedJournalistToCoverNodeMessage, offset int64, own OwnKeys) error {
	decrypted, _, err := protocol.DecryptJournalistToCoverNode(msg, own.MessagingSecretKeys)
	if err != nil {
		return nil
	}
	if !decrypted.IsReal {
		return nil
	}

	p.mu.Lock()
	p.buffer.Push(decrypted.Inner, offset)
	p.mu.Unlock()
	return nil
}

// Tick mirrors UserToJournalistPipeline.Tick for the reverse direction.
func (p *JournalistToUserPipeline) Tick(ctx context.Context, now time.Time, own OwnKeys, maxEpoch uint64) (bool, error) {
	p.mu.Lock()
	if !p.buffer.ReadyToFire() {
		p.mu.Unlock()
		return false, nil
	}

	outputs, maxOffset, err := p.buffer.Fire(func() (protocol.EncryptedJournalistToUserMessage, error) {
		return protocol.NewRandomEncryptedJournalistToUserMessage()
	})
	p.mu.Unlock()
	if err != nil {
		if err == ErrNoMessagesBuffered {
			return false, nil
		}
		return false, err
	}

	identity, ok := own.LatestValidIdentityKeyPair(now)
	if !ok {
		panic(ErrNoValidIdentityKey)
	}

	messages := make([][]byte, len(outputs))
	for i, o := range outputs {
		messages[i] = o.Bytes()
	}

	id := p.nextID
	p.nextID++

	effectiveMaxEpoch := maxEpoch
	if identity.Epoch > effectiveMaxEpoch {
		effectiveMaxEpoch = identity.Epoch
	}

	drop := deaddrop.SignJournalistToUserDeadDrop(identity.KeyPair.Private, id, now, messages, effectiveMaxEpoch)

	if err := p.publish(ctx, "j2u", drop.ID, drop.Bytes()); err != nil {
		return false, err
	}

	p.checkpoint.Advance(maxOffset)
	return true, nil
}

func (p *JournalistToUserPipeline) publish(ctx context.Context, direction string, dropID int64, blob []byte) error {
	logger := pkgLogger("JournalistToUserPipeline.publish")

	for {
		err := p.publisher.PostDeadDrop(ctx, SerializedDeadDrop{Direction: direction, Bytes: blob})
		if err == nil {
			p.backoff.Reset()
			return nil
		}
		logger.WithError(err).WithField("dead_drop_id", dropID).Warn("dead drop publish failed, retrying")

		select {
		case <-p.clock.After(p.backoff.Next()):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
