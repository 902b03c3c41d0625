package deaddrop

import (
	"crypto/ed25519"
	"encoding/binary"
	"time"

	"github.com/guardian/coverdrop-core/crypto"
)

// signedMessagesV1 is the V1 signing payload, identical across directions:
// serialized_messages ‖ max_epoch (§4.4 "Signing").
type signedMessagesV1 struct {
	Blob     []byte
	MaxEpoch uint64
}

func (d signedMessagesV1) AsSignableBytes() []byte {
	out := make([]byte, len(d.Blob)+8)
	copy(out, d.Blob)
	binary.BigEndian.PutUint64(out[len(d.Blob):], d.MaxEpoch)
	return out
}

// signedMessagesV2WithEpoch is the U2J V2 signing payload:
// serialized_messages ‖ created_at ‖ max_epoch.
type signedMessagesV2WithEpoch struct {
	Blob      []byte
	CreatedAt time.Time
	MaxEpoch  uint64
}

func (d signedMessagesV2WithEpoch) AsSignableBytes() []byte {
	out := make([]byte, len(d.Blob)+8+8)
	copy(out, d.Blob)
	binary.BigEndian.PutUint64(out[len(d.Blob):], uint64(d.CreatedAt.Unix()))
	binary.BigEndian.PutUint64(out[len(d.Blob)+8:], d.MaxEpoch)
	return out
}

// signedMessagesV2NoEpoch is the J2U V2 signing payload:
// serialized_messages ‖ created_at.
type signedMessagesV2NoEpoch struct {
	Blob      []byte
	CreatedAt time.Time
}

func (d signedMessagesV2NoEpoch) AsSignableBytes() []byte {
	out := make([]byte, len(d.Blob)+8)
	copy(out, d.Blob)
	binary.BigEndian.PutUint64(out[len(d.Blob):], uint64(d.CreatedAt.Unix()))
	return out
}

// UserToJournalistDeadDrop is the dead drop journalists poll: a batch of
// serialized EncryptedCoverNodeToJournalistMessage entries signed by the
// CoverNode's identity key, carrying an epoch witness (§3.7) so journalists
// can detect a stale hierarchy view before trusting it.
type UserToJournalistDeadDrop struct {
	ID           int64
	CreatedAt    time.Time
	Messages     [][]byte
	EpochWitness uint64
	SigV1        crypto.Signature[signedMessagesV1]
	SigV2        crypto.Signature[signedMessagesV2WithEpoch]
}

// SignUserToJournalistDeadDrop builds and signs a new dead drop with both
// the V1 and V2 signatures, maxEpoch being max(encryption-layer max epoch,
// identity key epoch) per §4.4.
func SignUserToJournalistDeadDrop(identitySK ed25519.PrivateKey, id int64, createdAt time.Time, messages [][]byte, maxEpoch uint64) UserToJournalistDeadDrop {
	blob := serializeMessages(messages)

	v1 := crypto.Sign(identitySK, signedMessagesV1{Blob: blob, MaxEpoch: maxEpoch})
	v2 := crypto.Sign(identitySK, signedMessagesV2WithEpoch{Blob: blob, CreatedAt: createdAt, MaxEpoch: maxEpoch})

	return UserToJournalistDeadDrop{
		ID:           id,
		CreatedAt:    createdAt,
		Messages:     messages,
		EpochWitness: maxEpoch,
		SigV1:        v1,
		SigV2:        v2,
	}
}

// VerifyV1 checks the dead drop's V1 signature against the CoverNode
// identity public key.
func (d UserToJournalistDeadDrop) VerifyV1(covernodeIdentityPK ed25519.PublicKey) error {
	blob := serializeMessages(d.Messages)
	return d.SigV1.Verify(covernodeIdentityPK, signedMessagesV1{Blob: blob, MaxEpoch: d.EpochWitness})
}

// VerifyV2 checks the dead drop's V2 signature against the CoverNode
// identity public key.
func (d UserToJournalistDeadDrop) VerifyV2(covernodeIdentityPK ed25519.PublicKey) error {
	blob := serializeMessages(d.Messages)
	return d.SigV2.Verify(covernodeIdentityPK, signedMessagesV2WithEpoch{Blob: blob, CreatedAt: d.CreatedAt, MaxEpoch: d.EpochWitness})
}

// Bytes serializes the full dead drop (id, created_at, epoch witness,
// messages, both signatures) to the wire representation a publisher sends
// upstream. The concrete wire schema is otherwise out of scope (§1): this
// is the one representation this module needs internally to hand a
// complete dead drop to a DeadDropPublisher.
func (d UserToJournalistDeadDrop) Bytes() []byte {
	var header [24]byte
	binary.BigEndian.PutUint64(header[0:8], uint64(d.ID))
	binary.BigEndian.PutUint64(header[8:16], uint64(d.CreatedAt.Unix()))
	binary.BigEndian.PutUint64(header[16:24], d.EpochWitness)

	v1 := d.SigV1.Bytes()
	v2 := d.SigV2.Bytes()

	out := make([]byte, 0, len(header)+len(v1)+len(v2)+len(serializeMessages(d.Messages)))
	out = append(out, header[:]...)
	out = append(out, v1[:]...)
	out = append(out, v2[:]...)
	out = append(out, serializeMessages(d.Messages)...)
	return out
}

// JournalistToUserDeadDrop is the dead drop users poll: a batch of
// serialized EncryptedJournalistToUserMessage entries signed by the
// CoverNode's identity key. Unlike the U2J direction it carries no epoch
// witness (§3.7): users verify replies against keys they already hold from
// the conversation's start, not a freshly fetched hierarchy.
type JournalistToUserDeadDrop struct {
	ID        int64
	CreatedAt time.Time
	Messages  [][]byte
	SigV1     crypto.Signature[signedMessagesV1]
	SigV2     crypto.Signature[signedMessagesV2NoEpoch]
}

// SignJournalistToUserDeadDrop builds and signs a new dead drop. The V1
// signature still folds in maxEpoch (§4.4 "V1 certificate: over
// serialized_messages ‖ max_epoch" applies uniformly to both directions)
// even though the dead drop's own epoch_witness field is U2J-only.
func SignJournalistToUserDeadDrop(identitySK ed25519.PrivateKey, id int64, createdAt time.Time, messages [][]byte, maxEpoch uint64) JournalistToUserDeadDrop {
	blob := serializeMessages(messages)

	v1 := crypto.Sign(identitySK, signedMessagesV1{Blob: blob, MaxEpoch: maxEpoch})
	v2 := crypto.Sign(identitySK, signedMessagesV2NoEpoch{Blob: blob, CreatedAt: createdAt})

	return JournalistToUserDeadDrop{
		ID:        id,
		CreatedAt: createdAt,
		Messages:  messages,
		SigV1:     v1,
		SigV2:     v2,
	}
}

// VerifyV1 checks the dead drop's V1 signature. maxEpoch must be supplied
// by the caller (e.g. from the current hierarchy's MaxEpoch, or the
// CoverNode identity key's own epoch) since this direction's dead drop does
// not carry it.
func (d JournalistToUserDeadDrop) VerifyV1(covernodeIdentityPK ed25519.PublicKey, maxEpoch uint64) error {
	blob := serializeMessages(d.Messages)
	return d.SigV1.Verify(covernodeIdentityPK, signedMessagesV1{Blob: blob, MaxEpoch: maxEpoch})
}

// VerifyV2 checks the dead drop's V2 signature against the CoverNode
// identity public key.
func (d JournalistToUserDeadDrop) VerifyV2(covernodeIdentityPK ed25519.PublicKey) error {
	blob := serializeMessages(d.Messages)
	return d.SigV2.Verify(covernodeIdentityPK, signedMessagesV2NoEpoch{Blob: blob, CreatedAt: d.CreatedAt})
}

// Bytes serializes the full dead drop (id, created_at, messages, both
// signatures) to the wire representation a publisher sends upstream. Unlike
// UserToJournalistDeadDrop.Bytes, there is no epoch witness field to fold
// in.
func (d JournalistToUserDeadDrop) Bytes() []byte {
	var header [16]byte
	binary.BigEndian.PutUint64(header[0:8], uint64(d.ID))
	binary.BigEndian.PutUint64(header[8:16], uint64(d.CreatedAt.Unix()))

	v1 := d.SigV1.Bytes()
	v2 := d.SigV2.Bytes()

	out := make([]byte, 0, len(header)+len(v1)+len(v2)+len(serializeMessages(d.Messages)))
	out = append(out, header[:]...)
	out = append(out, v1[:]...)
	out = append(out, v2[:]...)
	out = append(out, serializeMessages(d.Messages)...)
	return out
}
