package protocol

import (
	"errors"

	"github.com/guardian/coverdrop-core/crypto"
)

// ErrDecryptFailed is returned whenever any layer of this package fails to
// decrypt or parse a message. It never carries the underlying cause, the
// plaintext, or any length information, so a failed decryption attempt
// cannot be distinguished from "not addressed to me" (§7).
var ErrDecryptFailed = errors.New("protocol: decryption failed")

// rawPayload lets already-serialized bytes (an inner box's own wire
// encoding) be carried as the plaintext of an outer box without a second
// round of structured (de)serialization.
type rawPayload []byte

func (p rawPayload) MarshalBinary() ([]byte, error) { return []byte(p), nil }

func unmarshalRaw(b []byte) (rawPayload, error) { return rawPayload(b), nil }

// u2cPlaintext is recipient_tag(4) ‖ U2J ciphertext, the payload CoverNode
// MultiAnonymousBox wrapping encrypts (§4.3 "Outbound user → CoverNode").
type u2cPlaintext struct {
	Tag   RecipientTag
	Inner EncryptedUserToJournalistMessage
}

func (p u2cPlaintext) MarshalBinary() ([]byte, error) {
	inner := p.Inner.Bytes()
	out := make([]byte, 0, RecipientTagLen+len(inner))
	out = append(out, p.Tag[:]...)
	out = append(out, inner...)
	return out, nil
}

func unmarshalU2CPlaintext(data []byte) (u2cPlaintext, error) {
	if len(data) != U2CPlaintextLen {
		return u2cPlaintext{}, errors.New("protocol: malformed U2C plaintext length")
	}
	var tag RecipientTag
	copy(tag[:], data[:RecipientTagLen])
	inner, err := crypto.AnonymousBoxFromBytes(data[RecipientTagLen:])
	if err != nil {
		return u2cPlaintext{}, err
	}
	return u2cPlaintext{Tag: tag, Inner: inner}, nil
}

// EncryptedUserToCoverNodeMessage is the U2C outer layer: a
// MultiAnonymousBox addressed to every CoverNode messaging key.
type EncryptedUserToCoverNodeMessage = crypto.MultiAnonymousBox

// EncryptUserToCoverNode builds the full U2C layer for a real message:
// inner U2J ciphertext plus recipient tag, wrapped to every covernodeMsgPKs
// slot. covernodeMsgPKs must already be padded to CoverNodeWrappingKeyCount
// entries (see PadCoverNodeKeys).
func EncryptUserToCoverNode(covernodeMsgPKs [][32]byte, tag RecipientTag, inner EncryptedUserToJournalistMessage) (EncryptedUserToCoverNodeMessage, error) {
	return crypto.SealMultiAnonymous(covernodeMsgPKs, u2cPlaintext{Tag: tag, Inner: inner})
}

// NewRandomEncryptedUserToCoverNodeMessage produces a full cover U2C
// message: a fresh cover U2J inner layer, the reserved cover sentinel tag,
// wrapped to the real CoverNode keys so it is bit-wise indistinguishable
// from genuine traffic at every layer (§4.3 "Cover generation (user)").
func NewRandomEncryptedUserToCoverNodeMessage(covernodeMsgPKs [][32]byte) (EncryptedUserToCoverNodeMessage, error) {
	inner, err := NewRandomEncryptedUserToJournalistMessage()
	if err != nil {
		return EncryptedUserToCoverNodeMessage{}, err
	}
	return EncryptUserToCoverNode(covernodeMsgPKs, RecipientTagForCover, inner)
}

// PadCoverNodeKeys returns exactly CoverNodeWrappingKeyCount keys, padding
// by repeating the first key when fewer real CoverNode keys are known
// (§4.1 "MultiAnonymousBox").
func PadCoverNodeKeys(keys [][32]byte) ([][32]byte, error) {
	if len(keys) == 0 {
		return nil, errors.New("protocol: no CoverNode messaging keys available")
	}
	out := make([][32]byte, CoverNodeWrappingKeyCount)
	for i := range out {
		if i < len(keys) {
			out[i] = keys[i]
		} else {
			out[i] = keys[0]
		}
	}
	return out, nil
}

// DecryptedU2C is the result of successfully opening a U2C message: the
// recipient tag (possibly the cover sentinel) and the still-sealed U2J
// inner layer.
type DecryptedU2C struct {
	Tag   RecipientTag
	Inner EncryptedUserToJournalistMessage
}

// DecryptUserToCoverNode tries every candidate CoverNode messaging secret
// key (latest first is the caller's responsibility) against every wrapped
// slot, returning the first success along with the rank of the key that
// worked (0 = first candidate), for staleness metrics (§4.4 "Decryption
// worker").
func DecryptUserToCoverNode(msg EncryptedUserToCoverNodeMessage, covernodeMsgSKCandidates [][32]byte) (DecryptedU2C, int, error) {
	for rank, sk := range covernodeMsgSKCandidates {
		plain, _, err := crypto.OpenMultiAnonymousAnySlot(msg, sk, unmarshalU2CPlaintext)
		if err == nil {
			return DecryptedU2C{Tag: plain.Tag, Inner: plain.Inner}, rank, nil
		}
	}
	return DecryptedU2C{}, -1, ErrDecryptFailed
}

// EncryptedCoverNodeToJournalistMessage is the C2J outer layer: a
// TwoPartyBox from the CoverNode's messaging key to a journalist's
// messaging key, wrapping the still-sealed U2J inner ciphertext.
type EncryptedCoverNodeToJournalistMessage = crypto.TwoPartyBox

// EncryptCoverNodeToJournalist relays a decrypted U2C's inner U2J layer to
// the tagged journalist, signed for authenticity by the CoverNode's own
// messaging key (§4.3 "CoverNode → journalist").
func EncryptCoverNodeToJournalist(covernodeMsgSK [32]byte, journalistMsgPK [32]byte, inner EncryptedUserToJournalistMessage) (EncryptedCoverNodeToJournalistMessage, error) {
	return crypto.SealTwoParty(journalistMsgPK, covernodeMsgSK, rawPayload(inner.Bytes()))
}

// NewRandomEncryptedCoverNodeToJournalistMessage synthesises a C2J cover
// message for an unrouteable (sentinel-tagged, or unknown-tag) U2C
// message: a fresh ephemeral recipient key pair is generated and
// immediately discarded, matching the real branch's wire size exactly
// because the payload is itself a freshly generated cover U2J ciphertext.
func NewRandomEncryptedCoverNodeToJournalistMessage(covernodeMsgSK [32]byte) (EncryptedCoverNodeToJournalistMessage, error) {
	ephemeralRecipient, err := crypto.GenerateEncryptionKeyPair()
	if err != nil {
		return EncryptedCoverNodeToJournalistMessage{}, err
	}
	inner, err := NewRandomEncryptedUserToJournalistMessage()
	if err != nil {
		return EncryptedCoverNodeToJournalistMessage{}, err
	}
	return crypto.SealTwoParty(ephemeralRecipient.Public, covernodeMsgSK, rawPayload(inner.Bytes()))
}

// DecryptCoverNodeToJournalistOuter opens the C2J outer layer against
// covernodeMsgPK/journalistMsgSK and returns the still-sealed U2J inner
// ciphertext.
func DecryptCoverNodeToJournalistOuter(msg EncryptedCoverNodeToJournalistMessage, covernodeMsgPK [32]byte, journalistMsgSK [32]byte) (EncryptedUserToJournalistMessage, error) {
	raw, err := crypto.OpenTwoParty(msg, covernodeMsgPK, journalistMsgSK, unmarshalRaw)
	if err != nil {
		return EncryptedUserToJournalistMessage{}, ErrDecryptFailed
	}
	inner, err := crypto.AnonymousBoxFromBytes(raw)
	if err != nil {
		return EncryptedUserToJournalistMessage{}, ErrDecryptFailed
	}
	return inner, nil
}

// UserToJournalistMessageWithDeadDropID pairs a decrypted message with the
// dead drop it was recovered from, so the journalist client can acknowledge
// up to that point.
type UserToJournalistMessageWithDeadDropID struct {
	Message    UserToJournalistMessage
	DeadDropID int64
}

// DecryptJournalistDeadDropMessage tries the full cartesian product of
// covernodeMsgPKs x journalistMsgSKs for the outer C2J layer, then every
// journalistMsgSK again for the inner U2J layer, because in-flight key
// rotation can mean the inner and outer layers were encrypted to different
// messaging key generations (§4.3 "Decryption contract (journalist side)",
// scenario E3).
func DecryptJournalistDeadDropMessage(
	covernodeMsgPKs [][32]byte,
	journalistMsgSKs [][32]byte,
	msg EncryptedCoverNodeToJournalistMessage,
	deadDropID int64,
) (UserToJournalistMessageWithDeadDropID, error) {
	var inner EncryptedUserToJournalistMessage
	found := false

outer:
	for _, covernodeMsgPK := range covernodeMsgPKs {
		for _, journalistMsgSK := range journalistMsgSKs {
			var err error
			inner, err = DecryptCoverNodeToJournalistOuter(msg, covernodeMsgPK, journalistMsgSK)
			if err == nil {
				found = true
				break outer
			}
		}
	}
	if !found {
		return UserToJournalistMessageWithDeadDropID{}, ErrDecryptFailed
	}

	for _, journalistMsgSK := range journalistMsgSKs {
		plain, err := DecryptUserToJournalist(inner, journalistMsgSK)
		if err == nil {
			return UserToJournalistMessageWithDeadDropID{Message: plain, DeadDropID: deadDropID}, nil
		}
	}

	return UserToJournalistMessageWithDeadDropID{}, ErrDecryptFailed
}
