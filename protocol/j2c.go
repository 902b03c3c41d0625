package protocol

import (
	"errors"

	"github.com/guardian/coverdrop-core/crypto"
)

// realOrCoverTag marks a J2C slot as carrying a real J2U message or cover
// filler, so the CoverNode can classify it without any routing decision
// (unlike U2C, J2U traffic needs no per-journalist tag: it is already
// addressed to a specific user).
type realOrCoverTag byte

const (
	realOrCoverTagReal  realOrCoverTag = 0x01
	realOrCoverTagCover realOrCoverTag = 0x02
)

// j2cPlaintext is real_or_cover_tag(1) ‖ J2U ciphertext (§4.3 "Outbound
// journalist → CoverNode").
type j2cPlaintext struct {
	Tag   realOrCoverTag
	Inner EncryptedJournalistToUserMessage
}

func (p j2cPlaintext) MarshalBinary() ([]byte, error) {
	inner := p.Inner.Bytes()
	out := make([]byte, 0, 1+len(inner))
	out = append(out, byte(p.Tag))
	out = append(out, inner...)
	return out, nil
}

func unmarshalJ2CPlaintext(data []byte) (j2cPlaintext, error) {
	if len(data) != J2CPlaintextLen {
		return j2cPlaintext{}, errors.New("protocol: malformed J2C plaintext length")
	}
	inner, err := crypto.TwoPartyBoxFromBytes(data[1:])
	if err != nil {
		return j2cPlaintext{}, err
	}
	return j2cPlaintext{Tag: realOrCoverTag(data[0]), Inner: inner}, nil
}

// EncryptedJournalistToCoverNodeMessage is the J2C outer layer: a
// MultiAnonymousBox addressed to every CoverNode messaging key.
type EncryptedJournalistToCoverNodeMessage = crypto.MultiAnonymousBox

// EncryptJournalistToCoverNodeReal wraps a real J2U ciphertext for
// submission to the CoverNode's threshold mixer.
func EncryptJournalistToCoverNodeReal(covernodeMsgPKs [][32]byte, inner EncryptedJournalistToUserMessage) (EncryptedJournalistToCoverNodeMessage, error) {
	return crypto.SealMultiAnonymous(covernodeMsgPKs, j2cPlaintext{Tag: realOrCoverTagReal, Inner: inner})
}

// NewRandomEncryptedJournalistToCoverNodeMessage produces a full cover J2C
// message: a fresh cover J2U inner layer tagged as cover, wrapped to the
// real CoverNode keys.
func NewRandomEncryptedJournalistToCoverNodeMessage(covernodeMsgPKs [][32]byte) (EncryptedJournalistToCoverNodeMessage, error) {
	inner, err := NewRandomEncryptedJournalistToUserMessage()
	if err != nil {
		return EncryptedJournalistToCoverNodeMessage{}, err
	}
	return crypto.SealMultiAnonymous(covernodeMsgPKs, j2cPlaintext{Tag: realOrCoverTagCover, Inner: inner})
}

// DecryptedJ2C is the result of successfully opening a J2C message.
type DecryptedJ2C struct {
	IsReal bool
	Inner  EncryptedJournalistToUserMessage
}

// DecryptJournalistToCoverNode tries every candidate CoverNode messaging
// secret key (latest first is the caller's responsibility) against every
// wrapped slot.
func DecryptJournalistToCoverNode(msg EncryptedJournalistToCoverNodeMessage, covernodeMsgSKCandidates [][32]byte) (DecryptedJ2C, int, error) {
	for rank, sk := range covernodeMsgSKCandidates {
		plain, _, err := crypto.OpenMultiAnonymousAnySlot(msg, sk, unmarshalJ2CPlaintext)
		if err == nil {
			return DecryptedJ2C{IsReal: plain.Tag == realOrCoverTagReal, Inner: plain.Inner}, rank, nil
		}
	}
	return DecryptedJ2C{}, -1, ErrDecryptFailed
}

// DecryptUserDeadDropMessage tries userSK against a J2U ciphertext
// recovered from a dead drop; a cover slot (wrong key, or authored to an
// ephemeral key) fails indistinguishably from a genuine mismatch and
// should be silently dropped by the caller (§4.3 "Decryption contract (user
// side)").
func DecryptUserDeadDropMessage(msg EncryptedJournalistToUserMessage, journalistMsgPK [32]byte, userSK [32]byte) (JournalistToUserMessage, error) {
	plain, err := DecryptJournalistToUser(msg, journalistMsgPK, userSK)
	if err != nil {
		return JournalistToUserMessage{}, ErrDecryptFailed
	}
	return plain, nil
}
