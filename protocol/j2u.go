package protocol

import (
	"errors"
	"strings"

	"github.com/guardian/coverdrop-core/crypto"
)

// JournalistToUserMessage is a tagged union: either a text reply or a
// hand-over to a different journalist identity. The first plaintext byte
// is the type tag; both variants serialize to the same total length so the
// tag never leaks via ciphertext size.
type JournalistToUserMessage struct {
	kind         j2uMessageType
	text         crypto.FixedSizeMessageText
	journalistID string
}

// NewJournalistToUserTextMessage wraps a reply text.
func NewJournalistToUserTextMessage(text crypto.FixedSizeMessageText) JournalistToUserMessage {
	return JournalistToUserMessage{kind: j2uMessageTypeMessage, text: text}
}

// NewJournalistToUserHandOver wraps a hand-over to journalistID.
// journalistID must be strictly shorter than MaxJournalistIdentityLen so a
// trailing NUL terminator always fits.
func NewJournalistToUserHandOver(journalistID string) (JournalistToUserMessage, error) {
	if len(journalistID) >= MaxJournalistIdentityLen {
		return JournalistToUserMessage{}, errors.New("protocol: journalist identity too long for hand-over")
	}
	return JournalistToUserMessage{kind: j2uMessageTypeHandOver, journalistID: journalistID}, nil
}

// AsText returns the message text and true if this is a text message.
func (m JournalistToUserMessage) AsText() (crypto.FixedSizeMessageText, bool) {
	if m.kind != j2uMessageTypeMessage {
		return crypto.FixedSizeMessageText{}, false
	}
	return m.text, true
}

// AsHandOver returns the target journalist identity and true if this is a
// hand-over message.
func (m JournalistToUserMessage) AsHandOver() (string, bool) {
	if m.kind != j2uMessageTypeHandOver {
		return "", false
	}
	return m.journalistID, true
}

// MarshalBinary implements crypto.Marshalable.
func (m JournalistToUserMessage) MarshalBinary() ([]byte, error) {
	out := make([]byte, 1+journalistToUserPayloadLen)
	out[0] = byte(m.kind)

	switch m.kind {
	case j2uMessageTypeMessage:
		body, err := m.text.MarshalBinary()
		if err != nil {
			return nil, err
		}
		if len(body) != journalistToUserPayloadLen {
			return nil, errors.New("protocol: journalist-to-user message text has the wrong padded length")
		}
		copy(out[1:], body)
	case j2uMessageTypeHandOver:
		copy(out[1:], m.journalistID)
	default:
		return nil, errors.New("protocol: unknown journalist-to-user message type")
	}

	return out, nil
}

// UnmarshalJournalistToUserMessage rehydrates a plaintext byte slice
// produced by MarshalBinary.
func UnmarshalJournalistToUserMessage(data []byte) (JournalistToUserMessage, error) {
	if len(data) != J2UPlaintextLen {
		return JournalistToUserMessage{}, errors.New("protocol: malformed journalist-to-user plaintext length")
	}

	payload := data[1:]
	switch j2uMessageType(data[0]) {
	case j2uMessageTypeMessage:
		return JournalistToUserMessage{kind: j2uMessageTypeMessage, text: crypto.FixedSizeMessageTextFromBytes(payload)}, nil
	case j2uMessageTypeHandOver:
		end := strings.IndexByte(string(payload), 0)
		if end < 0 {
			return JournalistToUserMessage{}, errors.New("protocol: hand-over identity is not NUL-terminated")
		}
		return JournalistToUserMessage{kind: j2uMessageTypeHandOver, journalistID: string(payload[:end])}, nil
	default:
		return JournalistToUserMessage{}, errors.New("protocol: unknown journalist-to-user message type tag")
	}
}

// EncryptedJournalistToUserMessage is a JournalistToUserMessage sealed with
// TwoPartyBox between a journalist messaging key and a user key — the J2U
// ciphertext layer.
type EncryptedJournalistToUserMessage = crypto.TwoPartyBox

// EncryptJournalistToUser seals message from journalistMsgSK to userPK.
func EncryptJournalistToUser(userPK [32]byte, journalistMsgSK [32]byte, message JournalistToUserMessage) (EncryptedJournalistToUserMessage, error) {
	return crypto.SealTwoParty(userPK, journalistMsgSK, message)
}

// DecryptJournalistToUser opens a J2U ciphertext, verifying it was sealed
// by journalistMsgPK to the caller's own userSK.
func DecryptJournalistToUser(box EncryptedJournalistToUserMessage, journalistMsgPK [32]byte, userSK [32]byte) (JournalistToUserMessage, error) {
	return crypto.OpenTwoParty(box, journalistMsgPK, userSK, UnmarshalJournalistToUserMessage)
}

// NewRandomEncryptedJournalistToUserMessage produces a cover J2U ciphertext
// under freshly generated, immediately discarded ephemeral keys.
func NewRandomEncryptedJournalistToUserMessage() (EncryptedJournalistToUserMessage, error) {
	journalistEphemeral, err := crypto.GenerateEncryptionKeyPair()
	if err != nil {
		return EncryptedJournalistToUserMessage{}, err
	}
	userEphemeral, err := crypto.GenerateEncryptionKeyPair()
	if err != nil {
		return EncryptedJournalistToUserMessage{}, err
	}

	empty, err := crypto.NewFixedSizeMessageText("", journalistToUserPayloadLen)
	if err != nil {
		return EncryptedJournalistToUserMessage{}, err
	}

	message := NewJournalistToUserTextMessage(empty)
	return EncryptJournalistToUser(userEphemeral.Public, journalistEphemeral.Private, message)
}
