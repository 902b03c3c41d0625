package protocol

import (
	"errors"

	"github.com/guardian/coverdrop-core/crypto"
)

// reservedByte is a placeholder byte in the U2J plaintext layout, carried
// for wire-format alignment with future extension.
const reservedByte = 0x00

// UserToJournalistMessage is the plaintext a user sends to a journalist: the
// message text and a reply key the journalist's J2U response is addressed
// to. Layout: reply_key(32) ‖ reserved(1) ‖ padded_message.
type UserToJournalistMessage struct {
	ReplyKey [32]byte
	Message  crypto.FixedSizeMessageText
}

// MarshalBinary implements crypto.Marshalable.
func (m UserToJournalistMessage) MarshalBinary() ([]byte, error) {
	body, err := m.Message.MarshalBinary()
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, 32+1+len(body))
	out = append(out, m.ReplyKey[:]...)
	out = append(out, reservedByte)
	out = append(out, body...)
	return out, nil
}

// UnmarshalUserToJournalistMessage rehydrates a plaintext byte slice
// produced by MarshalBinary.
func UnmarshalUserToJournalistMessage(data []byte) (UserToJournalistMessage, error) {
	if len(data) != U2JPlaintextLen {
		return UserToJournalistMessage{}, errors.New("protocol: malformed user-to-journalist plaintext length")
	}
	var m UserToJournalistMessage
	copy(m.ReplyKey[:], data[:32])
	m.Message = crypto.FixedSizeMessageTextFromBytes(data[33:])
	return m, nil
}

// EncryptedUserToJournalistMessage is a UserToJournalistMessage sealed for
// the recipient journalist's messaging key — the U2J ciphertext layer.
type EncryptedUserToJournalistMessage = crypto.AnonymousBox

// EncryptUserToJournalist seals a UserToJournalistMessage to
// journalistMsgPK.
func EncryptUserToJournalist(journalistMsgPK [32]byte, message UserToJournalistMessage) (EncryptedUserToJournalistMessage, error) {
	return crypto.SealAnonymous(journalistMsgPK, message)
}

// DecryptUserToJournalist opens a U2J ciphertext with the journalist's own
// messaging secret key.
func DecryptUserToJournalist(box EncryptedUserToJournalistMessage, journalistMsgSK [32]byte) (UserToJournalistMessage, error) {
	return crypto.OpenAnonymous(box, journalistMsgSK, UnmarshalUserToJournalistMessage)
}

// NewRandomEncryptedUserToJournalistMessage produces a cover U2J ciphertext:
// an empty message encrypted under freshly generated, immediately discarded
// ephemeral keys. Every call yields fresh, indistinguishable-from-real
// bytes (§4.3 "Cover generation (user)").
func NewRandomEncryptedUserToJournalistMessage() (EncryptedUserToJournalistMessage, error) {
	journalistEphemeral, err := crypto.GenerateEncryptionKeyPair()
	if err != nil {
		return EncryptedUserToJournalistMessage{}, err
	}
	userEphemeral, err := crypto.GenerateEncryptionKeyPair()
	if err != nil {
		return EncryptedUserToJournalistMessage{}, err
	}

	empty, err := crypto.NewFixedSizeMessageText("", MessagePaddingLen)
	if err != nil {
		return EncryptedUserToJournalistMessage{}, err
	}

	message := UserToJournalistMessage{ReplyKey: userEphemeral.Public, Message: empty}
	return EncryptUserToJournalist(journalistEphemeral.Public, message)
}
