package crypto

import (
	"crypto/rand"
	"errors"

	"golang.org/x/crypto/nacl/box"
	"golang.org/x/crypto/nacl/secretbox"
)

// ErrMultiAnonymousBoxOpenFailed is returned when none of a recipient's
// session-key wrappers open, or the body fails to authenticate.
var ErrMultiAnonymousBoxOpenFailed = errors.New("crypto: multi-recipient box authentication failed")

// sessionKeyPlaintext carries the random symmetric key wrapped individually
// for each recipient.
type sessionKeyPlaintext struct {
	key [32]byte
}

func (s sessionKeyPlaintext) MarshalBinary() ([]byte, error) {
	return append([]byte(nil), s.key[:]...), nil
}

func unmarshalSessionKey(b []byte) (sessionKeyPlaintext, error) {
	if len(b) != 32 {
		return sessionKeyPlaintext{}, errors.New("crypto: malformed wrapped session key")
	}
	var s sessionKeyPlaintext
	copy(s.key[:], b)
	return s, nil
}

// MultiAnonymousBox targets exactly N recipients simultaneously: every
// recipient recovers the same plaintext body by first unwrapping their own
// copy of a random session key, each wrapped with an independent
// AnonymousBox, then opening the shared secretbox-encrypted body.
type MultiAnonymousBox struct {
	WrappedKeys []AnonymousBox // one per recipient slot, in slot order
	Nonce       Nonce
	Body        []byte // secretbox(session_key, payload)
}

// SealMultiAnonymous encrypts payload once and wraps the session key to
// every key in recipients, in slot order. Callers are responsible for
// padding the recipient list to a fixed width (e.g. by repeating the first
// key) so the slot count — and therefore the wire size — never varies.
func SealMultiAnonymous[T Marshalable](recipients [][32]byte, payload T) (MultiAnonymousBox, error) {
	if len(recipients) == 0 {
		return MultiAnonymousBox{}, errors.New("crypto: at least one recipient required")
	}

	plaintext, err := payload.MarshalBinary()
	if err != nil {
		return MultiAnonymousBox{}, err
	}

	var sessionKey [32]byte
	if _, err := rand.Read(sessionKey[:]); err != nil {
		return MultiAnonymousBox{}, err
	}

	nonce, err := GenerateNonce()
	if err != nil {
		return MultiAnonymousBox{}, err
	}
	n := [24]byte(nonce)
	body := secretbox.Seal(nil, plaintext, &n, &sessionKey)

	wrapped := make([]AnonymousBox, len(recipients))
	for i, pk := range recipients {
		box, err := SealAnonymous(pk, sessionKeyPlaintext{key: sessionKey})
		if err != nil {
			return MultiAnonymousBox{}, err
		}
		wrapped[i] = box
	}

	return MultiAnonymousBox{WrappedKeys: wrapped, Nonce: nonce, Body: body}, nil
}

// OpenMultiAnonymous tries to unwrap the session key in the given slot with
// recipientSK and, on success, opens the shared body and rehydrates it via
// decode. Callers that don't know their slot should call this once per
// candidate slot (see protocol.DecryptUserToCoverNode for the CoverNode's
// usage, which tries every own messaging key against every slot through
// OpenMultiAnonymousAnySlot).
func OpenMultiAnonymous[T any](b MultiAnonymousBox, slot int, recipientSK [32]byte, decode Unmarshal[T]) (T, error) {
	var zero T
	if slot < 0 || slot >= len(b.WrappedKeys) {
		return zero, errors.New("crypto: slot out of range")
	}

	sessionKey, err := OpenAnonymous(b.WrappedKeys[slot], recipientSK, unmarshalSessionKey)
	if err != nil {
		return zero, ErrMultiAnonymousBoxOpenFailed
	}

	n := [24]byte(b.Nonce)
	plaintext, ok := secretbox.Open(nil, b.Body, &n, &sessionKey.key)
	if !ok {
		return zero, ErrMultiAnonymousBoxOpenFailed
	}

	return decode(plaintext)
}

// wrappedKeyWireLen is the fixed size of one AnonymousBox-wrapped session
// key slot: ephemeral_pk(32) || session_key(32) || poly1305 tag(16).
const wrappedKeyWireLen = 32 + 32 + box.Overhead

// Bytes serializes the box to its wire layout: each wrapped key slot in
// order, then the nonce, then the body.
func (b MultiAnonymousBox) Bytes() []byte {
	out := make([]byte, 0, len(b.WrappedKeys)*wrappedKeyWireLen+24+len(b.Body))
	for _, w := range b.WrappedKeys {
		out = append(out, w.Bytes()...)
	}
	out = append(out, b.Nonce[:]...)
	out = append(out, b.Body...)
	return out
}

// MultiAnonymousBoxFromBytes parses the wire layout produced by Bytes.
// numRecipients must match the number of wrapped-key slots the box was
// built with (the caller's padded CoverNode key count).
func MultiAnonymousBoxFromBytes(data []byte, numRecipients int) (MultiAnonymousBox, error) {
	if numRecipients <= 0 {
		return MultiAnonymousBox{}, errors.New("crypto: numRecipients must be positive")
	}
	wrappedLen := numRecipients * wrappedKeyWireLen
	if len(data) < wrappedLen+24 {
		return MultiAnonymousBox{}, errors.New("crypto: multi anonymous box too short")
	}

	wrapped := make([]AnonymousBox, numRecipients)
	for i := 0; i < numRecipients; i++ {
		slot := data[i*wrappedKeyWireLen : (i+1)*wrappedKeyWireLen]
		box, err := AnonymousBoxFromBytes(slot)
		if err != nil {
			return MultiAnonymousBox{}, err
		}
		wrapped[i] = box
	}

	rest := data[wrappedLen:]
	var nonce Nonce
	copy(nonce[:], rest[:24])
	body := append([]byte(nil), rest[24:]...)

	return MultiAnonymousBox{WrappedKeys: wrapped, Nonce: nonce, Body: body}, nil
}

// OpenMultiAnonymousAnySlot tries every wrapped slot with recipientSK and
// returns the first success. This is the usual entry point: a CoverNode
// doesn't know in advance which wrapping-key slot it occupies.
func OpenMultiAnonymousAnySlot[T any](b MultiAnonymousBox, recipientSK [32]byte, decode Unmarshal[T]) (T, int, error) {
	var zero T
	for slot := range b.WrappedKeys {
		v, err := OpenMultiAnonymous(b, slot, recipientSK, decode)
		if err == nil {
			return v, slot, nil
		}
	}
	return zero, -1, ErrMultiAnonymousBoxOpenFailed
}
