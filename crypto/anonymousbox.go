package crypto

import (
	"crypto/rand"
	"errors"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/nacl/box"
)

// ErrAnonymousBoxOpenFailed is returned when an AnonymousBox fails to
// authenticate; it never reveals why (wrong key vs corrupt bytes).
var ErrAnonymousBoxOpenFailed = errors.New("crypto: anonymous box authentication failed")

// Marshalable is the contract a plaintext type must satisfy to be carried
// inside an AnonymousBox, TwoPartyBox, or MultiAnonymousBox.
type Marshalable interface {
	MarshalBinary() ([]byte, error)
}

// Unmarshal rehydrates plaintext bytes into T, enforcing T's length/shape
// invariants. It is supplied explicitly by callers (Go generics cannot
// construct a zero T and call a method on it without an instance).
type Unmarshal[T any] func([]byte) (T, error)

// AnonymousBox is an ephemeral-static sealed box: the sender key is
// discarded after sealing, so only the recipient's static secret key can
// open it and the sender is anonymous even to the recipient. Wire layout:
// ephemeral_pk(32) || ciphertext || auth_tag(16).
type AnonymousBox struct {
	EphemeralPublicKey [32]byte
	Body               []byte // ciphertext || auth tag
}

// sealedBoxNonce derives the deterministic nonce libsodium's
// crypto_box_seal uses: blake2b(ephemeral_pk || recipient_pk), so the wire
// format never needs to carry a nonce alongside the ephemeral key.
func sealedBoxNonce(ephemeralPK, recipientPK [32]byte) ([24]byte, error) {
	h, err := blake2b.New(24, nil)
	if err != nil {
		return [24]byte{}, err
	}
	h.Write(ephemeralPK[:])
	h.Write(recipientPK[:])
	var nonce [24]byte
	copy(nonce[:], h.Sum(nil))
	return nonce, nil
}

// SealAnonymous encrypts payload to recipientPK using a fresh ephemeral key
// pair. Every call produces different bytes even for identical payloads.
func SealAnonymous[T Marshalable](recipientPK [32]byte, payload T) (AnonymousBox, error) {
	plaintext, err := payload.MarshalBinary()
	if err != nil {
		return AnonymousBox{}, err
	}

	ephemeralPub, ephemeralPriv, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return AnonymousBox{}, err
	}

	nonce, err := sealedBoxNonce(*ephemeralPub, recipientPK)
	if err != nil {
		return AnonymousBox{}, err
	}

	sealed := box.Seal(nil, plaintext, &nonce, &recipientPK, ephemeralPriv)

	return AnonymousBox{EphemeralPublicKey: *ephemeralPub, Body: sealed}, nil
}

// OpenAnonymous decrypts the box with the recipient's static secret key and
// rehydrates the plaintext into T via decode.
func OpenAnonymous[T any](b AnonymousBox, recipientSK [32]byte, decode Unmarshal[T]) (T, error) {
	var zero T

	recipientPub, err := publicFromPrivate(recipientSK)
	if err != nil {
		return zero, err
	}

	nonce, err := sealedBoxNonce(b.EphemeralPublicKey, recipientPub)
	if err != nil {
		return zero, err
	}

	plaintext, ok := box.Open(nil, b.Body, &nonce, &b.EphemeralPublicKey, &recipientSK)
	if !ok {
		return zero, ErrAnonymousBoxOpenFailed
	}

	return decode(plaintext)
}

// Bytes serializes the box to its wire layout.
func (b AnonymousBox) Bytes() []byte {
	out := make([]byte, 32+len(b.Body))
	copy(out, b.EphemeralPublicKey[:])
	copy(out[32:], b.Body)
	return out
}

// AnonymousBoxFromBytes parses the wire layout produced by Bytes.
func AnonymousBoxFromBytes(data []byte) (AnonymousBox, error) {
	if len(data) < 32+box.Overhead {
		return AnonymousBox{}, errors.New("crypto: anonymous box too short")
	}
	var b AnonymousBox
	copy(b.EphemeralPublicKey[:], data[:32])
	b.Body = append([]byte(nil), data[32:]...)
	return b, nil
}

func publicFromPrivate(priv [32]byte) ([32]byte, error) {
	kp, err := EncryptionKeyPairFromPrivate(priv)
	if err != nil {
		return [32]byte{}, err
	}
	return kp.Public, nil
}
