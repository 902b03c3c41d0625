package crypto

import (
	"errors"

	"golang.org/x/crypto/nacl/box"
)

// ErrTwoPartyBoxOpenFailed is returned when a TwoPartyBox fails to
// authenticate.
var ErrTwoPartyBoxOpenFailed = errors.New("crypto: two-party box authentication failed")

// TwoPartyBox is an authenticated box between two known parties: the sender
// proves possession of their secret key, the recipient proves possession of
// theirs. Wire layout: ciphertext || auth_tag(16) || nonce(24) — the nonce
// is a suffix, not a prefix, matching the source's box encoding.
type TwoPartyBox struct {
	Body  []byte // ciphertext || auth tag
	Nonce Nonce
}

// SealTwoParty encrypts payload from senderSK to recipientPK with a fresh
// random nonce.
func SealTwoParty[T Marshalable](recipientPK [32]byte, senderSK [32]byte, payload T) (TwoPartyBox, error) {
	plaintext, err := payload.MarshalBinary()
	if err != nil {
		return TwoPartyBox{}, err
	}

	nonce, err := GenerateNonce()
	if err != nil {
		return TwoPartyBox{}, err
	}

	n := [24]byte(nonce)
	sealed := box.Seal(nil, plaintext, &n, &recipientPK, &senderSK)

	return TwoPartyBox{Body: sealed, Nonce: nonce}, nil
}

// OpenTwoParty decrypts the box, verifying it was sealed by senderPK to
// recipientSK, and rehydrates the plaintext into T via decode.
func OpenTwoParty[T any](b TwoPartyBox, senderPK [32]byte, recipientSK [32]byte, decode Unmarshal[T]) (T, error) {
	var zero T

	n := [24]byte(b.Nonce)
	plaintext, ok := box.Open(nil, b.Body, &n, &senderPK, &recipientSK)
	if !ok {
		return zero, ErrTwoPartyBoxOpenFailed
	}

	return decode(plaintext)
}

// Bytes serializes the box to its wire layout (ciphertext||tag then nonce).
func (b TwoPartyBox) Bytes() []byte {
	out := make([]byte, len(b.Body)+24)
	copy(out, b.Body)
	copy(out[len(b.Body):], b.Nonce[:])
	return out
}

// TwoPartyBoxFromBytes parses the wire layout produced by Bytes.
func TwoPartyBoxFromBytes(data []byte) (TwoPartyBox, error) {
	if len(data) < 24+box.Overhead {
		return TwoPartyBox{}, errors.New("crypto: two-party box too short")
	}
	var b TwoPartyBox
	bodyLen := len(data) - 24
	b.Body = append([]byte(nil), data[:bodyLen]...)
	copy(b.Nonce[:], data[bodyLen:])
	return b, nil
}
