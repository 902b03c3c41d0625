package crypto

import (
	"crypto/ed25519"
	"errors"
)

// ErrSignatureVerificationFailed is returned when a signature does not
// verify against the given public key and payload.
var ErrSignatureVerificationFailed = errors.New("crypto: signature verification failed")

// Signable is the contract a signable payload type must satisfy: the exact
// bytes that get signed, with no implicit framing added by the signer.
type Signable interface {
	AsSignableBytes() []byte
}

// Signature is an Ed25519 signature tagged by the signable type S, so a
// signature produced over one payload type is a compile-time error to
// present as a signature over another, even if their encodings coincide.
type Signature[S Signable] struct {
	bytes [ed25519.SignatureSize]byte
}

// Sign produces a Signature[S] over payload using sk.
func Sign[S Signable](sk ed25519.PrivateKey, payload S) Signature[S] {
	raw := ed25519.Sign(sk, payload.AsSignableBytes())
	var sig Signature[S]
	copy(sig.bytes[:], raw)
	return sig
}

// Verify checks sig against payload under pk.
func (sig Signature[S]) Verify(pk ed25519.PublicKey, payload S) error {
	if !ed25519.Verify(pk, payload.AsSignableBytes(), sig.bytes[:]) {
		return ErrSignatureVerificationFailed
	}
	return nil
}

// Bytes returns the raw 64-byte signature.
func (sig Signature[S]) Bytes() [ed25519.SignatureSize]byte { return sig.bytes }

// SignatureFromBytes reconstructs a Signature[S] from raw bytes, e.g. after
// hex-decoding a certificate read from disk or the wire.
func SignatureFromBytes[S Signable](raw []byte) (Signature[S], error) {
	if len(raw) != ed25519.SignatureSize {
		return Signature[S]{}, errors.New("crypto: signature has wrong length")
	}
	var sig Signature[S]
	copy(sig.bytes[:], raw)
	return sig, nil
}
