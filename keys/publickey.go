package keys

import (
	"crypto/ed25519"
	"time"
)

// UntrustedPublicKey is a public key loaded from disk, wire, or database
// with a claimed certificate and expiry — no guarantee the certificate
// verifies (§3.2).
type UntrustedPublicKey[R Role] struct {
	Bytes         [32]byte
	Cert          Certificate[R]
	NotValidAfter time.Time
}

// VerifiedPublicKey is an UntrustedPublicKey witnessed valid against a
// parent at some instant, now carrying the epoch the canonical registry
// assigned it.
type VerifiedPublicKey[R Role] struct {
	Bytes         [32]byte
	Cert          Certificate[R]
	NotValidAfter time.Time
	Epoch         uint64
}

// Verify checks an UntrustedPublicKey's certificate against parentPK and its
// expiry against now, assigning (or recovering) an epoch from registry on
// success. An expired parent is the caller's concern: Verify only checks
// this key's own certificate and expiry (§4.2 "Verification rules").
func Verify[R Role](parentPK ed25519.PublicKey, untrusted UntrustedPublicKey[R], now time.Time, registry *Registry) (VerifiedPublicKey[R], error) {
	data := KeyCertificateData{PubKeyBytes: untrusted.Bytes, NotValidAfter: untrusted.NotValidAfter}
	if err := untrusted.Cert.Sig.Verify(parentPK, data); err != nil {
		return VerifiedPublicKey[R]{}, ErrCertificateInvalid
	}
	if now.After(untrusted.NotValidAfter) {
		return VerifiedPublicKey[R]{}, ErrExpired
	}

	epoch := registry.Insert(untrusted.Bytes)

	return VerifiedPublicKey[R]{
		Bytes:         untrusted.Bytes,
		Cert:          untrusted.Cert,
		NotValidAfter: untrusted.NotValidAfter,
		Epoch:         epoch,
	}, nil
}

// IsExpired reports whether the key's validity window has closed as of now.
// A key that verified in the past remains verified for data signed while it
// was valid; this check only governs new operations (§4.2).
func (v VerifiedPublicKey[R]) IsExpired(now time.Time) bool {
	return now.After(v.NotValidAfter)
}

// Untrusted demotes a VerifiedPublicKey back to its untrusted form, e.g. for
// re-verification after a hierarchy refresh.
func (v VerifiedPublicKey[R]) Untrusted() UntrustedPublicKey[R] {
	return UntrustedPublicKey[R]{Bytes: v.Bytes, Cert: v.Cert, NotValidAfter: v.NotValidAfter}
}
