// Package crypto implements the fixed-size cryptographic containers that
// back the CoverDrop protocol: anonymous sealed boxes, authenticated
// two-party boxes, multi-recipient sealed boxes, a symmetric secret box, and
// padded/compressed plaintext envelopes. Every container has a constant wire
// size independent of its payload's content so that real and cover traffic
// remain bit-wise indistinguishable at every layer.
//
// Primitives are taken from golang.org/x/crypto: nacl/box for the two
// box-style containers, chacha20poly1305 for the secret box, blake2b for
// sealed-box nonce derivation, argon2 for passphrase-based key derivation,
// and the standard library crypto/ed25519 for signatures.
package crypto

import "github.com/sirupsen/logrus"

func pkgLogger(function string) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"function": function,
		"package":  "crypto",
	})
}
