package crypto

import (
	"crypto/ed25519"
	"crypto/rand"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/box"
)

// EncryptionKeyPair is an X25519 key pair used for AnonymousBox and
// TwoPartyBox key agreement.
type EncryptionKeyPair struct {
	Public  [32]byte
	Private [32]byte
}

// GenerateEncryptionKeyPair creates a new random X25519 key pair.
func GenerateEncryptionKeyPair() (*EncryptionKeyPair, error) {
	logger := pkgLogger("GenerateEncryptionKeyPair")

	pub, priv, err := box.GenerateKey(rand.Reader)
	if err != nil {
		logger.WithError(err).Error("failed to generate X25519 key pair")
		return nil, err
	}

	return &EncryptionKeyPair{Public: *pub, Private: *priv}, nil
}

// EncryptionKeyPairFromPrivate reconstructs a key pair from an existing
// private scalar, deriving the matching public key.
func EncryptionKeyPairFromPrivate(priv [32]byte) (*EncryptionKeyPair, error) {
	pub, err := curve25519.X25519(priv[:], curve25519.Basepoint)
	if err != nil {
		return nil, err
	}
	var kp EncryptionKeyPair
	kp.Private = priv
	copy(kp.Public[:], pub)
	return &kp, nil
}

// SigningKeyPair is an Ed25519 key pair used for certificates and dead-drop
// signatures.
type SigningKeyPair struct {
	Public  ed25519.PublicKey
	Private ed25519.PrivateKey
}

// GenerateSigningKeyPair creates a new random Ed25519 key pair.
func GenerateSigningKeyPair() (*SigningKeyPair, error) {
	logger := pkgLogger("GenerateSigningKeyPair")

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		logger.WithError(err).Error("failed to generate Ed25519 key pair")
		return nil, err
	}

	return &SigningKeyPair{Public: pub, Private: priv}, nil
}

// SigningKeyPairFromSeed reconstructs a signing key pair from a 32-byte seed.
func SigningKeyPairFromSeed(seed [32]byte) *SigningKeyPair {
	priv := ed25519.NewKeyFromSeed(seed[:])
	pub := make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(pub, priv[32:])
	return &SigningKeyPair{Public: pub, Private: priv}
}
