package crypto

import "crypto/rand"

// Nonce is a 24-byte XSalsa20/XChaCha20 nonce.
type Nonce [24]byte

// GenerateNonce returns a cryptographically random nonce.
func GenerateNonce() (Nonce, error) {
	var nonce Nonce
	if _, err := rand.Read(nonce[:]); err != nil {
		return Nonce{}, err
	}
	return nonce, nil
}
