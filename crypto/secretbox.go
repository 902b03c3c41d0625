package crypto

import (
	"crypto/rand"
	"errors"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// ErrSecretBoxOpenFailed is returned when a SecretBox fails to authenticate.
var ErrSecretBoxOpenFailed = errors.New("crypto: secret box authentication failed")

// SecretBox is a symmetric XChaCha20-Poly1305 container, nonce-suffixed like
// TwoPartyBox: ciphertext || auth_tag(16) || nonce(24).
type SecretBox struct {
	Body  []byte
	Nonce Nonce
}

// SealSecret encrypts payload under key.
func SealSecret[T Marshalable](key [32]byte, payload T) (SecretBox, error) {
	plaintext, err := payload.MarshalBinary()
	if err != nil {
		return SecretBox{}, err
	}

	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return SecretBox{}, err
	}

	nonce, err := GenerateNonce()
	if err != nil {
		return SecretBox{}, err
	}

	body := aead.Seal(nil, nonce[:], plaintext, nil)
	return SecretBox{Body: body, Nonce: nonce}, nil
}

// OpenSecret decrypts the box under key and rehydrates the plaintext via
// decode.
func OpenSecret[T any](b SecretBox, key [32]byte, decode Unmarshal[T]) (T, error) {
	var zero T

	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return zero, err
	}

	plaintext, err := aead.Open(nil, b.Nonce[:], b.Body, nil)
	if err != nil {
		return zero, ErrSecretBoxOpenFailed
	}

	return decode(plaintext)
}

// Bytes serializes the box to its wire layout.
func (b SecretBox) Bytes() []byte {
	out := make([]byte, len(b.Body)+24)
	copy(out, b.Body)
	copy(out[len(b.Body):], b.Nonce[:])
	return out
}

// SecretBoxFromBytes parses the wire layout produced by Bytes.
func SecretBoxFromBytes(data []byte) (SecretBox, error) {
	if len(data) < 24+chacha20poly1305.Overhead {
		return SecretBox{}, errors.New("crypto: secret box too short")
	}
	var b SecretBox
	bodyLen := len(data) - 24
	b.Body = append([]byte(nil), data[:bodyLen]...)
	copy(b.Nonce[:], data[bodyLen:])
	return b, nil
}

// Argon2Variant names which parameter set was used to derive a SecretBox
// key from a passphrase. Vaults persist the variant alongside the salt so
// that an older vault continues to open after the defaults change.
type Argon2Variant int

const (
	// Argon2V0 is the legacy parameter set; still supported for opening
	// existing vaults, never used to create new ones.
	Argon2V0 Argon2Variant = iota
	// Argon2V1 is the current parameter set, used for all new vaults.
	Argon2V1
)

// Argon2Configuration is a named Argon2id parameter set.
type Argon2Configuration struct {
	Variant     Argon2Variant
	TimeCost    uint32
	MemoryCost  uint32 // KiB
	Parallelism uint8
}

// Argon2Configurations are the supported parameter sets, indexed by
// variant. V0 matches the conservative parameters shipped at launch; V1
// raises the memory cost in line with current OWASP guidance.
var Argon2Configurations = map[Argon2Variant]Argon2Configuration{
	Argon2V0: {Variant: Argon2V0, TimeCost: 3, MemoryCost: 64 * 1024, Parallelism: 4},
	Argon2V1: {Variant: Argon2V1, TimeCost: 4, MemoryCost: 256 * 1024, Parallelism: 4},
}

// SaltSize is the recommended Argon2id salt length.
const SaltSize = 16

// GenerateSalt returns a fresh random salt suitable for DeriveSecretBoxKey.
func GenerateSalt() ([SaltSize]byte, error) {
	var salt [SaltSize]byte
	_, err := rand.Read(salt[:])
	return salt, err
}

// DeriveSecretBoxKey derives a 32-byte SecretBox key from a passphrase and
// salt using the named Argon2id configuration.
func DeriveSecretBoxKey(passphrase []byte, salt [SaltSize]byte, cfg Argon2Configuration) [32]byte {
	derived := argon2.IDKey(passphrase, salt[:], cfg.TimeCost, cfg.MemoryCost, cfg.Parallelism, 32)
	var key [32]byte
	copy(key[:], derived)
	return key
}
