package keys

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"time"
)

// keyFileMode is the maximum permissive mode a secret key file may carry.
// Anything wider than owner read/write is rejected unless the caller
// explicitly opts in via LoadSkippingPermissionsCheck (§3.10, §6).
const keyFileMode = 0o600

// KeyFile is the JSON envelope a key pair is persisted to disk as. Key and
// Certificate are hex-encoded; NotValidAfter is RFC3339 UTC (§6); SecretKey
// is omitted entirely for public-only files (e.g. an anchor organization key
// shipped to clients).
type KeyFile[R Role] struct {
	Key           string  `json:"key"`
	Certificate   string  `json:"certificate"`
	NotValidAfter string  `json:"not_valid_after"`
	SecretKey     *string `json:"secret_key,omitempty"`
}

// NewPublicKeyFile builds a KeyFile envelope for a verified public key, with
// no secret key material.
func NewPublicKeyFile[R Role](pk VerifiedPublicKey[R]) KeyFile[R] {
	cert := pk.Cert.CertificateBytes()
	return KeyFile[R]{
		Key:           hex.EncodeToString(pk.Bytes[:]),
		Certificate:   hex.EncodeToString(cert[:]),
		NotValidAfter: pk.NotValidAfter.UTC().Format(time.RFC3339),
	}
}

// NewSecretKeyFile builds a KeyFile envelope carrying secret key material
// alongside the public key and certificate, the form written for a
// CoverNode's or journalist's own identity/messaging secret keys.
func NewSecretKeyFile[R Role](pk VerifiedPublicKey[R], secretKey []byte) KeyFile[R] {
	f := NewPublicKeyFile(pk)
	enc := hex.EncodeToString(secretKey)
	f.SecretKey = &enc
	return f
}

// Decode parses the envelope back into an UntrustedPublicKey and, if
// present, the raw secret key bytes. The certificate is NOT verified here;
// callers must call Verify against the appropriate parent key.
func (f KeyFile[R]) Decode() (UntrustedPublicKey[R], []byte, error) {
	keyBytes, err := hex.DecodeString(f.Key)
	if err != nil || len(keyBytes) != 32 {
		return UntrustedPublicKey[R]{}, nil, errors.New("keys: key file has malformed key field")
	}
	certBytes, err := hex.DecodeString(f.Certificate)
	if err != nil {
		return UntrustedPublicKey[R]{}, nil, errors.New("keys: key file has malformed certificate field")
	}
	cert, err := CertificateFromBytes[R](certBytes)
	if err != nil {
		return UntrustedPublicKey[R]{}, nil, err
	}
	notValidAfter, err := time.Parse(time.RFC3339, f.NotValidAfter)
	if err != nil {
		return UntrustedPublicKey[R]{}, nil, errors.New("keys: key file has malformed not_valid_after field")
	}

	var pub [32]byte
	copy(pub[:], keyBytes)

	untrusted := UntrustedPublicKey[R]{
		Bytes:         pub,
		Cert:          cert,
		NotValidAfter: notValidAfter.UTC(),
	}

	if f.SecretKey == nil {
		return untrusted, nil, nil
	}
	secret, err := hex.DecodeString(*f.SecretKey)
	if err != nil {
		return UntrustedPublicKey[R]{}, nil, errors.New("keys: key file has malformed secret_key field")
	}
	return untrusted, secret, nil
}

// WriteKeyFile serialises f as JSON and writes it to path with mode 0600,
// refusing to overwrite a file that already carries wider permissions so a
// misconfigured deployment cannot silently widen a secret's exposure.
func WriteKeyFile[R Role](path string, f KeyFile[R]) error {
	log := pkgLogger("WriteKeyFile")

	if info, err := os.Stat(path); err == nil && info.Mode().Perm()&^keyFileMode != 0 {
		log.WithField("path", path).Warn("refusing to overwrite key file with overly permissive mode")
		return ErrPermissionsTooOpen
	}

	raw, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, raw, keyFileMode); err != nil {
		return err
	}
	log.WithField("path", path).Debug("wrote key file")
	return nil
}

// LoadKeyFile reads and parses a key file from disk, rejecting any mode
// wider than 0600 (§3.10). Use LoadSkippingPermissionsCheck to bypass this
// check, e.g. when loading a key file shipped read-only inside a container
// image.
func LoadKeyFile[R Role](path string) (KeyFile[R], error) {
	info, err := os.Stat(path)
	if err != nil {
		return KeyFile[R]{}, err
	}
	if info.Mode().Perm()&^keyFileMode != 0 {
		return KeyFile[R]{}, ErrPermissionsTooOpen
	}
	return LoadSkippingPermissionsCheck[R](path)
}

// LoadSkippingPermissionsCheck reads and parses a key file from disk without
// enforcing the 0600 permissions invariant.
func LoadSkippingPermissionsCheck[R Role](path string) (KeyFile[R], error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return KeyFile[R]{}, err
	}
	var f KeyFile[R]
	if err := json.Unmarshal(raw, &f); err != nil {
		return KeyFile[R]{}, err
	}
	return f, nil
}
