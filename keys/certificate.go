package keys

import (
	"crypto/ed25519"
	"encoding/binary"
	"time"

	"github.com/guardian/coverdrop-core/crypto"
)

// KeyCertificateData is the exact byte sequence a certificate signs:
// raw_pubkey_bytes || i64_big_endian(unix_seconds(not_valid_after)).
type KeyCertificateData struct {
	PubKeyBytes   [32]byte
	NotValidAfter time.Time
}

// AsSignableBytes implements crypto.Signable.
func (d KeyCertificateData) AsSignableBytes() []byte {
	out := make([]byte, 40)
	copy(out, d.PubKeyBytes[:])
	binary.BigEndian.PutUint64(out[32:], uint64(d.NotValidAfter.Unix()))
	return out
}

// Certificate is a Signature[KeyCertificateData] tagged by the role R of the
// key it certifies, so a CoverNodeId certificate can never be mistaken for a
// JournalistId certificate even though both sign the same data shape.
type Certificate[R Role] struct {
	Sig crypto.Signature[KeyCertificateData]
}

// CertificateBytes returns the raw 64-byte Ed25519 signature.
func (c Certificate[R]) CertificateBytes() [64]byte { return c.Sig.Bytes() }

// CertificateFromBytes reconstructs a Certificate[R] from raw signature
// bytes, e.g. after hex-decoding a certificate loaded from a key file.
func CertificateFromBytes[R Role](raw []byte) (Certificate[R], error) {
	sig, err := crypto.SignatureFromBytes[KeyCertificateData](raw)
	if err != nil {
		return Certificate[R]{}, err
	}
	return Certificate[R]{Sig: sig}, nil
}

// IssueCertificate signs a child public key's certificate with a parent's
// Ed25519 secret key. The same shape backs every edge of the hierarchy
// (Organization→Provisioning, Provisioning→Id, Id→Messaging); only the
// phantom role R changes between call sites.
func IssueCertificate[R Role](parentSK ed25519.PrivateKey, childPubKeyBytes [32]byte, notValidAfter time.Time) Certificate[R] {
	data := KeyCertificateData{PubKeyBytes: childPubKeyBytes, NotValidAfter: notValidAfter}
	return Certificate[R]{Sig: crypto.Sign(parentSK, data)}
}
