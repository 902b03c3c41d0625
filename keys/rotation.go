package keys

import (
	"crypto/ed25519"
	"errors"
	"time"

	"github.com/guardian/coverdrop-core/crypto"
)

// ValidityWindow describes how long a role's key is valid for and how long
// before expiry rotation should begin. Absolute constants live in the
// config package (§3.5); this type only enforces the relative invariant.
type ValidityWindow struct {
	ValidFor       time.Duration
	RotateAfterAge time.Duration
}

// Validate enforces "rotate-after < not-valid-after" (§3.5).
func (w ValidityWindow) Validate() error {
	if w.RotateAfterAge >= w.ValidFor {
		return errors.New("keys: rotate-after age must be less than the validity period")
	}
	return nil
}

// ShouldRotate reports whether a key created at createdAt should begin
// rotating as of now.
func (w ValidityWindow) ShouldRotate(createdAt, now time.Time) bool {
	return now.Sub(createdAt) >= w.RotateAfterAge
}

// NotValidAfter computes the expiry for a key created at createdAt.
func (w ValidityWindow) NotValidAfter(createdAt time.Time) time.Time {
	return createdAt.Add(w.ValidFor)
}

// RotateMessagingKey generates a fresh X25519 messaging key pair and signs
// its certificate with the current identity secret key. The caller
// publishes the result and keeps the returned secret for new outgoing
// traffic; older messaging keys are retained separately for decryption
// until they expire (§4.2 "Rotation protocol").
func RotateMessagingKey[MsgRole Role](identitySK ed25519.PrivateKey, notValidAfter time.Time) (*crypto.EncryptionKeyPair, UntrustedPublicKey[MsgRole], error) {
	kp, err := crypto.GenerateEncryptionKeyPair()
	if err != nil {
		return nil, UntrustedPublicKey[MsgRole]{}, err
	}

	cert := IssueCertificate[MsgRole](identitySK, kp.Public, notValidAfter)

	return kp, UntrustedPublicKey[MsgRole]{
		Bytes:         kp.Public,
		Cert:          cert,
		NotValidAfter: notValidAfter,
	}, nil
}

// RotationForm is the payload a CoverNode or journalist submits to the
// (out-of-scope) Identity API to rotate its identity key: the new
// identity key, self-described expiry, and a signature over both produced
// by the *current* identity key, proving continuity of control (§4.2
// "Identity keys (CoverNode)", §4.2 "Identity keys (Journalist)").
type RotationForm[IdRole Role] struct {
	NewIdentityPubKey [32]byte
	NewNotValidAfter  time.Time
	FormSig           crypto.Signature[RotationFormData]
}

// RotationFormData is the exact bytes a RotationForm's signature covers.
type RotationFormData struct {
	NewIdentityPubKey [32]byte
	NewNotValidAfter  time.Time
}

// AsSignableBytes implements crypto.Signable.
func (d RotationFormData) AsSignableBytes() []byte {
	cert := KeyCertificateData{PubKeyBytes: d.NewIdentityPubKey, NotValidAfter: d.NewNotValidAfter}
	return cert.AsSignableBytes()
}

// BuildRotationForm generates a fresh unregistered identity key pair and a
// form proving the current identity key authorised it. The CoverNode/
// journalist learns the new key's certificate and epoch only once the
// Identity API countersigns and publishes it (round trip); until then the
// old identity key continues to sign dead drops / identity operations.
func BuildRotationForm[IdRole Role](currentIdentitySK ed25519.PrivateKey, newNotValidAfter time.Time) (*crypto.SigningKeyPair, RotationForm[IdRole], error) {
	candidate, err := crypto.GenerateSigningKeyPair()
	if err != nil {
		return nil, RotationForm[IdRole]{}, err
	}

	var newPub [32]byte
	copy(newPub[:], candidate.Public)

	data := RotationFormData{NewIdentityPubKey: newPub, NewNotValidAfter: newNotValidAfter}
	sig := crypto.Sign(currentIdentitySK, data)

	return candidate, RotationForm[IdRole]{
		NewIdentityPubKey: newPub,
		NewNotValidAfter:  newNotValidAfter,
		FormSig:           sig,
	}, nil
}

// VerifyRotationForm checks a RotationForm against the claimed current
// identity public key, the check the Identity API performs before
// countersigning and publishing the new identity key (§4.2).
func VerifyRotationForm[IdRole Role](currentIdentityPK ed25519.PublicKey, form RotationForm[IdRole]) error {
	data := RotationFormData{NewIdentityPubKey: form.NewIdentityPubKey, NewNotValidAfter: form.NewNotValidAfter}
	if err := form.FormSig.Verify(currentIdentityPK, data); err != nil {
		return ErrCertificateInvalid
	}
	return nil
}

// CandidateIdentity is a journalist vault's locally persisted identity key
// pair between generation and publication (§4.2 "Identity keys
// (Journalist)", §9 "Vault setup bundle"). Candidate state is distinct from
// published state.
type CandidateIdentity[IdRole Role] struct {
	KeyPair       *crypto.SigningKeyPair
	NotValidAfter time.Time
}

// Promote converts a published candidate into a VerifiedPublicKey once the
// Identity API has countersigned it, using registry to assign the epoch.
// Returns ErrNoCandidateIdentity if the candidate holds no key pair. cert is
// attached as given: it is not checked against the candidate's public key
// or any parent key.
func (c CandidateIdentity[IdRole]) Promote(cert Certificate[IdRole], registry *Registry) (VerifiedPublicKey[IdRole], error) {
	if c.KeyPair == nil {
		return VerifiedPublicKey[IdRole]{}, ErrNoCandidateIdentity
	}
	var pub [32]byte
	copy(pub[:], c.KeyPair.Public)

	untrusted := UntrustedPublicKey[IdRole]{Bytes: pub, Cert: cert, NotValidAfter: c.NotValidAfter}
	epoch := registry.Insert(untrusted.Bytes)

	return VerifiedPublicKey[IdRole]{
		Bytes:         untrusted.Bytes,
		Cert:          untrusted.Cert,
		NotValidAfter: untrusted.NotValidAfter,
		Epoch:         epoch,
	}, nil
}
