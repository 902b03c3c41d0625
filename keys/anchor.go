package keys

import (
	"crypto/ed25519"
	"time"
)

// AnchorOrganizationPublicKey is a verified Organization key promoted to a
// trust root. Promotion is one-way: anchors may be dropped but a new key
// becomes an anchor only via explicit provisioning or TOFU adoption (§3.2).
type AnchorOrganizationPublicKey struct {
	Bytes         [32]byte
	NotValidAfter time.Time
}

// PublicKey returns the anchor's bytes as an ed25519.PublicKey, suitable as
// the parent key for verifying CoverNodeProvisioning and
// JournalistProvisioning certificates.
func (a AnchorOrganizationPublicKey) PublicKey() ed25519.PublicKey {
	return ed25519.PublicKey(a.Bytes[:])
}

// UntrustedOrganizationPublicKey is an Organization key claiming to be
// self-signed, not yet adopted as an anchor.
type UntrustedOrganizationPublicKey struct {
	Bytes         [32]byte
	SelfCert      Certificate[Organization]
	NotValidAfter time.Time
}

// VerifySelfSigned checks that u's certificate was produced by u's own
// secret key — the shape every AnchorOrganization certificate has, since
// the root has no parent above it.
func (u UntrustedOrganizationPublicKey) VerifySelfSigned(now time.Time) error {
	data := KeyCertificateData{PubKeyBytes: u.Bytes, NotValidAfter: u.NotValidAfter}
	if err := u.SelfCert.Sig.Verify(ed25519.PublicKey(u.Bytes[:]), data); err != nil {
		return ErrCertificateInvalid
	}
	if now.After(u.NotValidAfter) {
		return ErrExpired
	}
	return nil
}

// PromoteToAnchor adopts a self-signed-and-verified Organization key as a
// trust anchor. Callers MUST have verified the self-signature (ceremony
// output) or be performing an explicit TOFU adoption (TOFUAdopt) first.
func PromoteToAnchor(u UntrustedOrganizationPublicKey) AnchorOrganizationPublicKey {
	return AnchorOrganizationPublicKey{Bytes: u.Bytes, NotValidAfter: u.NotValidAfter}
}

// TOFUAdopt promotes an as-yet-unverified Organization key to an anchor on
// trust-on-first-use grounds: there is no prior anchor to verify against.
// Once an anchor set exists, further anchor changes require explicit
// ceremony output (§4.2 "TOFU and anchors"), not another call to this
// function.
func TOFUAdopt(u UntrustedOrganizationPublicKey) AnchorOrganizationPublicKey {
	return AnchorOrganizationPublicKey{Bytes: u.Bytes, NotValidAfter: u.NotValidAfter}
}
