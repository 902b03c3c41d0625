package keys

import (
	"testing"
	"time"

	"github.com/guardian/coverdrop-core/crypto"
	"github.com/stretchr/testify/require"
)

func TestAnchorSelfSignedVerifiesAndPromotes(t *testing.T) {
	org, err := crypto.GenerateSigningKeyPair()
	require.NoError(t, err)

	var pub [32]byte
	copy(pub[:], org.Public)
	notValidAfter := time.Now().Add(24 * time.Hour)
	selfCert := IssueCertificate[Organization](org.Private, pub, notValidAfter)

	untrusted := UntrustedOrganizationPublicKey{Bytes: pub, SelfCert: selfCert, NotValidAfter: notValidAfter}
	require.NoError(t, untrusted.VerifySelfSigned(time.Now()))

	anchor := PromoteToAnchor(untrusted)
	require.Equal(t, pub, anchor.Bytes)
}

func TestAnchorSelfSignedRejectsExpired(t *testing.T) {
	org, err := crypto.GenerateSigningKeyPair()
	require.NoError(t, err)

	var pub [32]byte
	copy(pub[:], org.Public)
	notValidAfter := time.Now().Add(-time.Hour)
	selfCert := IssueCertificate[Organization](org.Private, pub, notValidAfter)

	untrusted := UntrustedOrganizationPublicKey{Bytes: pub, SelfCert: selfCert, NotValidAfter: notValidAfter}
	require.ErrorIs(t, untrusted.VerifySelfSigned(time.Now()), ErrExpired)
}

func TestAnchorSelfSignedRejectsForgedSignature(t *testing.T) {
	org, err := crypto.GenerateSigningKeyPair()
	require.NoError(t, err)
	other, err := crypto.GenerateSigningKeyPair()
	require.NoError(t, err)

	var pub [32]byte
	copy(pub[:], org.Public)
	notValidAfter := time.Now().Add(time.Hour)
	forgedCert := IssueCertificate[Organization](other.Private, pub, notValidAfter)

	untrusted := UntrustedOrganizationPublicKey{Bytes: pub, SelfCert: forgedCert, NotValidAfter: notValidAfter}
	require.ErrorIs(t, untrusted.VerifySelfSigned(time.Now()), ErrCertificateInvalid)
}
