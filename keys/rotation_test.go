package keys

import (
	"testing"
	"time"

	"github.com/guardian/coverdrop-core/crypto"
	"github.com/stretchr/testify/require"
)

func TestValidityWindowValidate(t *testing.T) {
	ok := ValidityWindow{ValidFor: 2 * time.Hour, RotateAfterAge: time.Hour}
	require.NoError(t, ok.Validate())

	bad := ValidityWindow{ValidFor: time.Hour, RotateAfterAge: time.Hour}
	require.Error(t, bad.Validate())
}

func TestValidityWindowShouldRotate(t *testing.T) {
	w := ValidityWindow{ValidFor: 2 * time.Hour, RotateAfterAge: time.Hour}
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.False(t, w.ShouldRotate(created, created.Add(30*time.Minute)))
	require.True(t, w.ShouldRotate(created, created.Add(90*time.Minute)))
}

func TestRotateMessagingKeyCertifiesWithIdentity(t *testing.T) {
	identity, err := crypto.GenerateSigningKeyPair()
	require.NoError(t, err)

	notValidAfter := time.Now().Add(24 * time.Hour)
	_, untrusted, err := RotateMessagingKey[JournalistMessaging](identity.Private, notValidAfter)
	require.NoError(t, err)

	registry := NewRegistry()
	verified, err := Verify[JournalistMessaging](identity.Public, untrusted, time.Now(), registry)
	require.NoError(t, err)
	require.Equal(t, untrusted.Bytes, verified.Bytes)
}

func TestRotationFormRoundTrip(t *testing.T) {
	current, err := crypto.GenerateSigningKeyPair()
	require.NoError(t, err)

	notValidAfter := time.Now().Add(24 * time.Hour)
	_, form, err := BuildRotationForm[JournalistId](current.Private, notValidAfter)
	require.NoError(t, err)

	require.NoError(t, VerifyRotationForm[JournalistId](current.Public, form))
}

func TestRotationFormRejectsWrongIdentity(t *testing.T) {
	current, err := crypto.GenerateSigningKeyPair()
	require.NoError(t, err)
	other, err := crypto.GenerateSigningKeyPair()
	require.NoError(t, err)

	_, form, err := BuildRotationForm[JournalistId](current.Private, time.Now().Add(time.Hour))
	require.NoError(t, err)

	require.ErrorIs(t, VerifyRotationForm[JournalistId](other.Public, form), ErrCertificateInvalid)
}

func TestCandidateIdentityPromote(t *testing.T) {
	parent, err := crypto.GenerateSigningKeyPair()
	require.NoError(t, err)

	candidate, err := crypto.GenerateSigningKeyPair()
	require.NoError(t, err)

	notValidAfter := time.Now().Add(24 * time.Hour)
	var pub [32]byte
	copy(pub[:], candidate.Public)
	cert := IssueCertificate[JournalistId](parent.Private, pub, notValidAfter)

	ci := CandidateIdentity[JournalistId]{KeyPair: candidate, NotValidAfter: notValidAfter}
	registry := NewRegistry()

	verified, err := ci.Promote(cert, registry)
	require.NoError(t, err)
	require.Equal(t, pub, verified.Bytes)
	require.Equal(t, uint64(0), verified.Epoch)

	again, err := ci.Promote(cert, registry)
	require.NoError(t, err)
	require.Equal(t, verified.Epoch, again.Epoch)
}
