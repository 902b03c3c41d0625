package keys

import (
	"testing"
	"time"

	"github.com/guardian/coverdrop-core/crypto"
	"github.com/stretchr/testify/require"
)

func TestCertificateBytesRoundTrip(t *testing.T) {
	parent, err := crypto.GenerateSigningKeyPair()
	require.NoError(t, err)

	child := [32]byte{7, 7, 7}
	notValidAfter := time.Now().Add(time.Hour).Truncate(time.Second)

	cert := IssueCertificate[JournalistId](parent.Private, child, notValidAfter)

	reloaded, err := CertificateFromBytes[JournalistId](func() []byte {
		b := cert.CertificateBytes()
		return b[:]
	}())
	require.NoError(t, err)

	data := KeyCertificateData{PubKeyBytes: child, NotValidAfter: notValidAfter}
	require.NoError(t, reloaded.Sig.Verify(parent.Public, data))
}

func TestCertificateRejectsWrongRoleData(t *testing.T) {
	parent, err := crypto.GenerateSigningKeyPair()
	require.NoError(t, err)

	child := [32]byte{1}
	notValidAfter := time.Now().Add(time.Hour).Truncate(time.Second)
	cert := IssueCertificate[JournalistId](parent.Private, child, notValidAfter)

	wrongData := KeyCertificateData{PubKeyBytes: [32]byte{2}, NotValidAfter: notValidAfter}
	require.Error(t, cert.Sig.Verify(parent.Public, wrongData))
}
