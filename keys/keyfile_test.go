package keys

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/guardian/coverdrop-core/crypto"
	"github.com/stretchr/testify/require"
)

func verifiedTestKey(t *testing.T) (VerifiedPublicKey[JournalistId], *crypto.SigningKeyPair) {
	t.Helper()

	parent, err := crypto.GenerateSigningKeyPair()
	require.NoError(t, err)

	child, err := crypto.GenerateSigningKeyPair()
	require.NoError(t, err)

	var pub [32]byte
	copy(pub[:], child.Public)
	notValidAfter := time.Now().Add(24 * time.Hour)
	cert := IssueCertificate[JournalistId](parent.Private, pub, notValidAfter)

	untrusted := UntrustedPublicKey[JournalistId]{Bytes: pub, Cert: cert, NotValidAfter: notValidAfter}
	verified, err := Verify[JournalistId](parent.Public, untrusted, time.Now(), NewRegistry())
	require.NoError(t, err)

	return verified, child
}

func TestKeyFileRoundTripPublicOnly(t *testing.T) {
	verified, _ := verifiedTestKey(t)
	f := NewPublicKeyFile(verified)

	dir := t.TempDir()
	path := filepath.Join(dir, "journalist_id.json")
	require.NoError(t, WriteKeyFile(path, f))

	loaded, err := LoadKeyFile[JournalistId](path)
	require.NoError(t, err)

	untrusted, secret, err := loaded.Decode()
	require.NoError(t, err)
	require.Nil(t, secret)
	require.Equal(t, verified.Bytes, untrusted.Bytes)
}

func TestKeyFileRoundTripWithSecret(t *testing.T) {
	verified, child := verifiedTestKey(t)
	f := NewSecretKeyFile(verified, child.Private)

	dir := t.TempDir()
	path := filepath.Join(dir, "journalist_id_secret.json")
	require.NoError(t, WriteKeyFile(path, f))

	loaded, err := LoadKeyFile[JournalistId](path)
	require.NoError(t, err)

	_, secret, err := loaded.Decode()
	require.NoError(t, err)
	require.Equal(t, []byte(child.Private), secret)
}

func TestKeyFileNotValidAfterIsRFC3339UTCOnDisk(t *testing.T) {
	verified, _ := verifiedTestKey(t)
	f := NewPublicKeyFile(verified)

	parsed, err := time.Parse(time.RFC3339, f.NotValidAfter)
	require.NoError(t, err)
	require.WithinDuration(t, verified.NotValidAfter.UTC(), parsed.UTC(), time.Second)
	require.Equal(t, "Z", f.NotValidAfter[len(f.NotValidAfter)-1:], "must be UTC (Z-suffixed)")
}

func TestLoadKeyFileRejectsWidePermissions(t *testing.T) {
	verified, _ := verifiedTestKey(t)
	f := NewPublicKeyFile(verified)

	dir := t.TempDir()
	path := filepath.Join(dir, "wide.json")
	require.NoError(t, WriteKeyFile(path, f))
	require.NoError(t, os.Chmod(path, 0o644))

	_, err := LoadKeyFile[JournalistId](path)
	require.ErrorIs(t, err, ErrPermissionsTooOpen)

	_, err = LoadSkippingPermissionsCheck[JournalistId](path)
	require.NoError(t, err)
}
