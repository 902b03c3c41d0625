package vault

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplySetupBundleThenLoad(t *testing.T) {
	v := openTestVault(t)
	ctx := context.Background()

	has, err := v.HasSetupBundle(ctx)
	require.NoError(t, err)
	require.False(t, has)

	bundle := SetupBundle{
		IdentityPublicKey: [32]byte{1, 2, 3},
		IdentitySecretKey: [64]byte{4, 5, 6},
		CertificateForm:   []byte("cert-form"),
		RegistrationForm:  []byte("registration-form"),
	}
	require.NoError(t, v.ApplySetupBundle(ctx, bundle))

	has, err = v.HasSetupBundle(ctx)
	require.NoError(t, err)
	require.True(t, has)

	loaded, err := v.LoadSetupBundle(ctx)
	require.NoError(t, err)
	require.Equal(t, bundle.IdentityPublicKey, loaded.IdentityPublicKey)
	require.Equal(t, bundle.IdentitySecretKey, loaded.IdentitySecretKey)
	require.Equal(t, bundle.CertificateForm, loaded.CertificateForm)
	require.Equal(t, bundle.RegistrationForm, loaded.RegistrationForm)
}

func TestApplySetupBundleReplacesExisting(t *testing.T) {
	v := openTestVault(t)
	ctx := context.Background()

	first := SetupBundle{
		IdentityPublicKey: [32]byte{1},
		IdentitySecretKey: [64]byte{1},
		CertificateForm:   []byte("first-cert"),
	}
	require.NoError(t, v.ApplySetupBundle(ctx, first))

	second := SetupBundle{
		IdentityPublicKey: [32]byte{2},
		IdentitySecretKey: [64]byte{2},
		CertificateForm:   []byte("second-cert"),
		RegistrationForm:  []byte("second-registration"),
	}
	require.NoError(t, v.ApplySetupBundle(ctx, second))

	loaded, err := v.LoadSetupBundle(ctx)
	require.NoError(t, err)
	require.Equal(t, second.IdentityPublicKey, loaded.IdentityPublicKey)
	require.Equal(t, second.CertificateForm, loaded.CertificateForm)
	require.Equal(t, second.RegistrationForm, loaded.RegistrationForm)
}

func TestLoadSetupBundleWithNoneInstalledReturnsErr(t *testing.T) {
	v := openTestVault(t)
	_, err := v.LoadSetupBundle(context.Background())
	require.ErrorIs(t, err, ErrNoSetupBundle)
}
