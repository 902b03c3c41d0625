package vault

import (
	"context"
	"database/sql"
	"errors"
)

// ErrNoSetupBundle is returned by LoadSetupBundle when no bundle has been
// installed yet.
var ErrNoSetupBundle = errors.New("vault: no setup bundle installed")

// SetupBundle is the one-time credential package a journalist client
// consumes on first connection (§3.9): an identity key pair, the signed
// certificate over its public half, and the registration form used to
// introduce the key to the newsroom's key hierarchy.
type SetupBundle struct {
	IdentityPublicKey [32]byte
	IdentitySecretKey [64]byte
	CertificateForm   []byte
	RegistrationForm  []byte
}

// ApplySetupBundle stores bundle, replacing any bundle already present.
// A fresh install and a re-install both succeed; the vault always holds at
// most one bundle, and the most recently installed one wins (§3.9
// "idempotent-by-replacement").
func (v *Vault) ApplySetupBundle(ctx context.Context, bundle SetupBundle) error {
	return v.WithWriteTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO setup_bundle (id, identity_public_key, identity_secret_key, certificate_form, registration_form)
			 VALUES (1, ?, ?, ?, ?)
			 ON CONFLICT (id) DO UPDATE SET
			   identity_public_key = excluded.identity_public_key,
			   identity_secret_key = excluded.identity_secret_key,
			   certificate_form = excluded.certificate_form,
			   registration_form = excluded.registration_form`,
			bundle.IdentityPublicKey[:], bundle.IdentitySecretKey[:], bundle.CertificateForm, bundle.RegistrationForm)
		return err
	})
}

// LoadSetupBundle returns the installed bundle, or ErrNoSetupBundle if
// none has been installed.
func (v *Vault) LoadSetupBundle(ctx context.Context) (SetupBundle, error) {
	row := v.db.QueryRowContext(ctx,
		`SELECT identity_public_key, identity_secret_key, certificate_form, registration_form
		 FROM setup_bundle WHERE id = 1`)

	var (
		bundle   SetupBundle
		pub, sec []byte
	)
	if err := row.Scan(&pub, &sec, &bundle.CertificateForm, &bundle.RegistrationForm); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SetupBundle{}, ErrNoSetupBundle
		}
		return SetupBundle{}, err
	}
	copy(bundle.IdentityPublicKey[:], pub)
	copy(bundle.IdentitySecretKey[:], sec)
	return bundle, nil
}

// HasSetupBundle reports whether a bundle has been installed, used by a
// fresh client to decide whether it still needs to consume one (§3.9
// "consumes it exactly once on first connection").
func (v *Vault) HasSetupBundle(ctx context.Context) (bool, error) {
	row := v.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM setup_bundle WHERE id = 1`)
	var n int
	if err := row.Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}
