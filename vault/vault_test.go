package vault

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestVault(t *testing.T) *Vault {
	t.Helper()
	v, err := Open(context.Background(), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = v.Close() })
	return v
}

func TestOpenCreatesEmptySchema(t *testing.T) {
	v := openTestVault(t)

	n, err := v.Len(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, n)

	has, err := v.HasSetupBundle(context.Background())
	require.NoError(t, err)
	require.False(t, has)
}

func TestWithWriteTxRollsBackOnError(t *testing.T) {
	v := openTestVault(t)
	ctx := context.Background()

	sentinel := errors.New("boom")
	err := v.WithWriteTx(ctx, func(tx *sql.Tx) error {
		_, execErr := tx.ExecContext(ctx,
			`INSERT INTO outbound_queue (direction, payload, enqueued_at) VALUES ('u2c', 'x', 0)`)
		require.NoError(t, execErr)
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	n, lenErr := v.Len(ctx)
	require.NoError(t, lenErr)
	require.Equal(t, 0, n, "write inside a rolled-back transaction must not persist")
}

func TestWithWriteTxCommitsOnSuccess(t *testing.T) {
	v := openTestVault(t)
	ctx := context.Background()

	err := v.WithWriteTx(ctx, func(tx *sql.Tx) error {
		_, execErr := tx.ExecContext(ctx,
			`INSERT INTO outbound_queue (direction, payload, enqueued_at) VALUES ('u2c', 'x', 0)`)
		return execErr
	})
	require.NoError(t, err)

	n, lenErr := v.Len(ctx)
	require.NoError(t, lenErr)
	require.Equal(t, 1, n)
}
