package vault

import (
	"context"
	"database/sql"
	"time"
)

// GC deletes outbound_queue entries older than olderThan. It exists as a
// hook for the vault-GC task described alongside the rotation, poll, and
// send tasks (§5): a queue entry outlives olderThan only if the send task
// has been unable to drain it, and is dropped rather than retained
// indefinitely.
func (v *Vault) GC(ctx context.Context, now time.Time, olderThan time.Duration) (int64, error) {
	cutoff := now.Add(-olderThan).Unix()

	var affected int64
	err := v.WithWriteTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM outbound_queue WHERE enqueued_at < ?`, cutoff)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}
