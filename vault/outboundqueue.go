package vault

import (
	"context"
	"database/sql"
	"errors"
)

// ErrQueueEmpty is returned by Peek/Pop when the outbound queue has no
// entries.
var ErrQueueEmpty = errors.New("vault: outbound queue is empty")

// QueuedMessage is one persisted entry in the FIFO outbound queue (§3.8):
// an already-encrypted-to-CoverNode message waiting for the next
// cover-emission slot.
type QueuedMessage struct {
	ID        int64
	Direction string // "u2c" or "j2c"
	Payload   []byte
}

// Enqueue appends msg to the tail of the outbound queue, persisted
// immediately so it survives a restart (§3.8 "persisted, survives
// restarts").
func (v *Vault) Enqueue(ctx context.Context, direction string, payload []byte, enqueuedAtUnix int64) error {
	return v.WithWriteTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO outbound_queue (direction, payload, enqueued_at) VALUES (?, ?, ?)`,
			direction, payload, enqueuedAtUnix)
		return err
	})
}

// Peek returns the head of the queue without removing it.
func (v *Vault) Peek(ctx context.Context) (QueuedMessage, error) {
	row := v.db.QueryRowContext(ctx,
		`SELECT id, direction, payload FROM outbound_queue ORDER BY id ASC LIMIT 1`)

	var m QueuedMessage
	if err := row.Scan(&m.ID, &m.Direction, &m.Payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return QueuedMessage{}, ErrQueueEmpty
		}
		return QueuedMessage{}, err
	}
	return m, nil
}

// Pop removes and returns the head of the queue under a write transaction,
// so that "only one worker may pop at a time" (§5) holds even if multiple
// goroutines race to drain the queue.
func (v *Vault) Pop(ctx context.Context) (QueuedMessage, error) {
	var popped QueuedMessage
	err := v.WithWriteTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx,
			`SELECT id, direction, payload FROM outbound_queue ORDER BY id ASC LIMIT 1`)
		if err := row.Scan(&popped.ID, &popped.Direction, &popped.Payload); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrQueueEmpty
			}
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM outbound_queue WHERE id = ?`, popped.ID)
		return err
	})
	if err != nil {
		return QueuedMessage{}, err
	}
	return popped, nil
}

// Len reports how many messages are currently queued.
func (v *Vault) Len(ctx context.Context) (int, error) {
	row := v.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM outbound_queue`)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
