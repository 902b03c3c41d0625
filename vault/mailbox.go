package vault

import (
	"context"
	"database/sql"

	"github.com/guardian/coverdrop-core/keys"
)

// MaxMailboxMessages is the user mailbox's fixed capacity
// (MAX_MAILBOX_MESSAGES in original_source's
// common/src/client/mailbox/user_mailbox.rs). Once full, appending a new
// message evicts the oldest one (§9 open question: "semantics on
// wraparound are drop oldest").
const MaxMailboxMessages = 128

// MailboxMessageDirection mirrors the original MessageSender tagging on a
// MailboxMessage: which way the message travelled.
type MailboxMessageDirection string

const (
	MailboxMessageToJournalist MailboxMessageDirection = "to_journalist"
	MailboxMessageToUser       MailboxMessageDirection = "to_user"
)

// MailboxMessage is one entry of a user's local mailbox (§3.1 Mailbox
// role): a fixed-size plaintext message exchanged with one journalist,
// the counterparty reply key the message is addressed to or from, and
// bookkeeping fields mirroring the original's read/is_sent flags.
type MailboxMessage struct {
	ID           int64
	Direction    MailboxMessageDirection
	JournalistID string
	UserKey      keys.RoleTaggedKey[keys.Mailbox]
	Message      []byte
	ReceivedAt   int64
	Read         bool
	IsSent       bool
}

// AppendMailboxMessage inserts msg and, in the same transaction, trims
// the mailbox back down to MaxMailboxMessages by dropping the oldest
// rows beyond that limit. Running the insert and the trim under one
// WithWriteTx makes the wraparound atomic: the original leaves wrap
// atomicity undefined (§9 open question), so a crash here can never
// leave the mailbox holding more than MaxMailboxMessages rows, nor lose
// the message that was just appended.
func (v *Vault) AppendMailboxMessage(ctx context.Context, msg MailboxMessage) error {
	return v.WithWriteTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO mailbox_messages (direction, journalist_id, user_key, message, received_at, read, is_sent)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			string(msg.Direction), msg.JournalistID, msg.UserKey.Bytes[:], msg.Message, msg.ReceivedAt, msg.Read, msg.IsSent)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`DELETE FROM mailbox_messages WHERE id NOT IN (
				SELECT id FROM mailbox_messages ORDER BY id DESC LIMIT ?
			 )`, MaxMailboxMessages)
		return err
	})
}

// ListMailboxMessages returns every message currently retained, oldest
// first.
func (v *Vault) ListMailboxMessages(ctx context.Context) ([]MailboxMessage, error) {
	rows, err := v.db.QueryContext(ctx,
		`SELECT id, direction, journalist_id, user_key, message, received_at, read, is_sent
		 FROM mailbox_messages ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MailboxMessage
	for rows.Next() {
		var (
			m       MailboxMessage
			dir     string
			userKey []byte
		)
		if err := rows.Scan(&m.ID, &dir, &m.JournalistID, &userKey, &m.Message, &m.ReceivedAt, &m.Read, &m.IsSent); err != nil {
			return nil, err
		}
		m.Direction = MailboxMessageDirection(dir)
		copy(m.UserKey.Bytes[:], userKey)
		out = append(out, m)
	}
	return out, rows.Err()
}

// MailboxLen reports how many messages the mailbox currently retains.
// It never exceeds MaxMailboxMessages.
func (v *Vault) MailboxLen(ctx context.Context) (int, error) {
	row := v.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM mailbox_messages`)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
