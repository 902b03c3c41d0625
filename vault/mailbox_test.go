package vault

import (
	"context"
	"testing"

	"github.com/guardian/coverdrop-core/keys"
	"github.com/stretchr/testify/require"
)

func mustAppendMailboxMessage(t *testing.T, v *Vault, text string, receivedAt int64) {
	t.Helper()
	require.NoError(t, v.AppendMailboxMessage(context.Background(), MailboxMessage{
		Direction:    MailboxMessageToUser,
		JournalistID: "jane",
		UserKey:      keys.RoleTaggedKey[keys.Mailbox]{Bytes: [32]byte{1, 2, 3}},
		Message:      []byte(text),
		ReceivedAt:   receivedAt,
		Read:         false,
		IsSent:       false,
	}))
}

func TestAppendMailboxMessageRoundTrips(t *testing.T) {
	v := openTestVault(t)
	ctx := context.Background()

	mustAppendMailboxMessage(t, v, "hello", 100)

	n, err := v.MailboxLen(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	msgs, err := v.ListMailboxMessages(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, "hello", string(msgs[0].Message))
	require.Equal(t, "jane", msgs[0].JournalistID)
	require.Equal(t, MailboxMessageToUser, msgs[0].Direction)
	require.Equal(t, [32]byte{1, 2, 3}, msgs[0].UserKey.Bytes)
}

func TestAppendMailboxMessageDropsOldestPastCapacity(t *testing.T) {
	v := openTestVault(t)
	ctx := context.Background()

	for i := 0; i < MaxMailboxMessages+10; i++ {
		mustAppendMailboxMessage(t, v, "msg", int64(i))
	}

	n, err := v.MailboxLen(ctx)
	require.NoError(t, err)
	require.Equal(t, MaxMailboxMessages, n, "mailbox must never exceed its fixed capacity")

	msgs, err := v.ListMailboxMessages(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, MaxMailboxMessages)

	// The surviving messages are the most recently appended ones: the
	// oldest 10 (received_at 0..9) were dropped.
	require.Equal(t, int64(10), msgs[0].ReceivedAt)
	require.Equal(t, int64(MaxMailboxMessages+9), msgs[len(msgs)-1].ReceivedAt)
}

func TestAppendMailboxMessageWraparoundIsAtomic(t *testing.T) {
	v := openTestVault(t)
	ctx := context.Background()

	for i := 0; i < MaxMailboxMessages; i++ {
		mustAppendMailboxMessage(t, v, "msg", int64(i))
	}

	// Appending one more message that triggers the trim must leave the
	// mailbox at exactly capacity, with the newest message present: the
	// insert and the trim run inside one WithWriteTx, so there is no
	// window where the mailbox is observed over capacity or missing the
	// just-appended message.
	mustAppendMailboxMessage(t, v, "newest", 9999)

	n, err := v.MailboxLen(ctx)
	require.NoError(t, err)
	require.Equal(t, MaxMailboxMessages, n)

	msgs, err := v.ListMailboxMessages(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(9999), msgs[len(msgs)-1].ReceivedAt)
}
