package protocol

import (
	"testing"

	"github.com/guardian/coverdrop-core/crypto"
	"github.com/stretchr/testify/require"
)

func TestUserToJournalistRoundTrip(t *testing.T) {
	journalist, err := crypto.GenerateEncryptionKeyPair()
	require.NoError(t, err)
	user, err := crypto.GenerateEncryptionKeyPair()
	require.NoError(t, err)

	text, err := crypto.NewFixedSizeMessageText("hello from a source", MessagePaddingLen)
	require.NoError(t, err)

	sealed, err := EncryptUserToJournalist(journalist.Public, UserToJournalistMessage{ReplyKey: user.Public, Message: text})
	require.NoError(t, err)
	require.Len(t, sealed.Bytes(), U2JEncryptedMessageLen)

	opened, err := DecryptUserToJournalist(sealed, journalist.Private)
	require.NoError(t, err)
	require.Equal(t, user.Public, opened.ReplyKey)

	plaintext, err := opened.Message.ToString()
	require.NoError(t, err)
	require.Equal(t, "hello from a source", plaintext)
}

func TestUserToJournalistWrongKeyFails(t *testing.T) {
	journalist, err := crypto.GenerateEncryptionKeyPair()
	require.NoError(t, err)
	other, err := crypto.GenerateEncryptionKeyPair()
	require.NoError(t, err)
	user, err := crypto.GenerateEncryptionKeyPair()
	require.NoError(t, err)

	text, err := crypto.NewFixedSizeMessageText("x", MessagePaddingLen)
	require.NoError(t, err)

	sealed, err := EncryptUserToJournalist(journalist.Public, UserToJournalistMessage{ReplyKey: user.Public, Message: text})
	require.NoError(t, err)

	_, err = DecryptUserToJournalist(sealed, other.Private)
	require.Error(t, err)
}

func TestRandomEncryptedUserToJournalistMessageIsConstantSizeAndFresh(t *testing.T) {
	a, err := NewRandomEncryptedUserToJournalistMessage()
	require.NoError(t, err)
	b, err := NewRandomEncryptedUserToJournalistMessage()
	require.NoError(t, err)

	require.Len(t, a.Bytes(), U2JEncryptedMessageLen)
	require.Len(t, b.Bytes(), U2JEncryptedMessageLen)
	require.NotEqual(t, a.Bytes(), b.Bytes())
}

// TestEmptyCoverEncryptionE1 covers scenario E1: two independently generated
// cover U2J ciphertexts, built from freshly generated ephemeral keys, are
// constant-size and differ from one another.
func TestEmptyCoverEncryptionE1(t *testing.T) {
	journalist, err := crypto.GenerateEncryptionKeyPair()
	require.NoError(t, err)
	user, err := crypto.GenerateEncryptionKeyPair()
	require.NoError(t, err)

	empty, err := crypto.NewFixedSizeMessageText("", MessagePaddingLen)
	require.NoError(t, err)

	run1, err := EncryptUserToJournalist(journalist.Public, UserToJournalistMessage{ReplyKey: user.Public, Message: empty})
	require.NoError(t, err)
	run2, err := EncryptUserToJournalist(journalist.Public, UserToJournalistMessage{ReplyKey: user.Public, Message: empty})
	require.NoError(t, err)

	require.Len(t, run1.Bytes(), U2JEncryptedMessageLen)
	require.Len(t, run2.Bytes(), U2JEncryptedMessageLen)
	require.NotEqual(t, run1.Bytes(), run2.Bytes())
}
