package protocol

import (
	"testing"

	"github.com/guardian/coverdrop-core/crypto"
	"github.com/stretchr/testify/require"
)

func TestJournalistToUserTextRoundTrip(t *testing.T) {
	journalist, err := crypto.GenerateEncryptionKeyPair()
	require.NoError(t, err)
	user, err := crypto.GenerateEncryptionKeyPair()
	require.NoError(t, err)

	text, err := crypto.NewFixedSizeMessageText("reply from journalist", journalistToUserPayloadLen)
	require.NoError(t, err)
	msg := NewJournalistToUserTextMessage(text)

	sealed, err := EncryptJournalistToUser(user.Public, journalist.Private, msg)
	require.NoError(t, err)
	require.Len(t, sealed.Bytes(), JournalistToUserEncryptedMessageLen)

	opened, err := DecryptJournalistToUser(sealed, journalist.Public, user.Private)
	require.NoError(t, err)

	openedText, ok := opened.AsText()
	require.True(t, ok)
	plaintext, err := openedText.ToString()
	require.NoError(t, err)
	require.Equal(t, "reply from journalist", plaintext)
}

func TestJournalistToUserHandOverRoundTrip(t *testing.T) {
	journalist, err := crypto.GenerateEncryptionKeyPair()
	require.NoError(t, err)
	user, err := crypto.GenerateEncryptionKeyPair()
	require.NoError(t, err)

	msg, err := NewJournalistToUserHandOver("another_journalist")
	require.NoError(t, err)

	sealed, err := EncryptJournalistToUser(user.Public, journalist.Private, msg)
	require.NoError(t, err)
	require.Len(t, sealed.Bytes(), JournalistToUserEncryptedMessageLen)

	opened, err := DecryptJournalistToUser(sealed, journalist.Public, user.Private)
	require.NoError(t, err)

	target, ok := opened.AsHandOver()
	require.True(t, ok)
	require.Equal(t, "another_journalist", target)
}

func TestJournalistToUserTextAndHandOverAreSameLength(t *testing.T) {
	text, err := crypto.NewFixedSizeMessageText("short", journalistToUserPayloadLen)
	require.NoError(t, err)
	textMsg := NewJournalistToUserTextMessage(text)
	textBytes, err := textMsg.MarshalBinary()
	require.NoError(t, err)

	handOverMsg, err := NewJournalistToUserHandOver("j")
	require.NoError(t, err)
	handOverBytes, err := handOverMsg.MarshalBinary()
	require.NoError(t, err)

	require.Len(t, textBytes, J2UPlaintextLen)
	require.Len(t, handOverBytes, J2UPlaintextLen)
}

func TestNewJournalistToUserHandOverRejectsTooLong(t *testing.T) {
	long := make([]byte, MaxJournalistIdentityLen)
	for i := range long {
		long[i] = 'a'
	}
	_, err := NewJournalistToUserHandOver(string(long))
	require.Error(t, err)
}
