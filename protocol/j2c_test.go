package protocol

import (
	"testing"

	"github.com/guardian/coverdrop-core/crypto"
	"github.com/stretchr/testify/require"
)

func TestJ2CRoundTripRealMessage(t *testing.T) {
	covernodePKs, covernodeSKs := threeCoverNodeKeys(t)
	journalist, err := crypto.GenerateEncryptionKeyPair()
	require.NoError(t, err)
	user, err := crypto.GenerateEncryptionKeyPair()
	require.NoError(t, err)

	text, err := crypto.NewFixedSizeMessageText("reply", journalistToUserPayloadLen)
	require.NoError(t, err)
	inner, err := EncryptJournalistToUser(user.Public, journalist.Private, NewJournalistToUserTextMessage(text))
	require.NoError(t, err)

	outer, err := EncryptJournalistToCoverNodeReal(covernodePKs, inner)
	require.NoError(t, err)
	require.Len(t, outer.Bytes(), J2CEncryptedMessageLen)

	decrypted, rank, err := DecryptJournalistToCoverNode(outer, [][32]byte{covernodeSKs[0]})
	require.NoError(t, err)
	require.Equal(t, 0, rank)
	require.True(t, decrypted.IsReal)

	opened, err := DecryptUserDeadDropMessage(decrypted.Inner, journalist.Public, user.Private)
	require.NoError(t, err)
	openedText, ok := opened.AsText()
	require.True(t, ok)
	plaintext, err := openedText.ToString()
	require.NoError(t, err)
	require.Equal(t, "reply", plaintext)
}

func TestJ2CCoverIsTaggedAndConstantSize(t *testing.T) {
	covernodePKs, covernodeSKs := threeCoverNodeKeys(t)

	cover, err := NewRandomEncryptedJournalistToCoverNodeMessage(covernodePKs)
	require.NoError(t, err)
	require.Len(t, cover.Bytes(), J2CEncryptedMessageLen)

	decrypted, _, err := DecryptJournalistToCoverNode(cover, [][32]byte{covernodeSKs[0]})
	require.NoError(t, err)
	require.False(t, decrypted.IsReal)
}

func TestDecryptUserDeadDropMessageFailsSilentlyForCover(t *testing.T) {
	journalist, err := crypto.GenerateEncryptionKeyPair()
	require.NoError(t, err)
	user, err := crypto.GenerateEncryptionKeyPair()
	require.NoError(t, err)

	cover, err := NewRandomEncryptedJournalistToUserMessage()
	require.NoError(t, err)

	_, err = DecryptUserDeadDropMessage(cover, journalist.Public, user.Private)
	require.ErrorIs(t, err, ErrDecryptFailed)
}
