package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func threeRecipients(t *testing.T) ([]*EncryptionKeyPair, [][32]byte) {
	t.Helper()
	kps := make([]*EncryptionKeyPair, 3)
	pks := make([][32]byte, 3)
	for i := range kps {
		kp, err := GenerateEncryptionKeyPair()
		require.NoError(t, err)
		kps[i] = kp
		pks[i] = kp.Public
	}
	return kps, pks
}

func TestMultiAnonymousBoxEveryRecipientDecrypts(t *testing.T) {
	kps, pks := threeRecipients(t)

	sealed, err := SealMultiAnonymous[rawBytes](pks, rawBytes("to all covernodes"))
	require.NoError(t, err)

	for i, kp := range kps {
		opened, err := OpenMultiAnonymous(sealed, i, kp.Private, decodeRawBytes)
		require.NoError(t, err)
		require.Equal(t, "to all covernodes", string(opened))
	}
}

func TestMultiAnonymousBoxAnySlot(t *testing.T) {
	kps, pks := threeRecipients(t)

	sealed, err := SealMultiAnonymous[rawBytes](pks, rawBytes("payload"))
	require.NoError(t, err)

	opened, slot, err := OpenMultiAnonymousAnySlot(sealed, kps[2].Private, decodeRawBytes)
	require.NoError(t, err)
	require.Equal(t, 2, slot)
	require.Equal(t, "payload", string(opened))
}

func TestMultiAnonymousBoxUnknownKeyFails(t *testing.T) {
	_, pks := threeRecipients(t)
	outsider, err := GenerateEncryptionKeyPair()
	require.NoError(t, err)

	sealed, err := SealMultiAnonymous[rawBytes](pks, rawBytes("payload"))
	require.NoError(t, err)

	_, _, err = OpenMultiAnonymousAnySlot(sealed, outsider.Private, decodeRawBytes)
	require.ErrorIs(t, err, ErrMultiAnonymousBoxOpenFailed)
}

func TestMultiAnonymousBoxPaddingSetsSlotCount(t *testing.T) {
	_, pks := threeRecipients(t)
	// Pad to a fixed slot count by repeating the first key, per
	// COVERNODE_WRAPPING_KEY_COUNT semantics.
	padded := append(append([][32]byte{}, pks...), pks[0], pks[0])

	a, err := SealMultiAnonymous[rawBytes](padded, rawBytes("x"))
	require.NoError(t, err)
	b, err := SealMultiAnonymous[rawBytes](pks, rawBytes("x"))
	require.NoError(t, err)

	require.Len(t, a.WrappedKeys, 5)
	require.Len(t, b.WrappedKeys, 3)
}
