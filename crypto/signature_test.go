package crypto

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/require"
)

type payloadA struct {
	pk [32]byte
	ts int64
}

func (p payloadA) AsSignableBytes() []byte {
	out := make([]byte, 40)
	copy(out, p.pk[:])
	out[32] = byte(p.ts)
	return out
}

type payloadB struct {
	pk [32]byte
	ts int64
}

func (p payloadB) AsSignableBytes() []byte {
	// Deliberately produces the SAME bytes as payloadA for the same
	// fields, to prove the *type* tag — not the byte content — is what
	// prevents cross-type verification (testable property 6).
	out := make([]byte, 40)
	copy(out, p.pk[:])
	out[32] = byte(p.ts)
	return out
}

func TestSignatureRoundTrip(t *testing.T) {
	kp, err := GenerateSigningKeyPair()
	require.NoError(t, err)

	payload := payloadA{pk: [32]byte{1, 2, 3}, ts: 42}
	sig := Sign(kp.Private, payload)

	require.NoError(t, sig.Verify(kp.Public, payload))
}

// TestCertificateBinding covers testable property 5: a signature over one
// (pk, ts) pair must not verify against a substituted pk or ts.
func TestCertificateBinding(t *testing.T) {
	kp, err := GenerateSigningKeyPair()
	require.NoError(t, err)

	original := payloadA{pk: [32]byte{1, 2, 3}, ts: 42}
	sig := Sign(kp.Private, original)

	substitutedPK := payloadA{pk: [32]byte{9, 9, 9}, ts: 42}
	require.Error(t, sig.Verify(kp.Public, substitutedPK))

	substitutedTS := payloadA{pk: [32]byte{1, 2, 3}, ts: 99}
	require.Error(t, sig.Verify(kp.Public, substitutedTS))
}

// TestTypeTaggedSignatures covers testable property 6.
func TestTypeTaggedSignatures(t *testing.T) {
	kp, err := GenerateSigningKeyPair()
	require.NoError(t, err)

	a := payloadA{pk: [32]byte{5}, ts: 7}
	sigA := Sign(kp.Private, a)

	require.NoError(t, sigA.Verify(kp.Public, a))

	// sigA has static type Signature[payloadA]; passing it where a
	// Signature[payloadB] is expected is refused by the compiler, not a
	// runtime check. Rebuilding from raw bytes shows that protection is
	// purely the type parameter — byte-identical encodings still verify.
	sigBytes := sigA.Bytes()
	sigB, err := SignatureFromBytes[payloadB](sigBytes[:])
	require.NoError(t, err)
	b := payloadB{pk: [32]byte{5}, ts: 7}
	require.NoError(t, sigB.Verify(kp.Public, b))

	var _ ed25519.PublicKey = kp.Public
}
