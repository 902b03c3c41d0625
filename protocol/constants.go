package protocol

// Wire-size constants. Absolute values are a core concern (they drive the
// constant-size invariant tested throughout this package) even though the
// validity-window-style *configuration* constants live in package config.
const (
	// RecipientTagLen is the length in bytes of a routing tag.
	RecipientTagLen = 4

	// MessagePaddingLen is the total length, in bytes, a FixedSizeMessageText
	// is padded to. Chosen large enough for a realistic whistleblowing
	// message while keeping every layer's size small and fixed.
	MessagePaddingLen = 1024

	// MaxJournalistIdentityLen bounds a NUL-padded journalist identity
	// string embedded in a HandOver message. Must fit within
	// journalistToUserPayloadLen.
	MaxJournalistIdentityLen = 256

	// journalistToUserPayloadLen is the fixed length shared by both
	// J2U message variants (Message and HandOver) so the type tag never
	// leaks which variant was sent via a differing ciphertext length: the
	// Message variant reuses the same FixedSizeMessageText padding length
	// as U2J so neither branch's length depends on its content.
	journalistToUserPayloadLen = MessagePaddingLen

	// CoverNodeWrappingKeyCount is N, the number of CoverNode messaging
	// keys every U2C/J2C message is addressed to so any running CoverNode
	// can decrypt it.
	CoverNodeWrappingKeyCount = 3

	// anonymousBoxOverhead is ephemeral_pk(32) + poly1305 tag(16).
	anonymousBoxOverhead = 32 + 16

	// twoPartyBoxOverhead is poly1305 tag(16) + nonce(24). The box's own
	// tag is folded into box.Seal's output; declared separately here
	// for wire-size documentation.
	twoPartyBoxOverhead = 16 + 24

	// wrappedKeyLen is the size of one per-recipient AnonymousBox-wrapped
	// session key inside a MultiAnonymousBox: ephemeral_pk(32) + session
	// key(32) + tag(16).
	wrappedKeyLen = 32 + 32 + 16

	// multiAnonymousBoxOverhead is nonce(24) + secretbox tag(16), plus
	// CoverNodeWrappingKeyCount wrapped-key entries, added per call site
	// since it depends on N.
	multiAnonymousBoxOverhead = 24 + 16

	// U2JPlaintextLen is pk(32) ‖ reserved(1) ‖ padded_message.
	U2JPlaintextLen = 32 + 1 + MessagePaddingLen

	// U2JEncryptedMessageLen is the fixed length of an AnonymousBox-wrapped
	// U2J plaintext.
	U2JEncryptedMessageLen = U2JPlaintextLen + anonymousBoxOverhead

	// U2CPlaintextLen is recipient_tag(4) ‖ U2J ciphertext.
	U2CPlaintextLen = RecipientTagLen + U2JEncryptedMessageLen

	// U2CEncryptedMessageLen is the fixed length of a MultiAnonymousBox-
	// wrapped U2C plaintext addressed to CoverNodeWrappingKeyCount keys.
	U2CEncryptedMessageLen = CoverNodeWrappingKeyCount*wrappedKeyLen + multiAnonymousBoxOverhead + U2CPlaintextLen

	// CoverNodeToJournalistEncryptedMessageLen is the fixed length of the
	// C2J outer layer: a TwoPartyBox wrapping the U2J ciphertext.
	CoverNodeToJournalistEncryptedMessageLen = U2JEncryptedMessageLen + twoPartyBoxOverhead

	// J2UPlaintextLen is type_tag(1) ‖ payload, where payload is either a
	// padded message or a NUL-padded journalist identity string, both
	// forced to the same length.
	J2UPlaintextLen = 1 + journalistToUserPayloadLen

	// JournalistToUserEncryptedMessageLen is the fixed length of a
	// TwoPartyBox-wrapped J2U plaintext.
	JournalistToUserEncryptedMessageLen = J2UPlaintextLen + twoPartyBoxOverhead

	// J2CPlaintextLen is real_or_cover_tag(1) ‖ J2U ciphertext.
	J2CPlaintextLen = 1 + JournalistToUserEncryptedMessageLen

	// J2CEncryptedMessageLen is the fixed length of a MultiAnonymousBox-
	// wrapped J2C plaintext.
	J2CEncryptedMessageLen = CoverNodeWrappingKeyCount*wrappedKeyLen + multiAnonymousBoxOverhead + J2CPlaintextLen
)

// j2uMessageType tags which J2U variant a plaintext carries.
type j2uMessageType byte

const (
	j2uMessageTypeMessage  j2uMessageType = 0x01
	j2uMessageTypeHandOver j2uMessageType = 0x02
)

// RecipientTag is a deterministic 4-byte routing prefix letting the
// CoverNode route U2C traffic to the right journalist without decrypting
// the inner U2J layer.
type RecipientTag [RecipientTagLen]byte

// RecipientTagForCover is the reserved sentinel marking a cover message; it
// must not collide with any derivable journalist tag.
var RecipientTagForCover = RecipientTag{0xff, 0xff, 0xff, 0xff}
