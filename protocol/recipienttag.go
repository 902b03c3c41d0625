package protocol

import (
	"errors"

	"golang.org/x/crypto/blake2b"
)

// ErrRecipientTagCollidesWithSentinel is returned when a journalist
// messaging key happens to derive to RecipientTagForCover. Callers SHOULD
// reject such a key rather than publish it (§4.3 "Recipient tag").
var ErrRecipientTagCollidesWithSentinel = errors.New("protocol: messaging key derives to the cover sentinel tag")

// DeriveRecipientTag computes the deterministic 4-byte routing tag for a
// journalist messaging public key: the first 4 bytes of blake2b-256(pk).
func DeriveRecipientTag(journalistMsgPK [32]byte) (RecipientTag, error) {
	sum := blake2b.Sum256(journalistMsgPK[:])

	var tag RecipientTag
	copy(tag[:], sum[:RecipientTagLen])

	if tag == RecipientTagForCover {
		return RecipientTag{}, ErrRecipientTagCollidesWithSentinel
	}
	return tag, nil
}

// IsCover reports whether tag is the reserved cover-traffic sentinel.
func (t RecipientTag) IsCover() bool {
	return t == RecipientTagForCover
}
