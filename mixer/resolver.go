package mixer

import (
	"github.com/guardian/coverdrop-core/keys"
	"github.com/guardian/coverdrop-core/protocol"
)

// ResolveRecipientTag finds which journalist (if any) a recipient tag
// belongs to, by recomputing the tag for every journalist's latest
// messaging key in the hierarchy. Used by the U2J pipeline to decide which
// journalist messaging key a decrypted real message should be re-encrypted
// to (§4.3 "recipient tag").
func ResolveRecipientTag(h *keys.Hierarchy, tag protocol.RecipientTag) ([32]byte, bool) {
	if tag.IsCover() {
		return [32]byte{}, false
	}
	for _, j := range h.Journalists {
		if len(j.MessagingKeys) == 0 {
			continue
		}
		pk := j.MessagingKeys[len(j.MessagingKeys)-1].Bytes
		candidate, err := protocol.DeriveRecipientTag(pk)
		if err != nil {
			continue
		}
		if candidate == tag {
			return pk, true
		}
	}
	return [32]byte{}, false
}
