package deaddrop

import "encoding/binary"

// serializeMessages deterministically serializes a batch of already
// fixed-length encrypted messages as a flat, length-prefixed blob: each
// entry is a 4-byte big-endian length followed by its bytes, in slot order.
// Every message in a real dead drop already shares one fixed length per
// direction, but the prefix keeps the format self-describing rather than
// silently relying on that invariant.
func serializeMessages(messages [][]byte) []byte {
	size := 0
	for _, m := range messages {
		size += 4 + len(m)
	}

	out := make([]byte, 0, size)
	var lenBuf [4]byte
	for _, m := range messages {
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(m)))
		out = append(out, lenBuf[:]...)
		out = append(out, m...)
	}
	return out
}
