package crypto

import (
	"bytes"
	"compress/gzip"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"io"
)

// ErrDecompressionBomb is returned when a compressed payload claims a
// decompressed size more than 100x its compressed size.
var ErrDecompressionBomb = errors.New("crypto: refusing to decompress, ratio exceeds safety limit")

// ErrMessageTooLargeForPadding is returned when a compressed, length-prefixed
// payload does not fit inside the configured pad length.
var ErrMessageTooLargeForPadding = errors.New("crypto: compressed message exceeds padded capacity")

// maxDecompressionRatio bounds decompressed/compressed size (testable
// property 3, §8).
const maxDecompressionRatio = 100

// FixedSizeMessageText is a UTF-8 string, gzip-compressed, length-prefixed
// with a big-endian uint16, then padded with random bytes to padTo. Its
// total length never varies with content, which is the entire point: it is
// the plaintext payload carried inside U2J and J2U messages.
type FixedSizeMessageText struct {
	padded []byte
	padTo  int
}

// NewFixedSizeMessageText compresses, length-prefixes, and pads text to
// padTo bytes. It fails if the compressed form (plus its 2-byte length
// prefix) does not fit.
func NewFixedSizeMessageText(text string, padTo int) (FixedSizeMessageText, error) {
	var compressed bytes.Buffer
	w := gzip.NewWriter(&compressed)
	if _, err := w.Write([]byte(text)); err != nil {
		return FixedSizeMessageText{}, err
	}
	if err := w.Close(); err != nil {
		return FixedSizeMessageText{}, err
	}

	if compressed.Len() > 0xFFFF || 2+compressed.Len() > padTo {
		return FixedSizeMessageText{}, ErrMessageTooLargeForPadding
	}

	padded := make([]byte, padTo)
	binary.BigEndian.PutUint16(padded[:2], uint16(compressed.Len()))
	copy(padded[2:], compressed.Bytes())

	if _, err := rand.Read(padded[2+compressed.Len():]); err != nil {
		return FixedSizeMessageText{}, err
	}

	return FixedSizeMessageText{padded: padded, padTo: padTo}, nil
}

// MarshalBinary returns the padded wire bytes, satisfying Marshalable.
func (f FixedSizeMessageText) MarshalBinary() ([]byte, error) {
	return append([]byte(nil), f.padded...), nil
}

// FixedSizeMessageTextFromBytes wraps already-padded bytes without
// re-validating their compressed payload; call ToString to validate and
// decode.
func FixedSizeMessageTextFromBytes(padded []byte) FixedSizeMessageText {
	return FixedSizeMessageText{padded: append([]byte(nil), padded...), padTo: len(padded)}
}

// ToString decompresses and returns the original text, rejecting a
// decompression-bomb ratio.
func (f FixedSizeMessageText) ToString() (string, error) {
	if len(f.padded) < 2 {
		return "", errors.New("crypto: padded message text too short")
	}

	compressedLen := int(binary.BigEndian.Uint16(f.padded[:2]))
	if 2+compressedLen > len(f.padded) {
		return "", errors.New("crypto: malformed padded message text")
	}

	compressed := f.padded[2 : 2+compressedLen]

	r, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return "", err
	}
	defer r.Close()

	limited := io.LimitReader(r, int64(compressedLen)*maxDecompressionRatio+1)
	out, err := io.ReadAll(limited)
	if err != nil {
		return "", err
	}
	if len(out) > compressedLen*maxDecompressionRatio {
		return "", ErrDecompressionBomb
	}

	return string(out), nil
}

// Len returns the total padded length.
func (f FixedSizeMessageText) Len() int { return len(f.padded) }
