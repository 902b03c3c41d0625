package crypto

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
)

// ErrPaddedByteVectorTooShort is returned when parsing bytes that don't even
// hold the 4-byte length header.
var ErrPaddedByteVectorTooShort = errors.New("crypto: padded byte vector too short")

// ErrPayloadExceedsPadTo is returned when a payload does not fit the
// requested padded size.
var ErrPayloadExceedsPadTo = errors.New("crypto: payload exceeds requested padded size")

// PaddedByteVector is a general padded envelope: a 4-byte big-endian length
// header followed by the payload, then random padding out to a caller
// supplied total size. It backs the journalist-vault backup format.
type PaddedByteVector struct {
	total []byte
}

// NewPaddedByteVector pads payload to padTo bytes total (header included).
func NewPaddedByteVector(payload []byte, padTo int) (PaddedByteVector, error) {
	if 4+len(payload) > padTo {
		return PaddedByteVector{}, ErrPayloadExceedsPadTo
	}

	out := make([]byte, padTo)
	binary.BigEndian.PutUint32(out[:4], uint32(len(payload)))
	copy(out[4:], payload)
	if _, err := rand.Read(out[4+len(payload):]); err != nil {
		return PaddedByteVector{}, err
	}

	return PaddedByteVector{total: out}, nil
}

// PaddedByteVectorFromBytes wraps an already-padded buffer.
func PaddedByteVectorFromBytes(total []byte) (PaddedByteVector, error) {
	if len(total) < 4 {
		return PaddedByteVector{}, ErrPaddedByteVectorTooShort
	}
	return PaddedByteVector{total: append([]byte(nil), total...)}, nil
}

// TotalLen returns the full padded length, equal to the padTo argument
// passed to NewPaddedByteVector.
func (p PaddedByteVector) TotalLen() int { return len(p.total) }

// Bytes returns the full padded wire bytes.
func (p PaddedByteVector) Bytes() []byte { return append([]byte(nil), p.total...) }

// IntoUnpadded returns the original payload.
func (p PaddedByteVector) IntoUnpadded() ([]byte, error) {
	if len(p.total) < 4 {
		return nil, ErrPaddedByteVectorTooShort
	}
	payloadLen := binary.BigEndian.Uint32(p.total[:4])
	if 4+int(payloadLen) > len(p.total) {
		return nil, errors.New("crypto: malformed padded byte vector length header")
	}
	return p.total[4 : 4+payloadLen], nil
}

// NewSteppingPaddedByteVector pads to the next multiple of step bytes instead
// of a caller-supplied fixed size, trading a little length leakage for not
// needing to know the final size up front.
func NewSteppingPaddedByteVector(payload []byte, step int) (PaddedByteVector, error) {
	if step <= 0 {
		return PaddedByteVector{}, errors.New("crypto: step must be positive")
	}
	need := 4 + len(payload)
	padTo := ((need + step - 1) / step) * step
	if padTo == 0 {
		padTo = step
	}
	return NewPaddedByteVector(payload, padTo)
}
