package crypto

import "errors"

// rawBytes is a minimal Marshalable used across the crypto test files.
type rawBytes []byte

func (r rawBytes) MarshalBinary() ([]byte, error) { return append([]byte(nil), r...), nil }

func decodeRawBytes(b []byte) (rawBytes, error) { return append([]byte(nil), b...), nil }

// decodeFixedLen enforces a length invariant on decode, the way
// UserToJournalistMessage enforces its plaintext layout.
func decodeFixedLen(want int) Unmarshal[rawBytes] {
	return func(b []byte) (rawBytes, error) {
		if len(b) != want {
			return nil, errors.New("wrong length")
		}
		return append([]byte(nil), b...), nil
	}
}
