package ebml

// MaxVintValue is the largest size an 8-byte VINT can carry; the all-ones
// pattern above it is reserved for "unknown size".
const MaxVintValue = uint64(1)<<56 - 2

// EncodeVint encodes value with the shortest length that does not collide
// with the reserved all-ones pattern. Values above MaxVintValue return nil.
func EncodeVint(value uint64) []byte {
	for length := 1; length <= MaxVintLength; length++ {
		if value < uint64(1)<<(uint(length)*7)-1 {
			return EncodeVintLen(value, length)
		}
	}
	return nil
}

// EncodeVintLen encodes value using exactly length bytes. It returns nil if
// value does not fit.
func EncodeVintLen(value uint64, length int) []byte {
	if length < 1 || length > MaxVintLength {
		return nil
	}
	if value > uint64(1)<<(uint(length)*7)-1 {
		return nil
	}
	out := make([]byte, length)
	for i := length - 1; i >= 0; i-- {
		out[i] = byte(value)
		value >>= 8
	}
	out[0] |= 0x80 >> uint(length-1)
	return out
}

// UnknownSizeVint returns the reserved "unknown size" marker of the given
// length.
func UnknownSizeVint(length int) []byte {
	return EncodeVintLen(uint64(1)<<(uint(length)*7)-1, length)
}

// Master encodes a master element with the given already-encoded children.
func Master(id ID, children ...[]byte) []byte {
	var payload []byte
	for _, c := range children {
		payload = append(payload, c...)
	}
	return Binary(id, payload)
}

// UnknownSizeMaster encodes a master element whose size field is the
// reserved "unknown size" marker.
func UnknownSizeMaster(id ID, children ...[]byte) []byte {
	out := append(id.Bytes(), UnknownSizeVint(8)...)
	for _, c := range children {
		out = append(out, c...)
	}
	return out
}

// Uint encodes an unsigned integer leaf using the fewest payload bytes.
func Uint(id ID, value uint64) []byte {
	var payload []byte
	for v := value; v > 0; v >>= 8 {
		payload = append([]byte{byte(v)}, payload...)
	}
	if len(payload) == 0 {
		payload = []byte{0}
	}
	return Binary(id, payload)
}

// String encodes a string leaf.
func String(id ID, s string) []byte {
	return Binary(id, []byte(s))
}

// Binary encodes a leaf with an opaque payload.
func Binary(id ID, payload []byte) []byte {
	out := append(id.Bytes(), EncodeVint(uint64(len(payload)))...)
	return append(out, payload...)
}
