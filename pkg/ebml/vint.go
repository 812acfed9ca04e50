// Package ebml provides allocation-free reading of EBML (Matroska/WebM) element
// trees from an in-memory byte buffer.
//
// The package never fails on malformed input: short or corrupt data degrades to
// "no element here" so callers handing in a truncated file prefix always get a
// result, never a panic.
package ebml

// MaxVintLength is the longest variable-size integer EBML allows.
const MaxVintLength = 8

// ReadVint decodes the variable-size integer starting at offset.
//
// The position of the first set bit in the leading byte gives the encoded
// length L (bit 7 => 1 byte ... bit 0 => 8 bytes). The value is the leading
// byte with the marker bit cleared, followed big-endian by the next L-1 bytes.
//
// Malformed input (no marker bit, offset out of range, or fewer than L bytes
// left) yields (0, 1) so a scanner always advances.
func ReadVint(buf []byte, offset int) (uint64, int) {
	value, length, ok := decodeVint(buf, offset)
	if !ok {
		return 0, 1
	}
	return value, length
}

// VintLength returns the encoded length announced by the leading byte, or 0 if
// the byte carries no marker bit.
func VintLength(first byte) int {
	for i := 0; i < MaxVintLength; i++ {
		if first&(0x80>>uint(i)) != 0 {
			return i + 1
		}
	}
	return 0
}

func decodeVint(buf []byte, offset int) (uint64, int, bool) {
	if offset < 0 || offset >= len(buf) {
		return 0, 0, false
	}
	first := buf[offset]
	length := VintLength(first)
	if length == 0 || offset+length > len(buf) {
		return 0, 0, false
	}
	value := uint64(first & (0xFF >> uint(length)))
	for i := 1; i < length; i++ {
		value = (value << 8) | uint64(buf[offset+i])
	}
	return value, length, true
}

// readSize decodes an element data size. All value bits set is the reserved
// "unknown size" marker used by live-muxed Segments and Clusters.
func readSize(buf []byte, offset int) (size uint64, length int, unknown bool, ok bool) {
	size, length, ok = decodeVint(buf, offset)
	if !ok {
		return 0, 0, false, false
	}
	if size == (uint64(1)<<(uint(length)*7))-1 {
		return 0, length, true, true
	}
	return size, length, false, true
}

// readID reads an element ID with its marker bits kept, which is how Matroska
// IDs are written down (0x1A45DFA3, 0xAE, ...). IDs are at most 4 bytes long.
func readID(buf []byte, offset int) (ID, int, bool) {
	if offset < 0 || offset >= len(buf) {
		return 0, 0, false
	}
	length := VintLength(buf[offset])
	if length == 0 || length > 4 || offset+length > len(buf) {
		return 0, 0, false
	}
	var id uint32
	for i := 0; i < length; i++ {
		id = (id << 8) | uint32(buf[offset+i])
	}
	return ID(id), length, true
}

// ReadUint decodes a big-endian unsigned integer payload of 0-8 bytes.
// Empty payloads are zero, as the EBML default for integers.
func ReadUint(data []byte) (uint64, bool) {
	if len(data) > 8 {
		return 0, false
	}
	var value uint64
	for _, b := range data {
		value = (value << 8) | uint64(b)
	}
	return value, true
}

// ReadString decodes an ASCII/UTF-8 string payload. Matroska allows strings
// to be padded with trailing zero bytes; the padding is dropped.
func ReadString(data []byte) string {
	end := len(data)
	for end > 0 && data[end-1] == 0 {
		end--
	}
	return string(data[:end])
}
