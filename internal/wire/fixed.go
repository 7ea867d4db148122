package wire

// FixedInt is the set of integer widths the control-byte grammar encodes
// with a fixed-width, big-endian form.
type FixedInt interface {
	~int8 | ~int16 | ~int32 | ~uint8 | ~uint16 | ~uint32
}

// PutFixed appends the big-endian encoding of v, 1/2/4 bytes wide
// depending on T, to dst and returns the result. Widths are fixed by the
// control-byte grammar (§4.1), not by the host's native endianness,
// mirroring internal/binary's generic dispatch-on-type approach but with
// the byte order the wire format actually requires.
func PutFixed[T FixedInt](dst []byte, v T) []byte {
	switch any(v).(type) {
	case int8, uint8:
		return append(dst, byte(v))
	case int16, uint16:
		u := uint16(v)
		return append(dst, byte(u>>8), byte(u))
	default:
		u := uint32(v)
		return append(dst, byte(u>>24), byte(u>>16), byte(u>>8), byte(u))
	}
}

// GetInt8 sign-extends a single big-endian byte.
func GetInt8(b []byte) int64 { return int64(int8(b[0])) }

// GetInt16 sign-extends a 2-byte big-endian value.
func GetInt16(b []byte) int64 {
	return int64(int16(uint16(b[0])<<8 | uint16(b[1])))
}

// GetInt32 sign-extends a 4-byte big-endian value.
func GetInt32(b []byte) int64 {
	u := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	return int64(int32(u))
}

// GetUint16 reads an unsigned 2-byte big-endian value.
func GetUint16(b []byte) uint64 {
	return uint64(b[0])<<8 | uint64(b[1])
}

// GetUint8 reads an unsigned 1-byte value.
func GetUint8(b []byte) uint64 { return uint64(b[0]) }

// GetUint32 reads an unsigned 4-byte big-endian value, used to reconstruct
// float32 bit patterns.
func GetUint32(b []byte) uint64 {
	return uint64(b[0])<<24 | uint64(b[1])<<16 | uint64(b[2])<<8 | uint64(b[3])
}

// GetUint64 reads an unsigned 8-byte big-endian value, used to reconstruct
// float64 bit patterns.
func GetUint64(b []byte) uint64 {
	var u uint64
	for _, c := range b[:8] {
		u = u<<8 | uint64(c)
	}
	return u
}
