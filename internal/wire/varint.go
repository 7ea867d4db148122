package wire

import (
	"fmt"
	"io"

	"golang.org/x/exp/constraints"
)

// PutVarint appends the base-128 high-bit-continuation big-endian encoding
// of v to dst and returns the result. The continuation bit (0x80) is set on
// every byte but the last. v is always treated as unsigned; signedness is
// carried by the enclosing control byte, not by this primitive.
func PutVarint[T constraints.Unsigned](dst []byte, v T) []byte {
	u := uint64(v)
	var tmp [10]byte
	n := len(tmp)
	n--
	tmp[n] = byte(u & 0x7f)
	u >>= 7
	for u != 0 {
		n--
		tmp[n] = byte(u&0x7f) | 0x80
		u >>= 7
	}
	return append(dst, tmp[n:]...)
}

// GetVarint decodes a base-128 varint from r. It rejects a sequence whose
// accumulated value would shift bits off the top of a uint64.
func GetVarint(r io.ByteReader) (uint64, error) {
	var result uint64
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, fmt.Errorf("wire: truncated varint: %w", err)
		}
		if result > (1<<57)-1 {
			// The next shift-by-7-and-or would lose bits off the top.
			return 0, fmt.Errorf("wire: varint overflows 64 bits")
		}
		result = (result << 7) | uint64(b&0x7f)
		if b&0x80 == 0 {
			return result, nil
		}
	}
}
