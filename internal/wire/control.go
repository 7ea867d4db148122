// Package wire defines the JKSN control-byte grammar and the primitive
// encodings (fixed-width big-endian integers, base-128 varints, the DJB8
// dedup hash) that every record on the wire is built from.
package wire

// Magic is the optional 3-byte file header.
var Magic = [3]byte{'j', 'k', '!'}

// Special values (high nibble 0x0).
const (
	Undefined byte = 0x00
	Null      byte = 0x01
	False     byte = 0x02
	True      byte = 0x03
	Reserved  byte = 0x0F // MUST be rejected by the decoder.
)

// Integer opcodes (high nibble 0x1).
const (
	IntImmediateMin byte = 0x10
	IntImmediateMax byte = 0x1A // immediate value = low nibble, 0..10
	Int32           byte = 0x1B
	Int16           byte = 0x1C
	Int8            byte = 0x1D
	IntNegVarint    byte = 0x1E
	IntPosVarint    byte = 0x1F
)

// Float opcodes (high nibble 0x2).
const (
	FloatNaN        byte = 0x20
	FloatLongDouble byte = 0x2B
	Float64         byte = 0x2C
	Float32         byte = 0x2D
	FloatNegInf     byte = 0x2E
	FloatPosInf     byte = 0x2F
)

// UTF-16LE string opcodes (high nibble 0x3).
const (
	Str16ImmediateMin byte = 0x30
	Str16ImmediateMax byte = 0x3B // length in code units = low nibble, 0..11
	HashRef           byte = 0x3C // 1-byte cache index, shared with class 0x5.
	Str16Len16        byte = 0x3D
	Str16Len8         byte = 0x3E
	Str16LenVarint    byte = 0x3F
)

// UTF-8 string opcodes (high nibble 0x4).
const (
	Str8ImmediateMin byte = 0x40
	Str8ImmediateMax byte = 0x4C // length in bytes = low nibble, 0..12
	Str8Len16        byte = 0x4D
	Str8Len8         byte = 0x4E
	Str8LenVarint    byte = 0x4F
)

// Blob opcodes (high nibble 0x5).
const (
	BlobImmediateMin byte = 0x50
	BlobImmediateMax byte = 0x5B // length in bytes = low nibble, 0..11
	BlobLen16        byte = 0x5D
	BlobLen8         byte = 0x5E
	BlobLenVarint    byte = 0x5F
)

// Straight array opcodes (high nibble 0x8).
const (
	ArrayImmediateMin byte = 0x80
	ArrayImmediateMax byte = 0x8C // element count = low nibble, 0..12
	ArrayLen16        byte = 0x8D
	ArrayLen8         byte = 0x8E
	ArrayLenVarint    byte = 0x8F
	// ArrayStream is a supplemented feature (SPEC_FULL.md §4): a straight
	// array whose element count is not known up front, terminated by the
	// Unspecified sentinel (0xA0).
	ArrayStream byte = 0xC8
)

// Object opcodes (high nibble 0x9).
const (
	ObjectImmediateMin byte = 0x90
	ObjectImmediateMax byte = 0x9C // entry count = low nibble, 0..12
	ObjectLen16        byte = 0x9D
	ObjectLen8         byte = 0x9E
	ObjectLenVarint    byte = 0x9F
)

// Column-swapped array opcodes (high nibble 0xA).
const (
	Unspecified         byte = 0xA0 // sentinel value; also forbids column-count-0 as immediate.
	SwapImmediateMin    byte = 0xA1
	SwapImmediateMax    byte = 0xAC // column count = low nibble, 1..12
	SwapLen16           byte = 0xAD
	SwapLen8            byte = 0xAE
	SwapLenVarint       byte = 0xAF
)

// Integer-delta opcodes (high nibble 0xB).
const (
	DeltaSmallPosMin byte = 0xB0
	DeltaSmallPosMax byte = 0xB5 // delta = low nibble, 0..5
	DeltaSmallNegMin byte = 0xB6
	DeltaSmallNegMax byte = 0xBA // delta = low nibble - 11, -5..-1
	DeltaInt32       byte = 0xBB
	DeltaInt16       byte = 0xBC
	DeltaInt8        byte = 0xBD
	DeltaNegVarint   byte = 0xBE
	DeltaPosVarint   byte = 0xBF
)

// Cache-reset opcodes (high nibble 0x7), a feature present in
// original_source/ but dropped by spec.md's distillation; see
// SPEC_FULL.md §4. A cache reset clears both the text and blob hash tables,
// after first decoding (and discarding) the given count of values.
const (
	CacheResetImmediateMin byte = 0x70
	CacheResetImmediateMax byte = 0x7C // skip count = low nibble, 0..12
	CacheResetLen16        byte = 0x7D
	CacheResetLen8         byte = 0x7E
	CacheResetLenVarint    byte = 0x7F
)

// Class returns the high nibble of a control byte, used to dispatch.
func Class(control byte) byte { return control & 0xF0 }
