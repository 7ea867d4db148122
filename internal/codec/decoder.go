package codec

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/jksn-go/jksn/internal/charset"
	"github.com/jksn-go/jksn/internal/wire"
	"github.com/jksn-go/jksn/value"
)

// decodeCache is the decoder's inverse of Cache. Where the encoder's
// optimizer needs raw payload bytes to verify a hash match before dedup,
// the decoder trusts the stream and can cache the fully reconstructed
// Value directly — which incidentally resolves spec.md §9's shared-0x3C
// open question: a hash reference is looked up against the text table
// first and the blob table second (the "defined order" the open question
// asks for), and whichever table holds it also tells the decoder what
// kind of Value to hand back, with no extra bit needed on the wire.
type decodeCache struct {
	hasLastInt bool
	lastInt    int64

	text [256]*value.Value
	blob [256]*value.Value
}

func (c *decodeCache) reset() {
	c.hasLastInt = false
	c.lastInt = 0
	for i := range c.text {
		c.text[i] = nil
	}
	for i := range c.blob {
		c.blob[i] = nil
	}
}

// Decoder is the single recursive-descent parser described in spec.md §4.5.
// It keeps decodeCache state across calls, mirroring Encoder's Cache, so a
// Decoder reused across a stream of Decode calls resolves hash references
// and deltas emitted against an Encoder's cumulative state.
type Decoder struct {
	cache decodeCache
}

// NewDecoder returns a Decoder with a fresh cache.
func NewDecoder() *Decoder { return &Decoder{} }

// ResetCache clears the decoder's dedup/delta state, as if newly
// constructed. It backs the supplemented cache-reset record on decode.
func (d *Decoder) ResetCache() { d.cache.reset() }

// DecodeError reports a malformed or truncated stream encountered while
// parsing a single record.
type DecodeError struct {
	Control byte
	Reason  string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("codec: decode error at control byte 0x%02X: %s", e.Control, e.Reason)
}

// Decode reads and reconstructs one logical value from r, transparently
// consuming any cache-reset directives that precede it.
func (d *Decoder) Decode(r *bufio.Reader) (value.Value, error) {
	return d.decodeOne(r)
}

// decodeOne is Decode's implementation, also used for every nested value
// position (array elements, object keys/values, swap columns/cells) so
// that a cache-reset record is skipped transparently wherever it appears,
// not just at the top of the stream.
func (d *Decoder) decodeOne(r *bufio.Reader) (value.Value, error) {
	for {
		control, err := r.ReadByte()
		if err != nil {
			return value.Value{}, err
		}
		if wire.Class(control) == wire.Class(wire.CacheResetImmediateMin) {
			if err := d.applyCacheReset(r, control); err != nil {
				return value.Value{}, err
			}
			continue
		}
		return d.decodeValue(r, control)
	}
}

func (d *Decoder) decodeValue(r *bufio.Reader, control byte) (value.Value, error) {
	switch wire.Class(control) {
	case wire.Class(wire.Undefined):
		return decodeSpecial(control)
	case wire.Class(wire.IntImmediateMin):
		return d.decodeInt(r, control)
	case wire.Class(wire.FloatNaN):
		return d.decodeFloat(r, control)
	case wire.Class(wire.Str16ImmediateMin):
		return d.decodeStr16(r, control)
	case wire.Class(wire.Str8ImmediateMin):
		return d.decodeStr8(r, control)
	case wire.Class(wire.BlobImmediateMin):
		return d.decodeBlob(r, control)
	case wire.Class(wire.ArrayImmediateMin):
		return d.decodeArray(r, control)
	case wire.Class(wire.ArrayStream):
		if control == wire.ArrayStream {
			return d.decodeArrayStream(r)
		}
		return value.Value{}, &DecodeError{Control: control, Reason: "unassigned control byte"}
	case wire.Class(wire.ObjectImmediateMin):
		return d.decodeObject(r, control)
	case wire.Class(wire.Unspecified):
		if control == wire.Unspecified {
			return value.NewUnspecified(), nil
		}
		return d.decodeSwap(r, control)
	case wire.Class(wire.DeltaSmallPosMin):
		return d.decodeDelta(r, control)
	default:
		return value.Value{}, &DecodeError{Control: control, Reason: "unassigned control byte"}
	}
}

func decodeSpecial(control byte) (value.Value, error) {
	switch control {
	case wire.Undefined:
		return value.NewUndefined(), nil
	case wire.Null:
		return value.NewNull(), nil
	case wire.False:
		return value.NewBool(false), nil
	case wire.True:
		return value.NewBool(true), nil
	default:
		return value.Value{}, &DecodeError{Control: control, Reason: "reserved opcode"}
	}
}

// negFromMag turns an unsigned magnitude read off the wire back into a
// negative int64, handling the one magnitude (2^63) that has no positive
// int64 counterpart.
func negFromMag(mag uint64) int64 {
	if mag == 1<<63 {
		return math.MinInt64
	}
	return -int64(mag)
}

func (d *Decoder) decodeInt(r *bufio.Reader, control byte) (value.Value, error) {
	var val int64
	switch control {
	case wire.IntNegVarint:
		mag, err := wire.GetVarint(r)
		if err != nil {
			return value.Value{}, err
		}
		val = negFromMag(mag)
	case wire.IntPosVarint:
		mag, err := wire.GetVarint(r)
		if err != nil {
			return value.Value{}, err
		}
		val = int64(mag)
	case wire.Int8:
		b, err := readN(r, 1)
		if err != nil {
			return value.Value{}, err
		}
		val = wire.GetInt8(b)
	case wire.Int16:
		b, err := readN(r, 2)
		if err != nil {
			return value.Value{}, err
		}
		val = wire.GetInt16(b)
	case wire.Int32:
		b, err := readN(r, 4)
		if err != nil {
			return value.Value{}, err
		}
		val = wire.GetInt32(b)
	default:
		val = int64(control - wire.IntImmediateMin)
	}
	d.cache.hasLastInt = true
	d.cache.lastInt = val
	return value.NewInt(val), nil
}

func (d *Decoder) decodeDelta(r *bufio.Reader, control byte) (value.Value, error) {
	var delta int64
	switch {
	case control == wire.DeltaNegVarint:
		mag, err := wire.GetVarint(r)
		if err != nil {
			return value.Value{}, err
		}
		delta = negFromMag(mag)
	case control == wire.DeltaPosVarint:
		mag, err := wire.GetVarint(r)
		if err != nil {
			return value.Value{}, err
		}
		delta = int64(mag)
	case control == wire.DeltaInt8:
		b, err := readN(r, 1)
		if err != nil {
			return value.Value{}, err
		}
		delta = wire.GetInt8(b)
	case control == wire.DeltaInt16:
		b, err := readN(r, 2)
		if err != nil {
			return value.Value{}, err
		}
		delta = wire.GetInt16(b)
	case control == wire.DeltaInt32:
		b, err := readN(r, 4)
		if err != nil {
			return value.Value{}, err
		}
		delta = wire.GetInt32(b)
	case control >= wire.DeltaSmallPosMin && control <= wire.DeltaSmallPosMax:
		delta = int64(control - wire.DeltaSmallPosMin)
	default:
		delta = int64(control-wire.DeltaSmallNegMin) - 5
	}
	if !d.cache.hasLastInt {
		return value.Value{}, &DecodeError{Control: control, Reason: "delta opcode without a prior integer"}
	}
	val := d.cache.lastInt + delta
	d.cache.lastInt = val
	return value.NewInt(val), nil
}

func (d *Decoder) decodeFloat(r *bufio.Reader, control byte) (value.Value, error) {
	switch control {
	case wire.FloatNaN:
		return value.NewFloat64(math.NaN()), nil
	case wire.FloatPosInf:
		return value.NewFloat64(math.Inf(1)), nil
	case wire.FloatNegInf:
		return value.NewFloat64(math.Inf(-1)), nil
	case wire.FloatLongDouble:
		b, err := readN(r, 10)
		if err != nil {
			return value.Value{}, err
		}
		var raw [10]byte
		copy(raw[:], b)
		return value.NewFloat80(raw), nil
	case wire.Float64:
		b, err := readN(r, 8)
		if err != nil {
			return value.Value{}, err
		}
		return value.NewFloat64(math.Float64frombits(wire.GetUint64(b))), nil
	case wire.Float32:
		b, err := readN(r, 4)
		if err != nil {
			return value.Value{}, err
		}
		return value.NewFloat32(math.Float32frombits(uint32(wire.GetUint32(b)))), nil
	default:
		return value.Value{}, &DecodeError{Control: control, Reason: "unassigned float opcode"}
	}
}

func readN(r io.Reader, n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

// readLength inverts lengthRecord: an immediate low nibble, or a following
// u8/u16/varint count.
func readLength(r *bufio.Reader, control, immBase byte, op8, op16, opVar byte) (uint64, error) {
	switch control {
	case op8:
		b, err := readN(r, 1)
		if err != nil {
			return 0, err
		}
		return wire.GetUint8(b), nil
	case op16:
		b, err := readN(r, 2)
		if err != nil {
			return 0, err
		}
		return wire.GetUint16(b), nil
	case opVar:
		return wire.GetVarint(r)
	default:
		return uint64(control - immBase), nil
	}
}

func (d *Decoder) decodeStr16(r *bufio.Reader, control byte) (value.Value, error) {
	if control == wire.HashRef {
		return d.decodeHashRef(r)
	}
	units, err := readLength(r, control, wire.Str16ImmediateMin, wire.Str16Len8, wire.Str16Len16, wire.Str16LenVarint)
	if err != nil {
		return value.Value{}, err
	}
	buf, err := readN(r, int(units)*2)
	if err != nil {
		return value.Value{}, err
	}
	result := value.NewString(charset.UTF8FromUTF16LE(buf))
	d.cache.text[wire.DJB8(buf)] = &result
	return result, nil
}

func (d *Decoder) decodeStr8(r *bufio.Reader, control byte) (value.Value, error) {
	n, err := readLength(r, control, wire.Str8ImmediateMin, wire.Str8Len8, wire.Str8Len16, wire.Str8LenVarint)
	if err != nil {
		return value.Value{}, err
	}
	buf, err := readN(r, int(n))
	if err != nil {
		return value.Value{}, err
	}
	result := value.NewString(string(buf))
	d.cache.text[wire.DJB8(buf)] = &result
	return result, nil
}

func (d *Decoder) decodeBlob(r *bufio.Reader, control byte) (value.Value, error) {
	n, err := readLength(r, control, wire.BlobImmediateMin, wire.BlobLen8, wire.BlobLen16, wire.BlobLenVarint)
	if err != nil {
		return value.Value{}, err
	}
	buf, err := readN(r, int(n))
	if err != nil {
		return value.Value{}, err
	}
	result := value.NewBlob(buf)
	d.cache.blob[wire.DJB8(buf)] = &result
	return result, nil
}

func (d *Decoder) decodeHashRef(r *bufio.Reader) (value.Value, error) {
	idxBuf, err := readN(r, 1)
	if err != nil {
		return value.Value{}, err
	}
	idx := idxBuf[0]
	if cached := d.cache.text[idx]; cached != nil {
		return *cached, nil
	}
	if cached := d.cache.blob[idx]; cached != nil {
		return *cached, nil
	}
	return value.Value{}, &DecodeError{Control: wire.HashRef, Reason: fmt.Sprintf("hash reference to unset cache slot %d", idx)}
}

func (d *Decoder) decodeArray(r *bufio.Reader, control byte) (value.Value, error) {
	n, err := readLength(r, control, wire.ArrayImmediateMin, wire.ArrayLen8, wire.ArrayLen16, wire.ArrayLenVarint)
	if err != nil {
		return value.Value{}, err
	}
	elems := make([]value.Value, n)
	for i := range elems {
		elems[i], err = d.decodeOne(r)
		if err != nil {
			return value.Value{}, err
		}
	}
	return value.NewArray(elems...), nil
}

func (d *Decoder) decodeArrayStream(r *bufio.Reader) (value.Value, error) {
	var elems []value.Value
	for {
		v, err := d.decodeOne(r)
		if err != nil {
			return value.Value{}, err
		}
		if v.Kind() == value.Unspecified {
			break
		}
		elems = append(elems, v)
	}
	return value.NewArray(elems...), nil
}

func (d *Decoder) decodeObject(r *bufio.Reader, control byte) (value.Value, error) {
	n, err := readLength(r, control, wire.ObjectImmediateMin, wire.ObjectLen8, wire.ObjectLen16, wire.ObjectLenVarint)
	if err != nil {
		return value.Value{}, err
	}
	pairs := make([]value.Pair, n)
	for i := range pairs {
		key, err := d.decodeOne(r)
		if err != nil {
			return value.Value{}, err
		}
		val, err := d.decodeOne(r)
		if err != nil {
			return value.Value{}, err
		}
		for _, prior := range pairs[:i] {
			if keyEqual(prior.Key, key) {
				return value.Value{}, &DecodeError{Control: control, Reason: "duplicate object key"}
			}
		}
		pairs[i] = value.Pair{Key: key, Val: val}
	}
	return value.NewObject(pairs...), nil
}

func readSwapLength(r *bufio.Reader, control byte) (uint64, error) {
	switch control {
	case wire.SwapLen8:
		b, err := readN(r, 1)
		if err != nil {
			return 0, err
		}
		return wire.GetUint8(b), nil
	case wire.SwapLen16:
		b, err := readN(r, 2)
		if err != nil {
			return 0, err
		}
		return wire.GetUint16(b), nil
	case wire.SwapLenVarint:
		return wire.GetVarint(r)
	default:
		return uint64(control-wire.SwapImmediateMin) + 1, nil
	}
}

// decodeSwap reconstructs the array-of-objects a column-swap record
// represents: for every column, a key followed by one cell per row; a cell
// equal to Unspecified means that row has no entry for that key, per
// spec.md §4.3's substitution rule, and is omitted from the rebuilt object
// rather than kept as a literal Unspecified value.
func (d *Decoder) decodeSwap(r *bufio.Reader, control byte) (value.Value, error) {
	colCount, err := readSwapLength(r, control)
	if err != nil {
		return value.Value{}, err
	}
	rowCount, err := wire.GetVarint(r)
	if err != nil {
		return value.Value{}, err
	}

	rows := make([][]value.Pair, rowCount)
	for c := uint64(0); c < colCount; c++ {
		key, err := d.decodeOne(r)
		if err != nil {
			return value.Value{}, err
		}
		for j := uint64(0); j < rowCount; j++ {
			cell, err := d.decodeOne(r)
			if err != nil {
				return value.Value{}, err
			}
			if cell.Kind() == value.Unspecified {
				continue
			}
			rows[j] = append(rows[j], value.Pair{Key: key, Val: cell})
		}
	}

	elems := make([]value.Value, rowCount)
	for j := range elems {
		elems[j] = value.NewObject(rows[j]...)
	}
	return value.NewArray(elems...), nil
}

// applyCacheReset decodes (and discards) the skip count's worth of values,
// then clears both caches. This backs the supplemented cache-reset record;
// see SPEC_FULL.md §4.
func (d *Decoder) applyCacheReset(r *bufio.Reader, control byte) error {
	n, err := readLength(r, control, wire.CacheResetImmediateMin, wire.CacheResetLen8, wire.CacheResetLen16, wire.CacheResetLenVarint)
	if err != nil {
		return err
	}
	for i := uint64(0); i < n; i++ {
		if _, err := d.decodeOne(r); err != nil {
			return err
		}
	}
	d.cache.reset()
	return nil
}
