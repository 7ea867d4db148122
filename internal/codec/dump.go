package codec

import (
	"bytes"
	"fmt"
	"math"

	"github.com/jksn-go/jksn/internal/charset"
	"github.com/jksn-go/jksn/internal/wire"
	"github.com/jksn-go/jksn/value"
)

// dump builds the proxy subtree for v, without any optimization.
func dump(v value.Value) (*Proxy, error) {
	switch v.Kind() {
	case value.Undefined:
		return NewProxy(wire.Undefined, nil, nil), nil
	case value.Null:
		return NewProxy(wire.Null, nil, nil), nil
	case value.Unspecified:
		return NewProxy(wire.Unspecified, nil, nil), nil
	case value.Bool:
		if v.Bool() {
			return NewProxy(wire.True, nil, nil), nil
		}
		return NewProxy(wire.False, nil, nil), nil
	case value.Int:
		return dumpInt(v.Int()), nil
	case value.Float32:
		return dumpFloat32(v.Float32()), nil
	case value.Float64:
		return dumpFloat64(v.Float64()), nil
	case value.Float80:
		raw := v.Float80Bytes()
		return NewProxy(wire.FloatLongDouble, raw[:], nil), nil
	case value.String:
		return dumpString(v.Text()), nil
	case value.Blob:
		return dumpBlob(v.Blob()), nil
	case value.Array:
		return dumpArray(v.Elems())
	case value.Object:
		return dumpObject(v.Pairs())
	default:
		return nil, fmt.Errorf("codec: unrecognized value kind %v", v.Kind())
	}
}

// absU64 returns the magnitude of i as an unsigned 64-bit value, handling
// math.MinInt64 without overflowing int64 negation.
func absU64(i int64) uint64 {
	if i >= 0 {
		return uint64(i)
	}
	if i == math.MinInt64 {
		return 1 << 63
	}
	return uint64(-i)
}

// dumpInt picks the shortest integer form per spec.md §4.3: immediate for
// 0..10, then the narrowest fixed width, reserving the small-magnitude
// int32 range for the varint forms since a fixed int32 isn't shorter there.
func dumpInt(i int64) *Proxy {
	var p *Proxy
	switch {
	case i >= 0 && i <= 10:
		p = NewProxy(wire.IntImmediateMin+byte(i), nil, nil)
	case i >= -0x80 && i <= 0x7f:
		p = NewProxy(wire.Int8, wire.PutFixed[int8](nil, int8(i)), nil)
	case i >= -0x8000 && i <= 0x7fff:
		p = NewProxy(wire.Int16, wire.PutFixed[int16](nil, int16(i)), nil)
	case (i >= -0x80000000 && i <= -0x200000) || (i >= 0x200000 && i <= 0x7fffffff):
		p = NewProxy(wire.Int32, wire.PutFixed[int32](nil, int32(i)), nil)
	case i >= 0:
		p = NewProxy(wire.IntPosVarint, wire.PutVarint[uint64](nil, uint64(i)), nil)
	default:
		p = NewProxy(wire.IntNegVarint, wire.PutVarint[uint64](nil, absU64(i)), nil)
	}
	p.OrigInt = i
	return p
}

func dumpFloat32(f float32) *Proxy {
	f64 := float64(f)
	switch {
	case math.IsNaN(f64):
		return NewProxy(wire.FloatNaN, nil, nil)
	case math.IsInf(f64, 1):
		return NewProxy(wire.FloatPosInf, nil, nil)
	case math.IsInf(f64, -1):
		return NewProxy(wire.FloatNegInf, nil, nil)
	default:
		bits := math.Float32bits(f)
		data := []byte{byte(bits >> 24), byte(bits >> 16), byte(bits >> 8), byte(bits)}
		return NewProxy(wire.Float32, data, nil)
	}
}

func dumpFloat64(f float64) *Proxy {
	switch {
	case math.IsNaN(f):
		return NewProxy(wire.FloatNaN, nil, nil)
	case math.IsInf(f, 1):
		return NewProxy(wire.FloatPosInf, nil, nil)
	case math.IsInf(f, -1):
		return NewProxy(wire.FloatNegInf, nil, nil)
	default:
		bits := math.Float64bits(f)
		data := make([]byte, 8)
		for i := 0; i < 8; i++ {
			data[i] = byte(bits >> (56 - 8*i))
		}
		return NewProxy(wire.Float64, data, nil)
	}
}

// lengthRecord is the shared shape of every length-prefixed record: an
// immediate form for small counts, then u8/u16/varint for larger ones,
// chosen by the smallest width that covers n.
func lengthRecord(n uint64, immBase byte, immMaxCount uint64, op8, op16, opVar byte) (byte, []byte) {
	switch {
	case n <= immMaxCount:
		return immBase + byte(n), nil
	case n <= 0xFF:
		return op8, wire.PutFixed[uint8](nil, uint8(n))
	case n <= 0xFFFF:
		return op16, wire.PutFixed[uint16](nil, uint16(n))
	default:
		return opVar, wire.PutVarint[uint64](nil, n)
	}
}

func dumpString(s string) *Proxy {
	utf8Payload := []byte(s)
	var control byte
	var payload []byte
	var count uint64

	var lenData []byte
	if utf16Payload, err := charset.UTF16LEStrict(s); err == nil && len(utf16Payload) < len(utf8Payload) {
		payload = utf16Payload
		count = uint64(len(utf16Payload) / 2)
		control, lenData = lengthRecord(count, wire.Str16ImmediateMin, 0x0B, wire.Str16Len8, wire.Str16Len16, wire.Str16LenVarint)
	} else {
		// err != nil means s was not strictly valid UTF-8 as seen through the
		// codec's transcoder; this is the internal TypeError case from
		// spec.md §7, caught here by falling back to the UTF-8 form. It never
		// propagates to a caller.
		payload = utf8Payload
		count = uint64(len(utf8Payload))
		control, lenData = lengthRecord(count, wire.Str8ImmediateMin, 0x0C, wire.Str8Len8, wire.Str8Len16, wire.Str8LenVarint)
	}

	p := NewProxy(control, lenData, payload)
	if len(payload) > 0 {
		p.Hash = wire.DJB8(payload)
	}
	return p
}

func dumpBlob(b []byte) *Proxy {
	count := uint64(len(b))
	control, lenData := lengthRecord(count, wire.BlobImmediateMin, 0x0B, wire.BlobLen8, wire.BlobLen16, wire.BlobLenVarint)
	p := NewProxy(control, lenData, b)
	if len(b) > 0 {
		p.Hash = wire.DJB8(b)
	}
	return p
}

func dumpObject(pairs []value.Pair) (*Proxy, error) {
	children := make([]*Proxy, 0, len(pairs)*2)
	for _, pr := range pairs {
		kp, err := dump(pr.Key)
		if err != nil {
			return nil, err
		}
		vp, err := dump(pr.Val)
		if err != nil {
			return nil, err
		}
		children = append(children, kp, vp)
	}
	control, data := lengthRecord(uint64(len(pairs)), wire.ObjectImmediateMin, 0x0C, wire.ObjectLen8, wire.ObjectLen16, wire.ObjectLenVarint)
	p := NewProxy(control, data, nil)
	p.Children = children
	return p, nil
}

func dumpArray(elems []value.Value) (*Proxy, error) {
	straight, err := dumpStraightArray(elems)
	if err != nil {
		return nil, err
	}
	if canSwap(elems) {
		swapped, err := dumpSwapArray(elems)
		if err == nil && swapped.Size(3) < straight.Size(3) {
			return swapped, nil
		}
	}
	return straight, nil
}

func dumpStraightArray(elems []value.Value) (*Proxy, error) {
	children := make([]*Proxy, len(elems))
	for i, e := range elems {
		c, err := dump(e)
		if err != nil {
			return nil, err
		}
		children[i] = c
	}
	control, data := lengthRecord(uint64(len(elems)), wire.ArrayImmediateMin, 0x0C, wire.ArrayLen8, wire.ArrayLen16, wire.ArrayLenVarint)
	p := NewProxy(control, data, nil)
	p.Children = children
	return p, nil
}

// canSwap reports whether elems is a candidate for column-swap encoding:
// every element must be an Object, and at least one must be non-empty.
func canSwap(elems []value.Value) bool {
	anyNonEmpty := false
	for _, e := range elems {
		if e.Kind() != value.Object {
			return false
		}
		if len(e.Pairs()) > 0 {
			anyNonEmpty = true
		}
	}
	return anyNonEmpty
}

// keyEqual compares two values for equality as column keys. It supports
// exactly the kinds that make sense as object keys in practice; it is an
// internal detail of the swap transform and of the decoder's duplicate-key
// check, not the general value-equality machinery spec.md §1 explicitly
// places out of scope.
func keyEqual(a, b value.Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case value.Undefined, value.Null, value.Unspecified:
		return true
	case value.Bool:
		return a.Bool() == b.Bool()
	case value.Int:
		return a.Int() == b.Int()
	case value.Float32:
		return a.Float32() == b.Float32()
	case value.Float64:
		return a.Float64() == b.Float64()
	case value.String:
		return a.Text() == b.Text()
	case value.Blob:
		return bytes.Equal(a.Blob(), b.Blob())
	default:
		return false
	}
}

func swapLengthRecord(n uint64) (byte, []byte) {
	switch {
	case n >= 1 && n <= 12:
		return wire.SwapImmediateMin + byte(n-1), nil
	case n <= 0xFF:
		return wire.SwapLen8, wire.PutFixed[uint8](nil, uint8(n))
	case n <= 0xFFFF:
		return wire.SwapLen16, wire.PutFixed[uint16](nil, uint16(n))
	default:
		return wire.SwapLenVarint, wire.PutVarint[uint64](nil, n)
	}
}

func findCell(row value.Value, key value.Value) value.Value {
	for _, pr := range row.Pairs() {
		if keyEqual(pr.Key, key) {
			return pr.Val
		}
	}
	return value.NewUnspecified()
}

// dumpSwapArray builds the column-swapped encoding: the union of keys
// across all rows, first-seen order, then per column a key record followed
// by one cell per row (substituting Unspecified for rows missing that
// key). The row count is embedded as a varint right after the column
// count, per SPEC_FULL.md §1's resolution of the open question in
// spec.md §9.
func dumpSwapArray(elems []value.Value) (*Proxy, error) {
	var keys []value.Value
	for _, row := range elems {
		for _, pr := range row.Pairs() {
			found := false
			for _, k := range keys {
				if keyEqual(k, pr.Key) {
					found = true
					break
				}
			}
			if !found {
				keys = append(keys, pr.Key)
			}
		}
	}

	control, data := swapLengthRecord(uint64(len(keys)))
	data = append(data, wire.PutVarint[uint64](nil, uint64(len(elems)))...)
	p := NewProxy(control, data, nil)

	for _, k := range keys {
		kp, err := dump(k)
		if err != nil {
			return nil, err
		}
		p.Children = append(p.Children, kp)
		for _, row := range elems {
			cp, err := dump(findCell(row, k))
			if err != nil {
				return nil, err
			}
			p.Children = append(p.Children, cp)
		}
	}
	return p, nil
}
