package codec

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/kylelemons/godebug/pretty"

	"github.com/jksn-go/jksn/internal/wire"
	"github.com/jksn-go/jksn/value"
)

func decodeOne(t *testing.T, buf []byte) value.Value {
	t.Helper()
	d := NewDecoder()
	v, err := d.Decode(bufio.NewReader(bytes.NewReader(buf)))
	if err != nil {
		t.Fatalf("Decode(% X): %v", buf, err)
	}
	return v
}

func roundTrip(t *testing.T, v value.Value) value.Value {
	t.Helper()
	e := NewEncoder()
	p, err := e.Encode(v)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var buf bytes.Buffer
	if _, err := p.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	d := NewDecoder()
	got, err := d.Decode(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("Decode(% X): %v", buf.Bytes(), err)
	}
	return got
}

func valueDiff(t *testing.T, want, got value.Value) {
	t.Helper()
	if diff := pretty.Compare(snapshot(want), snapshot(got)); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}
}

// snapshot turns a Value into a plain, comparable Go structure for
// pretty.Compare, since Value itself carries unexported fields.
func snapshot(v value.Value) interface{} {
	switch v.Kind() {
	case value.Undefined, value.Null, value.Unspecified:
		return v.Kind().String()
	case value.Bool:
		return v.Bool()
	case value.Int:
		return v.Int()
	case value.Float32:
		return v.Float32()
	case value.Float64:
		return v.Float64()
	case value.Float80:
		return v.Float80Bytes()
	case value.String:
		return v.Text()
	case value.Blob:
		return v.Blob()
	case value.Array:
		out := make([]interface{}, 0, len(v.Elems()))
		for _, e := range v.Elems() {
			out = append(out, snapshot(e))
		}
		return out
	case value.Object:
		out := make([]interface{}, 0, len(v.Pairs()))
		for _, pr := range v.Pairs() {
			out = append(out, [2]interface{}{snapshot(pr.Key), snapshot(pr.Val)})
		}
		return out
	default:
		return nil
	}
}

func TestDecodeSpecials(t *testing.T) {
	tests := []struct {
		buf  []byte
		want value.Value
	}{
		{[]byte{0x00}, value.NewUndefined()},
		{[]byte{0x01}, value.NewNull()},
		{[]byte{0x02}, value.NewBool(false)},
		{[]byte{0x03}, value.NewBool(true)},
	}
	for _, test := range tests {
		got := decodeOne(t, test.buf)
		valueDiff(t, test.want, got)
	}
}

func TestDecodeReservedOpcode(t *testing.T) {
	d := NewDecoder()
	if _, err := d.Decode(bufio.NewReader(bytes.NewReader([]byte{wire.Reserved}))); err == nil {
		t.Errorf("expected an error decoding the reserved opcode")
	}
}

func TestRoundTripScalars(t *testing.T) {
	tests := []value.Value{
		value.NewUndefined(),
		value.NewNull(),
		value.NewBool(true),
		value.NewInt(0),
		value.NewInt(-1),
		value.NewInt(128),
		value.NewInt(65535),
		value.NewInt(-70000),
		value.NewFloat32(1.0),
		value.NewFloat64(3.5),
		value.NewString("aaa"),
		value.NewString("héllo wörld"),
		value.NewBlob([]byte{0x01, 0x02, 0x03, 0x04}),
	}
	for _, v := range tests {
		got := roundTrip(t, v)
		valueDiff(t, v, got)
	}
}

func TestRoundTripArrayIntDelta(t *testing.T) {
	v := value.NewArray(value.NewInt(100), value.NewInt(101), value.NewInt(100))
	got := roundTrip(t, v)
	valueDiff(t, v, got)
}

func TestRoundTripStringHashRef(t *testing.T) {
	v := value.NewArray(value.NewString("aaa"), value.NewString("aaa"), value.NewString("aaa"))
	got := roundTrip(t, v)
	valueDiff(t, v, got)
}

func TestRoundTripSwapArray(t *testing.T) {
	v := value.NewArray(
		value.NewObject(value.Pair{Key: value.NewString("a"), Val: value.NewInt(1)}),
		value.NewObject(
			value.Pair{Key: value.NewString("a"), Val: value.NewInt(2)},
			value.Pair{Key: value.NewString("b"), Val: value.NewInt(3)},
		),
	)
	got := roundTrip(t, v)
	valueDiff(t, v, got)
}

func TestDecodeHashRefToUnsetSlotFails(t *testing.T) {
	buf := []byte{0x3C, 0x00}
	d := NewDecoder()
	if _, err := d.Decode(bufio.NewReader(bytes.NewReader(buf))); err == nil {
		t.Errorf("expected an error for an unresolved hash reference")
	}
}

// TestDecodeObjectRejectsDuplicateKeys covers spec.md §4.5/§6's requirement
// that a repeated key in an object record is malformed, not last-write-wins.
func TestDecodeObjectRejectsDuplicateKeys(t *testing.T) {
	buf := []byte{
		0x92, // object, 2 pairs
		0x41, 0x61, 0x10, // "a": 0
		0x41, 0x61, 0x11, // "a": 1 (duplicate key)
	}
	d := NewDecoder()
	if _, err := d.Decode(bufio.NewReader(bytes.NewReader(buf))); err == nil {
		t.Errorf("expected an error for a duplicate object key")
	}
}

func TestCacheResetClearsHashTable(t *testing.T) {
	// Encode "aaa", reset the encoder's cache, then encode "aaa" again:
	// the second occurrence must NOT be hash-referenced because the reset
	// cleared the table in between.
	e := NewEncoder()
	p1, err := e.Encode(value.NewString("aaa"))
	if err != nil {
		t.Fatal(err)
	}
	e.ResetCache()
	p2, err := e.Encode(value.NewString("aaa"))
	if err != nil {
		t.Fatal(err)
	}
	if p2.Control == wire.HashRef {
		t.Errorf("expected a literal string record after cache reset, got a hash reference")
	}
	_ = p1
}

func TestDecodeArrayStream(t *testing.T) {
	e := NewEncoder()
	items := []value.Value{value.NewInt(1), value.NewInt(2), value.NewInt(3)}
	i := 0
	p, err := e.EncodeStream(func() (value.Value, bool) {
		if i >= len(items) {
			return value.Value{}, false
		}
		v := items[i]
		i++
		return v, true
	})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if _, err := p.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	d := NewDecoder()
	got, err := d.Decode(bufio.NewReader(&buf))
	if err != nil {
		t.Fatal(err)
	}
	want := value.NewArray(items...)
	valueDiff(t, want, got)
}
