package jksn

import (
	"bytes"
	"testing"

	"github.com/kylelemons/godebug/pretty"
)

func snapshot(v Value) interface{} {
	switch v.Kind() {
	case KindUndefined, KindNull, KindUnspecified:
		return v.Kind().String()
	case KindBool:
		return v.Bool()
	case KindInt:
		return v.Int()
	case KindFloat32:
		return v.Float32()
	case KindFloat64:
		return v.Float64()
	case KindString:
		return v.Text()
	case KindBlob:
		return v.Blob()
	case KindArray:
		out := make([]interface{}, 0, len(v.Elems()))
		for _, e := range v.Elems() {
			out = append(out, snapshot(e))
		}
		return out
	case KindObject:
		out := make([]interface{}, 0, len(v.Pairs()))
		for _, pr := range v.Pairs() {
			out = append(out, [2]interface{}{snapshot(pr.Key), snapshot(pr.Val)})
		}
		return out
	default:
		return nil
	}
}

func assertRoundTrips(t *testing.T, v Value) {
	t.Helper()
	for _, header := range []bool{false, true} {
		encoded, err := Encode(v, header)
		if err != nil {
			t.Fatalf("Encode(header=%v): %v", header, err)
		}
		got, err := Decode(encoded, header)
		if err != nil {
			t.Fatalf("Decode(header=%v): %v", header, err)
		}
		if diff := pretty.Compare(snapshot(v), snapshot(got)); diff != "" {
			t.Errorf("header=%v round trip mismatch (-want +got):\n%s", header, diff)
		}
	}
}

func TestRoundTripBasicValues(t *testing.T) {
	values := []Value{
		NewUndefined(),
		NewNull(),
		NewBool(true),
		NewInt(-70000),
		NewFloat64(2.5),
		NewString("hello"),
		NewBlob([]byte{1, 2, 3}),
		NewArray(NewInt(1), NewInt(2), NewInt(3)),
		NewObject(Pair{Key: NewString("x"), Val: NewInt(1)}),
	}
	for _, v := range values {
		assertRoundTrips(t, v)
	}
}

// TestHeaderOptionalRewind covers spec.md §4.6 and §8's header-optional
// property: decoding with expectHeader=true must still succeed against a
// stream that was encoded without one, by rewinding past the failed peek.
func TestHeaderOptionalRewind(t *testing.T) {
	v := NewInt(42)
	noHeader, err := Encode(v, false)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(noHeader, true)
	if err != nil {
		t.Fatalf("Decode with expectHeader=true on a headerless stream: %v", err)
	}
	if diff := pretty.Compare(snapshot(v), snapshot(got)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeToMatchesEncode(t *testing.T) {
	v := NewArray(NewString("aaa"), NewString("aaa"))
	want, err := Encode(v, false)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := EncodeTo(&buf, v, false); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(want, buf.Bytes()) {
		t.Errorf("EncodeTo produced different bytes than Encode: % X vs % X", buf.Bytes(), want)
	}
}

func TestStreamingEncoderCache(t *testing.T) {
	enc := NewEncoder()
	var buf bytes.Buffer
	if err := enc.EncodeTo(&buf, NewString("repeat"), false); err != nil {
		t.Fatal(err)
	}
	first := buf.Len()
	buf.Reset()
	if err := enc.EncodeTo(&buf, NewString("repeat"), false); err != nil {
		t.Fatal(err)
	}
	if buf.Len() >= first {
		t.Errorf("second occurrence of a repeated string should be shorter via hash reference: first=%d second=%d", first, buf.Len())
	}
}
