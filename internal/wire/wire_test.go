package wire

import (
	"bytes"
	"testing"
)

func TestPutGetFixed(t *testing.T) {
	tests := []struct {
		desc string
		buf  []byte
		want int64
	}{
		{desc: "int8 -1", buf: PutFixed[int8](nil, -1), want: -1},
		{desc: "int8 127", buf: PutFixed[int8](nil, 127), want: 127},
		{desc: "int16 -32768", buf: PutFixed[int16](nil, -32768), want: -32768},
		{desc: "int32 min", buf: PutFixed[int32](nil, -2147483648), want: -2147483648},
	}
	for _, test := range tests {
		var got int64
		switch len(test.buf) {
		case 1:
			got = GetInt8(test.buf)
		case 2:
			got = GetInt16(test.buf)
		case 4:
			got = GetInt32(test.buf)
		}
		if got != test.want {
			t.Errorf("%s: got %d, want %d", test.desc, got, test.want)
		}
	}
}

func TestVarintRoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 10, 127, 128, 16383, 16384, 0x7fffffff, 0xffffffffffffffff} {
		buf := PutVarint[uint64](nil, v)
		got, err := GetVarint(bytes.NewReader(buf))
		if err != nil {
			t.Fatalf("GetVarint(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("round trip %d: got %d", v, got)
		}
	}
}

func TestVarint65535(t *testing.T) {
	buf := PutVarint[uint64](nil, 65535)
	want := []byte{0x83, 0xFF, 0x7F}
	if !bytes.Equal(buf, want) {
		t.Errorf("PutVarint(65535) = % X, want % X", buf, want)
	}
}

func TestVarintOverflow(t *testing.T) {
	// 10 bytes of continuation, each carrying max magnitude, cannot fit in
	// a uint64.
	buf := bytes.Repeat([]byte{0xFF}, 10)
	buf = append(buf, 0x7F)
	if _, err := GetVarint(bytes.NewReader(buf)); err == nil {
		t.Errorf("GetVarint: expected overflow error, got nil")
	}
}

func TestDJB8(t *testing.T) {
	// Computed directly from the recurrence in §4.1: h=0; h=h+(h<<5)+b per
	// byte. 0x61 three times: 97 -> 3298 -> 108931 -> mod 256 = 0x83.
	got := DJB8([]byte("aaa"))
	if got != 0x83 {
		t.Errorf("DJB8(\"aaa\") = %#x, want 0x83", got)
	}
}
