package jksn

import (
	"bufio"
	"bytes"
	"io"

	"github.com/jksn-go/jksn/internal/codec"
	"github.com/jksn-go/jksn/internal/wire"
)

// Decoder holds the inverse cache the recursive-descent parser uses to
// resolve delta-coded integers and hash references. A zero Decoder is not
// usable; construct one with NewDecoder. Reusing a Decoder across multiple
// Decode calls lets it resolve references emitted against an Encoder's
// cumulative state over a stream of related values.
type Decoder struct {
	dec *codec.Decoder
}

// NewDecoder returns a Decoder with a fresh cache.
func NewDecoder() *Decoder {
	return &Decoder{dec: codec.NewDecoder()}
}

// ResetCache clears the decoder's cache, as if newly constructed.
func (d *Decoder) ResetCache() { d.dec.ResetCache() }

// DecodeFrom reads one value from r. If expectHeader is set, it peeks the
// first 3 bytes for the magic header and consumes them only on a match;
// on a mismatch (or a short read), the bytes are left for the value parser,
// per spec.md §4.6's rewind rule.
func (d *Decoder) DecodeFrom(r io.Reader, expectHeader bool) (v Value, err error) {
	defer recoverTypeError(&err, func(e error) error { return &DecodeError{Err: e} })

	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	if expectHeader {
		if peek, peekErr := br.Peek(len(wire.Magic)); peekErr == nil && bytes.Equal(peek, wire.Magic[:]) {
			if _, err := br.Discard(len(wire.Magic)); err != nil {
				return Value{}, &DecodeError{Err: err}
			}
		}
	}
	val, err := d.dec.Decode(br)
	if err != nil {
		return Value{}, &DecodeError{Err: err}
	}
	return val, nil
}

// Decode reads one value from data.
func (d *Decoder) Decode(data []byte, expectHeader bool) (Value, error) {
	return d.DecodeFrom(bytes.NewReader(data), expectHeader)
}

// Decode is a one-shot convenience wrapper around a fresh Decoder.
func Decode(data []byte, expectHeader bool) (Value, error) {
	return NewDecoder().Decode(data, expectHeader)
}

// DecodeFrom is a one-shot convenience wrapper around a fresh Decoder.
func DecodeFrom(r io.Reader, expectHeader bool) (Value, error) {
	return NewDecoder().DecodeFrom(r, expectHeader)
}
