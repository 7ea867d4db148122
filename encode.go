package jksn

import (
	"bytes"
	"io"

	"github.com/jksn-go/jksn/internal/codec"
	"github.com/jksn-go/jksn/internal/wire"
)

// Encoder holds the dedup/delta cache the dump-then-optimize pipeline uses.
// A zero Encoder is not usable; construct one with NewEncoder. Reusing an
// Encoder across multiple Encode calls lets later values reference strings,
// blobs, and deltas seen in earlier ones.
type Encoder struct {
	enc *codec.Encoder
}

// NewEncoder returns an Encoder with a fresh cache.
func NewEncoder() *Encoder {
	return &Encoder{enc: codec.NewEncoder()}
}

// ResetCache clears the encoder's cache, as if newly constructed. It
// writes no cache-reset record to the output, and no Encoder method emits
// one, so a Decoder reading the output keeps its own cache unchanged.
func (e *Encoder) ResetCache() { e.enc.ResetCache() }

// EncodeTo writes v's wire form to w, prefixed by the 3-byte magic header
// if includeHeader is set.
func (e *Encoder) EncodeTo(w io.Writer, v Value, includeHeader bool) (err error) {
	defer recoverTypeError(&err, func(e error) error { return &EncodeError{Err: e} })

	if includeHeader {
		if _, err := w.Write(wire.Magic[:]); err != nil {
			return &EncodeError{Err: err}
		}
	}
	proxy, err := e.enc.Encode(v)
	if err != nil {
		return &EncodeError{Err: err}
	}
	if _, err := proxy.WriteTo(w); err != nil {
		return &EncodeError{Err: err}
	}
	return nil
}

// Encode returns v's wire form as a byte slice.
func (e *Encoder) Encode(v Value, includeHeader bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.EncodeTo(&buf, v, includeHeader); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeStreamTo writes a lengthless array (SPEC_FULL.md §4) built from
// values produced by next, which must return ok=false exactly once, right
// after its last element. Useful when the element count isn't known
// up front, at the cost of a trailing Unspecified sentinel on the wire.
func (e *Encoder) EncodeStreamTo(w io.Writer, next func() (Value, bool), includeHeader bool) (err error) {
	defer recoverTypeError(&err, func(e error) error { return &EncodeError{Err: e} })

	if includeHeader {
		if _, err := w.Write(wire.Magic[:]); err != nil {
			return &EncodeError{Err: err}
		}
	}
	proxy, err := e.enc.EncodeStream(next)
	if err != nil {
		return &EncodeError{Err: err}
	}
	if _, err := proxy.WriteTo(w); err != nil {
		return &EncodeError{Err: err}
	}
	return nil
}

// Encode is a one-shot convenience wrapper around a fresh Encoder.
func Encode(v Value, includeHeader bool) ([]byte, error) {
	return NewEncoder().Encode(v, includeHeader)
}

// EncodeTo is a one-shot convenience wrapper around a fresh Encoder.
func EncodeTo(w io.Writer, v Value, includeHeader bool) error {
	return NewEncoder().EncodeTo(w, v, includeHeader)
}
