package jksn

import (
	"fmt"

	"github.com/jksn-go/jksn/value"
)

// EncodeError wraps a failure encountered while building the wire form of
// a value. It is the only error Encode/EncodeTo/Encoder.Encode ever
// return; the internal value.TypeError panic that an accessor mismatch
// would raise is recovered at this boundary and never escapes as a panic,
// matching encoding/json's recover-at-the-API-edge convention.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string { return fmt.Sprintf("jksn: encode: %s", e.Err) }
func (e *EncodeError) Unwrap() error { return e.Err }

// DecodeError wraps a failure encountered while parsing a byte stream.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("jksn: decode: %s", e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// recoverTypeError turns a value.TypeError panic into a plain error via
// wrap, leaving any other panic to propagate — an accessor mismatch
// inside the pipeline is this package's bug to report cleanly, not the
// caller's to debug from a raw panic trace.
func recoverTypeError(errp *error, wrap func(error) error) {
	if r := recover(); r != nil {
		if te, ok := r.(*value.TypeError); ok {
			*errp = wrap(te)
			return
		}
		panic(r)
	}
}
