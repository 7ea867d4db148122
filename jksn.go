// Package jksn implements the JKSN binary serialization codec: a compact,
// JSON-superset wire format built on a 1-byte type-dispatch control byte,
// variable-length integers, delta-coded integers, a single-byte hash index
// for repeated strings and blobs, and an optional column-swap layout for
// arrays of same-shaped records.
//
// Encode and Decode are one-shot convenience wrappers. Encoder and Decoder
// expose the same operations with a cache that persists across calls, so a
// stream of related values benefits from cross-value dedup and delta
// coding, not just within a single value.
package jksn

import (
	"github.com/jksn-go/jksn/value"
)

// Value, Kind, and Pair alias the underlying value ADT so callers never
// need to import the value package directly.
type (
	Value = value.Value
	Kind  = value.Kind
	Pair  = value.Pair
)

// Kind constants, re-exported for convenience.
const (
	KindUndefined   = value.Undefined
	KindNull        = value.Null
	KindBool        = value.Bool
	KindInt         = value.Int
	KindFloat32     = value.Float32
	KindFloat64     = value.Float64
	KindFloat80     = value.Float80
	KindString      = value.String
	KindBlob        = value.Blob
	KindArray       = value.Array
	KindObject      = value.Object
	KindUnspecified = value.Unspecified
)

// Constructors, re-exported for convenience.
var (
	NewUndefined   = value.NewUndefined
	NewNull        = value.NewNull
	NewBool        = value.NewBool
	NewInt         = value.NewInt
	NewFloat32     = value.NewFloat32
	NewFloat64     = value.NewFloat64
	NewFloat80     = value.NewFloat80
	NewString      = value.NewString
	NewBlob        = value.NewBlob
	NewArray       = value.NewArray
	NewObject      = value.NewObject
	NewUnspecified = value.NewUnspecified
)
