// Package value defines the dynamically typed value tree that the jksn codec
// encodes and decodes. It is deliberately small: construction, accessors, and
// nothing else. Equality and ordering for values used as map keys live
// outside this package, since the codec never needs them — object entries
// are kept as an ordered slice of pairs, not a map.
package value

import "fmt"

// Kind discriminates the twelve value variants the codec understands.
type Kind uint8

const (
	Undefined Kind = iota
	Null
	Bool
	Int
	Float32
	Float64
	Float80
	String
	Blob
	Array
	Object
	Unspecified
)

func (k Kind) String() string {
	switch k {
	case Undefined:
		return "undefined"
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Float80:
		return "float80"
	case String:
		return "string"
	case Blob:
		return "blob"
	case Array:
		return "array"
	case Object:
		return "object"
	case Unspecified:
		return "unspecified"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// TypeError is raised by an accessor when called against a Value of the
// wrong Kind. It is only ever produced by code paths that already checked
// Kind() and should be unreachable in practice; callers that hit it have a
// bug, not bad input.
type TypeError struct {
	Have, Want Kind
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("value: called %s accessor on a %s value", e.Want, e.Have)
}

// Pair is one key/value entry of an Object, kept in insertion order.
type Pair struct {
	Key, Val Value
}

// Value is an immutable tagged union over the JKSN data model. The zero
// Value is Undefined.
type Value struct {
	kind Kind

	b   bool
	i   int64
	f32 float32
	f64 float64
	f80 [10]byte
	s   string
	buf []byte
	arr []Value
	obj []Pair
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

func mismatch(have, want Kind) {
	panic(&TypeError{Have: have, Want: want})
}

// NewUndefined returns the Undefined value.
func NewUndefined() Value { return Value{kind: Undefined} }

// NewNull returns the Null value.
func NewNull() Value { return Value{kind: Null} }

// NewBool returns a Bool value.
func NewBool(b bool) Value { return Value{kind: Bool, b: b} }

// NewInt returns an Int value.
func NewInt(i int64) Value { return Value{kind: Int, i: i} }

// NewFloat32 returns a Float32 value.
func NewFloat32(f float32) Value { return Value{kind: Float32, f32: f} }

// NewFloat64 returns a Float64 value.
func NewFloat64(f float64) Value { return Value{kind: Float64, f64: f} }

// NewFloat80 returns a Float80 value from its raw 10-byte big-endian wire
// payload. Go has no extended-precision float type to decode this into, so
// the bytes are carried opaquely; see SPEC_FULL.md §1.
func NewFloat80(raw [10]byte) Value { return Value{kind: Float80, f80: raw} }

// NewString returns a String value. s must be well-formed UTF-8.
func NewString(s string) Value { return Value{kind: String, s: s} }

// NewBlob returns a Blob value. The bytes are opaque and never transcoded.
func NewBlob(b []byte) Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Value{kind: Blob, buf: cp}
}

// NewArray returns an Array value holding elems in order.
func NewArray(elems ...Value) Value {
	cp := make([]Value, len(elems))
	copy(cp, elems)
	return Value{kind: Array, arr: cp}
}

// NewObject returns an Object value holding pairs in iteration order.
func NewObject(pairs ...Pair) Value {
	cp := make([]Pair, len(pairs))
	copy(cp, pairs)
	return Value{kind: Object, obj: cp}
}

// NewUnspecified returns the Unspecified sentinel, used for absent cells in
// a column-swapped array.
func NewUnspecified() Value { return Value{kind: Unspecified} }

// Bool returns the boolean held by v. It panics with *TypeError if v.Kind()
// is not Bool.
func (v Value) Bool() bool {
	if v.kind != Bool {
		mismatch(v.kind, Bool)
	}
	return v.b
}

// Int returns the integer held by v.
func (v Value) Int() int64 {
	if v.kind != Int {
		mismatch(v.kind, Int)
	}
	return v.i
}

// Float32 returns the float32 held by v.
func (v Value) Float32() float32 {
	if v.kind != Float32 {
		mismatch(v.kind, Float32)
	}
	return v.f32
}

// Float64 returns the float64 held by v.
func (v Value) Float64() float64 {
	if v.kind != Float64 {
		mismatch(v.kind, Float64)
	}
	return v.f64
}

// Float80Bytes returns the raw 10-byte big-endian payload held by v.
func (v Value) Float80Bytes() [10]byte {
	if v.kind != Float80 {
		mismatch(v.kind, Float80)
	}
	return v.f80
}

// Text returns the UTF-8 byte view of the string held by v.
func (v Value) Text() string {
	if v.kind != String {
		mismatch(v.kind, String)
	}
	return v.s
}

// Blob returns the opaque bytes held by v.
func (v Value) Blob() []byte {
	if v.kind != Blob {
		mismatch(v.kind, Blob)
	}
	return v.buf
}

// Elems returns the elements of the array held by v, in order.
func (v Value) Elems() []Value {
	if v.kind != Array {
		mismatch(v.kind, Array)
	}
	return v.arr
}

// Pairs returns the entries of the object held by v, in iteration order.
func (v Value) Pairs() []Pair {
	if v.kind != Object {
		mismatch(v.kind, Object)
	}
	return v.obj
}
