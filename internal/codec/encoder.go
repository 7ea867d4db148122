package codec

import (
	"github.com/jksn-go/jksn/internal/wire"
	"github.com/jksn-go/jksn/value"
)

// Encoder runs the dump-then-optimize pipeline over successive values,
// sharing one Cache across calls so repeated strings, blobs, and integers
// across a whole stream of Encode calls keep benefiting from dedup and
// delta coding, not just within a single value.
type Encoder struct {
	cache Cache
}

// NewEncoder returns an Encoder with a fresh cache.
func NewEncoder() *Encoder { return &Encoder{} }

// Encode builds the optimized proxy tree for v. The caller is responsible
// for writing it out (via Proxy.WriteTo) and for the file header, if any.
func (e *Encoder) Encode(v value.Value) (*Proxy, error) {
	p, err := dump(v)
	if err != nil {
		return nil, err
	}
	optimizeNode(p, &e.cache)
	return p, nil
}

// EncodeStream builds a lengthless array (SPEC_FULL.md §4) from a sequence
// of values produced by next, which must return ok=false exactly once, on
// the call after its last element. This lets a caller stream an array
// whose length isn't known up front, at the cost of one Unspecified
// sentinel on the wire.
func (e *Encoder) EncodeStream(next func() (value.Value, bool)) (*Proxy, error) {
	p := &Proxy{Control: wire.ArrayStream}
	for {
		v, ok := next()
		if !ok {
			break
		}
		c, err := dump(v)
		if err != nil {
			return nil, err
		}
		p.Children = append(p.Children, c)
	}
	p.Children = append(p.Children, NewProxy(wire.Unspecified, nil, nil))
	optimizeNode(p, &e.cache)
	return p, nil
}

// ResetCache clears the encoder's dedup/delta state, as if it were newly
// constructed. It emits no cache-reset record; only the in-memory cache
// is cleared.
func (e *Encoder) ResetCache() { e.cache.Reset() }
