// Package codec implements the encoder's dump-then-optimize pipeline and
// the decoder's single-pass parser described in spec.md §4. It is the core
// of the jksn wire format; the root jksn package is a thin public wrapper
// around it.
package codec

import "io"

// Proxy is the encoder's in-memory intermediate form: a control byte, its
// fixed data payload, its trailing variable payload, and any child
// records, ready to be rewritten by the optimizer before being written out.
//
// The "weak back-reference to origin" spec.md §3 describes is replaced by
// OrigInt, which carries the source integer directly on class-0x1 nodes —
// see SPEC_FULL.md §1 for why that's the right call in Go.
type Proxy struct {
	Control  byte
	Data     []byte
	Buf      []byte
	Children []*Proxy

	OrigInt int64 // valid only when Control's class is 0x10 (integer).
	Hash    byte  // DJB8 of Buf; valid only when Buf is non-empty.
}

// NewProxy builds a leaf or parent Proxy node, copying data and buf so the
// proxy does not alias caller-owned slices.
func NewProxy(control byte, data, buf []byte) *Proxy {
	p := &Proxy{Control: control}
	if len(data) > 0 {
		p.Data = append([]byte(nil), data...)
	}
	if len(buf) > 0 {
		p.Buf = append([]byte(nil), buf...)
	}
	return p
}

// Size returns the serialized byte size of the subtree rooted at p.
// depth bounds how many levels of children are counted: 0 means unbounded
// (the whole subtree), 1 means just this node, and N>1 means this node
// plus N-1 levels of descendants. The array dumper uses depth 3 as a cheap
// heuristic to compare straight vs. column-swapped encodings without
// fully costing out deep trees.
func (p *Proxy) Size(depth int) int64 {
	result := int64(1 + len(p.Data) + len(p.Buf))
	switch depth {
	case 1:
		return result
	case 0:
		for _, c := range p.Children {
			result += c.Size(0)
		}
	default:
		for _, c := range p.Children {
			result += c.Size(depth - 1)
		}
	}
	return result
}

// WriteTo serializes p and its children, depth-first, to w.
func (p *Proxy) WriteTo(w io.Writer) (int64, error) {
	var total int64
	n, err := w.Write([]byte{p.Control})
	total += int64(n)
	if err != nil {
		return total, err
	}
	if len(p.Data) > 0 {
		n, err = w.Write(p.Data)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	if len(p.Buf) > 0 {
		n, err = w.Write(p.Buf)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	for _, c := range p.Children {
		cn, err := c.WriteTo(w)
		total += cn
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
