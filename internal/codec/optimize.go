package codec

import "github.com/jksn-go/jksn/internal/wire"

// optimizeNode rewrites p in place per spec.md §4.4: integers become
// deltas against the cache's running lastint, repeated strings and blobs
// become hash references, and every other class is left alone but still
// walked so its children get the same treatment, in document order.
func optimizeNode(p *Proxy, cache *Cache) {
	switch wire.Class(p.Control) {
	case wire.Class(wire.IntImmediateMin):
		optimizeInt(p, cache)
	case wire.Class(wire.Str16ImmediateMin), wire.Class(wire.Str8ImmediateMin):
		optimizeBuf(p, cache, &cache.text)
	case wire.Class(wire.BlobImmediateMin):
		optimizeBuf(p, cache, &cache.blob)
	default:
		for _, c := range p.Children {
			optimizeNode(c, cache)
		}
	}
}

// deltaForm picks the shortest encoding of delta, mirroring dumpInt's
// ladder but over the 0xB-class delta opcodes and with wider immediate
// coverage for the common near-zero case.
func deltaForm(delta int64) (byte, []byte) {
	switch {
	case delta >= 0 && delta <= 5:
		return wire.DeltaSmallPosMin + byte(delta), nil
	case delta >= -5 && delta <= -1:
		return wire.DeltaSmallNegMin + byte(delta+11-6), nil
	case delta >= -0x80 && delta <= 0x7f:
		return wire.DeltaInt8, wire.PutFixed[int8](nil, int8(delta))
	case delta >= -0x8000 && delta <= 0x7fff:
		return wire.DeltaInt16, wire.PutFixed[int16](nil, int16(delta))
	case (delta >= -0x80000000 && delta <= -0x200000) || (delta >= 0x200000 && delta <= 0x7fffffff):
		return wire.DeltaInt32, wire.PutFixed[int32](nil, int32(delta))
	case delta >= 0:
		return wire.DeltaPosVarint, wire.PutVarint[uint64](nil, uint64(delta))
	default:
		return wire.DeltaNegVarint, wire.PutVarint[uint64](nil, absU64(delta))
	}
}

func optimizeInt(p *Proxy, cache *Cache) {
	if cache.hasLastInt {
		delta := p.OrigInt - cache.lastInt
		overflowed := (cache.lastInt < 0 && p.OrigInt > 0 && delta < 0) ||
			(cache.lastInt > 0 && p.OrigInt < 0 && delta > 0)
		if !overflowed && absU64(delta) < absU64(p.OrigInt) {
			newControl, newData := deltaForm(delta)
			if len(newData) < len(p.Data) {
				p.Control = newControl
				p.Data = newData
			}
		}
	}
	cache.hasLastInt = true
	cache.lastInt = p.OrigInt
}

// optimizeBuf rewrites p into a 1-byte hash reference if its payload
// already sits in the given cache slot, otherwise records it there for
// future references. table is &cache.text or &cache.blob.
func optimizeBuf(p *Proxy, cache *Cache, table *[256][]byte) {
	// spec.md §4.4: only payloads longer than 1 byte are worth a lookup —
	// a 1-byte payload's immediate form is already as small as a hash
	// reference would be, so there is nothing to gain either way.
	if len(p.Buf) <= 1 {
		return
	}
	idx := p.Hash
	if table[idx] != nil && string(table[idx]) == string(p.Buf) {
		p.Control = wire.HashRef
		p.Data = []byte{idx}
		p.Buf = nil
		return
	}
	table[idx] = append([]byte(nil), p.Buf...)
}
