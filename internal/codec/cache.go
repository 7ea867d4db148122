package codec

// Cache is the encoder's per-instance dedup/delta state, used by the
// optimizer (the decoder keeps its own decodeCache). It lives for the
// lifetime of the owning Encoder and is never reset automatically between
// calls — spec.md §3 and §9 take that persistence as normative, enabling
// cross-document dedup when an instance is reused.
type Cache struct {
	hasLastInt bool
	lastInt    int64

	text [256][]byte
	blob [256][]byte
}

// Reset clears the cache, as if newly constructed. It writes nothing to
// the stream; no cache-reset record is emitted.
func (c *Cache) Reset() {
	c.hasLastInt = false
	c.lastInt = 0
	for i := range c.text {
		c.text[i] = nil
	}
	for i := range c.blob {
		c.blob[i] = nil
	}
}
