package cstruct

import "sync"

// cache memoizes values produced by a construction function, keyed by
// a comparable key. It backs the WithEndian clone memoization (keyed
// by Endian) described in the data model: "with_endian produces a
// memoized clone ... identity is preserved across repeated calls with
// the same endian".
type cache[K comparable, V any] struct {
	mu sync.Mutex
	m  map[K]V
}

func (c *cache[K, V]) getOrCreate(key K, create func() V) V {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.m == nil {
		c.m = make(map[K]V)
	}
	if v, ok := c.m[key]; ok {
		return v
	}
	v := create()
	c.m[key] = v
	return v
}

// endianVariants memoizes the WithEndian(e) clones of a descriptor,
// one per Endian value. Embed it (by value, since it carries its own
// mutex) in every concrete Descriptor type.
type endianVariants struct {
	cache cache[Endian, Descriptor]
}

func (ev *endianVariants) withEndian(self Descriptor, fixed *Endian, e Endian, clone func(Endian) Descriptor) Descriptor {
	if fixed != nil && *fixed == e {
		return self
	}
	return ev.cache.getOrCreate(e, func() Descriptor { return clone(e) })
}
