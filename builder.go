package cstruct

import "sync"

// BuilderContext is a named-layout registry threaded explicitly
// through construction code, standing in for the scoped
// thread-local "type lookup" stack: pass one in wherever a layout
// needs to refer to another layout by name instead of embedding it
// directly, and nothing is shared across goroutines unless they share
// the same *BuilderContext.
type BuilderContext struct {
	mu    sync.Mutex
	named map[string]Descriptor
}

// NewBuilderContext creates an empty registry.
func NewBuilderContext() *BuilderContext {
	return &BuilderContext{named: map[string]Descriptor{}}
}

// Register stores d under name, replacing any previous descriptor
// registered under the same name. Re-registering a name is a reload:
// future Lookups see the new layout, but any already-unpacked values
// produced under the old one remain valid plain maps — they carry no
// reference back to the descriptor that produced them.
func (bc *BuilderContext) Register(name string, d Descriptor) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	bc.named[name] = d
}

// Lookup returns the descriptor registered under name, if any.
func (bc *BuilderContext) Lookup(name string) (Descriptor, bool) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	d, ok := bc.named[name]
	return d, ok
}

// MustLookup is Lookup but panics if name isn't registered; useful in
// top-level layout-construction code where a missing named reference
// is a programmer error, not a runtime condition to recover from.
func (bc *BuilderContext) MustLookup(name string) Descriptor {
	d, ok := bc.Lookup(name)
	if !ok {
		panic("cstruct: no layout registered under name " + name)
	}
	return d
}
