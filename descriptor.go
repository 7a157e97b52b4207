package cstruct

// A Descriptor describes how to pack a host value into bytes and
// unpack bytes back into a host value, for one C-style type. The
// family is closed: every implementation in this package is one of
// Int, Enum, Bitmap, Bitfield, String, Array, Terminated, Pad,
// Struct, or Union.
//
// Descriptors are immutable after construction. WithEndian/WithoutEndian
// return new descriptors rather than mutating the receiver.
type Descriptor interface {
	// Pack validates (unless disabled via SkipValidation) and encodes
	// val, returning the packed bytes.
	Pack(val any, opts ...Option) ([]byte, error)

	// UnpackOne decodes one value off the front of buf, returning the
	// value and the unconsumed remainder.
	UnpackOne(buf []byte, opts ...Option) (val any, tail []byte, err error)

	// Size returns the exact byte count for fixed-size descriptors,
	// or the minimum byte count for variable-size ones.
	Size() int

	// FixedSize reports whether Size is exact.
	FixedSize() bool

	// Greedy reports whether the descriptor consumes all remaining
	// input when unpacked, having no internal terminator or size
	// predicate of its own.
	Greedy() bool

	// FixedEndian returns the descriptor's own endian override, if it
	// carries one.
	FixedEndian() (Endian, bool)

	// WithEndian returns a descriptor with e as its fixed endian,
	// overriding any children that don't carry their own fixed
	// endian. WithEndian is idempotent: calling it twice with the same
	// endian returns an identical (in the == sense, where applicable)
	// descriptor to calling it once.
	WithEndian(e Endian) Descriptor

	// WithoutEndian removes one level of fixed-endian override, per
	// WithEndian.
	WithoutEndian() Descriptor

	// DefaultValue returns the value used to fill in a Fixed-count
	// Array slot or a missing Struct field when packing.
	DefaultValue() any
}

// Option customizes a single Pack/UnpackOne/Unpack/UnpackAll/Read/Pread
// call.
type Option func(*callOptions)

type callOptions struct {
	endian   *Endian
	validate bool
	padBytes []byte
}

func resolveOptions(opts []Option) callOptions {
	co := callOptions{validate: true}
	for _, o := range opts {
		o(&co)
	}
	return co
}

// PadBytes supplies the bytes a Union's size predicate should borrow
// from when it needs more input than has been packed so far (see
// Union's dynamic-size pack path). Bytes beyond the union's current
// buffer, up to what the predicate asked for, are taken from padBytes
// at the corresponding offset; anything padBytes doesn't cover is
// zero-filled.
func PadBytes(padBytes []byte) Option {
	return func(co *callOptions) { co.padBytes = padBytes }
}

// UseEndian overrides the caller-supplied endian for a single
// Pack/Unpack call. It loses to any fixed endian the descriptor (or
// one of its ancestors via WithEndian) already carries.
func UseEndian(e Endian) Option {
	return func(co *callOptions) { co.endian = &e }
}

// SkipValidation disables schema validation for a single Pack call.
// The Struct/Union engine always does this internally on nested pack
// calls to avoid quadratic revalidation; callers doing their own
// repeated packing of pre-validated values may want the same.
func SkipValidation() Option {
	return func(co *callOptions) { co.validate = false }
}

// propagateEndian is how every composite descriptor (Struct, Union,
// Array, Terminated) implements "WithEndian overrides children that
// don't carry their own fixed endian": children with a FixedEndian of
// their own are left untouched, everything else is re-wrapped.
func propagateEndian(d Descriptor, e Endian) Descriptor {
	if _, ok := d.FixedEndian(); ok {
		return d
	}
	return d.WithEndian(e)
}
