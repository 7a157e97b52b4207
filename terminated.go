package cstruct

// LocateFunc finds a terminator in buf, returning the byte length of
// the value preceding it and of the terminator itself. ok is false if
// no terminator is present anywhere in buf.
type LocateFunc func(buf []byte, endian Endian) (valueLen, termLen int, ok bool)

// TerminateFunc returns the terminator bytes to append after valueBytes
// on pack.
type TerminateFunc func(valueBytes []byte, endian Endian) []byte

// Terminated wraps any descriptor with a locate/terminate pair,
// turning a greedy or ambiguous-length inner type into one with an
// explicit end marker in the byte stream.
type Terminated struct {
	endianVariants
	fixed     *Endian
	inner     Descriptor
	locate    LocateFunc
	terminate TerminateFunc
}

// NewTerminated builds a Terminated wrapper around inner.
func NewTerminated(inner Descriptor, locate LocateFunc, terminate TerminateFunc) *Terminated {
	return &Terminated{inner: inner, locate: locate, terminate: terminate}
}

// LiteralTerminator builds the common case: the wrapped value runs
// until the first occurrence of seq, and pack appends seq literally.
func LiteralTerminator(inner Descriptor, seq []byte) *Terminated {
	return NewTerminated(inner,
		func(buf []byte, _ Endian) (int, int, bool) {
			idx := indexOf(buf, seq)
			if idx < 0 {
				return 0, 0, false
			}
			return idx, len(seq), true
		},
		func(_ []byte, _ Endian) []byte {
			return append([]byte(nil), seq...)
		},
	)
}

func indexOf(buf, seq []byte) int {
	if len(seq) == 0 {
		return 0
	}
	for i := 0; i+len(seq) <= len(buf); i++ {
		if string(buf[i:i+len(seq)]) == string(seq) {
			return i
		}
	}
	return -1
}

func (t *Terminated) Size() int       { return t.inner.Size() }
func (t *Terminated) FixedSize() bool { return false }
func (t *Terminated) Greedy() bool    { return false }

func (t *Terminated) FixedEndian() (Endian, bool) {
	if t.fixed == nil {
		return 0, false
	}
	return *t.fixed, true
}

func (t *Terminated) DefaultValue() any { return t.inner.DefaultValue() }

func (t *Terminated) clone(e Endian) Descriptor {
	c := *t
	c.endianVariants = endianVariants{}
	c.fixed = &e
	c.inner = propagateEndian(t.inner, e)
	return &c
}

func (t *Terminated) WithEndian(e Endian) Descriptor {
	return t.endianVariants.withEndian(t, t.fixed, e, t.clone)
}

func (t *Terminated) WithoutEndian() Descriptor {
	if t.fixed == nil {
		return t
	}
	c := *t
	c.endianVariants = endianVariants{}
	c.fixed = nil
	return &c
}

func (t *Terminated) endianFor(co callOptions) Endian {
	return effectiveEndian(t.fixed, co.endian)
}

func (t *Terminated) Pack(val any, opts ...Option) ([]byte, error) {
	co := resolveOptions(opts)
	inner, err := t.inner.Pack(val, opts...)
	if err != nil {
		return nil, err
	}
	term := t.terminate(inner, t.endianFor(co))
	return append(inner, term...), nil
}

func (t *Terminated) UnpackOne(buf []byte, opts ...Option) (any, []byte, error) {
	co := resolveOptions(opts)
	endian := t.endianFor(co)
	valueLen, termLen, ok := t.locate(buf, endian)
	if !ok {
		return nil, nil, &TerminatorNotFoundError{What: "Terminated"}
	}
	val, err := Unpack(t.inner, buf[:valueLen], opts...)
	if err != nil {
		return nil, nil, err
	}
	return val, buf[valueLen+termLen:], nil
}
