package cstruct

import "bytes"

// String is a byte string: fixed-size (right-padded with zeros on
// pack) or greedy (consumes all remaining input on unpack). Trim
// controls whether unpack drops zero bytes: a fixed-size string strips
// its trailing zero bytes, a greedy one keeps only the bytes before the
// first zero byte. To stop at a terminator and keep the bytes after it,
// wrap the string in a Terminated (see String.Terminated).
type String struct {
	endianVariants
	fixed *Endian
	size  int // 0 means greedy
	trim  bool
}

// FixedString builds a fixed-size string descriptor of size bytes.
func FixedString(size int) *String { return &String{size: size} }

// GreedyString builds a variable-size string descriptor that consumes
// all remaining input on unpack.
func GreedyString() *String { return &String{} }

// Trimmed returns a clone of s with zero-byte trimming enabled (see
// String for how fixed-size and greedy strings differ).
func (s *String) Trimmed() *String {
	c := *s
	c.endianVariants = endianVariants{}
	c.trim = true
	return &c
}

// Terminated returns a Terminated wrapper around s whose terminator
// is the literal byte sequence seq.
func (s *String) Terminated(seq []byte) *Terminated {
	return LiteralTerminator(s, seq)
}

func (s *String) Size() int       { return s.size }
func (s *String) FixedSize() bool { return s.size > 0 }
func (s *String) Greedy() bool    { return s.size == 0 }

func (s *String) FixedEndian() (Endian, bool) {
	if s.fixed == nil {
		return 0, false
	}
	return *s.fixed, true
}

func (s *String) DefaultValue() any { return "" }

func (s *String) clone(e Endian) Descriptor {
	c := *s
	c.endianVariants = endianVariants{}
	c.fixed = &e
	return &c
}

func (s *String) WithEndian(e Endian) Descriptor {
	return s.endianVariants.withEndian(s, s.fixed, e, s.clone)
}

func (s *String) WithoutEndian() Descriptor {
	if s.fixed == nil {
		return s
	}
	c := *s
	c.endianVariants = endianVariants{}
	c.fixed = nil
	return &c
}

func (s *String) Pack(val any, opts ...Option) ([]byte, error) {
	str, ok := val.(string)
	if !ok {
		return nil, constraintViolation("String", "value %v is not a string", val)
	}
	bs := []byte(str)
	if s.size == 0 {
		return bs, nil
	}
	co := resolveOptions(opts)
	if co.validate && len(bs) > s.size {
		return nil, constraintViolation("String", "value of length %d exceeds fixed size %d", len(bs), s.size)
	}
	out := make([]byte, s.size)
	copy(out, bs)
	return out, nil
}

// UnpackOne on a greedy string always returns an empty remainder, even
// when Trimmed cuts the value at an embedded zero byte; a Terminated
// wrapper around the string returns the bytes after its terminator.
func (s *String) UnpackOne(buf []byte, opts ...Option) (any, []byte, error) {
	if s.size == 0 {
		val := buf
		if s.trim {
			if idx := bytes.IndexByte(val, 0); idx >= 0 {
				val = val[:idx]
			}
		}
		return string(val), nil, nil
	}
	if len(buf) < s.size {
		return nil, nil, missingBytes(s.size - len(buf))
	}
	data, tail := buf[:s.size], buf[s.size:]
	if s.trim {
		data = bytes.TrimRight(data, "\x00")
	}
	return string(data), tail, nil
}
