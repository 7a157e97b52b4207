package cstruct

import "io"

// Unpack decodes one value off the front of buf and discards the
// remainder.
func Unpack(d Descriptor, buf []byte, opts ...Option) (any, error) {
	val, _, err := d.UnpackOne(buf, opts...)
	return val, err
}

// UnpackAll repeatedly unpacks values from buf until it is exhausted.
// A buffer that ends with a partial trailing value surfaces whatever
// MissingBytes error the inner descriptor produced.
func UnpackAll(d Descriptor, buf []byte, opts ...Option) ([]any, error) {
	var out []any
	for len(buf) > 0 {
		val, tail, err := d.UnpackOne(buf, opts...)
		if err != nil {
			return out, err
		}
		out = append(out, val)
		buf = tail
	}
	return out, nil
}

// Read reads exactly d.Size() bytes from r and unpacks them. Read
// only works for fixed-size descriptors; variable-size descriptors
// return an UnsupportedOperationError, because there would be no
// principled way to know how many bytes to read.
func Read(d Descriptor, r io.Reader, opts ...Option) (any, error) {
	if !d.FixedSize() {
		return nil, &UnsupportedOperationError{Op: "Read", Reason: "descriptor is not fixed-size"}
	}
	buf := make([]byte, d.Size())
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return Unpack(d, buf, opts...)
}

// Pread reads exactly d.Size() bytes from r starting at offset, and
// unpacks them. Like Read, Pread requires a fixed-size descriptor.
func Pread(d Descriptor, r io.ReaderAt, offset int64, opts ...Option) (any, error) {
	if !d.FixedSize() {
		return nil, &UnsupportedOperationError{Op: "Pread", Reason: "descriptor is not fixed-size"}
	}
	buf := make([]byte, d.Size())
	if _, err := r.ReadAt(buf, offset); err != nil {
		return nil, err
	}
	return Unpack(d, buf, opts...)
}
