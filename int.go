package cstruct

import (
	"fmt"
	"math"
	"reflect"

	"github.com/rawbindata/cstruct/wire"
)

// Int is a fixed-width signed or unsigned integer descriptor: one of
// the eight combinations of {8,16,32,64} bits x {signed, unsigned}.
//
// Pack accepts any Go integer value that fits in the configured
// width and signedness (bounds are checked unless SkipValidation is
// given). Unpack always returns int64 for signed widths and uint64
// for unsigned widths, regardless of the configured size, so callers
// don't need a type switch per width.
type Int struct {
	endianVariants
	fixed  *Endian
	size   int // 1, 2, 4, or 8
	signed bool
}

// U8, U16, U32, U64 construct unsigned integer descriptors.
func U8() *Int  { return &Int{size: 1, signed: false} }
func U16() *Int { return &Int{size: 2, signed: false} }
func U32() *Int { return &Int{size: 4, signed: false} }
func U64() *Int { return &Int{size: 8, signed: false} }

// I8, I16, I32, I64 construct signed integer descriptors.
func I8() *Int  { return &Int{size: 1, signed: true} }
func I16() *Int { return &Int{size: 2, signed: true} }
func I32() *Int { return &Int{size: 4, signed: true} }
func I64() *Int { return &Int{size: 8, signed: true} }

func (i *Int) Size() int      { return i.size }
func (i *Int) FixedSize() bool { return true }
func (i *Int) Greedy() bool    { return false }

func (i *Int) FixedEndian() (Endian, bool) {
	if i.fixed == nil {
		return 0, false
	}
	return *i.fixed, true
}

func (i *Int) DefaultValue() any {
	if i.signed {
		return int64(0)
	}
	return uint64(0)
}

func (i *Int) clone(e Endian) Descriptor {
	c := *i
	c.endianVariants = endianVariants{}
	c.fixed = &e
	return &c
}

func (i *Int) WithEndian(e Endian) Descriptor {
	return i.endianVariants.withEndian(i, i.fixed, e, i.clone)
}

func (i *Int) WithoutEndian() Descriptor {
	if i.fixed == nil {
		return i
	}
	c := *i
	c.endianVariants = endianVariants{}
	c.fixed = nil
	return &c
}

func (i *Int) bounds() (minVal, maxVal int64, maxUnsigned uint64) {
	bits := i.size * 8
	if i.signed {
		if bits == 64 {
			return math.MinInt64, math.MaxInt64, 0
		}
		return -(int64(1) << (bits - 1)), (int64(1) << (bits - 1)) - 1, 0
	}
	if bits == 64 {
		return 0, 0, math.MaxUint64
	}
	return 0, 0, (uint64(1) << bits) - 1
}

// asInt64 / asUint64 normalize the supported Go numeric input kinds
// that Pack accepts.
func asInt64(val any) (int64, bool) {
	switch v := val.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), true
	}
	return 0, false
}

func asUint64(val any) (uint64, bool) {
	switch v := val.(type) {
	case int:
		return uint64(v), true
	case int8:
		return uint64(v), true
	case int16:
		return uint64(v), true
	case int32:
		return uint64(v), true
	case int64:
		return uint64(v), true
	case uint:
		return uint64(v), true
	case uint8:
		return uint64(v), true
	case uint16:
		return uint64(v), true
	case uint32:
		return uint64(v), true
	case uint64:
		return v, true
	}
	return 0, false
}

func (i *Int) Pack(val any, opts ...Option) ([]byte, error) {
	co := resolveOptions(opts)
	w := &wire.Writer{Order: effectiveEndian(i.fixed, co.endian).order()}
	if err := i.packInto(w, val, co.validate); err != nil {
		return nil, err
	}
	return w.Out, nil
}

func (i *Int) packInto(w *wire.Writer, val any, validate bool) error {
	if i.signed {
		iv, ok := asInt64(val)
		if !ok {
			return constraintViolation("Int", "value %v is not an integer", val)
		}
		if validate {
			if rv := reflect.ValueOf(val); rv.CanUint() && rv.Uint() > math.MaxInt64 {
				return constraintViolation("Int", "value %d out of range for a signed integer", rv.Uint())
			}
			minVal, maxVal, _ := i.bounds()
			if iv < minVal || iv > maxVal {
				return constraintViolation("Int", "value %d out of range [%d, %d]", iv, minVal, maxVal)
			}
		}
		i.writeSigned(w, iv)
		return nil
	}
	uv, ok := asUint64(val)
	if !ok {
		return constraintViolation("Int", "value %v is not an integer", val)
	}
	if validate {
		_, _, maxU := i.bounds()
		if rv := reflect.ValueOf(val); rv.CanInt() && rv.Int() < 0 {
			return constraintViolation("Int", "value %d out of range [0, %d]", rv.Int(), maxU)
		}
		if i.size != 8 && uv > maxU {
			return constraintViolation("Int", "value %d out of range [0, %d]", uv, maxU)
		}
	}
	i.writeUnsigned(w, uv)
	return nil
}

func (i *Int) writeSigned(w *wire.Writer, v int64) {
	switch i.size {
	case 1:
		w.Uint8(uint8(v))
	case 2:
		w.Uint16(uint16(v))
	case 4:
		w.Uint32(uint32(v))
	case 8:
		w.Uint64(uint64(v))
	default:
		panic(fmt.Sprintf("invalid int size %d", i.size))
	}
}

func (i *Int) writeUnsigned(w *wire.Writer, v uint64) {
	switch i.size {
	case 1:
		w.Uint8(uint8(v))
	case 2:
		w.Uint16(uint16(v))
	case 4:
		w.Uint32(uint32(v))
	case 8:
		w.Uint64(v)
	default:
		panic(fmt.Sprintf("invalid int size %d", i.size))
	}
}

func (i *Int) UnpackOne(buf []byte, opts ...Option) (any, []byte, error) {
	co := resolveOptions(opts)
	r := wire.NewReader(effectiveEndian(i.fixed, co.endian).order(), buf)
	val, err := i.readOne(r)
	if err != nil {
		return nil, nil, err
	}
	return val, r.Rest(), nil
}

func (i *Int) readOne(r *wire.Reader) (any, error) {
	if r.Len() < i.size {
		return nil, missingBytes(i.size - r.Len())
	}
	if i.signed {
		switch i.size {
		case 1:
			u, _ := r.Uint8()
			return int64(int8(u)), nil
		case 2:
			u, _ := r.Uint16()
			return int64(int16(u)), nil
		case 4:
			u, _ := r.Uint32()
			return int64(int32(u)), nil
		case 8:
			u, _ := r.Uint64()
			return int64(u), nil
		}
	}
	switch i.size {
	case 1:
		u, _ := r.Uint8()
		return uint64(u), nil
	case 2:
		u, _ := r.Uint16()
		return uint64(u), nil
	case 4:
		u, _ := r.Uint32()
		return uint64(u), nil
	case 8:
		u, _ := r.Uint64()
		return u, nil
	}
	panic(fmt.Sprintf("invalid int size %d", i.size))
}
