package cstruct

import (
	"fmt"
)

// BitFlag names a single bit position in a Bitmap.
type BitFlag struct {
	Name string
	Bit  int
}

// Flag declares a named bit position for NewBitmap.
func Flag(name string, bit int) BitFlag { return BitFlag{Name: name, Bit: bit} }

// Bitmap packs a set of named single-bit flags into an underlying Int
// codec.
type Bitmap struct {
	endianVariants
	fixed      *Endian
	codec      *Int
	byName     map[string]int
	byBit      map[int]string
	permissive bool
}

// NewBitmap builds a Bitmap over codec (defaulting to U32 if nil).
// Every flag's bit must fall within [0, codec.Size()*8).
func NewBitmap(codec *Int, flags ...BitFlag) (*Bitmap, error) {
	if codec == nil {
		codec = U32()
	}
	b := &Bitmap{
		codec:  codec,
		byName: make(map[string]int, len(flags)),
		byBit:  make(map[int]string, len(flags)),
	}
	maxBit := codec.Size() * 8
	for _, f := range flags {
		if f.Bit < 0 || f.Bit >= maxBit {
			return nil, buildError("bitmap flag %q has bit %d outside [0, %d)", f.Name, f.Bit, maxBit)
		}
		if _, dup := b.byName[f.Name]; dup {
			return nil, buildError("duplicate bitmap flag name %q", f.Name)
		}
		if prev, dup := b.byBit[f.Bit]; dup {
			return nil, buildError("bitmap bit %d already named %q, cannot also name it %q", f.Bit, prev, f.Name)
		}
		b.byName[f.Name] = f.Bit
		b.byBit[f.Bit] = f.Name
	}
	return b, nil
}

// Permissive returns a clone of b that, on UnpackOne, emits a
// synthetic "bit_<n>" name for any set bit with no declared name,
// instead of failing.
func (b *Bitmap) Permissive() *Bitmap {
	c := *b
	c.endianVariants = endianVariants{}
	c.permissive = true
	return &c
}

func (b *Bitmap) Size() int       { return b.codec.Size() }
func (b *Bitmap) FixedSize() bool { return true }
func (b *Bitmap) Greedy() bool    { return false }

func (b *Bitmap) FixedEndian() (Endian, bool) {
	if b.fixed == nil {
		return 0, false
	}
	return *b.fixed, true
}

func (b *Bitmap) DefaultValue() any { return []string{} }

func (b *Bitmap) clone(e Endian) Descriptor {
	c := *b
	c.endianVariants = endianVariants{}
	c.fixed = &e
	c.codec = b.codec.WithEndian(e).(*Int)
	return &c
}

func (b *Bitmap) WithEndian(e Endian) Descriptor {
	return b.endianVariants.withEndian(b, b.fixed, e, b.clone)
}

func (b *Bitmap) WithoutEndian() Descriptor {
	if b.fixed == nil {
		return b
	}
	c := *b
	c.endianVariants = endianVariants{}
	c.fixed = nil
	c.codec = b.codec.WithoutEndian().(*Int)
	return &c
}

func (b *Bitmap) bitOf(name any) (int, error) {
	switch v := name.(type) {
	case string:
		if bit, ok := b.byName[v]; ok {
			return bit, nil
		}
		var bit int
		if n, err := fmt.Sscanf(v, "bit_%d", &bit); err == nil && n == 1 {
			return bit, nil
		}
		return 0, constraintViolation("Bitmap", "unknown flag name %q", v)
	default:
		bit, ok := asInt64(v)
		if !ok {
			return 0, constraintViolation("Bitmap", "flag %v is neither a name nor a bit index", v)
		}
		return int(bit), nil
	}
}

func (b *Bitmap) Pack(val any, opts ...Option) ([]byte, error) {
	names, ok := val.([]string)
	var items []any
	if ok {
		for _, n := range names {
			items = append(items, n)
		}
	} else {
		items, ok = val.([]any)
		if !ok {
			return nil, constraintViolation("Bitmap", "value %v is not a list of flags", val)
		}
	}
	maxBit := b.codec.Size() * 8
	var bits uint64
	for _, item := range items {
		bit, err := b.bitOf(item)
		if err != nil {
			return nil, err
		}
		if bit < 0 || bit >= maxBit {
			return nil, constraintViolation("Bitmap", "bit %d outside [0, %d)", bit, maxBit)
		}
		bits |= 1 << uint(bit)
	}
	return b.codec.Pack(bits, opts...)
}

func (b *Bitmap) UnpackOne(buf []byte, opts ...Option) (any, []byte, error) {
	ival, tail, err := b.codec.UnpackOne(buf, opts...)
	if err != nil {
		return nil, nil, err
	}
	bits, _ := asUint64(ival)
	var names []string
	maxBit := b.codec.Size() * 8
	for bit := 0; bit < maxBit; bit++ {
		if bits&(1<<uint(bit)) == 0 {
			continue
		}
		if name, ok := b.byBit[bit]; ok {
			names = append(names, name)
		} else if b.permissive {
			names = append(names, fmt.Sprintf("bit_%d", bit))
		} else {
			return nil, nil, constraintViolation("Bitmap", "set bit %d has no declared name", bit)
		}
	}
	return names, tail, nil
}
