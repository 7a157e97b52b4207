package cstruct

import (
	"slices"
	"sort"

	"github.com/creachadair/mds/slice"
)

// BitfieldField describes one sub-field of a Bitfield: its bit
// offset counted from the LSB, its width in bits, and whether it
// should sign-extend on unpack.
type BitfieldField struct {
	Name   string
	Offset int
	Bits   int
	Signed bool
}

// Field declares a programmatically-placed bitfield sub-field. Use
// with NewBitfield; do not mix with NewBitfieldBuilder's declarative
// style within the same Bitfield.
func Field(name string, offset, bits int) BitfieldField {
	return BitfieldField{Name: name, Offset: offset, Bits: bits}
}

// SignedField is Field's signed counterpart.
func SignedField(name string, offset, bits int) BitfieldField {
	return BitfieldField{Name: name, Offset: offset, Bits: bits, Signed: true}
}

// Bitfield is a fixed-width integer carrying several named sub-integer
// fields at bit offsets, each independently signed or unsigned.
type Bitfield struct {
	endianVariants
	fixed     *Endian
	byteWidth int
	codec     *Int
	fields    []BitfieldField
	byName    map[string]BitfieldField
}

// NewBitfield builds a Bitfield from an explicit list of
// (name, offset, bits) slots. byteWidth picks the declared container
// size; pass 0 to infer the smallest power-of-two byte width (up to 8
// bytes) that contains every field's span.
func NewBitfield(byteWidth int, fields ...BitfieldField) (*Bitfield, error) {
	return buildBitfield(byteWidth, fields)
}

func buildBitfield(byteWidth int, fields []BitfieldField) (*Bitfield, error) {
	switch byteWidth {
	case 0, 1, 2, 4, 8:
	default:
		return nil, buildError("bitfield byte width must be 1, 2, 4 or 8, got %d", byteWidth)
	}
	byName := make(map[string]BitfieldField, len(fields))
	maxSpan := 0
	occupied := make(map[int]string)
	for _, f := range fields {
		if f.Bits <= 0 {
			return nil, buildError("bitfield field %q has non-positive width %d", f.Name, f.Bits)
		}
		if _, dup := byName[f.Name]; dup {
			return nil, buildError("duplicate bitfield field name %q", f.Name)
		}
		for bit := f.Offset; bit < f.Offset+f.Bits; bit++ {
			if prev, used := occupied[bit]; used {
				return nil, buildError("bitfield fields %q and %q overlap at bit %d", prev, f.Name, bit)
			}
			occupied[bit] = f.Name
		}
		byName[f.Name] = f
		if span := f.Offset + f.Bits; span > maxSpan {
			maxSpan = span
		}
	}
	if byteWidth == 0 {
		byteWidth = smallestPow2Bytes(maxSpan)
	} else if maxSpan > byteWidth*8 {
		return nil, buildError("bitfield fields span %d bits, exceeding declared width of %d bytes", maxSpan, byteWidth)
	}
	sorted := append([]BitfieldField(nil), fields...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })
	return &Bitfield{
		byteWidth: byteWidth,
		codec:     intCodecForWidth(byteWidth),
		fields:    sorted,
		byName:    byName,
	}, nil
}

func smallestPow2Bytes(bits int) int {
	bytes := (bits + 7) / 8
	for _, w := range []int{1, 2, 4, 8} {
		if bytes <= w {
			return w
		}
	}
	return 8
}

func intCodecForWidth(w int) *Int {
	switch w {
	case 1:
		return U8()
	case 2:
		return U16()
	case 4:
		return U32()
	default:
		return U64()
	}
}

// BitfieldBuilder implements the declarative "skip/unsigned/signed"
// accumulator authoring style: each call advances an internal bit
// cursor, so fields are laid out in the order they're declared. It has
// no align step; a gap up to a boundary is declared with Skip.
type BitfieldBuilder struct {
	offset    int
	fields    []BitfieldField
	byteWidth int
}

// NewBitfieldBuilder starts a declarative bitfield layout.
func NewBitfieldBuilder() *BitfieldBuilder { return &BitfieldBuilder{} }

// Skip advances the cursor by bits without declaring a field,
// leaving a gap (e.g. for reserved bits).
func (b *BitfieldBuilder) Skip(bits int) *BitfieldBuilder {
	b.offset += bits
	return b
}

// Unsigned declares the next bits-wide unsigned field at the current
// cursor position, then advances the cursor.
func (b *BitfieldBuilder) Unsigned(name string, bits int) *BitfieldBuilder {
	b.fields = append(b.fields, Field(name, b.offset, bits))
	b.offset += bits
	return b
}

// Signed declares the next bits-wide signed field at the current
// cursor position, then advances the cursor.
func (b *BitfieldBuilder) Signed(name string, bits int) *BitfieldBuilder {
	b.fields = append(b.fields, SignedField(name, b.offset, bits))
	b.offset += bits
	return b
}

// Width overrides the inferred declared byte width.
func (b *BitfieldBuilder) Width(bytes int) *BitfieldBuilder {
	b.byteWidth = bytes
	return b
}

// Build finalizes the bitfield.
func (b *BitfieldBuilder) Build() (*Bitfield, error) {
	return buildBitfield(b.byteWidth, b.fields)
}

// SignedFields returns the sub-fields declared as sign-extending, in
// their layout order.
func (b *Bitfield) SignedFields() []BitfieldField {
	return slices.Collect(slice.Select(b.fields, func(f BitfieldField) bool { return f.Signed }))
}

func (b *Bitfield) Size() int       { return b.byteWidth }
func (b *Bitfield) FixedSize() bool { return true }
func (b *Bitfield) Greedy() bool    { return false }

func (b *Bitfield) FixedEndian() (Endian, bool) {
	if b.fixed == nil {
		return 0, false
	}
	return *b.fixed, true
}

func (b *Bitfield) DefaultValue() any { return map[string]any{} }

func (b *Bitfield) clone(e Endian) Descriptor {
	c := *b
	c.endianVariants = endianVariants{}
	c.fixed = &e
	c.codec = b.codec.WithEndian(e).(*Int)
	return &c
}

func (b *Bitfield) WithEndian(e Endian) Descriptor {
	return b.endianVariants.withEndian(b, b.fixed, e, b.clone)
}

func (b *Bitfield) WithoutEndian() Descriptor {
	if b.fixed == nil {
		return b
	}
	c := *b
	c.endianVariants = endianVariants{}
	c.fixed = nil
	c.codec = b.codec.WithoutEndian().(*Int)
	return &c
}

func (b *Bitfield) Pack(val any, opts ...Option) ([]byte, error) {
	values, ok := val.(map[string]any)
	if !ok {
		return nil, constraintViolation("Bitfield", "value %v is not a field map", val)
	}
	var composed uint64
	for name, v := range values {
		f, ok := b.byName[name]
		if !ok {
			return nil, &UnknownFieldError{Field: name}
		}
		iv, ok := asInt64(v)
		if !ok {
			return nil, constraintViolation("Bitfield", "field %q value %v is not an integer", name, v)
		}
		mask := uint64(1)<<uint(f.Bits) - 1
		composed |= (uint64(iv) & mask) << uint(f.Offset)
	}
	return b.codec.Pack(composed, opts...)
}

func (b *Bitfield) UnpackOne(buf []byte, opts ...Option) (any, []byte, error) {
	ival, tail, err := b.codec.UnpackOne(buf, opts...)
	if err != nil {
		return nil, nil, err
	}
	raw, _ := asUint64(ival)
	out := make(map[string]any, len(b.fields))
	for _, f := range b.fields {
		mask := uint64(1)<<uint(f.Bits) - 1
		bits := (raw >> uint(f.Offset)) & mask
		if f.Signed {
			out[f.Name] = signExtend(bits, f.Bits)
		} else {
			out[f.Name] = bits
		}
	}
	return out, tail, nil
}

func signExtend(bits uint64, width int) int64 {
	signBit := uint64(1) << uint(width-1)
	if bits&signBit == 0 {
		return int64(bits)
	}
	return int64(bits) - int64(uint64(1)<<uint(width))
}
