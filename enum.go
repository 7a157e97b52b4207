package cstruct

import (
	"fmt"

	"github.com/creachadair/mds/value"
)

// EnumMember describes one symbol in an Enum's symbol table, as
// passed to NewEnum. Use Sym for an auto-numbered member and SymVal
// to pin an explicit integer value.
type EnumMember struct {
	Name  string
	Value *int64
}

// Sym declares an enum member whose value is one more than the
// previous member's (or 0, if it's first).
func Sym(name string) EnumMember { return EnumMember{Name: name} }

// SymVal declares an enum member with an explicit value. Members
// declared after it without their own SymVal resume counting from
// max(v)+1.
func SymVal(name string, v int64) EnumMember { return EnumMember{Name: name, Value: &v} }

// Enum maps symbolic names to integers, packed and unpacked through
// an underlying Int codec (uint32 unless NewEnum is given a different
// one).
type Enum struct {
	endianVariants
	fixed      *Endian
	codec      *Int
	names      []string
	byName     map[string]int64
	byValue    map[int64]string
	defaultSym value.Maybe[string]
	permissive bool
}

// NewEnum builds an Enum over codec (defaulting to U32 if nil) from
// an ordered list of members. Auto-numbered members (Sym) resume
// counting from one past the most recently assigned value, following
// the builder semantics in the data model.
func NewEnum(codec *Int, members ...EnumMember) (*Enum, error) {
	if codec == nil {
		codec = U32()
	}
	e := &Enum{
		codec:   codec,
		byName:  make(map[string]int64, len(members)),
		byValue: make(map[int64]string, len(members)),
	}
	var next int64
	for _, m := range members {
		if _, dup := e.byName[m.Name]; dup {
			return nil, buildError("duplicate enum member %q", m.Name)
		}
		v := next
		if m.Value != nil {
			v = *m.Value
		}
		if !codec.signed && v < 0 {
			return nil, buildError("enum member %q has negative value %d for an unsigned underlying type", m.Name, v)
		}
		e.names = append(e.names, m.Name)
		e.byName[m.Name] = v
		e.byValue[v] = m.Name
		next = v + 1
	}
	if len(e.names) > 0 {
		e.defaultSym = value.Just(e.names[0])
	}
	return e, nil
}

// Permissive returns a clone of e that, on UnpackOne, accepts integer
// values with no declared name by synthesizing a symbol
// "unknown_<hex>" instead of failing. The clone shares e's symbol
// table.
func (e *Enum) Permissive() *Enum {
	c := *e
	c.endianVariants = endianVariants{}
	c.permissive = true
	return &c
}

// WithDefault overrides the symbol DefaultValue returns.
func (e *Enum) WithDefault(sym string) (*Enum, error) {
	if _, ok := e.byName[sym]; !ok {
		return nil, buildError("default symbol %q is not a member of this enum", sym)
	}
	c := *e
	c.endianVariants = endianVariants{}
	c.defaultSym = value.Just(sym)
	return &c, nil
}

func (e *Enum) Size() int       { return e.codec.Size() }
func (e *Enum) FixedSize() bool { return true }
func (e *Enum) Greedy() bool    { return false }

func (e *Enum) FixedEndian() (Endian, bool) {
	if e.fixed == nil {
		return 0, false
	}
	return *e.fixed, true
}

func (e *Enum) DefaultValue() any {
	if sym, ok := e.defaultSym.GetOK(); ok {
		return sym
	}
	return e.codec.DefaultValue()
}

func (e *Enum) clone(endian Endian) Descriptor {
	c := *e
	c.endianVariants = endianVariants{}
	c.fixed = &endian
	c.codec = e.codec.WithEndian(endian).(*Int)
	return &c
}

func (e *Enum) WithEndian(endian Endian) Descriptor {
	return e.endianVariants.withEndian(e, e.fixed, endian, e.clone)
}

func (e *Enum) WithoutEndian() Descriptor {
	if e.fixed == nil {
		return e
	}
	c := *e
	c.endianVariants = endianVariants{}
	c.fixed = nil
	c.codec = e.codec.WithoutEndian().(*Int)
	return &c
}

func unknownSymbol(size int, v int64) string {
	return fmt.Sprintf("unknown_%0*x", size*2, uint64(v))
}

func (e *Enum) resolve(val any) (int64, error) {
	switch v := val.(type) {
	case string:
		if iv, ok := e.byName[v]; ok {
			return iv, nil
		}
		var parsed int64
		if n, err := fmt.Sscanf(v, "unknown_%x", &parsed); err == nil && n == 1 {
			return parsed, nil
		}
		return 0, constraintViolation("Enum", "unknown symbol %q", v)
	default:
		iv, ok := asInt64(val)
		if !ok {
			return 0, constraintViolation("Enum", "value %v is neither a symbol nor an integer", val)
		}
		return iv, nil
	}
}

func (e *Enum) Pack(val any, opts ...Option) ([]byte, error) {
	iv, err := e.resolve(val)
	if err != nil {
		return nil, err
	}
	return e.codec.Pack(iv, opts...)
}

func (e *Enum) UnpackOne(buf []byte, opts ...Option) (any, []byte, error) {
	ival, tail, err := e.codec.UnpackOne(buf, opts...)
	if err != nil {
		return nil, nil, err
	}
	iv, _ := asInt64(ival)
	if sym, ok := e.byValue[iv]; ok {
		return sym, tail, nil
	}
	if e.permissive {
		return unknownSymbol(e.codec.Size(), iv), tail, nil
	}
	return nil, nil, constraintViolation("Enum", "value %d has no matching symbol", iv)
}
