package cstruct

type slotKind int

const (
	slotNamed slotKind = iota
	slotUnnamed
	slotPad
)

// StructSlot is one entry in a Struct's ordered slot list: a named
// field, an unnamed composite whose subfields are lifted into the
// parent's namespace, or a Pad gap.
type StructSlot struct {
	kind       slotKind
	name       string
	descriptor Descriptor
	lifted     []string
}

// NamedField declares a struct slot with its own key in the packed
// value map.
func NamedField(name string, d Descriptor) StructSlot {
	return StructSlot{kind: slotNamed, name: name, descriptor: d}
}

// UnnamedField declares an anonymous composite slot (ISO C11-style):
// d's own field names are lifted directly into the parent struct's
// namespace instead of being nested under a key. d must be a *Struct
// or *Union.
func UnnamedField(d Descriptor) StructSlot {
	var lifted []string
	switch v := d.(type) {
	case *Struct:
		lifted = v.FieldNames()
	case *Union:
		lifted = v.MemberNames()
	}
	return StructSlot{kind: slotUnnamed, descriptor: d, lifted: lifted}
}

// PadField declares n bytes of zero padding with no field.
func PadField(n int) StructSlot {
	return StructSlot{kind: slotPad, descriptor: NewPad(n)}
}

// SizePredicate computes a struct's total byte length from its
// partially-unpacked value, for TLV-shaped layouts. Unions use
// UnionSizePredicate instead.
type SizePredicate func(partial map[string]any) int

// Struct is an ordered sequence of named fields, unnamed composites,
// and padding, optionally closed off by a size predicate.
type Struct struct {
	endianVariants
	fixed     *Endian
	slots     []StructSlot
	schema    *Schema
	sizePred  SizePredicate
	greedyIdx int // -1 if none
	allFixed  bool
}

// NewStruct builds a Struct from slots in declaration order. pred may
// be nil. A trailing greedy slot is allowed unconditionally; a greedy
// slot anywhere else requires pred to be non-nil, since only the
// predicate can tell the engine where that slot's input ends.
func NewStruct(pred SizePredicate, slots ...StructSlot) (*Struct, error) {
	s := &Struct{slots: slots, sizePred: pred, greedyIdx: -1, allFixed: true}
	var names []string
	seen := make(map[string]bool)
	for i, sl := range slots {
		switch sl.kind {
		case slotNamed:
			if seen[sl.name] {
				return nil, buildError("duplicate struct field name %q", sl.name)
			}
			seen[sl.name] = true
			names = append(names, sl.name)
		case slotUnnamed:
			for _, n := range sl.lifted {
				if seen[n] {
					return nil, buildError("duplicate struct field name %q lifted from an unnamed field", n)
				}
				seen[n] = true
				names = append(names, n)
			}
		case slotPad:
		}
		if sl.descriptor.Greedy() {
			if s.greedyIdx >= 0 {
				return nil, buildError("struct has more than one greedy field")
			}
			s.greedyIdx = i
		}
		if !sl.descriptor.FixedSize() {
			s.allFixed = false
		}
	}
	if s.greedyIdx >= 0 && s.greedyIdx != len(slots)-1 && pred == nil {
		return nil, buildError("greedy field must be the last slot unless the struct has a size predicate")
	}
	s.schema = newSchema(names)
	return s, nil
}

// FieldNames returns every named and lifted field name, in
// declaration order.
func (s *Struct) FieldNames() []string { return s.schema.Names() }

// Sized returns a clone of s with pred as its size predicate.
func (s *Struct) Sized(pred SizePredicate) *Struct {
	c := *s
	c.endianVariants = endianVariants{}
	c.sizePred = pred
	return &c
}

// Offsetof returns the fixed cumulative byte offset of the named
// slot, if every preceding slot is fixed-size. It returns false if
// name is unknown or a variable-size slot precedes it.
func (s *Struct) Offsetof(name string) (int, bool) {
	offset := 0
	for _, sl := range s.slots {
		switch sl.kind {
		case slotNamed:
			if sl.name == name {
				return offset, true
			}
		case slotUnnamed:
			for _, n := range sl.lifted {
				if n == name {
					return offset, true
				}
			}
		}
		if !sl.descriptor.FixedSize() {
			return 0, false
		}
		offset += sl.descriptor.Size()
	}
	return 0, false
}

func (s *Struct) Size() int {
	total := 0
	for _, sl := range s.slots {
		total += sl.descriptor.Size()
	}
	return total
}

func (s *Struct) FixedSize() bool { return s.sizePred == nil && s.greedyIdx < 0 && s.allFixed }
func (s *Struct) Greedy() bool    { return s.sizePred == nil && s.greedyIdx == len(s.slots)-1 && s.greedyIdx >= 0 }

func (s *Struct) FixedEndian() (Endian, bool) {
	if s.fixed == nil {
		return 0, false
	}
	return *s.fixed, true
}

func (s *Struct) DefaultValue() any {
	out := map[string]any{}
	for _, sl := range s.slots {
		switch sl.kind {
		case slotNamed:
			out[sl.name] = sl.descriptor.DefaultValue()
		case slotUnnamed:
			if m, ok := sl.descriptor.DefaultValue().(map[string]any); ok {
				for k, v := range m {
					out[k] = v
				}
			}
		}
	}
	return out
}

func (s *Struct) clone(e Endian) Descriptor {
	c := *s
	c.endianVariants = endianVariants{}
	c.fixed = &e
	newSlots := make([]StructSlot, len(s.slots))
	for i, sl := range s.slots {
		sl.descriptor = propagateEndian(sl.descriptor, e)
		newSlots[i] = sl
	}
	c.slots = newSlots
	return &c
}

func (s *Struct) WithEndian(e Endian) Descriptor {
	return s.endianVariants.withEndian(s, s.fixed, e, s.clone)
}

func (s *Struct) WithoutEndian() Descriptor {
	if s.fixed == nil {
		return s
	}
	c := *s
	c.endianVariants = endianVariants{}
	c.fixed = nil
	return &c
}

func (s *Struct) defaultFor(name string) any {
	for _, sl := range s.slots {
		switch sl.kind {
		case slotNamed:
			if sl.name == name {
				return sl.descriptor.DefaultValue()
			}
		case slotUnnamed:
			for _, n := range sl.lifted {
				if n == name {
					if m, ok := sl.descriptor.DefaultValue().(map[string]any); ok {
						return m[name]
					}
				}
			}
		}
	}
	return nil
}

func (s *Struct) Pack(val any, opts ...Option) ([]byte, error) {
	value, ok := val.(map[string]any)
	if !ok {
		return nil, constraintViolation("Struct", "value %v is not a field map", val)
	}
	co := resolveOptions(opts)
	if co.validate {
		if err := s.schema.Validate(value); err != nil {
			return nil, err
		}
	}
	inner := append(append([]Option(nil), opts...), SkipValidation())

	filled := make(map[string]any, len(value))
	for k, v := range value {
		filled[k] = v
	}
	for _, name := range s.schema.Names() {
		if _, present := filled[name]; !present {
			filled[name] = s.defaultFor(name)
		}
	}

	var out []byte
	for _, sl := range s.slots {
		switch sl.kind {
		case slotPad:
			bs, err := sl.descriptor.Pack(nil, inner...)
			if err != nil {
				return nil, err
			}
			out = append(out, bs...)
		case slotNamed:
			bs, err := sl.descriptor.Pack(filled[sl.name], inner...)
			if err != nil {
				return nil, err
			}
			out = append(out, bs...)
		case slotUnnamed:
			sub := map[string]any{}
			for _, n := range sl.lifted {
				sub[n] = filled[n]
			}
			bs, err := sl.descriptor.Pack(sub, inner...)
			if err != nil {
				return nil, err
			}
			out = append(out, bs...)
		}
	}

	if s.sizePred != nil {
		total := s.sizePred(filled)
		if total > len(out) {
			out = append(out, make([]byte, total-len(out))...)
		} else if total < len(out) {
			out = out[:total]
		}
	}
	return out, nil
}

func (s *Struct) UnpackOne(buf []byte, opts ...Option) (any, []byte, error) {
	out := map[string]any{}
	tail := buf

	for _, sl := range s.slots {
		if sl.descriptor.Greedy() && s.sizePred != nil {
			total := s.sizePred(out)
			consumed := len(buf) - len(tail)
			if total < consumed {
				return nil, nil, constraintViolation("Struct", "size predicate returned %d, smaller than %d bytes already consumed", total, consumed)
			}
			innerLen := total - consumed
			if innerLen > len(tail) {
				return nil, nil, missingBytes(innerLen - len(tail))
			}
			inner, outerTail := tail[:innerLen], tail[innerLen:]
			v, _, err := sl.descriptor.UnpackOne(inner, opts...)
			if err != nil {
				return nil, nil, err
			}
			assignSlot(out, sl, v)
			return out, outerTail, nil
		}

		v, t, err := sl.descriptor.UnpackOne(tail, opts...)
		if err != nil {
			return nil, nil, err
		}
		assignSlot(out, sl, v)
		tail = t
	}
	return out, tail, nil
}

func assignSlot(out map[string]any, sl StructSlot, v any) {
	switch sl.kind {
	case slotNamed:
		out[sl.name] = v
	case slotUnnamed:
		if m, ok := v.(map[string]any); ok {
			for k, sub := range m {
				out[k] = sub
			}
		}
	case slotPad:
	}
}
