package cstruct

import "reflect"

// Array is a homogeneous sequence of one element descriptor, in one
// of three mutually exclusive modes: fixed count, greedy (consumes
// all remaining input), or terminated by a literal element value.
type Array struct {
	endianVariants
	fixed      *Endian
	elem       Descriptor
	count      int
	terminated bool
	terminator any
}

// FixedArray builds an Array that packs/unpacks exactly count
// elements. Packing fewer elements right-pads with elem's default
// value; packing more is a ConstraintViolation.
func FixedArray(elem Descriptor, count int) (*Array, error) {
	if err := checkArrayElement(elem); err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, buildError("fixed array count must be positive, got %d", count)
	}
	return &Array{elem: elem, count: count}, nil
}

// GreedyArray builds an Array that decodes elements until the input
// is exhausted, and packs every element it is given.
func GreedyArray(elem Descriptor) (*Array, error) {
	if err := checkArrayElement(elem); err != nil {
		return nil, err
	}
	return &Array{elem: elem}, nil
}

// TerminatedArray builds an Array that decodes elements until one
// unpacks equal to terminator, and packs its elements followed by the
// packed terminator.
func TerminatedArray(elem Descriptor, terminator any) (*Array, error) {
	if err := checkArrayElement(elem); err != nil {
		return nil, err
	}
	return &Array{elem: elem, terminated: true, terminator: terminator}, nil
}

func checkArrayElement(elem Descriptor) error {
	if u, ok := elem.(*Union); ok && !u.FixedSize() {
		return buildError("array element cannot be a variable-size union")
	}
	return nil
}

func (a *Array) Size() int {
	if a.count > 0 && a.elem.FixedSize() {
		return a.count * a.elem.Size()
	}
	return 0
}

func (a *Array) FixedSize() bool { return a.count > 0 && a.elem.FixedSize() }
func (a *Array) Greedy() bool    { return a.count == 0 && !a.terminated }

func (a *Array) FixedEndian() (Endian, bool) {
	if a.fixed == nil {
		return 0, false
	}
	return *a.fixed, true
}

func (a *Array) DefaultValue() any { return []any{} }

func (a *Array) clone(e Endian) Descriptor {
	c := *a
	c.endianVariants = endianVariants{}
	c.fixed = &e
	c.elem = propagateEndian(a.elem, e)
	return &c
}

func (a *Array) WithEndian(e Endian) Descriptor {
	return a.endianVariants.withEndian(a, a.fixed, e, a.clone)
}

func (a *Array) WithoutEndian() Descriptor {
	if a.fixed == nil {
		return a
	}
	c := *a
	c.endianVariants = endianVariants{}
	c.fixed = nil
	return &c
}

func toAnySlice(val any) ([]any, bool) {
	if items, ok := val.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(val)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func valuesEqual(a, b any) bool {
	if ai, ok := asInt64(a); ok {
		if bi, ok := asInt64(b); ok {
			return ai == bi
		}
	}
	return reflect.DeepEqual(a, b)
}

func (a *Array) Pack(val any, opts ...Option) ([]byte, error) {
	items, ok := toAnySlice(val)
	if !ok {
		return nil, constraintViolation("Array", "value %v is not a list", val)
	}
	co := resolveOptions(opts)
	if a.count > 0 && co.validate && len(items) > a.count {
		return nil, constraintViolation("Array", "got %d elements, want at most %d", len(items), a.count)
	}
	inner := append(append([]Option(nil), opts...), SkipValidation())
	var out []byte
	n := len(items)
	if a.count > 0 {
		n = a.count
	}
	for i := 0; i < n; i++ {
		var v any
		if i < len(items) {
			v = items[i]
		} else {
			v = a.elem.DefaultValue()
		}
		bs, err := a.elem.Pack(v, inner...)
		if err != nil {
			return nil, err
		}
		out = append(out, bs...)
	}
	if a.terminated {
		bs, err := a.elem.Pack(a.terminator, inner...)
		if err != nil {
			return nil, err
		}
		out = append(out, bs...)
	}
	return out, nil
}

func (a *Array) UnpackOne(buf []byte, opts ...Option) (any, []byte, error) {
	out := []any{}
	tail := buf

	if a.count > 0 {
		for i := 0; i < a.count; i++ {
			v, t, err := a.elem.UnpackOne(tail, opts...)
			if err != nil {
				return nil, nil, err
			}
			out = append(out, v)
			tail = t
		}
		return out, tail, nil
	}

	if a.terminated {
		for {
			if len(tail) == 0 {
				return nil, nil, &TerminatorNotFoundError{What: "Array"}
			}
			v, t, err := a.elem.UnpackOne(tail, opts...)
			if err != nil {
				return nil, nil, err
			}
			if valuesEqual(v, a.terminator) {
				return out, t, nil
			}
			out = append(out, v)
			tail = t
		}
	}

	for len(tail) > 0 {
		v, t, err := a.elem.UnpackOne(tail, opts...)
		if err != nil {
			return nil, nil, err
		}
		out = append(out, v)
		tail = t
	}
	return out, nil, nil
}
