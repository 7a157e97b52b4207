package cstruct

import (
	"errors"
	"sort"
)

// UnionMember is one entry in a Union's ordered member list: a named
// member or an unnamed composite whose subfields lift into the
// union's own member namespace. Pad is not a legal union member.
type UnionMember struct {
	kind       slotKind
	name       string
	descriptor Descriptor
	lifted     []string
}

// NamedMember declares a union member under its own key.
func NamedMember(name string, d Descriptor) UnionMember {
	return UnionMember{kind: slotNamed, name: name, descriptor: d}
}

// UnnamedMember declares an anonymous composite member whose own
// field names lift into the union's namespace. d must be a *Struct or
// *Union.
func UnnamedMember(d Descriptor) UnionMember {
	var lifted []string
	switch v := d.(type) {
	case *Struct:
		lifted = v.FieldNames()
	case *Union:
		lifted = v.MemberNames()
	}
	return UnionMember{kind: slotUnnamed, descriptor: d, lifted: lifted}
}

// UnionView is the read-only handle a UnionSizePredicate uses to
// inspect members other than the one currently being packed. Get
// decodes member name from the view's current buffer; if the buffer
// is shorter than the member needs, Get returns a *MissingBytesError,
// which Union.Pack uses to know how much to extend the buffer by
// before retrying the predicate.
type UnionView struct {
	u   *Union
	buf []byte
}

// Get decodes member name from the view's buffer.
func (v *UnionView) Get(name string) (any, error) {
	d, ok := v.u.byName[name]
	if !ok {
		return nil, &UnknownMemberError{Member: name}
	}
	val, _, err := d.UnpackOne(v.buf)
	if err != nil {
		return nil, err
	}
	return val, nil
}

// UnionSizePredicate computes a union's total byte length given
// access to its other members, decoded from whatever bytes have been
// committed so far.
type UnionSizePredicate func(v *UnionView) (int, error)

// Union overlays several members on a shared byte buffer without
// aliasing memory: it tracks one canonical buffer and decodes members
// from it on demand.
type Union struct {
	endianVariants
	fixed     *Endian
	members   []UnionMember
	byName    map[string]Descriptor
	order     []string
	schema    *Schema
	sizePred  UnionSizePredicate
	greedyIdx int
	allFixed  bool
}

// NewUnion builds a Union from members in declaration order. pred may
// be nil.
func NewUnion(pred UnionSizePredicate, members ...UnionMember) (*Union, error) {
	u := &Union{
		members:   members,
		byName:    map[string]Descriptor{},
		sizePred:  pred,
		greedyIdx: -1,
		allFixed:  true,
	}
	seen := map[string]bool{}
	for i, m := range members {
		if _, isPad := m.descriptor.(*Pad); isPad {
			return nil, buildError("Pad is not a legal union member")
		}
		switch m.kind {
		case slotNamed:
			if seen[m.name] {
				return nil, buildError("duplicate union member name %q", m.name)
			}
			seen[m.name] = true
			u.order = append(u.order, m.name)
			u.byName[m.name] = m.descriptor
		case slotUnnamed:
			for _, n := range m.lifted {
				if seen[n] {
					return nil, buildError("duplicate union member name %q lifted from an unnamed field", n)
				}
				seen[n] = true
				u.order = append(u.order, n)
				u.byName[n] = m.descriptor
			}
		}
		if m.descriptor.Greedy() {
			u.greedyIdx = i
		}
		if !m.descriptor.FixedSize() {
			u.allFixed = false
		}
	}
	if len(u.order) == 0 {
		return nil, buildError("union must have at least one member")
	}
	u.schema = newSchema(u.order)
	return u, nil
}

// MemberNames returns every named and lifted member name, in
// declaration order.
func (u *Union) MemberNames() []string { return u.schema.Names() }

// Sized returns a clone of u with pred as its size predicate.
func (u *Union) Sized(pred UnionSizePredicate) *Union {
	c := *u
	c.endianVariants = endianVariants{}
	c.sizePred = pred
	return &c
}

func (u *Union) maxFixedSize() int {
	max := 0
	for _, m := range u.members {
		if m.descriptor.FixedSize() {
			if s := m.descriptor.Size(); s > max {
				max = s
			}
		}
	}
	return max
}

func (u *Union) Size() int       { return u.maxFixedSize() }
func (u *Union) FixedSize() bool { return u.sizePred == nil && u.greedyIdx < 0 && u.allFixed }
func (u *Union) Greedy() bool    { return u.sizePred == nil && u.greedyIdx >= 0 }

func (u *Union) FixedEndian() (Endian, bool) {
	if u.fixed == nil {
		return 0, false
	}
	return *u.fixed, true
}

func (u *Union) DefaultValue() any { return map[string]any{} }

func (u *Union) clone(e Endian) Descriptor {
	c := *u
	c.endianVariants = endianVariants{}
	c.fixed = &e
	newMembers := make([]UnionMember, len(u.members))
	newByName := map[string]Descriptor{}
	for i, m := range u.members {
		m.descriptor = propagateEndian(m.descriptor, e)
		newMembers[i] = m
		switch m.kind {
		case slotNamed:
			newByName[m.name] = m.descriptor
		case slotUnnamed:
			for _, n := range m.lifted {
				newByName[n] = m.descriptor
			}
		}
	}
	c.members = newMembers
	c.byName = newByName
	return &c
}

func (u *Union) WithEndian(e Endian) Descriptor {
	return u.endianVariants.withEndian(u, u.fixed, e, u.clone)
}

func (u *Union) WithoutEndian() Descriptor {
	if u.fixed == nil {
		return u
	}
	c := *u
	c.endianVariants = endianVariants{}
	c.fixed = nil
	return &c
}

func (u *Union) resolvePackInput(val any) (string, any, error) {
	value, ok := val.(map[string]any)
	if !ok {
		return "", nil, constraintViolation("Union", "value %v is not a field map", val)
	}
	if len(value) == 0 {
		name := u.order[0]
		return name, u.byName[name].DefaultValue(), nil
	}
	if len(value) > 1 {
		names := make([]string, 0, len(value))
		for k := range value {
			names = append(names, k)
		}
		sort.Strings(names)
		return "", nil, &ConflictingMembersError{Members: names}
	}
	for k, v := range value {
		if _, ok := u.byName[k]; !ok {
			return "", nil, &UnknownMemberError{Member: k}
		}
		return k, v, nil
	}
	panic("unreachable")
}

func extendBuf(buf []byte, need int, padBytes []byte) []byte {
	target := len(buf) + need
	out := append([]byte(nil), buf...)
	for len(out) < target {
		idx := len(out)
		if idx < len(padBytes) {
			out = append(out, padBytes[idx])
		} else {
			out = append(out, 0)
		}
	}
	return out
}

func (u *Union) packSized(buf []byte, co callOptions) ([]byte, error) {
	for attempt := 0; attempt < 8; attempt++ {
		view := &UnionView{u: u, buf: buf}
		total, err := u.sizePred(view)
		if err == nil {
			switch {
			case total > len(buf):
				buf = append(buf, make([]byte, total-len(buf))...)
			case total < len(buf):
				buf = buf[:total]
			}
			return buf, nil
		}
		var mb *MissingBytesError
		if !errors.As(err, &mb) {
			return nil, err
		}
		ext := extendBuf(buf, mb.Need, co.padBytes)
		if len(ext) <= len(buf) {
			return nil, err
		}
		buf = ext
	}
	return nil, buildError("union size predicate did not converge after padding")
}

func (u *Union) Pack(val any, opts ...Option) ([]byte, error) {
	co := resolveOptions(opts)
	name, memberVal, err := u.resolvePackInput(val)
	if err != nil {
		return nil, err
	}
	member := u.byName[name]
	inner := append(append([]Option(nil), opts...), SkipValidation())
	buf, err := member.Pack(memberVal, inner...)
	if err != nil {
		return nil, err
	}

	switch {
	case u.sizePred != nil:
		return u.packSized(buf, co)
	case u.greedyIdx >= 0:
		return buf, nil
	default:
		total := u.maxFixedSize()
		if len(buf) < total {
			out := make([]byte, total)
			copy(out, buf)
			return out, nil
		}
		return buf, nil
	}
}

// decodeValue is the no-predicate unpack strategy for a bare Union
// descriptor: every member overlays the same bytes, so a value
// decoded from one named member that happens to equal the name of
// another declared member is treated as a discriminant, and only that
// discriminant plus its matching member are decoded and returned
// (this is how scenario-style "type tag shares a name with the active
// member" unions present their value). Absent such a match, every
// member that decodes without error is included, merged by name.
func (u *Union) decodeValue(data []byte, opts ...Option) map[string]any {
	inner := append(append([]Option(nil), opts...), SkipValidation())
	for _, m := range u.members {
		if m.kind != slotNamed {
			continue
		}
		val, _, err := m.descriptor.UnpackOne(data, inner...)
		if err != nil {
			continue
		}
		sym, ok := val.(string)
		if !ok || sym == m.name {
			continue
		}
		matched, ok := u.byName[sym]
		if !ok {
			continue
		}
		matchedVal, _, err := matched.UnpackOne(data, inner...)
		if err != nil {
			continue
		}
		return map[string]any{m.name: val, sym: matchedVal}
	}

	result := map[string]any{}
	for _, m := range u.members {
		val, _, err := m.descriptor.UnpackOne(data, inner...)
		if err != nil {
			continue
		}
		switch m.kind {
		case slotNamed:
			result[m.name] = val
		case slotUnnamed:
			if sub, ok := val.(map[string]any); ok {
				for k, v := range sub {
					result[k] = v
				}
			}
		}
	}
	return result
}

func (u *Union) UnpackOne(buf []byte, opts ...Option) (any, []byte, error) {
	if u.sizePred != nil {
		view := &UnionView{u: u, buf: buf}
		total, err := u.sizePred(view)
		if err != nil {
			return nil, nil, err
		}
		if total > len(buf) {
			return nil, nil, missingBytes(total - len(buf))
		}
		return u.decodeValue(buf[:total], opts...), buf[total:], nil
	}
	if u.greedyIdx >= 0 {
		return u.decodeValue(buf, opts...), nil, nil
	}
	total := u.maxFixedSize()
	if len(buf) < total {
		return nil, nil, missingBytes(total - len(buf))
	}
	return u.decodeValue(buf[:total], opts...), buf[total:], nil
}

// UnionValue is a stateful handle over one packed union buffer,
// implementing the "one active member + dirty flag + preserved tail"
// access pattern from the data model: reads of a cached member are
// free, reads of a different member flush any pending write first,
// and writes are deferred until the next flush.
type UnionValue struct {
	u      *Union
	buf    []byte
	active string
	value  any
	dirty  bool
	frozen bool
}

// NewValue wraps buf (a previously packed or unpacked union buffer)
// for interactive member access.
func (u *Union) NewValue(buf []byte) *UnionValue {
	return &UnionValue{u: u, buf: append([]byte(nil), buf...)}
}

// Freeze disables flushing: further writes fail, but reads of
// already-decoded members remain cheap. Use on union values that will
// only ever be read, to skip the repack-on-switch cost.
func (v *UnionValue) Freeze() { v.frozen = true }

func (v *UnionValue) flush() error {
	if !v.dirty {
		return nil
	}
	if v.frozen {
		return &UnsupportedOperationError{Op: "flush", Reason: "union value is frozen"}
	}
	d, ok := v.u.byName[v.active]
	if !ok {
		return &UnknownMemberError{Member: v.active}
	}
	packed, err := d.Pack(v.value, PadBytes(v.buf), SkipValidation())
	if err != nil {
		return err
	}
	if len(packed) > len(v.buf) {
		v.buf = packed
	} else {
		copy(v.buf, packed)
	}
	v.dirty = false
	return nil
}

// Get reads member name, flushing any pending write to a different
// member first.
func (v *UnionValue) Get(name string) (any, error) {
	if v.active == name && !v.dirty {
		return v.value, nil
	}
	if err := v.flush(); err != nil {
		return nil, err
	}
	d, ok := v.u.byName[name]
	if !ok {
		return nil, &UnknownMemberError{Member: name}
	}
	val, _, err := d.UnpackOne(v.buf)
	if err != nil {
		return nil, err
	}
	v.active, v.value, v.dirty = name, val, false
	return val, nil
}

// Set stages val as member name's new value; it is not written to the
// buffer until the next flush (triggered by Get of a different member
// or by Bytes).
func (v *UnionValue) Set(name string, val any) error {
	if v.frozen {
		return &UnsupportedOperationError{Op: "Set", Reason: "union value is frozen"}
	}
	if _, ok := v.u.byName[name]; !ok {
		return &UnknownMemberError{Member: name}
	}
	v.active, v.value, v.dirty = name, val, true
	return nil
}

// Bytes flushes any pending write and returns the canonical buffer.
func (v *UnionValue) Bytes() ([]byte, error) {
	if err := v.flush(); err != nil {
		return nil, err
	}
	return append([]byte(nil), v.buf...), nil
}
