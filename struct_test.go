package cstruct

import (
	"testing"

	"github.com/rawbindata/cstruct/internal/layouttest"
)

func cmdEnum(t *testing.T) *Enum {
	t.Helper()
	return layouttest.Must(NewEnum(U8(),
		Sym("invalid"), Sym("hello"), Sym("read"), Sym("write"), Sym("goodbye"),
	))
}

// scenario 2: TLV struct with a self-referential size predicate.
func TestStructTLVScenario(t *testing.T) {
	e := cmdEnum(t)
	tlv := layouttest.Must(NewStruct(nil,
		NamedField("type", e),
		NamedField("len", U32().WithEndian(Big)),
		NamedField("value", GreedyString()),
	))
	tlv = tlv.Sized(func(partial map[string]any) int {
		off, _ := tlv.Offsetof("value")
		n, _ := asInt64(partial["len"])
		return off + int(n)
	})

	want := []byte{0x01, 0x00, 0x00, 0x00, 0x04, 'v', '1', '.', '0'}
	val := map[string]any{"type": "hello", "len": int64(4), "value": "v1.0"}
	layouttest.Pack(t, tlv, val, want)

	gotVal, tail, err := tlv.UnpackOne(want)
	if err != nil {
		t.Fatal(err)
	}
	if len(tail) != 0 {
		t.Errorf("tail = %v, want empty", tail)
	}
	m := gotVal.(map[string]any)
	if m["type"] != "hello" || m["value"] != "v1.0" {
		t.Errorf("got %+v", m)
	}
	if n, _ := asInt64(m["len"]); n != 4 {
		t.Errorf("len = %v, want 4", m["len"])
	}
}

func TestStructPadIsAbsorbed(t *testing.T) {
	s := layouttest.Must(NewStruct(nil,
		NamedField("a", U8()),
		PadField(2),
		NamedField("b", U8()),
	))
	layouttest.Pack(t, s, map[string]any{"a": uint64(1), "b": uint64(2)}, []byte{1, 0, 0, 2})
	layouttest.Unpack(t, s, []byte{1, 0, 0, 2}, map[string]any{"a": uint64(1), "b": uint64(2)}, nil)
}

func TestStructUnnamedFieldLiftsNames(t *testing.T) {
	inner := layouttest.Must(NewStruct(nil, NamedField("x", U8()), NamedField("y", U8())))
	outer := layouttest.Must(NewStruct(nil, UnnamedField(inner), NamedField("z", U8())))
	layouttest.Pack(t, outer, map[string]any{"x": uint64(1), "y": uint64(2), "z": uint64(3)}, []byte{1, 2, 3})
	layouttest.Unpack(t, outer, []byte{1, 2, 3}, map[string]any{"x": uint64(1), "y": uint64(2), "z": uint64(3)}, nil)
}

func TestStructRejectsDuplicateFieldNames(t *testing.T) {
	_, err := NewStruct(nil, NamedField("a", U8()), NamedField("a", U8()))
	if err == nil {
		t.Error("want build error for duplicate field name")
	}
}

func TestStructRejectsDuplicateLiftedNames(t *testing.T) {
	inner := layouttest.Must(NewStruct(nil, NamedField("a", U8())))
	_, err := NewStruct(nil, NamedField("a", U8()), UnnamedField(inner))
	if err == nil {
		t.Error("want build error for duplicate lifted field name")
	}
}

func TestStructRejectsNonTrailingGreedyWithoutPredicate(t *testing.T) {
	_, err := NewStruct(nil, NamedField("a", GreedyString()), NamedField("b", U8()))
	if err == nil {
		t.Error("want build error for non-trailing greedy field with no size predicate")
	}
}

func TestStructRejectsUnknownKeyOnPack(t *testing.T) {
	s := layouttest.Must(NewStruct(nil, NamedField("a", U8())))
	layouttest.PackErr(t, s, map[string]any{"a": uint64(1), "bogus": uint64(2)})
}

func TestStructMissingFieldUsesDefault(t *testing.T) {
	s := layouttest.Must(NewStruct(nil, NamedField("a", U8()), NamedField("b", U8())))
	layouttest.Pack(t, s, map[string]any{"a": uint64(5)}, []byte{5, 0})
}

func TestStructOffsetof(t *testing.T) {
	s := layouttest.Must(NewStruct(nil,
		NamedField("a", U8()),
		NamedField("b", U16()),
		NamedField("c", GreedyString()),
	))
	if off, ok := s.Offsetof("b"); !ok || off != 1 {
		t.Errorf("Offsetof(b) = %d, %v, want 1, true", off, ok)
	}
	if off, ok := s.Offsetof("c"); !ok || off != 3 {
		t.Errorf("Offsetof(c) = %d, %v, want 3, true", off, ok)
	}
	if _, ok := s.Offsetof("nonexistent"); ok {
		t.Error("Offsetof(nonexistent) should report false")
	}
}

func TestStructWithEndianPropagatesToFieldsWithoutOwnEndian(t *testing.T) {
	s := layouttest.Must(NewStruct(nil,
		NamedField("a", U16()),
		NamedField("b", U16().WithEndian(Little)),
	))
	s = s.WithEndian(Big).(*Struct)
	layouttest.Pack(t, s, map[string]any{"a": uint64(1), "b": uint64(1)}, []byte{0, 1, 1, 0})
}
