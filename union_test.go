package cstruct

import (
	"testing"

	"github.com/rawbindata/cstruct/internal/layouttest"
)

func netCmdEnum(t *testing.T) *Enum {
	t.Helper()
	return layouttest.Must(NewEnum(U8(),
		Sym("invalid"), Sym("hello"), Sym("read"), Sym("write"), Sym("goodbye"),
	))
}

// scenario 3: discriminant union over network byte order.
func TestUnionDiscriminantScenario(t *testing.T) {
	hello := layouttest.Must(NewStruct(nil,
		NamedField("type", netCmdEnum(t)),
		NamedField("version", FixedString(16)),
	))
	read := layouttest.Must(NewStruct(nil,
		NamedField("type", netCmdEnum(t)),
		NamedField("offset", U64()),
		NamedField("len", U64()),
	))
	u := layouttest.Must(NewUnion(nil,
		NamedMember("hello", hello),
		NamedMember("read", read),
		NamedMember("type", netCmdEnum(t)),
	))
	u = u.WithEndian(Big).(*Union)

	buf := []byte{
		0x02,
		0xFE, 0xFE, 0xFE, 0xFE, 0xFE, 0xFE, 0xFE, 0xFE,
		0xAB, 0xAB, 0xAB, 0xAB, 0xAB, 0xAB, 0xAB, 0xAB,
	}
	got, tail, err := u.UnpackOne(buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(tail) != 0 {
		t.Errorf("tail = %v, want empty", tail)
	}
	m := got.(map[string]any)
	if m["type"] != "read" {
		t.Errorf("type = %v, want read", m["type"])
	}
	readVal, ok := m["read"].(map[string]any)
	if !ok {
		t.Fatalf("read member missing or wrong shape: %+v", m)
	}
	if off, _ := asUint64(readVal["offset"]); off != 0xFEFEFEFEFEFEFEFE {
		t.Errorf("read.offset = %x, want FEFEFEFEFEFEFEFE", off)
	}
	if l, _ := asUint64(readVal["len"]); l != 0xABABABABABABABAB {
		t.Errorf("read.len = %x, want ABABABABABABABAB", l)
	}
}

func TestUnionPackConflictingMembers(t *testing.T) {
	u := layouttest.Must(NewUnion(nil, NamedMember("a", U8()), NamedMember("b", U8())))
	_, err := u.Pack(map[string]any{"a": uint64(1), "b": uint64(2)})
	var conf *ConflictingMembersError
	if err == nil {
		t.Fatal("want ConflictingMembersError")
	}
	if ce, ok := err.(*ConflictingMembersError); ok {
		conf = ce
	} else {
		t.Fatalf("got %T, want *ConflictingMembersError", err)
	}
	if len(conf.Members) != 2 {
		t.Errorf("Members = %v, want 2 entries", conf.Members)
	}
}

func TestUnionPackEmptyMapUsesFirstMemberDefault(t *testing.T) {
	u := layouttest.Must(NewUnion(nil, NamedMember("a", U8()), NamedMember("b", U16())))
	layouttest.Pack(t, u, map[string]any{}, []byte{0, 0})
}

func TestUnionPackUnknownMember(t *testing.T) {
	u := layouttest.Must(NewUnion(nil, NamedMember("a", U8())))
	layouttest.PackErr(t, u, map[string]any{"bogus": uint64(1)})
}

func TestUnionFixedSizeIsMaxOfMembers(t *testing.T) {
	u := layouttest.Must(NewUnion(nil, NamedMember("a", U8()), NamedMember("b", U32())))
	if u.Size() != 4 {
		t.Errorf("Size() = %d, want 4", u.Size())
	}
	layouttest.Pack(t, u, map[string]any{"a": uint64(1)}, []byte{1, 0, 0, 0})
}

func TestUnionGreedyMemberMakesUnionGreedy(t *testing.T) {
	u := layouttest.Must(NewUnion(nil, NamedMember("a", GreedyString())))
	if !u.Greedy() {
		t.Error("union with a greedy member and no predicate should be greedy")
	}
	_, tail, err := u.UnpackOne([]byte("everything"))
	if err != nil {
		t.Fatal(err)
	}
	if tail != nil {
		t.Errorf("tail = %v, want nil for a greedy union", tail)
	}
}

// scenario 7: union dynamic size via size=|u| u.inner.size.
func TestUnionDynamicSizeScenario(t *testing.T) {
	build := func() *Union {
		inner := layouttest.Must(NewStruct(nil, PadField(4), NamedField("size", U8())))
		u := layouttest.Must(NewUnion(nil,
			NamedMember("type", U8()),
			NamedMember("inner", inner),
		))
		return u.Sized(func(v *UnionView) (int, error) {
			raw, err := v.Get("inner")
			if err != nil {
				return 0, err
			}
			size, _ := asInt64(raw.(map[string]any)["size"])
			return int(size), nil
		})
	}

	u := build()
	got, err := u.Pack(map[string]any{"type": uint64(5)}, PadBytes([]byte{0, 0, 0, 0, 1}))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string([]byte{0x05}) {
		t.Errorf("got %x, want 05", got)
	}

	u2 := build()
	got2, err := u2.Pack(map[string]any{"type": uint64(0x0F)}, PadBytes([]byte{0, 0, 0, 0, 5}))
	if err != nil {
		t.Fatal(err)
	}
	want2 := []byte{0x0F, 0x00, 0x00, 0x00, 0x05}
	if string(got2) != string(want2) {
		t.Errorf("got %x, want %x", got2, want2)
	}
}

func TestUnionValueGetSetFlushesOnSwitch(t *testing.T) {
	u := layouttest.Must(NewUnion(nil, NamedMember("a", U8()), NamedMember("b", U32().WithEndian(Big))))
	v := u.NewValue(make([]byte, 4))
	if err := v.Set("a", uint64(7)); err != nil {
		t.Fatal(err)
	}
	// Reading a different member flushes "a" first, preserving the tail
	// of the 4-byte buffer beyond "a"'s 1 byte.
	bVal, err := v.Get("b")
	if err != nil {
		t.Fatal(err)
	}
	bu, _ := asUint64(bVal)
	if bu != 0x07000000 {
		t.Errorf("b = %x, want 07000000 (a's byte preserved in the high byte)", bu)
	}
}

func TestUnionValueFrozenRejectsWrites(t *testing.T) {
	u := layouttest.Must(NewUnion(nil, NamedMember("a", U8())))
	v := u.NewValue([]byte{1})
	v.Freeze()
	if err := v.Set("a", uint64(2)); err == nil {
		t.Error("Set on a frozen value should fail")
	}
}

func TestUnionRejectsEmptyMemberList(t *testing.T) {
	_, err := NewUnion(nil)
	if err == nil {
		t.Error("want build error for a union with no members")
	}
}

func TestUnionUnnamedMemberLiftsNames(t *testing.T) {
	inner := layouttest.Must(NewStruct(nil, NamedField("x", U8())))
	u := layouttest.Must(NewUnion(nil, UnnamedMember(inner), NamedMember("y", U8())))
	names := u.MemberNames()
	if len(names) != 2 {
		t.Errorf("MemberNames() = %v, want 2 entries", names)
	}
}
