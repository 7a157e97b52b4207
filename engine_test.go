package cstruct

import (
	"bytes"
	"testing"

	"github.com/rawbindata/cstruct/internal/layouttest"
)

func TestUnpackDiscardsTail(t *testing.T) {
	val, err := Unpack(U8(), []byte{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if val != uint64(1) {
		t.Errorf("val = %v, want 1", val)
	}
}

func TestUnpackAll(t *testing.T) {
	vals, err := UnpackAll(U8(), []byte{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	want := []any{uint64(1), uint64(2), uint64(3)}
	for i, v := range want {
		if vals[i] != v {
			t.Errorf("vals[%d] = %v, want %v", i, vals[i], v)
		}
	}
}

func TestUnpackAllPartialTrailingValueSurfacesMissingBytes(t *testing.T) {
	_, err := UnpackAll(U32(), []byte{1, 2, 3})
	if err == nil {
		t.Error("want error for a trailing partial value")
	}
}

func TestReadFixedSize(t *testing.T) {
	r := bytes.NewReader([]byte{0, 0, 0, 42, 0xFF})
	val, err := Read(U32().WithEndian(Big), r)
	if err != nil {
		t.Fatal(err)
	}
	if val != uint64(42) {
		t.Errorf("val = %v, want 42", val)
	}
}

func TestReadRejectsVariableSize(t *testing.T) {
	r := bytes.NewReader([]byte("anything"))
	_, err := Read(GreedyString(), r)
	if _, ok := err.(*UnsupportedOperationError); !ok {
		t.Fatalf("got %T, want *UnsupportedOperationError", err)
	}
}

func TestPread(t *testing.T) {
	r := bytes.NewReader([]byte{0, 0, 0, 0, 0, 0, 0, 42})
	val, err := Pread(U8(), r, 7)
	if err != nil {
		t.Fatal(err)
	}
	if val != uint64(42) {
		t.Errorf("val = %v, want 42", val)
	}
}

func TestPreadRejectsVariableSize(t *testing.T) {
	r := bytes.NewReader([]byte("anything"))
	_, err := Pread(GreedyString(), r, 0)
	if _, ok := err.(*UnsupportedOperationError); !ok {
		t.Fatalf("got %T, want *UnsupportedOperationError", err)
	}
}

func TestDefaultEndianRoundTrip(t *testing.T) {
	old := DefaultEndian()
	defer SetDefaultEndian(old)

	SetDefaultEndian(Big)
	layouttest.Pack(t, U32(), uint64(1), []byte{0, 0, 0, 1})

	SetDefaultEndian(Little)
	layouttest.Pack(t, U32(), uint64(1), []byte{1, 0, 0, 0})
}

func TestHostEndianIsBigOrLittle(t *testing.T) {
	if HostEndian != Big && HostEndian != Little {
		t.Errorf("HostEndian = %v, want Big or Little", HostEndian)
	}
}
