package cstruct

import (
	"errors"
	"testing"

	"github.com/rawbindata/cstruct/internal/layouttest"
)

func TestIntRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		d    *Int
		val  any
		want []byte
	}{
		{"u8", U8(), uint64(0x42), []byte{0x42}},
		{"i8", I8(), int64(-2), []byte{0xFE}},
		{"u16 le", U16().WithEndian(Little).(*Int), uint64(0x1234), []byte{0x34, 0x12}},
		{"u16 be", U16().WithEndian(Big).(*Int), uint64(0x1234), []byte{0x12, 0x34}},
		{"u32 le", U32().WithEndian(Little).(*Int), uint64(0xFEEDFACE), []byte{0xCE, 0xFA, 0xED, 0xFE}},
		{"u32 be", U32().WithEndian(Big).(*Int), uint64(0xFEEDFACE), []byte{0xFE, 0xED, 0xFA, 0xCE}},
		{"i32 be", I32().WithEndian(Big).(*Int), int64(-1), []byte{0xFF, 0xFF, 0xFF, 0xFF}},
		{"u64 be", U64().WithEndian(Big).(*Int), uint64(0xFEFEFEFEFEFEFEFE), []byte{0xFE, 0xFE, 0xFE, 0xFE, 0xFE, 0xFE, 0xFE, 0xFE}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			layouttest.RoundTrip(t, tc.d, tc.val, tc.want)
		})
	}
}

func TestIntBounds(t *testing.T) {
	layouttest.PackErr(t, U8(), uint64(256))
	layouttest.PackErr(t, I8(), int64(128))
	layouttest.PackErr(t, I8(), int64(-129))
	layouttest.Pack(t, U8(), uint64(255), []byte{0xFF})
	layouttest.Pack(t, I8(), int64(127), []byte{0x7F})
}

func TestIntMissingBytes(t *testing.T) {
	_, _, err := U32().UnpackOne([]byte{0x01, 0x02})
	var mb *MissingBytesError
	if !errors.As(err, &mb) {
		t.Fatalf("want MissingBytesError, got %v", err)
	}
	if mb.Need != 2 {
		t.Errorf("Need = %d, want 2", mb.Need)
	}
}

func TestIntCallerEndianLosesToFixed(t *testing.T) {
	fixed := U32().WithEndian(Big)
	got, err := fixed.Pack(uint64(1), UseEndian(Little))
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0, 0, 0, 1}
	if string(got) != string(want) {
		t.Errorf("fixed endian was overridden by caller endian: got %x want %x", got, want)
	}
}

func TestIntWithEndianIdempotent(t *testing.T) {
	d := U32()
	a := d.WithEndian(Big)
	b := d.WithEndian(Big).WithEndian(Big)
	if a != b {
		t.Errorf("WithEndian(Big) twice did not return the same clone")
	}
}
