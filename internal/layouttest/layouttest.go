// Package layouttest holds small helpers shared by cstruct's
// table-driven tests: building descriptors that are expected to
// succeed, and asserting round-trip Pack/UnpackOne behavior with
// go-cmp diffs instead of reflect.DeepEqual.
package layouttest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rawbindata/cstruct"
)

// Must panics if err is non-nil, otherwise returns d. Use it in test
// table construction where a build failure means the test itself is
// broken, not the case under test.
func Must[T cstruct.Descriptor](d T, err error) T {
	if err != nil {
		panic(err)
	}
	return d
}

// Pack packs val under d and fails the test if the result doesn't
// match want exactly.
func Pack(t *testing.T, d cstruct.Descriptor, val any, want []byte, opts ...cstruct.Option) {
	t.Helper()
	got, err := d.Pack(val, opts...)
	if err != nil {
		t.Fatalf("Pack(%v) failed: %v", val, err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Pack(%v) bytes mismatch (-want +got):\n%s", val, diff)
	}
}

// PackErr packs val under d and fails the test unless it returns an
// error.
func PackErr(t *testing.T, d cstruct.Descriptor, val any, opts ...cstruct.Option) {
	t.Helper()
	if _, err := d.Pack(val, opts...); err == nil {
		t.Fatalf("Pack(%v) succeeded, want error", val)
	}
}

// Unpack unpacks buf under d and fails the test unless the decoded
// value and unconsumed tail match wantVal and wantTail exactly. A nil
// and an empty tail count as equal, so nil means "nothing left over".
func Unpack(t *testing.T, d cstruct.Descriptor, buf []byte, wantVal any, wantTail []byte, opts ...cstruct.Option) {
	t.Helper()
	got, tail, err := d.UnpackOne(buf, opts...)
	if err != nil {
		t.Fatalf("UnpackOne(%x) failed: %v", buf, err)
	}
	if diff := cmp.Diff(wantVal, got); diff != "" {
		t.Errorf("UnpackOne(%x) value mismatch (-want +got):\n%s", buf, diff)
	}
	if diff := cmp.Diff(wantTail, tail, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("UnpackOne(%x) tail mismatch (-want +got):\n%s", buf, diff)
	}
}

// UnpackErr unpacks buf under d and fails the test unless it returns
// an error.
func UnpackErr(t *testing.T, d cstruct.Descriptor, buf []byte, opts ...cstruct.Option) {
	t.Helper()
	if _, _, err := d.UnpackOne(buf, opts...); err == nil {
		t.Fatalf("UnpackOne(%x) succeeded, want error", buf)
	}
}

// RoundTrip packs val, checks it against want, then unpacks want and
// checks the result comes back as val with an empty tail. Use for the
// common case where packing and unpacking are exact inverses.
func RoundTrip(t *testing.T, d cstruct.Descriptor, val any, want []byte, opts ...cstruct.Option) {
	t.Helper()
	Pack(t, d, val, want, opts...)
	Unpack(t, d, want, val, nil, opts...)
}
