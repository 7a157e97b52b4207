package cstruct

import (
	"testing"

	"github.com/rawbindata/cstruct/internal/layouttest"
)

func TestArrayFixedCount(t *testing.T) {
	a := layouttest.Must(FixedArray(U8(), 3))
	layouttest.RoundTrip(t, a, []any{uint64(1), uint64(2), uint64(3)}, []byte{1, 2, 3})
}

func TestArrayFixedCountShortInputPadsWithDefault(t *testing.T) {
	a := layouttest.Must(FixedArray(U8(), 3))
	layouttest.Pack(t, a, []any{uint64(9)}, []byte{9, 0, 0})
}

func TestArrayFixedCountOverflowRejected(t *testing.T) {
	a := layouttest.Must(FixedArray(U8(), 2))
	layouttest.PackErr(t, a, []any{uint64(1), uint64(2), uint64(3)})
}

func TestArrayGreedy(t *testing.T) {
	a := layouttest.Must(GreedyArray(U8()))
	layouttest.RoundTrip(t, a, []any{uint64(1), uint64(2), uint64(3), uint64(4)}, []byte{1, 2, 3, 4})
}

// scenario 5: int8 array terminated by -1.
func TestArrayTerminatedScenario(t *testing.T) {
	a := layouttest.Must(TerminatedArray(I8(), int64(-1)))
	layouttest.Pack(t, a, []any{int64(1), int64(2), int64(3), int64(4)},
		[]byte{0x01, 0x02, 0x03, 0x04, 0xFF})
	layouttest.Unpack(t, a,
		[]byte{0x01, 0x02, 0x03, 0x04, 0xFF, 't', 'a', 'i', 'l'},
		[]any{int64(1), int64(2), int64(3), int64(4)},
		[]byte("tail"),
	)
}

func TestArrayTerminatedNotFound(t *testing.T) {
	a := layouttest.Must(TerminatedArray(I8(), int64(-1)))
	layouttest.UnpackErr(t, a, []byte{0x01, 0x02})
}

func TestArrayRejectsVariableSizeUnionElement(t *testing.T) {
	greedyMember, err := NewUnion(nil, NamedMember("v", GreedyString()))
	if err != nil {
		t.Fatal(err)
	}
	_, err = FixedArray(greedyMember, 2)
	if err == nil {
		t.Error("want build error for variable-size union array element")
	}
}

func TestArrayAcceptsConcreteSliceTypes(t *testing.T) {
	a := layouttest.Must(FixedArray(U8(), 3))
	layouttest.Pack(t, a, []int{1, 2, 3}, []byte{1, 2, 3})
}
