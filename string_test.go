package cstruct

import (
	"testing"

	"github.com/rawbindata/cstruct/internal/layouttest"
)

func TestStringFixedPackPads(t *testing.T) {
	s := FixedString(8)
	layouttest.Pack(t, s, "hi", []byte{'h', 'i', 0, 0, 0, 0, 0, 0})
}

func TestStringFixedUnpackNoTrim(t *testing.T) {
	s := FixedString(8)
	layouttest.Unpack(t, s, []byte{'h', 'i', 0, 0, 0, 0, 0, 0}, "hi\x00\x00\x00\x00\x00\x00", nil)
}

func TestStringFixedUnpackTrimmed(t *testing.T) {
	s := FixedString(8).Trimmed()
	layouttest.Unpack(t, s, []byte{'h', 'i', 0, 0, 0, 0, 0, 0}, "hi", nil)
}

func TestStringFixedOversizeRejected(t *testing.T) {
	layouttest.PackErr(t, FixedString(2), "too long")
}

func TestStringGreedyConsumesAll(t *testing.T) {
	s := GreedyString()
	layouttest.Unpack(t, s, []byte("rest of the buffer"), "rest of the buffer", nil)
}

func TestStringGreedyTrimStopsAtNullButTailIsEmpty(t *testing.T) {
	s := GreedyString().Trimmed()
	layouttest.Unpack(t, s, []byte("abc\x00garbage"), "abc", nil)
}

// scenario 4: terminated string with "STOP".
func TestStringTerminatedScenario(t *testing.T) {
	s := GreedyString().Terminated([]byte("STOP"))
	layouttest.Unpack(t, s,
		[]byte("this is the messageSTOPnext messageSTOP"),
		"this is the message",
		[]byte("next messageSTOP"),
	)
}

func TestStringTerminatedPack(t *testing.T) {
	s := GreedyString().Terminated([]byte("STOP"))
	layouttest.Pack(t, s, "hello", []byte("helloSTOP"))
}

func TestStringTerminatedNotFound(t *testing.T) {
	s := GreedyString().Terminated([]byte("STOP"))
	layouttest.UnpackErr(t, s, []byte("no terminator here"))
}
