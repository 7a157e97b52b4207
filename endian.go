package cstruct

import (
	"sync/atomic"

	"github.com/rawbindata/cstruct/wire"
)

// Endian selects the byte order multi-byte descriptors use when they
// don't carry a fixed override of their own.
type Endian int

const (
	// Little lays out multi-byte integers least-significant-byte
	// first.
	Little Endian = iota
	// Big lays out multi-byte integers most-significant-byte first.
	Big
)

func (e Endian) String() string {
	if e == Big {
		return "big"
	}
	return "little"
}

func (e Endian) order() wire.ByteOrder {
	if e == Big {
		return wire.BigEndian
	}
	return wire.LittleEndian
}

// HostEndian is the byte order of the host this process is running
// on, probed the same way the host's in-memory representation of a
// known word would reveal it.
var HostEndian = func() Endian {
	if wire.HostByteOrder == wire.BigEndian {
		return Big
	}
	return Little
}()

var defaultEndian atomic.Int32

func init() {
	defaultEndian.Store(int32(HostEndian))
}

// DefaultEndian returns the process-wide default endian used by any
// descriptor and any caller-supplied endian override that doesn't
// resolve to an explicit choice.
func DefaultEndian() Endian {
	return Endian(defaultEndian.Load())
}

// SetDefaultEndian replaces the process-wide default endian. It is
// safe to call concurrently with packing/unpacking; the new default
// takes effect atomically for any operation started after the call
// returns.
func SetDefaultEndian(e Endian) {
	defaultEndian.Store(int32(e))
}

// effectiveEndian resolves a descriptor's fixed endian (if any) and a
// caller-supplied endian (if any) down to the concrete byte order used
// for a single pack/unpack call, per the "effective endian" rule in
// the glossary: descriptor's fixed endian, else caller's endian, else
// the process default.
func effectiveEndian(fixed *Endian, caller *Endian) Endian {
	if fixed != nil {
		return *fixed
	}
	if caller != nil {
		return *caller
	}
	return DefaultEndian()
}
