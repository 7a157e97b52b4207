// Package wire provides the low-level byte-cursor primitives used by
// the cstruct codecs: endian-aware fixed-width integer encoding and
// decoding over a plain byte slice, with no implicit padding or
// alignment (callers that need padding use cstruct.Pad explicitly).
package wire

import (
	"encoding/binary"

	"golang.org/x/sys/cpu"
)

// ByteOrder selects how multi-byte integers are laid out in memory.
type ByteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// BigEndian lays out multi-byte integers most-significant-byte first.
var BigEndian ByteOrder = binary.BigEndian

// LittleEndian lays out multi-byte integers least-significant-byte first.
var LittleEndian ByteOrder = binary.LittleEndian

// HostByteOrder is the byte order of the host this process is running
// on, probed the same way the runtime itself detects endianness.
var HostByteOrder ByteOrder = hostByteOrder()

func hostByteOrder() ByteOrder {
	if cpu.IsBigEndian {
		return BigEndian
	}
	return LittleEndian
}
