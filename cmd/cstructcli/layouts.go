package main

import "github.com/rawbindata/cstruct"

// registry holds the example layouts this CLI can pack/unpack against.
// A real caller would build its own tree (by hand, or from a C header
// via the out-of-scope importer) and wouldn't need this; it exists so
// the CLI has something concrete to demonstrate without an input file
// format of its own.
var registry = cstruct.NewBuilderContext()

func init() {
	registry.Register("tlv", buildTLV())
	registry.Register("netmsg", buildNetMsg())
	registry.Register("flags", buildFlags())
}

// buildTLV is the type/length/value struct from the documented
// scenarios: a one-byte command enum, a big-endian length, and a
// string whose size is derived from the length field.
func buildTLV() *cstruct.Struct {
	cmdEnum, err := cstruct.NewEnum(cstruct.U8(),
		cstruct.Sym("invalid"),
		cstruct.Sym("hello"),
		cstruct.Sym("read"),
		cstruct.Sym("write"),
		cstruct.Sym("goodbye"),
	)
	if err != nil {
		panic(err)
	}
	tlv, err := cstruct.NewStruct(nil,
		cstruct.NamedField("type", cmdEnum),
		cstruct.NamedField("len", cstruct.U32().WithEndian(cstruct.Big)),
		cstruct.NamedField("value", cstruct.GreedyString()),
	)
	if err != nil {
		panic(err)
	}
	return tlv.Sized(func(partial map[string]any) int {
		off, _ := tlv.Offsetof("value")
		n, _ := partial["len"].(int64)
		if n == 0 {
			if u, ok := partial["len"].(uint64); ok {
				n = int64(u)
			}
		}
		return off + int(n)
	})
}

// buildNetMsg is a command union: the "type" member names which of
// the other members is active, so reading it back yields both the
// discriminant and the active payload.
func buildNetMsg() *cstruct.Union {
	cmdEnum, err := cstruct.NewEnum(cstruct.U8(),
		cstruct.Sym("invalid"),
		cstruct.Sym("hello"),
		cstruct.Sym("read"),
		cstruct.Sym("write"),
		cstruct.Sym("goodbye"),
	)
	if err != nil {
		panic(err)
	}
	hello, err := cstruct.NewStruct(nil,
		cstruct.NamedField("type", cmdEnum),
		cstruct.NamedField("version", cstruct.FixedString(16)),
	)
	if err != nil {
		panic(err)
	}
	read, err := cstruct.NewStruct(nil,
		cstruct.NamedField("type", cmdEnum),
		cstruct.NamedField("offset", cstruct.U64()),
		cstruct.NamedField("len", cstruct.U64()),
	)
	if err != nil {
		panic(err)
	}
	u, err := cstruct.NewUnion(nil,
		cstruct.NamedMember("hello", hello),
		cstruct.NamedMember("read", read),
		cstruct.NamedMember("type", cmdEnum),
	)
	if err != nil {
		panic(err)
	}
	return u.WithEndian(cstruct.Big).(*cstruct.Union)
}

// buildFlags is a permissive byte of named single-bit flags.
func buildFlags() *cstruct.Bitmap {
	b, err := cstruct.NewBitmap(cstruct.U8(),
		cstruct.Flag("read", 0),
		cstruct.Flag("write", 1),
		cstruct.Flag("exec", 2),
	)
	if err != nil {
		panic(err)
	}
	return b.Permissive()
}
