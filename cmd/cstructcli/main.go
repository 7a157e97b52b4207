// Command cstructcli exercises a fixed set of example layouts
// (tlv, netmsg, flags) built in layouts.go: pack JSON into bytes,
// unpack bytes into JSON, or describe a layout's shape.
package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/creachadair/command"
	"github.com/creachadair/flax"
	"github.com/kr/pretty"
	"github.com/rawbindata/cstruct"
)

var globalArgs struct {
	Endian string `flag:"endian,Caller-supplied endian when the layout doesn't fix one (little, big)"`
}

func callerEndian() ([]cstruct.Option, error) {
	switch globalArgs.Endian {
	case "":
		return nil, nil
	case "little":
		return []cstruct.Option{cstruct.UseEndian(cstruct.Little)}, nil
	case "big":
		return []cstruct.Option{cstruct.UseEndian(cstruct.Big)}, nil
	default:
		return nil, fmt.Errorf("unknown --endian %q, want little or big", globalArgs.Endian)
	}
}

func main() {
	root := &command.C{
		Name:     "cstructcli",
		Usage:    "command args...",
		SetFlags: command.Flags(flax.MustBind, &globalArgs),
		Commands: []*command.C{
			{
				Name:  "list",
				Usage: "list",
				Help:  "List the registered example layouts.",
				Run:   command.Adapt(runList),
			},
			{
				Name:  "describe",
				Usage: "describe layout",
				Help:  "Print a layout's size and variability.",
				Run:   command.Adapt(runDescribe),
			},
			{
				Name:  "pack",
				Usage: "pack layout json",
				Help:  "Pack a JSON value into bytes under the named layout, printed as hex.",
				Run:   command.Adapt(runPack),
			},
			{
				Name:  "unpack",
				Usage: "unpack layout hex",
				Help:  "Unpack hex bytes under the named layout, printed as JSON-ish Go values.",
				Run:   command.Adapt(runUnpack),
			},
			command.HelpCommand(nil),
			command.VersionCommand(),
		},
	}

	env := root.NewEnv(nil).SetContext(context.Background())
	command.RunOrFail(env, os.Args[1:])
}

func runList(env *command.Env) error {
	for _, name := range []string{"tlv", "netmsg", "flags"} {
		fmt.Println(name)
	}
	return nil
}

func lookupLayout(name string) (cstruct.Descriptor, error) {
	d, ok := registry.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("no layout registered under %q", name)
	}
	return d, nil
}

func runDescribe(env *command.Env, layout string) error {
	d, err := lookupLayout(layout)
	if err != nil {
		return err
	}
	fmt.Printf("size: %d\n", d.Size())
	fmt.Printf("fixed size: %v\n", d.FixedSize())
	fmt.Printf("greedy: %v\n", d.Greedy())
	if e, ok := d.FixedEndian(); ok {
		fmt.Printf("fixed endian: %v\n", e)
	} else {
		fmt.Println("fixed endian: none")
	}
	pretty.Println(d.DefaultValue())
	return nil
}

func runPack(env *command.Env, layout, input string) error {
	d, err := lookupLayout(layout)
	if err != nil {
		return err
	}
	var raw any
	if err := json.Unmarshal([]byte(input), &raw); err != nil {
		return fmt.Errorf("parsing json: %w", err)
	}
	opts, err := callerEndian()
	if err != nil {
		return err
	}
	bs, err := d.Pack(normalizeJSON(raw), opts...)
	if err != nil {
		return fmt.Errorf("packing: %w", err)
	}
	fmt.Println(hex.EncodeToString(bs))
	return nil
}

func runUnpack(env *command.Env, layout, input string) error {
	d, err := lookupLayout(layout)
	if err != nil {
		return err
	}
	bs, err := hex.DecodeString(input)
	if err != nil {
		return fmt.Errorf("parsing hex: %w", err)
	}
	opts, err := callerEndian()
	if err != nil {
		return err
	}
	val, tail, err := d.UnpackOne(bs, opts...)
	if err != nil {
		return fmt.Errorf("unpacking: %w", err)
	}
	pretty.Println(val)
	if len(tail) > 0 {
		fmt.Printf("%d trailing byte(s) unconsumed\n", len(tail))
	}
	return nil
}

// normalizeJSON walks a decoded JSON value, converting encoding/json's
// float64 numbers into int64 wherever they carry no fractional part,
// since every cstruct integer codec expects int64/uint64 rather than
// float64.
func normalizeJSON(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, sub := range t {
			out[k] = normalizeJSON(sub)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, sub := range t {
			out[i] = normalizeJSON(sub)
		}
		return out
	case float64:
		if i := int64(t); float64(i) == t {
			return i
		}
		return t
	default:
		return t
	}
}
