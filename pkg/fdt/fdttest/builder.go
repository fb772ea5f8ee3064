// Package fdttest assembles device tree blobs for tests.
package fdttest

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// Node describes a node to be encoded.
type Node struct {
	Name     string
	Props    []Prop
	Children []Node
}

// Prop is a raw property.
type Prop struct {
	Name  string
	Value []byte
}

// String builds a string property value.
func String(name, value string) Prop {
	return Prop{Name: name, Value: append([]byte(value), 0)}
}

// StringList builds a stringlist property value.
func StringList(name string, values ...string) Prop {
	var buf bytes.Buffer
	for _, v := range values {
		buf.WriteString(v)
		buf.WriteByte(0)
	}
	return Prop{Name: name, Value: buf.Bytes()}
}

// U32 builds a single-cell property value.
func U32(name string, v uint32) Prop {
	return Prop{Name: name, Value: binary.BigEndian.AppendUint32(nil, v)}
}

// Board returns a root node carrying model and compatible, the shape of a
// kernel board dtb. A nil compatibles slice omits the property.
func Board(model string, compatibles ...string) Node {
	root := Node{}
	if model != "" {
		root.Props = append(root.Props, String("model", model))
	}
	if compatibles != nil {
		root.Props = append(root.Props, StringList("compatible", compatibles...))
	}
	root.Props = append(root.Props, U32("#address-cells", 2), U32("#size-cells", 2))
	root.Children = []Node{{Name: "chosen"}}
	return root
}

const (
	headerSize  = 40
	rsvmapSize  = 16 // a single terminating entry
	version     = 17
	lastCompVer = 16
)

// Build encodes root as a version 17 blob.
func Build(root Node) []byte {
	e := &encoder{names: make(map[string]uint32)}
	e.node(root)
	e.u32(0x00000009)

	offStruct := headerSize + rsvmapSize
	offStrings := offStruct + e.structs.Len()
	total := offStrings + e.strings.Len()

	var out bytes.Buffer
	for _, v := range []uint32{
		0xd00dfeed,
		uint32(total),
		uint32(offStruct),
		uint32(offStrings),
		headerSize,
		version,
		lastCompVer,
		0,
		uint32(e.strings.Len()),
		uint32(e.structs.Len()),
	} {
		out.Write(binary.BigEndian.AppendUint32(nil, v))
	}
	out.Write(make([]byte, rsvmapSize))
	out.Write(e.structs.Bytes())
	out.Write(e.strings.Bytes())
	return out.Bytes()
}

// WriteFile encodes root into dir/rel, creating parent directories.
func WriteFile(t testing.TB, dir, rel string, root Node) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, Build(root), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", rel, err)
	}
	return path
}

// WriteBoard is WriteFile for a Board node.
func WriteBoard(t testing.TB, dir, rel, model string, compatibles ...string) string {
	t.Helper()
	return WriteFile(t, dir, rel, Board(model, compatibles...))
}

type encoder struct {
	structs bytes.Buffer
	strings bytes.Buffer
	names   map[string]uint32
}

func (e *encoder) node(n Node) {
	e.u32(0x00000001)
	e.structs.WriteString(n.Name)
	e.structs.WriteByte(0)
	e.pad()
	for _, p := range n.Props {
		e.u32(0x00000003)
		e.u32(uint32(len(p.Value)))
		e.u32(e.nameOffset(p.Name))
		e.structs.Write(p.Value)
		e.pad()
	}
	for _, child := range n.Children {
		e.node(child)
	}
	e.u32(0x00000002)
}

func (e *encoder) nameOffset(name string) uint32 {
	if off, ok := e.names[name]; ok {
		return off
	}
	off := uint32(e.strings.Len())
	e.strings.WriteString(name)
	e.strings.WriteByte(0)
	e.names[name] = off
	return off
}

func (e *encoder) u32(v uint32) {
	e.structs.Write(binary.BigEndian.AppendUint32(nil, v))
}

func (e *encoder) pad() {
	for e.structs.Len()%4 != 0 {
		e.structs.WriteByte(0)
	}
}
