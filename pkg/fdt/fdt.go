package fdt

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// Magic is the first word of every flattened device tree blob.
const Magic = 0xd00dfeed

// Structure block tokens
const (
	TokenBeginNode = 0x00000001
	TokenEndNode   = 0x00000002
	TokenProp      = 0x00000003
	TokenNop       = 0x00000004
	TokenEnd       = 0x00000009
)

// Header sizes by version. Version 17 added size_dt_struct.
const (
	headerSizeV16 = 36
	headerSizeV17 = 40
)

// Oldest blob layout this reader understands.
const minCompatibleVersion = 16

var (
	ErrBadMagic           = errors.New("fdt: bad magic")
	ErrTruncated          = errors.New("fdt: truncated blob")
	ErrUnsupportedVersion = errors.New("fdt: unsupported version")
	ErrNoRoot             = errors.New("fdt: missing root node")
	ErrMalformed          = errors.New("fdt: malformed structure block")
	ErrBadValue           = errors.New("fdt: bad property value")
)

// Header mirrors the fixed fields at the start of a blob.
type Header struct {
	Magic           uint32
	TotalSize       uint32
	OffDTStruct     uint32
	OffDTStrings    uint32
	OffMemRsvmap    uint32
	Version         uint32
	LastCompVersion uint32
	BootCPUIDPhys   uint32
	SizeDTStrings   uint32
	SizeDTStruct    uint32
}

// Tree is a decoded device tree.
type Tree struct {
	Header Header
	root   *Node
}

// Root returns the root node ("/").
func (t *Tree) Root() *Node {
	return t.root
}

// Lookup resolves an absolute node path such as "/chosen" or "/soc/uart@1000".
func (t *Tree) Lookup(path string) (*Node, bool) {
	if path == "" || path[0] != '/' {
		return nil, false
	}
	node := t.root
	for _, name := range splitPath(path) {
		child, ok := node.Child(name)
		if !ok {
			return nil, false
		}
		node = child
	}
	return node, true
}

// ParseFile reads and decodes the blob at filename.
func ParseFile(filename string) (*Tree, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a complete blob held in memory.
func Parse(data []byte) (*Tree, error) {
	hdr, err := parseHeader(data)
	if err != nil {
		return nil, err
	}

	// v16 blobs do not record the structure block size.
	structEnd := uint64(hdr.TotalSize)
	if hdr.Version >= 17 {
		structEnd = uint64(hdr.OffDTStruct) + uint64(hdr.SizeDTStruct)
	}
	stringsEnd := uint64(hdr.OffDTStrings) + uint64(hdr.SizeDTStrings)
	if structEnd > uint64(hdr.TotalSize) {
		return nil, fmt.Errorf("%w: structure block outside blob", ErrTruncated)
	}
	if stringsEnd > uint64(hdr.TotalSize) {
		return nil, fmt.Errorf("%w: strings block outside blob", ErrTruncated)
	}

	d := &decoder{
		data:    data[hdr.OffDTStruct:structEnd],
		strings: data[hdr.OffDTStrings:stringsEnd],
	}
	root, err := d.decode()
	if err != nil {
		return nil, err
	}

	return &Tree{Header: hdr, root: root}, nil
}

func parseHeader(data []byte) (Header, error) {
	var hdr Header
	if len(data) < headerSizeV16 {
		return hdr, fmt.Errorf("%w: %d bytes is shorter than a header", ErrTruncated, len(data))
	}

	be := binary.BigEndian
	hdr.Magic = be.Uint32(data[0:4])
	if hdr.Magic != Magic {
		return hdr, fmt.Errorf("%w: 0x%08X", ErrBadMagic, hdr.Magic)
	}
	hdr.TotalSize = be.Uint32(data[4:8])
	hdr.OffDTStruct = be.Uint32(data[8:12])
	hdr.OffDTStrings = be.Uint32(data[12:16])
	hdr.OffMemRsvmap = be.Uint32(data[16:20])
	hdr.Version = be.Uint32(data[20:24])
	hdr.LastCompVersion = be.Uint32(data[24:28])
	hdr.BootCPUIDPhys = be.Uint32(data[28:32])
	hdr.SizeDTStrings = be.Uint32(data[32:36])

	if hdr.LastCompVersion > 17 || hdr.Version < minCompatibleVersion {
		return hdr, fmt.Errorf("%w: version %d (last compatible %d)",
			ErrUnsupportedVersion, hdr.Version, hdr.LastCompVersion)
	}
	if hdr.Version >= 17 {
		if len(data) < headerSizeV17 {
			return hdr, fmt.Errorf("%w: %d bytes is shorter than a v17 header", ErrTruncated, len(data))
		}
		hdr.SizeDTStruct = be.Uint32(data[36:40])
	}

	if uint64(hdr.TotalSize) > uint64(len(data)) {
		return hdr, fmt.Errorf("%w: header claims %d bytes, have %d", ErrTruncated, hdr.TotalSize, len(data))
	}
	if hdr.OffDTStruct > hdr.TotalSize || hdr.OffDTStrings > hdr.TotalSize {
		return hdr, fmt.Errorf("%w: block offset past end of blob", ErrTruncated)
	}

	return hdr, nil
}

// decoder walks the structure block token stream.
type decoder struct {
	data    []byte
	strings []byte
	off     int
}

func (d *decoder) decode() (*Node, error) {
	tok, err := d.nextToken()
	if err != nil {
		return nil, err
	}
	if tok != TokenBeginNode {
		return nil, fmt.Errorf("%w: first token is 0x%X", ErrNoRoot, tok)
	}
	root, err := d.node()
	if err != nil {
		return nil, err
	}

	for {
		tok, err := d.nextToken()
		if err != nil {
			return nil, err
		}
		switch tok {
		case TokenNop:
			continue
		case TokenEnd:
			return root, nil
		default:
			return nil, fmt.Errorf("%w: unexpected token 0x%X after root node", ErrMalformed, tok)
		}
	}
}

// node decodes one node; the BEGIN_NODE token has already been consumed.
func (d *decoder) node() (*Node, error) {
	name, err := d.cstring()
	if err != nil {
		return nil, err
	}
	n := &Node{Name: name}

	for {
		tok, err := d.nextToken()
		if err != nil {
			return nil, err
		}
		switch tok {
		case TokenNop:
		case TokenProp:
			prop, err := d.property()
			if err != nil {
				return nil, fmt.Errorf("node %q: %w", name, err)
			}
			n.Properties = append(n.Properties, prop)
		case TokenBeginNode:
			child, err := d.node()
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		case TokenEndNode:
			return n, nil
		default:
			return nil, fmt.Errorf("%w: unexpected token 0x%X in node %q", ErrMalformed, tok, name)
		}
	}
}

func (d *decoder) property() (Property, error) {
	length, err := d.uint32()
	if err != nil {
		return Property{}, err
	}
	nameOff, err := d.uint32()
	if err != nil {
		return Property{}, err
	}
	if uint64(d.off)+uint64(length) > uint64(len(d.data)) {
		return Property{}, fmt.Errorf("%w: property value runs past structure block", ErrTruncated)
	}
	value := d.data[d.off : d.off+int(length)]
	d.off = align4(d.off + int(length))

	name, err := d.stringAt(nameOff)
	if err != nil {
		return Property{}, err
	}
	return Property{Name: name, Value: value}, nil
}

func (d *decoder) nextToken() (uint32, error) {
	return d.uint32()
}

func (d *decoder) uint32() (uint32, error) {
	if d.off+4 > len(d.data) {
		return 0, fmt.Errorf("%w: structure block ended at offset %d", ErrTruncated, d.off)
	}
	v := binary.BigEndian.Uint32(d.data[d.off:])
	d.off += 4
	return v, nil
}

// cstring reads a NUL-terminated node name and skips its padding.
func (d *decoder) cstring() (string, error) {
	end := bytes.IndexByte(d.data[d.off:], 0)
	if end < 0 {
		return "", fmt.Errorf("%w: unterminated node name", ErrTruncated)
	}
	s := string(d.data[d.off : d.off+end])
	d.off = align4(d.off + end + 1)
	return s, nil
}

func (d *decoder) stringAt(off uint32) (string, error) {
	if uint64(off) >= uint64(len(d.strings)) {
		return "", fmt.Errorf("%w: name offset %d outside strings block", ErrMalformed, off)
	}
	end := bytes.IndexByte(d.strings[off:], 0)
	if end < 0 {
		return "", fmt.Errorf("%w: unterminated property name", ErrMalformed)
	}
	return string(d.strings[off : int(off)+end]), nil
}

func align4(n int) int {
	return (n + 3) &^ 3
}

func splitPath(path string) []string {
	var parts []string
	start := 1
	for i := 1; i <= len(path); i++ {
		if i == len(path) || path[i] == '/' {
			if i > start {
				parts = append(parts, path[start:i])
			}
			start = i + 1
		}
	}
	return parts
}
