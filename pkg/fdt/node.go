package fdt

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Node is one node of the tree. The root node has an empty name.
type Node struct {
	Name       string
	Properties []Property
	Children   []*Node
}

// Property is a raw property value as stored in the blob.
type Property struct {
	Name  string
	Value []byte
}

// Property returns the property with the given name.
func (n *Node) Property(name string) (*Property, bool) {
	for i := range n.Properties {
		if n.Properties[i].Name == name {
			return &n.Properties[i], true
		}
	}
	return nil, false
}

// Child returns the direct child with the given full name (including any
// unit address).
func (n *Node) Child(name string) (*Node, bool) {
	for _, child := range n.Children {
		if child.Name == name {
			return child, true
		}
	}
	return nil, false
}

// StringProperty returns a string property, or "" and false when the node
// does not carry it.
func (n *Node) StringProperty(name string) (string, bool) {
	prop, ok := n.Property(name)
	if !ok {
		return "", false
	}
	s, err := prop.AsString()
	if err != nil {
		return "", false
	}
	return s, true
}

// StringListProperty returns a stringlist property such as "compatible".
func (n *Node) StringListProperty(name string) ([]string, bool) {
	prop, ok := n.Property(name)
	if !ok {
		return nil, false
	}
	list, err := prop.AsStringList()
	if err != nil {
		return nil, false
	}
	return list, true
}

// AsString decodes a NUL-terminated string value. Bytes after the first NUL
// are ignored.
func (p *Property) AsString() (string, error) {
	if len(p.Value) == 0 {
		return "", nil
	}
	end := bytes.IndexByte(p.Value, 0)
	if end < 0 {
		return "", fmt.Errorf("%w: property %q is not NUL-terminated", ErrBadValue, p.Name)
	}
	return string(p.Value[:end]), nil
}

// AsStringList decodes a sequence of NUL-terminated strings.
func (p *Property) AsStringList() ([]string, error) {
	if len(p.Value) == 0 {
		return nil, nil
	}
	if p.Value[len(p.Value)-1] != 0 {
		return nil, fmt.Errorf("%w: property %q is not NUL-terminated", ErrBadValue, p.Name)
	}
	parts := bytes.Split(p.Value[:len(p.Value)-1], []byte{0})
	list := make([]string, len(parts))
	for i, part := range parts {
		list[i] = string(part)
	}
	return list, nil
}

// AsU32 decodes a single 32-bit cell.
func (p *Property) AsU32() (uint32, error) {
	if len(p.Value) != 4 {
		return 0, fmt.Errorf("%w: property %q is %d bytes, want 4", ErrBadValue, p.Name, len(p.Value))
	}
	return binary.BigEndian.Uint32(p.Value), nil
}
