// Package mapfile reads generated fdtshim mapping documents back and applies
// the selection rule the boot shim uses on them.
package mapfile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotMapping is returned for dts documents that are not fdtshim mappings.
var ErrNotMapping = errors.New("mapfile: not an fdtshim mapping")

// Entry is one selectable dtb.
type Entry struct {
	Node        string   `json:"node"`
	DTB         string   `json:"dtb"`
	Model       string   `json:"model"`
	Compatibles []string `json:"compatible"`
}

// Compatible returns the entry's primary compatible.
func (e *Entry) Compatible() string {
	return e.Compatibles[0]
}

// Warning lists dtbs that were left out because they share a primary
// compatible.
type Warning struct {
	Compatible string   `json:"compatible"`
	Paths      []string `json:"paths"`
}

// Mapping is the decoded content of a mapping document.
type Mapping struct {
	SchemaVersion string    `json:"schema_version"`
	Generator     string    `json:"generator"`
	Entries       []Entry   `json:"entries"`
	Warnings      []Warning `json:"warnings,omitempty"`
}

// Load parses the mapping document at filename.
func Load(filename string) (*Mapping, error) {
	parser, err := NewParser()
	if err != nil {
		return nil, err
	}
	file, err := parser.ParseFile(filename)
	if err != nil {
		return nil, err
	}
	return FromFile(file)
}

// LoadString parses a mapping document held in memory.
func LoadString(input string) (*Mapping, error) {
	parser, err := NewParser()
	if err != nil {
		return nil, err
	}
	file, err := parser.ParseString(input)
	if err != nil {
		return nil, err
	}
	return FromFile(file)
}

// FromFile interprets a parsed dts document as a mapping. Root nodes are
// merged the way dtc merges repeated "/" blocks.
func FromFile(f *File) (*Mapping, error) {
	m := &Mapping{}
	var compatible string

	for _, item := range f.Items {
		if item.Comment != nil {
			m.Warnings = append(m.Warnings, parseWarnings(*item.Comment)...)
			continue
		}
		node := item.Node
		if node.Name != "/" {
			return nil, fmt.Errorf("mapfile: %s: top-level node %q is not the root", node.Pos, node.Name)
		}
		for _, entry := range node.Entries {
			switch {
			case entry.Property != nil:
				prop := entry.Property
				switch prop.Name {
				case "fdtshim,schema-version":
					m.SchemaVersion = first(prop.Strings())
				case "fdtshim,generator":
					m.Generator = first(prop.Strings())
				case "compatible":
					compatible = first(prop.Strings())
				}
			case entry.Node != nil && entry.Node.Name == "mapping":
				entries, err := mappingEntries(entry.Node)
				if err != nil {
					return nil, err
				}
				m.Entries = append(m.Entries, entries...)
			}
		}
	}

	if compatible != "fdtshim,mapping" {
		return nil, fmt.Errorf("%w: root compatible is %q", ErrNotMapping, compatible)
	}
	return m, nil
}

func mappingEntries(mapping *Node) ([]Entry, error) {
	var entries []Entry
	for _, child := range mapping.Entries {
		if child.Node == nil {
			continue
		}
		node := child.Node
		e := Entry{Node: node.Name}
		for _, prop := range node.Entries {
			if prop.Property == nil {
				continue
			}
			switch prop.Property.Name {
			case "dtb":
				e.DTB = first(prop.Property.Strings())
			case "model":
				e.Model = first(prop.Property.Strings())
			case "compatible":
				e.Compatibles = prop.Property.Strings()
			}
		}
		if e.DTB == "" {
			return nil, fmt.Errorf("mapfile: %s: entry %q has no dtb", node.Pos, node.Name)
		}
		if len(e.Compatibles) == 0 {
			return nil, fmt.Errorf("mapfile: %s: entry %q has no compatible", node.Pos, node.Name)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// parseWarnings recovers collision groups from the generator's warning
// comment. Other comments yield nothing.
func parseWarnings(comment string) []Warning {
	if !strings.Contains(comment, "WARNING:") {
		return nil
	}
	body := strings.TrimSuffix(strings.TrimPrefix(comment, "/*"), "*/")

	var warnings []Warning
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimPrefix(strings.TrimLeft(line, " \t"), "*")
		item := strings.TrimLeft(line, " ")
		if !strings.HasPrefix(item, "- ") {
			continue
		}
		value := strings.TrimSpace(item[2:])
		// group headers sit one space after the star, members are indented
		if len(line)-len(item) <= 1 {
			warnings = append(warnings, Warning{Compatible: value})
		} else if len(warnings) > 0 {
			last := &warnings[len(warnings)-1]
			last.Paths = append(last.Paths, value)
		}
	}
	return warnings
}

// Lookup picks the dtb for a board, given the board's compatible list in
// priority order. The first board compatible that equals an entry's primary
// compatible wins.
func (m *Mapping) Lookup(board ...string) (*Entry, bool) {
	for _, want := range board {
		for i := range m.Entries {
			if m.Entries[i].Compatible() == want {
				return &m.Entries[i], true
			}
		}
	}
	return nil, false
}

// Excluded reports whether compatible was dropped because of a collision.
func (m *Mapping) Excluded(compatible string) (*Warning, bool) {
	for i := range m.Warnings {
		if m.Warnings[i].Compatible == compatible {
			return &m.Warnings[i], true
		}
	}
	return nil, false
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
