package mapfile

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// File is a parsed dts document.
type File struct {
	Version string  `@Directive ";"`
	Items   []*Item `@@*`
}

// Item is a top-level comment or node.
type Item struct {
	Comment *string `  @Comment`
	Node    *Node   `| @@`
}

// Node is a dts node block: name { ... };
type Node struct {
	Pos lexer.Position

	Name    string       `@( "/" | Ident ) "{"`
	Entries []*NodeEntry `@@* "}" ";"`
}

// NodeEntry is a comment, property or child node inside a node.
type NodeEntry struct {
	Comment  *string   `  @Comment`
	Node     *Node     `| @@`
	Property *Property `| @@`
}

// Property is name = value, value; or a bare name;
type Property struct {
	Pos lexer.Position

	Name   string   `@Ident`
	Values []*Value `( "=" @@ ( "," @@ )* )? ";"`
}

// Value is a string literal or a <cell list>.
type Value struct {
	String *string   `  @String`
	Cells  *CellList `| @@`
}

// CellList is <a b c>.
type CellList struct {
	Cells []string `"<" @Ident* ">"`
}

// Strings returns the string values of p in order, skipping cell lists.
func (p *Property) Strings() []string {
	var out []string
	for _, v := range p.Values {
		if v.String != nil {
			out = append(out, *v.String)
		}
	}
	return out
}
