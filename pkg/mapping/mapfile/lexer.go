package mapfile

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// DTSLexer covers the subset of dts syntax the generator emits plus line
// comments and cell lists, so hand-edited mapping files still parse.
var DTSLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Block comments are kept; the warning block lives in one.
	{Name: "Comment", Pattern: `/\*(?s:.*?)\*/`},
	{Name: "LineComment", Pattern: `//[^\n]*`},
	{Name: "Whitespace", Pattern: `[\s]+`},

	// Version tag
	{Name: "Directive", Pattern: `/dts-v1/`},

	// String literals with escape sequences
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},

	// Node and property names, unit addresses and cell values.
	// Commas are allowed after the first character (vendor,prop).
	{Name: "Ident", Pattern: `[A-Za-z0-9_#&][A-Za-z0-9,._+@#\-]*`},

	{Name: "Punct", Pattern: `[/{};=,<>]`},
})
