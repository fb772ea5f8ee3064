package dtbdata

import (
	"fmt"
	"strings"
)

// Quote renders s as a double-quoted dts string literal. Backslash, double
// quote and control bytes are escaped; everything else is copied verbatim.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if c < 0x20 || c == 0x7f {
				fmt.Fprintf(&b, `\x%02x`, c)
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// CommentSafe makes s safe to place inside a /* */ comment.
func CommentSafe(s string) string {
	return strings.ReplaceAll(s, "*/", "* /")
}
