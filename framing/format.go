package framing

import (
	"fmt"
	"strings"
)

func byteName(b byte) string {
	switch b {
	case Start:
		return "START"
	case End:
		return "END"
	case Escape:
		return "ESCAPE"
	default:
		return fmt.Sprintf("0x%02X", b)
	}
}

// Format renders b for humans, naming reserved bytes, e.g.
// "len=3 {START, 0x41, END}".
func Format(b []byte) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "len=%d {", len(b))
	for i, c := range b {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(byteName(c))
	}
	sb.WriteByte('}')
	return sb.String()
}
