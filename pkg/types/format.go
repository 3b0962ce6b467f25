package types

import "strings"

// missingValue is rendered for placeholders with no matching attribute.
const missingValue = "<none>"

// renderFormat substitutes {key} placeholders using lookup. "{{" and "}}"
// produce literal braces. An unterminated "{" is copied through as is.
func renderFormat(format string, lookup func(string) (string, bool)) string {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		switch {
		case c == '{' && i+1 < len(format) && format[i+1] == '{':
			b.WriteByte('{')
			i++
		case c == '}' && i+1 < len(format) && format[i+1] == '}':
			b.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(format[i+1:], '}')
			if end < 0 {
				b.WriteString(format[i:])
				return b.String()
			}
			key := format[i+1 : i+1+end]
			if v, ok := lookup(key); ok {
				b.WriteString(v)
			} else {
				b.WriteString(missingValue)
			}
			i += end + 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
