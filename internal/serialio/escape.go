package serialio

import "fmt"

// Escape implements the core's JSON string escaper: `"`, `\`, and the
// control characters BS/FF/LF/CR/TAB get their short escapes; any other
// byte below 0x20 becomes \u00XX. Truncates rather than overruns maxLen
// (spec.md §4.1: "truncates rather than overruns the output buffer").
func Escape(s string, maxLen int) string {
	out := make([]byte, 0, len(s)+8)
	for i := 0; i < len(s); i++ {
		c := s[i]
		var esc string
		switch c {
		case '"':
			esc = `\"`
		case '\\':
			esc = `\\`
		case '\b':
			esc = `\b`
		case '\f':
			esc = `\f`
		case '\n':
			esc = `\n`
		case '\r':
			esc = `\r`
		case '\t':
			esc = `\t`
		default:
			if c < 0x20 {
				esc = fmt.Sprintf(`\u%04x`, c)
			} else {
				if len(out) >= maxLen {
					return string(out)
				}
				out = append(out, c)
				continue
			}
		}
		if len(out)+len(esc) > maxLen {
			return string(out)
		}
		out = append(out, esc...)
	}
	return string(out)
}
