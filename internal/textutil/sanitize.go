package textutil

import "strings"

const maxTokenLength = 64

// SanitizeToken converts a string to a lowercase filesystem-safe token.
// Letters are lowercased, digits and hyphens are kept, and every other run of
// characters becomes a single underscore. Long inputs keep their trailing
// part, which for paths is the most specific. Returns "unknown" for empty input.
func SanitizeToken(value string) string {
	value = strings.TrimSpace(value)
	var b strings.Builder
	underscore := false
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
			underscore = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
			underscore = false
		default:
			if !underscore {
				b.WriteByte('_')
				underscore = true
			}
		}
	}
	out := b.String()
	if len(out) > maxTokenLength {
		out = out[len(out)-maxTokenLength:]
	}
	out = strings.Trim(out, "_-")
	if out == "" {
		return "unknown"
	}
	return out
}
