// Package textutil provides filename sanitization for staged asset names.
package textutil

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SanitizeToken converts a string to a lowercase filesystem-safe token.
// Letters are lowercased, digits and hyphens/underscores are kept, everything
// else becomes an underscore. Returns "unknown" for empty input.
func SanitizeToken(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "_-")
	if out == "" {
		return "unknown"
	}
	return out
}

// FileToken builds a collision-free file name token: the sanitized form of
// value plus a short digest of the original bytes. Distinct values whose
// sanitized forms collide still get distinct tokens.
func FileToken(value string) string {
	sum := sha256.Sum256([]byte(value))
	return SanitizeToken(value) + "_" + hex.EncodeToString(sum[:4])
}
