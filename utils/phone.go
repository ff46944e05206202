package utils

import "strings"

// NormalizeContactNumber strips punctuation from a spoken or typed phone
// number, keeping digits and a single leading plus.
func NormalizeContactNumber(raw string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
