// Package branch resolves the inconsistent branch spellings found in
// the source sheets to one canonical label. Sheet headers accumulate
// trailing spaces, footnote marks and casing drift across the
// independently maintained sources; without normalization the same
// physical branch shows up as several distinct entities.
package branch

import (
	"strings"
	"unicode"
)

// NormalizeKey lowercases the label and strips every rune that is not
// an ASCII letter, an ASCII digit or a Thai codepoint. The result is
// used purely for equality comparison and never displayed.
func NormalizeKey(label string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(label) {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.Is(unicode.Thai, r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Resolve returns the first canonical label whose normalized key
// matches the raw label. The canonical set is expected to be unique
// under NormalizeKey; ties go to iteration order.
func Resolve(raw string, canonical []string) (string, bool) {
	key := NormalizeKey(raw)
	if key == "" {
		return "", false
	}
	for _, label := range canonical {
		if NormalizeKey(label) == key {
			return label, true
		}
	}
	return "", false
}
