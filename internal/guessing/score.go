package guessing

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// deaccent strips combining marks so "São Tomé" and "Sao Tome" compare equal.
var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases, strips diacritics, drops punctuation and collapses
// whitespace/hyphen runs into single spaces. Only letters, digits and word
// separators survive.
func Normalize(s string) string {
	s = strings.ToLower(s)
	if out, _, err := transform.String(deaccent, s); err == nil {
		s = out
	}
	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			pendingSpace = true
		}
	}
	return b.String()
}

// MistakesInGuess counts position-aligned character differences between the
// normalized guess and solution. Words are compared pairwise in order;
// every differing or missing character position is one mistake, and whole
// extra or missing words cost one mistake per character. Zero means the
// guess is accepted. This is deliberately not an edit distance: shifted
// word boundaries are penalized, not realigned.
func MistakesInGuess(guess, solution string) int {
	gw := strings.Fields(Normalize(guess))
	sw := strings.Fields(Normalize(solution))

	mistakes := 0
	words := len(gw)
	if len(sw) > words {
		words = len(sw)
	}
	for i := 0; i < words; i++ {
		switch {
		case i >= len(gw):
			mistakes += len([]rune(sw[i]))
		case i >= len(sw):
			mistakes += len([]rune(gw[i]))
		default:
			a := []rune(gw[i])
			b := []rune(sw[i])
			chars := len(a)
			if len(b) > chars {
				chars = len(b)
			}
			for j := 0; j < chars; j++ {
				if j >= len(a) || j >= len(b) || a[j] != b[j] {
					mistakes++
				}
			}
		}
	}
	return mistakes
}
