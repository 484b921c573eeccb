package recipe

import (
	"strings"
	"unicode"
)

// CleanIngredients lowercases an ingredient list and strips punctuation and
// formatting artifacts, leaving space-separated alphanumeric tokens. The
// result feeds the vectorizer, so the transform must be deterministic and
// idempotent: cleaning an already-clean string returns it unchanged.
func CleanIngredients(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pendingSpace := false
	for _, r := range s {
		r = unicode.ToLower(r)
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}

	return b.String()
}

// Tokenize splits normalized text into its tokens. Input that has not been
// through CleanIngredients is normalized first.
func Tokenize(s string) []string {
	cleaned := CleanIngredients(s)
	if cleaned == "" {
		return nil
	}
	return strings.Fields(cleaned)
}
