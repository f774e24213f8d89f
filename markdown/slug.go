package markdown

import (
	"strings"
	"unicode"
)

// Slugify derives a URL-safe anchor from heading text: lowercase, whitespace
// collapsed to hyphens, everything outside Unicode letters, digits, marks and
// hyphens dropped, runs of hyphens collapsed and trimmed.
//
// Draft file names go through go-slug instead (see the drafts package); this
// slugifier exists because anchor ids fix an exact character class that the
// general-purpose normalizer does not guarantee.
func Slugify(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))

	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		switch {
		case unicode.IsSpace(r):
			b.WriteByte('-')
		case r == '-', unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsMark(r):
			b.WriteRune(r)
		}
	}

	slug := b.String()
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	return strings.Trim(slug, "-")
}
