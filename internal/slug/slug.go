// Package slug derives stable URL- and anchor-safe identifiers from
// heading text.
package slug

import (
	"fmt"
	"strings"
	"unicode"
)

// MaxLength bounds generated slugs so anchors stay readable.
const MaxLength = 48

// asciiFold maps common accented letters to ASCII equivalents so slugs
// stay portable across EPUB readers and DOCX bookmark rules.
var asciiFold = map[rune]string{
	'á': "a", 'à': "a", 'â': "a", 'ä': "a", 'ã': "a",
	'é': "e", 'è': "e", 'ê': "e", 'ë': "e",
	'í': "i", 'ì': "i", 'î': "i", 'ï': "i",
	'ó': "o", 'ò': "o", 'ô': "o", 'ö': "o", 'õ': "o",
	'ú': "u", 'ù': "u", 'û': "u", 'ü': "u",
	'ñ': "n", 'ç': "c", 'ß': "ss",
}

// Make converts text to a lowercase hyphen-separated slug.
// Returns "untitled" for text with no usable characters.
func Make(text string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		if folded, ok := asciiFold[r]; ok {
			b.WriteString(folded)
			lastHyphen = false
			continue
		}
		switch {
		case unicode.IsLetter(r) && r < 128, unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	s := strings.Trim(b.String(), "-")
	if len(s) > MaxLength {
		s = strings.Trim(s[:MaxLength], "-")
	}
	if s == "" {
		return "untitled"
	}
	return s
}

// MakeUnique derives a slug from text and disambiguates it by position
// when the base form was already taken. The seen map is updated in place.
func MakeUnique(text string, position int, seen map[string]bool) string {
	s := Make(text)
	if !seen[s] {
		seen[s] = true
		return s
	}
	s = fmt.Sprintf("%s-%d", s, position)
	seen[s] = true
	return s
}

// IsGenerated reports whether id looks machine-assigned rather than
// human-chosen: the parser's positional ids ("el-12", "chapter-3") and
// empty ids qualify.
func IsGenerated(id string) bool {
	if id == "" {
		return true
	}
	for _, prefix := range []string{"el-", "chapter-", "section-", "subsection-", "heading-"} {
		if rest, ok := strings.CutPrefix(id, prefix); ok {
			if rest == "" {
				return true
			}
			allDigits := true
			for _, r := range rest {
				if !unicode.IsDigit(r) {
					allDigits = false
					break
				}
			}
			if allDigits {
				return true
			}
		}
	}
	return false
}
