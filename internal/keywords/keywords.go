// Package keywords derives search terms from chat text.
package keywords

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinLength is the exclusive lower bound on token length, in characters.
const MinLength = 3

// Separator joins keywords in their serialized form.
const Separator = ","

// Extract splits text on white space (see isSpace) and keeps tokens longer
// than MinLength characters. Case and punctuation are left untouched,
// duplicates are kept and order follows the input.
func Extract(text string) []string {
	fields := strings.FieldsFunc(text, isSpace)
	result := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) > MinLength {
			result = append(result, f)
		}
	}
	return result
}

// isSpace reports Unicode white space and the ASCII information separators
// U+001C..U+001F.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// Join serializes keywords into the stored representation.
func Join(tokens []string) string {
	return strings.Join(tokens, Separator)
}

// Split is the inverse of Join.
func Split(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, Separator)
}
