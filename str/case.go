// Package str contains string helpers to name environment variables.
package str

import (
	"strings"
	"unicode"
)

// Words splits an identifier or a path into words, on separators (". _ -" and spaces) and on case
// changes: "Database.maxIdleConns" gives [Database max Idle Conns], "XMLHttpRequest" gives
// [XML Http Request]. Digits stick to the word they follow.
func Words(in string) []string {
	runes := []rune(strings.TrimSpace(in))

	var (
		words []string
		start = -1
	)
	flush := func(end int) {
		if start >= 0 && end > start {
			words = append(words, string(runes[start:end]))
		}
		start = -1
	}

	for i, r := range runes {
		if r == '.' || r == '_' || r == '-' || unicode.IsSpace(r) {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		if unicode.IsUpper(r) {
			prev := runes[i-1]
			nextIsLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextIsLower) {
				flush(i)
				start = i
			}
		}
	}
	flush(len(runes))
	return words
}

// ToScreamingSnakeCase joins the words of in, upper cased, with underscores.
func ToScreamingSnakeCase(in string) string {
	words := Words(in)
	for i, w := range words {
		words[i] = strings.ToUpper(w)
	}
	return strings.Join(words, "_")
}
