// Package naming splits Go identifiers into words for the separated-case
// naming policies.
package naming

import (
	"strings"
	"unicode"
)

// Words splits an identifier into words at separators, lower-to-upper
// transitions and the end of acronyms.
//
//	"OrderID"         -> ["Order", "ID"]
//	"XMLParser"       -> ["XML", "Parser"]
//	"getHTTPResponse" -> ["get", "HTTP", "Response"]
//	"horn_lengths"    -> ["horn", "lengths"]
func Words(s string) []string {
	if s == "" {
		return nil
	}
	var (
		words []string
		cur   strings.Builder
	)
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}
		if i > 0 && startsWord(runes, i) {
			flush()
		}
		cur.WriteRune(r)
	}
	flush()
	return words
}

// Join lower- or upper-cases every word and joins them with sep.
func Join(words []string, sep string, upper bool) string {
	var b strings.Builder
	for i, w := range words {
		if i > 0 {
			b.WriteString(sep)
		}
		if upper {
			b.WriteString(strings.ToUpper(w))
		} else {
			b.WriteString(strings.ToLower(w))
		}
	}
	return b.String()
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}

func startsWord(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if isSeparator(prev) {
		return false
	}
	upper, prevUpper := unicode.IsUpper(r), unicode.IsUpper(prev)
	if upper && !prevUpper {
		return true
	}
	// "XMLParser": the P that is followed by a lower-case rune opens a word.
	if upper && prevUpper && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
		return true
	}
	// "Version2Beta": a letter after a digit opens a word.
	return unicode.IsLetter(r) && unicode.IsDigit(prev)
}
