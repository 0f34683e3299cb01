package core

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	pdfMaxLen = 100
)

var (
	tagRegex         = regexp.MustCompile(`<[^>]*>`)
	jsProtocolRegex  = regexp.MustCompile(`(?i)javascript:`)
	eventHandlerRegx = regexp.MustCompile(`(?i)on\w+\s*=`)
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// Sanitize turns untrusted input into plain text of at most maxLen runes.
// Markup is stripped, script-triggering substrings are removed and
// leftover angle brackets are dropped. Sanitize(Sanitize(s, n), n) == Sanitize(s, n).
func Sanitize(s string, maxLen int) string {
	s = norm.NFC.String(strings.ToValidUTF8(s, ""))
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			if unicode.IsSpace(r) {
				return ' '
			}
			return -1
		}
		return r
	}, s)

	// removals can join fragments into new matches, so repeat until stable
	for {
		prev := s
		s = tagRegex.ReplaceAllString(s, "")
		s = strings.NewReplacer("<", "", ">", "").Replace(s)
		s = jsProtocolRegex.ReplaceAllString(s, "")
		s = eventHandlerRegx.ReplaceAllString(s, "")
		// unicode spaces become ASCII here, which \s in the patterns above can match
		s = strings.Join(strings.Fields(s), " ")
		if s == prev {
			break
		}
	}
	return truncate(s, maxLen)
}

// SanitizeForPDF strips control characters, escapes the characters PDF strings reserve
// and caps the length of `s`.
func SanitizeForPDF(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || (r >= 0x7F && r <= 0x9F) {
			return -1
		}
		return r
	}, strings.ToValidUTF8(s, ""))
	s = truncate(s, pdfMaxLen)
	return strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`).Replace(s)
}

// truncate cuts `s` to n runes; a trailing space left by the cut is trimmed.
func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n]))
}
