package phrase

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	letterPattern = regexp.MustCompile(`[\x{4e00}-\x{9fa5}a-zA-Z]`)
	datePattern   = regexp.MustCompile(`^\d{4}[-/年]\d{1,2}[-/月]\d{1,2}`)
)

func isSentenceBreak(r rune) bool {
	switch r {
	case '。', '．', '.', '？', '?', '！', '!', '；', ';', '\n', '\r':
		return true
	default:
		return false
	}
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// Segment splits text into raw sentences on sentence-ending punctuation and
// line breaks. A half-width period between two digits is a decimal point and
// does not end a sentence. Empty pieces are kept; Filter removes them.
func Segment(text string) []string {
	runes := []rune(text)
	var out []string
	start := 0
	for i, r := range runes {
		if !isSentenceBreak(r) {
			continue
		}
		if r == '.' && i > 0 && i+1 < len(runes) && isASCIIDigit(runes[i-1]) && isASCIIDigit(runes[i+1]) {
			continue
		}
		out = append(out, string(runes[start:i]))
		start = i + 1
	}
	out = append(out, string(runes[start:]))
	return out
}

// Filter trims each sentence and keeps, in order, those worth offering as a
// reusable phrase.
func Filter(sentences []string, minLength int) []string {
	kept := make([]string, 0, len(sentences))
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if keep(s, minLength) {
			kept = append(kept, s)
		}
	}
	return kept
}

// keep rejects short strings, pure numbers, strings without a Latin or CJK
// letter, and strings that start with a calendar date.
func keep(s string, minLength int) bool {
	if utf8.RuneCountInString(s) < minLength {
		return false
	}
	if isAllDigits(s) {
		return false
	}
	if !letterPattern.MatchString(s) {
		return false
	}
	return !datePattern.MatchString(s)
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
