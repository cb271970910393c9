// Package normalize turns raw OCR field text into typed values, absorbing
// common character-confusion noise. Normalization is total: any input
// string yields a value or a clean failure, never an error.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Glyphs the OCR engine frequently confuses with digits. The rewrite runs
// before any digit extraction so that e.g. "2O" reads as 20.
var confusables = map[rune]rune{
	'O': '0', 'o': '0',
	'I': '1', 'l': '1',
	'S': '5', 's': '5',
	'G': '6',
	'B': '8',
	'Q': '0', 'C': '0',
	'(': '0', ')': '0',
}

var digitRun = regexp.MustCompile(`[0-9]+`)

// Normalizer converts raw field text into numbers and cleaned names.
type Normalizer struct {
	denyList map[string]struct{}
}

// New creates a Normalizer with the default deny-list.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		denyList: make(map[string]struct{}),
	}
	for _, w := range defaultDenyList {
		n.denyList[w] = struct{}{}
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Known false-positive strings: UI chrome and filename fragments that the
// OCR pass picks up around the member list.
var defaultDenyList = []string{
	"screenshot",
	"png",
	"jpg",
	"rank",
	"power",
	"member",
	"members",
}

// Number extracts an integer from raw OCR text. It rewrites confusable
// glyphs, drops a short leading chunk that bled in from an adjacent
// column, strips grouping separators, and parses the first digit run.
// Returns (0, false) when no usable number is present.
func (n *Normalizer) Number(text string) (int64, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}
	// The confusable rewrite repairs digits, it must not invent them:
	// without at least one genuine digit the text is not a number.
	if countDigits(text) == 0 {
		return 0, false
	}

	text = dropLeadingBleed(text)
	text = rewriteConfusables(text)
	text = stripGroupingSeparators(text)

	run := digitRun.FindString(text)
	if run == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(run, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Name strips everything outside letters, digits, underscore, and hyphen.
// Unicode letter classes are used so non-Latin scripts survive intact.
// Purely numeric results and deny-listed strings are rejected as misreads
// of an adjacent numeric field or UI chrome.
func (n *Normalizer) Name(text string) string {
	var b strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := strings.TrimSpace(b.String())
	if cleaned == "" {
		return ""
	}
	if isPurelyNumeric(cleaned) {
		return ""
	}
	if _, denied := n.denyList[strings.ToLower(cleaned)]; denied {
		return ""
	}
	return cleaned
}

// ConfusablesToDigits exposes the confusable-glyph rewrite so callers can
// judge field noise after correction rather than before it.
func ConfusablesToDigits(s string) string {
	return rewriteConfusables(s)
}

// rewriteConfusables maps visually similar glyphs onto digits.
func rewriteConfusables(s string) string {
	return strings.Map(func(r rune) rune {
		if d, ok := confusables[r]; ok {
			return d
		}
		return r
	}, s)
}

// dropLeadingBleed discards a short leading chunk (<=2 characters) when a
// much longer digit-heavy chunk follows. This handles overlap bleed from
// the rank column into an adjacent field's crop.
func dropLeadingBleed(s string) string {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return s
	}
	first := fields[0]
	if len([]rune(first)) <= 2 && countDigits(rewriteConfusables(fields[1])) >= 4 {
		return strings.Join(fields[1:], " ")
	}
	return s
}

// stripGroupingSeparators removes punctuation that acts as a thousands
// separator: a '.', ',', apostrophe, or space followed by exactly three
// digits. Anything else keeps its role as a number boundary.
func stripGroupingSeparators(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if (r == '.' || r == ',' || r == '\'' || r == ' ') && followedByGroup(runes, i+1) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// followedByGroup reports whether exactly three digits start at i.
func followedByGroup(runes []rune, i int) bool {
	if i+3 > len(runes) {
		return false
	}
	for j := i; j < i+3; j++ {
		if !unicode.IsDigit(runes[j]) {
			return false
		}
	}
	if i+3 < len(runes) && unicode.IsDigit(runes[i+3]) {
		return false
	}
	return true
}

func countDigits(s string) int {
	c := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			c++
		}
	}
	return c
}

func isPurelyNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
